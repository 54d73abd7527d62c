package userRepo

import "clinicbook/models"

// UserRepository defines methods for user account data access.
type UserRepository interface {
	// GetByID retrieves a user by their unique ID.
	GetByID(id string) (*models.User, error)
	// GetByEmail retrieves a user by email.
	GetByEmail(email string) (*models.User, error)
	// GetByUsername retrieves a user by username.
	GetByUsername(username string) (*models.User, error)
	// GetByTokenHash retrieves the user holding the given session token
	// hash.
	GetByTokenHash(hash string) (*models.User, error)
	// Create inserts a new user.
	Create(user *models.User) error
	// Update modifies an existing user.
	Update(user *models.User) error
	// SetTokenHash stores or clears the user's session token hash.
	SetTokenHash(id, hash string) error
	// Delete removes a user by their ID.
	Delete(id string) error
}
