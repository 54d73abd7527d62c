// models/window.go
package models

import "fmt"

// AvailabilityWindow is a doctor's recurring weekly open time range.
// Times are minutes from midnight (e.g. 540 for 9:00 AM); DayOfWeek runs
// 0-6. MaxPatients is the number of non-terminal appointments the window
// accepts per calendar date.
type AvailabilityWindow struct {
	ID          string `bson:"id" json:"id"`
	DoctorID    string `bson:"doctor_id" json:"doctor_id"`
	DayOfWeek   int    `bson:"day_of_week" json:"day_of_week"`
	StartMinute int    `bson:"start_minute" json:"start_minute"`
	EndMinute   int    `bson:"end_minute" json:"end_minute"`
	Available   bool   `bson:"available" json:"available"`
	MaxPatients int    `bson:"max_patients" json:"max_patients"`
}

// Overlaps reports whether the half-open ranges [w.Start, w.End) and
// [other.Start, other.End) intersect. Windows that merely touch at a
// boundary do not overlap.
func (w *AvailabilityWindow) Overlaps(other *AvailabilityWindow) bool {
	return w.StartMinute < other.EndMinute && w.EndMinute > other.StartMinute
}

// Contains reports whether the given minute lies inside the window's
// half-open range.
func (w *AvailabilityWindow) Contains(minute int) bool {
	return minute >= w.StartMinute && minute < w.EndMinute
}

// TimeLabel renders a minutes-from-midnight value as HH:MM.
func TimeLabel(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// WindowRequest is the payload for creating or updating an availability
// window.
type WindowRequest struct {
	DayOfWeek   int  `json:"day_of_week" binding:"min=0,max=6"`
	StartMinute int  `json:"start_minute" binding:"min=0,max=1439"`
	EndMinute   int  `json:"end_minute" binding:"min=1,max=1440"`
	Available   *bool `json:"available"`
	MaxPatients int  `json:"max_patients" binding:"omitempty,min=1"`
}

// WindowCapacity reports the remaining capacity of a window on a specific
// date.
type WindowCapacity struct {
	WindowID  string `json:"window_id"`
	Date      string `json:"date"`
	Capacity  int    `json:"capacity"`
	Booked    int    `json:"booked"`
	Remaining int    `json:"remaining"`
}
