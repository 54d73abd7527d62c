// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = 10 * time.Minute

// BookingLockPrefix is the prefix for per-slot booking lock keys.
const BookingLockPrefix = "booklock:"

// StatsCachePrefix is the prefix for cached doctor rating summaries.
const StatsCachePrefix = "docstats:"

// StatsCacheTTL is the time-to-live for cached rating summaries.
const StatsCacheTTL = 5 * time.Minute

// TokenTTL is the lifetime of issued auth tokens.
const TokenTTL = 24 * time.Hour
