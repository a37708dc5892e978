package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Password holds the bcrypt hash and never leaves the credential store
// through any API response.
type User struct {
	ID        int64
	Username  string
	Email     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
