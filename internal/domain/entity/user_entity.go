package entity

import (
	"strings"
	"time"
)

// DefaultRole is assigned to every account created through signup.
const DefaultRole = "user"

// User is the aggregate root for user domain
// Passwords are stored as bcrypt hashes in Password field
type User struct {
	ID        string
	Email     string
	Password  string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeEmail lower-cases and trims an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
