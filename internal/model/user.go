package model

import (
	"errors"
	"regexp"
	"time"
	"unicode"

	"github.com/google/uuid"
)

const (
	RoleEndUser = "END_USER"
	RoleAdmin   = "ADMIN"
)

// Rwandan MSISDN: +250 followed by exactly 9 digits.
var telephonePattern = regexp.MustCompile(`^\+250\d{9}$`)

var (
	ErrInvalidTelephone = errors.New("telephone must start with +250 followed by 9 digits")
	ErrWeakPassword     = errors.New("password must be 6-16 characters with at least one uppercase letter, one number and one symbol")
)

// User represents a registered account, end user or admin
type User struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Telephone    string    `json:"telephone"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateUserRequest is the registration payload, also used for admin creation
type CreateUserRequest struct {
	FirstName string `json:"first_name" binding:"required,min=3,max=80"`
	LastName  string `json:"last_name" binding:"required,min=3,max=80"`
	Telephone string `json:"telephone" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// Validate checks the fields gin's binding tags cannot express.
func (r *CreateUserRequest) Validate() error {
	if !telephonePattern.MatchString(r.Telephone) {
		return ErrInvalidTelephone
	}
	if !validPassword(r.Password) {
		return ErrWeakPassword
	}
	return nil
}

// validPassword enforces 6-16 chars with at least one uppercase letter,
// one digit and one symbol. regexp (RE2) has no lookaheads, so scan runes.
func validPassword(password string) bool {
	if len(password) < 6 || len(password) > 16 {
		return false
	}
	var upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r) || r == '_':
			symbol = true
		}
	}
	return upper && digit && symbol
}

// UserFilters contains filter parameters for admin user listing
type UserFilters struct {
	Role   *string
	Search *string // substring match against first name, last name or telephone
}
