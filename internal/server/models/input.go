package models

import (
	"regexp"
	"unicode/utf8"

	"github.com/dmitrijs2005/messagely/internal/common"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

const (
	maxPasswordBytes = 72 // bcrypt ignores anything longer
	maxNameLen       = 100
	maxPhoneLen      = 32
	maxBodyLen       = 10000
)

// RegisterInput is the registration request.
type RegisterInput struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

func (in *RegisterInput) Validate() error {
	if err := ValidateUsername("username", in.Username); err != nil {
		return err
	}
	if err := validatePassword(in.Password); err != nil {
		return err
	}
	if err := validateText("first_name", in.FirstName, maxNameLen); err != nil {
		return err
	}
	if err := validateText("last_name", in.LastName, maxNameLen); err != nil {
		return err
	}
	return validateText("phone", in.Phone, maxPhoneLen)
}

// LoginInput is the login request.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (in *LoginInput) Validate() error {
	if in.Username == "" {
		return common.NewValidationError("username", "must not be empty")
	}
	if in.Password == "" {
		return common.NewValidationError("password", "must not be empty")
	}
	return nil
}

// SendMessageInput is the message creation request. The sender is always
// the caller and is never read from the body.
type SendMessageInput struct {
	ToUsername string `json:"to_username"`
	Body       string `json:"body"`
}

func (in *SendMessageInput) Validate() error {
	if err := ValidateUsername("to_username", in.ToUsername); err != nil {
		return err
	}
	return validateText("body", in.Body, maxBodyLen)
}

// ValidateUsername checks the username shape used at registration.
func ValidateUsername(field, v string) error {
	if !usernamePattern.MatchString(v) {
		return common.NewValidationError(field, "must be 1-64 characters of letters, digits, '_', '.' or '-'")
	}
	return nil
}

func validatePassword(v string) error {
	if v == "" {
		return common.NewValidationError("password", "must not be empty")
	}
	if len(v) > maxPasswordBytes {
		return common.NewValidationError("password", "must be at most 72 bytes")
	}
	return nil
}

func validateText(field, v string, max int) error {
	if v == "" {
		return common.NewValidationError(field, "must not be empty")
	}
	if !utf8.ValidString(v) {
		return common.NewValidationError(field, "must be valid UTF-8")
	}
	if utf8.RuneCountInString(v) > max {
		return common.NewValidationError(field, "is too long")
	}
	return nil
}
