package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MinUserAge     = 5
	MaxUserAge     = 150
	MaxEmailLength = 50

	// MaxPasswordBytes is the longest password bcrypt can hash.
	MaxPasswordBytes = 72

	DefaultPageLimit = 25
)

var (
	validate = validator.New()

	ageRule         = fmt.Sprintf("min=%d,max=%d", MinUserAge, MaxUserAge)
	emailLengthRule = fmt.Sprintf("max=%d", MaxEmailLength)
)

// RegisterCommand is a validated registration request.
type RegisterCommand struct {
	Email    string
	Password string
	Age      int
}

// NewRegisterCommand validates raw registration input. Each rule fails with
// its own ValidationError, checked in a fixed order: presence, age numeric,
// age range, email syntax, email length, password length. Emails are stored
// lower-cased.
func NewRegisterCommand(email, password, age string) (RegisterCommand, error) {
	email = normalizeEmail(email)
	age = strings.TrimSpace(age)

	if email == "" || password == "" || age == "" {
		return RegisterCommand{}, invalid("email,passwd,age", "email, password and age are required")
	}

	n, ok := parseNumber(age)
	if !ok {
		return RegisterCommand{}, invalid("age", "age must be a number")
	}
	if validate.Var(n, ageRule) != nil {
		return RegisterCommand{}, invalid("age", "age must be between 5 and 150")
	}

	if validate.Var(email, "email") != nil {
		return RegisterCommand{}, invalid("email", "email is not a valid address")
	}
	if validate.Var(email, emailLengthRule) != nil {
		return RegisterCommand{}, invalid("email", "email must be at most 50 characters")
	}
	if len(password) > MaxPasswordBytes {
		return RegisterCommand{}, invalid("passwd", "password must be at most 72 bytes")
	}

	return RegisterCommand{Email: email, Password: password, Age: int(math.Round(n))}, nil
}

// LoginCommand is a validated login request.
type LoginCommand struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// NewLoginCommand validates raw login input.
func NewLoginCommand(email, password string) (LoginCommand, error) {
	cmd := LoginCommand{Email: normalizeEmail(email), Password: password}
	if err := validate.Struct(cmd); err != nil {
		return LoginCommand{}, invalid("email,passwd", "email and password are required")
	}
	return cmd, nil
}

// CheckOutCommand is a validated rental request.
type CheckOutCommand struct {
	UserID uint
	BookID uint
}

// NewCheckOutCommand validates a raw book id.
func NewCheckOutCommand(userID uint, bookID string) (CheckOutCommand, error) {
	if userID == 0 {
		return CheckOutCommand{}, newError(ErrUnauthorized, "user identity is required", nil)
	}
	id, err := parseID("book_id", bookID)
	if err != nil {
		return CheckOutCommand{}, err
	}
	return CheckOutCommand{UserID: userID, BookID: id}, nil
}

// CheckInCommand is a validated return request. PaidFee is in currency
// minor units; a fractional amount never matches a fee.
type CheckInCommand struct {
	UserID   uint
	RentalID uint
	PaidFee  float64
}

// NewCheckInCommand validates a raw rental id and paid fee. A missing fee
// counts as 0.
func NewCheckInCommand(userID uint, rentalID, paidFee string) (CheckInCommand, error) {
	if userID == 0 {
		return CheckInCommand{}, newError(ErrUnauthorized, "user identity is required", nil)
	}
	id, err := parseID("rental_id", rentalID)
	if err != nil {
		return CheckInCommand{}, err
	}

	var paid float64
	if paidFee = strings.TrimSpace(paidFee); paidFee != "" {
		var ok bool
		if paid, ok = parseNumber(paidFee); !ok {
			return CheckInCommand{}, invalid("charge", "charge must be a number")
		}
	}
	return CheckInCommand{UserID: userID, RentalID: id, PaidFee: paid}, nil
}

// ListBooksCommand is a validated catalog page request.
type ListBooksCommand struct {
	Offset int
	Limit  int
}

// NewListBooksCommand validates raw pagination input, applying the defaults
// offset=0 and limit=25 when a value is absent.
func NewListBooksCommand(offset, limit string) (ListBooksCommand, error) {
	cmd := ListBooksCommand{Offset: 0, Limit: DefaultPageLimit}

	var err error
	if offset = strings.TrimSpace(offset); offset != "" {
		if cmd.Offset, err = strconv.Atoi(offset); err != nil || cmd.Offset < 0 {
			return ListBooksCommand{}, invalid("offset", "offset must be a non-negative number")
		}
	}
	if limit = strings.TrimSpace(limit); limit != "" {
		if cmd.Limit, err = strconv.Atoi(limit); err != nil || cmd.Limit < 0 {
			return ListBooksCommand{}, invalid("limit", "limit must be a non-negative number")
		}
	}
	return cmd, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// parseNumber accepts plain decimal numbers such as "20" or "20.5".
func parseNumber(raw string) (float64, bool) {
	if validate.Var(raw, "numeric") != nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseID(field, raw string) (uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, invalid(field, field+" is required")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, invalid(field, field+" must be a number")
	}
	if id == 0 {
		return 0, invalid(field, field+" is required")
	}
	return uint(id), nil
}
