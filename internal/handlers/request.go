package handlers

import (
	"bytes"
	"strconv"
)

// flexNumber accepts a JSON number or a quoted string and keeps the raw
// text, so that validation can report non-numeric input per field.
type flexNumber string

func (f *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if s, err := strconv.Unquote(string(b)); err == nil {
		*f = flexNumber(s)
		return nil
	}
	*f = flexNumber(b)
	return nil
}

func (f flexNumber) String() string {
	return string(f)
}

type registerRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"passwd"`
	Age      flexNumber `json:"age"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"passwd"`
}

type checkOutRequest struct {
	BookID flexNumber `json:"book_id"`
}

type checkInRequest struct {
	RentalID flexNumber `json:"rental_id"`
	Charge   flexNumber `json:"charge"`
}
