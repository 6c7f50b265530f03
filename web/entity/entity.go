// Package entity defines the request and response shapes used by the LOGI
// HTTP services.
package entity

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Msg is the response envelope shared by both services. Extra payload
// fields are added by the response types that embed it.
type Msg struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// UserSummary is the user returned next to a fresh token.
type UserSummary struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Rgno   int64  `json:"rgno"`
	Role   string `json:"role"`
	RollNo int64  `json:"rollno,omitempty"`
}

// AuthResponse answers register and login.
type AuthResponse struct {
	Msg
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// ListResponse answers every list endpoint.
type ListResponse struct {
	Msg
	Count int   `json:"count"`
	Total int64 `json:"total,omitempty"`
	Data  any   `json:"data"`
}

// DataResponse answers single record reads.
type DataResponse struct {
	Msg
	Data any `json:"data"`
}

// SaveResponse answers a logbook submission.
type SaveResponse struct {
	Msg
	Id       string `json:"id"`
	IsUpdate bool   `json:"isUpdate"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	RollNo     FlexInt `json:"rollno"`
	Rgno       FlexInt `json:"rgno"`
	Password   string  `json:"password"`
	Role       string  `json:"role"`
	Department string  `json:"department"`
	Semester   FlexInt `json:"semester"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Rgno     FlexInt `json:"rgno"`
	Password string  `json:"password"`
}

// ChangePasswordRequest is the body of POST /api/auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

var leadingInt = regexp.MustCompile(`^[+-]?\d+`)

// ParseLeadingInt returns the integer at the start of s after leading
// spaces, or 0 when there is none. "12abc" is 12 and "3.7" is 3.
func ParseLeadingInt(s string) int64 {
	m := leadingInt.FindString(strings.TrimLeft(s, " \t\r\n"))
	if m == "" {
		return 0
	}
	n, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// FlexInt accepts a JSON number or a numeric string. Browsers post form
// values as strings.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexInt(ParseLeadingInt(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexInt(ParseLeadingInt(n.String()))
	return nil
}

// UserResponse answers the profile endpoint. Password hashes are never
// serialized.
type UserResponse struct {
	Msg
	User any `json:"user"`
}

// UsersResponse answers the admin user listing.
type UsersResponse struct {
	Msg
	Count int `json:"count"`
	Users any `json:"users"`
}
