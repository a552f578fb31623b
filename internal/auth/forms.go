// Package auth handles the login, signup and password-reset forms and
// keeps the session's auth token.
package auth

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// MinPasswordLength is the shortest password signup accepts.
const MinPasswordLength = 8

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Form field names.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldConfirm  = "confirm"
)

// FieldErrors maps a form field to its validation message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return strings.Join(parts, "; ")
}

func (fe FieldErrors) orNil() FieldErrors {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool { return emailRe.MatchString(s) }

func checkEmail(fe FieldErrors, email string) {
	switch {
	case email == "":
		fe[FieldEmail] = "Email is required"
	case !ValidEmail(email):
		fe[FieldEmail] = "Invalid email format"
	}
}

// LoginForm is the submitted login form.
type LoginForm struct {
	Email    string
	Password string
}

// ParseLogin reads a login form. Values are trimmed.
func ParseLogin(v url.Values) LoginForm {
	return LoginForm{
		Email:    strings.TrimSpace(v.Get(FieldEmail)),
		Password: strings.TrimSpace(v.Get(FieldPassword)),
	}
}

// Validate returns the form's field errors, or nil.
func (f LoginForm) Validate() FieldErrors {
	fe := FieldErrors{}
	checkEmail(fe, f.Email)
	if f.Password == "" {
		fe[FieldPassword] = "Password is required"
	}
	return fe.orNil()
}

// SignupForm is the submitted signup form.
type SignupForm struct {
	Name     string
	Email    string
	Password string
	Confirm  string
}

// ParseSignup reads a signup form. Name and email are trimmed.
func ParseSignup(v url.Values) SignupForm {
	return SignupForm{
		Name:     strings.TrimSpace(v.Get(FieldName)),
		Email:    strings.TrimSpace(v.Get(FieldEmail)),
		Password: v.Get(FieldPassword),
		Confirm:  v.Get(FieldConfirm),
	}
}

// Validate returns the form's field errors, or nil.
func (f SignupForm) Validate() FieldErrors {
	fe := FieldErrors{}
	if f.Name == "" {
		fe[FieldName] = "Name is required"
	}
	checkEmail(fe, f.Email)
	switch {
	case f.Password == "":
		fe[FieldPassword] = "Password is required"
	case len([]rune(f.Password)) < MinPasswordLength:
		fe[FieldPassword] = "Password must be at least 8 characters"
	}
	switch {
	case f.Confirm == "":
		fe[FieldConfirm] = "Please confirm your password"
	case f.Confirm != f.Password:
		fe[FieldConfirm] = "Passwords do not match"
	}
	return fe.orNil()
}

// ForgotForm is the submitted password-reset form.
type ForgotForm struct {
	Email string
}

// ParseForgot reads a password-reset form.
func ParseForgot(v url.Values) ForgotForm {
	return ForgotForm{Email: strings.TrimSpace(v.Get(FieldEmail))}
}

// Validate returns the form's field errors, or nil.
func (f ForgotForm) Validate() FieldErrors {
	fe := FieldErrors{}
	checkEmail(fe, f.Email)
	return fe.orNil()
}
