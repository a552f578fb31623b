package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ziadkadry99/astroquery/internal/backend"
	"github.com/ziadkadry99/astroquery/internal/db"
	"github.com/ziadkadry99/astroquery/internal/prefs"
)

type fakeBackend struct {
	login     *backend.LoginResponse
	err       error
	loginCall int
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (*backend.LoginResponse, error) {
	f.loginCall++
	return f.login, f.err
}

func (f *fakeBackend) Signup(ctx context.Context, name, email, password string) (string, error) {
	return "", f.err
}

func (f *fakeBackend) ForgotPassword(ctx context.Context, email string) (string, error) {
	return "Check your inbox", f.err
}

func newService(t *testing.T, b Backend) (*Service, *prefs.Store) {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	p := prefs.NewStore(database)
	return NewService(b, p, zap.NewNop()), p
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"ada@example.com", true},
		{"a@b.c", true},
		{"ada@example", false},
		{"ada example@x.com", false},
		{"@example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidEmail(tt.email), tt.email)
	}
}

func TestSignupValidation(t *testing.T) {
	fe := SignupForm{Email: "bad", Password: "short", Confirm: "other"}.Validate()
	require.NotNil(t, fe)
	assert.Equal(t, "Name is required", fe[FieldName])
	assert.Equal(t, "Invalid email format", fe[FieldEmail])
	assert.Equal(t, "Password must be at least 8 characters", fe[FieldPassword])
	assert.Equal(t, "Passwords do not match", fe[FieldConfirm])

	fe = SignupForm{Name: "Ada", Email: "ada@example.com", Password: "longenough"}.Validate()
	assert.Equal(t, FieldErrors{FieldConfirm: "Please confirm your password"}, fe)

	ok := ParseSignup(url.Values{
		FieldName: {" Ada "}, FieldEmail: {"ada@example.com"},
		FieldPassword: {"longenough"}, FieldConfirm: {"longenough"},
	})
	assert.Nil(t, ok.Validate())
	assert.Equal(t, "Ada", ok.Name)
}

func TestLoginValidationSkipsBackend(t *testing.T) {
	b := &fakeBackend{}
	s, _ := newService(t, b)

	_, err := s.Login(t.Context(), "sess", LoginForm{Email: "", Password: ""})
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Email is required", fe[FieldEmail])
	assert.Equal(t, "Password is required", fe[FieldPassword])
	assert.Zero(t, b.loginCall)
}

func TestLoginStoresTokenAndName(t *testing.T) {
	b := &fakeBackend{login: &backend.LoginResponse{
		Token: "tok-1",
		User:  &backend.User{Email: "ada@example.com", Name: "Ada Lovelace"},
	}}
	s, p := newService(t, b)
	ctx := t.Context()

	sess, err := s.Login(ctx, "sess", ParseLogin(url.Values{
		FieldEmail: {" ada@example.com "}, FieldPassword: {"secret"},
	}))
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", sess.UserName)
	assert.Equal(t, "AL", sess.UserInitials)
	assert.True(t, s.LoggedIn(ctx, "sess"))
	assert.Equal(t, "tok-1", s.Tokens().Token(ctx, "sess"))

	require.NoError(t, s.Logout(ctx, "sess"))
	assert.False(t, s.LoggedIn(ctx, "sess"))
	stored, err := p.Session(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, prefs.Session{}, stored)
}

func TestLoginFallsBackToEmailName(t *testing.T) {
	s, _ := newService(t, &fakeBackend{login: &backend.LoginResponse{Token: "t"}})
	sess, err := s.Login(t.Context(), "sess", LoginForm{Email: "grace@navy.mil", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "grace", sess.UserName)
}

func TestLoginFailure(t *testing.T) {
	b := &fakeBackend{err: &backend.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid credentials"}}
	s, _ := newService(t, b)

	_, err := s.Login(t.Context(), "sess", LoginForm{Email: "ada@example.com", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", FailureMessage(err, "Login failed. Please try again."))
	assert.False(t, s.LoggedIn(t.Context(), "sess"))

	assert.Equal(t, "Login failed. Please try again.",
		FailureMessage(errors.New("dial tcp"), "Login failed. Please try again."))
}

func TestSignupAndForgotMessages(t *testing.T) {
	s, _ := newService(t, &fakeBackend{})

	msg, err := s.Signup(t.Context(), SignupForm{Name: "Ada", Email: "ada@example.com", Password: "longenough", Confirm: "longenough"})
	require.NoError(t, err)
	assert.Equal(t, SignupDone, msg)

	msg, err = s.Forgot(t.Context(), ForgotForm{Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Check your inbox", msg)

	_, err = s.Forgot(t.Context(), ForgotForm{Email: "nope"})
	var fe FieldErrors
	assert.ErrorAs(t, err, &fe)
}
