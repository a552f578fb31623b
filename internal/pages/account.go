package pages

import (
	"context"
	"errors"
	"html/template"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ziadkadry99/astroquery/internal/auth"
	"github.com/ziadkadry99/astroquery/internal/chat"
	"github.com/ziadkadry99/astroquery/internal/prefs"
	"github.com/ziadkadry99/astroquery/internal/router"
	"github.com/ziadkadry99/astroquery/internal/session"
)

// Chat conversation targets. The page and the floating popup each keep
// their own log element.
const (
	chatTargetPage = "chat"
	chatTargetFab  = "fab"
)

// authView is one of the login, signup or forgot-password forms.
type authView struct {
	Values  map[string]string
	Errors  map[string]string
	Message string
	Success bool
}

func (s *Site) renderLogin(ctx context.Context, m router.Mount, match router.Match) error {
	return s.static(m, match, "login", authView{})
}

func (s *Site) renderSignup(ctx context.Context, m router.Mount, match router.Match) error {
	return s.static(m, match, "signup", authView{})
}

func (s *Site) renderForgot(ctx context.Context, m router.Mount, match router.Match) error {
	return s.static(m, match, "forgot", authView{})
}

func (s *Site) renderNotFound(ctx context.Context, m router.Mount, match router.Match) error {
	return s.static(m, match, "not-found", match)
}

// handleAuthAction submits an auth form and re-renders it with field
// errors or the outcome.
func (s *Site) handleAuthAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := session.FromContext(ctx)
	if err := r.ParseForm(); err != nil {
		s.actionError(w, "Invalid form submission.")
		return
	}

	op := chi.URLParam(r, "op")
	v := authView{Values: map[string]string{
		auth.FieldName:  r.Form.Get(auth.FieldName),
		auth.FieldEmail: r.Form.Get(auth.FieldEmail),
	}}

	var err error
	switch op {
	case "login":
		var sess prefs.Session
		sess, err = s.Auth.Login(ctx, sid, auth.ParseLogin(r.Form))
		if err == nil {
			v.Success = true
			v.Message = "Welcome back, " + sess.DisplayName() + "!"
			trigger(w, eventNavigate, navigateEvent{Path: "/", Delay: 1000})
			hdr := s.header(ctx, sid)
			s.writeAuth(w, op, v, &hdr)
			return
		}
		v.Message = auth.FailureMessage(err, "Login failed. Please check your credentials.")
	case "signup":
		v.Message, err = s.Auth.Signup(ctx, auth.ParseSignup(r.Form))
		if err == nil {
			v.Success = true
			trigger(w, eventNavigate, navigateEvent{Path: "/login", Delay: 2000})
			s.writeAuth(w, op, v, nil)
			return
		}
		v.Message = auth.FailureMessage(err, "Signup failed. Please try again.")
	case "forgot":
		v.Message, err = s.Auth.Forgot(ctx, auth.ParseForgot(r.Form))
		if err == nil {
			v.Success = true
			s.writeAuth(w, op, v, nil)
			return
		}
		v.Message = auth.FailureMessage(err, "Could not send reset instructions. Please try again.")
	case "logout":
		if err := s.Auth.Logout(ctx, sid); err != nil {
			s.Logger.Error("logging out", zap.Error(err))
		}
		hdr := s.header(ctx, sid)
		trigger(w, eventNavigate, navigateEvent{Path: "/login"})
		s.writeTemplate(w, http.StatusOK, "header", hdr)
		return
	default:
		http.NotFound(w, r)
		return
	}

	var fe auth.FieldErrors
	if errors.As(err, &fe) {
		v.Errors = fe
		v.Message = ""
	} else {
		s.Logger.Warn("auth request failed", zap.String("op", op), zap.Error(err))
	}
	s.writeAuth(w, op, v, nil)
}

// writeAuth renders the form for op. A non-nil header is also swapped
// into the page out of band.
func (s *Site) writeAuth(w http.ResponseWriter, op string, v authView, hdr *headerData) {
	html, err := s.render(op, v)
	if err == nil && hdr != nil {
		hdr.OOB = true
		var oob template.HTML
		if oob, err = s.render("header", hdr); err == nil {
			html += oob
		}
	}
	if err != nil {
		s.Logger.Error("auth template failed", zap.String("form", op), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, string(html))
}

type chatPageView struct {
	Target   string
	Messages []chat.Message
}

func (s *Site) renderChat(ctx context.Context, m router.Mount, match router.Match) error {
	sid := session.FromContext(ctx)
	return s.load(ctx, m, match, func(ctx context.Context) (string, any, error) {
		msgs, err := s.Chat.History(ctx, sid)
		if err != nil {
			return "", nil, err
		}
		return "chat", chatPageView{Target: chatTargetPage, Messages: msgs}, nil
	})
}

// handleChatToggle flips the popup's collapsed state and re-renders it.
func (s *Site) handleChatToggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := session.FromContext(ctx)
	sess, err := s.Prefs.UpdateSession(ctx, sid, func(p *prefs.Session) { p.SetCollapsed(!p.Collapsed()) })
	if err != nil {
		s.Logger.Warn("saving chat state", zap.Error(err))
	}
	s.writeTemplate(w, http.StatusOK, "chat-fab", layoutData{
		Chrome:   router.Chrome{FabVisible: true},
		ChatOpen: !sess.Collapsed(),
	})
}

// chatView renders websocket frames as out-of-band swaps into the
// connection's conversation log.
type chatView struct {
	s *Site
}

type chatFrame struct {
	Log     string
	Message *chat.Message
	Error   string
}

// logID maps a connection target onto its log element. Unknown targets
// fall back to the popup.
func logID(target string) string {
	if target == chatTargetPage {
		return "chat-log"
	}
	return "fab-log"
}

func (v chatView) frame(w io.Writer, name string, f chatFrame) error {
	html, err := v.s.render(name, f)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, string(html))
	return err
}

func (v chatView) Question(w io.Writer, target string, m *chat.Message) error {
	return v.frame(w, "chat-frame", chatFrame{Log: logID(target), Message: m})
}

func (v chatView) Answer(w io.Writer, target string, m *chat.Message) error {
	return v.frame(w, "chat-frame", chatFrame{Log: logID(target), Message: m})
}

func (v chatView) Error(w io.Writer, target, message string) error {
	return v.frame(w, "chat-frame", chatFrame{Log: logID(target), Error: message})
}

func (v chatView) Cleared(w io.Writer, target string) error {
	return v.frame(w, "chat-cleared", chatFrame{Log: logID(target)})
}
