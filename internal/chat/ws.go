package chat

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ziadkadry99/astroquery/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: sameOrigin,
}

// sameOrigin accepts clients that send no Origin header and browsers on
// the page's own host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// View renders websocket frames. Frames are HTML fragments swapped in by
// the browser; target names the conversation element the connection was
// opened for.
type View interface {
	Question(w io.Writer, target string, m *Message) error
	Answer(w io.Writer, target string, m *Message) error
	Error(w io.Writer, target, message string) error
	Cleared(w io.Writer, target string) error
}

// wsRequest is the incoming frame: the chat form's values.
type wsRequest struct {
	Message string `json:"message"`
	Action  string `json:"action"`
}

// Handler serves the chat websocket.
type Handler struct {
	svc    *Service
	view   View
	logger *zap.Logger
}

// NewHandler creates a chat websocket handler.
func NewHandler(svc *Service, view View, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, view: view, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("chat websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	sessionID := session.FromContext(r.Context())
	target := r.URL.Query().Get("target")
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("chat websocket read", zap.Error(err))
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			h.send(conn, func(w io.Writer) error { return h.view.Error(w, target, "invalid message format") })
			continue
		}

		switch {
		case req.Action == "clear":
			if err := h.svc.Clear(r.Context(), sessionID); err != nil {
				h.logger.Warn("clearing chat", zap.Error(err))
				h.send(conn, func(w io.Writer) error { return h.view.Error(w, target, "Could not clear the conversation.") })
				continue
			}
			h.send(conn, func(w io.Writer) error { return h.view.Cleared(w, target) })
		case strings.TrimSpace(req.Message) == "":
			h.send(conn, func(w io.Writer) error { return h.view.Error(w, target, "Please type a question.") })
		default:
			h.ask(conn, r, sessionID, target, req.Message)
		}
	}
}

func (h *Handler) ask(conn *websocket.Conn, r *http.Request, sessionID, target, question string) {
	q := &Message{Role: RoleUser, Content: strings.TrimSpace(question)}
	h.send(conn, func(w io.Writer) error { return h.view.Question(w, target, q) })

	reply, err := h.svc.Ask(r.Context(), sessionID, question)
	if err != nil {
		h.logger.Warn("chat request failed", zap.String("session", sessionID), zap.Error(err))
		h.send(conn, func(w io.Writer) error {
			return h.view.Error(w, target, "Sorry, I couldn't reach the assistant. Please try again.")
		})
		return
	}
	h.send(conn, func(w io.Writer) error { return h.view.Answer(w, target, reply) })
}

func (h *Handler) send(conn *websocket.Conn, render func(io.Writer) error) {
	w, err := conn.NextWriter(websocket.TextMessage)
	if err != nil {
		h.logger.Warn("chat websocket write", zap.Error(err))
		return
	}
	if err := render(w); err != nil {
		h.logger.Warn("chat frame render", zap.Error(err))
	}
	if err := w.Close(); err != nil {
		h.logger.Warn("chat websocket flush", zap.Error(err))
	}
}
