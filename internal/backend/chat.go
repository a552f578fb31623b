package backend

import (
	"context"
	"net/http"
)

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Citation is a publication the answer drew on.
type Citation struct {
	Title   string     `json:"title"`
	Link    string     `json:"link"`
	Journal string     `json:"journal"`
	Year    FlexString `json:"year"`
}

// ChatResponse is the body of /chat.
type ChatResponse struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

// Chat sends the conversation and returns the assistant answer. k is the
// number of publications retrieved for grounding.
func (c *Client) Chat(ctx context.Context, messages []ChatMessage, k int) (*ChatResponse, error) {
	body := struct {
		Messages []ChatMessage `json:"messages"`
		K        int           `json:"k"`
	}{Messages: messages, K: k}

	var resp ChatResponse
	if err := c.do(ctx, http.MethodPost, "/chat", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
