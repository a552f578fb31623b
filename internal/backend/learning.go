package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Lesson is one entry of /education/lessons. The learning hub treats each
// lesson as a topic.
type Lesson struct {
	ID              FlexString      `json:"id"`
	Title           string          `json:"title"`
	Topic           string          `json:"topic"`
	Level           string          `json:"level"`
	Description     string          `json:"description"`
	DifficultyScore *float64        `json:"difficulty_score"`
	Content         json.RawMessage `json:"content"`
}

// Question is one quiz question for a lesson.
type Question struct {
	ID          FlexString `json:"id"`
	Text        string     `json:"text"`
	Question    string     `json:"question"`
	Choices     []string   `json:"choices"`
	Options     []string   `json:"options"`
	Answer      string     `json:"answer"`
	Explanation string     `json:"explanation"`
}

// Prompt returns the question text, whichever field carried it.
func (q Question) Prompt() string {
	if q.Text != "" {
		return q.Text
	}
	return q.Question
}

// ChoiceList returns the answer choices, whichever field carried them.
func (q Question) ChoiceList() []string {
	if len(q.Choices) > 0 {
		return q.Choices
	}
	return q.Options
}

// Lessons lists every lesson.
func (c *Client) Lessons(ctx context.Context) ([]Lesson, error) {
	raw, err := c.getList(ctx, "/education/lessons", nil, nil)
	if err != nil {
		return nil, err
	}
	lessons, err := decodeList[Lesson](raw, "lessons", "results")
	if err != nil {
		return nil, fmt.Errorf("decoding lessons: %w", err)
	}
	return lessons, nil
}

// Lesson fetches a single lesson by id.
func (c *Client) Lesson(ctx context.Context, id string) (*Lesson, error) {
	var lesson Lesson
	if err := c.do(ctx, http.MethodGet, "/education/lessons/"+url.PathEscape(id), nil, nil, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// Questions fetches the quiz questions for a lesson.
func (c *Client) Questions(ctx context.Context, lessonID string) ([]Question, error) {
	path := "/education/lessons/" + url.PathEscape(lessonID) + "/questions"
	raw, err := c.getList(ctx, path, nil, nil)
	if err != nil {
		return nil, err
	}
	questions, err := decodeList[Question](raw, "questions", "results")
	if err != nil {
		return nil, fmt.Errorf("decoding questions: %w", err)
	}
	return questions, nil
}

// CompletionNotice tells the backend a quiz attempt finished.
type CompletionNotice struct {
	Level  string `json:"level"`
	Score  int    `json:"score"`
	Total  int    `json:"total"`
	Passed bool   `json:"passed"`
}

// CompleteLesson reports a finished quiz. Correctness is graded locally;
// the backend only learns that the attempt happened.
func (c *Client) CompleteLesson(ctx context.Context, lessonID string, notice CompletionNotice) error {
	path := "/education/lessons/" + url.PathEscape(lessonID) + "/complete"
	return c.do(ctx, http.MethodPost, path, nil, notice, nil)
}
