// Package quiz models a single quiz attempt as an explicit state machine
// and grades it locally against letter answer keys.
package quiz

import (
	"errors"
	"fmt"
	"strings"
)

// PassThreshold is the minimum score/total ratio that passes.
const PassThreshold = 0.8

var (
	ErrNoQuestions = errors.New("quiz has no questions")
	ErrNotReady    = errors.New("quiz cannot be submitted until every question is answered and the last one is shown")
	ErrSubmitted   = errors.New("quiz already submitted")
)

// Question is one graded question.
type Question struct {
	ID          string   `json:"id"`
	Prompt      string   `json:"prompt"`
	Choices     []string `json:"choices"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// NoResponse marks an unanswered question.
const NoResponse = -1

// Attempt is the in-progress state of one quiz. The zero value is not
// usable; create attempts with New.
type Attempt struct {
	Topic     string     `json:"topic"`
	Level     string     `json:"level"`
	Questions []Question `json:"questions"`
	Responses []int      `json:"responses"`
	Index     int        `json:"index"`
	Submitted bool       `json:"submitted"`
}

// New starts an attempt positioned on the first question.
func New(topic, level string, questions []Question) (*Attempt, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	responses := make([]int, len(questions))
	for i := range responses {
		responses[i] = NoResponse
	}
	return &Attempt{Topic: topic, Level: level, Questions: questions, Responses: responses}, nil
}

// Valid reports whether a decoded attempt is internally consistent.
func (a *Attempt) Valid() bool {
	return a != nil && len(a.Questions) > 0 && len(a.Responses) == len(a.Questions) &&
		a.Index >= 0 && a.Index < len(a.Questions)
}

// Current returns the question being shown.
func (a *Attempt) Current() Question { return a.Questions[a.Index] }

// Total is the number of questions.
func (a *Attempt) Total() int { return len(a.Questions) }

// Answer records choice for the current question.
func (a *Attempt) Answer(choice int) error {
	if a.Submitted {
		return ErrSubmitted
	}
	if choice < 0 || choice >= len(a.Current().Choices) {
		return fmt.Errorf("choice %d out of range for question %d", choice, a.Index+1)
	}
	a.Responses[a.Index] = choice
	return nil
}

// Next advances one question. It reports false at the last question.
func (a *Attempt) Next() bool {
	if a.Submitted || a.Index >= len(a.Questions)-1 {
		return false
	}
	a.Index++
	return true
}

// Prev goes back one question. It reports false at the first question.
func (a *Attempt) Prev() bool {
	if a.Submitted || a.Index <= 0 {
		return false
	}
	a.Index--
	return true
}

// Answered counts recorded responses.
func (a *Attempt) Answered() int {
	n := 0
	for _, r := range a.Responses {
		if r != NoResponse {
			n++
		}
	}
	return n
}

// CanSubmit is true iff every question has a response and the current
// question is the last one.
func (a *Attempt) CanSubmit() bool {
	return !a.Submitted && a.Index == len(a.Questions)-1 && a.Answered() == len(a.Questions)
}

// Submit grades the attempt and freezes it.
func (a *Attempt) Submit() (Result, error) {
	if a.Submitted {
		return Result{}, ErrSubmitted
	}
	if !a.CanSubmit() {
		return Result{}, ErrNotReady
	}
	a.Submitted = true
	return Grade(a.Topic, a.Level, a.Questions, a.Responses), nil
}

// AnswerIndex maps an answer-key letter to a choice index (A=0 .. D=3).
// Keys outside A-Z report false.
func AnswerIndex(letter string) (int, bool) {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if letter == "" || letter[0] < 'A' || letter[0] > 'Z' {
		return NoResponse, false
	}
	return int(letter[0] - 'A'), true
}

// IsCorrect reports whether response matches the question's answer key.
func IsCorrect(q Question, response int) bool {
	idx, ok := AnswerIndex(q.Answer)
	return ok && response != NoResponse && response == idx
}
