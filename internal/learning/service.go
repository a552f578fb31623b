// Package learning builds the learning hub views over the backend lesson
// API and tracks progress, streaks and badges locally.
package learning

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/astroquery/internal/backend"
	"github.com/ziadkadry99/astroquery/internal/quiz"
)

// Topic is a lesson as listed in the hub.
type Topic struct {
	ID          string
	Title       string
	Subject     string
	Description string
	Level       string
	Difficulty  string
}

// Lesson is a topic at one level with renderable content.
type Lesson struct {
	Topic
	RequestedLevel string
	Blocks         []Block
}

// Service loads lessons and quizzes.
type Service struct {
	client *backend.Client
	logger *zap.Logger
}

// NewService creates a learning service.
func NewService(client *backend.Client, logger *zap.Logger) *Service {
	return &Service{client: client, logger: logger}
}

func topicFrom(l backend.Lesson) Topic {
	t := Topic{
		ID:          l.ID.String(),
		Title:       l.Title,
		Subject:     l.Topic,
		Description: l.Description,
		Level:       l.Level,
		Difficulty:  "N/A",
	}
	if t.Description == "" {
		t.Description = "Learn about " + l.Title
	}
	if t.Level == "" {
		t.Level = "All Levels"
	}
	if l.DifficultyScore != nil {
		t.Difficulty = fmt.Sprintf("%g", *l.DifficultyScore)
	}
	return t
}

// Topics lists every lesson.
func (s *Service) Topics(ctx context.Context) ([]Topic, error) {
	lessons, err := s.client.Lessons(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading topics: %w", err)
	}
	topics := make([]Topic, 0, len(lessons))
	for _, l := range lessons {
		topics = append(topics, topicFrom(l))
	}
	return topics, nil
}

// Topic loads one lesson's summary.
func (s *Service) Topic(ctx context.Context, id string) (*Topic, error) {
	l, err := s.client.Lesson(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading topic %s: %w", id, err)
	}
	t := topicFrom(*l)
	if t.ID == "" {
		t.ID = id
	}
	return &t, nil
}

// Lesson loads a lesson with its content blocks.
func (s *Service) Lesson(ctx context.Context, id, level string) (*Lesson, error) {
	l, err := s.client.Lesson(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading lesson %s: %w", id, err)
	}
	t := topicFrom(*l)
	if t.ID == "" {
		t.ID = id
	}
	return &Lesson{Topic: t, RequestedLevel: level, Blocks: ParseContent(l, level)}, nil
}

// Questions loads the quiz questions of a lesson.
func (s *Service) Questions(ctx context.Context, id string) ([]quiz.Question, error) {
	raw, err := s.client.Questions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading quiz %s: %w", id, err)
	}
	qs := make([]quiz.Question, 0, len(raw))
	for _, q := range raw {
		qs = append(qs, quiz.Question{
			ID:          q.ID.String(),
			Prompt:      q.Prompt(),
			Choices:     q.ChoiceList(),
			Answer:      q.Answer,
			Explanation: q.Explanation,
		})
	}
	return qs, nil
}

// NotifyCompletion tells the backend a quiz was finished. Failures are
// logged and dropped.
func (s *Service) NotifyCompletion(ctx context.Context, r quiz.Result) {
	err := s.client.CompleteLesson(ctx, r.Topic, backend.CompletionNotice{
		Level:  r.Level,
		Score:  r.Score,
		Total:  r.Total,
		Passed: r.Passed,
	})
	if err != nil {
		s.logger.Warn("quiz completion notice failed",
			zap.String("topic", r.Topic), zap.String("level", r.Level), zap.Error(err))
	}
}

// CountLessons reports the number of lessons the backend offers.
func (s *Service) CountLessons(ctx context.Context) (int, error) {
	lessons, err := s.client.Lessons(ctx)
	if err != nil {
		return 0, err
	}
	return len(lessons), nil
}
