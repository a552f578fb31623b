package pages

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/astroquery/internal/learning"
	"github.com/ziadkadry99/astroquery/internal/quiz"
	"github.com/ziadkadry99/astroquery/internal/router"
	"github.com/ziadkadry99/astroquery/internal/session"
)

const (
	tabTopics   = "topics"
	tabProgress = "progress"
	tabBadges   = "badges"
)

type learnView struct {
	Tab      string
	Topics   []learning.Topic
	Progress learning.Progress
	Badges   []learning.Badge
}

func learnTab(v url.Values) string {
	switch t := v.Get("tab"); t {
	case tabProgress, tabBadges:
		return t
	}
	return tabTopics
}

func (s *Site) renderLearn(ctx context.Context, m router.Mount, match router.Match) error {
	sid := session.FromContext(ctx)
	return s.load(ctx, m, match, func(ctx context.Context) (string, any, error) {
		v := learnView{Tab: learnTab(match.Query)}
		g, gctx := errgroup.WithContext(ctx)
		switch v.Tab {
		case tabTopics:
			g.Go(func() (err error) {
				v.Topics, err = s.Learning.Topics(gctx)
				return err
			})
		case tabProgress:
			g.Go(func() (err error) {
				v.Progress, err = s.Tracker.Progress(gctx, sid)
				return err
			})
		}
		g.Go(func() (err error) {
			v.Badges, err = s.Tracker.Badges(gctx, sid)
			return err
		})
		if err := g.Wait(); err != nil {
			return "", nil, err
		}
		return "learn", v, nil
	})
}

type levelView struct {
	Name      string
	Completed bool
}

type topicView struct {
	Topic  *learning.Topic
	Levels []levelView
}

func (s *Site) renderTopic(ctx context.Context, m router.Mount, match router.Match) error {
	sid := session.FromContext(ctx)
	id := match.Param("topic")
	return s.load(ctx, m, match, func(ctx context.Context) (string, any, error) {
		t, err := s.Learning.Topic(ctx, id)
		if err != nil {
			return "", nil, err
		}
		v := topicView{Topic: t}
		for _, lvl := range router.Levels {
			v.Levels = append(v.Levels, levelView{Name: lvl, Completed: s.Tracker.IsCompleted(ctx, sid, id, lvl)})
		}
		return "topic", v, nil
	})
}

type lessonView struct {
	Lesson    *learning.Lesson
	Completed bool
}

func (s *Site) renderLesson(ctx context.Context, m router.Mount, match router.Match) error {
	sid := session.FromContext(ctx)
	id, level := match.Param("topic"), match.Param("level")
	return s.load(ctx, m, match, func(ctx context.Context) (string, any, error) {
		l, err := s.Learning.Lesson(ctx, id, level)
		if err != nil {
			return "", nil, err
		}
		return "lesson", lessonView{Lesson: l, Completed: s.Tracker.IsCompleted(ctx, sid, id, level)}, nil
	})
}

// quizView is one quiz card. Attempt is nil when the lesson has no
// questions.
type quizView struct {
	Topic   string
	Level   string
	Attempt *quiz.Attempt
	Error   string
}

func (v quizView) Action(op string) string {
	return "/actions/quiz/" + url.PathEscape(v.Topic) + "/" + url.PathEscape(v.Level) + "/" + op
}

// Selected is the response recorded for the current question.
func (v quizView) Selected() int {
	if v.Attempt == nil {
		return quiz.NoResponse
	}
	return v.Attempt.Responses[v.Attempt.Index]
}

// attempt loads the session's attempt for a lesson, starting a new one
// from the backend questions when none is in progress.
func (s *Site) attempt(ctx context.Context, sid, topic, level string) (*quiz.Attempt, error) {
	a, err := s.Quizzes.Load(ctx, sid, topic, level)
	if err != nil || a != nil {
		return a, err
	}
	qs, err := s.Learning.Questions(ctx, topic)
	if err != nil {
		return nil, err
	}
	a, err = quiz.New(topic, level, qs)
	if err != nil {
		return nil, err
	}
	if err := s.Quizzes.Save(ctx, sid, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Site) renderQuiz(ctx context.Context, m router.Mount, match router.Match) error {
	sid := session.FromContext(ctx)
	topic, level := match.Param("topic"), match.Param("level")
	return s.load(ctx, m, match, func(ctx context.Context) (string, any, error) {
		v := quizView{Topic: topic, Level: level}
		a, err := s.attempt(ctx, sid, topic, level)
		if errors.Is(err, quiz.ErrNoQuestions) {
			return "quiz", v, nil
		}
		if err != nil {
			return "", nil, err
		}
		v.Attempt = a
		return "quiz", v, nil
	})
}

// handleQuizAction applies answer, next, prev or submit to the session's
// attempt and re-renders the quiz card.
func (s *Site) handleQuizAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := session.FromContext(ctx)
	topic, level, op := chi.URLParam(r, "topic"), chi.URLParam(r, "level"), chi.URLParam(r, "op")
	v := quizView{Topic: topic, Level: level}

	defer s.Quizzes.Lock(sid)()
	a, err := s.Quizzes.Load(ctx, sid, topic, level)
	if err != nil || a == nil {
		s.actionError(w, "This quiz is no longer in progress. Reload the page to start again.")
		return
	}
	v.Attempt = a

	switch op {
	case "answer":
		choice, err := strconv.Atoi(r.FormValue("choice"))
		if err != nil {
			s.actionError(w, "Select an answer.")
			return
		}
		if err := a.Answer(choice); err != nil {
			s.actionError(w, "Select an answer.")
			return
		}
	case "next":
		a.Next()
	case "prev":
		a.Prev()
	case "submit":
		s.submitQuiz(w, r, v)
		return
	default:
		http.NotFound(w, r)
		return
	}

	if err := s.Quizzes.Save(ctx, sid, a); err != nil {
		s.Logger.Error("saving quiz attempt", zap.Error(err))
		s.actionError(w, "Could not save your answer. Please try again.")
		return
	}
	s.writeTemplate(w, http.StatusOK, "quiz-card", v)
}

func (s *Site) submitQuiz(w http.ResponseWriter, r *http.Request, v quizView) {
	ctx := r.Context()
	sid := session.FromContext(ctx)

	res, err := v.Attempt.Submit()
	if err != nil {
		v.Error = "Answer every question before submitting."
		s.writeTemplate(w, http.StatusOK, "quiz-card", v)
		return
	}
	if err := s.Quizzes.PutResult(ctx, sid, res); err != nil {
		s.Logger.Error("storing quiz result", zap.Error(err))
		s.actionError(w, "Could not save your result. Please try again.")
		return
	}
	s.Tracker.RecordResult(ctx, sid, res)
	s.Learning.NotifyCompletion(ctx, res)
	if err := s.Quizzes.Clear(ctx, sid); err != nil {
		s.Logger.Warn("clearing quiz attempt", zap.Error(err))
	}

	trigger(w, eventNavigate, navigateEvent{Path: router.Href(router.PageResults, map[string]string{"topic": v.Topic, "level": v.Level})})
	s.writeTemplate(w, http.StatusOK, "quiz-card", v)
}

type navigateEvent struct {
	Path  string `json:"path"`
	Delay int    `json:"delay,omitempty"`
}

type resultsView struct {
	Topic  string
	Level  string
	Result *quiz.Result
}

func (s *Site) renderResults(ctx context.Context, m router.Mount, match router.Match) error {
	sid := session.FromContext(ctx)
	topic, level := match.Param("topic"), match.Param("level")
	return s.load(ctx, m, match, func(ctx context.Context) (string, any, error) {
		v := resultsView{Topic: topic, Level: level}
		res, ok, err := s.Quizzes.TakeResult(ctx, sid, topic, level)
		if err != nil {
			return "", nil, err
		}
		if ok {
			v.Result = &res
		}
		return "results", v, nil
	})
}

type profileView struct {
	Header   headerData
	Progress learning.Progress
	Badges   []learning.Badge
}

func (s *Site) renderProfile(ctx context.Context, m router.Mount, match router.Match) error {
	sid := session.FromContext(ctx)
	return s.load(ctx, m, match, func(ctx context.Context) (string, any, error) {
		v := profileView{Header: s.header(ctx, sid)}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			v.Progress, err = s.Tracker.Progress(gctx, sid)
			return err
		})
		g.Go(func() (err error) {
			v.Badges, err = s.Tracker.Badges(gctx, sid)
			return err
		})
		if err := g.Wait(); err != nil {
			return "", nil, err
		}
		return "profile", v, nil
	})
}
