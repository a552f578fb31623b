package learning

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ziadkadry99/astroquery/internal/backend"
	"github.com/ziadkadry99/astroquery/internal/db"
	"github.com/ziadkadry99/astroquery/internal/prefs"
	"github.com/ziadkadry99/astroquery/internal/quiz"
)

func TestParseContent(t *testing.T) {
	score := 3.0
	base := backend.Lesson{Title: "Bone Loss", Topic: "physiology", Level: "beginner", DifficultyScore: &score}

	tests := []struct {
		name    string
		content string
		first   Block
		count   int
	}{
		{"missing", ``, Block{T: "h2", Text: "Welcome to Bone Loss"}, 7},
		{"null", `null`, Block{T: "h2", Text: "Welcome to Bone Loss"}, 7},
		{"json object", `{"blocks":[{"t":"h2","text":"Intro"},{"t":"ul","items":["a"]}]}`, Block{T: "h2", Text: "Intro"}, 2},
		{"json in string", `"{\"blocks\":[{\"t\":\"p\",\"text\":\"Hi\"}]}"`, Block{T: "p", Text: "Hi"}, 1},
		{"bare block array", `[{"t":"h3","text":"H"}]`, Block{T: "h3", Text: "H"}, 1},
		{"plain text", `"First para.\n\nSecond para."`, Block{T: "h2", Text: "Bone Loss"}, 5},
		{"empty blocks", `{"blocks":[{"t":"img","text":"x"}]}`, Block{T: "h2", Text: "Welcome to Bone Loss"}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := base
			l.Content = json.RawMessage(tt.content)
			blocks := ParseContent(&l, "beginner")
			require.Len(t, blocks, tt.count)
			assert.Equal(t, tt.first, blocks[0])
		})
	}

	l := base
	l.Content = json.RawMessage(`"Just text"`)
	blocks := ParseContent(&l, "beginner")
	assert.Equal(t, "Topic: physiology | Level: beginner | Difficulty: 3", blocks[1].Text)
}

type staticCounter struct {
	n   int
	err error
}

func (s staticCounter) CountLessons(context.Context) (int, error) { return s.n, s.err }

func newTracker(t *testing.T, counter LessonCounter, day time.Time) (*Tracker, *prefs.Store, *time.Time) {
	t.Helper()
	d, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	p := prefs.NewStore(d)
	tr := NewTracker(p, counter, zap.NewNop())
	now := day
	tr.now = func() time.Time { return now }
	return tr, p, &now
}

func passed(topic, level string, score, total int) quiz.Result {
	return quiz.Result{Topic: topic, Level: level, Score: score, Total: total, Passed: float64(score)/float64(total) >= quiz.PassThreshold}
}

func TestRecordResultMarksCompletionAndBadges(t *testing.T) {
	day := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tr, _, _ := newTracker(t, staticCounter{n: 10}, day)
	ctx := t.Context()

	tr.RecordResult(ctx, "s1", passed("7", "beginner", 3, 5))
	assert.False(t, tr.IsCompleted(ctx, "s1", "7", "beginner"), "a failed quiz does not complete the lesson")

	tr.RecordResult(ctx, "s1", passed("7", "beginner", 4, 5))
	tr.RecordResult(ctx, "s1", passed("7", "beginner", 5, 5))
	assert.True(t, tr.IsCompleted(ctx, "s1", "7", "beginner"))

	p, err := tr.Progress(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"7-beginner"}, p.Completed, "retakes are not double counted")
	assert.Equal(t, 10, p.TotalLessons)
	assert.Equal(t, 10, p.Percent())
	assert.Equal(t, 1, p.StreakDays)
	assert.Equal(t, 2, p.BadgesEarned)

	badges, err := tr.Badges(ctx, "s1")
	require.NoError(t, err)
	earned := map[string]bool{}
	for _, b := range badges {
		earned[b.ID] = b.Earned
	}
	assert.Equal(t, map[string]bool{
		"first-lesson":  true,
		"five-lessons":  false,
		"perfect-score": true,
		"streak-7":      false,
	}, earned)
}

func TestFiveLessonsBadge(t *testing.T) {
	tr, p, _ := newTracker(t, nil, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	ctx := t.Context()

	for _, topic := range []string{"1", "2", "3", "4", "5"} {
		tr.RecordResult(ctx, "s1", passed(topic, "beginner", 4, 5))
	}
	v, _, err := p.Get(ctx, "s1", KeyFiveLessonsBadge)
	require.NoError(t, err)
	assert.Equal(t, "true", v)
}

func TestStreak(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr, _, now := newTracker(t, nil, start)
	ctx := t.Context()

	for i := 0; i < 7; i++ {
		*now = start.AddDate(0, 0, i)
		tr.RecordResult(ctx, "s1", passed("7", "beginner", 4, 5))
		// A second pass on the same day does not extend the streak.
		tr.RecordResult(ctx, "s1", passed("8", "beginner", 4, 5))
	}
	p, err := tr.Progress(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 7, p.StreakDays)
	assert.Equal(t, 0, p.TotalLessons)
	assert.Equal(t, 0, p.Percent())

	badges, _ := tr.Badges(ctx, "s1")
	assert.True(t, badges[3].Earned, "streak-7 earned after seven consecutive days")

	*now = start.AddDate(0, 0, 9)
	tr.RecordResult(ctx, "s1", passed("7", "beginner", 4, 5))
	p, _ = tr.Progress(ctx, "s1")
	assert.Equal(t, 1, p.StreakDays, "a gap restarts the streak")
}

func TestProgressToleratesBackendFailure(t *testing.T) {
	tr, _, _ := newTracker(t, staticCounter{err: errors.New("down")}, time.Now())
	p, err := tr.Progress(t.Context(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, p.TotalLessons)
}

func TestServiceAgainstBackend(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/education/lessons", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"title":"Bone Loss","topic":"physiology"},{"id":2,"title":"Plants","level":"advanced","difficulty_score":4.5}]`))
	})
	mux.HandleFunc("/education/lessons/1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":1,"title":"Bone Loss","topic":"physiology","level":"beginner","content":"Text."}`))
	})
	mux.HandleFunc("/education/lessons/1/questions", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":11,"text":"Q1","choices":["a","b","c"],"answer":"C"}]`))
	})
	var notified bool
	mux.HandleFunc("/education/lessons/1/complete", func(w http.ResponseWriter, r *http.Request) {
		notified = true
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	svc := NewService(backend.New(srv.URL, nil), zap.NewNop())
	ctx := t.Context()

	topics, err := svc.Topics(ctx)
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "Learn about Bone Loss", topics[0].Description)
	assert.Equal(t, "All Levels", topics[0].Level)
	assert.Equal(t, "N/A", topics[0].Difficulty)
	assert.Equal(t, "4.5", topics[1].Difficulty)

	n, err := svc.CountLessons(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	lesson, err := svc.Lesson(ctx, "1", "beginner")
	require.NoError(t, err)
	assert.Equal(t, "Bone Loss", lesson.Title)
	assert.Equal(t, "Text.", lesson.Blocks[len(lesson.Blocks)-1].Text)

	qs, err := svc.Questions(ctx, "1")
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "11", qs[0].ID)
	assert.Equal(t, "Q1", qs[0].Prompt)

	// Best effort: the 500 is swallowed.
	svc.NotifyCompletion(ctx, quiz.Result{Topic: "1", Level: "beginner", Score: 1, Total: 1, Passed: true})
	assert.True(t, notified)

	_, err = svc.Topic(ctx, "404")
	assert.True(t, backend.IsStatus(err, http.StatusNotFound))
}
