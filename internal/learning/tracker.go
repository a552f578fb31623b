package learning

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/astroquery/internal/prefs"
	"github.com/ziadkadry99/astroquery/internal/quiz"
)

// Badge flag keys.
const (
	KeyFirstLessonBadge  = "firstLessonBadge"
	KeyFiveLessonsBadge  = "fiveLessonsBadge"
	KeyPerfectScoreBadge = "perfectScoreBadge"
	KeyStreak7Badge      = "streak7Badge"
)

const dateLayout = "2006-01-02"

// BadgeDef describes an earnable badge.
type BadgeDef struct {
	ID          string
	Name        string
	Description string
	Icon        string
	key         string
}

// Badges is the fixed badge catalogue.
var Badges = []BadgeDef{
	{ID: "first-lesson", Name: "First Steps", Description: "Complete your first lesson", Icon: "🎯", key: KeyFirstLessonBadge},
	{ID: "five-lessons", Name: "Scholar", Description: "Complete 5 lessons", Icon: "📚", key: KeyFiveLessonsBadge},
	{ID: "perfect-score", Name: "Perfectionist", Description: "Get 100% on a quiz", Icon: "⭐", key: KeyPerfectScoreBadge},
	{ID: "streak-7", Name: "Consistent", Description: "7-day learning streak", Icon: "🔥", key: KeyStreak7Badge},
}

// Badge is a catalogue entry with the session's earned flag.
type Badge struct {
	BadgeDef
	Earned bool
}

// Progress summarises a session's learning.
type Progress struct {
	Completed    []string
	TotalLessons int
	StreakDays   int
	LastActivity string
	BadgesEarned int
}

// Percent is completed over total lessons, 0 when the total is unknown.
func (p Progress) Percent() int {
	if p.TotalLessons == 0 {
		return 0
	}
	pct := len(p.Completed) * 100 / p.TotalLessons
	return min(pct, 100)
}

// LessonKey identifies a completed lesson level.
func LessonKey(topic, level string) string { return topic + "-" + level }

// LessonCounter reports how many lessons exist.
type LessonCounter interface {
	CountLessons(ctx context.Context) (int, error)
}

// Tracker is the single source of truth for progress and badges. All state
// lives in the preference store; nothing is kept on the backend.
type Tracker struct {
	prefs   *prefs.Store
	lessons LessonCounter
	logger  *zap.Logger
	now     func() time.Time
	mu      sync.Mutex
}

// NewTracker creates a tracker. lessons may be nil, in which case the
// lesson total is reported as unknown.
func NewTracker(p *prefs.Store, lessons LessonCounter, logger *zap.Logger) *Tracker {
	return &Tracker{prefs: p, lessons: lessons, logger: logger, now: time.Now}
}

func (t *Tracker) completed(ctx context.Context, sessionID string) ([]string, error) {
	var keys []string
	if _, err := t.prefs.GetJSON(ctx, sessionID, prefs.KeyCompletedLessons, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

func (t *Tracker) intValue(ctx context.Context, sessionID, key string) int {
	raw, ok, err := t.prefs.Get(ctx, sessionID, key)
	if err != nil || !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

// IsCompleted reports whether a lesson level was passed.
func (t *Tracker) IsCompleted(ctx context.Context, sessionID, topic, level string) bool {
	keys, err := t.completed(ctx, sessionID)
	return err == nil && slices.Contains(keys, LessonKey(topic, level))
}

// Progress returns the session's totals. A backend failure while counting
// lessons is logged and reported as a zero total.
func (t *Tracker) Progress(ctx context.Context, sessionID string) (Progress, error) {
	keys, err := t.completed(ctx, sessionID)
	if err != nil {
		return Progress{}, fmt.Errorf("reading progress: %w", err)
	}
	p := Progress{
		Completed:  keys,
		StreakDays: t.intValue(ctx, sessionID, prefs.KeyStreakDays),
	}
	p.LastActivity, _, _ = t.prefs.Get(ctx, sessionID, prefs.KeyLastActivity)

	if t.lessons != nil {
		total, err := t.lessons.CountLessons(ctx)
		if err != nil {
			t.logger.Warn("counting lessons failed, total unknown", zap.Error(err))
		} else {
			p.TotalLessons = total
		}
	}

	badges, err := t.Badges(ctx, sessionID)
	if err != nil {
		return Progress{}, err
	}
	for _, b := range badges {
		if b.Earned {
			p.BadgesEarned++
		}
	}
	return p, nil
}

// Badges returns the catalogue with earned flags.
func (t *Tracker) Badges(ctx context.Context, sessionID string) ([]Badge, error) {
	out := make([]Badge, 0, len(Badges))
	for _, def := range Badges {
		v, _, err := t.prefs.Get(ctx, sessionID, def.key)
		if err != nil {
			return nil, fmt.Errorf("reading badge %s: %w", def.ID, err)
		}
		out = append(out, Badge{BadgeDef: def, Earned: v == "true"})
	}
	return out, nil
}

// RecordResult applies a graded quiz: a pass marks the lesson complete and
// advances the streak, and badges are re-evaluated. It is best-effort;
// storage failures are logged, never returned.
func (t *Tracker) RecordResult(ctx context.Context, sessionID string, r quiz.Result) {
	if err := t.recordResult(ctx, sessionID, r); err != nil {
		t.logger.Warn("recording quiz result failed",
			zap.String("session", sessionID), zap.String("lesson", LessonKey(r.Topic, r.Level)), zap.Error(err))
	}
}

func (t *Tracker) recordResult(ctx context.Context, sessionID string, r quiz.Result) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	keys, err := t.completed(ctx, sessionID)
	if err != nil {
		return err
	}

	streak := t.intValue(ctx, sessionID, prefs.KeyStreakDays)
	if r.Passed {
		key := LessonKey(r.Topic, r.Level)
		if !slices.Contains(keys, key) {
			keys = append(keys, key)
			if err := t.prefs.SetJSON(ctx, sessionID, prefs.KeyCompletedLessons, keys); err != nil {
				return err
			}
		}
		if streak, err = t.touchStreak(ctx, sessionID, streak); err != nil {
			return err
		}
	}

	earn := map[string]bool{
		KeyFirstLessonBadge:  len(keys) >= 1,
		KeyFiveLessonsBadge:  len(keys) >= 5,
		KeyPerfectScoreBadge: r.Perfect(),
		KeyStreak7Badge:      streak >= 7,
	}
	for key, ok := range earn {
		if !ok {
			continue
		}
		if err := t.prefs.Set(ctx, sessionID, key, "true"); err != nil {
			return err
		}
	}
	return nil
}

// touchStreak counts consecutive active days: same day keeps the streak,
// the next day extends it, a gap restarts it at 1.
func (t *Tracker) touchStreak(ctx context.Context, sessionID string, streak int) (int, error) {
	today := t.now().Format(dateLayout)
	last, _, err := t.prefs.Get(ctx, sessionID, prefs.KeyLastActivity)
	if err != nil {
		return streak, err
	}
	if last == today && streak > 0 {
		return streak, nil
	}

	yesterday := t.now().AddDate(0, 0, -1).Format(dateLayout)
	if last == yesterday {
		streak++
	} else {
		streak = 1
	}

	if err := t.prefs.Set(ctx, sessionID, prefs.KeyStreakDays, strconv.Itoa(streak)); err != nil {
		return streak, err
	}
	if err := t.prefs.Set(ctx, sessionID, prefs.KeyLastActivity, today); err != nil {
		return streak, err
	}
	return streak, nil
}
