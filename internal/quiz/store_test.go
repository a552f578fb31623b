package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/astroquery/internal/db"
	"github.com/ziadkadry99/astroquery/internal/prefs"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	d, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return NewStore(prefs.NewStore(d))
}

func TestAttemptPersistence(t *testing.T) {
	s := newStore(t)
	ctx := t.Context()

	a, err := New("7", "beginner", questions(2))
	require.NoError(t, err)
	require.NoError(t, a.Answer(1))
	a.Next()
	require.NoError(t, s.Save(ctx, "s1", a))

	got, err := s.Load(ctx, "s1", "7", "beginner")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, a, got)

	other, err := s.Load(ctx, "s1", "7", "advanced")
	require.NoError(t, err)
	assert.Nil(t, other, "attempts are keyed to one lesson")

	require.NoError(t, s.Clear(ctx, "s1"))
	got, err = s.Load(ctx, "s1", "7", "beginner")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResultIsReadOnce(t *testing.T) {
	s := newStore(t)
	ctx := t.Context()

	r := Grade("7", "beginner", questions(5), []int{2, 2, 2, 2, 0})
	require.NoError(t, s.PutResult(ctx, "s1", r))

	got, ok, err := s.TakeResult(ctx, "s1", "7", "beginner")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4, got.Score)
	assert.True(t, got.Passed)

	_, ok, err = s.TakeResult(ctx, "s1", "7", "beginner")
	require.NoError(t, err)
	assert.False(t, ok)
}
