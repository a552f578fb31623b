package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func questions(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{ID: string(rune('a' + i)), Prompt: "?", Choices: []string{"w", "x", "y", "z"}, Answer: "C"}
	}
	return qs
}

func TestNewRequiresQuestions(t *testing.T) {
	_, err := New("t", "beginner", nil)
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestNavigationIsBounded(t *testing.T) {
	a, err := New("t", "beginner", questions(3))
	require.NoError(t, err)

	assert.False(t, a.Prev())
	assert.Equal(t, 0, a.Index)
	assert.True(t, a.Next())
	assert.True(t, a.Next())
	assert.False(t, a.Next())
	assert.Equal(t, 2, a.Index)
	assert.True(t, a.Prev())
	assert.Equal(t, 1, a.Index)
}

func TestSubmitAvailability(t *testing.T) {
	for n := 1; n <= 4; n++ {
		a, err := New("t", "beginner", questions(n))
		require.NoError(t, err)

		// Walk every combination of answered count and position.
		for i := 0; i < n; i++ {
			assert.False(t, a.CanSubmit(), "n=%d: %d answered, index %d", n, a.Answered(), a.Index)
			require.NoError(t, a.Answer(2))
			if i < n-1 {
				// All answered so far, but not on the last question.
				assert.False(t, a.CanSubmit())
				a.Next()
			}
		}
		assert.True(t, a.CanSubmit(), "n=%d: all answered on last question", n)

		if n > 1 {
			a.Prev()
			assert.False(t, a.CanSubmit(), "n=%d: all answered but not on last question", n)
			a.Next()
		}

		res, err := a.Submit()
		require.NoError(t, err)
		assert.Equal(t, n, res.Score)
		assert.False(t, a.CanSubmit())
		_, err = a.Submit()
		assert.ErrorIs(t, err, ErrSubmitted)
	}
}

func TestSubmitOnLastWithGapIsRejected(t *testing.T) {
	a, _ := New("t", "beginner", questions(3))
	a.Next()
	a.Next()
	require.NoError(t, a.Answer(0))
	_, err := a.Submit()
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestAnswerRejectsOutOfRange(t *testing.T) {
	a, _ := New("t", "beginner", questions(1))
	assert.Error(t, a.Answer(-1))
	assert.Error(t, a.Answer(4))
	assert.NoError(t, a.Answer(3))
}

func TestLetterMapping(t *testing.T) {
	q := Question{Answer: "C"}
	assert.True(t, IsCorrect(q, 2))
	assert.False(t, IsCorrect(q, 1))
	assert.False(t, IsCorrect(q, NoResponse))

	for letter, want := range map[string]int{"A": 0, "b": 1, " C ": 2, "D": 3} {
		got, ok := AnswerIndex(letter)
		assert.True(t, ok)
		assert.Equal(t, want, got, letter)
	}
	_, ok := AnswerIndex("")
	assert.False(t, ok)
	_, ok = AnswerIndex("3")
	assert.False(t, ok)
	assert.False(t, IsCorrect(Question{Answer: ""}, 0))
}

func TestPassThreshold(t *testing.T) {
	qs := questions(5)
	tests := []struct {
		correct int
		passed  bool
	}{
		{5, true},
		{4, true},
		{3, false},
		{0, false},
	}
	for _, tt := range tests {
		responses := make([]int, 5)
		for i := range responses {
			if i < tt.correct {
				responses[i] = 2
			} else {
				responses[i] = 0
			}
		}
		res := Grade("t", "beginner", qs, responses)
		assert.Equal(t, tt.correct, res.Score)
		assert.Equal(t, 5, res.Total)
		assert.Equal(t, tt.passed, res.Passed, "%d/5", tt.correct)
	}
}

func TestResultHelpers(t *testing.T) {
	r := Grade("t", "beginner", questions(3), []int{2, 2, 2})
	assert.True(t, r.Perfect())
	assert.Equal(t, 100, r.Percent())
	assert.Equal(t, "intermediate", r.NextLevel())
	assert.Equal(t, "No explanation available", r.Details[0].Explanation)

	r = Grade("t", "advanced", questions(3), []int{2, 0, 0})
	assert.Equal(t, 33, r.Percent())
	assert.Equal(t, "", r.NextLevel())
	assert.False(t, r.Passed)
}

func TestValid(t *testing.T) {
	a, _ := New("t", "beginner", questions(2))
	assert.True(t, a.Valid())
	a.Index = 5
	assert.False(t, a.Valid())
	var nilAttempt *Attempt
	assert.False(t, nilAttempt.Valid())
}
