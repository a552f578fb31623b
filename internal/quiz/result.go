package quiz

import "math"

// Detail is the per-question outcome shown on the results page.
type Detail struct {
	ID          string `json:"id"`
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation"`
}

// Result is a graded attempt.
type Result struct {
	Topic   string   `json:"topic"`
	Level   string   `json:"level"`
	Score   int      `json:"score"`
	Total   int      `json:"total"`
	Passed  bool     `json:"passed"`
	Details []Detail `json:"details"`
}

// Percent is the rounded score percentage.
func (r Result) Percent() int {
	if r.Total == 0 {
		return 0
	}
	return int(math.Round(float64(r.Score) / float64(r.Total) * 100))
}

// Perfect reports a full score.
func (r Result) Perfect() bool { return r.Total > 0 && r.Score == r.Total }

// NextLevel is the level unlocked by passing, or "" after advanced.
func (r Result) NextLevel() string {
	switch r.Level {
	case "beginner":
		return "intermediate"
	case "intermediate":
		return "advanced"
	}
	return ""
}

// Grade scores responses against questions.
func Grade(topic, level string, questions []Question, responses []int) Result {
	res := Result{Topic: topic, Level: level, Total: len(questions)}
	for i, q := range questions {
		resp := NoResponse
		if i < len(responses) {
			resp = responses[i]
		}
		ok := IsCorrect(q, resp)
		if ok {
			res.Score++
		}
		explanation := q.Explanation
		if explanation == "" {
			explanation = "No explanation available"
		}
		res.Details = append(res.Details, Detail{ID: q.ID, Correct: ok, Explanation: explanation})
	}
	res.Passed = res.Total > 0 && float64(res.Score)/float64(res.Total) >= PassThreshold
	return res
}
