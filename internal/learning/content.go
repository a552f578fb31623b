package learning

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ziadkadry99/astroquery/internal/backend"
)

// Block is one element of lesson content.
type Block struct {
	T     string   `json:"t"`
	Text  string   `json:"text,omitempty"`
	Items []string `json:"items,omitempty"`
}

type contentDoc struct {
	Blocks []Block `json:"blocks"`
}

// ParseContent turns a lesson's content field into blocks. Structured JSON
// is used as is, plain text is wrapped, and missing content gets a generic
// introduction.
func ParseContent(l *backend.Lesson, level string) []Block {
	raw := bytes.TrimSpace(l.Content)
	if len(raw) == 0 || string(raw) == "null" || string(raw) == `""` {
		return defaultBlocks(l, level)
	}

	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return defaultBlocks(l, level)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return defaultBlocks(l, level)
		}
		if blocks, ok := decodeBlocks([]byte(text)); ok {
			return blocks
		}
		return textBlocks(l, text)
	}

	if blocks, ok := decodeBlocks(raw); ok {
		return blocks
	}
	return defaultBlocks(l, level)
}

func decodeBlocks(raw []byte) ([]Block, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, false
	}
	var blocks []Block
	switch raw[0] {
	case '{':
		var doc contentDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, false
		}
		blocks = doc.Blocks
	case '[':
		if err := json.Unmarshal(raw, &blocks); err != nil {
			return nil, false
		}
	default:
		return nil, false
	}
	blocks = validBlocks(blocks)
	return blocks, len(blocks) > 0
}

func validBlocks(blocks []Block) []Block {
	out := blocks[:0]
	for _, b := range blocks {
		switch b.T {
		case "h2", "h3", "p":
			if b.Text != "" {
				out = append(out, b)
			}
		case "ul":
			if len(b.Items) > 0 {
				out = append(out, b)
			}
		}
	}
	return out
}

func difficulty(l *backend.Lesson) string {
	if l.DifficultyScore == nil {
		return "Not specified"
	}
	return fmt.Sprintf("%g", *l.DifficultyScore)
}

func textBlocks(l *backend.Lesson, text string) []Block {
	blocks := []Block{
		{T: "h2", Text: l.Title},
		{T: "p", Text: fmt.Sprintf("Topic: %s | Level: %s | Difficulty: %s", l.Topic, l.Level, difficulty(l))},
		{T: "h3", Text: "Lesson Content"},
	}
	for _, para := range strings.Split(text, "\n\n") {
		if para = strings.TrimSpace(para); para != "" {
			blocks = append(blocks, Block{T: "p", Text: para})
		}
	}
	return blocks
}

func defaultBlocks(l *backend.Lesson, level string) []Block {
	return []Block{
		{T: "h2", Text: "Welcome to " + l.Title},
		{T: "p", Text: fmt.Sprintf("This is a %s level lesson about %s.", level, l.Topic)},
		{T: "h3", Text: "Learning Objectives"},
		{T: "ul", Items: []string{
			"Understand the key concepts",
			"Apply knowledge in practical scenarios",
			"Complete the quiz to test understanding",
		}},
		{T: "h3", Text: "Lesson Content"},
		{T: "p", Text: fmt.Sprintf("This lesson covers important aspects of %s at the %s level. The difficulty score is %s.", l.Topic, level, difficulty(l))},
		{T: "p", Text: "Take your time to read through the material and make sure you understand each concept before proceeding to the quiz."},
	}
}
