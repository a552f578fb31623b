package markdown

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	r := New()

	tests := []struct {
		name    string
		src     string
		want    []string
		notWant []string
	}{
		{
			name: "list and emphasis",
			src:  "**Key findings**\n\n- bone loss\n- muscle atrophy",
			want: []string{"<strong>Key findings</strong>", "<li>bone loss</li>"},
		},
		{
			name: "hard wraps",
			src:  "line one\nline two",
			want: []string{"line one<br>"},
		},
		{
			name:    "raw html dropped",
			src:     "hello <script>alert(1)</script>",
			notWant: []string{"<script>"},
		},
		{
			name: "gfm table",
			src:  "| a | b |\n|---|---|\n| 1 | 2 |",
			want: []string{"<table>", "<td>1</td>"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Render(tt.src)
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(string(out), w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(string(out), w) {
					t.Errorf("output should not contain %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestRenderOrText(t *testing.T) {
	out := New().RenderOrText("plain")
	if !strings.Contains(string(out), "plain") {
		t.Errorf("RenderOrText() = %q", out)
	}
}
