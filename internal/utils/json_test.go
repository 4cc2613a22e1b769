package utils

import (
	"strings"
	"testing"
)

type coachReply struct {
	Reflection string `json:"reflection"`
	Tasks      []struct {
		Title    string `json:"title"`
		Priority string `json:"priority"`
		Minutes  int    `json:"estimatedTime"`
	} `json:"suggestedTasks"`
	Done bool `json:"done"`
}

func TestExtractAndParseJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantTitle string
		wantRefl  string
		wantErr   string
	}{
		{
			name:      "plain object",
			input:     `{"reflection": "ok", "suggestedTasks": [{"title": "Write report", "priority": "high", "estimatedTime": 30}]}`,
			wantTitle: "Write report",
			wantRefl:  "ok",
		},
		{
			name:      "markdown fence",
			input:     "```json\n{\"reflection\": \"fenced\", \"suggestedTasks\": [{\"title\": \"Stretch\"}]}\n```",
			wantTitle: "Stretch",
			wantRefl:  "fenced",
		},
		{
			name:      "leading prose and trailing text",
			input:     `Here is your plan: {"reflection": "r", "suggestedTasks": [{"title": "Inbox zero"}]} Good luck!`,
			wantTitle: "Inbox zero",
			wantRefl:  "r",
		},
		{
			name:      "trailing commas",
			input:     `{"reflection": "r", "suggestedTasks": [{"title": "Walk",},],}`,
			wantTitle: "Walk",
			wantRefl:  "r",
		},
		{
			name:      "single quoted keys and values",
			input:     `{'reflection': 'it\'s fine', 'suggestedTasks': []}`,
			wantRefl:  "it's fine",
		},
		{
			name:      "unquoted enum value",
			input:     `{"reflection": "r", "suggestedTasks": [{"title": "Call mom", "priority": high}], "done": true}`,
			wantTitle: "Call mom",
			wantRefl:  "r",
		},
		{
			name:      "missing commas between lines",
			input:     "{\n\"reflection\": \"r\"\n\"suggestedTasks\": [{\"title\": \"Read\"}]\n}",
			wantTitle: "Read",
			wantRefl:  "r",
		},
		{
			name:      "raw newline inside string",
			input:     "{\"reflection\": \"line one\nline two\", \"suggestedTasks\": []}",
			wantRefl:  "line one\nline two",
		},
		{
			name:      "truncated output",
			input:     `{"reflection": "cut", "suggestedTasks": [{"title": "Half`,
			wantTitle: "Half",
			wantRefl:  "cut",
		},
		{
			name:     "json inside a string literal",
			input:    `"{\"reflection\": \"quoted\"}"`,
			wantRefl: "quoted",
		},
		{
			name:    "empty",
			input:   "   ",
			wantErr: "no JSON found",
		},
		{
			name:    "prose only",
			input:   "I cannot help with that.",
			wantErr: "no JSON start",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractAndParseJSON[coachReply](tt.input)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Reflection != tt.wantRefl {
				t.Errorf("reflection = %q, want %q", got.Reflection, tt.wantRefl)
			}
			if tt.wantTitle != "" {
				if len(got.Tasks) == 0 || got.Tasks[0].Title != tt.wantTitle {
					t.Errorf("tasks = %+v, want first title %q", got.Tasks, tt.wantTitle)
				}
			}
		})
	}
}

func TestExtractAndParseJSON_UnquotedValueKeepsLiterals(t *testing.T) {
	got, err := ExtractAndParseJSON[coachReply](`{"reflection": r, "done": true,}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Reflection != "r" || !got.Done {
		t.Errorf("got %+v", got)
	}
}

func TestEscapeControlChars(t *testing.T) {
	in := "{\"a\": \"x\ty\"}\n"
	want := "{\"a\": \"x\\ty\"}\n"
	if got := escapeControlChars(in); got != want {
		t.Errorf("escapeControlChars() = %q, want %q", got, want)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"Finish quarterly report", 10, "Finish ..."},
		{"héllo wörld", 8, "héllo..."},
		{"abc", 2, "ab"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
