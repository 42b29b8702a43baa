package tui

import (
	"strings"
	"testing"
)

func TestEditRuneAddCharacters(t *testing.T) {
	tests := []struct {
		name  string
		start string
		key   string
		want  string
	}{
		{"append to empty", "", "a", "a"},
		{"append letter", "hel", "l", "hell"},
		{"append digit", "abc", "1", "abc1"},
		{"append space", "hello", " ", "hello "},
		{"append named space", "hello", "space", "hello "},
		{"append special", "abc", "@", "abc@"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := editRune(tc.start, tc.key)
			if got != tc.want {
				t.Errorf("editRune(%q, %q) = %q, want %q", tc.start, tc.key, got, tc.want)
			}
		})
	}
}

func TestEditRuneBackspace(t *testing.T) {
	tests := []struct {
		name  string
		start string
		want  string
	}{
		{"backspace on single char", "a", ""},
		{"backspace on longer string", "hello", "hell"},
		{"backspace on empty does nothing", "", ""},
		{"backspace removes a whole rune", "café", "caf"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := editRune(tc.start, "backspace")
			if got != tc.want {
				t.Errorf("editRune(%q, 'backspace') = %q, want %q", tc.start, got, tc.want)
			}
		})
	}
}

func TestEditRuneIgnoresNonPrintableKeys(t *testing.T) {
	for _, k := range []string{"enter", "esc", "up", "down", "tab", "shift+tab", "ctrl+s", "ctrl+c"} {
		if got := editRune("abc", k); got != "abc" {
			t.Errorf("editRune(%q, %q) = %q, want unchanged", "abc", k, got)
		}
	}
}

func TestEditRuneMaxLength(t *testing.T) {
	full := strings.Repeat("x", maxInputLen)
	if got := editRune(full, "y"); got != full {
		t.Error("input grew past maxInputLen")
	}
	if got := editRune(full, " "); got != full {
		t.Error("space grew input past maxInputLen")
	}
}

func TestTruncateToHeight(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		maxLines int
		want     string
	}{
		{"fits", "a\nb", 3, "a\nb"},
		{"cut", "a\nb\nc\nd", 2, "a\nb\n"},
		{"zero keeps all", "a\nb", 0, "a\nb"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := truncateToHeight(tc.in, tc.maxLines); got != tc.want {
				t.Errorf("truncateToHeight(%q, %d) = %q, want %q", tc.in, tc.maxLines, got, tc.want)
			}
		})
	}
}

func TestRenderField(t *testing.T) {
	f := field{label: "email", key: "email", placeholder: "you@example.com"}
	if got := renderField(f, false, ""); !strings.Contains(got, "you@example.com") {
		t.Errorf("unfocused empty field should show its placeholder: %q", got)
	}
	if got := renderField(f, true, ""); strings.Contains(got, "you@example.com") {
		t.Errorf("focused field should hide its placeholder: %q", got)
	}

	f.value = "ada@example.com"
	got := renderField(f, false, "Invalid email address")
	if !strings.Contains(got, "ada@example.com") || !strings.Contains(got, "Invalid email address") {
		t.Errorf("expected value and error, got %q", got)
	}
	if strings.Count(got, "\n") != 1 {
		t.Error("error should sit on its own line")
	}

	secret := field{label: "password", value: "pa55"}
	secret.secret = true
	if got := renderField(secret, false, ""); strings.Contains(got, "pa55") || !strings.Contains(got, "••••") {
		t.Errorf("secret field not masked: %q", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abcdef" {
		t.Errorf("padRight should not truncate, got %q", got)
	}
}
