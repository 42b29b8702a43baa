package tui

import (
	"strings"
	"unicode/utf8"
)

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 500

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	case " ", "space":
		if utf8.RuneCountInString(text) >= maxInputLen {
			return text
		}
		return text + " "
	default:
		if utf8.RuneCountInString(key) == 1 {
			if utf8.RuneCountInString(text) >= maxInputLen {
				return text
			}
			return text + key
		}
		return text
	}
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// field is one labelled text input of a form.
type field struct {
	label       string
	key         string // name used by form validation
	value       string
	secret      bool
	placeholder string
}

// renderField renders a form row with cursor, mask and inline error.
func renderField(f field, focused bool, errMsg string) string {
	cursor := "  "
	style := metaStyle
	if focused {
		cursor = inputPromptStyle.Render("> ")
		style = selectedStyle
	}
	value := f.value
	if f.secret {
		value = strings.Repeat("•", utf8.RuneCountInString(value))
	}
	switch {
	case value == "" && !focused && f.placeholder != "":
		value = inputPlaceholderStyle.Render(f.placeholder)
	case focused:
		value += accentStyle.Render("█")
	}
	line := cursor + style.Render(padRight(f.label, 10)) + " " + value
	if errMsg != "" {
		line += "\n" + strings.Repeat(" ", 13) + errorStyle.Render(errMsg)
	}
	return line
}

func padRight(s string, n int) string {
	if w := utf8.RuneCountInString(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}
