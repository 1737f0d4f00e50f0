package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToWidgetHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
		{
			name:     "bold",
			input:    "The library is open **8 AM to 11 PM**.",
			expected: "The library is open <b>8 AM to 11 PM</b>.",
		},
		{
			name:     "italic",
			input:    "Please *note* this.",
			expected: "Please <i>note</i> this.",
		},
		{
			name:     "plain text passes through",
			input:    "Hello there.",
			expected: "Hello there.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToWidgetHTML(tt.input))
		})
	}
}

func TestToWidgetHTMLLists(t *testing.T) {
	out := ToWidgetHTML("- Admissions\n- Academics")
	assert.Contains(t, out, "• Admissions")
	assert.Contains(t, out, "• Academics")
	assert.NotContains(t, out, "<li>")
	assert.NotContains(t, out, "<ul>")
}

func TestToWidgetHTMLStripsUnsupportedTags(t *testing.T) {
	out := ToWidgetHTML("# Heading\n\nBody text.")
	assert.NotContains(t, out, "<h1>")
	assert.Contains(t, out, "Heading")
	assert.Contains(t, out, "Body text.")
}

func TestToWidgetHTMLCode(t *testing.T) {
	out := ToWidgetHTML("Use `student-id` to log in.")
	assert.Contains(t, out, "<code>student-id</code>")
}
