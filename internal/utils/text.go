package utils

import "time"

const (
	// PreviewLength is the number of characters shown for a conversation preview.
	PreviewLength = 30

	// KeyLayout is both the stored timestamp format and the format of
	// generated conversation keys.
	KeyLayout = "2006-01-02 15:04:05"

	displayLayout = "January 02, 2006 at 03:04 PM"
)

// Preview truncates text to PreviewLength characters. Text that reaches the
// limit gets an ellipsis, text shorter than it is returned unchanged.
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) < PreviewLength {
		return text
	}
	return string(runes[:PreviewLength]) + "..."
}

// FormatDisplayTime renders a stored timestamp for the history list.
// Values that do not parse are returned as they are.
func FormatDisplayTime(stored string) string {
	ts, err := time.Parse(KeyLayout, stored)
	if err != nil {
		return stored
	}
	return ts.Format(displayLayout)
}

func NewConversationKey(now time.Time) string {
	return now.Format(KeyLayout)
}
