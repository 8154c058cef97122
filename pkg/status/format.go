package status

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// ProgressFormatter defines how progress messages are rendered
type ProgressFormatter interface {
	// FormatProgress formats a progress message for a named step
	FormatProgress(name string, current, total int64) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultProgressFormatter renders byte counts in human units
type DefaultProgressFormatter struct{}

// NewDefaultProgressFormatter creates a new DefaultProgressFormatter
func NewDefaultProgressFormatter() *DefaultProgressFormatter {
	return &DefaultProgressFormatter{}
}

// FormatProgress formats a progress message with percentage when the total is known
func (f *DefaultProgressFormatter) FormatProgress(name string, current, total int64) string {
	if current < 0 {
		current = 0
	}
	if total < 0 {
		return fmt.Sprintf("⏳ %s: %s", name, humanize.IBytes(uint64(current)))
	}

	var percentage float64
	if total == 0 {
		percentage = 100
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ %s: %s/%s (%.0f%%)", name,
			humanize.IBytes(uint64(current)), humanize.IBytes(uint64(total)), percentage)
	}
	return fmt.Sprintf("⏳ %s: %s/%s (%.0f%%)", name,
		humanize.IBytes(uint64(current)), humanize.IBytes(uint64(total)), percentage)
}

// FormatError formats an error message with emoji
func (f *DefaultProgressFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
