package tools

import "time"

// TimestampLayout is YYYY-MM-DD HH:MM:SS.
const TimestampLayout = "2006-01-02 15:04:05"

// NewClockDefinition builds get_current_time around now (time.Now when nil).
// The argument is ignored.
func NewClockDefinition(now func() time.Time) ToolDefinition {
	if now == nil {
		now = time.Now
	}
	return ToolDefinition{
		Name:        "get_current_time",
		Description: "Returns the current date and time. Use this when you need to know what time it is.",
		InputSchema: InputSchema,
		Function: func(string) (string, error) {
			return now().Format(TimestampLayout), nil
		},
	}
}
