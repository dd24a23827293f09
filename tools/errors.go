package tools

import "fmt"

// DuplicateToolNameError is returned when a name is registered twice.
type DuplicateToolNameError struct {
	Name string
}

func (e *DuplicateToolNameError) Error() string {
	return fmt.Sprintf("duplicate tool name %q", e.Name)
}

// UnknownToolError is returned when a lookup misses.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}
