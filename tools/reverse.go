package tools

import "unicode/utf8"

var ReverseStringDefinition = ToolDefinition{
	Name:        "reverse_string",
	Description: "Reverses a string. Input should be a single string.",
	InputSchema: InputSchema,
	Function: func(input string) (string, error) {
		return ReverseString(input), nil
	},
}

// ReverseString reverses s by code point. Invalid UTF-8 is reversed byte by
// byte so that reversing twice always returns the original string.
func ReverseString(s string) string {
	if !utf8.ValidString(s) {
		b := []byte(s)
		for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
			b[i], b[j] = b[j], b[i]
		}
		return string(b)
	}
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
