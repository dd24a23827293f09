// Package tools defines tool contracts and the three demo tools.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Registry: ordered, name-unique, frozen before use.
//   - Demo tools: get_current_time, reverse_string, calculator.
//   - Invariant: handlers take a single string argument and report
//     recoverable failures as text rather than Go errors.
package tools
