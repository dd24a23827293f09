// Package runner drives one query through the bounded request, act, observe
// loop.
//
// Invariants:
//   - every tool_call in a session transcript is immediately followed by its
//     tool_result, so the transcript is valid to resend at any point.
//   - the model is called at most MaxIterations times per session.
//
// Flow:
//
//	user(text) -> tool_call -> tool_result -> ... -> final(text)
package runner
