// Package memory holds the per-query transcript.
//
// Model:
//   - A Turn is one of: user message, tool call request, tool result, final answer.
//   - A tool call is always followed by exactly one matching tool result.
//   - Transcripts live for one query; SaveTranscript exists for debugging dumps only.
package memory
