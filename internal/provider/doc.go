// Package provider adapts hosted chat-completion APIs to the agent loop.
//
// A Model receives the transcript and tool definitions and answers with either
// a single final turn or one or more tool call turns. Failures are classified
// into ErrAuthentication, ErrTransport and ErrMalformedResponse.
//
// Backends:
//
//	openai, github -> OpenAI chat completions wire format (go-openai)
//	anthropic      -> Anthropic Messages API (anthropic-sdk-go)
package provider
