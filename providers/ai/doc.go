// Package ai defines the provider-agnostic request and response types used by
// every text-generation backend (Ollama, OpenAI-compatible endpoints).
// Each provider maps these types to its own wire format, keeping the rest of
// the codebase decoupled from provider-specific details.
//
// The central interface is [Provider]. Requests flow through [ChatRequest]
// and completions are returned as [ChatResponse].
package ai
