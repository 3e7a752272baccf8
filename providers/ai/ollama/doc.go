// Package ollama implements ai.Provider against a local Ollama server using
// the non-streaming /api/generate endpoint.
//
// Generation parameters from ai.GenerationConfig map to Ollama options:
// MaxTokens to num_predict, plus temperature, top_k, top_p and
// repeat_penalty. [Provider.Ping] lists installed models via /api/tags and
// reports whether the configured model is among them.
package ollama
