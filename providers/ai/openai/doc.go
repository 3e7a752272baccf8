// Package openai implements ai.Provider for any OpenAI-compatible
// /chat/completions endpoint (OpenAI, vLLM, LM Studio, llama.cpp server,
// Ollama's /v1 compatibility layer).
package openai
