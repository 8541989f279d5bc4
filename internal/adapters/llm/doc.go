// Package llm provides the LLM client implementations: a Gemini-backed
// client for real traffic and a deterministic mock for local mode.
package llm
