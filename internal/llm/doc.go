// Package llm is the boundary to the language model. It builds chat models
// for the supported providers (groq, gemini, ollama) via langchaingo,
// converts the conversation log and tool catalog into the provider wire
// format, and normalizes responses into either a final answer or an ordered
// list of tool calls.
package llm
