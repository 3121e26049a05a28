// Package openai implements the ai capability interfaces against
// OpenAI-compatible APIs (OpenAI, Ollama, LocalAI, vLLM) via langchaingo.
//
// Classification, expansion, and sufficiency judgments run on the
// configured fast model; synthesis and answer generation run on the deep
// model. Structured calls use JSON mode with fence stripping, JSON repair,
// and a bounded parse retry loop.
package openai
