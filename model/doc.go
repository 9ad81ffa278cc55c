// Package model defines the provider-agnostic abstractions for the language
// models an agent's decision engine calls into.
//
// The package aims for:
//   - One synchronous interface (Generate / Converse) over every vendor
//   - Per-call sampling options via Parameters with sensible defaults
//   - Normalized Response shape (content, finish reason, token usage)
//   - Lightweight mocking for tests (MockModel) and quota protection
//     (RateLimited)
//
// Vendor SDKs stay confined to the provider subpackages (openai, anthropic),
// which implement the Model interface so higher layers never import them
// directly. Models with native function calling additionally implement
// FunctionCaller.
package model
