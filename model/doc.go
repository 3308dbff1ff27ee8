// Package model defines the provider-agnostic model capability the agent
// loop drives.
//
// Core goals:
//   - Unify streaming + batch generation behind a single interface
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate lightweight scripting for tests (MockModel)
//
// Providers (OpenAI, Anthropic) implement the Model interface from this
// package so the loop remains decoupled from vendor SDKs. GenerateStream
// yields a lazy, finite, non-restartable sequence of text chunks; Generate
// is the batch form and additionally reports token usage when the provider
// supplies it.
package model
