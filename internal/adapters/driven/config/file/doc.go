// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage with environment overrides
//   - PromptStore: User-editable LLM prompt templates
//
// LoadDotEnv reads .env files so credentials can live outside the TOML file.
package file
