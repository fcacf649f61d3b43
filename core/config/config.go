// Package config centralizes environment-based configuration. Secrets are
// supplied via environment variables, optionally loaded from a local .env
// file with github.com/joho/godotenv. The .env file itself must never be
// committed.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names recognized by this module and its tools.
const (
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
	EnvExaAPIKey       = "EXA_API_KEY"
	EnvSerperAPIKey    = "SERPER_API_KEY"

	// EnvAnthropicBaseURL overrides the Anthropic API endpoint, mainly for
	// proxies and test servers.
	EnvAnthropicBaseURL = "ANTHROPIC_API_BASE_URL"
)

// Load reads a .env file from the current working directory into the process
// environment. A missing file is not an error; variables already present in
// the environment are never overwritten.
func Load() error {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// LoadFrom reads the given .env files into the process environment. Unlike
// Load, a missing file is reported as an error because an explicit path
// signals intent.
func LoadFrom(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("loading env files %v: %w", paths, err)
	}
	return nil
}

// Keys holds the API keys for every provider this module can talk to. Empty
// fields mean the corresponding variable is unset.
type Keys struct {
	Anthropic string
	OpenAI    string
	Gemini    string
	Exa       string
	Serper    string
}

// APIKeys returns a snapshot of all recognized API keys from the environment.
func APIKeys() Keys {
	return Keys{
		Anthropic: os.Getenv(EnvAnthropicAPIKey),
		OpenAI:    os.Getenv(EnvOpenAIAPIKey),
		Gemini:    os.Getenv(EnvGeminiAPIKey),
		Exa:       os.Getenv(EnvExaAPIKey),
		Serper:    os.Getenv(EnvSerperAPIKey),
	}
}

// AnthropicAPIKey returns the Anthropic API key from the environment.
func AnthropicAPIKey() string {
	return os.Getenv(EnvAnthropicAPIKey)
}

// ExaAPIKey returns the Exa API key from the environment.
func ExaAPIKey() string {
	return os.Getenv(EnvExaAPIKey)
}

// Require returns the value of the named environment variable, or an error
// naming the variable when it is unset or empty. Use it at program start so
// missing secrets fail before the first request.
func Require(name string) (string, error) {
	value := os.Getenv(name)
	if value == "" {
		return "", fmt.Errorf("required environment variable %s is not set", name)
	}
	return value, nil
}
