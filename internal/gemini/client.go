package gemini

import (
	"net/http"
	"time"
)

// GeminiError represents an error that occurred during Gemini API interaction
type GeminiError struct {
	Op  string // Operation that caused the error
	Err error  // Original error
}

// Error implements the error interface
func (e *GeminiError) Error() string {
	if e.Err == nil {
		return "gemini error: " + e.Op
	}
	return "gemini error: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *GeminiError) Unwrap() error {
	return e.Err
}

// Client represents a client for the Gemini generateContent API
type Client struct {
	apiKey     string
	apiURL     string
	modelID    string
	httpClient *http.Client
}

// Config holds configuration for the Gemini client
type Config struct {
	APIKey  string
	ModelID string
	Timeout time.Duration
}

// DefaultConfig returns a default configuration for the Gemini client
func DefaultConfig() *Config {
	return &Config{
		ModelID: "gemini-2.5-flash",
		Timeout: 60 * time.Second,
	}
}

// NewClient creates a new Gemini client
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	return &Client{
		apiKey:  config.APIKey,
		apiURL:  "https://generativelanguage.googleapis.com/v1beta/models",
		modelID: config.ModelID,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}
