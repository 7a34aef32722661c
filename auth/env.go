package auth

import (
	"context"
	"os"
)

// envVars lists the environment variables checked for the API key, in
// priority order. API_KEY is the name the vendor's documentation uses.
var envVars = []string{"LOBSTR_API_KEY", "API_KEY"}

// EnvSource reads the API key from environment variables.
type EnvSource struct{}

// Key returns the API key from the first set environment variable.
func (EnvSource) Key(_ context.Context) (string, error) {
	for _, name := range envVars {
		if value := os.Getenv(name); value != "" {
			return value, nil
		}
	}
	return "", nil
}

// EnvVarNames returns the environment variable names checked for the key.
// This is useful for generating help messages.
func EnvVarNames() []string {
	names := make([]string, len(envVars))
	copy(names, envVars)
	return names
}
