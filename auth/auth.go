// Package auth resolves the Lobstr.io API key from configured sources.
package auth

import "context"

// Source represents a source of the API key.
type Source interface {
	// Key returns the API key, or "" if this source has none.
	Key(ctx context.Context) (string, error)
}

// ChainSources returns the key from the first source that provides one.
func ChainSources(ctx context.Context, sources ...Source) (string, error) {
	for _, src := range sources {
		key, err := src.Key(ctx)
		if err != nil {
			return "", err
		}
		if key != "" {
			return key, nil
		}
	}
	return "", nil
}
