package auth

import "context"

// StaticSource provides a fixed API key.
// This is useful for testing or when the key is provided via options.
type StaticSource struct {
	key string
}

// NewStaticSource creates a key source from a fixed value.
func NewStaticSource(key string) *StaticSource {
	return &StaticSource{key: key}
}

// Key returns the static key.
func (s *StaticSource) Key(_ context.Context) (string, error) {
	return s.key, nil
}
