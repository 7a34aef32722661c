package auth

import (
	"context"
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// DotenvSource loads a .env file into the process environment and then
// reads the key from it. Variables already set in the environment are not
// overridden, matching godotenv semantics.
type DotenvSource struct {
	// Path is the .env file to load. Empty means ./.env.
	Path string
}

// Key loads the .env file and returns the API key, if any. A missing file
// is not an error; the source simply has no key to offer.
func (s DotenvSource) Key(ctx context.Context) (string, error) {
	path := s.Path
	if path == "" {
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}

	return EnvSource{}.Key(ctx)
}
