package liscrape

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadURLList reads target URLs from a file, one per line. Blank and
// whitespace-only lines are skipped.
func ReadURLList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open URL list: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			urls = append(urls, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read URL list %s: %w", path, err)
	}
	return urls, nil
}
