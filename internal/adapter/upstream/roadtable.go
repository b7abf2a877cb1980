package upstream

import (
	"fmt"
	"os"
)

// LoadRoadTable reads the raw road-hierarchy table export from disk. The
// caller feeds the text to hierarchy.BuildIndex; a missing file is the
// caller's call to treat as fatal or to run with an empty index.
func LoadRoadTable(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read road table: %w", err)
	}
	return string(data), nil
}
