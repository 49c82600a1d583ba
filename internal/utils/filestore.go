package utils

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SafeName keeps letters, digits, spaces, dashes and underscores so user
// supplied names cannot escape the archive directory.
func SafeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r == ' ' || r == '-' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// ArchiveSubmissionFile writes the raw upload under
// {base}/{students|teachers}/{user}/{timestamp}_{model}_{filename} and
// returns the stored path. The archive is an audit trail; scoring works from
// the in-memory bytes.
func ArchiveSubmissionFile(baseDir, userName, modelName, filename string, content []byte, isTeacher bool) (string, error) {
	group := "students"
	if isTeacher {
		group = "teachers"
	}

	userDir := filepath.Join(baseDir, group, SafeName(userName))
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return "", fmt.Errorf("creating archive directory: %w", err)
	}

	timestamp := time.Now().UTC().Format("20060102_150405")
	path := filepath.Join(userDir, fmt.Sprintf("%s_%s_%s", timestamp, SafeName(modelName), filepath.Base(filename)))

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("writing archived submission: %w", err)
	}

	return path, nil
}

// PickGIF selects one celebration GIF for a category at random. Returns the
// empty string when the tier carries none.
func PickGIF(gifs []string) string {
	if len(gifs) == 0 {
		return ""
	}
	return gifs[rand.Intn(len(gifs))]
}
