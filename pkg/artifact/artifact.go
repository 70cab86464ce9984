// Package artifact writes screenshot and log artifacts for automation
// runs. File names are derived from the run's outcome, the viewport size
// class, a slug of the scenario title, and a timestamp, so a directory
// of artifacts sorts and greps usefully without any index.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

const createFlags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC

// Status is the outcome a captured artifact belongs to.
type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
)

// timestampLayout keeps artifact names lexically sortable.
const timestampLayout = "20060102-150405"

// maxSlugLen bounds slugs so derived file names stay within common
// filesystem limits.
const maxSlugLen = 80

// Meta describes the run state an artifact is captured under.
type Meta struct {
	// Status is the run outcome at capture time.
	Status Status

	// SizeClass is the viewport size class the run used.
	SizeClass string

	// Title is the human-readable scenario title; it is slugified into
	// the file name.
	Title string

	// Taken is the capture timestamp. Zero means time.Now.
	Taken time.Time
}

// Store writes artifacts under a single directory.
type Store struct {
	fs  afero.Fs
	dir string
}

// NewStore creates a store rooted at dir on the given filesystem. The
// directory is created if it does not exist.
func NewStore(fs afero.Fs, dir string) (*Store, error) {
	if err := fs.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	return &Store{fs: fs, dir: dir}, nil
}

// SaveScreenshot writes a PNG screenshot and returns its path.
func (s *Store) SaveScreenshot(meta Meta, png []byte) (string, error) {
	path := filepath.Join(s.dir, FileName(meta, "png"))
	if err := afero.WriteFile(s.fs, path, png, 0o640); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}
	return path, nil
}

// NewLog creates a log artifact and returns the open file and its path.
// The caller owns closing the file.
func (s *Store) NewLog(meta Meta) (afero.File, string, error) {
	path := filepath.Join(s.dir, FileName(meta, "log"))
	file, err := s.fs.OpenFile(path, createFlags, 0o640)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create log artifact: %w", err)
	}
	return file, path, nil
}

// FileName derives an artifact file name from the capture metadata:
// <status>_<sizeclass>_<slug>_<timestamp>.<ext>
func FileName(meta Meta, ext string) string {
	status := meta.Status
	if status == "" {
		status = StatusPassed
	}
	sizeClass := meta.SizeClass
	if sizeClass == "" {
		sizeClass = "desktop"
	}
	taken := meta.Taken
	if taken.IsZero() {
		taken = time.Now()
	}
	return fmt.Sprintf("%s_%s_%s_%s.%s", status, sizeClass, Slug(meta.Title), taken.Format(timestampLayout), ext)
}

// Slug converts a scenario title into a file-name-safe slug: lowercase,
// runs of non-alphanumerics collapsed to single hyphens, trimmed, and
// bounded in length. An empty result becomes "untitled".
func Slug(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.TrimRight(b.String(), "-")
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	if slug == "" {
		return "untitled"
	}
	return slug
}
