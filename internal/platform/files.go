package platform

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// File permissions
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// MaxNameProbes bounds the collision-suffix search. The counter is practically
// unreachable but the probe loop must terminate even on pathological directory
// contents.
const MaxNameProbes = 10000

// FilenameQueryParam is the query parameter carrying the canonical filename
// hint used by the originating service.
const FilenameQueryParam = "f"

// Characters that are invalid in filenames on at least one supported OS
const invalidNameChars = `<>:"/\|?*`

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "Downloads"), nil
}

// SanitizeName makes a filename hint safe across operating systems. Literal
// "%20" space encodings are removed entirely; characters invalid on any
// supported filesystem are each replaced with an underscore.
func SanitizeName(hint string) string {
	hint = strings.ReplaceAll(hint, "%20", "")

	var b strings.Builder
	b.Grow(len(hint))
	for _, r := range hint {
		if strings.ContainsRune(invalidNameChars, r) {
			b.WriteRune('_')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NameFromURL derives a filename hint from a source URL. The "f" query
// parameter takes precedence over the last path segment. The returned name is
// sanitized and never empty: when no usable stem survives, a generated
// "video-<8 hex>" name is produced, keeping the extension if one exists.
func NameFromURL(rawURL string) string {
	var hint string

	parsed, err := url.Parse(rawURL)
	if err == nil {
		if f := parsed.Query().Get(FilenameQueryParam); f != "" {
			hint = f
		} else {
			// EscapedPath keeps literal %20 sequences for SanitizeName to strip,
			// matching how the upstream service encodes its hints.
			hint = path.Base(parsed.EscapedPath())
		}
	} else {
		hint = filepath.Base(rawURL)
	}

	if hint == "." || hint == "/" {
		hint = ""
	}
	return normalizeName(hint)
}

// normalizeName sanitizes a hint and substitutes a generated name when the
// sanitized stem is empty
func normalizeName(hint string) string {
	name := SanitizeName(hint)
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if strings.Trim(stem, "._ ") == "" {
		return generatedName(ext)
	}
	return name
}

// generatedName returns a fallback filename for URLs that carry no usable hint
func generatedName(ext string) string {
	name := "video-" + uuid.NewString()[:8]
	if len(ext) > 1 && len(ext) < 7 {
		name += ext
	}
	return name
}

// Reserve atomically claims a collision-free filename in dir derived from the
// given hint and returns the created file together with its final base name.
// The exclusive create makes resolution and creation a single unit, so two
// workers resolving the same hint concurrently can never pick the same name.
// The caller owns the returned file and must close it.
func Reserve(dir, hint string) (*os.File, string, error) {
	name := normalizeName(hint)

	file, err := createExclusive(filepath.Join(dir, name))
	if err == nil {
		return file, name, nil
	}
	if !os.IsExist(err) {
		return nil, "", fmt.Errorf("failed to create %s: %w", name, err)
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for counter := 1; counter <= MaxNameProbes; counter++ {
		probe := fmt.Sprintf("%s_%d%s", stem, counter, ext)
		file, err = createExclusive(filepath.Join(dir, probe))
		if err == nil {
			return file, probe, nil
		}
		if !os.IsExist(err) {
			return nil, "", fmt.Errorf("failed to create %s: %w", probe, err)
		}
	}
	return nil, "", fmt.Errorf("no free name for %q after %d probes", name, MaxNameProbes)
}

func createExclusive(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, DefaultFilePermissions)
}
