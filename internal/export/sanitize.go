package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// ErrOutputDir wraps every output directory rejection.
var ErrOutputDir = errors.New("invalid output_dir")

const edlExt = ".edl"

// SanitizeName makes a title safe for an EDL comment line and a file name.
// Control characters are dropped, whitespace runs collapse to one space and
// anything outside the allowed set becomes an underscore.
func SanitizeName(s string, maxLen int) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r) && r != '\n' && r != '\r' && r != '\t':
			space = true
			continue
		case unicode.IsControl(r):
			continue
		}
		if space && b.Len() > 0 {
			b.WriteRune(' ')
		}
		space = false
		if isAllowedNameRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}

	cleaned := b.String()
	if maxLen > 0 {
		runes := []rune(cleaned)
		if len(runes) > maxLen {
			cleaned = strings.TrimSpace(string(runes[:maxLen]))
		}
	}
	return cleaned
}

func isAllowedNameRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case '-', '_', '.', ',', '(', ')', '\'', '&':
		return true
	default:
		return false
	}
}

// ValidateOutputDir accepts only a clean, existing directory path.
func ValidateOutputDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("%w: path is empty", ErrOutputDir)
	}

	for _, part := range strings.Split(filepath.ToSlash(dir), "/") {
		if part == ".." {
			return fmt.Errorf("%w: path traversal", ErrOutputDir)
		}
	}

	if filepath.Clean(dir) != dir {
		return fmt.Errorf("%w: path must be clean", ErrOutputDir)
	}

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: directory does not exist", ErrOutputDir)
		}
		return fmt.Errorf("%w: %v", ErrOutputDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: not a directory", ErrOutputDir)
	}

	return nil
}

// ExportPath is where the EDL for title is written inside dir. Titles that
// sanitize to nothing, or to a dot name, fall back to DefaultTitle.
func ExportPath(dir, title string) string {
	name := SanitizeName(title, maxTitleLen)
	if name == "" || strings.Trim(name, ".") == "" {
		name = DefaultTitle
	}
	return filepath.Join(dir, name+edlExt)
}
