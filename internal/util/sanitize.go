package util

import (
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"go-society-manager/pkg/apierror"
)

const maxFilenameRunes = 120

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

var whitespaceRun = regexp.MustCompile(`\s+`)

var reservedStems = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

func invalidFilename(message string, name string) error {
	return apierror.New("INVALID_FILENAME", message, name, http.StatusBadRequest)
}

// SanitizeFilename turns an uploaded file name into one that is safe to store.
// Invisible and control characters are dropped, path separators and shell
// metacharacters become underscores and the result is capped in length with
// the extension preserved.
func SanitizeFilename(name string) (string, error) {
	trimmed := strings.TrimSpace(filepath.Base(strings.ReplaceAll(name, `\`, "/")))
	if trimmed == "" || trimmed == "." || trimmed == "/" {
		return "", invalidFilename("filename cannot be empty", name)
	}

	var builder strings.Builder
	builder.Grow(len(trimmed))
	for _, char := range trimmed {
		if unicode.IsControl(char) || isInvisibleUnicode(char) {
			continue
		}
		builder.WriteRune(char)
	}

	cleaned := invalidFilenameChars.ReplaceAllString(builder.String(), "_")
	cleaned = strings.TrimSpace(whitespaceRun.ReplaceAllString(cleaned, " "))
	if cleaned == "" || cleaned == ".." {
		return "", invalidFilename("filename is invalid after sanitization", name)
	}
	if strings.HasPrefix(cleaned, ".") {
		return "", invalidFilename("hidden filenames are not allowed", cleaned)
	}

	stem := cleaned
	if idx := strings.Index(cleaned, "."); idx >= 0 {
		stem = cleaned[:idx]
	}
	if _, reserved := reservedStems[strings.ToUpper(stem)]; reserved {
		return "", invalidFilename("reserved filename is not allowed", cleaned)
	}

	return truncateKeepingExt(cleaned, maxFilenameRunes), nil
}

// truncateKeepingExt cuts name to limit runes without splitting a multi-byte
// character and without losing the extension.
func truncateKeepingExt(name string, limit int) string {
	runes := []rune(name)
	if len(runes) <= limit {
		return name
	}

	ext := []rune(filepath.Ext(name))
	if len(ext) >= limit {
		return string(runes[:limit])
	}

	stem := runes[:len(runes)-len(ext)]
	return string(stem[:limit-len(ext)]) + string(ext)
}

func isInvisibleUnicode(r rune) bool {
	switch r {
	case '\u200B', '\u200C', '\u200D', '\u200E', '\u200F', '\u2060', '\uFEFF':
		return true
	}
	return unicode.Is(unicode.Cf, r)
}
