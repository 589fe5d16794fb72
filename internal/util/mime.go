package util

import (
	"io"
	"net/http"
	"strings"
)

var attachmentMIMEs = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"image/bmp":       ".bmp",
	"application/pdf": ".pdf",
}

// DetectMIME sniffs the content type of r from its first 512 bytes and
// rewinds it.
func DetectMIME(r io.ReadSeeker) (string, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	buffer := make([]byte, 512)
	n, err := io.ReadFull(r, buffer)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	return baseMIME(http.DetectContentType(buffer[:n])), nil
}

// IsAttachmentMIME reports whether an expense attachment may have this type.
func IsAttachmentMIME(mimeType string) bool {
	_, ok := attachmentMIMEs[baseMIME(mimeType)]
	return ok
}

// AttachmentExtension is the canonical file extension stored for mimeType.
func AttachmentExtension(mimeType string) string {
	return attachmentMIMEs[baseMIME(mimeType)]
}

func IsThumbnailMIME(mimeType string) bool {
	switch baseMIME(mimeType) {
	case "image/jpeg", "image/png", "image/gif", "image/webp", "image/bmp":
		return true
	default:
		return false
	}
}

func baseMIME(mimeType string) string {
	cleaned := strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.Index(cleaned, ";"); idx >= 0 {
		cleaned = strings.TrimSpace(cleaned[:idx])
	}
	return cleaned
}
