package util

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectMIME(t *testing.T) {
	t.Parallel()

	pdf := bytes.NewReader([]byte("%PDF-1.7\n1 0 obj"))
	mimeType, err := DetectMIME(pdf)
	require.NoError(t, err)
	require.Equal(t, "application/pdf", mimeType)

	pos, err := pdf.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	require.Zero(t, pos, "reader is rewound")

	text, err := DetectMIME(bytes.NewReader([]byte("plain words")))
	require.NoError(t, err)
	require.Equal(t, "text/plain", text)

	empty, err := DetectMIME(bytes.NewReader(nil))
	require.NoError(t, err)
	require.Equal(t, "text/plain", empty)
}

func TestAttachmentTypes(t *testing.T) {
	t.Parallel()

	require.True(t, IsAttachmentMIME("application/pdf"))
	require.True(t, IsAttachmentMIME(" IMAGE/PNG "))
	require.False(t, IsAttachmentMIME("text/plain; charset=utf-8"))
	require.Equal(t, ".jpg", AttachmentExtension("image/jpeg"))
	require.Empty(t, AttachmentExtension("text/html"))

	require.True(t, IsThumbnailMIME("image/webp"))
	require.False(t, IsThumbnailMIME("application/pdf"))
}
