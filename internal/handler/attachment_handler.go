package handler

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"go-society-manager/internal/middleware"
	"go-society-manager/internal/service"
	"go-society-manager/pkg/apierror"
)

const multipartMemory = 8 << 20

type AttachmentHandler struct {
	service       attachmentService
	maxUploadSize int64
}

func NewAttachmentHandler(service attachmentService, maxUploadSize int64) *AttachmentHandler {
	return &AttachmentHandler{service: service, maxUploadSize: maxUploadSize}
}

// Upload stores the "file" part of a multipart form as the expense's
// attachment, replacing any previous one.
func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	// Leave room for the multipart envelope around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if isPayloadTooLarge(err) {
			writeError(w, apierror.New("PAYLOAD_TOO_LARGE", "request body exceeds MAX_UPLOAD_SIZE", "MAX_UPLOAD_SIZE", http.StatusRequestEntityTooLarge))
			return
		}
		writeError(w, apierror.New("BAD_REQUEST", "invalid multipart body", "", http.StatusBadRequest))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, apierror.BadRequest("file is required", "file"))
		return
	}
	defer file.Close()

	expense, err := h.service.Attach(r.Context(), id, header.Filename, file, middleware.ActorFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, expense, nil)
}

// Download streams the attachment; ?thumb=1 serves a JPEG preview instead
// and ?size= bounds its longest side.
func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	query := r.URL.Query()
	var attachment service.Attachment
	if isTruthy(query.Get("thumb")) {
		attachment, err = h.service.Thumbnail(r.Context(), id, parseIntOrDefault(query.Get("size"), service.DefaultThumbnailSize))
	} else {
		attachment, err = h.service.Open(r.Context(), id)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	defer attachment.File.Close()

	w.Header().Set("Content-Type", attachment.MIMEType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": attachment.Name}))
	w.Header().Set("Cache-Control", "private, max-age=300")
	http.ServeContent(w, r, attachment.Name, attachment.Info.ModTime(), attachment.File)
}

func isPayloadTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "request body too large")
}

func isTruthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
