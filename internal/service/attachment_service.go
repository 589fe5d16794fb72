package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"go-society-manager/internal/event"
	"go-society-manager/internal/model"
	"go-society-manager/internal/util"
	"go-society-manager/pkg/apierror"
)

const DefaultThumbnailSize = 256

type FileStore interface {
	Save(clientPath string, r io.Reader, maxBytes int64) (int64, error)
	Open(clientPath string) (*os.File, fs.FileInfo, error)
	Remove(clientPath string) error
}

type Attachment struct {
	File     *os.File
	Info     fs.FileInfo
	MIMEType string
	Name     string
}

// AttachmentService stores expense receipts (images or PDFs) and serves
// cached JPEG thumbnails of the image ones.
type AttachmentService struct {
	expenses      ExpenseStore
	files         FileStore
	thumbnailRoot string
	maxUpload     int64
	bus           event.Bus
}

func NewAttachmentService(expenses ExpenseStore, files FileStore, thumbnailRoot string, maxUpload int64, bus event.Bus) *AttachmentService {
	return &AttachmentService{
		expenses:      expenses,
		files:         files,
		thumbnailRoot: thumbnailRoot,
		maxUpload:     maxUpload,
		bus:           bus,
	}
}

func (s *AttachmentService) Attach(ctx context.Context, expenseID string, filename string, content io.ReadSeeker, actor model.AuditActor) (model.Expense, error) {
	expense, err := s.expenses.FindByID(ctx, expenseID)
	if err != nil {
		return model.Expense{}, err
	}

	name, err := util.SanitizeFilename(filename)
	if err != nil {
		return model.Expense{}, err
	}

	mimeType, err := util.DetectMIME(content)
	if err != nil {
		return model.Expense{}, fmt.Errorf("detect attachment type: %w", err)
	}
	if !util.IsAttachmentMIME(mimeType) {
		return model.Expense{}, apierror.New("UNSUPPORTED_TYPE", "attachment must be an image or PDF", mimeType, http.StatusUnsupportedMediaType)
	}

	stem := strings.TrimSuffix(name, filepath.Ext(name))
	clientPath := path.Join(expense.SocietyID, expense.ID, stem+util.AttachmentExtension(mimeType))

	if _, err := s.files.Save(clientPath, content, s.maxUpload); err != nil {
		return model.Expense{}, err
	}
	if err := s.expenses.SetAttachment(ctx, expense.ID, clientPath); err != nil {
		s.discard(clientPath)
		return model.Expense{}, err
	}

	before := expense
	if expense.AttachmentPath != nil && *expense.AttachmentPath != clientPath {
		s.discard(*expense.AttachmentPath)
	}
	expense.AttachmentPath = &clientPath

	publish(s.bus, event.TypeExpenseAttached, actor, resourceKey("expense", expense.ID), before, expense)
	return expense, nil
}

// Open returns the stored attachment of an expense. Callers close File.
func (s *AttachmentService) Open(ctx context.Context, expenseID string) (Attachment, error) {
	clientPath, err := s.attachmentPath(ctx, expenseID)
	if err != nil {
		return Attachment{}, err
	}

	file, info, err := s.files.Open(clientPath)
	if err != nil {
		return Attachment{}, err
	}

	mimeType, err := util.DetectMIME(file)
	if err != nil {
		_ = file.Close()
		return Attachment{}, err
	}

	return Attachment{File: file, Info: info, MIMEType: mimeType, Name: path.Base(clientPath)}, nil
}

// Thumbnail returns a JPEG preview no larger than size pixels on either side.
// Previews are cached under the thumbnail root and rebuilt when the original
// is newer.
func (s *AttachmentService) Thumbnail(ctx context.Context, expenseID string, size int) (Attachment, error) {
	if size <= 0 || size > 1024 {
		size = DefaultThumbnailSize
	}

	original, err := s.Open(ctx, expenseID)
	if err != nil {
		return Attachment{}, err
	}
	defer original.File.Close()

	if !util.IsThumbnailMIME(original.MIMEType) {
		return Attachment{}, apierror.New("UNSUPPORTED_TYPE", "attachment has no preview", original.MIMEType, http.StatusUnsupportedMediaType)
	}

	if err := os.MkdirAll(s.thumbnailRoot, 0o755); err != nil {
		return Attachment{}, fmt.Errorf("prepare thumbnail directory: %w", err)
	}

	thumbPath := s.thumbnailPath(expenseID, original.Name, size)
	if info, statErr := os.Stat(thumbPath); statErr != nil || info.ModTime().Before(original.Info.ModTime()) {
		if err := s.writeThumbnail(original.File, thumbPath, size, original.Info.ModTime()); err != nil {
			return Attachment{}, err
		}
	}

	file, err := os.Open(thumbPath)
	if err != nil {
		return Attachment{}, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return Attachment{}, err
	}

	return Attachment{File: file, Info: info, MIMEType: "image/jpeg", Name: "thumb-" + original.Name + ".jpg"}, nil
}

func (s *AttachmentService) attachmentPath(ctx context.Context, expenseID string) (string, error) {
	expense, err := s.expenses.FindByID(ctx, expenseID)
	if err != nil {
		return "", err
	}
	if expense.AttachmentPath == nil {
		return "", apierror.NotFound("attachment", expenseID)
	}
	return *expense.AttachmentPath, nil
}

func (s *AttachmentService) thumbnailPath(expenseID string, name string, size int) string {
	sum := sha256.Sum256([]byte(expenseID + "/" + name))
	return filepath.Join(s.thumbnailRoot, hex.EncodeToString(sum[:12])+"-"+strconv.Itoa(size)+".jpg")
}

func (s *AttachmentService) writeThumbnail(src io.Reader, thumbPath string, size int, modTime time.Time) error {
	out, err := os.OpenFile(thumbPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	renderErr := renderThumbnail(src, out, size)
	closeErr := out.Close()
	if renderErr != nil {
		_ = os.Remove(thumbPath)
		return renderErr
	}
	if closeErr != nil {
		return closeErr
	}

	_ = os.Chtimes(thumbPath, time.Now().UTC(), modTime)
	return nil
}

func (s *AttachmentService) discard(clientPath string) {
	if err := s.files.Remove(clientPath); err != nil {
		slog.Warn("failed to remove attachment", "path", clientPath, "error", err)
	}
}

// renderThumbnail decodes an image from src and writes a JPEG scaled so its
// longest side is at most size.
func renderThumbnail(src io.Reader, dst io.Writer, size int) error {
	img, _, err := image.Decode(src)
	if err != nil {
		return apierror.New("UNSUPPORTED_TYPE", "cannot decode image", err.Error(), http.StatusUnsupportedMediaType)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return apierror.New("UNSUPPORTED_TYPE", "invalid image dimensions", "", http.StatusUnsupportedMediaType)
	}

	scale := math.Min(1, float64(size)/float64(max(width, height)))
	targetWidth := max(1, int(math.Round(float64(width)*scale)))
	targetHeight := max(1, int(math.Round(float64(height)*scale)))

	scaled := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)

	return jpeg.Encode(dst, scaled, &jpeg.Options{Quality: 85})
}
