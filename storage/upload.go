package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofrs/uuid"

	"github.com/mbolis/formcraft/log"
	"github.com/mbolis/formcraft/model"
)

const DefaultMaxSize = 50 << 20

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file too large")
)

var allowedFamilies = []string{"image/", "audio/", "video/", "application/", "text/"}

// FileRecorder persists file metadata.
type FileRecorder interface {
	InsertFile(ctx context.Context, f *model.FormFile) error
}

// Upload is one file submitted for a field of a form.
type Upload struct {
	FormID     string
	FieldID    string
	ResponseID string
	FileName   string
	Data       []byte
}

// Uploader stores uploaded files in Blobs, falling back to an inline data
// URL when there is no blob store or it fails. Blobs may be nil.
type Uploader struct {
	Blobs   BlobStore
	Files   FileRecorder
	MaxSize int64

	now func() time.Time
}

func NewUploader(blobs BlobStore, files FileRecorder) *Uploader {
	return &Uploader{
		Blobs:   blobs,
		Files:   files,
		MaxSize: DefaultMaxSize,
		now:     time.Now,
	}
}

// Upload checks the file, stores it and records its metadata. A metadata
// failure is logged and the file info is returned anyway.
func (u *Uploader) Upload(ctx context.Context, up Upload) (model.FormFile, error) {
	size := int64(len(up.Data))
	if u.MaxSize > 0 && size > u.MaxSize {
		return model.FormFile{}, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, size, u.MaxSize)
	}

	mime := mimetype.Detect(up.Data)
	fileType := baseType(mime.String())
	if !allowed(fileType) {
		return model.FormFile{}, fmt.Errorf("%w: %s", ErrUnsupportedType, fileType)
	}

	f := model.FormFile{
		FormID:     up.FormID,
		ResponseID: up.ResponseID,
		FieldID:    up.FieldID,
		FileName:   up.FileName,
		FileType:   fileType,
		FileSize:   size,
	}

	if u.Blobs != nil {
		key, err := u.key(up.FormID, up.FileName, mime.Extension())
		if err == nil {
			f.FileURL, err = u.Blobs.Put(ctx, key, fileType, up.Data)
		}
		if err != nil {
			log.With(log.Fields{"form_id": up.FormID, "field_id": up.FieldID}).
				Warnf("storage.put: %s, storing inline", err)
			f.FileURL = ""
		}
	}
	if f.FileURL == "" {
		f.FileURL = DataURL(fileType, up.Data)
	}

	if err := u.Files.InsertFile(ctx, &f); err != nil {
		log.With(log.Fields{"form_id": up.FormID, "field_id": up.FieldID}).
			Warnf("db.insert_file: %s", err)
		if f.ID == "" {
			f.ID = "inline-" + fmt.Sprint(u.now().UnixMilli())
		}
		if f.CreatedAt.IsZero() {
			f.CreatedAt = u.now().UTC()
		}
	}
	return f, nil
}

// key builds forms/<form>/<unix millis>-<random><ext>.
func (u *Uploader) key(formID, fileName, detectedExt string) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" || strings.ContainsAny(ext, `/\`) {
		ext = detectedExt
	}
	return fmt.Sprintf("forms/%s/%d-%s%s", formID, u.now().UnixMilli(), id.String()[:8], ext), nil
}

func DataURL(fileType string, data []byte) string {
	return "data:" + fileType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func baseType(mime string) string {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return strings.TrimSpace(mime)
}

func allowed(fileType string) bool {
	for _, family := range allowedFamilies {
		if strings.HasPrefix(fileType, family) {
			return true
		}
	}
	return false
}
