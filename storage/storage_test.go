package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"github.com/mbolis/formcraft/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type memFiles struct {
	mu    sync.Mutex
	files []model.FormFile
	err   error
}

func (m *memFiles) InsertFile(_ context.Context, f *model.FormFile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	f.ID = fmt.Sprintf("file-%d", len(m.files)+1)
	f.CreatedAt = time.Now()
	m.files = append(m.files, *f)
	return nil
}

type brokenBlobs struct{}

func (brokenBlobs) Put(context.Context, string, string, []byte) (string, error) {
	return "", errors.New("bucket unavailable")
}

func (brokenBlobs) Delete(context.Context, string) error { return nil }

func newDisk(t *testing.T) *DiskStore {
	t.Helper()
	s, err := NewDiskStore(filepath.Join(t.TempDir(), "blobs"), "http://localhost:8080/")
	require.NoError(t, err)
	return s
}

func TestDiskStore(t *testing.T) {
	s := newDisk(t)
	ctx := context.Background()

	url, err := s.Put(ctx, "forms/f1/a.txt", "text/plain", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/forms/f1/a.txt", url)

	b, err := os.ReadFile(filepath.Join(s.Root(), "forms", "f1", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))

	key, ok := s.KeyFromURL(url)
	require.True(t, ok)
	assert.Equal(t, "forms/f1/a.txt", key)

	_, ok = s.KeyFromURL("data:text/plain;base64,aGVsbG8=")
	assert.False(t, ok)

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(s.Root(), "forms", "f1", "a.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestDiskStoreRejectsEscapingKeys(t *testing.T) {
	s := newDisk(t)

	for _, key := range []string{"", "../x", "/etc/passwd", "forms/../../x", "forms//x"} {
		_, err := s.Put(context.Background(), key, "text/plain", []byte("x"))
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestUploadToBlobStore(t *testing.T) {
	files := &memFiles{}
	u := NewUploader(newDisk(t), files)

	f, err := u.Upload(context.Background(), Upload{
		FormID:   "form-1",
		FieldID:  "photo",
		FileName: "Me.PNG",
		Data:     pngHeader,
	})
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.FileType)
	assert.Equal(t, int64(len(pngHeader)), f.FileSize)
	assert.True(t, strings.HasPrefix(f.FileURL, "http://localhost:8080/files/forms/form-1/"), f.FileURL)
	assert.True(t, strings.HasSuffix(f.FileURL, ".png"), f.FileURL)
	assert.Equal(t, "file-1", f.ID)
	assert.Len(t, files.files, 1)
}

func TestUploadFallsBackToDataURL(t *testing.T) {
	for name, blobs := range map[string]BlobStore{
		"no store":     nil,
		"store failed": brokenBlobs{},
	} {
		t.Run(name, func(t *testing.T) {
			u := NewUploader(blobs, &memFiles{})

			f, err := u.Upload(context.Background(), Upload{FormID: "form-1", FieldID: "notes", FileName: "notes.txt", Data: []byte("hello")})
			require.NoError(t, err)
			assert.Equal(t, "text/plain", f.FileType)
			assert.Equal(t, "data:text/plain;base64,aGVsbG8=", f.FileURL)
		})
	}
}

func TestUploadKeepsFileWhenMetadataFails(t *testing.T) {
	u := NewUploader(nil, &memFiles{err: errors.New("db down")})

	f, err := u.Upload(context.Background(), Upload{FormID: "form-1", FieldID: "notes", FileName: "notes.txt", Data: []byte("hello")})
	require.NoError(t, err)
	assert.NotEmpty(t, f.ID)
	assert.NotEmpty(t, f.FileURL)
	assert.False(t, f.CreatedAt.IsZero())
}

func TestUploadRejects(t *testing.T) {
	u := NewUploader(nil, &memFiles{})
	u.MaxSize = 4

	_, err := u.Upload(context.Background(), Upload{FileName: "big.txt", Data: []byte("too large")})
	assert.ErrorIs(t, err, ErrTooLarge)

	u.MaxSize = DefaultMaxSize
	woff := append([]byte("wOFF"), bytes.Repeat([]byte{0}, 40)...)
	_, err = u.Upload(context.Background(), Upload{FileName: "font.woff", Data: woff})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestConcurrentUploads(t *testing.T) {
	files := &memFiles{}
	u := NewUploader(newDisk(t), files)

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < 16; i++ {
		i := i
		g.Go(func() error {
			_, err := u.Upload(ctx, Upload{
				FormID:   "form-1",
				FieldID:  "photo",
				FileName: fmt.Sprintf("p%d.png", i),
				Data:     pngHeader,
			})
			return err
		})
	}
	require.NoError(t, g.Wait())

	urls := map[string]bool{}
	for _, f := range files.files {
		urls[f.FileURL] = true
	}
	assert.Len(t, urls, 16)
}
