package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "")
	t.Setenv("HOST", "")
	t.Setenv("PUBLIC_URL", "")
	t.Setenv("BLOB_DIR", "")

	cfg, err := Parse(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr)
	assert.Equal(t, "http://localhost:8080", cfg.PublicURL)
	assert.Equal(t, "s3cret", cfg.TokenSecret)
	assert.Empty(t, cfg.BlobDir)
}

func TestParseFlagsOverrideEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("HOST", "")
	t.Setenv("PUBLIC_URL", "https://forms.example.com/")

	cfg, err := Parse(flag.NewFlagSet("test", flag.ContinueOnError), []string{
		"-token-secret", "k",
		"-port", "7000",
		"-blob-dir", "/tmp/blobs",
	})
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:7000", cfg.Addr)
	assert.Equal(t, "https://forms.example.com", cfg.PublicURL)
	assert.Equal(t, "/tmp/blobs", cfg.BlobDir)
}

func TestParseRequiresTokenSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Parse(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	assert.EqualError(t, err, "missing parameter -token-secret")
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()

	assert.NoError(t, LoadEnv(filepath.Join(dir, "missing.env")))

	good := filepath.Join(dir, "good.env")
	require.NoError(t, os.WriteFile(good, []byte("FORMCRAFT_TEST_MODEL=gemini-pro\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("FORMCRAFT_TEST_MODEL") })
	require.NoError(t, LoadEnv(good))
	assert.Equal(t, "gemini-pro", os.Getenv("FORMCRAFT_TEST_MODEL"))

	bad := filepath.Join(dir, "bad.env")
	require.NoError(t, os.WriteFile(bad, []byte("FORMCRAFT_TEST_BROKEN=\"unterminated\n"), 0o600))
	assert.Error(t, LoadEnv(bad))
}
