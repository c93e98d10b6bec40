package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string
	DBUrl       string
	TokenSecret string
	PublicURL   string
	StaticDir   string
	BlobDir     string
	GeminiKey   string
	GeminiModel string
	Debug       bool
}

// ParseFlags reads an optional .env file, then the command line. Environment
// variables provide the flag defaults.
func ParseFlags() (Config, error) {
	if err := LoadEnv(); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse(flag.CommandLine, os.Args[1:])
}

// LoadEnv sets variables from the given env files (default .env) without
// overriding the environment. Missing files are skipped.
func LoadEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func Parse(fs *flag.FlagSet, args []string) (cfg Config, err error) {
	var host string
	fs.StringVar(&host, "host", env("HOST", "0.0.0.0"), "listen host name")
	var port uint
	fs.UintVar(&port, "port", envUint("PORT", 8080), "listen port number")
	fs.StringVar(&cfg.DBUrl, "db-url", env("DATABASE_URL", "formcraft.sqlite"), "path to SQLite3 DB file")
	fs.StringVar(&cfg.TokenSecret, "token-secret", env("JWT_SECRET", ""), "HS256 key used to verify bearer tokens")
	fs.StringVar(&cfg.PublicURL, "public-url", env("PUBLIC_URL", ""), "base URL used in share links (default derived from -host/-port)")
	fs.StringVar(&cfg.StaticDir, "static-dir", env("STATIC_DIR", "public"), "directory holding the browser UI")
	fs.StringVar(&cfg.BlobDir, "blob-dir", env("BLOB_DIR", ""), "directory for uploaded files (empty: store uploads inline as base64)")
	fs.StringVar(&cfg.GeminiKey, "gemini-api-key", env("GEMINI_API_KEY", ""), "Gemini API key for AI form generation")
	fs.StringVar(&cfg.GeminiModel, "gemini-model", env("GEMINI_MODEL", "gemini-1.5-flash"), "Gemini model name")
	fs.BoolVar(&cfg.Debug, "debug", env("DEBUG", "") == "true", "log at DEBUG level")
	if err = fs.Parse(args); err != nil {
		return
	}

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	if cfg.PublicURL == "" {
		cfg.PublicURL = cfg.Url()
	}
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")

	if cfg.TokenSecret == "" {
		err = errors.New("missing parameter -token-secret")
	}

	return
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envUint(key string, def uint) uint {
	v, err := strconv.ParseUint(os.Getenv(key), 10, 32)
	if err != nil {
		return def
	}
	return uint(v)
}
