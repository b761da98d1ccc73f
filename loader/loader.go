// Package loader reads slide documents from files, stdin and http(s) URLs.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/k1LoW/errors"
	"github.com/k1LoW/slidejsx/schema"
	"github.com/k1LoW/slidejsx/version"
)

var userAgent = "k1LoW-slidejsx/" + version.Version + " (+https://github.com/k1LoW/slidejsx)"

// Stdin is the source name that reads the document from standard input.
const Stdin = "-"

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Source is a raw slide document.
type Source struct {
	Name   string
	Format Format
	Body   []byte
}

// Parse normalizes the document.
func (s *Source) Parse() (schema.Items, error) {
	if s.Format == FormatYAML {
		return schema.ParseYAML(s.Body)
	}
	return schema.Parse(s.Body)
}

type Loader struct {
	stdin        io.Reader
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	timeout      time.Duration
	logger       *slog.Logger
}

type Option func(*Loader) error

func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		l.logger = logger
		return nil
	}
}

func WithStdin(r io.Reader) Option {
	return func(l *Loader) error {
		l.stdin = r
		return nil
	}
}

// WithRetry sets the retry policy for fetching URLs.
func WithRetry(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(l *Loader) error {
		if retryMax < 0 {
			return fmt.Errorf("invalid retry max: %d", retryMax)
		}
		if waitMin > waitMax {
			return fmt.Errorf("invalid retry wait: min %s is greater than max %s", waitMin, waitMax)
		}
		l.retryMax = retryMax
		l.retryWaitMin = waitMin
		l.retryWaitMax = waitMax
		return nil
	}
}

func WithTimeout(d time.Duration) Option {
	return func(l *Loader) error {
		l.timeout = d
		return nil
	}
}

// New creates a new Loader.
func New(opts ...Option) (_ *Loader, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	l := &Loader{
		stdin:        os.Stdin,
		retryMax:     5,
		retryWaitMin: 1 * time.Second,
		retryWaitMax: 30 * time.Second,
		timeout:      30 * time.Second,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Load reads the document named by src: a file path, "-" for stdin, or an http(s) URL.
func (l *Loader) Load(ctx context.Context, src string) (_ *Source, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	switch {
	case src == Stdin:
		b, err := io.ReadAll(l.stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return &Source{Name: src, Format: sniff(b), Body: b}, nil
	case IsURL(src):
		return l.fetch(ctx, src)
	default:
		b, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", src, err)
		}
		return &Source{Name: src, Format: detect(filepath.Ext(src), b), Body: b}, nil
	}
}

func (l *Loader) fetch(ctx context.Context, src string) (*Source, error) {
	u, err := url.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %s: %w", src, err)
	}
	client := retryablehttp.NewClient()
	client.HTTPClient = &http.Client{Timeout: l.timeout}
	client.RetryMax = l.retryMax
	client.RetryWaitMin = l.retryWaitMin
	client.RetryWaitMax = l.retryWaitMax
	client.Logger = newAPILogger(l.logger)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", src, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.1")
	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", src, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status code %d", src, res.StatusCode)
	}
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", src, err)
	}
	format := detect(path.Ext(u.Path), b)
	if mt, _, err := mime.ParseMediaType(res.Header.Get("Content-Type")); err == nil {
		switch {
		case strings.HasSuffix(mt, "json"):
			format = FormatJSON
		case strings.HasSuffix(mt, "yaml"):
			format = FormatYAML
		}
	}
	l.logger.Info("fetched document", slog.String("url", src), slog.Int("bytes", len(b)))
	return &Source{Name: src, Format: format, Body: b}, nil
}

// IsURL reports whether src is an http(s) URL.
func IsURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

func detect(ext string, b []byte) Format {
	switch strings.ToLower(ext) {
	case ".json":
		return FormatJSON
	case ".yml", ".yaml":
		return FormatYAML
	}
	return sniff(b)
}

// sniff treats documents starting with an object or array as JSON.
func sniff(b []byte) Format {
	t := bytes.TrimSpace(b)
	if len(t) > 0 && (t[0] == '{' || t[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

var _ retryablehttp.LeveledLogger = (*apiLogger)(nil)

type apiLogger struct {
	l *slog.Logger
}

func (l *apiLogger) Error(msg string, keysAndValues ...any) {
	l.l.Error(msg, append([]any{slog.String("original_log_level", "error")}, keysAndValues...)...)
}
func (l *apiLogger) Info(msg string, keysAndValues ...any) {
	l.l.Info(msg, append([]any{slog.String("original_log_level", "info")}, keysAndValues...)...)
}
func (l *apiLogger) Debug(msg string, keysAndValues ...any) {
	if strings.HasPrefix(msg, "retrying") {
		// shown as a spinner by the progress handler
		l.l.Info(msg, append([]any{slog.String("original_log_level", "debug")}, keysAndValues...)...)
		return
	}
	l.l.Debug(msg, append([]any{slog.String("original_log_level", "debug")}, keysAndValues...)...)
}
func (l *apiLogger) Warn(msg string, keysAndValues ...any) {
	l.l.Warn(msg, append([]any{slog.String("original_log_level", "warn")}, keysAndValues...)...)
}

func newAPILogger(l *slog.Logger) retryablehttp.LeveledLogger {
	return &apiLogger{
		l: l.WithGroup("api"),
	}
}
