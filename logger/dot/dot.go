// Package dot provides a slog.Handler that reports render progress as one glyph per item.
package dot

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/k1LoW/errors"
	"github.com/mattn/go-colorable"
)

var (
	yellow = color.New(color.FgYellow, color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

var _ slog.Handler = (*dotHandler)(nil)

type dotHandler struct {
	handler slog.Handler
	state   *state
}

// state is shared by handlers derived with WithAttrs and WithGroup.
type state struct {
	mu      sync.Mutex
	spinner *spinner.Spinner
	out     io.Writer
	prefix  []byte
}

type Option func(*state)

// WithWriter sets the destination of the progress line. The default is colorable stderr.
func WithWriter(w io.Writer) Option {
	return func(s *state) {
		s.out = w
	}
}

func New(h slog.Handler, opts ...Option) (_ *dotHandler, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	st := &state{
		out: colorable.NewColorableStderr(),
	}
	for _, opt := range opts {
		opt(st)
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(st.out))
	if err := s.Color("yellow"); err != nil {
		return nil, err
	}
	s.Start()
	s.Disable()
	st.spinner = s
	return &dotHandler{
		handler: h,
		state:   st,
	}, nil
}

func (h *dotHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *dotHandler) Handle(ctx context.Context, r slog.Record) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	h.state.mu.Lock()
	defer h.state.mu.Unlock()

	if strings.HasPrefix(r.Message, "retrying") {
		if !h.state.spinner.Enabled() {
			h.state.spinner.Enable()
		}
		return nil
	}
	if h.state.spinner.Enabled() {
		h.state.spinner.Disable()
		_, _ = h.state.out.Write(h.state.prefix)
	}
	switch {
	case r.Message == "fetched document":
		return h.write(green("↓"))
	case r.Message == "rendered item":
		return h.write(yellow("."))
	case r.Message == "skipped dead item":
		return h.write(gray("-"))
	case r.Message == "skipped diagnostic item":
		return h.write(red("!"))
	case strings.Contains(r.Message, "because of rule"):
		return h.write(cyan("*"))
	case strings.Contains(r.Message, "failed to"):
		return h.write(red("!"))
	case r.Message == "render completed":
		_, _ = h.state.out.Write([]byte("\n"))
		h.state.prefix = nil
	}
	return nil
}

func (h *dotHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &dotHandler{handler: h.handler.WithAttrs(attrs), state: h.state}
}

func (h *dotHandler) WithGroup(name string) slog.Handler {
	return &dotHandler{handler: h.handler.WithGroup(name), state: h.state}
}

// Stop stops the spinner.
func (h *dotHandler) Stop() {
	h.state.spinner.Stop()
}

func (h *dotHandler) write(s string) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	_, err = h.state.out.Write([]byte(s))
	if err != nil {
		return err
	}
	h.state.prefix = append(h.state.prefix, s...)
	return nil
}
