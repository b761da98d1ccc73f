// Package slidejsx renders normalized slide items into positioned, styled visual nodes.
package slidejsx

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/k1LoW/errors"
	"github.com/k1LoW/slidejsx/schema"
	"golang.org/x/sync/errgroup"
)

type Renderer struct {
	canvas      Canvas
	defaults    Defaults
	rules       []Rule
	concurrency int
	logger      *slog.Logger
}

type Option func(*Renderer) error

func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) error {
		r.logger = logger
		return nil
	}
}

func WithCanvas(c Canvas) Option {
	return func(r *Renderer) error {
		if c.Width < 0 || c.Height < 0 {
			return fmt.Errorf("invalid canvas size: %dx%d", c.Width, c.Height)
		}
		if c.Width != 0 {
			r.canvas.Width = c.Width
		}
		if c.Height != 0 {
			r.canvas.Height = c.Height
		}
		if c.Background != "" {
			r.canvas.Background = c.Background
		}
		return nil
	}
}

func WithDefaults(d Defaults) Option {
	return func(r *Renderer) error {
		r.defaults = d
		return nil
	}
}

func WithRules(rules ...Rule) Option {
	return func(r *Renderer) error {
		for _, rule := range rules {
			if err := rule.validate(); err != nil {
				return err
			}
		}
		r.rules = append(r.rules, rules...)
		return nil
	}
}

// WithConcurrency sets the number of items rendered in parallel.
func WithConcurrency(n int) Option {
	return func(r *Renderer) error {
		if n < 1 {
			return fmt.Errorf("invalid concurrency: %d", n)
		}
		r.concurrency = n
		return nil
	}
}

// New creates a new Renderer.
func New(opts ...Option) (_ *Renderer, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	r := &Renderer{
		canvas:      DefaultCanvas(),
		concurrency: 1,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Render renders items in order. Dead, diagnostic and skipped items produce no node.
func (r *Renderer) Render(ctx context.Context, items schema.Items) (_ *Output, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	nodes := make([]*Node, len(items))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(r.concurrency)
	for i, item := range items {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := r.renderItem(item)
			if err != nil {
				return fmt.Errorf("failed to render item %d: %w", i, err)
			}
			nodes[i] = n
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	out := &Output{Canvas: r.canvas, Nodes: []*Node{}}
	for _, n := range nodes {
		if n != nil {
			out.Nodes = append(out.Nodes, n)
		}
	}
	r.logger.Info("render completed", slog.Int("items", len(items)), slog.Int("nodes", len(out.Nodes)))
	return out, nil
}

func (r *Renderer) renderItem(item *schema.SlideItem) (*Node, error) {
	switch {
	case item.IsDead():
		r.logger.Info("skipped dead item", slog.Int("index", item.Ordinal))
		return nil, nil
	case item.IsDiagnostic():
		r.logger.Warn("skipped diagnostic item", slog.Int("index", item.Ordinal), slog.String("info", *item.Info))
		return nil, nil
	}
	var classes []string
	for _, rule := range r.rules {
		ok, err := rule.match(item)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if rule.Skip {
			r.logger.Info("skipped item because of rule", slog.Int("index", item.Ordinal), slog.String("if", rule.If))
			return nil, nil
		}
		classes = append(classes, rule.classNames()...)
	}
	n := RenderItem(item, r.defaults)
	for _, c := range classes {
		n.Classes.Add(c)
	}
	r.logger.Info("rendered item", slog.Int("index", item.Ordinal), slog.String("id", n.ID))
	return n, nil
}
