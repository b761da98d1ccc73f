/*
Copyright © 2025 Ken'ichiro Oyama <k1lowxb@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/k1LoW/slidejsx"
	"github.com/k1LoW/slidejsx/config"
	"github.com/k1LoW/slidejsx/jsx"
	"github.com/k1LoW/slidejsx/loader"
	"github.com/k1LoW/slidejsx/schema"
	"github.com/spf13/cobra"
)

const (
	formatJSX  = "jsx"
	formatJSON = "json"
)

var (
	output      string
	cssOutput   string
	format      string
	name        string
	itemsFlag   string
	watch       bool
	concurrency int
	quiet       bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [INPUT]",
	Short: "convert slide JSON into a React component",
	Long:  `convert slide JSON (or YAML) into a React component. INPUT is a file path, a URL or - for stdin.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := config.Load(profile)
		if err != nil {
			return err
		}
		logger, stop, err := newLogger(quiet)
		if err != nil {
			return err
		}
		defer stop()
		c := &converter{
			input:       args[0],
			output:      output,
			css:         cssOutput,
			format:      format,
			name:        name,
			items:       itemsFlag,
			concurrency: concurrency,
			cfg:         cfg,
			stdin:       cmd.InOrStdin(),
			stdout:      cmd.OutOrStdout(),
			stderr:      cmd.ErrOrStderr(),
			logger:      logger,
		}
		if err := c.run(ctx); err != nil {
			return err
		}
		if !watch {
			return nil
		}
		if c.input == loader.Stdin || loader.IsURL(c.input) {
			return fmt.Errorf("--watch requires a file input: %s", c.input)
		}
		return c.watch(ctx)
	},
}

type converter struct {
	input       string
	output      string
	css         string
	format      string
	name        string
	items       string
	concurrency int
	cfg         *config.Config
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	logger      *slog.Logger
}

func (c *converter) run(ctx context.Context) error {
	if c.format != formatJSX && c.format != formatJSON {
		return fmt.Errorf("unsupported format: %s", c.format)
	}
	l, err := loader.New(loader.WithLogger(c.logger), loader.WithStdin(c.stdin))
	if err != nil {
		return err
	}
	src, err := l.Load(ctx, c.input)
	if err != nil {
		return err
	}
	items, err := src.Parse()
	if err != nil {
		return err
	}
	if err := items.Require(); err != nil {
		return err
	}
	for _, d := range items.Diagnostics() {
		c.logger.Warn("invalid slide item", slog.Int("index", d.Ordinal), slog.String("info", *d.Info))
	}
	items, err = selectItems(items, c.items)
	if err != nil {
		return err
	}

	opts := rendererOptions(c.cfg, c.logger)
	if c.concurrency > 0 {
		opts = append(opts, slidejsx.WithConcurrency(c.concurrency))
	}
	r, err := slidejsx.New(opts...)
	if err != nil {
		return err
	}
	out, err := r.Render(ctx, items)
	if err != nil {
		return err
	}

	componentName := c.name
	if componentName == "" {
		componentName = c.cfg.ComponentName
	}
	if componentName == "" {
		componentName = jsx.DefaultComponentName
	}
	buf := new(bytes.Buffer)
	switch c.format {
	case formatJSON:
		if err := jsx.WriteJSON(buf, out); err != nil {
			return err
		}
	default:
		w, err := jsx.New(jsx.WithComponentName(componentName), jsx.WithCSSImport(c.cssImport()))
		if err != nil {
			return err
		}
		if err := w.Write(buf, out); err != nil {
			return err
		}
	}
	if c.css != "" {
		if err := writeFile(c.css, func(w io.Writer) error { return jsx.WriteCSS(w) }); err != nil {
			return err
		}
	}
	if c.output == "" {
		_, err := c.stdout.Write(buf.Bytes())
		return err
	}
	if err := writeFile(c.output, func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return err
	}); err != nil {
		return err
	}
	if c.cfg.PostConvertCommand != "" {
		stdout, err := slidejsx.RunPostConvertCommand(ctx, c.cfg.PostConvertCommand, slidejsx.PostConvert{
			Output:    c.output,
			Component: componentName,
			Nodes:     len(out.Nodes),
		})
		if err != nil {
			c.logger.Error("failed to run post convert command", slog.String("error", err.Error()))
			return err
		}
		_, _ = c.stderr.Write(stdout)
	}
	return nil
}

// cssImport returns the stylesheet path relative to the component file.
func (c *converter) cssImport() string {
	if c.css == "" {
		return ""
	}
	base := "."
	if c.output != "" {
		base = filepath.Dir(c.output)
	}
	rel, err := filepath.Rel(base, c.css)
	if err != nil {
		rel = c.css
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") && !strings.HasPrefix(rel, "/") {
		rel = "./" + rel
	}
	return rel
}

// watch converts the input again whenever the file changes.
func (c *converter) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	input, err := filepath.Abs(c.input)
	if err != nil {
		return err
	}
	// Editors often replace the file, so watch the directory.
	if err := watcher.Add(filepath.Dir(input)); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(c.stderr, "watching %s\n", c.input)

	const debounce = 100 * time.Millisecond
	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != input {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			timer = time.After(debounce)
		case <-timer:
			timer = nil
			if err := c.run(ctx); err != nil {
				// Keep watching so that the next save can fix the input.
				c.logger.Error("failed to convert", slog.String("error", err.Error()))
				_, _ = fmt.Fprintf(c.stderr, "%v\n", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

func rendererOptions(cfg *config.Config, logger *slog.Logger) []slidejsx.Option {
	var opts []slidejsx.Option
	if logger != nil {
		opts = append(opts, slidejsx.WithLogger(logger))
	}
	if cfg.Canvas != nil {
		opts = append(opts, slidejsx.WithCanvas(slidejsx.Canvas{
			Width:      cfg.Canvas.Width,
			Height:     cfg.Canvas.Height,
			Background: cfg.Canvas.Background,
		}))
	}
	if cfg.FallbackBackground != "" {
		opts = append(opts, slidejsx.WithDefaults(slidejsx.Defaults{Background: cfg.FallbackBackground}))
	}
	if cfg.Concurrency > 0 {
		opts = append(opts, slidejsx.WithConcurrency(cfg.Concurrency))
	}
	var rules []slidejsx.Rule
	for _, r := range cfg.Rules {
		rules = append(rules, slidejsx.Rule{
			If:        r.If,
			Skip:      r.Skip != nil && *r.Skip,
			ClassName: r.ClassName,
		})
	}
	if len(rules) > 0 {
		opts = append(opts, slidejsx.WithRules(rules...))
	}
	return opts
}

// selectItems keeps the items whose 1-based positions are listed in sel.
func selectItems(items schema.Items, sel string) (schema.Items, error) {
	if sel == "" {
		return items, nil
	}
	positions, err := itemsToIndexes(sel, len(items))
	if err != nil {
		return nil, err
	}
	selected := make(schema.Items, 0, len(positions))
	for _, p := range positions {
		selected = append(selected, items[p-1])
	}
	return selected, nil
}

func itemsToIndexes(sel string, total int) ([]int, error) {
	if sel == "" {
		// If no item is specified, return all items
		indexes := make([]int, total)
		for i := 0; i < total; i++ {
			indexes[i] = i + 1
		}
		return indexes, nil
	}

	var result []int
	for _, part := range strings.Split(sel, ",") {
		if !strings.Contains(part, "-") {
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid item number: %s", part)
			}
			if n < 1 || n > total {
				return nil, fmt.Errorf("item number out of range: %d (total items: %d)", n, total)
			}
			result = append(result, n)
			continue
		}
		rangeParts := strings.Split(part, "-")
		if len(rangeParts) != 2 {
			return nil, fmt.Errorf("invalid range format: %s", part)
		}
		start, end := 1, total
		var err error
		if rangeParts[0] != "" {
			// Open start range: "-5"
			if start, err = strconv.Atoi(rangeParts[0]); err != nil {
				return nil, fmt.Errorf("invalid item number: %s", rangeParts[0])
			}
		}
		if rangeParts[1] != "" {
			// Open end range: "3-"
			if end, err = strconv.Atoi(rangeParts[1]); err != nil {
				return nil, fmt.Errorf("invalid item number: %s", rangeParts[1])
			}
		}
		if start < 1 || start > total || end < 1 || end > total || start > end {
			return nil, fmt.Errorf("invalid item range: %s (total items: %d)", part, total)
		}
		for i := start; i <= end; i++ {
			result = append(result, i)
		}
	}
	return result, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVarP(&output, "output", "o", "", "output file path (default: stdout)")
	convertCmd.Flags().StringVarP(&cssOutput, "css", "", "", "write the stylesheet to the file and import it from the component")
	convertCmd.Flags().StringVarP(&format, "format", "f", formatJSX, "output format (jsx|json)")
	convertCmd.Flags().StringVarP(&name, "name", "n", "", "component name (default: Slide)")
	convertCmd.Flags().StringVarP(&itemsFlag, "items", "i", "", "items to convert (e.g. 1-3,5)")
	convertCmd.Flags().BoolVarP(&watch, "watch", "w", false, "watch the input file and convert on change")
	convertCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "number of items rendered in parallel")
	convertCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "disable progress output")
}
