// Package jsx serializes rendered slides as React components.
package jsx

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/k1LoW/errors"
	"github.com/k1LoW/slidejsx"
)

const DefaultComponentName = "Slide"

//go:embed slidejsx.css
var stylesheet []byte

var componentNameRe = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*$`)

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"{", "&#123;",
	"}", "&#125;",
)

var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
)

type Writer struct {
	name      string
	cssImport *string
}

type Option func(*Writer) error

// WithComponentName sets the name of the exported component.
func WithComponentName(name string) Option {
	return func(w *Writer) error {
		if !componentNameRe.MatchString(name) {
			return fmt.Errorf("invalid component name: %s, it must start with an uppercase letter and contain only alphanumeric characters and underscores", name)
		}
		w.name = name
		return nil
	}
}

// WithCSSImport sets the stylesheet imported by the component. An empty path disables the import.
func WithCSSImport(path string) Option {
	return func(w *Writer) error {
		w.cssImport = &path
		return nil
	}
}

// New creates a new Writer.
func New(opts ...Option) (_ *Writer, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	w := &Writer{
		name: DefaultComponentName,
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	if w.cssImport == nil {
		path := "./" + w.name + ".css"
		w.cssImport = &path
	}
	return w, nil
}

// Write writes out as a React component.
func (w *Writer) Write(dst io.Writer, out *slidejsx.Output) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	var b strings.Builder
	b.WriteString("import React from 'react';\n")
	if *w.cssImport != "" {
		b.WriteString(fmt.Sprintf("import '%s';\n", stringEscaper.Replace(*w.cssImport)))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("export const %s = () => {\n", w.name))
	b.WriteString("  return (\n")
	b.WriteString("    <div\n")
	b.WriteString("      className=\"slide-canvas\"\n")
	b.WriteString("      style={{\n")
	canvas := []string{
		"position: 'relative'",
		fmt.Sprintf("width: '%dpx'", out.Canvas.Width),
		fmt.Sprintf("height: '%dpx'", out.Canvas.Height),
		fmt.Sprintf("backgroundColor: '%s'", stringEscaper.Replace(out.Canvas.Background)),
		"overflow: 'hidden'",
		"boxSizing: 'border-box'",
		"fontFamily: 'Arial, sans-serif'",
	}
	b.WriteString("        " + strings.Join(canvas, ",\n        ") + "\n")
	b.WriteString("      }}\n")
	b.WriteString("    >\n")
	for _, n := range out.Nodes {
		writeNode(&b, n, "      ")
	}
	b.WriteString("    </div>\n")
	b.WriteString("  );\n")
	b.WriteString("};\n")
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("export default %s;\n", w.name))
	if _, err := io.WriteString(dst, b.String()); err != nil {
		return fmt.Errorf("failed to write component: %w", err)
	}
	return nil
}

func writeNode(b *strings.Builder, n *slidejsx.Node, indent string) {
	tag := "div"
	if n.Kind == slidejsx.KindImage {
		tag = "img"
	}
	b.WriteString(indent + "<" + tag + "\n")
	attr := func(name, value string) {
		b.WriteString(fmt.Sprintf("%s  %s=\"%s\"\n", indent, name, html.EscapeString(value)))
	}
	attr("id", n.ID)
	attr("className", strings.Join(n.Classes, " "))
	if n.Kind == slidejsx.KindImage {
		attr("src", n.Src)
		attr("alt", "")
	}
	b.WriteString(indent + "  style=" + styleExpr(n.Style) + "\n")
	for _, d := range n.Data {
		attr(d.Name, d.Value)
	}
	if n.Kind == slidejsx.KindImage {
		b.WriteString(indent + "/>\n")
		return
	}
	b.WriteString(indent + ">\n")
	for _, l := range n.Lines {
		b.WriteString(indent + "  " + line(l) + "\n")
	}
	b.WriteString(indent + "</" + tag + ">\n")
}

func line(l *slidejsx.Line) string {
	var content string
	if l.Kind == slidejsx.KindPlaceholderText {
		content = textEscaper.Replace(l.Text)
	} else {
		var spans []string
		for _, s := range l.Spans {
			spans = append(spans, element("span", s.Style, textEscaper.Replace(s.Text)))
		}
		content = strings.Join(spans, "")
	}
	return element("div", l.Style, content)
}

func element(tag string, s slidejsx.Style, content string) string {
	if len(s) == 0 {
		return "<" + tag + ">" + content + "</" + tag + ">"
	}
	return "<" + tag + " style=" + styleExpr(s) + ">" + content + "</" + tag + ">"
}

// styleExpr returns s as a JSX style object expression.
func styleExpr(s slidejsx.Style) string {
	if len(s) == 0 {
		return "{{}}"
	}
	decls := make([]string, 0, len(s))
	for _, d := range s {
		decls = append(decls, d.Name+": "+jsValue(d.Value))
	}
	return "{{ " + strings.Join(decls, ", ") + " }}"
}

func jsValue(v any) string {
	switch vv := v.(type) {
	case string:
		return "'" + stringEscaper.Replace(vv) + "'"
	case int:
		return strconv.Itoa(vv)
	case float64:
		return strconv.FormatFloat(vv, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(vv)
	default:
		return "'" + stringEscaper.Replace(fmt.Sprint(vv)) + "'"
	}
}

// WriteCSS writes the stylesheet keyed by the shape classes.
func WriteCSS(dst io.Writer) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if _, err := dst.Write(stylesheet); err != nil {
		return fmt.Errorf("failed to write stylesheet: %w", err)
	}
	return nil
}

// WriteJSON writes out as an indented JSON node tree.
func WriteJSON(dst io.Writer, out *slidejsx.Output) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	enc := json.NewEncoder(dst)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode nodes: %w", err)
	}
	return nil
}
