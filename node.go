package slidejsx

import (
	"bytes"
	"encoding/json"
)

// ElementKind is the kind of element a Node or Line is rendered as.
type ElementKind string

const (
	KindContainer       ElementKind = "container"
	KindImage           ElementKind = "image"
	KindParagraph       ElementKind = "paragraph"
	KindPlaceholderText ElementKind = "placeholder-text"
)

// Node is the visual representation of one slide item.
type Node struct {
	Kind    ElementKind `json:"kind"`
	ID      string      `json:"id"`
	Classes Classes     `json:"classes"`
	Style   Style       `json:"style"`
	Data    Attrs       `json:"data,omitempty"`
	Src     string      `json:"src,omitempty"`
	Lines   []*Line     `json:"lines,omitempty"`
}

// Line is one line of text content of a Node.
type Line struct {
	Kind  ElementKind `json:"kind"`
	Style Style       `json:"style,omitempty"`
	Spans []*Span     `json:"spans,omitempty"`
	// Text is the content of a placeholder-text line.
	Text string `json:"text,omitempty"`
}

// Span is a styled run of text.
type Span struct {
	Style Style  `json:"style,omitempty"`
	Text  string `json:"text"`
}

// Decl is one style declaration. Value is a string or a number.
type Decl struct {
	Name  string
	Value any
}

// Style is an ordered set of style declarations.
type Style []Decl

// Get returns the value of the declaration name.
func (s Style) Get(name string) (any, bool) {
	for _, d := range s {
		if d.Name == name {
			return d.Value, true
		}
	}
	return nil, false
}

// String returns the value of the declaration name if it is a string.
func (s Style) String(name string) (string, bool) {
	v, ok := s.Get(name)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// Has reports whether the declaration name is set.
func (s Style) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Set sets the declaration name. An existing declaration keeps its position.
func (s *Style) Set(name string, value any) {
	for i := range *s {
		if (*s)[i].Name == name {
			(*s)[i].Value = value
			return
		}
	}
	*s = append(*s, Decl{Name: name, Value: value})
}

// MarshalJSON encodes the style as a JSON object in declaration order.
func (s Style) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(d.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(d.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Attr is a data attribute.
type Attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Attrs is an ordered list of data attributes.
type Attrs []Attr

// Get returns the value of the attribute name.
func (a Attrs) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Classes is an ordered set of class names.
type Classes []string

// Add appends name unless it is already present.
func (c *Classes) Add(name string) {
	if c.Has(name) {
		return
	}
	*c = append(*c, name)
}

// Has reports whether name is present.
func (c Classes) Has(name string) bool {
	for _, n := range c {
		if n == name {
			return true
		}
	}
	return false
}

// Canvas is the slide area the nodes are positioned in.
type Canvas struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Background string `json:"background"`
}

// DefaultCanvas is a 720x540pt slide in pixels.
func DefaultCanvas() Canvas {
	return Canvas{
		Width:      960,
		Height:     720,
		Background: "#ffffff",
	}
}

// Output is the result of rendering a document.
type Output struct {
	Canvas Canvas  `json:"canvas"`
	Nodes  []*Node `json:"nodes"`
}
