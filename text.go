package slidejsx

import (
	"strconv"
	"strings"

	"github.com/k1LoW/slidejsx/schema"
)

const (
	lightBackgroundText = TitleBlue
	contrastText        = "#FFFFFF"
	listTypeBulleted    = "Bulleted"
	indentStep          = 20
)

var lightBackgrounds = []string{"#f0f0f0", "#ffffff"}

// fontFamilies maps font names to a web-safe family list.
var fontFamilies = map[string]string{
	"Aptos": "Segoe UI, Roboto, Helvetica, Arial, sans-serif",
}

func fontFamily(name string) string {
	if f, ok := fontFamilies[name]; ok {
		return f
	}
	return name + ", Arial, sans-serif"
}

func isLight(s Style) bool {
	bg, ok := s.String("backgroundColor")
	if !ok {
		return false
	}
	for _, l := range lightBackgrounds {
		if strings.EqualFold(bg, l) {
			return true
		}
	}
	return false
}

// composeText builds the text lines of the item.
// light is evaluated against the background resolved so far.
func composeText(item *schema.SlideItem, light bool, st *itemState) []*Line {
	var lines []*Line
	for _, p := range item.Paragraphs() {
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		line := &Line{Kind: KindParagraph}
		prefix := bulletPrefix(p.ListFormat)
		if len(p.TextParts) == 0 {
			line.Spans = append(line.Spans, &Span{
				Style: runStyle(nil, light, st),
				Text:  prefix + p.Text,
			})
		}
		for i, tp := range p.TextParts {
			text := tp.Text
			if i == 0 {
				text = prefix + text
			}
			line.Spans = append(line.Spans, &Span{
				Style: runStyle(tp.Font, light, st),
				Text:  text,
			})
		}
		if p.HorizontalAlignment != nil && *p.HorizontalAlignment != "" {
			line.Style.Set("textAlign", strings.ToLower(*p.HorizontalAlignment))
		}
		if p.IndentLevel > 0 {
			st.bulletIndent = true
			line.Style.Set("marginLeft", strconv.Itoa(p.IndentLevel*indentStep)+"px")
		}
		lines = append(lines, line)
	}
	return lines
}

func bulletPrefix(lf *schema.ListFormat) string {
	if lf == nil || lf.Type != listTypeBulleted {
		return ""
	}
	c := lf.BulletCharacter
	if c == "" {
		c = schema.DefaultBulletCharacter
	}
	return c + " "
}

func runStyle(f *schema.Font, light bool, st *itemState) Style {
	var s Style
	switch {
	case light:
		s.Set("color", lightBackgroundText)
	case st.contrast:
		s.Set("color", contrastText)
	case f != nil && f.Color != nil && *f.Color != "":
		s.Set("color", *f.Color)
	}
	if f == nil {
		return s
	}
	if f.FontName != nil && *f.FontName != "" {
		s.Set("fontFamily", fontFamily(*f.FontName))
	}
	if f.FontSize != nil && *f.FontSize != 0 {
		s.Set("fontSize", formatNumber(*f.FontSize)+"px")
	}
	if f.Bold {
		s.Set("fontWeight", "bold")
	}
	if f.Italic {
		s.Set("fontStyle", "italic")
	}
	return s
}

func glyphLine(glyph string) *Line {
	var s Style
	s.Set("display", "flex")
	s.Set("justifyContent", "center")
	s.Set("alignItems", "center")
	s.Set("height", "100%")
	s.Set("color", "#ffffff")
	return &Line{Kind: KindPlaceholderText, Style: s, Text: glyph}
}

const chartPlaceholder = "Chart Placeholder"

func chartLine() *Line {
	var s Style
	s.Set("textAlign", "center")
	s.Set("padding", "20px")
	return &Line{Kind: KindPlaceholderText, Style: s, Text: chartPlaceholder}
}

// PlainText returns the text of the line without styling.
func (l *Line) PlainText() string {
	if l.Kind == KindPlaceholderText {
		return l.Text
	}
	var b strings.Builder
	for _, s := range l.Spans {
		b.WriteString(s.Text)
	}
	return b.String()
}
