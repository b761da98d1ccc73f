package schema

import "strings"

// CircularReferenceMarker marks an item that an upstream exporter replaced because of a reference cycle.
const CircularReferenceMarker = "Circular reference detected"

// Info prefixes of diagnostic placeholders.
const (
	infoErrorParsing       = "Error parsing: "
	infoErrorParsingNested = "Error parsing nested item: "
)

// Default geometry and presentation values of a SlideItem.
const (
	DefaultLeft    = 0.0
	DefaultTop     = 0.0
	DefaultWidth   = 100.0
	DefaultHeight  = 50.0
	DefaultOpacity = 100.0
)

// Default text values.
const (
	DefaultFontColor           = "#000000"
	DefaultFontName            = "Arial"
	DefaultFontSize            = 12.0
	DefaultHorizontalAlignment = "Left"
	DefaultListType            = "NotDefined"
	DefaultBulletCharacter     = "•"
)

// Slide item types.
const (
	SlideItemTypeAutoShape = "AutoShape"
	SlideItemTypePicture   = "Picture"
	SlideItemTypeChart     = "Chart"
)

type Items []*SlideItem

// SlideItem is one normalized element of a slide.
type SlideItem struct {
	ShapeID       *int
	SlideItemType string
	AutoShapeType string

	Left     float64
	Top      float64
	Width    float64
	Height   float64
	Rotation float64

	Fill   Fill
	Line   Line
	Shadow Map

	TextBody  *TextBody
	ImageData Map

	Opacity float64
	ZIndex  int

	// Info is set only on dead and diagnostic placeholder items.
	Info *string

	// Extensions holds source fields that are not part of the typed core, in source order.
	Extensions Extensions

	// Ordinal is the position of the item in the normalized sequence.
	Ordinal int
}

// TextBody holds the paragraphs of a shape.
type TextBody struct {
	Paragraphs []*Paragraph
}

// Paragraph represents a paragraph within a text body.
type Paragraph struct {
	Text                string
	TextParts           []*TextPart
	HorizontalAlignment *string
	IndentLevel         int
	ListFormat          *ListFormat
}

// TextPart is a run of text sharing one font.
type TextPart struct {
	Font *Font
	Text string
}

// Font properties of a text run. A nil field was explicitly null in the source.
type Font struct {
	Color    *string
	FontName *string
	FontSize *float64
	Bold     bool
	Italic   bool
}

type ListFormat struct {
	Type            string
	BulletCharacter string
}

// Fill is either a *FillFormat or an OpaqueFill.
type Fill interface {
	isFill()
}

// FillFormat is a fill whose fields all fit the known shape.
type FillFormat struct {
	Type     string
	Color    *string
	Gradient any
	Image    any
}

// OpaqueFill is a fill passed through as-is.
type OpaqueFill Map

func (*FillFormat) isFill() {}
func (OpaqueFill) isFill()  {}

// Line is either a *LineFormat or an OpaqueLine.
type Line interface {
	isLine()
}

// LineFormat is a line whose fields all fit the known shape.
type LineFormat struct {
	Color *string
	Width *float64
	Style *string
}

// OpaqueLine is a line passed through as-is.
type OpaqueLine Map

func (*LineFormat) isLine() {}
func (OpaqueLine) isLine()  {}

// Extension is a source field outside the typed core.
type Extension struct {
	Name  string
	Value any
}

type Extensions []Extension

// Scalars returns the extensions whose value is a string, number or boolean.
func (e Extensions) Scalars() Extensions {
	var s Extensions
	for _, ext := range e {
		if isScalar(ext.Value) {
			s = append(s, ext)
		}
	}
	return s
}

// IsDead reports whether the item is a circular-reference placeholder.
func (i *SlideItem) IsDead() bool {
	return i.Info != nil && strings.Contains(*i.Info, CircularReferenceMarker)
}

// IsDiagnostic reports whether the item is a placeholder for an item that failed coercion.
func (i *SlideItem) IsDiagnostic() bool {
	return i.Info != nil && (strings.HasPrefix(*i.Info, infoErrorParsing) || strings.HasPrefix(*i.Info, infoErrorParsingNested))
}

// Inert reports whether the item must not produce visual output.
func (i *SlideItem) Inert() bool {
	return i.IsDead() || i.IsDiagnostic()
}

// Paragraphs returns the paragraphs of the text body, or nil.
func (i *SlideItem) Paragraphs() []*Paragraph {
	if i.TextBody == nil {
		return nil
	}
	return i.TextBody.Paragraphs
}

// Diagnostics returns the diagnostic placeholders.
func (items Items) Diagnostics() Items {
	var d Items
	for _, i := range items {
		if i.IsDiagnostic() {
			d = append(d, i)
		}
	}
	return d
}

// Dead returns the circular-reference placeholders.
func (items Items) Dead() Items {
	var d Items
	for _, i := range items {
		if i.IsDead() {
			d = append(d, i)
		}
	}
	return d
}

func newItem() *SlideItem {
	return &SlideItem{
		Left:    DefaultLeft,
		Top:     DefaultTop,
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		Opacity: DefaultOpacity,
	}
}

func newPlaceholder(info string) *SlideItem {
	i := newItem()
	i.Info = &info
	return i
}

func newFont() *Font {
	c := DefaultFontColor
	n := DefaultFontName
	s := DefaultFontSize
	return &Font{
		Color:    &c,
		FontName: &n,
		FontSize: &s,
	}
}
