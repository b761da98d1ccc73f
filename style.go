package slidejsx

import (
	"math"
	"strconv"
	"strings"

	"github.com/k1LoW/slidejsx/schema"
)

// ptToPx is the scale factor from points to pixels.
const ptToPx = 1.33333

const (
	fallbackBackground = "#f0f0f0"
	neutralBackground  = "#f0f0f0"
	gradientStop       = "#e0e0e0"
	gradientFrom       = "#ffffff"
	defaultShadowColor = "rgba(0,0,0,0.3)"
)

const (
	fillTypeSolid    = "Solid"
	fillTypeGradient = "Gradient"
	fillTypePicture  = "Picture"
)

// px converts points to a pixel length truncated to three decimals.
func px(pt float64) string {
	return formatNumber(math.Trunc(pt*ptToPx*1000+1e-6)/1000) + "px"
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func applyGeometry(s *Style, item *schema.SlideItem) {
	s.Set("position", "absolute")
	s.Set("left", px(item.Left))
	s.Set("top", px(item.Top))
	s.Set("width", px(item.Width))
	s.Set("height", px(item.Height))
	if item.Rotation != 0 {
		s.Set("transform", "rotate("+formatNumber(item.Rotation)+"deg)")
	}
}

// hasBackground reports whether any background declaration is set.
func hasBackground(s Style) bool {
	return s.Has("backgroundColor") || s.Has("background")
}

// fillView is the common view over structured and opaque fills.
type fillView struct {
	typ         string
	color       string
	hasColor    bool
	hasGradient bool
	image       any
	hasImage    bool
}

func viewFill(f schema.Fill) (fillView, bool) {
	switch ff := f.(type) {
	case *schema.FillFormat:
		v := fillView{typ: ff.Type, hasGradient: ff.Gradient != nil, image: ff.Image, hasImage: ff.Image != nil}
		if ff.Color != nil {
			v.color, v.hasColor = *ff.Color, true
		}
		return v, true
	case schema.OpaqueFill:
		m := schema.Map(ff)
		v := fillView{hasGradient: m.Has("Gradient"), hasImage: m.Has("Image")}
		v.typ, _ = m.String("Type")
		v.color, v.hasColor = m.String("Color")
		v.image, _ = m.Get("Image")
		return v, true
	}
	return fillView{}, false
}

func applyFill(s *Style, f schema.Fill) {
	v, ok := viewFill(f)
	if !ok {
		return
	}
	switch v.typ {
	case fillTypeSolid, "":
		if v.hasColor && v.color != "" {
			s.Set("backgroundColor", v.color)
		}
	case fillTypeGradient:
		if !v.hasGradient {
			return
		}
		from := gradientFrom
		if v.hasColor && v.color != "" {
			from = v.color
		}
		s.Set("background", "linear-gradient(90deg, "+from+", "+gradientStop+")")
	case fillTypePicture:
		if !v.hasImage {
			return
		}
		if img, ok := v.image.(string); ok && img != "" {
			s.Set("backgroundImage", "url("+img+")")
		}
		s.Set("backgroundSize", "cover")
		s.Set("backgroundPosition", "center")
	}
}

func applyLine(s *Style, l schema.Line) {
	var (
		color, style string
		width        *float64
	)
	switch ll := l.(type) {
	case *schema.LineFormat:
		if ll.Color != nil {
			color = *ll.Color
		}
		width = ll.Width
		if ll.Style != nil {
			style = *ll.Style
		}
	case schema.OpaqueLine:
		m := schema.Map(ll)
		color, _ = m.String("Color")
		if w, ok := m.Get("Width"); ok {
			if f, ok := toFloat(w); ok {
				width = &f
			}
		}
		if v, ok := m.Get("Style"); ok {
			style, ok = v.(string)
			if !ok {
				style = "solid"
			}
		}
	default:
		return
	}
	if color != "" {
		s.Set("borderColor", color)
	}
	if width != nil && *width != 0 {
		s.Set("borderWidth", px(*width))
	}
	if style != "" {
		s.Set("borderStyle", strings.ToLower(style))
	}
}

func applyShadow(s *Style, shadow schema.Map) {
	if shadow == nil {
		return
	}
	color := defaultShadowColor
	if c, ok := shadow.String("Color"); ok && c != "" {
		color = c
	}
	s.Set("boxShadow", "2px 2px 5px "+color)
}

func applyPresentation(s *Style, item *schema.SlideItem) {
	if item.Opacity != schema.DefaultOpacity {
		s.Set("opacity", item.Opacity/100)
	}
	s.Set("zIndex", item.ZIndex)
}
