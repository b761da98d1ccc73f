package slidejsx

import (
	"strings"

	"github.com/k1LoW/slidejsx/schema"
)

// TitleBlue is the font color that promotes a Rectangle's text color to its background.
const TitleBlue = "#156082"

type arrow struct {
	color string
	glyph string
}

var arrows = map[string]arrow{
	"RightArrow": {color: "#e67e22", glyph: "→"},
	"LeftArrow":  {color: "#3498db", glyph: "←"},
	"UpArrow":    {color: "#2ecc71", glyph: "↑"},
	"DownArrow":  {color: "#9b59b6", glyph: "↓"},
}

// polygonShapes only get a neutral background; their outline is drawn by the stylesheet.
var polygonShapes = map[string]struct{}{
	"Diamond":  {},
	"Triangle": {},
	"Pentagon": {},
	"Hexagon":  {},
}

// itemState holds the flags raised while rendering a single item.
type itemState struct {
	contrast     bool
	bulletIndent bool
	glyph        string
}

func setDefaultBackground(s *Style, color string) {
	if !hasBackground(*s) {
		s.Set("backgroundColor", color)
	}
}

// applyShapePolicy applies the AutoShape specific treatment.
func applyShapePolicy(s *Style, item *schema.SlideItem, st *itemState) {
	if item.SlideItemType != schema.SlideItemTypeAutoShape {
		return
	}
	typ := item.AutoShapeType
	if a, ok := arrows[typ]; ok {
		setDefaultBackground(s, a.color)
		st.glyph = a.glyph
		return
	}
	if _, ok := polygonShapes[typ]; ok {
		setDefaultBackground(s, neutralBackground)
		return
	}
	switch typ {
	case "Circle", "Oval":
		s.Set("borderRadius", "50%")
		setDefaultBackground(s, neutralBackground)
	case "RoundedRectangle":
		s.Set("borderRadius", "10px")
	case "Rectangle":
		promoteTitleBlue(s, item, st)
	}
}

func promoteTitleBlue(s *Style, item *schema.SlideItem, st *itemState) {
	if hasBackground(*s) {
		return
	}
	for _, p := range item.Paragraphs() {
		for _, tp := range p.TextParts {
			if tp.Font == nil || tp.Font.Color == nil {
				continue
			}
			if strings.EqualFold(*tp.Font.Color, TitleBlue) {
				s.Set("backgroundColor", *tp.Font.Color)
				st.contrast = true
				return
			}
		}
	}
}

func isPicture(item *schema.SlideItem) bool {
	return item.SlideItemType == schema.SlideItemTypePicture ||
		(item.SlideItemType == schema.SlideItemTypeAutoShape && item.AutoShapeType == "Picture")
}

func classesFor(item *schema.SlideItem, st *itemState) Classes {
	c := Classes{"slide-shape"}
	switch item.SlideItemType {
	case schema.SlideItemTypeAutoShape:
		if item.AutoShapeType != "" {
			c.Add("shape-" + strings.ToLower(item.AutoShapeType))
		}
	case schema.SlideItemTypePicture:
		c.Add("shape-picture")
	case schema.SlideItemTypeChart:
		c.Add("shape-chart")
	}
	if st.bulletIndent {
		c.Add("bullet-indent")
	}
	return c
}
