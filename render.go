package slidejsx

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/k1LoW/slidejsx/schema"
)

// idNamespace derives IDs for items without a ShapeId.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/k1LoW/slidejsx"))

// Defaults are the values applied when an item resolves nothing itself.
type Defaults struct {
	// Background is the fallback background color.
	Background string
}

func (d Defaults) background() string {
	if d.Background == "" {
		return fallbackBackground
	}
	return d.Background
}

// RenderItem maps one normalized item onto a Node.
// It returns nil for dead and diagnostic items.
func RenderItem(item *schema.SlideItem, d Defaults) *Node {
	if item == nil || item.Inert() {
		return nil
	}
	st := &itemState{}
	n := &Node{
		Kind: KindContainer,
		ID:   nodeID(item),
	}

	applyGeometry(&n.Style, item)
	applyFill(&n.Style, item.Fill)
	applyLine(&n.Style, item.Line)
	applyShadow(&n.Style, item.Shadow)
	// Only a fill-resolved background counts as light; shape defaults do not.
	light := isLight(n.Style)

	applyShapePolicy(&n.Style, item, st)
	var phash string
	switch {
	case isPicture(item):
		phash = applyPicture(n, item)
	case item.SlideItemType == schema.SlideItemTypeChart:
		setDefaultBackground(&n.Style, neutralBackground)
	}

	n.Lines = composeText(item, light, st)
	switch {
	case item.SlideItemType == schema.SlideItemTypeChart:
		n.Lines = []*Line{chartLine()}
	case st.glyph != "" && len(n.Lines) == 0:
		n.Lines = []*Line{glyphLine(st.glyph)}
	}

	applyPresentation(&n.Style, item)
	setDefaultBackground(&n.Style, d.background())

	n.Classes = classesFor(item, st)
	n.Data = dataAttrs(item)
	if phash != "" {
		n.Data = append(n.Data, Attr{Name: "data-image-phash", Value: phash})
	}
	return n
}

func nodeID(item *schema.SlideItem) string {
	if item.ShapeID != nil {
		return "shape_" + strconv.Itoa(*item.ShapeID)
	}
	return "shape_" + uuid.NewSHA1(idNamespace, []byte(strconv.Itoa(item.Ordinal))).String()
}

func dataAttrs(item *schema.SlideItem) Attrs {
	var a Attrs
	if item.AutoShapeType != "" {
		a = append(a, Attr{Name: "data-shape-type", Value: item.AutoShapeType})
	}
	if item.SlideItemType != "" {
		a = append(a, Attr{Name: "data-slide-item-type", Value: item.SlideItemType})
	}
	for _, ext := range item.Extensions.Scalars() {
		a = append(a, Attr{Name: "data-" + strings.ToLower(ext.Name), Value: scalarString(ext.Value)})
	}
	return a
}

func scalarString(v any) string {
	switch vv := v.(type) {
	case string:
		return vv
	case json.Number:
		return vv.String()
	case float64:
		return formatNumber(vv)
	case float32:
		return formatNumber(float64(vv))
	default:
		return fmt.Sprint(vv)
	}
}

func toFloat(v any) (float64, bool) {
	switch vv := v.(type) {
	case json.Number:
		f, err := vv.Float64()
		return f, err == nil
	case float64:
		return vv, true
	case float32:
		return float64(vv), true
	case int:
		return float64(vv), true
	case int64:
		return float64(vv), true
	case uint64:
		return float64(vv), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(vv), 64)
		return f, err == nil
	}
	return 0, false
}
