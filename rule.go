package slidejsx

import (
	"fmt"
	"strings"

	"github.com/k1LoW/slidejsx/schema"
	"github.com/k1LoW/slidejsx/template"
)

// Rule adjusts the rendering of the items its condition matches.
type Rule struct {
	// If is a CEL expression over `item` and `index`. An empty condition matches every item.
	If        string
	Skip      bool
	ClassName string
}

func (r Rule) validate() error {
	if r.If == "" {
		return nil
	}
	if err := template.Compile(r.If, ruleStore(&schema.SlideItem{})); err != nil {
		return fmt.Errorf("invalid rule condition: %w", err)
	}
	return nil
}

func (r Rule) match(item *schema.SlideItem) (bool, error) {
	if r.If == "" {
		return true, nil
	}
	return template.EvalBool(r.If, ruleStore(item))
}

// classNames returns the class tokens of the rule.
func (r Rule) classNames() []string {
	return strings.Fields(r.ClassName)
}

func ruleStore(item *schema.SlideItem) map[string]any {
	return map[string]any{
		"item":  itemValues(item),
		"index": item.Ordinal,
	}
}

// itemValues exposes the item to rule conditions.
func itemValues(item *schema.SlideItem) map[string]any {
	shapeID := -1
	if item.ShapeID != nil {
		shapeID = *item.ShapeID
	}
	var texts []string
	for _, p := range item.Paragraphs() {
		if strings.TrimSpace(p.Text) != "" {
			texts = append(texts, p.Text)
		}
	}
	ext := map[string]any{}
	for _, e := range item.Extensions.Scalars() {
		if f, ok := toFloat(e.Value); ok {
			if _, isString := e.Value.(string); !isString {
				ext[e.Name] = f
				continue
			}
		}
		ext[e.Name] = e.Value
	}
	return map[string]any{
		"shapeId":       shapeID,
		"slideItemType": item.SlideItemType,
		"autoShapeType": item.AutoShapeType,
		"left":          item.Left,
		"top":           item.Top,
		"width":         item.Width,
		"height":        item.Height,
		"rotation":      item.Rotation,
		"opacity":       item.Opacity,
		"zIndex":        item.ZIndex,
		"text":          strings.Join(texts, "\n"),
		"ext":           ext,
	}
}
