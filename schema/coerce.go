package schema

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

var (
	fillKeys = map[string]struct{}{"Type": {}, "Color": {}, "Gradient": {}, "Image": {}}
	lineKeys = map[string]struct{}{"Color": {}, "Width": {}, "Style": {}}
)

// coerceItem maps one source object onto a SlideItem, applying every default.
func coerceItem(v any) (*SlideItem, error) {
	m, ok := v.(Map)
	if !ok {
		return nil, coercionError("", v, "input should be an object")
	}
	item := newItem()
	for _, kv := range m {
		if err := coerceField(item, kv.Key, kv.Value); err != nil {
			return nil, err
		}
	}
	return item, nil
}

func coerceField(item *SlideItem, key string, v any) error {
	switch key {
	case "ShapeId":
		if v == nil {
			return nil
		}
		n, err := toInt(key, v)
		if err != nil {
			return err
		}
		item.ShapeID = &n
	case "SlideItemType":
		s, err := toOptString(key, v, "")
		if err != nil {
			return err
		}
		item.SlideItemType = s
	case "AutoShapeType":
		s, err := toOptString(key, v, "")
		if err != nil {
			return err
		}
		item.AutoShapeType = s
	case "Left":
		return toOptFloat(key, v, DefaultLeft, &item.Left)
	case "Top":
		return toOptFloat(key, v, DefaultTop, &item.Top)
	case "Width":
		return toOptFloat(key, v, DefaultWidth, &item.Width)
	case "Height":
		return toOptFloat(key, v, DefaultHeight, &item.Height)
	case "Rotation":
		return toOptFloat(key, v, 0, &item.Rotation)
	case "Opacity":
		return toOptFloat(key, v, DefaultOpacity, &item.Opacity)
	case "ZIndex":
		if v == nil {
			item.ZIndex = 0
			return nil
		}
		n, err := toInt(key, v)
		if err != nil {
			return err
		}
		item.ZIndex = n
	case "Info":
		if v == nil {
			item.Info = nil
			return nil
		}
		s, ok := v.(string)
		if !ok {
			return coercionError(key, v, "input should be a valid string")
		}
		item.Info = &s
	case "FillFormat":
		f, err := coerceFill(key, v)
		if err != nil {
			return err
		}
		item.Fill = f
	case "LineFormat":
		l, err := coerceLine(key, v)
		if err != nil {
			return err
		}
		item.Line = l
	case "ShadowFormat":
		if v == nil {
			item.Shadow = nil
			return nil
		}
		m, ok := v.(Map)
		if !ok {
			return coercionError(key, v, "input should be a valid dictionary")
		}
		item.Shadow = m
	case "ImageData":
		switch vv := v.(type) {
		case nil:
			item.ImageData = nil
		case Map:
			item.ImageData = vv
		case string:
			item.ImageData = Map{{Key: "Base64", Value: vv}}
		default:
			return coercionError(key, v, "input should be a valid dictionary")
		}
	case "TextBody":
		tb, err := coerceTextBody(key, v)
		if err != nil {
			return err
		}
		item.TextBody = tb
	default:
		item.Extensions = append(item.Extensions, Extension{Name: key, Value: v})
	}
	return nil
}

func coerceFill(path string, v any) (Fill, error) {
	switch vv := v.(type) {
	case nil:
		return nil, nil
	case OpaqueFill:
		return vv, nil
	case Map:
		if f, ok := structuredFill(vv); ok {
			return f, nil
		}
		return OpaqueFill(vv), nil
	}
	return nil, coercionError(path, v, "input should be a valid dictionary or instance of FillFormat")
}

func structuredFill(m Map) (*FillFormat, bool) {
	f := &FillFormat{}
	for _, kv := range m {
		if _, ok := fillKeys[kv.Key]; !ok {
			return nil, false
		}
		switch kv.Key {
		case "Type":
			if kv.Value == nil {
				continue
			}
			s, ok := kv.Value.(string)
			if !ok {
				return nil, false
			}
			f.Type = s
		case "Color":
			if kv.Value == nil {
				continue
			}
			s, ok := kv.Value.(string)
			if !ok {
				return nil, false
			}
			f.Color = &s
		case "Gradient":
			f.Gradient = kv.Value
		case "Image":
			f.Image = kv.Value
		}
	}
	return f, true
}

func coerceLine(path string, v any) (Line, error) {
	switch vv := v.(type) {
	case nil:
		return nil, nil
	case OpaqueLine:
		return vv, nil
	case Map:
		if l, ok := structuredLine(vv); ok {
			return l, nil
		}
		return OpaqueLine(vv), nil
	}
	return nil, coercionError(path, v, "input should be a valid dictionary or instance of LineFormat")
}

func structuredLine(m Map) (*LineFormat, bool) {
	l := &LineFormat{}
	for _, kv := range m {
		if _, ok := lineKeys[kv.Key]; !ok {
			return nil, false
		}
		if kv.Value == nil {
			continue
		}
		switch kv.Key {
		case "Color":
			s, ok := kv.Value.(string)
			if !ok {
				return nil, false
			}
			l.Color = &s
		case "Width":
			w, err := toFloat(kv.Key, kv.Value)
			if err != nil {
				return nil, false
			}
			l.Width = &w
		case "Style":
			s, ok := kv.Value.(string)
			if !ok {
				return nil, false
			}
			l.Style = &s
		}
	}
	return l, true
}

// coerceTextBody fails only when v is not an object. Malformed leaves below it
// degrade to their unset values and malformed paragraphs or runs are dropped,
// so one bad run never discards the whole item.
func coerceTextBody(path string, v any) (*TextBody, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(Map)
	if !ok {
		return nil, coercionError(path, v, "input should be a valid dictionary or instance of TextBody")
	}
	tb := &TextBody{}
	raw, _ := m.Get("Paragraphs")
	list, ok := raw.([]any)
	if !ok {
		return tb, nil
	}
	for _, pv := range list {
		if p, ok := coerceParagraph(pv); ok {
			tb.Paragraphs = append(tb.Paragraphs, p)
		}
	}
	return tb, nil
}

func coerceParagraph(v any) (*Paragraph, bool) {
	m, ok := v.(Map)
	if !ok {
		return nil, false
	}
	align := DefaultHorizontalAlignment
	p := &Paragraph{HorizontalAlignment: &align}
	for _, kv := range m {
		switch kv.Key {
		case "Text":
			p.Text, _ = toOptString("", kv.Value, "")
		case "HorizontalAlignment":
			if kv.Value == nil {
				p.HorizontalAlignment = nil
				continue
			}
			if s, ok := kv.Value.(string); ok {
				p.HorizontalAlignment = &s
			}
		case "IndentLevelNumber":
			if kv.Value == nil {
				continue
			}
			if n, err := toInt("", kv.Value); err == nil {
				p.IndentLevel = n
			}
		case "ListFormat":
			p.ListFormat = coerceListFormat(kv.Value)
		case "TextParts":
			list, ok := kv.Value.([]any)
			if !ok {
				continue
			}
			for _, tv := range list {
				if tp, ok := coerceTextPart(tv); ok {
					p.TextParts = append(p.TextParts, tp)
				}
			}
		}
	}
	return p, true
}

func coerceTextPart(v any) (*TextPart, bool) {
	m, ok := v.(Map)
	if !ok {
		return nil, false
	}
	tp := &TextPart{Font: newFont()}
	if fv, ok := m.Get("Font"); ok && fv != nil {
		tp.Font = coerceFont(fv)
	}
	if tv, ok := m.Get("Text"); ok {
		tp.Text, _ = toOptString("", tv, "")
	}
	return tp, true
}

func coerceFont(v any) *Font {
	f := newFont()
	m, ok := v.(Map)
	if !ok {
		return f
	}
	for _, kv := range m {
		switch kv.Key {
		case "Color":
			f.Color, _ = toNullableString("", kv.Value)
		case "FontName":
			f.FontName, _ = toNullableString("", kv.Value)
		case "FontSize":
			f.FontSize = nil
			if n, err := toFloat("", kv.Value); err == nil {
				f.FontSize = &n
			}
		case "Bold":
			f.Bold = toLenientBool(kv.Value)
		case "Italic":
			f.Italic = toLenientBool(kv.Value)
		}
	}
	return f
}

func coerceListFormat(v any) *ListFormat {
	m, ok := v.(Map)
	if !ok {
		return nil
	}
	lf := &ListFormat{Type: DefaultListType, BulletCharacter: DefaultBulletCharacter}
	if tv, ok := m.Get("Type"); ok {
		if s, err := toOptString("", tv, DefaultListType); err == nil {
			lf.Type = s
		}
	}
	if bv, ok := m.Get("BulletCharacter"); ok {
		if s, err := toOptString("", bv, DefaultBulletCharacter); err == nil && s != "" {
			lf.BulletCharacter = s
		}
	}
	return lf
}

func toOptFloat(path string, v any, def float64, dst *float64) error {
	if v == nil {
		*dst = def
		return nil
	}
	f, err := toFloat(path, v)
	if err != nil {
		return err
	}
	*dst = f
	return nil
}

func toFloat(path string, v any) (float64, error) {
	switch vv := v.(type) {
	case json.Number:
		f, err := vv.Float64()
		if err != nil {
			return 0, coercionError(path, v, "input should be a valid number")
		}
		return f, nil
	case float64:
		return vv, nil
	case float32:
		return float64(vv), nil
	case int:
		return float64(vv), nil
	case int64:
		return float64(vv), nil
	case uint64:
		return float64(vv), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(vv), 64)
		if err != nil {
			return 0, coercionError(path, v, "input should be a valid number, unable to parse string as a number")
		}
		return f, nil
	}
	return 0, coercionError(path, v, "input should be a valid number")
}

func toInt(path string, v any) (int, error) {
	switch vv := v.(type) {
	case int:
		return vv, nil
	case int64:
		return int(vv), nil
	case uint64:
		return int(vv), nil
	case json.Number:
		if n, err := vv.Int64(); err == nil {
			return int(n), nil
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(vv)); err == nil {
			return n, nil
		}
		return 0, coercionError(path, v, "input should be a valid integer, unable to parse string as an integer")
	}
	f, err := toFloat(path, v)
	if err != nil {
		return 0, coercionError(path, v, "input should be a valid integer")
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, coercionError(path, v, "input should be a valid integer, got a number with a fractional part")
	}
	return int(f), nil
}

func toOptBool(path string, v any) (bool, error) {
	switch vv := v.(type) {
	case nil:
		return false, nil
	case bool:
		return vv, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(vv)) {
		case "true", "1", "yes", "on", "t", "y":
			return true, nil
		case "false", "0", "no", "off", "f", "n":
			return false, nil
		}
	default:
		if f, err := toFloat(path, v); err == nil {
			switch f {
			case 0:
				return false, nil
			case 1:
				return true, nil
			}
		}
	}
	return false, coercionError(path, v, "input should be a valid boolean")
}

// toLenientBool falls back to truthiness for values that are not booleans.
func toLenientBool(v any) bool {
	if b, err := toOptBool("", v); err == nil {
		return b
	}
	switch vv := v.(type) {
	case string:
		return vv != ""
	case Map:
		return len(vv) > 0
	case []any:
		return len(vv) > 0
	}
	if f, err := toFloat("", v); err == nil {
		return f != 0
	}
	return false
}

func toOptString(path string, v any, def string) (string, error) {
	if v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", coercionError(path, v, "input should be a valid string")
	}
	return s, nil
}

func toNullableString(path string, v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, coercionError(path, v, "input should be a valid string")
	}
	return &s, nil
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, json.Number, float64, float32, int, int64, uint64:
		return true
	}
	return false
}
