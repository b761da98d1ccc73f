package schema

// Raw exports the items back into the source key space.
// Normalize(items.Raw()) yields an equivalent sequence.
func (items Items) Raw() []any {
	raw := make([]any, 0, len(items))
	for _, i := range items {
		raw = append(raw, i.Raw())
	}
	return raw
}

// MarshalJSON encodes the items in the source key space.
func (items Items) MarshalJSON() ([]byte, error) {
	return Map{{Key: "Items", Value: items.Raw()}}.MarshalJSON()
}

// Raw exports the item back into the source key space.
func (i *SlideItem) Raw() Map {
	m := Map{}
	if i.ShapeID != nil {
		m = append(m, MapItem{"ShapeId", *i.ShapeID})
	}
	if i.SlideItemType != "" {
		m = append(m, MapItem{"SlideItemType", i.SlideItemType})
	}
	if i.AutoShapeType != "" {
		m = append(m, MapItem{"AutoShapeType", i.AutoShapeType})
	}
	m = append(m,
		MapItem{"Left", i.Left},
		MapItem{"Top", i.Top},
		MapItem{"Width", i.Width},
		MapItem{"Height", i.Height},
		MapItem{"Rotation", i.Rotation},
	)
	if i.TextBody != nil {
		m = append(m, MapItem{"TextBody", i.TextBody.raw()})
	}
	switch f := i.Fill.(type) {
	case *FillFormat:
		m = append(m, MapItem{"FillFormat", f.raw()})
	case OpaqueFill:
		m = append(m, MapItem{"FillFormat", Map(f)})
	}
	switch l := i.Line.(type) {
	case *LineFormat:
		m = append(m, MapItem{"LineFormat", l.raw()})
	case OpaqueLine:
		m = append(m, MapItem{"LineFormat", Map(l)})
	}
	if i.ImageData != nil {
		m = append(m, MapItem{"ImageData", i.ImageData})
	}
	if i.Shadow != nil {
		m = append(m, MapItem{"ShadowFormat", i.Shadow})
	}
	m = append(m,
		MapItem{"Opacity", i.Opacity},
		MapItem{"ZIndex", i.ZIndex},
	)
	if i.Info != nil {
		m = append(m, MapItem{"Info", *i.Info})
	}
	for _, ext := range i.Extensions {
		m = append(m, MapItem{ext.Name, ext.Value})
	}
	return m
}

func (tb *TextBody) raw() Map {
	paragraphs := make([]any, 0, len(tb.Paragraphs))
	for _, p := range tb.Paragraphs {
		paragraphs = append(paragraphs, p.raw())
	}
	return Map{{"Paragraphs", paragraphs}}
}

func (p *Paragraph) raw() Map {
	parts := make([]any, 0, len(p.TextParts))
	for _, tp := range p.TextParts {
		parts = append(parts, Map{
			{"Font", tp.Font.raw()},
			{"Text", tp.Text},
		})
	}
	m := Map{
		{"Text", p.Text},
		{"TextParts", parts},
	}
	if p.HorizontalAlignment != nil {
		m = append(m, MapItem{"HorizontalAlignment", *p.HorizontalAlignment})
	} else {
		m = append(m, MapItem{"HorizontalAlignment", nil})
	}
	m = append(m, MapItem{"IndentLevelNumber", p.IndentLevel})
	if p.ListFormat != nil {
		m = append(m, MapItem{"ListFormat", Map{
			{"Type", p.ListFormat.Type},
			{"BulletCharacter", p.ListFormat.BulletCharacter},
		}})
	}
	return m
}

func (f *Font) raw() Map {
	return Map{
		{"Color", nullable(f.Color)},
		{"FontName", nullable(f.FontName)},
		{"FontSize", nullable(f.FontSize)},
		{"Bold", f.Bold},
		{"Italic", f.Italic},
	}
}

func (f *FillFormat) raw() Map {
	m := Map{}
	if f.Type != "" {
		m = append(m, MapItem{"Type", f.Type})
	}
	if f.Color != nil {
		m = append(m, MapItem{"Color", *f.Color})
	}
	if f.Gradient != nil {
		m = append(m, MapItem{"Gradient", f.Gradient})
	}
	if f.Image != nil {
		m = append(m, MapItem{"Image", f.Image})
	}
	return m
}

func (l *LineFormat) raw() Map {
	m := Map{}
	if l.Color != nil {
		m = append(m, MapItem{"Color", *l.Color})
	}
	if l.Width != nil {
		m = append(m, MapItem{"Width", *l.Width})
	}
	if l.Style != nil {
		m = append(m, MapItem{"Style", *l.Style})
	}
	return m
}

func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
