package slidejsx

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/k1LoW/slidejsx/schema"
)

func TestRenderItemGeometry(t *testing.T) {
	item := parseItem(t, `{"Left": 10, "Top": 20, "Width": 100, "Height": 50}`)
	got := RenderItem(item, Defaults{})
	want := Style{
		{Name: "position", Value: "absolute"},
		{Name: "left", Value: "13.333px"},
		{Name: "top", Value: "26.666px"},
		{Name: "width", Value: "133.333px"},
		{Name: "height", Value: "66.666px"},
		{Name: "zIndex", Value: 0},
		{Name: "backgroundColor", Value: "#f0f0f0"},
	}
	if diff := cmp.Diff(want, got.Style); diff != "" {
		t.Error(diff)
	}
	if diff := cmp.Diff(Classes{"slide-shape"}, got.Classes); diff != "" {
		t.Error(diff)
	}
}

func TestRenderItemStyle(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		check map[string]any
		none  []string
	}{
		{
			"rotation and opacity",
			`{"Rotation": 90, "Opacity": 50, "ZIndex": 4}`,
			map[string]any{"transform": "rotate(90deg)", "opacity": 0.5, "zIndex": 4},
			nil,
		},
		{
			"no rotation transform when zero",
			`{"Rotation": 0}`,
			map[string]any{"backgroundColor": "#f0f0f0"},
			[]string{"transform", "opacity"},
		},
		{
			"solid fill",
			`{"FillFormat": {"Type": "Solid", "Color": "#123456"}}`,
			map[string]any{"backgroundColor": "#123456"},
			[]string{"background"},
		},
		{
			"untyped fill",
			`{"FillFormat": {"Color": "#abcdef"}}`,
			map[string]any{"backgroundColor": "#abcdef"},
			nil,
		},
		{
			"gradient fill",
			`{"FillFormat": {"Type": "Gradient", "Color": "#ff0000", "Gradient": {"Stops": 2}}}`,
			map[string]any{"background": "linear-gradient(90deg, #ff0000, #e0e0e0)"},
			[]string{"backgroundColor"},
		},
		{
			"gradient fill without gradient",
			`{"FillFormat": {"Type": "Gradient", "Color": "#ff0000"}}`,
			map[string]any{"backgroundColor": "#f0f0f0"},
			[]string{"background"},
		},
		{
			"picture fill without image",
			`{"FillFormat": {"Type": "Picture", "Color": "#ff0000"}}`,
			map[string]any{"backgroundColor": "#f0f0f0"},
			[]string{"backgroundSize", "backgroundPosition", "backgroundImage"},
		},
		{
			"picture fill",
			`{"FillFormat": {"Type": "Picture", "Image": "bg.png"}}`,
			map[string]any{"backgroundImage": "url(bg.png)", "backgroundSize": "cover", "backgroundPosition": "center", "backgroundColor": "#f0f0f0"},
			nil,
		},
		{
			"opaque fill",
			`{"FillFormat": {"Type": "Solid", "Color": "#00ff00", "Transparency": 0.5}}`,
			map[string]any{"backgroundColor": "#00ff00"},
			nil,
		},
		{
			"border",
			`{"LineFormat": {"Color": "#000000", "Width": 1.5, "Style": "Dash"}}`,
			map[string]any{"borderColor": "#000000", "borderWidth": "1.999px", "borderStyle": "dash"},
			nil,
		},
		{
			"opaque border",
			`{"LineFormat": {"Color": "#111111", "Width": 3, "Style": 1, "Join": "Round"}}`,
			map[string]any{"borderColor": "#111111", "borderWidth": "3.999px", "borderStyle": "solid"},
			nil,
		},
		{
			"shadow",
			`{"ShadowFormat": {"Color": "rgba(0,0,0,0.5)"}}`,
			map[string]any{"boxShadow": "2px 2px 5px rgba(0,0,0,0.5)"},
			nil,
		},
		{
			"shadow default color",
			`{"ShadowFormat": {"Blur": 4}}`,
			map[string]any{"boxShadow": "2px 2px 5px rgba(0,0,0,0.3)"},
			nil,
		},
		{
			"circle",
			`{"SlideItemType": "AutoShape", "AutoShapeType": "Circle"}`,
			map[string]any{"borderRadius": "50%", "backgroundColor": "#f0f0f0"},
			nil,
		},
		{
			"oval keeps fill",
			`{"SlideItemType": "AutoShape", "AutoShapeType": "Oval", "FillFormat": {"Color": "#ff00ff"}}`,
			map[string]any{"borderRadius": "50%", "backgroundColor": "#ff00ff"},
			nil,
		},
		{
			"rounded rectangle",
			`{"SlideItemType": "AutoShape", "AutoShapeType": "RoundedRectangle"}`,
			map[string]any{"borderRadius": "10px", "backgroundColor": "#f0f0f0"},
			nil,
		},
		{
			"diamond",
			`{"SlideItemType": "AutoShape", "AutoShapeType": "Diamond"}`,
			map[string]any{"backgroundColor": "#f0f0f0"},
			[]string{"borderRadius"},
		},
		{
			"arrow keeps fill",
			`{"SlideItemType": "AutoShape", "AutoShapeType": "LeftArrow", "FillFormat": {"Color": "#000000"}}`,
			map[string]any{"backgroundColor": "#000000"},
			nil,
		},
		{
			"up arrow",
			`{"SlideItemType": "AutoShape", "AutoShapeType": "UpArrow"}`,
			map[string]any{"backgroundColor": "#2ecc71"},
			nil,
		},
		{
			"down arrow",
			`{"SlideItemType": "AutoShape", "AutoShapeType": "DownArrow"}`,
			map[string]any{"backgroundColor": "#9b59b6"},
			nil,
		},
		{
			"chart",
			`{"SlideItemType": "Chart"}`,
			map[string]any{"backgroundColor": "#f0f0f0"},
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderItem(parseItem(t, tt.in), Defaults{})
			for k, want := range tt.check {
				v, ok := got.Style.Get(k)
				if !ok {
					t.Errorf("%s is not set: %v", k, got.Style)
					continue
				}
				if diff := cmp.Diff(want, v); diff != "" {
					t.Errorf("%s: %s", k, diff)
				}
			}
			for _, k := range tt.none {
				if got.Style.Has(k) {
					t.Errorf("%s should not be set: %v", k, got.Style)
				}
			}
		})
	}
}

func TestRenderItemArrowGlyph(t *testing.T) {
	got := RenderItem(parseItem(t, `{"SlideItemType": "AutoShape", "AutoShapeType": "RightArrow", "ShapeId": 3}`), Defaults{})
	if got.ID != "shape_3" {
		t.Errorf("got %s", got.ID)
	}
	if v, _ := got.Style.String("backgroundColor"); v != "#e67e22" {
		t.Errorf("got background %s", v)
	}
	want := []*Line{{
		Kind: KindPlaceholderText,
		Style: Style{
			{Name: "display", Value: "flex"},
			{Name: "justifyContent", Value: "center"},
			{Name: "alignItems", Value: "center"},
			{Name: "height", Value: "100%"},
			{Name: "color", Value: "#ffffff"},
		},
		Text: "→",
	}}
	if diff := cmp.Diff(want, got.Lines); diff != "" {
		t.Error(diff)
	}
	if diff := cmp.Diff(Classes{"slide-shape", "shape-rightarrow"}, got.Classes); diff != "" {
		t.Error(diff)
	}
	wantData := Attrs{{Name: "data-shape-type", Value: "RightArrow"}, {Name: "data-slide-item-type", Value: "AutoShape"}}
	if diff := cmp.Diff(wantData, got.Data); diff != "" {
		t.Error(diff)
	}

	withText := RenderItem(parseItem(t, `{"SlideItemType": "AutoShape", "AutoShapeType": "RightArrow",
"TextBody": {"Paragraphs": [{"Text": "Next", "TextParts": [{"Text": "Next"}]}]}}`), Defaults{})
	if len(withText.Lines) != 1 || withText.Lines[0].PlainText() != "Next" {
		t.Errorf("unexpected lines: %v", withText.Lines)
	}
}

func TestRenderItemBullet(t *testing.T) {
	got := RenderItem(parseItem(t, `{"TextBody": {"Paragraphs": [{
"Text": "Hello World",
"ListFormat": {"Type": "Bulleted", "BulletCharacter": "•"},
"TextParts": [{"Text": "Hello"}, {"Text": " World"}]
}]}}`), Defaults{})
	if len(got.Lines) != 1 {
		t.Fatalf("got %d lines", len(got.Lines))
	}
	line := got.Lines[0]
	if got := line.PlainText(); got != "• Hello World" {
		t.Errorf("got %q", got)
	}
	if got := strings.Count(line.PlainText(), "•"); got != 1 {
		t.Errorf("bullet appears %d times", got)
	}
	if line.Spans[0].Text != "• Hello" || line.Spans[1].Text != " World" {
		t.Errorf("unexpected spans: %q %q", line.Spans[0].Text, line.Spans[1].Text)
	}
	wantSpan := Style{
		{Name: "color", Value: "#000000"},
		{Name: "fontFamily", Value: "Arial, Arial, sans-serif"},
		{Name: "fontSize", Value: "12px"},
	}
	if diff := cmp.Diff(wantSpan, line.Spans[0].Style); diff != "" {
		t.Error(diff)
	}
	if diff := cmp.Diff(Style{{Name: "textAlign", Value: "left"}}, line.Style); diff != "" {
		t.Error(diff)
	}
}

func TestRenderItemTitleBlue(t *testing.T) {
	got := RenderItem(parseItem(t, `{"SlideItemType": "AutoShape", "AutoShapeType": "Rectangle",
"TextBody": {"Paragraphs": [
  {"Text": "Title", "TextParts": [{"Text": "Title", "Font": {"Color": "#156082"}}]},
  {"Text": "Sub", "TextParts": [{"Text": "Sub", "Font": {"Color": "#ff0000"}}, {"Text": "more", "Font": {"Color": null}}]}
]}}`), Defaults{})
	if v, _ := got.Style.String("backgroundColor"); v != "#156082" {
		t.Errorf("got background %s", v)
	}
	for _, l := range got.Lines {
		for _, s := range l.Spans {
			if v, _ := s.Style.String("color"); v != "#FFFFFF" {
				t.Errorf("span %q color = %s", s.Text, v)
			}
		}
	}
}

func TestRenderItemTextColor(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want any
	}{
		{
			"light fill forces dark accent",
			`{"FillFormat": {"Color": "#FFFFFF"}, "TextBody": {"Paragraphs": [{"Text": "a", "TextParts": [{"Text": "a", "Font": {"Color": "#ff0000"}}]}]}}`,
			"#156082",
		},
		{
			"neutral shape default keeps own color",
			`{"SlideItemType": "AutoShape", "AutoShapeType": "Circle", "TextBody": {"Paragraphs": [{"Text": "a", "TextParts": [{"Text": "a", "Font": {"Color": "#ff0000"}}]}]}}`,
			"#ff0000",
		},
		{
			"polygon default keeps own color",
			`{"SlideItemType": "AutoShape", "AutoShapeType": "Hexagon", "TextBody": {"Paragraphs": [{"Text": "a", "TextParts": [{"Text": "a", "Font": {"Color": "#ff0000"}}]}]}}`,
			"#ff0000",
		},
		{
			"light fill on a circle forces dark accent",
			`{"SlideItemType": "AutoShape", "AutoShapeType": "Circle", "FillFormat": {"Color": "#f0f0f0"}, "TextBody": {"Paragraphs": [{"Text": "a", "TextParts": [{"Text": "a", "Font": {"Color": "#ff0000"}}]}]}}`,
			"#156082",
		},
		{
			"own color",
			`{"FillFormat": {"Color": "#000000"}, "TextBody": {"Paragraphs": [{"Text": "a", "TextParts": [{"Text": "a", "Font": {"Color": "#ff0000"}}]}]}}`,
			"#ff0000",
		},
		{
			"fallback background is applied after text",
			`{"TextBody": {"Paragraphs": [{"Text": "a", "TextParts": [{"Text": "a", "Font": {"Color": "#ff0000"}}]}]}}`,
			"#ff0000",
		},
		{
			"no color",
			`{"TextBody": {"Paragraphs": [{"Text": "a", "TextParts": [{"Text": "a", "Font": {"Color": null}}]}]}}`,
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderItem(parseItem(t, tt.in), Defaults{})
			v, _ := got.Lines[0].Spans[0].Style.Get("color")
			if diff := cmp.Diff(tt.want, v); diff != "" {
				t.Error(diff)
			}
		})
	}
}

func TestRenderItemFont(t *testing.T) {
	got := RenderItem(parseItem(t, `{"TextBody": {"Paragraphs": [{"Text": "a", "HorizontalAlignment": "Center", "TextParts": [
  {"Text": "a", "Font": {"Color": null, "FontName": "Aptos", "FontSize": 26, "Bold": true, "Italic": true}},
  {"Text": "b", "Font": {"Color": null, "FontName": null, "FontSize": null}}
]}]}}`), Defaults{})
	want := []*Span{
		{
			Style: Style{
				{Name: "fontFamily", Value: "Segoe UI, Roboto, Helvetica, Arial, sans-serif"},
				{Name: "fontSize", Value: "26px"},
				{Name: "fontWeight", Value: "bold"},
				{Name: "fontStyle", Value: "italic"},
			},
			Text: "a",
		},
		{Text: "b"},
	}
	if diff := cmp.Diff(want, got.Lines[0].Spans); diff != "" {
		t.Error(diff)
	}
	if v, _ := got.Lines[0].Style.String("textAlign"); v != "center" {
		t.Errorf("got textAlign %s", v)
	}
}

func TestRenderItemMalformedFont(t *testing.T) {
	got := RenderItem(parseItem(t, `{"ShapeId": 7, "SlideItemType": "AutoShape", "AutoShapeType": "Rectangle",
  "TextBody": {"Paragraphs": [{"Text": "hello", "TextParts": [{"Text": "hello", "Font": {"FontSize": "big", "Bold": true}}]}]}}`), Defaults{})
	if got.ID != "shape_7" {
		t.Errorf("got id %s", got.ID)
	}
	if len(got.Lines) != 1 || len(got.Lines[0].Spans) != 1 {
		t.Fatalf("unexpected lines: %#v", got.Lines)
	}
	span := got.Lines[0].Spans[0]
	if span.Text != "hello" {
		t.Errorf("got text %q", span.Text)
	}
	if span.Style.Has("fontSize") {
		t.Error("unexpected fontSize")
	}
	if v, _ := span.Style.String("fontWeight"); v != "bold" {
		t.Errorf("got fontWeight %q", v)
	}
}

func TestRenderItemParagraphs(t *testing.T) {
	got := RenderItem(parseItem(t, `{"TextBody": {"Paragraphs": [
  {"Text": "one", "IndentLevelNumber": 1, "TextParts": [{"Text": "one"}]},
  {"Text": "   ", "TextParts": [{"Text": "   "}]},
  {"Text": "two", "IndentLevelNumber": 2, "TextParts": [{"Text": "two"}]},
  {"Text": "three"}
]}}`), Defaults{})
	if len(got.Lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(got.Lines))
	}
	if v, _ := got.Lines[0].Style.String("marginLeft"); v != "20px" {
		t.Errorf("got %s", v)
	}
	if v, _ := got.Lines[1].Style.String("marginLeft"); v != "40px" {
		t.Errorf("got %s", v)
	}
	if got.Lines[2].Style.Has("marginLeft") {
		t.Error("unexpected marginLeft")
	}
	if got.Lines[2].PlainText() != "three" {
		t.Errorf("got %q", got.Lines[2].PlainText())
	}
	if diff := cmp.Diff(Classes{"slide-shape", "bullet-indent"}, got.Classes); diff != "" {
		t.Error(diff)
	}
}

func TestRenderItemChart(t *testing.T) {
	got := RenderItem(parseItem(t, `{"SlideItemType": "Chart", "ShapeId": 9,
"TextBody": {"Paragraphs": [{"Text": "ignored", "TextParts": [{"Text": "ignored"}]}]}}`), Defaults{})
	want := []*Line{{
		Kind:  KindPlaceholderText,
		Style: Style{{Name: "textAlign", Value: "center"}, {Name: "padding", Value: "20px"}},
		Text:  "Chart Placeholder",
	}}
	if diff := cmp.Diff(want, got.Lines); diff != "" {
		t.Error(diff)
	}
	if diff := cmp.Diff(Classes{"slide-shape", "shape-chart"}, got.Classes); diff != "" {
		t.Error(diff)
	}
}

func TestRenderItemPicture(t *testing.T) {
	b64 := dummyPNGBase64(t)
	tests := []struct {
		name      string
		in        string
		wantKind  ElementKind
		wantSrc   string
		wantPHash bool
		wantClass string
	}{
		{
			"inline image",
			`{"SlideItemType": "Picture", "ImageData": {"Base64": "` + b64 + `"}}`,
			KindImage,
			"data:image/png;base64," + b64,
			true,
			"shape-picture",
		},
		{
			"image path",
			`{"SlideItemType": "Picture", "ImageData": {"ImagePath": "images/logo.png"}}`,
			KindImage,
			"images/logo.png",
			false,
			"shape-picture",
		},
		{
			"autoshape picture",
			`{"SlideItemType": "AutoShape", "AutoShapeType": "Picture", "ImageData": "` + b64 + `"}`,
			KindImage,
			"data:image/png;base64," + b64,
			true,
			"shape-picture",
		},
		{
			"undecodable data",
			`{"SlideItemType": "Picture", "ImageData": {"Base64": "not base64!"}}`,
			KindImage,
			"data:image/png;base64,not base64!",
			false,
			"shape-picture",
		},
		{
			"no image data",
			`{"SlideItemType": "Picture"}`,
			KindContainer,
			"",
			false,
			"shape-picture",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderItem(parseItem(t, tt.in), Defaults{})
			if got.Kind != tt.wantKind {
				t.Errorf("got kind %s, want %s", got.Kind, tt.wantKind)
			}
			if got.Src != tt.wantSrc {
				t.Errorf("got src %s, want %s", got.Src, tt.wantSrc)
			}
			_, ok := got.Data.Get("data-image-phash")
			if ok != tt.wantPHash {
				t.Errorf("got phash %v, want %v", ok, tt.wantPHash)
			}
			if !got.Classes.Has(tt.wantClass) {
				t.Errorf("got classes %v", got.Classes)
			}
			if tt.wantKind == KindImage {
				if v, _ := got.Style.String("objectFit"); v != "cover" {
					t.Errorf("got objectFit %s", v)
				}
			}
			if !hasBackground(got.Style) {
				t.Error("background is not set")
			}
		})
	}
}

func TestRenderItemInert(t *testing.T) {
	items, err := schema.Parse([]byte(`[{"Info": "Circular reference detected: x"}, {"ShapeId": "x"}]`))
	if err != nil {
		t.Fatal(err)
	}
	for _, item := range items {
		if got := RenderItem(item, Defaults{}); got != nil {
			t.Errorf("got %v, want nil", got)
		}
	}
}

func TestRenderItemID(t *testing.T) {
	items, err := schema.Parse([]byte(`[{}, {}, {"ShapeId": 7}]`))
	if err != nil {
		t.Fatal(err)
	}
	a := RenderItem(items[0], Defaults{})
	b := RenderItem(items[1], Defaults{})
	if !strings.HasPrefix(a.ID, "shape_") || a.ID == b.ID {
		t.Errorf("unexpected ids: %s %s", a.ID, b.ID)
	}
	if again := RenderItem(items[0], Defaults{}); again.ID != a.ID {
		t.Errorf("id is not deterministic: %s %s", a.ID, again.ID)
	}
	if got := RenderItem(items[2], Defaults{}).ID; got != "shape_7" {
		t.Errorf("got %s", got)
	}
}

func TestRenderItemData(t *testing.T) {
	got := RenderItem(parseItem(t, `{"SlideItemType": "AutoShape", "Name": "Arrow 3", "Hidden": false, "Count": 2, "Meta": {"k": "v"}, "Tags": ["a"]}`), Defaults{})
	want := Attrs{
		{Name: "data-slide-item-type", Value: "AutoShape"},
		{Name: "data-name", Value: "Arrow 3"},
		{Name: "data-hidden", Value: "false"},
		{Name: "data-count", Value: "2"},
	}
	if diff := cmp.Diff(want, got.Data); diff != "" {
		t.Error(diff)
	}
}

func TestRenderItemDefaults(t *testing.T) {
	got := RenderItem(parseItem(t, `{}`), Defaults{Background: "#eeeeee"})
	if v, _ := got.Style.String("backgroundColor"); v != "#eeeeee" {
		t.Errorf("got %s", v)
	}
}

func TestStyleSet(t *testing.T) {
	var s Style
	s.Set("a", "1")
	s.Set("b", "2")
	s.Set("a", "3")
	want := Style{{Name: "a", Value: "3"}, {Name: "b", Value: "2"}}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Error(diff)
	}
	b, err := s.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if got := string(b); got != `{"a":"3","b":"2"}` {
		t.Errorf("got %s", got)
	}
}

func TestPx(t *testing.T) {
	tests := []struct {
		pt   float64
		want string
	}{
		{0, "0px"},
		{10, "13.333px"},
		{20, "26.666px"},
		{50, "66.666px"},
		{100, "133.333px"},
		{720, "959.997px"},
		{1.5, "1.999px"},
	}
	for _, tt := range tests {
		if got := px(tt.pt); got != tt.want {
			t.Errorf("px(%v) = %s, want %s", tt.pt, got, tt.want)
		}
	}
}

func parseItem(t *testing.T, in string) *schema.SlideItem {
	t.Helper()
	items, err := schema.Parse([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Inert() {
		t.Fatalf("unexpected inert item: %s", *items[0].Info)
	}
	return items[0]
}

func dummyPNGBase64(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}
