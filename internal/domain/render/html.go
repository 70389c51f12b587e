package render

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"certificate-service-go/internal/domain/certificate"
)

// Размер страницы сертификата в CSS-пикселях (A4 при 96 dpi)
const (
	pageLongSide  = 1123
	pageShortSide = 794
)

// PageSize размер страницы в CSS-пикселях для ориентации сертификата
func PageSize(o certificate.Orientation) (width, height int) {
	if o == certificate.OrientationVertical {
		return pageShortSide, pageLongSide
	}
	return pageLongSide, pageShortSide
}

var (
	dataImagePattern = regexp.MustCompile(`^data:image/(png|jpeg|jpg|gif|webp|svg\+xml);base64,[A-Za-z0-9+/=\s]+$`)
	assetNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	cssLengthPattern = regexp.MustCompile(`^\d+(\.\d+)?(px|em|rem|%)?$`)
	cssWordPattern   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)
)

// safeImageURL пропускает только base64 data URI картинок и имена прилагаемых файлов
func safeImageURL(src string) (string, bool) {
	src = strings.TrimSpace(src)
	if dataImagePattern.MatchString(src) || assetNamePattern.MatchString(src) {
		return src, true
	}
	return "", false
}

func safeColor(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	if certificate.IsAlphaHexColor(s) || cssWordPattern.MatchString(s) {
		return s, true
	}
	return "", false
}

type pageData struct {
	Lang        string
	Dir         string
	Theme       string
	Orientation string
	Width       int
	Height      int
	Scale       float64
	Vars        template.CSS
	SideImage   template.URL
	SideLeft    bool
	Body        template.HTML
}

var pageTemplate = template.Must(template.New("certificate").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}" dir="{{.Dir}}">
<head>
<meta charset="utf-8">
<style>
html, body { margin: 0; padding: 0; }
body { width: {{.Width}}px; height: {{.Height}}px; overflow: hidden; }
#certificate {
  {{.Vars}}
  box-sizing: border-box;
  width: {{.Width}}px;
  height: {{.Height}}px;
  transform: scale({{.Scale}});
  transform-origin: 0 0;
  background-color: var(--background-color, #e9e9e9);
  background-image: var(--background-image, none);
  background-size: cover;
  background-position: center;
  font-family: "Alexandria", "Segoe UI", Tahoma, sans-serif;
}
#certificate[data-theme="borderWithSideImage"], #certificate[data-theme="borderWithoutSideImage"] {
  border: 14px solid var(--border-color);
  outline: 6px solid var(--border-accent-color);
  outline-offset: -26px;
}
#certificate .content { display: flex; width: 100%; height: 100%; }
#certificate .side { order: var(--side-position, 0); flex: 0 0 28%; overflow: hidden; }
#certificate .side img { width: 100%; height: 100%; object-fit: cover; }
#certificate .data-form { flex: 1; padding: 48px; overflow: hidden; }
.ql-align-center { text-align: center; }
.ql-align-right { text-align: right; }
.ql-align-justify { text-align: justify; }
.ql-direction-rtl { direction: rtl; }
.data-form p, .data-form h1, .data-form h2, .data-form h3 { margin: 0 0 .4em; }
</style>
</head>
<body>
<div id="certificate" data-theme="{{.Theme}}" data-orientation="{{.Orientation}}">
  <div class="content">
    {{- if .SideImage}}
    <div class="side"><img src="{{.SideImage}}" alt=""></div>
    {{- end}}
    <div class="data-form">{{.Body}}</div>
  </div>
</div>
</body>
</html>
`))

// themeVars CSS-переменные оформления. Цвет, не прошедший safeColor, пропускается.
func themeVars(t certificate.Theme) string {
	var vars []string
	color := func(name, value string) {
		if c, ok := safeColor(value); ok {
			vars = append(vars, name+": "+c+";")
		}
	}
	if t.Name.HasBorder() {
		color("--border-color", t.BorderColor)
		color("--border-accent-color", t.BorderAccentColor)
	}
	if t.Name.HasSideImage() {
		pos := "1"
		if t.SideImagePosition == certificate.SideImageLeft {
			pos = "0"
		}
		vars = append(vars, "--side-position: "+pos+";")
	}
	if t.Name.HasBackgroundColor() {
		color("--background-color", t.BackgroundColor)
	}
	if t.Name.HasBackgroundImage() {
		if src, ok := safeImageURL(t.BackgroundImage); ok {
			vars = append(vars, `--background-image: url("`+src+`");`)
		}
	}
	return strings.Join(vars, "\n  ")
}

// BuildPage собирает HTML-страницу сертификата. scale увеличивает
// страницу целиком, итоговый размер растра width*scale x height*scale.
func BuildPage(doc certificate.Document, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	theme := certificate.Normalize(doc.Theme)
	if err := certificate.ValidateTheme(theme); err != nil {
		return nil, err
	}
	w, h := PageSize(doc.Settings.Orientation)

	data := pageData{
		Lang:        strings.ToLower(string(doc.Settings.Language)),
		Dir:         doc.Settings.Language.Direction(),
		Theme:       string(theme.Name),
		Orientation: string(doc.Settings.Orientation),
		Width:       w,
		Height:      h,
		Scale:       scale,
		Vars:        template.CSS(themeVars(theme)),
		Body:        template.HTML(ContentHTML(doc.Content)),
	}
	if theme.Name.HasSideImage() {
		if src, ok := safeImageURL(theme.SideImage); ok {
			data.SideImage = template.URL(src)
		}
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render certificate page: %w", err)
	}
	return buf.Bytes(), nil
}

// ContentHTML переводит операции документа в HTML.
// Атрибуты строки (align, direction, header) берутся из операции с переводом строки.
func ContentHTML(content certificate.Content) string {
	var out strings.Builder
	var line strings.Builder

	flush := func(attrs map[string]any) {
		writeLine(&out, line.String(), attrs)
		line.Reset()
	}

	for _, op := range content.Ops {
		if op.Insert.IsEmbed() {
			line.WriteString(embedHTML(op.Insert, op.Attributes))
			continue
		}
		parts := strings.Split(op.Insert.Text, "\n")
		for i, part := range parts {
			if part != "" {
				line.WriteString(inlineHTML(part, op.Attributes))
			}
			if i < len(parts)-1 {
				flush(op.Attributes)
			}
		}
	}
	if line.Len() > 0 {
		flush(nil)
	}
	return out.String()
}

func writeLine(out *strings.Builder, inner string, attrs map[string]any) {
	tag := "p"
	if h, ok := attrs["header"].(float64); ok && h >= 1 && h <= 6 {
		tag = "h" + strconv.Itoa(int(h))
	}

	var classes []string
	if align, ok := attrs["align"].(string); ok && cssWordPattern.MatchString(align) {
		classes = append(classes, "ql-align-"+align)
	}
	if dir, ok := attrs["direction"].(string); ok && dir == "rtl" {
		classes = append(classes, "ql-direction-rtl")
	}
	if font, ok := attrs["font"].(string); ok && cssWordPattern.MatchString(font) {
		classes = append(classes, "ql-font-"+font)
	}

	out.WriteString("<" + tag)
	if len(classes) > 0 {
		out.WriteString(` class="` + strings.Join(classes, " ") + `"`)
	}
	out.WriteString(">")
	if inner == "" {
		inner = "<br>"
	}
	out.WriteString(inner)
	out.WriteString("</" + tag + ">")
}

func inlineHTML(text string, attrs map[string]any) string {
	s := html.EscapeString(text)

	var styles []string
	if c, ok := safeColor(attrs["color"]); ok {
		styles = append(styles, "color: "+c)
	}
	if c, ok := safeColor(attrs["background"]); ok {
		styles = append(styles, "background-color: "+c)
	}
	if size, ok := attrs["size"].(string); ok && cssLengthPattern.MatchString(size) {
		styles = append(styles, "font-size: "+size)
	}
	if weight, ok := attrs["weight"].(string); ok && (cssWordPattern.MatchString(weight) || cssLengthPattern.MatchString(weight)) {
		styles = append(styles, "font-weight: "+weight)
	}
	if font, ok := attrs["font"].(string); ok && cssWordPattern.MatchString(font) {
		styles = append(styles, "font-family: "+font)
	}
	if len(styles) > 0 {
		sort.Strings(styles)
		s = `<span style="` + strings.Join(styles, "; ") + `">` + s + "</span>"
	}

	if isTrue(attrs["underline"]) {
		s = "<u>" + s + "</u>"
	}
	if isTrue(attrs["italic"]) {
		s = "<em>" + s + "</em>"
	}
	if isTrue(attrs["bold"]) {
		s = "<strong>" + s + "</strong>"
	}
	return s
}

func embedHTML(ins certificate.Insert, attrs map[string]any) string {
	src, ok := ins.Image()
	if !ok {
		return ""
	}
	src, ok = safeImageURL(src)
	if !ok {
		return ""
	}
	img := `<img src="` + html.EscapeString(src) + `" alt=""`
	if h, ok := attrs["height"].(string); ok && cssLengthPattern.MatchString(h) {
		img += ` style="height: ` + h + `"`
	}
	return img + ">"
}

func isTrue(v any) bool {
	b, ok := v.(bool)
	return ok && b
}
