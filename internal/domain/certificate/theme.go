package certificate

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

const (
	// DefaultBackgroundColor фон для тем без рамки, если цвет не выбран
	DefaultBackgroundColor = "#e9e9e9"
	// AccentOpacity прозрачность акцентного цвета рамки, в процентах
	AccentOpacity = 60
)

var (
	hexColorPattern   = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)
	alphaColorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{8}|[A-Fa-f0-9]{6}|[A-Fa-f0-9]{4}|[A-Fa-f0-9]{3})$`)
)

// IsHexColor проверяет формат #rgb или #rrggbb
func IsHexColor(value string) bool {
	return hexColorPattern.MatchString(value)
}

// IsAlphaHexColor как IsHexColor, но допускает альфа-канал: #rgba, #rrggbbaa
func IsAlphaHexColor(value string) bool {
	return alphaColorPattern.MatchString(value)
}

// HexWithOpacity дописывает к цвету альфа-канал.
// Короткая форма #rgb сначала разворачивается в #rrggbb.
func HexWithOpacity(color string, percent int) string {
	hex := strings.TrimPrefix(strings.TrimSpace(color), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	alpha := int(math.Round(float64(percent) / 100 * 255))
	return fmt.Sprintf("#%s%02x", hex, alpha)
}

// Normalize очищает поля, не относящиеся к выбранной теме, и
// подставляет значения по умолчанию. Неизвестные темы не трогает.
func Normalize(t Theme) Theme {
	if !t.Name.Valid() {
		return t
	}

	out := Theme{Name: t.Name}
	if t.Name.HasBackgroundColor() {
		out.BackgroundColor = t.BackgroundColor
		if out.BackgroundColor == "" && !t.Name.HasBorder() {
			out.BackgroundColor = DefaultBackgroundColor
		}
	}
	if t.Name.HasBorder() {
		out.BorderColor = t.BorderColor
		out.BorderAccentColor = t.BorderAccentColor
		if out.BorderAccentColor == "" && out.BorderColor != "" {
			out.BorderAccentColor = HexWithOpacity(out.BorderColor, AccentOpacity)
		}
	}
	if t.Name.HasSideImage() {
		out.SideImage = t.SideImage
		out.SideImagePosition = t.SideImagePosition
	}
	if t.Name.HasBackgroundImage() {
		out.BackgroundImage = t.BackgroundImage
	}
	return out
}

// ValidateTheme проверяет, что тема пригодна для экспорта
func ValidateTheme(t Theme) error {
	if !t.Name.Valid() {
		return &ValidationError{Kind: ErrUnknownTheme, Field: "NAME", Value: string(t.Name)}
	}
	if t.Name.HasSideImage() && t.SideImage == "" {
		return &ValidationError{Kind: ErrRequiredImageMissing, Field: "SIDE_IMAGE"}
	}
	if t.Name.HasBackgroundImage() && t.BackgroundImage == "" {
		return &ValidationError{Kind: ErrRequiredImageMissing, Field: "BACKGROUND_IMAGE"}
	}

	colors := []struct {
		field string
		value string
		used  bool
		valid func(string) bool
	}{
		{"BACKGROUND_COLOR", t.BackgroundColor, t.Name.HasBackgroundColor(), IsHexColor},
		{"BORDER_COLOR", t.BorderColor, t.Name.HasBorder(), IsHexColor},
		{"BORDER_ACCENT_COLOR", t.BorderAccentColor, t.Name.HasBorder(), IsAlphaHexColor},
	}
	for _, c := range colors {
		if c.used && c.value != "" && !c.valid(c.value) {
			return &ValidationError{Kind: ErrInvalidColor, Field: c.field, Value: c.value}
		}
	}
	return nil
}
