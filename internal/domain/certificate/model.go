package certificate

import (
	"fmt"
	"strings"
)

// Language язык сертификата
type Language string

const (
	LanguageEN Language = "EN"
	LanguageAR Language = "AR"
)

// Direction возвращает направление письма для языка
func (l Language) Direction() string {
	if l == LanguageAR {
		return "rtl"
	}
	return "ltr"
}

// Orientation ориентация страницы сертификата
type Orientation string

const (
	OrientationHorizontal Orientation = "horizontal"
	OrientationVertical   Orientation = "vertical"
)

// Valid проверяет, что ориентация известна
func (o Orientation) Valid() bool {
	return o == OrientationHorizontal || o == OrientationVertical
}

// Settings общие настройки сертификата
type Settings struct {
	Type        string      `json:"TYPE"`
	Language    Language    `json:"LANGUAGE"`
	Orientation Orientation `json:"ORIENTATION"`
}

// ThemeName вариант оформления сертификата
type ThemeName string

const (
	ThemeBorderWithSideImage    ThemeName = "borderWithSideImage"
	ThemeBorderWithoutSideImage ThemeName = "borderWithoutSideImage"
	ThemeWithSideImage          ThemeName = "withSideImage"
	ThemeWithoutSideImage       ThemeName = "withoutSideImage"
	ThemeWithBackgroundImage    ThemeName = "withBackgroundImage"
)

// themeTraits набор возможностей варианта оформления
type themeTraits struct {
	border          bool
	sideImage       bool
	backgroundImage bool
	backgroundColor bool
}

// Новый вариант оформления добавляется одной строкой сюда
var themeTable = map[ThemeName]themeTraits{
	ThemeBorderWithSideImage:    {border: true, sideImage: true, backgroundColor: true},
	ThemeBorderWithoutSideImage: {border: true, backgroundColor: true},
	ThemeWithSideImage:          {sideImage: true, backgroundColor: true},
	ThemeWithoutSideImage:       {backgroundColor: true},
	ThemeWithBackgroundImage:    {backgroundImage: true},
}

// ThemeNames возвращает все известные варианты в стабильном порядке
func ThemeNames() []ThemeName {
	return []ThemeName{
		ThemeBorderWithSideImage,
		ThemeBorderWithoutSideImage,
		ThemeWithSideImage,
		ThemeWithoutSideImage,
		ThemeWithBackgroundImage,
	}
}

func (n ThemeName) Valid() bool {
	_, ok := themeTable[n]
	return ok
}

func (n ThemeName) HasBorder() bool          { return themeTable[n].border }
func (n ThemeName) HasSideImage() bool       { return themeTable[n].sideImage }
func (n ThemeName) HasBackgroundImage() bool { return themeTable[n].backgroundImage }
func (n ThemeName) HasBackgroundColor() bool { return themeTable[n].backgroundColor }

// SideImagePosition сторона боковой картинки
type SideImagePosition string

const (
	SideImageLeft  SideImagePosition = "left"
	SideImageRight SideImagePosition = "right"
)

// ParseSideImagePosition разбирает значение позиции из формы.
// Форма присылает "0" для левой стороны и "1" для правой.
func ParseSideImagePosition(value string) (SideImagePosition, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "0", "left":
		return SideImageLeft, nil
	case "1", "right":
		return SideImageRight, nil
	case "":
		return "", nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSideImagePosition, value)
}

// Theme визуальное оформление сертификата.
// Картинки хранятся как base64 data URI.
type Theme struct {
	Name              ThemeName         `json:"NAME"`
	BackgroundColor   string            `json:"BACKGROUND_COLOR"`
	BorderColor       string            `json:"BORDER_COLOR"`
	BorderAccentColor string            `json:"BORDER_ACCENT_COLOR"`
	SideImagePosition SideImagePosition `json:"SIDE_IMAGE_POSITION"`
	SideImage         string            `json:"SIDE_IMAGE"`
	BackgroundImage   string            `json:"BACKGROUND_IMAGE"`
}

// Document единица экспорта и импорта шаблона
type Document struct {
	Settings Settings
	Theme    Theme
	Content  Content
}
