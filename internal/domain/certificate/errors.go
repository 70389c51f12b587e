package certificate

import (
	"errors"
	"fmt"
)

var (
	// ErrRequiredImageMissing тема требует картинку, а она не задана
	ErrRequiredImageMissing = errors.New("required image missing")
	// ErrUnknownTheme имя темы не входит в список вариантов
	ErrUnknownTheme = errors.New("unknown theme")
	// ErrInvalidColor цвет не является hex-значением
	ErrInvalidColor = errors.New("invalid color")
	// ErrInvalidSideImagePosition позиция боковой картинки не left/right
	ErrInvalidSideImagePosition = errors.New("invalid side image position")

	// ErrMissingKey в файле шаблона нет одного из ключей settings, theme, content
	ErrMissingKey = errors.New("missing key")
	// ErrMalformedContent содержимое не является строкой с последовательностью операций
	ErrMalformedContent = errors.New("malformed content")
	// ErrMalformedDocument файл шаблона не является JSON-объектом нужной формы
	ErrMalformedDocument = errors.New("malformed document")
)

// ValidationError ошибка проверки темы
type ValidationError struct {
	Kind  error
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("theme validation failed: %v", e.Kind)
	}
	if e.Value == "" {
		return fmt.Sprintf("theme validation failed: %v: %s", e.Kind, e.Field)
	}
	return fmt.Sprintf("theme validation failed: %v: %s=%q", e.Kind, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// Validation помечает ошибку как не подлежащую повтору
func (e *ValidationError) Validation() bool {
	return true
}

// DecodeError ошибка разбора файла шаблона
type DecodeError struct {
	Kind error
	Key  string
	Err  error
}

func (e *DecodeError) Error() string {
	msg := e.Kind.Error()
	if e.Key != "" {
		msg += " " + e.Key
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return "decode template: " + msg
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func (e *DecodeError) Validation() bool {
	return true
}
