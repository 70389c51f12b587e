package certificate

import (
	"fmt"
	"sync"

	"dario.cat/mergo"
)

// Form значения, которые пользователь выбрал в форме настроек
type Form struct {
	Settings          Settings  `json:"settings"`
	Theme             ThemeName `json:"theme"`
	BackgroundColor   string    `json:"backgroundColor"`
	BorderColor       string    `json:"borderColor"`
	SideImagePosition string    `json:"sideImagePosition"`
	SideImage         string    `json:"sideImage"`
	BackgroundImage   string    `json:"backgroundImage"`
	Content           *Content  `json:"content,omitempty"`
}

// BuildTheme собирает тему из формы без нормализации
func (f Form) BuildTheme() (Theme, error) {
	position, err := ParseSideImagePosition(f.SideImagePosition)
	if err != nil {
		return Theme{}, &ValidationError{Kind: ErrInvalidSideImagePosition, Field: "SIDE_IMAGE_POSITION", Value: f.SideImagePosition}
	}
	return Theme{
		Name:              f.Theme,
		BackgroundColor:   f.BackgroundColor,
		BorderColor:       f.BorderColor,
		SideImagePosition: position,
		SideImage:         f.SideImage,
		BackgroundImage:   f.BackgroundImage,
	}, nil
}

// SessionState состояние редактора одного пользователя
type SessionState struct {
	mu       sync.RWMutex
	settings Settings
	theme    Theme
	content  Content
}

// NewSessionState создает состояние с документом по умолчанию
func NewSessionState() *SessionState {
	doc := DefaultDocument()
	return &SessionState{
		settings: doc.Settings,
		theme:    doc.Theme,
		content:  doc.Content,
	}
}

// ApplyForm проверяет форму и только потом заменяет тему целиком,
// поэтому при ошибке состояние не меняется
func (s *SessionState) ApplyForm(f Form) error {
	theme, err := f.BuildTheme()
	if err != nil {
		return err
	}
	if err := ValidateTheme(theme); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = f.Settings
	s.theme = Normalize(theme)
	if f.Content != nil {
		s.content = f.Content.Clone()
	}
	return nil
}

// ApplyTemplate загружает импортированный шаблон: непустые значения
// шаблона заменяют текущие, пустые оставляют текущие как есть
func (s *SessionState) ApplyTemplate(doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := Document{Settings: s.settings, Theme: s.theme, Content: s.content}
	incoming := Document{Settings: doc.Settings, Theme: doc.Theme, Content: doc.Content.Clone()}
	if err := mergo.Merge(&current, incoming, mergo.WithOverride); err != nil {
		return fmt.Errorf("failed to merge template: %w", err)
	}

	s.settings = current.Settings
	s.theme = Normalize(current.Theme)
	s.content = current.Content
	return nil
}

// SetContent заменяет содержимое редактора
func (s *SessionState) SetContent(c Content) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content = c.Clone()
}

// InsertPlaceholder вставляет плейсхолдер в позицию курсора и
// возвращает новую позицию курсора сразу после него
func (s *SessionState) InsertPlaceholder(position int, identifier string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if position < 0 {
		position = 0
	}
	if total := s.content.Length(); position > total {
		position = total
	}
	s.content = InsertPlaceholder(s.content, position, identifier)
	return position + len([]rune("["+identifier+"]"))
}

// Document снимок состояния для экспорта
func (s *SessionState) Document() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Encode(s.settings, s.theme, s.content)
}
