package certificate

import (
	"bytes"
	"encoding/json"
	"errors"
)

const (
	keySettings = "settings"
	keyTheme    = "theme"
	keyContent  = "content"
)

// wireDocument форма файла шаблона: content хранится строкой с JSON внутри
type wireDocument struct {
	Settings Settings `json:"settings"`
	Theme    Theme    `json:"theme"`
	Content  string   `json:"content"`
}

// Encode собирает документ из текущего состояния, тема нормализуется
func Encode(settings Settings, theme Theme, content Content) Document {
	return Document{
		Settings: settings,
		Theme:    Normalize(theme),
		Content:  content.Clone(),
	}
}

// Marshal сериализует документ в файл шаблона
func Marshal(doc Document) ([]byte, error) {
	content, err := json.Marshal(doc.Content)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(wireDocument{
		Settings: doc.Settings,
		Theme:    doc.Theme,
		Content:  string(content),
	}, "", "  ")
}

// Decode разбирает файл шаблона и нормализует тему
func Decode(raw []byte) (Document, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Document{}, &DecodeError{Kind: ErrMalformedDocument, Err: err}
	}
	if fields == nil {
		return Document{}, &DecodeError{Kind: ErrMalformedDocument, Err: errors.New("document is null")}
	}

	for _, key := range []string{keySettings, keyTheme, keyContent} {
		value, ok := fields[key]
		if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			return Document{}, &DecodeError{Kind: ErrMissingKey, Key: key}
		}
	}

	var doc Document
	if err := json.Unmarshal(fields[keySettings], &doc.Settings); err != nil {
		return Document{}, &DecodeError{Kind: ErrMalformedDocument, Key: keySettings, Err: err}
	}
	if err := json.Unmarshal(fields[keyTheme], &doc.Theme); err != nil {
		return Document{}, &DecodeError{Kind: ErrMalformedDocument, Key: keyTheme, Err: err}
	}

	var encoded string
	if err := json.Unmarshal(fields[keyContent], &encoded); err != nil {
		return Document{}, &DecodeError{Kind: ErrMalformedContent, Key: keyContent, Err: err}
	}
	if err := json.Unmarshal([]byte(encoded), &doc.Content); err != nil {
		return Document{}, &DecodeError{Kind: ErrMalformedContent, Key: keyContent, Err: err}
	}

	doc.Theme = Normalize(doc.Theme)
	return doc, nil
}

// DecodeContent разбирает только содержимое, строкой или объектом
func DecodeContent(raw []byte) (Content, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return Content{}, &DecodeError{Kind: ErrMalformedContent, Err: err}
		}
		raw = []byte(encoded)
	}
	var c Content
	if err := json.Unmarshal(raw, &c); err != nil {
		return Content{}, &DecodeError{Kind: ErrMalformedContent, Err: err}
	}
	return c, nil
}
