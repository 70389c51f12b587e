package certificate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// Insert полезная нагрузка операции: текст либо встроенный объект
// вида {"image": "<src>"}
type Insert struct {
	Text  string
	Embed map[string]any
}

// TextInsert создает текстовую вставку
func TextInsert(text string) Insert {
	return Insert{Text: text}
}

// ImageInsert создает вставку картинки
func ImageInsert(src string) Insert {
	return Insert{Embed: map[string]any{"image": src}}
}

func (i Insert) IsEmbed() bool {
	return i.Embed != nil
}

// Image возвращает адрес картинки, если вставка является картинкой
func (i Insert) Image() (string, bool) {
	if i.Embed == nil {
		return "", false
	}
	src, ok := i.Embed["image"].(string)
	return src, ok
}

// Len длина вставки в символах; встроенный объект занимает один символ
func (i Insert) Len() int {
	if i.IsEmbed() {
		return 1
	}
	return utf8.RuneCountInString(i.Text)
}

func (i Insert) MarshalJSON() ([]byte, error) {
	if i.Embed != nil {
		return json.Marshal(i.Embed)
	}
	return json.Marshal(i.Text)
}

func (i *Insert) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("empty insert")
	}
	switch data[0] {
	case '"':
		*i = Insert{}
		return json.Unmarshal(data, &i.Text)
	case '{':
		embed := map[string]any{}
		if err := json.Unmarshal(data, &embed); err != nil {
			return err
		}
		*i = Insert{Embed: embed}
		return nil
	}
	return fmt.Errorf("insert must be a string or an object, got %s", string(data))
}

// Op операция документа
type Op struct {
	Insert     Insert         `json:"insert"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

func (o *Op) UnmarshalJSON(data []byte) error {
	var raw struct {
		Insert     *json.RawMessage `json:"insert"`
		Attributes map[string]any   `json:"attributes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Insert == nil {
		return errors.New("operation has no insert")
	}
	var ins Insert
	if err := ins.UnmarshalJSON(*raw.Insert); err != nil {
		return err
	}
	o.Insert = ins
	o.Attributes = raw.Attributes
	if len(o.Attributes) == 0 {
		o.Attributes = nil
	}
	return nil
}

// Content документ с форматированным текстом сертификата
type Content struct {
	Ops []Op `json:"ops"`
}

func (c Content) MarshalJSON() ([]byte, error) {
	ops := c.Ops
	if ops == nil {
		ops = []Op{}
	}
	return json.Marshal(struct {
		Ops []Op `json:"ops"`
	}{Ops: ops})
}

// UnmarshalJSON принимает и объект {"ops": [...]}, и голый массив операций
func (c *Content) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var ops []Op
	switch {
	case len(data) > 0 && data[0] == '[':
		if err := json.Unmarshal(data, &ops); err != nil {
			return err
		}
	case len(data) > 0 && data[0] == '{':
		var wrapper struct {
			Ops *[]Op `json:"ops"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return err
		}
		if wrapper.Ops == nil {
			return errors.New("content has no ops")
		}
		ops = *wrapper.Ops
	default:
		return errors.New("content must be an object with ops or an array")
	}
	if len(ops) == 0 {
		ops = nil
	}
	c.Ops = ops
	return nil
}

// Length общая длина документа в символах
func (c Content) Length() int {
	n := 0
	for _, op := range c.Ops {
		n += op.Insert.Len()
	}
	return n
}

// PlainText текст документа без форматирования, картинки опускаются
func (c Content) PlainText() string {
	var buf bytes.Buffer
	for _, op := range c.Ops {
		if !op.Insert.IsEmbed() {
			buf.WriteString(op.Insert.Text)
		}
	}
	return buf.String()
}

// Clone глубокая копия документа
func (c Content) Clone() Content {
	if c.Ops == nil {
		return Content{}
	}
	ops := make([]Op, len(c.Ops))
	for i, op := range c.Ops {
		ops[i] = Op{
			Insert: Insert{Text: op.Insert.Text},
		}
		if op.Insert.Embed != nil {
			ops[i].Insert.Embed = cloneValue(op.Insert.Embed).(map[string]any)
		}
		if op.Attributes != nil {
			ops[i].Attributes = cloneValue(op.Attributes).(map[string]any)
		}
	}
	return Content{Ops: ops}
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}
