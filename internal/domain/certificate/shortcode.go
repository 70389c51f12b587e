package certificate

import (
	"regexp"
	"strings"
)

// Идентификаторы плейсхолдеров, которые понимает генератор
const (
	PlaceholderName     = "certificate-name"
	PlaceholderSubject  = "certificate-subject"
	PlaceholderDate     = "certificate-date"
	PlaceholderDuration = "certificate-duration"
	PlaceholderID       = "certificate-id"
)

// Shortcode кнопка вставки плейсхолдера в редакторе
type Shortcode struct {
	Code  string `json:"code" yaml:"code"`
	Label string `json:"label" yaml:"label"`
}

// Token литерал плейсхолдера в тексте
func (s Shortcode) Token() string {
	return "[" + s.Code + "]"
}

// Shortcodes фиксированный словарь плейсхолдеров
var Shortcodes = []Shortcode{
	{Code: PlaceholderName, Label: "Name"},
	{Code: PlaceholderSubject, Label: "Subject"},
	{Code: PlaceholderDate, Label: "Date"},
	{Code: PlaceholderDuration, Label: "Duration"},
	{Code: PlaceholderID, Label: "ID"},
}

// IsKnownPlaceholder проверяет идентификатор по словарю
func IsKnownPlaceholder(code string) bool {
	for _, s := range Shortcodes {
		if s.Code == code {
			return true
		}
	}
	return false
}

// PlaceholderData значения для подстановки
type PlaceholderData map[string]string

// StudentRecord запись о студенте в том виде, в котором ее отдает источник данных
type StudentRecord struct {
	Name     string `json:"NAME" yaml:"NAME"`
	Subject  string `json:"SUBJECT" yaml:"SUBJECT"`
	Date     string `json:"DATE" yaml:"DATE"`
	Duration string `json:"DURATION" yaml:"DURATION"`
	ID       string `json:"ID" yaml:"ID"`
}

// Placeholders переводит запись в набор значений для подстановки
func (r StudentRecord) Placeholders() PlaceholderData {
	return PlaceholderData{
		PlaceholderName:     r.Name,
		PlaceholderSubject:  r.Subject,
		PlaceholderDate:     r.Date,
		PlaceholderDuration: r.Duration,
		PlaceholderID:       r.ID,
	}
}

// Токен от '[' до ближайшей ']'. Для "[[code]" ключом будет "[code", такой текст не меняется.
var placeholderPattern = regexp.MustCompile(`\[([^\]]+)\]`)

// SubstituteInString заменяет [identifier] за один проход.
// Неизвестные плейсхолдеры остаются как есть.
func SubstituteInString(text string, data PlaceholderData) string {
	if len(data) == 0 || !strings.Contains(text, "[") {
		return text
	}
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		if value, ok := data[match[1:len(match)-1]]; ok {
			return value
		}
		return match
	})
}

// Substitute возвращает копию документа, в которой подставлены значения
// во все строки: текст, встроенные объекты и атрибуты
func Substitute(content Content, data PlaceholderData) Content {
	out := content.Clone()
	for i := range out.Ops {
		op := &out.Ops[i]
		if op.Insert.Embed != nil {
			op.Insert.Embed = substituteValue(op.Insert.Embed, data).(map[string]any)
		} else {
			op.Insert.Text = SubstituteInString(op.Insert.Text, data)
		}
		if op.Attributes != nil {
			op.Attributes = substituteValue(op.Attributes, data).(map[string]any)
		}
	}
	return out
}

// UnresolvedPlaceholders известные плейсхолдеры, оставшиеся в тексте,
// без повторов, в порядке первого появления
func UnresolvedPlaceholders(content Content) []string {
	var out []string
	seen := make(map[string]bool)
	for _, op := range content.Ops {
		if op.Insert.IsEmbed() {
			continue
		}
		for _, m := range placeholderPattern.FindAllStringSubmatch(op.Insert.Text, -1) {
			if code := m[1]; IsKnownPlaceholder(code) && !seen[code] {
				seen[code] = true
				out = append(out, code)
			}
		}
	}
	return out
}

// substituteValue работает по месту: вызывается только на копии
func substituteValue(v any, data PlaceholderData) any {
	switch val := v.(type) {
	case string:
		return SubstituteInString(val, data)
	case map[string]any:
		for k, item := range val {
			val[k] = substituteValue(item, data)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = substituteValue(item, data)
		}
		return val
	default:
		return val
	}
}

// InsertPlaceholder вставляет литерал [identifier] в позицию курсора.
// Позиция считается в символах, картинка занимает один символ;
// значения вне документа прижимаются к его границам.
func InsertPlaceholder(content Content, position int, identifier string) Content {
	token := "[" + identifier + "]"
	out := content.Clone()

	if position < 0 {
		position = 0
	}
	if total := out.Length(); position > total {
		position = total
	}

	offset := 0
	for i := range out.Ops {
		op := &out.Ops[i]
		n := op.Insert.Len()
		if !op.Insert.IsEmbed() && position <= offset+n {
			op.Insert.Text = insertAtRune(op.Insert.Text, position-offset, token)
			return out
		}
		if op.Insert.IsEmbed() && position == offset {
			// перед картинкой без предшествующего текста
			return insertOp(out, i, Op{Insert: TextInsert(token)})
		}
		offset += n
	}

	// конец документа после картинки или пустой документ
	if last := len(out.Ops) - 1; last >= 0 && !out.Ops[last].Insert.IsEmbed() {
		out.Ops[last].Insert.Text += token
		return out
	}
	return insertOp(out, len(out.Ops), Op{Insert: TextInsert(token)})
}

func insertAtRune(text string, pos int, token string) string {
	if pos <= 0 {
		return token + text
	}
	i := 0
	for byteIdx := range text {
		if i == pos {
			return text[:byteIdx] + token + text[byteIdx:]
		}
		i++
	}
	return text + token
}

func insertOp(c Content, at int, op Op) Content {
	ops := make([]Op, 0, len(c.Ops)+1)
	ops = append(ops, c.Ops[:at]...)
	ops = append(ops, op)
	ops = append(ops, c.Ops[at:]...)
	return Content{Ops: ops}
}
