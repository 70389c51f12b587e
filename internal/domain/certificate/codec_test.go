package certificate

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSettings() Settings {
	return Settings{Type: "completion", Language: LanguageEN, Orientation: OrientationVertical}
}

func TestCodec_RoundTrip(t *testing.T) {
	content := Content{Ops: []Op{
		{Insert: ImageInsert("logo.png"), Attributes: map[string]any{"align": "center", "height": "64px"}},
		{Insert: TextInsert("Hello [certificate-name]\n"), Attributes: map[string]any{"header": float64(2), "bold": true}},
		{Insert: TextInsert("plain\n")},
	}}

	for _, name := range ThemeNames() {
		t.Run(string(name), func(t *testing.T) {
			theme := Normalize(fullTheme(name))

			raw, err := Marshal(Encode(sampleSettings(), theme, content))
			require.NoError(t, err)

			doc, err := Decode(raw)
			require.NoError(t, err)
			assert.Equal(t, sampleSettings(), doc.Settings)
			assert.Equal(t, theme, doc.Theme)
			assert.Equal(t, content, doc.Content)
		})
	}
}

func TestCodec_RoundTripDefaultDocument(t *testing.T) {
	doc := DefaultDocument()
	raw, err := Marshal(doc)
	require.NoError(t, err)

	decoded, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, doc, decoded)
}

func TestMarshal_WireFormat(t *testing.T) {
	doc := Encode(sampleSettings(), Theme{Name: ThemeWithoutSideImage}, Content{Ops: []Op{{Insert: TextInsert("x\n")}}})
	raw, err := Marshal(doc)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Len(t, fields, 3)
	assert.Contains(t, fields, "settings")
	assert.Contains(t, fields, "theme")
	assert.Contains(t, fields, "content")

	var content string
	require.NoError(t, json.Unmarshal(fields["content"], &content))
	assert.JSONEq(t, `{"ops":[{"insert":"x\n"}]}`, content)

	assert.JSONEq(t, `{"TYPE":"completion","LANGUAGE":"EN","ORIENTATION":"vertical"}`, string(fields["settings"]))
	assert.JSONEq(t, `{
		"NAME":"withoutSideImage",
		"BACKGROUND_COLOR":"#e9e9e9",
		"BORDER_COLOR":"",
		"BORDER_ACCENT_COLOR":"",
		"SIDE_IMAGE_POSITION":"",
		"SIDE_IMAGE":"",
		"BACKGROUND_IMAGE":""
	}`, string(fields["theme"]))
	assert.Contains(t, string(raw), "\n  \"settings\"")
}

func TestEncode_NormalizesTheme(t *testing.T) {
	doc := Encode(sampleSettings(), fullTheme(ThemeWithBackgroundImage), Content{})
	assert.Empty(t, doc.Theme.SideImage)
	assert.Empty(t, doc.Theme.BorderColor)
	assert.Equal(t, "data:image/png;base64,Ymc=", doc.Theme.BackgroundImage)
}

func TestDecode_NormalizesLegacyFile(t *testing.T) {
	raw := []byte(`{
		"settings": {"TYPE": "completion", "LANGUAGE": "AR", "ORIENTATION": "horizontal"},
		"theme": {
			"NAME": "withoutSideImage",
			"BORDER_COLOR": "#112233",
			"BORDER_ACCENT_COLOR": "#112233",
			"SIDE_IMAGE": "data:image/png;base64,eA==",
			"SIDE_IMAGE_POSITION": "left"
		},
		"content": "[{\"insert\":\"hi\\n\"}]"
	}`)

	doc, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, Theme{Name: ThemeWithoutSideImage, BackgroundColor: DefaultBackgroundColor}, doc.Theme)
	assert.Equal(t, Content{Ops: []Op{{Insert: TextInsert("hi\n")}}}, doc.Content)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind error
		key  string
	}{
		{
			name: "missing settings",
			raw:  `{"theme":{},"content":"{\"ops\":[]}"}`,
			kind: ErrMissingKey,
			key:  "settings",
		},
		{
			name: "missing theme",
			raw:  `{"settings":{},"content":"{\"ops\":[]}"}`,
			kind: ErrMissingKey,
			key:  "theme",
		},
		{
			name: "missing content",
			raw:  `{"settings":{},"theme":{}}`,
			kind: ErrMissingKey,
			key:  "content",
		},
		{
			name: "null content",
			raw:  `{"settings":{},"theme":{},"content":null}`,
			kind: ErrMissingKey,
			key:  "content",
		},
		{
			name: "content is not a string",
			raw:  `{"settings":{},"theme":{},"content":{"ops":[]}}`,
			kind: ErrMalformedContent,
			key:  "content",
		},
		{
			name: "content string is not json",
			raw:  `{"settings":{},"theme":{},"content":"not json"}`,
			kind: ErrMalformedContent,
			key:  "content",
		},
		{
			name: "operation without insert",
			raw:  `{"settings":{},"theme":{},"content":"{\"ops\":[{\"retain\":3}]}"}`,
			kind: ErrMalformedContent,
			key:  "content",
		},
		{
			name: "insert of wrong type",
			raw:  `{"settings":{},"theme":{},"content":"{\"ops\":[{\"insert\":5}]}"}`,
			kind: ErrMalformedContent,
			key:  "content",
		},
		{
			name: "not json",
			raw:  `certificate`,
			kind: ErrMalformedDocument,
		},
		{
			name: "array document",
			raw:  `[1,2,3]`,
			kind: ErrMalformedDocument,
		},
		{
			name: "null document",
			raw:  `null`,
			kind: ErrMalformedDocument,
		},
		{
			name: "theme of wrong shape",
			raw:  `{"settings":{},"theme":"borderWithSideImage","content":"{\"ops\":[]}"}`,
			kind: ErrMalformedDocument,
			key:  "theme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)

			var dErr *DecodeError
			require.True(t, errors.As(err, &dErr))
			assert.Equal(t, tt.key, dErr.Key)
		})
	}
}

func TestDecodeContent(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		c, err := DecodeContent([]byte(`{"ops":[{"insert":"a"}]}`))
		require.NoError(t, err)
		assert.Equal(t, "a", c.PlainText())
	})

	t.Run("encoded string", func(t *testing.T) {
		c, err := DecodeContent([]byte(`"{\"ops\":[{\"insert\":\"b\"}]}"`))
		require.NoError(t, err)
		assert.Equal(t, "b", c.PlainText())
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := DecodeContent([]byte(`42`))
		assert.ErrorIs(t, err, ErrMalformedContent)
	})
}
