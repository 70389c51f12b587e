package certificate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageOrientationFor(t *testing.T) {
	assert.Equal(t, PageLandscape, PageOrientationFor(1123, 794))
	assert.Equal(t, PagePortrait, PageOrientationFor(794, 1123))
	assert.Equal(t, PageSquare, PageOrientationFor(500, 500))
}

func TestFitToPage(t *testing.T) {
	t.Run("landscape raster on rotated page", func(t *testing.T) {
		p := FitToPage(1584, 1224)
		assert.Equal(t, PageLandscape, p.Orientation)
		assert.Equal(t, LetterHeightPt, p.PageWidth)
		assert.Equal(t, LetterWidthPt, p.PageHeight)
		assert.InDelta(t, 792.0, p.Width, 1e-9)
		assert.InDelta(t, 612.0, p.Height, 1e-9)
		assert.InDelta(t, 0.0, p.X, 1e-9)
		assert.InDelta(t, 0.0, p.Y, 1e-9)
	})

	t.Run("portrait raster is centered horizontally", func(t *testing.T) {
		p := FitToPage(300, 792)
		assert.Equal(t, PagePortrait, p.Orientation)
		assert.InDelta(t, 300.0, p.Width, 1e-9)
		assert.InDelta(t, 792.0, p.Height, 1e-9)
		assert.InDelta(t, 156.0, p.X, 1e-9)
		assert.InDelta(t, 0.0, p.Y, 1e-9)
	})

	t.Run("square raster keeps aspect ratio", func(t *testing.T) {
		p := FitToPage(1000, 1000)
		assert.Equal(t, PageSquare, p.Orientation)
		assert.InDelta(t, p.Width, p.Height, 1e-9)
		assert.InDelta(t, 612.0, p.Width, 1e-9)
		assert.InDelta(t, 90.0, p.Y, 1e-9)
	})

	t.Run("empty raster", func(t *testing.T) {
		p := FitToPage(0, 0)
		assert.Zero(t, p.Width)
	})
}

func TestContent_JSON(t *testing.T) {
	t.Run("nil ops encode as empty array", func(t *testing.T) {
		raw, err := json.Marshal(Content{})
		require.NoError(t, err)
		assert.JSONEq(t, `{"ops":[]}`, string(raw))
	})

	t.Run("bare array accepted", func(t *testing.T) {
		var c Content
		require.NoError(t, json.Unmarshal([]byte(`[{"insert":{"image":"a.png"},"attributes":{"height":"64px"}}]`), &c))
		src, ok := c.Ops[0].Insert.Image()
		require.True(t, ok)
		assert.Equal(t, "a.png", src)
		assert.Equal(t, 1, c.Length())
	})

	t.Run("object without ops rejected", func(t *testing.T) {
		var c Content
		assert.Error(t, json.Unmarshal([]byte(`{"insert":"x"}`), &c))
	})

	t.Run("empty attributes dropped", func(t *testing.T) {
		var c Content
		require.NoError(t, json.Unmarshal([]byte(`{"ops":[{"insert":"x","attributes":{}}]}`), &c))
		assert.Nil(t, c.Ops[0].Attributes)
	})
}

func TestContent_CloneIsDeep(t *testing.T) {
	in := Content{Ops: []Op{{Insert: ImageInsert("a.png"), Attributes: map[string]any{"list": []any{"x"}}}}}
	out := in.Clone()
	out.Ops[0].Insert.Embed["image"] = "b.png"
	out.Ops[0].Attributes["list"].([]any)[0] = "y"

	src, _ := in.Ops[0].Insert.Image()
	assert.Equal(t, "a.png", src)
	assert.Equal(t, "x", in.Ops[0].Attributes["list"].([]any)[0])
}
