package fields

import (
	"testing"

	"github.com/mbolis/formcraft/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestTableCoversEveryKind(t *testing.T) {
	for _, k := range model.Kinds {
		spec, ok := table[k]
		require.True(t, ok, "no behavior registered for %q", k)
		require.NotNil(t, spec.widget, k)
		require.NotNil(t, spec.initial, k)
		require.NotNil(t, spec.present, k)
		require.NotNil(t, spec.check, k)
		require.NotNil(t, spec.display, k)
	}
	assert.Len(t, table, len(model.Kinds))
}

func TestRequiredEmailMissing(t *testing.T) {
	fs := []model.Field{{ID: "a", Type: model.KindEmail, Label: "Email", Required: true}}

	errs := Validate(fs, map[string]any{})
	require.Len(t, errs, 1)
	assert.Equal(t, "Email is required", errs["a"])
}

func TestRequiredYesNo(t *testing.T) {
	f := model.Field{ID: "ok", Type: model.KindYesNo, Label: "Agree", Required: true}

	assert.Len(t, Validate([]model.Field{f}, map[string]any{}), 1)
	assert.Len(t, Validate([]model.Field{f}, map[string]any{"ok": false}), 1)
	assert.Empty(t, Validate([]model.Field{f}, map[string]any{"ok": true}))
}

func TestRequiredRating(t *testing.T) {
	f := model.Field{ID: "r", Type: model.KindRating, Label: "Stars", Required: true, Max: ptr(5)}

	assert.Len(t, Validate([]model.Field{f}, map[string]any{}), 1)
	assert.Len(t, Validate([]model.Field{f}, map[string]any{"r": 0.0}), 1)
	assert.Empty(t, Validate([]model.Field{f}, map[string]any{"r": 3.0}))
	errs := Validate([]model.Field{f}, map[string]any{"r": 6.0})
	assert.Equal(t, "Stars must be a whole rating from 0 to 5", errs["r"])
}

func TestOptionalRatingLeftAtZero(t *testing.T) {
	f := model.Field{ID: "r", Type: model.KindRating, Label: "Stars"}
	assert.Empty(t, Validate([]model.Field{f}, map[string]any{"r": 0.0}))
	assert.Len(t, Validate([]model.Field{f}, map[string]any{"r": 2.5}), 1)
}

func TestRequiredImageSelection(t *testing.T) {
	multi := model.Field{ID: "m", Type: model.KindImageSelection, Required: true, Multiple: true, Options: []string{"data:image/png;base64,AA", "data:image/png;base64,BB"}}

	assert.Len(t, Validate([]model.Field{multi}, map[string]any{"m": []any{}}), 1)
	assert.Empty(t, Validate([]model.Field{multi}, map[string]any{"m": []any{"data:image/png;base64,BB"}}))
	assert.Len(t, Validate([]model.Field{multi}, map[string]any{"m": []any{"data:image/png;base64,CC"}}), 1)
}

func TestWhitespaceIsMissing(t *testing.T) {
	f := model.Field{ID: "t", Type: model.KindText, Label: "Name", Required: true}
	assert.Len(t, Validate([]model.Field{f}, map[string]any{"t": "   "}), 1)
	assert.Empty(t, Validate([]model.Field{f}, map[string]any{"t": "Ada"}))
}

func TestOptionalFieldsAlwaysSatisfied(t *testing.T) {
	for _, k := range model.Kinds {
		f := model.Field{ID: "x", Type: k}
		assert.Empty(t, Validate([]model.Field{f}, map[string]any{}), k)
	}
}

func TestShapeChecks(t *testing.T) {
	cases := []struct {
		field model.Field
		good  any
		bad   any
	}{
		{model.Field{Type: model.KindEmail}, "ada@example.com", "not-an-email"},
		{model.Field{Type: model.KindSelect, Options: []string{"a", "b"}}, "b", "c"},
		{model.Field{Type: model.KindNumber, Min: ptr(1), Max: ptr(10)}, 5.0, 11.0},
		{model.Field{Type: model.KindNumber}, "42", "forty-two"},
		{model.Field{Type: model.KindNumber, Min: ptr(0), Max: ptr(120)}, "37", "NaN"},
		{model.Field{Type: model.KindNumber}, "1e3", "Inf"},
		{model.Field{Type: model.KindNumber}, -3.5, "-Infinity"},
		{model.Field{Type: model.KindSlider}, "50", "NaN"},
		{model.Field{Type: model.KindDate}, "2024-02-29", "29/02/2024"},
		{model.Field{Type: model.KindSlider, SliderMin: ptr(10), SliderMax: ptr(20)}, 15.0, 25.0},
		{model.Field{Type: model.KindCheckbox}, true, "yes"},
		{model.Field{Type: model.KindSignature}, "data:image/png;base64,iVBORw0KGgo=", "my signature"},
		{
			model.Field{Type: model.KindLocation},
			map[string]any{"latitude": 45.46, "longitude": 9.19, "address": "Milano"},
			map[string]any{"latitude": 145.0, "longitude": 9.19},
		},
		{
			model.Field{Type: model.KindFile},
			map[string]any{"name": "cv.pdf", "url": "https://cdn.example.com/forms/x/cv.pdf"},
			map[string]any{"name": "cv.pdf"},
		},
		{
			model.Field{Type: model.KindImage, Multiple: true},
			[]any{map[string]any{"name": "a.png", "url": "data:image/png;base64,iVBORw0KGgo="}},
			[]any{"a.png"},
		},
	}
	for _, c := range cases {
		c.field.ID = "f"
		c.field.Label = string(c.field.Type)
		fs := []model.Field{c.field}
		assert.Empty(t, Validate(fs, map[string]any{"f": c.good}), "%s accepts %v", c.field.Type, c.good)
		assert.Len(t, Validate(fs, map[string]any{"f": c.bad}), 1, "%s rejects %v", c.field.Type, c.bad)
	}
}

func TestInitialValues(t *testing.T) {
	fs := []model.Field{
		{ID: "c", Type: model.KindCheckbox},
		{ID: "y", Type: model.KindYesNo},
		{ID: "r", Type: model.KindRating},
		{ID: "s", Type: model.KindSlider, SliderMin: ptr(3)},
		{ID: "t", Type: model.KindText},
	}
	assert.Equal(t, map[string]any{"c": false, "y": false, "r": 0, "s": 3.0, "t": ""}, InitialValues(fs))
}

func TestRenderWidgets(t *testing.T) {
	r := Render(model.Field{ID: "p", Type: model.KindImage, Multiple: true}, nil)
	assert.Equal(t, "file", r.Widget.InputType)
	assert.Equal(t, "image/*", r.Widget.Accept)
	assert.Equal(t, ShapeFiles, r.Widget.Value)
	assert.True(t, r.Widget.Upload)
	assert.Equal(t, "", r.Value)

	r = Render(model.Field{ID: "r", Type: model.KindRating, RatingType: model.RatingHearts}, 4.0)
	assert.Equal(t, "hearts", r.Widget.RatingStyle)
	assert.Equal(t, 5, r.Widget.RatingMax)
	assert.Equal(t, 4.0, r.Value)

	r = Render(model.Field{ID: "s", Type: model.KindSlider}, nil)
	assert.Equal(t, 0.0, *r.Widget.Min)
	assert.Equal(t, 100.0, *r.Widget.Max)
}

func TestNormalizeDropsUnknownIDs(t *testing.T) {
	fs := []model.Field{{ID: "a", Type: model.KindText}}
	assert.Equal(t, map[string]any{"a": "x"}, Normalize(fs, map[string]any{"a": "x", "zzz": 1.0}))
}

func TestDisplay(t *testing.T) {
	cases := []struct {
		field model.Field
		value any
		want  string
	}{
		{model.Field{Type: model.KindText}, nil, NoResponse},
		{model.Field{Type: model.KindYesNo}, true, "✅ Yes"},
		{model.Field{Type: model.KindTask}, nil, "❌ No"},
		{model.Field{Type: model.KindRating}, 3.0, "⭐⭐⭐☆☆ (3/5)"},
		{model.Field{Type: model.KindRating, RatingType: model.RatingNumbers, Max: ptr(10)}, 7.0, "7/10"},
		{model.Field{Type: model.KindSlider}, 42.0, "42 (Range: 0 - 100)"},
		{model.Field{Type: model.KindNumber}, 2.5, "2.5"},
		{
			model.Field{Type: model.KindLocation},
			map[string]any{"latitude": 45.4642, "longitude": 9.19, "address": "Milano"},
			"Milano (45.464200, 9.190000)",
		},
		{
			model.Field{Type: model.KindFile},
			map[string]any{"name": "cv.pdf", "url": "http://x/files/cv.pdf"},
			"📎 cv.pdf (http://x/files/cv.pdf)",
		},
		{model.Field{Type: model.KindImageSelection, Multiple: true}, []any{"a", "b"}, "Selected 2 images"},
		{model.Field{Type: model.KindSignature}, "data:image/png;base64,AA", "✍️ Signature provided"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Display(c.field, c.value), "%s %v", c.field.Type, c.value)
	}
}

func TestErrorsMessage(t *testing.T) {
	errs := Errors{"b": "B is required", "a": "A is required"}
	assert.EqualError(t, errs, "A is required; B is required")
}
