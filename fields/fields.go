// Package fields holds the per-kind behavior of form fields: the widget a
// browser renders for it, its initial value, the required check applied at
// submission, the shape check of a submitted value and its textual display.
package fields

import (
	"github.com/mbolis/formcraft/model"
)

// Value shapes, as announced in Widget.Value.
const (
	ShapeString      = "string"
	ShapeNumber      = "number"
	ShapeBoolean     = "boolean"
	ShapeLocation    = "location"
	ShapeFile        = "file"
	ShapeFiles       = "file[]"
	ShapeDataURL     = "data-url"
	ShapeStringArray = "string[]"
)

// Widget describes the input affordance for a field and the shape of the
// value the browser must write back for it.
type Widget struct {
	Element     string   `json:"element"`
	InputType   string   `json:"input_type,omitempty"`
	Value       string   `json:"value"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty"`
	Accept      string   `json:"accept,omitempty"`
	Multiple    bool     `json:"multiple,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Step        *float64 `json:"step,omitempty"`
	RatingStyle string   `json:"rating_style,omitempty"`
	RatingMax   int      `json:"rating_max,omitempty"`
	Upload      bool     `json:"upload,omitempty"`
}

// behavior is what one field kind does. Every model.Kind has an entry in
// table.
type behavior struct {
	widget  func(model.Field) Widget
	initial func(model.Field) any
	present func(model.Field, any) bool
	check   func(model.Field, any) error
	display func(model.Field, any) string
}

var table = map[model.Kind]behavior{
	model.KindText: {
		widget:  input("text"),
		initial: emptyString,
		present: nonEmpty,
		check:   isString,
		display: plain,
	},
	model.KindEmail: {
		widget:  input("email"),
		initial: emptyString,
		present: nonEmpty,
		check:   isEmail,
		display: plain,
	},
	model.KindTextarea: {
		widget:  element("textarea", ShapeString),
		initial: emptyString,
		present: nonEmpty,
		check:   isString,
		display: plain,
	},
	model.KindSelect: {
		widget:  choice("select", ""),
		initial: emptyString,
		present: nonEmpty,
		check:   isOption,
		display: plain,
	},
	model.KindRadio: {
		widget:  choice("input", "radio"),
		initial: emptyString,
		present: nonEmpty,
		check:   isOption,
		display: plain,
	},
	model.KindCheckbox: {
		widget:  boolean("checkbox"),
		initial: falseValue,
		present: truthy,
		check:   isBool,
		display: yesNo,
	},
	model.KindNumber: {
		widget:  numberWidget,
		initial: emptyString,
		present: nonEmpty,
		check:   isNumberInBounds,
		display: plain,
	},
	model.KindDate: {
		widget:  input("date"),
		initial: emptyString,
		present: nonEmpty,
		check:   isDate,
		display: plain,
	},
	model.KindFile: {
		widget:  upload(""),
		initial: emptyString,
		present: nonEmpty,
		check:   isFileRefs,
		display: files,
	},
	model.KindImage: {
		widget:  upload("image/*"),
		initial: emptyString,
		present: nonEmpty,
		check:   isFileRefs,
		display: files,
	},
	model.KindRating: {
		widget:  ratingWidget,
		initial: zero,
		present: positive,
		check:   isRating,
		display: rating,
	},
	model.KindLocation: {
		widget:  element("geolocation", ShapeLocation),
		initial: emptyString,
		present: nonEmpty,
		check:   isLocation,
		display: location,
	},
	model.KindSignature: {
		widget:  element("canvas", ShapeDataURL),
		initial: emptyString,
		present: nonEmpty,
		check:   isImageDataURL,
		display: signature,
	},
	model.KindAudio: {
		widget:  upload("audio/*"),
		initial: emptyString,
		present: nonEmpty,
		check:   isFileRefs,
		display: files,
	},
	model.KindSlider: {
		widget:  sliderWidget,
		initial: sliderMin,
		present: nonEmpty,
		check:   isSliderValue,
		display: slider,
	},
	model.KindYesNo: {
		widget:  boolean("yesno"),
		initial: falseValue,
		present: truthy,
		check:   isBool,
		display: yesNo,
	},
	model.KindTask: {
		widget:  boolean("task"),
		initial: falseValue,
		present: truthy,
		check:   isBool,
		display: yesNo,
	},
	model.KindScanner: {
		widget:  element("scanner", ShapeString),
		initial: emptyString,
		present: nonEmpty,
		check:   isString,
		display: plain,
	},
	model.KindImageSelection: {
		widget:  imageSelectionWidget,
		initial: emptyString,
		present: selection,
		check:   isImageSelection,
		display: imageSelection,
	},
}

// Rendered is a field ready to be drawn: descriptor, widget and current value.
type Rendered struct {
	model.Field
	Widget Widget `json:"widget"`
	Value  any    `json:"value"`
}

// Render pairs a field with its widget; a nil value is replaced by the kind's
// initial value.
func Render(f model.Field, value any) Rendered {
	spec := table[f.Type]
	if value == nil {
		value = spec.initial(f)
	}
	return Rendered{Field: f, Widget: spec.widget(f), Value: value}
}

func RenderAll(fs []model.Field, values map[string]any) []Rendered {
	out := make([]Rendered, len(fs))
	for i, f := range fs {
		out[i] = Render(f, values[f.ID])
	}
	return out
}

// InitialValues returns the value map a blank submission starts from.
func InitialValues(fs []model.Field) map[string]any {
	values := make(map[string]any, len(fs))
	for _, f := range fs {
		values[f.ID] = table[f.Type].initial(f)
	}
	return values
}

// Display renders a submitted value as text; missing values read
// "No response".
func Display(f model.Field, value any) string {
	if isBlank(value) && !f.Type.Boolean() {
		return NoResponse
	}
	return table[f.Type].display(f, value)
}
