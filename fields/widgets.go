package fields

import (
	"github.com/mbolis/formcraft/model"
)

func input(inputType string) func(model.Field) Widget {
	return func(f model.Field) Widget {
		return Widget{Element: "input", InputType: inputType, Value: ShapeString, Placeholder: f.Placeholder}
	}
}

func element(name, shape string) func(model.Field) Widget {
	return func(f model.Field) Widget {
		return Widget{Element: name, Value: shape, Placeholder: f.Placeholder}
	}
}

func choice(name, inputType string) func(model.Field) Widget {
	return func(f model.Field) Widget {
		return Widget{Element: name, InputType: inputType, Value: ShapeString, Options: f.Options, Placeholder: f.Placeholder}
	}
}

func boolean(name string) func(model.Field) Widget {
	return func(model.Field) Widget {
		return Widget{Element: name, InputType: "checkbox", Value: ShapeBoolean}
	}
}

func upload(accept string) func(model.Field) Widget {
	return func(f model.Field) Widget {
		w := Widget{Element: "input", InputType: "file", Value: ShapeFile, Accept: accept, Multiple: f.Multiple, Upload: true}
		if f.Accept != "" {
			w.Accept = f.Accept
		}
		if f.Multiple {
			w.Value = ShapeFiles
		}
		return w
	}
}

func numberWidget(f model.Field) Widget {
	return Widget{
		Element:     "input",
		InputType:   "number",
		Value:       ShapeNumber,
		Placeholder: f.Placeholder,
		Min:         f.Min,
		Max:         f.Max,
		Step:        f.Step,
	}
}

func ratingWidget(f model.Field) Widget {
	style := f.RatingType
	if style == "" {
		style = model.RatingStars
	}
	return Widget{Element: "rating", Value: ShapeNumber, RatingStyle: string(style), RatingMax: f.RatingMax()}
}

func sliderWidget(f model.Field) Widget {
	min, max, step := f.SliderRange()
	return Widget{Element: "input", InputType: "range", Value: ShapeNumber, Min: &min, Max: &max, Step: &step}
}

func imageSelectionWidget(f model.Field) Widget {
	w := Widget{Element: "imageselection", InputType: "radio", Value: ShapeString, Options: f.Options}
	if f.Multiple {
		w.InputType = "checkbox"
		w.Value = ShapeStringArray
		w.Multiple = true
	}
	return w
}

func emptyString(model.Field) any { return "" }
func falseValue(model.Field) any  { return false }
func zero(model.Field) any        { return 0 }

func sliderMin(f model.Field) any {
	min, _, _ := f.SliderRange()
	return min
}
