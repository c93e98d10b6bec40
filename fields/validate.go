package fields

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mbolis/formcraft/model"
)

var validate = validator.New()

// Errors maps a field id to a message for the respondent.
type Errors map[string]string

func (e Errors) Error() string {
	ids := make([]string, 0, len(e))
	for id := range e {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	msgs := make([]string, len(ids))
	for i, id := range ids {
		msgs[i] = e[id]
	}
	return strings.Join(msgs, "; ")
}

// Validate checks a candidate response against the form's fields. Required
// fields must hold a value by their kind's rule; any value present is also
// checked for shape. The result is empty when the response is acceptable.
func Validate(fs []model.Field, values map[string]any) Errors {
	errs := Errors{}
	for _, f := range fs {
		spec := table[f.Type]
		v := values[f.ID]

		if f.Required && !spec.present(f, v) {
			errs[f.ID] = name(f) + " is required"
			continue
		}
		if isBlank(v) {
			continue
		}
		if err := spec.check(f, v); err != nil {
			errs[f.ID] = fmt.Sprintf("%s %s", name(f), err)
		}
	}
	return errs
}

// Normalize drops values for ids the form does not define.
func Normalize(fs []model.Field, values map[string]any) map[string]any {
	out := make(map[string]any, len(fs))
	for _, f := range fs {
		if v, ok := values[f.ID]; ok {
			out[f.ID] = v
		}
	}
	return out
}

func name(f model.Field) string {
	if f.Label != "" {
		return f.Label
	}
	return f.ID
}

// presence rules

func isBlank(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	return false
}

func nonEmpty(_ model.Field, v any) bool {
	return !isBlank(v)
}

func truthy(_ model.Field, v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0 && !math.IsNaN(v)
	case int:
		return v != 0
	case json.Number:
		n, err := v.Float64()
		return err == nil && n != 0
	}
	return true
}

func positive(_ model.Field, v any) bool {
	n, ok := number(v)
	return ok && n > 0
}

func selection(f model.Field, v any) bool {
	if !f.Multiple {
		return nonEmpty(f, v)
	}
	switch v := v.(type) {
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	}
	return false
}

// shape checks, called only for non-blank values

var (
	errNotText     = errors.New("must be text")
	errNotEmail    = errors.New("must be a valid email address")
	errNotOption   = errors.New("must be one of the listed options")
	errNotBool     = errors.New("must be yes or no")
	errNotNumber   = errors.New("must be a number")
	errNotDate     = errors.New("must be a date (YYYY-MM-DD)")
	errNotFile     = errors.New("must reference an uploaded file")
	errNotLocation = errors.New("must be a location with latitude and longitude")
	errNotDrawing  = errors.New("must be a drawn signature")
)

func isString(_ model.Field, v any) error {
	if _, ok := v.(string); !ok {
		return errNotText
	}
	return nil
}

func isEmail(_ model.Field, v any) error {
	s, ok := v.(string)
	if !ok || validate.Var(strings.TrimSpace(s), "email") != nil {
		return errNotEmail
	}
	return nil
}

func isOption(f model.Field, v any) error {
	s, ok := v.(string)
	if !ok {
		return errNotText
	}
	if len(f.Options) > 0 && !contains(f.Options, s) {
		return errNotOption
	}
	return nil
}

func isBool(_ model.Field, v any) error {
	if _, ok := v.(bool); !ok {
		return errNotBool
	}
	return nil
}

func isNumberInBounds(f model.Field, v any) error {
	n, ok := number(v)
	if !ok {
		return errNotNumber
	}
	return inRange(n, f.Min, f.Max)
}

func isDate(_ model.Field, v any) error {
	s, ok := v.(string)
	if !ok {
		return errNotDate
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return errNotDate
	}
	return nil
}

func isRating(f model.Field, v any) error {
	n, ok := number(v)
	if !ok {
		return errNotNumber
	}
	if n != math.Trunc(n) || n < 0 || n > float64(f.RatingMax()) {
		return fmt.Errorf("must be a whole rating from 0 to %d", f.RatingMax())
	}
	return nil
}

func isSliderValue(f model.Field, v any) error {
	n, ok := number(v)
	if !ok {
		return errNotNumber
	}
	min, max, _ := f.SliderRange()
	return inRange(n, &min, &max)
}

func isLocation(_ model.Field, v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return errNotLocation
	}
	lat, okLat := number(m["latitude"])
	lng, okLng := number(m["longitude"])
	if !okLat || !okLng || math.Abs(lat) > 90 || math.Abs(lng) > 180 {
		return errNotLocation
	}
	if addr, ok := m["address"]; ok && addr != nil {
		if _, ok := addr.(string); !ok {
			return errNotLocation
		}
	}
	return nil
}

func isFileRefs(_ model.Field, v any) error {
	switch v := v.(type) {
	case map[string]any:
		return isFileRef(v)
	case []any:
		for _, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return errNotFile
			}
			if err := isFileRef(m); err != nil {
				return err
			}
		}
		return nil
	}
	return errNotFile
}

func isFileRef(m map[string]any) error {
	name, _ := m["name"].(string)
	url, _ := m["url"].(string)
	if name == "" || url == "" {
		return errNotFile
	}
	if validate.Var(url, "url|datauri") != nil {
		return errNotFile
	}
	return nil
}

func isImageDataURL(_ model.Field, v any) error {
	s, ok := v.(string)
	if !ok || !strings.HasPrefix(s, "data:image/") {
		return errNotDrawing
	}
	return nil
}

func isImageSelection(f model.Field, v any) error {
	var picked []string
	switch v := v.(type) {
	case string:
		picked = []string{v}
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return errNotOption
			}
			picked = append(picked, s)
		}
	default:
		return errNotOption
	}
	if !f.Multiple && len(picked) > 1 {
		return errors.New("must be a single image")
	}
	if len(f.Options) == 0 {
		return nil
	}
	for _, s := range picked {
		if !contains(f.Options, s) {
			return errNotOption
		}
	}
	return nil
}

func inRange(n float64, min, max *float64) error {
	if min != nil && n < *min {
		return fmt.Errorf("must be at least %s", formatNumber(*min))
	}
	if max != nil && n > *max {
		return fmt.Errorf("must be at most %s", formatNumber(*max))
	}
	return nil
}

// number accepts JSON numbers and numeric strings, as browsers send either.
// NaN and infinities are not numbers a respondent can enter.
func number(v any) (n float64, ok bool) {
	switch v := v.(type) {
	case float64:
		n, ok = v, true
	case int:
		n, ok = float64(v), true
	case json.Number:
		f, err := v.Float64()
		n, ok = f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		n, ok = f, err == nil
	}
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
