package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

type Form struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Fields      []Field   `json:"fields"`
	IsPublished bool      `json:"is_published"`
	ViewCount   int       `json:"view_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Schema is the shape of a form without its identity: what the builder and
// the generator produce.
type Schema struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Fields      []Field `json:"fields"`
}

func (s Schema) Validate() error {
	return ValidateFields(s.Fields)
}

type Field struct {
	ID          string      `json:"id"`
	Type        Kind        `json:"type"`
	Label       string      `json:"label"`
	Placeholder string      `json:"placeholder,omitempty"`
	Required    bool        `json:"required"`
	Options     []string    `json:"options,omitempty"`
	Min         *float64    `json:"min,omitempty"`
	Max         *float64    `json:"max,omitempty"`
	Step        *float64    `json:"step,omitempty"`
	Accept      string      `json:"accept,omitempty"`
	Multiple    bool        `json:"multiple,omitempty"`
	RatingType  RatingStyle `json:"rating_type,omitempty"`
	SliderMin   *float64    `json:"slider_min,omitempty"`
	SliderMax   *float64    `json:"slider_max,omitempty"`
	SliderStep  *float64    `json:"slider_step,omitempty"`
}

const (
	DefaultRatingMax = 5
	MaxRatingMax     = 10
)

// RatingMax is the number of rating icons; unset or zero means 5. It never
// exceeds MaxRatingMax.
func (f Field) RatingMax() int {
	if f.Max == nil || *f.Max <= 0 {
		return DefaultRatingMax
	}
	return int(math.Min(*f.Max, MaxRatingMax))
}

// SliderRange applies the slider defaults 0..100 step 1; zero values count as
// unset.
func (f Field) SliderRange() (min, max, step float64) {
	min, max, step = 0, 100, 1
	if f.SliderMin != nil && *f.SliderMin != 0 {
		min = *f.SliderMin
	}
	if f.SliderMax != nil && *f.SliderMax != 0 {
		max = *f.SliderMax
	}
	if f.SliderStep != nil && *f.SliderStep != 0 {
		step = *f.SliderStep
	}
	return
}

var (
	ErrEmptyFieldID     = errors.New("field id is empty")
	ErrDuplicateFieldID = errors.New("duplicate field id")
)

// ValidateFields enforces the schema invariants: ids non-empty and unique
// within the form, known kinds and rating styles.
func ValidateFields(fields []Field) error {
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		if f.ID == "" {
			return fmt.Errorf("field #%d: %w", i+1, ErrEmptyFieldID)
		}
		if seen[f.ID] {
			return fmt.Errorf("field %q: %w", f.ID, ErrDuplicateFieldID)
		}
		seen[f.ID] = true

		if !f.Type.Valid() {
			return fmt.Errorf("field %q: unknown field type %q", f.ID, f.Type)
		}
		if !f.RatingType.Valid() {
			return fmt.Errorf("field %q: unknown rating type %q", f.ID, f.RatingType)
		}
		if f.Type == KindRating && f.Max != nil && *f.Max > MaxRatingMax {
			return fmt.Errorf("field %q: rating max must be at most %d", f.ID, MaxRatingMax)
		}
	}
	return nil
}

type FormResponse struct {
	ID           string         `json:"id"`
	FormID       string         `json:"form_id"`
	ResponseData map[string]any `json:"response_data"`
	CreatedAt    time.Time      `json:"created_at"`
}

type UserAnalytics struct {
	UserID         string    `json:"user_id"`
	TotalForms     int       `json:"total_forms"`
	TotalResponses int       `json:"total_responses"`
	TotalViews     int       `json:"total_views"`
	LastActivity   time.Time `json:"last_activity"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type FormFile struct {
	ID         string    `json:"id"`
	FormID     string    `json:"form_id"`
	ResponseID string    `json:"response_id,omitempty"`
	FieldID    string    `json:"field_id"`
	FileName   string    `json:"file_name"`
	FileType   string    `json:"file_type"`
	FileSize   int64     `json:"file_size"`
	FileURL    string    `json:"file_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// Location is the value of a location field.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// FileRef is the value of an upload field (or one element of it when the
// field accepts multiple files).
type FileRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
