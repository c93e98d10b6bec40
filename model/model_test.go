package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindRejectsUnknownType(t *testing.T) {
	var f Field
	err := json.Unmarshal([]byte(`{"id":"a","type":"phone","label":"Phone"}`), &f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown field type "phone"`)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","type":"yesno","label":"OK?"}`), &f))
	assert.Equal(t, KindYesNo, f.Type)
}

func TestKindsCoverEveryKind(t *testing.T) {
	assert.Len(t, Kinds, 19)
	for _, k := range Kinds {
		assert.True(t, k.Valid(), k)
	}
}

func TestValidateFields(t *testing.T) {
	ok := []Field{{ID: "a", Type: KindText}, {ID: "b", Type: KindRating, RatingType: RatingHearts}}
	assert.NoError(t, ValidateFields(ok))

	err := ValidateFields([]Field{{ID: "a", Type: KindText}, {ID: "a", Type: KindEmail}})
	assert.True(t, errors.Is(err, ErrDuplicateFieldID))

	err = ValidateFields([]Field{{Type: KindText}})
	assert.True(t, errors.Is(err, ErrEmptyFieldID))

	assert.Error(t, ValidateFields([]Field{{ID: "a", Type: KindRating, RatingType: "smileys"}}))
}

func TestValidateFieldsRatingMax(t *testing.T) {
	ten, huge := 10.0, 1e9
	assert.NoError(t, ValidateFields([]Field{{ID: "r", Type: KindRating, Max: &ten}}))

	err := ValidateFields([]Field{{ID: "r", Type: KindRating, Max: &huge}})
	assert.EqualError(t, err, `field "r": rating max must be at most 10`)

	// number fields keep their own bounds
	assert.NoError(t, ValidateFields([]Field{{ID: "n", Type: KindNumber, Max: &huge}}))

	assert.Equal(t, MaxRatingMax, Field{Type: KindRating, Max: &huge}.RatingMax())
}

func TestFieldDefaults(t *testing.T) {
	var f Field
	assert.Equal(t, 5, f.RatingMax())
	min, max, step := f.SliderRange()
	assert.Equal(t, []float64{0, 100, 1}, []float64{min, max, step})

	ten, two, half := 10.0, 2.0, 0.5
	f = Field{Max: &ten, SliderMin: &two, SliderMax: &ten, SliderStep: &half}
	assert.Equal(t, 10, f.RatingMax())
	min, max, step = f.SliderRange()
	assert.Equal(t, []float64{2, 10, 0.5}, []float64{min, max, step})
}
