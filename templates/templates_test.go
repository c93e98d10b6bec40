package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbolis/formcraft/model"
)

func TestCatalog(t *testing.T) {
	ts, err := List()
	require.NoError(t, err)
	require.NotEmpty(t, ts)

	for _, tmpl := range ts {
		assert.NotEmpty(t, tmpl.Title, tmpl.ID)
		assert.NotEmpty(t, tmpl.Category, tmpl.ID)
		assert.NoError(t, tmpl.Validate(), tmpl.ID)
	}
}

func TestGet(t *testing.T) {
	tmpl, ok, err := Get("customer-feedback")
	require.NoError(t, err)
	require.True(t, ok)

	require.Len(t, tmpl.Fields, 4)
	overall := tmpl.Fields[0]
	assert.Equal(t, model.KindRating, overall.Type)
	assert.Equal(t, model.RatingStars, overall.RatingType)
	assert.Equal(t, 5, overall.RatingMax())
	assert.True(t, overall.Required)

	min, max, step := tmpl.Fields[1].SliderRange()
	assert.Equal(t, []float64{0, 10, 1}, []float64{min, max, step})

	tmpl.Fields[0].Label = "changed"
	again, _, _ := Get("customer-feedback")
	assert.Equal(t, "Overall satisfaction", again.Fields[0].Label)

	_, ok, err = Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseRejects(t *testing.T) {
	_, err := Parse([]byte(`
- id: a
  title: A
  fields:
    - {id: x, type: hologram, label: X}
`))
	assert.ErrorContains(t, err, "hologram")

	_, err = Parse([]byte(`
- {id: a, title: A}
- {id: a, title: B}
`))
	assert.ErrorContains(t, err, "duplicate")
}
