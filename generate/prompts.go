package generate

import (
	"fmt"
	"strings"

	"github.com/mbolis/formcraft/model"
)

const pingPrompt = `Say 'Hello FormCraft!' in JSON format like: {"message": "Hello FormCraft!"}`

const schemaInstructions = `
You design web forms. Answer with a single JSON object and nothing else:
{
  "title": "Form title",
  "description": "One or two sentences shown above the form",
  "fields": [
    {
      "id": "short_snake_case_id",
      "type": "one of the allowed types",
      "label": "Question shown to the respondent",
      "placeholder": "optional hint",
      "required": true,
      "options": ["only for select, radio and imageselection"]
    }
  ]
}

### ALLOWED FIELD TYPES
%s

### RULES
- Field ids are unique within the form.
- Rating fields may set "max" (default 5, at most 10) and "rating_type": stars, hearts, thumbs or numbers.
- Slider fields may set "slider_min", "slider_max" and "slider_step".
- Upload fields (file, image, audio) may set "accept" with a list of extensions or MIME types.
- Keep the form focused: between 3 and 12 fields.
`

func kindList() string {
	kinds := make([]string, len(model.Kinds))
	for i, k := range model.Kinds {
		kinds[i] = "- " + string(k)
	}
	return strings.Join(kinds, "\n")
}

func textPrompt(description string) string {
	return fmt.Sprintf(schemaInstructions, kindList()) +
		"\n### REQUEST\nCreate a form for the following need:\n" + description
}

func imagePrompt(description string) string {
	return fmt.Sprintf(schemaInstructions, kindList()) +
		"\n### REQUEST\nThe attached image shows an existing form, document or sketch. " +
		"Reproduce it as a web form, reading every question and option you can see.\n" +
		"Additional notes from the author:\n" + description
}
