package fields

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mbolis/formcraft/model"
)

const NoResponse = "No response"

func plain(_ model.Field, v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return formatNumber(v)
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(v)
}

func yesNo(f model.Field, v any) string {
	if truthy(f, v) {
		return "✅ Yes"
	}
	return "❌ No"
}

var ratingIcons = map[model.RatingStyle][2]string{
	model.RatingStars:  {"⭐", "☆"},
	model.RatingHearts: {"❤️", "🤍"},
	model.RatingThumbs: {"👍", "👎"},
}

func rating(f model.Field, v any) string {
	n, _ := number(v)
	got, max := int(n), f.RatingMax()
	if f.RatingType == model.RatingNumbers {
		return fmt.Sprintf("%d/%d", got, max)
	}

	icons, ok := ratingIcons[f.RatingType]
	if !ok {
		icons = ratingIcons[model.RatingStars]
	}
	var b strings.Builder
	for i := 0; i < max; i++ {
		if i < got {
			b.WriteString(icons[0])
		} else {
			b.WriteString(icons[1])
		}
	}
	fmt.Fprintf(&b, " (%d/%d)", got, max)
	return b.String()
}

func slider(f model.Field, v any) string {
	min, max, _ := f.SliderRange()
	return fmt.Sprintf("%s (Range: %s - %s)", plain(f, v), formatNumber(min), formatNumber(max))
}

func files(_ model.Field, v any) string {
	var refs []map[string]any
	switch v := v.(type) {
	case map[string]any:
		refs = append(refs, v)
	case []any:
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				refs = append(refs, m)
			}
		}
	default:
		return fmt.Sprint(v)
	}

	parts := make([]string, 0, len(refs))
	for _, ref := range refs {
		name, _ := ref["name"].(string)
		url, _ := ref["url"].(string)
		if url == "" || strings.HasPrefix(url, "data:") {
			parts = append(parts, "📎 "+name)
			continue
		}
		parts = append(parts, fmt.Sprintf("📎 %s (%s)", name, url))
	}
	return strings.Join(parts, ", ")
}

func signature(_ model.Field, v any) string {
	if s, ok := v.(string); ok && strings.HasPrefix(s, "data:image") {
		return "✍️ Signature provided"
	}
	return NoResponse
}

func location(_ model.Field, v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return fmt.Sprint(v)
	}
	addr, _ := m["address"].(string)
	lat, okLat := number(m["latitude"])
	lng, okLng := number(m["longitude"])
	if !okLat || !okLng {
		return addr
	}
	coords := fmt.Sprintf("%.6f, %.6f", lat, lng)
	if addr == "" {
		return coords
	}
	return fmt.Sprintf("%s (%s)", addr, coords)
}

func imageSelection(_ model.Field, v any) string {
	n := 1
	if list, ok := v.([]any); ok {
		n = len(list)
	}
	if n == 1 {
		return "Selected 1 image"
	}
	return fmt.Sprintf("Selected %d images", n)
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
