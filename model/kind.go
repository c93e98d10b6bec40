package model

import (
	"encoding/json"
	"fmt"
)

// Kind is the type tag of a Field. The set is closed: decoding any other
// value fails.
type Kind string

const (
	KindText           Kind = "text"
	KindEmail          Kind = "email"
	KindTextarea       Kind = "textarea"
	KindSelect         Kind = "select"
	KindRadio          Kind = "radio"
	KindCheckbox       Kind = "checkbox"
	KindNumber         Kind = "number"
	KindDate           Kind = "date"
	KindFile           Kind = "file"
	KindImage          Kind = "image"
	KindRating         Kind = "rating"
	KindLocation       Kind = "location"
	KindSignature      Kind = "signature"
	KindAudio          Kind = "audio"
	KindSlider         Kind = "slider"
	KindYesNo          Kind = "yesno"
	KindTask           Kind = "task"
	KindScanner        Kind = "scanner"
	KindImageSelection Kind = "imageselection"
)

// Kinds lists every Kind in declaration order.
var Kinds = []Kind{
	KindText, KindEmail, KindTextarea, KindSelect, KindRadio, KindCheckbox,
	KindNumber, KindDate, KindFile, KindImage, KindRating, KindLocation,
	KindSignature, KindAudio, KindSlider, KindYesNo, KindTask, KindScanner,
	KindImageSelection,
}

func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Boolean reports whether values of this kind are answered with true/false.
func (k Kind) Boolean() bool {
	return k == KindCheckbox || k == KindYesNo || k == KindTask
}

// Upload reports whether values of this kind reference uploaded files.
func (k Kind) Upload() bool {
	return k == KindFile || k == KindImage || k == KindAudio
}

func (k *Kind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if !Kind(s).Valid() {
		return fmt.Errorf("unknown field type %q", s)
	}
	*k = Kind(s)
	return nil
}

type RatingStyle string

const (
	RatingStars   RatingStyle = "stars"
	RatingHearts  RatingStyle = "hearts"
	RatingThumbs  RatingStyle = "thumbs"
	RatingNumbers RatingStyle = "numbers"
)

func (s RatingStyle) Valid() bool {
	switch s {
	case "", RatingStars, RatingHearts, RatingThumbs, RatingNumbers:
		return true
	}
	return false
}
