package lifecycle

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DraftStore keys. The rating is serialized as decimal text; an
// absent or unparseable value loads as 0 (unset).
const (
	KeyFeedbackDraft = "feedbackDraft"
	KeyRatingDraft   = "ratingDraft"
)

const (
	MinRating = 1
	MaxRating = 5
)

var (
	// ErrEmptyFeedback rejects a submit with whitespace-only text
	ErrEmptyFeedback = errors.New("feedback text must not be empty")

	// ErrNoRating rejects a submit without a star rating
	ErrNoRating = errors.New("a star rating is required")
)

// Draft is the in-progress feedback text and rating. Rating 0 means
// unset; 1-5 are valid star values.
type Draft struct {
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

// Validate checks whether the draft is submittable. Both rules are
// checked; the first violated one is returned.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Text) == "" {
		return ErrEmptyFeedback
	}
	if d.Rating < MinRating || d.Rating > MaxRating {
		return ErrNoRating
	}
	return nil
}

// SubmittedFeedback is the immutable snapshot captured at submission
// time. It exists only until the next restart.
type SubmittedFeedback struct {
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

// encodeRating serializes a rating for the DraftStore
func encodeRating(rating int) string {
	return strconv.Itoa(rating)
}

// decodeRating parses a stored rating, treating garbage and
// out-of-range values as unset.
func decodeRating(value string) int {
	rating, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || rating < 0 || rating > MaxRating {
		return 0
	}
	return rating
}

// validateRating bounds a rating mutation. Unlike Validate, 0 is
// allowed here: clearing the stars back to unset is a legal edit.
func validateRating(rating int) error {
	if rating < 0 || rating > MaxRating {
		return fmt.Errorf("rating must be between 0 and %d, got %d", MaxRating, rating)
	}
	return nil
}
