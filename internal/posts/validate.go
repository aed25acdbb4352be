package posts

import (
	"fmt"
	"unicode/utf8"

	"github.com/wolfeidau/tenantpress/internal/slug"
)

// Field length limits, in characters.
//
// MinTitleLength alone does not guarantee a usable slug ("!!" is two characters), so
// validateInput also requires the title to normalize to at least one word character.
// Slugs are uniqueness keys and must never be empty.
const (
	MinTitleLength       = 2
	MaxTitleLength       = 255
	MinDescriptionLength = 5
	MaxDescriptionLength = 255
	MinContentLength     = 10
)

// Input holds the user supplied fields of a post.
type Input struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

// FieldError describes an invalid input field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validateInput(in Input) *FieldError {
	if err := checkLength("title", in.Title, MinTitleLength, MaxTitleLength); err != nil {
		return err
	}
	if !slug.HasIdentifier(in.Title) {
		return &FieldError{Field: "title", Message: "title must contain at least one letter or digit"}
	}
	if err := checkLength("description", in.Description, MinDescriptionLength, MaxDescriptionLength); err != nil {
		return err
	}
	if err := checkLength("content", in.Content, MinContentLength, 0); err != nil {
		return err
	}
	return nil
}

// checkLength validates the rune count of value, max 0 means unbounded.
func checkLength(field, value string, minLen, maxLen int) *FieldError {
	n := utf8.RuneCountInString(value)
	if n < minLen {
		return &FieldError{Field: field, Message: fmt.Sprintf("%s must be at least %d characters", field, minLen)}
	}
	if maxLen > 0 && n > maxLen {
		return &FieldError{Field: field, Message: fmt.Sprintf("%s must be at most %d characters", field, maxLen)}
	}
	return nil
}
