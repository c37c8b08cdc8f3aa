package suggest

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxTitleLength is the longest title a user may submit
const MaxTitleLength = 100

const (
	msgTitleRequired = "Please enter a movie title"
	msgTitleCharset  = "Movie titles can only contain letters, numbers and spaces"
	msgTitleTooLong  = "Movie title should be under 100 characters"
)

var titlePattern = regexp.MustCompile(`^[a-zA-Z0-9\s]+$`)

// ValidationError is a field-level message shown next to the input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidateTitle checks free text typed into the search field and returns
// the trimmed title
func ValidateTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	switch {
	case title == "":
		return "", &ValidationError{Field: "title", Message: msgTitleRequired}
	case !titlePattern.MatchString(title):
		return "", &ValidationError{Field: "title", Message: msgTitleCharset}
	case utf8.RuneCountInString(title) > MaxTitleLength:
		return "", &ValidationError{Field: "title", Message: msgTitleTooLong}
	}
	return title, nil
}
