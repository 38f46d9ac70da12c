package forms

import (
	"errors"
	"strings"
)

// ErrFieldsRequired is returned when either form field is empty after trimming
var ErrFieldsRequired = errors.New("fill in both fields")

// PostForm holds the cleaned values of a submitted post form
type PostForm struct {
	Author  string
	Content string
}

// CleanPost trims the raw form values and requires both to be non-empty.
// It has no side effects and touches no storage.
func CleanPost(rawAuthor string, rawContent string) (PostForm, error) {
	author := strings.TrimSpace(rawAuthor)
	content := strings.TrimSpace(rawContent)

	if author == "" || content == "" {
		return PostForm{}, ErrFieldsRequired
	}

	return PostForm{Author: author, Content: content}, nil
}
