// Package forms supplies the contact form shown after feedback
// submission. The lifecycle asks for the form on demand; loaders here
// read a JSON form definition from disk or serve a built-in default.
package forms

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mazequest/mazequest/game/lifecycle"
)

// DefaultForm returns the built-in contact form definition
func DefaultForm() *lifecycle.Form {
	return &lifecycle.Form{
		Title: "Get in touch",
		Fields: []lifecycle.FormField{
			{Name: "name", Label: "Your name", Type: "text", Required: true},
			{Name: "email", Label: "Email address", Type: "email", Required: true},
			{Name: "message", Label: "Message", Type: "textarea", Required: true},
		},
	}
}

// Static serves a fixed form definition
type Static struct {
	form *lifecycle.Form
}

// NewStatic creates a loader serving the given form, or the built-in
// default when form is nil.
func NewStatic(form *lifecycle.Form) *Static {
	if form == nil {
		form = DefaultForm()
	}
	return &Static{form: form}
}

// Load returns the static form
func (s *Static) Load(ctx context.Context) (*lifecycle.Form, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.form, nil
}

// FileLoader reads the form definition from a JSON file on every
// load, so the form can be edited without restarting the server.
type FileLoader struct {
	path string
}

// NewFileLoader creates a loader reading from path
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

// Load reads and parses the form definition
func (f *FileLoader) Load(ctx context.Context) (*lifecycle.Form, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read form definition: %w", err)
	}

	var form lifecycle.Form
	if err := json.Unmarshal(data, &form); err != nil {
		return nil, fmt.Errorf("failed to parse form definition '%s': %w", f.path, err)
	}
	if form.Title == "" || len(form.Fields) == 0 {
		return nil, fmt.Errorf("form definition '%s' must have a title and at least one field", f.path)
	}

	return &form, nil
}
