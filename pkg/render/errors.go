package render

import "fmt"

// TemplateLoadError reports a template directory that could not be loaded:
// the directory is unreadable or one of its files failed to parse.
type TemplateLoadError struct {
	Dir string
	Err error
}

func (e *TemplateLoadError) Error() string {
	return fmt.Sprintf("render: failed loading templates from %s: %v", e.Dir, e.Err)
}

func (e *TemplateLoadError) Unwrap() error {
	return e.Err
}

// TemplateRenderError reports a failure while rendering a loaded template.
type TemplateRenderError struct {
	Name string
	Err  error
}

func (e *TemplateRenderError) Error() string {
	return fmt.Sprintf("render: error rendering %s: %v", e.Name, e.Err)
}

func (e *TemplateRenderError) Unwrap() error {
	return e.Err
}
