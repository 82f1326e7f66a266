package file

import "fmt"

// -- Read File --

type ReadFileInput struct {
	Path   string `json:"path"`
	Offset *int64 `json:"offset,omitempty"`
	Limit  *int64 `json:"limit,omitempty"`
}

func (r *ReadFileInput) TargetPaths() []string { return []string{r.Path} }

func (r *ReadFileInput) SetTargetPaths(paths []string) { r.Path = paths[0] }

func (r *ReadFileInput) String() string {
	if r.Offset == nil && r.Limit == nil {
		return r.Path
	}
	return fmt.Sprintf("%s [offset %d, limit %d]", r.Path, deref(r.Offset), deref(r.Limit))
}

// -- Write File --

type WriteFileInput struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

func (r *WriteFileInput) TargetPaths() []string { return []string{r.Path} }

func (r *WriteFileInput) SetTargetPaths(paths []string) { r.Path = paths[0] }

func (r *WriteFileInput) String() string {
	return fmt.Sprintf("%s (%d bytes)", r.Path, len(r.Content))
}

// -- Edit File --

type EditOperation struct {
	Before               string `json:"before"`
	After                string `json:"after"`
	ExpectedReplacements int    `json:"expected_replacements,omitempty"` // 0 means 1
}

type EditFileInput struct {
	Path       string          `json:"path"`
	Operations []EditOperation `json:"operations"`
}

func (r *EditFileInput) TargetPaths() []string { return []string{r.Path} }

func (r *EditFileInput) SetTargetPaths(paths []string) { r.Path = paths[0] }

func (r *EditFileInput) String() string {
	return fmt.Sprintf("%s (%d operations)", r.Path, len(r.Operations))
}

func deref(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}
