package search

import "fmt"

// Match is one matching line.
type Match struct {
	File        string `json:"file"` // relative to the workspace root
	LineNumber  int    `json:"line_number"`
	LineContent string `json:"line_content"`
}

// SearchContentInput is a regex search over file contents.
type SearchContentInput struct {
	Query          string `json:"query"`
	Path           string `json:"path,omitempty"`
	CaseSensitive  bool   `json:"case_sensitive,omitempty"`
	IncludeIgnored bool   `json:"include_ignored,omitempty"`
	Offset         int    `json:"offset,omitempty"`
	Limit          int    `json:"limit,omitempty"`
}

func (r *SearchContentInput) TargetPaths() []string {
	if r.Path == "" {
		return nil
	}
	return []string{r.Path}
}

func (r *SearchContentInput) SetTargetPaths(paths []string) {
	if len(paths) > 0 {
		r.Path = paths[0]
	}
}

func (r *SearchContentInput) String() string {
	if r.Path == "" {
		return fmt.Sprintf("%q", r.Query)
	}
	return fmt.Sprintf("%q in %s", r.Query, r.Path)
}
