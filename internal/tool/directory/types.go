package directory

import "fmt"

// DirectoryEntry represents a single entry in a listing or a find result.
type DirectoryEntry struct {
	Path  string `json:"path"` // relative to the workspace root, slash separated
	IsDir bool   `json:"is_dir"`
	Size  int64  `json:"size,omitempty"`
}

// -- List Directory --

type ListDirectoryInput struct {
	Path           string `json:"path,omitempty"`
	MaxDepth       int    `json:"max_depth,omitempty"` // 0 = immediate children, -1 = unlimited
	IncludeIgnored bool   `json:"include_ignored,omitempty"`
	Offset         int    `json:"offset,omitempty"`
	Limit          int    `json:"limit,omitempty"`
}

func (r *ListDirectoryInput) TargetPaths() []string {
	if r.Path == "" {
		return nil
	}
	return []string{r.Path}
}

func (r *ListDirectoryInput) SetTargetPaths(paths []string) {
	if len(paths) > 0 {
		r.Path = paths[0]
	}
}

func (r *ListDirectoryInput) String() string {
	if r.Path == "" {
		return "(workspace root)"
	}
	return r.Path
}

// -- Find File --

type FindFileInput struct {
	Pattern        string `json:"pattern"`
	Path           string `json:"path,omitempty"`
	MaxDepth       int    `json:"max_depth,omitempty"` // 0 = unlimited
	IncludeIgnored bool   `json:"include_ignored,omitempty"`
	Limit          int    `json:"limit,omitempty"`
}

func (r *FindFileInput) TargetPaths() []string {
	if r.Path == "" {
		return nil
	}
	return []string{r.Path}
}

func (r *FindFileInput) SetTargetPaths(paths []string) {
	if len(paths) > 0 {
		r.Path = paths[0]
	}
}

func (r *FindFileInput) String() string {
	if r.Path == "" {
		return r.Pattern
	}
	return fmt.Sprintf("%s in %s", r.Pattern, r.Path)
}
