package web

// FetchInput names a URL to GET.
type FetchInput struct {
	URL string `json:"url"`
	Raw bool   `json:"raw,omitempty"` // return HTML unconverted
}

func (r *FetchInput) String() string { return r.URL }

// AllowScope narrows a "proceed always" grant to the URL's host.
func (r *FetchInput) AllowScope() string { return hostOf(r.URL) }
