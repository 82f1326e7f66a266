package web

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/Cyclone1070/warden/internal/config"
	"github.com/Cyclone1070/warden/internal/tool"
	"github.com/Cyclone1070/warden/internal/tool/helper/content"
)

const userAgent = "warden/1.0 (+https://github.com/Cyclone1070/warden)"

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// FetchTool retrieves web pages for the model.
type FetchTool struct {
	client httpDoer
	config *config.Config
}

// NewFetchTool creates a new FetchTool.
func NewFetchTool(client httpDoer, cfg *config.Config) *FetchTool {
	return &FetchTool{client: client, config: cfg}
}

func (t *FetchTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        "fetch_url",
		Description: "Fetch a web page over http or https. HTML is converted to plain text unless raw is set. Large responses are truncated.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"url": {Type: tool.TypeString, Description: "The http or https URL"},
				"raw": {Type: tool.TypeBoolean, Description: "Return the body without HTML conversion"},
			},
			Required: []string{"url"},
		},
	}
}

func (t *FetchTool) Input() any { return &FetchInput{} }

// Execute GETs the URL and returns its text. Non-2xx responses are errors.
func (t *FetchTool) Execute(ctx context.Context, input any) (tool.Output, error) {
	req, ok := input.(*FetchInput)
	if !ok {
		return tool.Output{}, fmt.Errorf("invalid input type: %T", input)
	}

	u, err := url.Parse(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return tool.Output{}, tool.NewError(tool.CodeInvalidArguments, "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, req.URL))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return tool.Output{}, err
	}
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set("Accept", "text/html,text/plain,application/json;q=0.9,*/*;q=0.5")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return tool.Output{}, err
	}
	defer resp.Body.Close()

	limit := t.config.Tools.MaxFetchBytes
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return tool.Output{}, fmt.Errorf("failed to read response from %s: %w", req.URL, err)
	}
	truncated := int64(len(body)) > limit
	if truncated {
		body = body[:limit]
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return tool.Output{Content: string(firstBytes(body, 512))},
			&StatusError{URL: req.URL, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	text := string(body)
	switch {
	case mediaType == "text/html" || mediaType == "application/xhtml+xml":
		if !req.Raw {
			text, err = htmlToText(bytes.NewReader(body))
			if err != nil {
				return tool.Output{}, fmt.Errorf("failed to parse HTML from %s: %w", req.URL, err)
			}
		}
	case content.IsBinaryContent(body):
		return tool.Output{}, fmt.Errorf("%w: %s (%s)", ErrBinaryContent, req.URL, mediaType)
	}

	final := u.String()
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "URL: %s\nStatus: %s\n\n%s", final, resp.Status, text)
	if truncated {
		fmt.Fprintf(&b, "\n\n[Response truncated at %d bytes]", limit)
	}

	return tool.Output{
		Content: b.String(),
		Display: tool.TextDisplay(fmt.Sprintf("Fetched %s (%s, %d bytes)", req.URL, resp.Status, len(body))),
	}, nil
}

func firstBytes(b []byte, n int) []byte {
	return b[:min(len(b), n)]
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
