package web

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Cyclone1070/warden/internal/config"
	"github.com/Cyclone1070/warden/internal/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetch(t *testing.T, maxBytes int64) *FetchTool {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Tools.MaxFetchBytes = maxBytes
	client, err := NewHTTPClient("", 5*time.Second)
	require.NoError(t, err)
	return NewFetchTool(client, cfg)
}

func serve(t *testing.T, contentType string, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_HTMLToText(t *testing.T) {
	page := `<html><head><title>Docs</title><style>body{}</style></head>
<body><h1>Install</h1><p>Run <code>go install</code> now.</p><script>alert(1)</script>
<ul><li>one</li><li>two</li></ul></body></html>`
	srv := serve(t, "text/html; charset=utf-8", http.StatusOK, page)
	ft := newTestFetch(t, 1<<20)

	out, err := ft.Execute(context.Background(), &FetchInput{URL: srv.URL})

	require.NoError(t, err)
	assert.Contains(t, out.Content, "Status: 200 OK")
	assert.Contains(t, out.Content, "Docs\nInstall\nRun go install now.\n- one\n- two")
	assert.NotContains(t, out.Content, "alert")
	assert.NotContains(t, out.Content, "body{}")
}

func TestFetch_RawHTML(t *testing.T) {
	srv := serve(t, "text/html", http.StatusOK, "<p>hi</p>")
	ft := newTestFetch(t, 1<<20)

	out, err := ft.Execute(context.Background(), &FetchInput{URL: srv.URL, Raw: true})

	require.NoError(t, err)
	assert.Contains(t, out.Content, "<p>hi</p>")
}

func TestFetch_Truncates(t *testing.T) {
	srv := serve(t, "text/plain", http.StatusOK, strings.Repeat("a", 100))
	ft := newTestFetch(t, 10)

	out, err := ft.Execute(context.Background(), &FetchInput{URL: srv.URL})

	require.NoError(t, err)
	assert.Contains(t, out.Content, "\n\naaaaaaaaaa\n\n[Response truncated at 10 bytes]")
}

func TestFetch_StatusError(t *testing.T) {
	srv := serve(t, "text/plain", http.StatusNotFound, "missing")
	ft := newTestFetch(t, 1<<20)

	out, err := ft.Execute(context.Background(), &FetchInput{URL: srv.URL})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "missing", out.Content)
}

func TestFetch_BinaryRefused(t *testing.T) {
	srv := serve(t, "application/octet-stream", http.StatusOK, "\x00\x01\x02")
	ft := newTestFetch(t, 1<<20)

	_, err := ft.Execute(context.Background(), &FetchInput{URL: srv.URL})

	assert.ErrorIs(t, err, ErrBinaryContent)
}

func TestFetch_RejectsSchemes(t *testing.T) {
	ft := newTestFetch(t, 1<<20)

	for _, u := range []string{"file:///etc/passwd", "ftp://example.com/x", "not a url", "http://"} {
		t.Run(u, func(t *testing.T) {
			_, err := ft.Execute(context.Background(), &FetchInput{URL: u})
			assert.ErrorIs(t, err, ErrUnsupportedScheme)
			assert.Equal(t, tool.CodeInvalidArguments, tool.CodeOf(err))
		})
	}
}

func TestFetchInput_AllowScope(t *testing.T) {
	assert.Equal(t, "example.com", (&FetchInput{URL: "https://example.com:8443/a"}).AllowScope())
}

func TestNewHTTPClient_Proxies(t *testing.T) {
	_, err := NewHTTPClient("socks5://127.0.0.1:1080", time.Second)
	assert.NoError(t, err)

	_, err = NewHTTPClient("http://proxy.local:3128", time.Second)
	assert.NoError(t, err)

	_, err = NewHTTPClient("gopher://proxy.local:70", time.Second)
	var proxyErr *ProxyError
	assert.ErrorAs(t, err, &proxyErr)
}
