// Package fetch loads corpus text from files, standard input, and URLs.
//
// Every source is read in full and returned as a Document. Bytes that are not
// valid UTF-8 are dropped rather than rejected, so a mostly-clean file with a few
// stray bytes still trains.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Size limits to keep a single corpus source from exhausting memory.
const (
	MaxFileSizeBytes = 64 * 1024 * 1024  // 64MB limit for files and stdin
	MaxHTTPSizeBytes = 100 * 1024 * 1024 // 100MB limit for HTTP content (may not have Content-Length)
)

// HTTPRequestTimeout bounds a whole HTTP fetch.
const HTTPRequestTimeout = 30 * time.Second

// Stdin is the source name that reads standard input.
const Stdin = "-"

var (
	HTTPDialTimeout           = HTTPRequestTimeout / 6
	HTTPTLSTimeout            = HTTPRequestTimeout / 6
	HTTPResponseHeaderTimeout = HTTPRequestTimeout / 2
)

// Document is the full text of one source.
type Document struct {
	Source string // path, URL, or "-"
	Text   string // valid UTF-8
	HTML   bool   // the content type or file extension says HTML
}

// limitedReadCloser wraps an io.ReadCloser to enforce size limits
type limitedReadCloser struct {
	io.ReadCloser
	N           int64  // max bytes remaining
	source      string // for error messages
	contentType string // media type reported by the server, if any
}

// Read fails only when content continues past the limit; a source of exactly
// N bytes reads to a clean EOF.
func (l *limitedReadCloser) Read(p []byte) (n int, err error) {
	if l.N <= 0 {
		var extra [1]byte
		n, err = l.ReadCloser.Read(extra[:])
		if n == 0 {
			return 0, err
		}
		return 0, fmt.Errorf("content from %q exceeds size limit", l.source)
	}
	if int64(len(p)) > l.N {
		p = p[0:l.N]
	}
	n, err = l.ReadCloser.Read(p)
	l.N -= int64(n)
	return
}

// ContentType returns the media type of an HTTP response, without parameters.
func (l *limitedReadCloser) ContentType() string {
	return l.contentType
}

// httpClient is shared across fetches and safe for concurrent use.
var httpClient = &http.Client{
	Timeout: HTTPRequestTimeout,
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: HTTPDialTimeout,
		}).DialContext,
		TLSHandshakeTimeout:   HTTPTLSTimeout,
		ResponseHeaderTimeout: HTTPResponseHeaderTimeout,
		DisableKeepAlives:     true,
	},
}

// GetContent opens a source for reading:
//   - "-" reads from standard input (closing the reader leaves stdin open)
//   - URLs starting with "http://" or "https://" are fetched via HTTP
//   - everything else is treated as a local file path
func GetContent(ctx context.Context, source string) (io.ReadCloser, error) {
	switch {
	case source == Stdin:
		return &limitedReadCloser{
			ReadCloser: io.NopCloser(os.Stdin),
			N:          MaxFileSizeBytes,
			source:     "stdin",
		}, nil
	case IsURL(source):
		return fetchURL(ctx, source)
	default:
		return fetchFile(source)
	}
}

// ReadText reads a whole source into a Document.
func ReadText(ctx context.Context, source string) (Document, error) {
	reader, err := GetContent(ctx, source)
	if err != nil {
		return Document{}, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read %q: %w", source, err)
	}

	doc := Document{
		Source: source,
		Text:   strings.ToValidUTF8(string(data), ""),
		HTML:   isHTMLSource(source, reader),
	}

	slog.Debug("Source read", "source", source, "bytes", len(data), "textLength", len(doc.Text), "html", doc.HTML)
	return doc, nil
}

// IsURL reports whether source is fetched over HTTP.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func isHTMLSource(source string, reader io.Reader) bool {
	if typed, ok := reader.(interface{ ContentType() string }); ok && typed.ContentType() != "" {
		ct := typed.ContentType()
		return ct == "text/html" || ct == "application/xhtml+xml"
	}

	switch strings.ToLower(filepath.Ext(source)) {
	case ".html", ".htm", ".xhtml":
		return true
	}
	return false
}

// fetchURL retrieves content from an HTTP or HTTPS URL using the shared client.
func fetchURL(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for URL %q: %w", url, err)
	}
	req.Header.Set("User-Agent", "babble/0.1")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %q: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP request failed for URL %q: status %d %s", url, resp.StatusCode, resp.Status)
	}

	if contentLength := resp.Header.Get("Content-Length"); contentLength != "" {
		if size, err := strconv.ParseInt(contentLength, 10, 64); err == nil && size > MaxHTTPSizeBytes {
			resp.Body.Close()
			return nil, fmt.Errorf("HTTP content too large (%d bytes > %d bytes limit)", size, MaxHTTPSizeBytes)
		}
	}

	contentType := ""
	if mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil {
		contentType = mediaType
	}

	return &limitedReadCloser{
		ReadCloser:  resp.Body,
		N:           MaxHTTPSizeBytes,
		source:      url,
		contentType: contentType,
	}, nil
}

// fetchFile opens a local file after checking that it exists and fits the size limit.
func fetchFile(path string) (io.ReadCloser, error) {
	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file %q does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to access file %q: %w", path, err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%q is a directory", path)
	}

	if fileInfo.Size() > MaxFileSizeBytes {
		return nil, fmt.Errorf("file %q is too large (%d bytes > %d bytes limit)",
			path, fileInfo.Size(), MaxFileSizeBytes)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}

	return file, nil
}
