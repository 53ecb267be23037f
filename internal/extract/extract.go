// Package extract turns HTML pages into plain text suitable for training a
// character model.
//
// Three modes are supported: Readability keeps only the main article text,
// All keeps every text node, and Markdown keeps the document structure as
// Markdown. An optional CSS selector narrows the document first.
package extract

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// Mode selects how HTML is converted.
type Mode int

const (
	// Readability extracts the main article text (default)
	Readability Mode = iota
	// All keeps the text of every element
	All
	// Markdown converts the whole document to Markdown
	Markdown
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case Readability:
		return "readability"
	case All:
		return "all"
	case Markdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// ParseMode maps a mode name to a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "readability":
		return Readability, nil
	case "all", "text":
		return All, nil
	case "markdown", "md":
		return Markdown, nil
	default:
		return Readability, fmt.Errorf("unknown extraction mode %q", name)
	}
}

// Options control a single conversion.
type Options struct {
	Mode     Mode
	Selector string   // optional CSS selector; overrides Readability
	BaseURL  *url.URL // optional page URL for readability scoring
}

var blankLines = regexp.MustCompile(`\n{3,}`)

// ToText converts the HTML in content to text according to opts.
func ToText(content io.Reader, opts Options) (string, error) {
	var (
		text string
		err  error
	)

	switch {
	case opts.Selector != "":
		text, err = extractWithSelector(content, opts.Selector, opts.Mode == Markdown)
	case opts.Mode == Markdown:
		text, err = convertAllToMarkdown(content)
	case opts.Mode == All:
		text, err = extractAllText(content)
	default:
		text, err = extractMainText(content, opts.BaseURL)
	}
	if err != nil {
		return "", err
	}

	text = tidy(text)
	slog.Debug("HTML extracted", "mode", opts.Mode.String(), "selector", opts.Selector, "textLength", len(text))
	return text, nil
}

// LooksLikeHTML sniffs the start of text for an HTML document.
func LooksLikeHTML(text string) bool {
	head := text
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.HasPrefix(http.DetectContentType([]byte(head)), "text/html")
}

// extractMainText uses go-readability to keep only the main article text
func extractMainText(content io.Reader, baseURL *url.URL) (string, error) {
	if baseURL == nil {
		baseURL = &url.URL{}
	}

	article, err := readability.FromReader(content, baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract main content: %w", err)
	}

	return article.TextContent, nil
}

// extractAllText keeps the text of every element, dropping scripts and styles
func extractAllText(content io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript").Remove()
	return doc.Text(), nil
}

// extractWithSelector keeps only elements matching selector
func extractWithSelector(content io.Reader, selector string, markdown bool) (string, error) {
	doc, err := goquery.NewDocumentFromReader(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	selection := doc.Find(selector)
	if selection.Length() == 0 {
		return "", fmt.Errorf("no elements found matching selector: %s", selector)
	}

	if !markdown {
		var parts []string
		selection.Each(func(_ int, s *goquery.Selection) {
			parts = append(parts, s.Text())
		})
		return strings.Join(parts, "\n\n"), nil
	}

	var htmlParts []string
	selection.Each(func(_ int, s *goquery.Selection) {
		if html, err := goquery.OuterHtml(s); err == nil {
			htmlParts = append(htmlParts, html)
		}
	})
	if len(htmlParts) == 0 {
		return "", fmt.Errorf("failed to extract HTML from selection")
	}

	return convertToMarkdown(strings.Join(htmlParts, "\n"))
}

// convertAllToMarkdown converts the whole document without filtering
func convertAllToMarkdown(content io.Reader) (string, error) {
	htmlBytes, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("failed to read HTML content: %w", err)
	}
	return convertToMarkdown(string(htmlBytes))
}

func convertToMarkdown(htmlString string) (string, error) {
	converter := md.NewConverter("", true, nil)

	markdown, err := converter.ConvertString(htmlString)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}
	return markdown, nil
}

// tidy trims trailing spaces on each line and collapses runs of blank lines.
func tidy(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	text = strings.Join(lines, "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
