package extract_test

import (
	"strings"
	"testing"

	"github.com/chriscorrea/babble/internal/extract"
)

const (
	articleHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Sonnets</title>
    <style>body { color: red; }</style>
</head>
<body>
    <nav>Home | Catalog | Search</nav>
    <main>
        <article>
            <h1>Sonnet XVIII</h1>
            <p>Shall I compare thee to a summer's day? Thou art more lovely and more temperate.</p>
            <p>Rough winds do shake the darling buds of May, and <strong>summer's lease</strong> hath all too short a date.</p>
            <p>Sometime too hot the eye of heaven shines, and often is his gold complexion dimm'd.</p>
        </article>
    </main>
    <script>var tracking = true;</script>
    <footer><p>Transcribed by volunteers</p></footer>
</body>
</html>`

	poemsHTML = `<html><body>
<div class="poem"><p>Tyger Tyger, burning bright,</p></div>
<div class="note">Editor's note</div>
<div class="poem"><p>In the forests of the night;</p></div>
</body></html>`
)

func TestToText(t *testing.T) {
	tests := []struct {
		name        string
		html        string
		opts        extract.Options
		expectError bool
		contains    []string
		notContains []string
	}{
		{
			name:        "readability keeps the article",
			html:        articleHTML,
			opts:        extract.Options{Mode: extract.Readability},
			contains:    []string{"Shall I compare thee", "darling buds of May"},
			notContains: []string{"<p>", "var tracking"},
		},
		{
			name:        "all keeps every text node except scripts and styles",
			html:        articleHTML,
			opts:        extract.Options{Mode: extract.All},
			contains:    []string{"Home | Catalog | Search", "Sonnet XVIII", "Transcribed by volunteers"},
			notContains: []string{"var tracking", "color: red", "<strong>"},
		},
		{
			name:        "markdown keeps structure",
			html:        articleHTML,
			opts:        extract.Options{Mode: extract.Markdown},
			contains:    []string{"Sonnet XVIII", "**summer's lease**"},
			notContains: []string{"<article>"},
		},
		{
			name:        "selector as plain text",
			html:        poemsHTML,
			opts:        extract.Options{Mode: extract.All, Selector: ".poem"},
			contains:    []string{"Tyger Tyger, burning bright,", "In the forests of the night;"},
			notContains: []string{"Editor's note"},
		},
		{
			name:        "selector as markdown",
			html:        poemsHTML,
			opts:        extract.Options{Mode: extract.Markdown, Selector: ".poem"},
			contains:    []string{"Tyger Tyger", "forests of the night"},
			notContains: []string{"Editor's note", "<div"},
		},
		{
			name:        "selector without matches",
			html:        poemsHTML,
			opts:        extract.Options{Selector: ".missing"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := extract.ToText(strings.NewReader(tt.html), tt.opts)
			if tt.expectError {
				if err == nil {
					t.Errorf("ToText() expected error, got text %q", text)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToText() unexpected error: %v", err)
			}

			for _, want := range tt.contains {
				if !strings.Contains(text, want) {
					t.Errorf("ToText() result missing %q\n%s", want, text)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(text, unwanted) {
					t.Errorf("ToText() result should not contain %q\n%s", unwanted, text)
				}
			}
			if strings.Contains(text, "\n\n\n") {
				t.Errorf("ToText() result has uncollapsed blank lines\n%s", text)
			}
		})
	}
}

func TestLooksLikeHTML(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"doctype", "<!DOCTYPE html><html></html>", true},
		{"html tag with leading space", "  <html><body>x</body></html>", true},
		{"plain prose", "It was the best of times, it was the worst of times.", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extract.LooksLikeHTML(tt.text); got != tt.want {
				t.Errorf("LooksLikeHTML(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    extract.Mode
		wantErr bool
	}{
		{"", extract.Readability, false},
		{"readability", extract.Readability, false},
		{"ALL", extract.All, false},
		{"md", extract.Markdown, false},
		{"pdf", extract.Readability, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := extract.ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
