package fetch

import (
	"io"
	"strings"
	"testing"
)

func TestLimitedReadCloser(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		limit       int64
		expectError bool
	}{
		{"under limit", "abc", 5, false},
		{"exactly at limit", "abcde", 5, false},
		{"one byte over", "abcdef", 5, true},
		{"empty content", "", 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := &limitedReadCloser{
				ReadCloser: io.NopCloser(strings.NewReader(tt.content)),
				N:          tt.limit,
				source:     "test",
			}

			data, err := io.ReadAll(reader)
			if tt.expectError {
				if err == nil || !strings.Contains(err.Error(), "exceeds size limit") {
					t.Errorf("ReadAll() error = %v, expected size limit error", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("ReadAll() unexpected error: %v", err)
			}
			if string(data) != tt.content {
				t.Errorf("ReadAll() = %q, want %q", data, tt.content)
			}
		})
	}
}
