package reversaar

import (
	"bytes"
	"context"
	"html"
	"strings"
)

// TestResult holds the output of rendering a component for testing.
type TestResult struct {
	HTML string
}

// TestRender renders r and returns testable output.
//
//	result, err := reversaar.TestRender(ctx, listing)
//	if !result.HTMLContains(`data-index="0"`) {
//	    t.Fatal("missing first entry")
//	}
func TestRender(ctx context.Context, r Renderer) (*TestResult, error) {
	var buf bytes.Buffer
	if err := r.Render(ctx).Render(ctx, &buf); err != nil {
		return nil, err
	}
	return &TestResult{HTML: buf.String()}, nil
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the HTML contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// HTMLContainsAny checks if the HTML contains any of the given substrings.
func (r *TestResult) HTMLContainsAny(substrs ...string) bool {
	for _, s := range substrs {
		if strings.Contains(r.HTML, s) {
			return true
		}
	}
	return false
}

// HasNotice checks if a notice with the given level and message was
// rendered.
func (r *TestResult) HasNotice(level, message string) bool {
	for _, n := range parseNotices(r.HTML) {
		if n.Level == level && n.Message == message {
			return true
		}
	}
	return false
}

// parseNotices extracts notices rendered by RenderNotices.
// Looks for: <div class="notice notice-error" ...>message</div>
func parseNotices(doc string) []Notice {
	var out []Notice
	const marker = `class="notice notice-`
	for {
		i := strings.Index(doc, marker)
		if i < 0 {
			return out
		}
		doc = doc[i+len(marker):]
		end := strings.IndexByte(doc, '"')
		if end < 0 {
			return out
		}
		level := doc[:end]
		open := strings.IndexByte(doc, '>')
		if open < 0 {
			return out
		}
		doc = doc[open+1:]
		closing := strings.Index(doc, "</div>")
		if closing < 0 {
			return out
		}
		out = append(out, Notice{Level: level, Message: html.UnescapeString(doc[:closing])})
		doc = doc[closing:]
	}
}
