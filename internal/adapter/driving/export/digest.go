// Package export renders the current thread view as a standalone HTML digest,
// for sharing review state outside the editor.
package export

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/ericfisherdev/reviewdeck/internal/application"
	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

var (
	mdRenderer    goldmark.Markdown
	htmlSanitizer *bluemonday.Policy
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)

	htmlSanitizer = bluemonday.UGCPolicy()
}

// WriteDigest writes an HTML document listing every unresolved thread of the
// view in canonical order: thread head first, replies indented beneath it,
// each with its diff hunk.
func WriteDigest(w io.Writer, ref model.PullRequestRef, view *application.ThreadView) error {
	var buf bytes.Buffer

	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&buf, "<title>Review threads for %s</title>\n", html.EscapeString(ref.String()))
	buf.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&buf, "<h1>%s</h1>\n", html.EscapeString(ref.String()))

	items := view.Items()
	fmt.Fprintf(&buf, "<p>%d unresolved comments in %d threads</p>\n", view.Len(), len(items))

	for _, item := range items {
		buf.WriteString("<section class=\"thread\">\n")
		writeComment(&buf, item.Comment, "comment comment-head")
		for _, child := range item.Children {
			writeComment(&buf, child, "comment comment-reply")
		}
		buf.WriteString("</section>\n")
	}

	buf.WriteString("</body>\n</html>\n")

	_, err := w.Write(buf.Bytes())
	return err
}

func writeComment(buf *bytes.Buffer, c model.Comment, cssClass string) {
	fmt.Fprintf(buf, "<article class=%q>\n", cssClass)
	fmt.Fprintf(buf, "<header>%s &mdash; %s:%d &mdash; %s</header>\n",
		html.EscapeString(c.Author),
		html.EscapeString(c.Path),
		c.DisplayLine(),
		c.CreatedAt.Format("2006-01-02 15:04"),
	)
	if c.DiffHunk != "" {
		fmt.Fprintf(buf, "<pre class=\"diff\">%s</pre>\n", RenderDiffHunk(c.DiffHunk))
	}
	fmt.Fprintf(buf, "<div class=\"body\">%s</div>\n", RenderMarkdown(c.Body))
	buf.WriteString("</article>\n")
}

// RenderMarkdown converts a markdown string to sanitized HTML.
// Returns empty string for empty input.
func RenderMarkdown(src string) string {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return htmlSanitizer.Sanitize(src)
	}

	return htmlSanitizer.Sanitize(buf.String())
}

// RenderDiffHunk converts a unified diff hunk into HTML with line-level CSS classes.
// Each line is wrapped in a <span> with a class indicating its diff role:
//   - diff-add: added lines (prefix "+")
//   - diff-del: deleted lines (prefix "-")
//   - diff-header: hunk headers (prefix "@@")
//   - diff-ctx: context lines (no special prefix)
func RenderDiffHunk(hunk string) string {
	if hunk == "" {
		return ""
	}

	lines := strings.Split(hunk, "\n")
	var buf strings.Builder
	buf.Grow(len(hunk) * 2)

	for i, line := range lines {
		if i > 0 {
			buf.WriteByte('\n')
		}

		cssClass := classForDiffLine(line)
		escaped := htmlSanitizer.Sanitize(line)

		buf.WriteString(`<span class="`)
		buf.WriteString(cssClass)
		buf.WriteString(`">`)
		buf.WriteString(escaped)
		buf.WriteString(`</span>`)
	}

	return buf.String()
}

func classForDiffLine(line string) string {
	if strings.HasPrefix(line, "@@") {
		return "diff-header"
	}
	if strings.HasPrefix(line, "+") {
		return "diff-add"
	}
	if strings.HasPrefix(line, "-") {
		return "diff-del"
	}
	return "diff-ctx"
}
