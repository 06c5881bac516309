package rfp

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	rpdf "rsc.io/pdf"
)

// ErrUnreadableDocument marks a document whose text could not be recovered.
var ErrUnreadableDocument = errors.New("unreadable document")

// DocumentText returns the plain text of a PDF, HTML or UTF-8 text document.
func DocumentText(content []byte) (string, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return "", fmt.Errorf("%w: empty content", ErrUnreadableDocument)
	}

	contentType := http.DetectContentType(content)
	switch {
	case strings.HasPrefix(contentType, "application/pdf"):
		text, err := extractPDFText(content)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
		}
		return text, nil
	case strings.HasPrefix(contentType, "text/html"), strings.HasPrefix(contentType, "text/xml"):
		return htmlToText(content)
	case strings.HasPrefix(contentType, "text/plain"):
		if !utf8.Valid(content) {
			return "", fmt.Errorf("%w: text is not valid UTF-8", ErrUnreadableDocument)
		}
		return string(content), nil
	default:
		return "", fmt.Errorf("%w: unsupported content type %s", ErrUnreadableDocument, contentType)
	}
}

// FileText reads path and returns its document text.
func FileText(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}
	return DocumentText(content)
}

func extractPDFText(content []byte) (text string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("pdf parser panic: %v", recovered)
			text = ""
		}
	}()

	reader, err := rpdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		writePageText(&builder, page.Content().Text)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

// writePageText joins glyph runs, inserting a space only for visible horizontal
// gaps and a newline when the baseline moves. Korean RFPs are often typeset
// without spaces, so a separator per fragment would break literal matching.
func writePageText(builder *strings.Builder, fragments []rpdf.Text) {
	var prev *rpdf.Text
	for i := range fragments {
		frag := &fragments[i]
		if prev != nil {
			size := math.Max(frag.FontSize, 1)
			switch {
			case math.Abs(frag.Y-prev.Y) > size*0.5:
				builder.WriteString("\n")
			case frag.X-(prev.X+prev.W) > size*0.25:
				builder.WriteString(" ")
			}
		}
		builder.WriteString(frag.S)
		prev = frag
	}
}

func htmlToText(content []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}
	doc.Find("script, style, noscript").Remove()

	var lines []string
	doc.Find("body").Contents().Each(func(_ int, sel *goquery.Selection) {
		for _, line := range strings.Split(sel.Text(), "\n") {
			if line = normalizeSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
	})
	if len(lines) == 0 {
		if text := normalizeSpace(doc.Text()); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// normalizeSpace collapses runs of whitespace into one space and trims the string.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
