package extract

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var blankLinesRe = regexp.MustCompile(`\n{3,}`)

// ReduceHTML collapses a fetched HTML document to plain text suitable for
// pattern extraction and archival. Scripts, styles and chrome elements
// are dropped; product links are kept inline as "text (href)" so the
// heuristic extractor can recover product URLs.
func ReduceHTML(html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	doc.Find("script, style, noscript, iframe, svg, nav, header, footer").Remove()

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		text := strings.TrimSpace(a.Text())
		if href == "" || text == "" {
			return
		}
		a.SetText(fmt.Sprintf("%s (%s)", text, href))
	})

	var b strings.Builder
	doc.Find("body").Each(func(_ int, body *goquery.Selection) {
		// Block elements become line breaks so unrelated listings never
		// run together on one line.
		blockText := body.Find("div, p, li, h1, h2, h3, h4, tr, article, section")
		if blockText.Length() == 0 {
			b.WriteString(body.Text())
			return
		}
		blockText.Each(func(_ int, s *goquery.Selection) {
			// Only leaf blocks produce lines; containers would duplicate
			// their children's text.
			if s.Find("div, p, li, h1, h2, h3, h4, tr, article, section").Length() > 0 {
				return
			}
			line := strings.Join(strings.Fields(s.Text()), " ")
			if line == "" {
				return
			}
			b.WriteString(line)
			b.WriteString("\n")
		})
	})

	text := b.String()
	if text == "" {
		text = strings.Join(strings.Fields(doc.Text()), " ")
	}
	return strings.TrimSpace(blankLinesRe.ReplaceAllString(text, "\n\n")), nil
}
