package markdown

import (
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

// ToWidgetHTML converts model markdown into the limited HTML subset the chat
// widget renders.
func ToWidgetHTML(markdown string) string {
	if markdown == "" {
		return ""
	}

	html := string(blackfriday.Run([]byte(markdown), blackfriday.WithExtensions(blackfriday.CommonExtensions)))

	return cleanHTMLForWidget(html)
}

// cleanHTMLForWidget strips the output down to widget-supported tags
func cleanHTMLForWidget(html string) string {
	// Remove wrapping <p> tags
	html = regexp.MustCompile(`<p>(.*?)</p>`).ReplaceAllString(html, "$1\n")

	// Convert <strong> to <b>
	html = strings.ReplaceAll(html, "<strong>", "<b>")
	html = strings.ReplaceAll(html, "</strong>", "</b>")

	// Convert <em> to <i>
	html = strings.ReplaceAll(html, "<em>", "<i>")
	html = strings.ReplaceAll(html, "</em>", "</i>")

	// Handle code blocks
	html = regexp.MustCompile(`<pre><code(?: class="[^"]*")?>(.*?)</code></pre>`).ReplaceAllString(html, "<pre>$1</pre>")

	// Flatten lists into bullet lines
	html = strings.ReplaceAll(html, "<ul>", "")
	html = strings.ReplaceAll(html, "</ul>", "")
	html = strings.ReplaceAll(html, "<ol>", "")
	html = strings.ReplaceAll(html, "</ol>", "")
	html = strings.ReplaceAll(html, "<li>", "• ")
	html = strings.ReplaceAll(html, "</li>", "\n")

	// Remove any other HTML tags the widget doesn't support
	supported := map[string]bool{
		"b": true, "i": true, "u": true, "s": true,
		"code": true, "pre": true, "a": true, "br": true,
	}
	tagPattern := regexp.MustCompile(`</?([a-zA-Z]+)(?:\s[^>]*)?>`)
	nameOf := regexp.MustCompile(`</?([a-zA-Z]+)`)

	html = tagPattern.ReplaceAllStringFunc(html, func(match string) string {
		tagMatch := nameOf.FindStringSubmatch(match)
		if len(tagMatch) > 1 && supported[strings.ToLower(tagMatch[1])] {
			return match
		}
		return ""
	})

	return strings.TrimSpace(html)
}
