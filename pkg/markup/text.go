package markup

import (
	"html"
	"io"
	"strings"

	xhtml "golang.org/x/net/html"
)

// Strip converts format markup to plain text. Line breaks (<br>) become
// newlines, every other tag is dropped with its text kept, and entities are
// decoded. Raw newlines in the markup are not significant and are removed.
// Non-breaking spaces become plain spaces, undoing Apply's space runs.
func Strip(s string) string {
	if !strings.ContainsAny(s, "<&\r\n\u00a0") {
		return s
	}
	var b strings.Builder
	z := xhtml.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			if z.Err() != io.EOF {
				// Tokenizer gave up; keep what is left as text.
				b.WriteString(html.UnescapeString(string(z.Raw())))
			}
			return b.String()
		case xhtml.TextToken:
			b.WriteString(textReplacer.Replace(string(z.Text())))
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "br" {
				b.WriteByte('\n')
			}
		}
	}
}

var textReplacer = strings.NewReplacer("\r", "", "\n", "", "\u00a0", " ")

var applyReplacer = strings.NewReplacer(
	"\r", "",
	"\n", "<br/>",
	"  ", " &nbsp;",
)

// Apply converts plain text to format markup, the inverse of Strip.
func Apply(s string) string {
	return applyReplacer.Replace(html.EscapeString(s))
}
