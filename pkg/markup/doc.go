// Package markup handles the small amount of HTML that crossword formats
// embed in text fields: CSS-style color strings and line-break markup.
//
// Colors are parsed leniently. Hex ("#rgb", "#rrggbb"), rgb()/rgba(),
// hsl()/hsla() and named colors are accepted; alpha is ignored. Named colors
// match after whitespace is removed, falling back to the alphabetically first
// name with the given prefix, so "light golden rod" is lightgoldenrodyellow.
//
// Text helpers convert between plain text and format markup:
//
//	Strip("a<b>b</b><br/>c &amp; d") // "ab\nc & d"
//	Apply("a & b\nc")                 // "a &amp; b<br/>c"
package markup
