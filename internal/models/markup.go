package models

// Markup identifies the markup language a comment body is written in.
// The numeric values are part of the stored data; 4 belonged to a
// retired HTML choice and stays unused.
type Markup int

const (
	MarkupMarkdown  Markup = 1
	MarkupTextile   Markup = 2
	MarkupRest      Markup = 3
	MarkupPlaintext Markup = 5
)

var markupNames = map[Markup]string{
	MarkupMarkdown:  "markdown",
	MarkupTextile:   "textile",
	MarkupRest:      "restructuredtext",
	MarkupPlaintext: "plaintext",
}

// String returns the lowercase markup name. Unknown values resolve to
// plaintext, matching the write-path default.
func (m Markup) String() string {
	if name, ok := markupNames[m]; ok {
		return name
	}
	return "plaintext"
}

// ParseMarkup maps a markup name to its value. Unknown or empty names
// fall back to plaintext.
func ParseMarkup(name string) Markup {
	for m, n := range markupNames {
		if n == name {
			return m
		}
	}
	return MarkupPlaintext
}
