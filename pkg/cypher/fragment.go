package cypher

import "strings"

// Separators written after a fragment.
const (
	lineBreak   = "\n"
	space       = " "
	noSeparator = ""
)

// Fragment is one rendered unit of query text and the separator that
// follows it when another fragment comes after.
type Fragment struct {
	Text      string
	Separator string
}

// Join renders fragments in order. Each fragment is followed by its
// separator except the last one. An empty slice renders "".
func Join(fragments []Fragment) string {
	var b strings.Builder
	for i, f := range fragments {
		b.WriteString(f.Text)
		if i < len(fragments)-1 {
			b.WriteString(f.Separator)
		}
	}
	return b.String()
}
