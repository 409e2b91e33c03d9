package cypher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Direction selects the arrow drawn around a relationship pattern.
type Direction int

const (
	// Undirected renders -[...]-.
	Undirected Direction = iota
	// Left renders <-[...]-.
	Left
	// Right renders -[...]->.
	Right
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "undirected"
	}
}

// ParseDirection maps "left", "right" and "undirected" (or "") to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "undirected", "both":
		return Undirected, nil
	case "left", "in", "incoming":
		return Left, nil
	case "right", "out", "outgoing":
		return Right, nil
	default:
		return Undirected, fmt.Errorf("unknown direction %q", s)
	}
}

// Property is a name/value pair used in property filters.
// Value is a string, number or boolean and is written verbatim, so string
// literals must carry their own quotes.
type Property struct {
	Name  string
	Value any
}

// P is a shorthand for Property.
// Example: P("email", "'a@b.com'"), P("age", 34)
func P(name string, value any) Property {
	return Property{Name: name, Value: value}
}

// SetProperty assigns Property on the node bound to Alias in a SET clause.
type SetProperty struct {
	Alias    string
	Property Property
}

// Assign builds a SetProperty rendering as alias.name = value.
func Assign(alias, name string, value any) SetProperty {
	return SetProperty{Alias: alias, Property: P(name, value)}
}

// PathRange is the hop-count qualifier of a variable-length relationship.
// A nil bound is left open.
type PathRange struct {
	Min *int
	Max *int
}

// Between returns a range with both bounds set.
func Between(min, max int) *PathRange {
	return &PathRange{Min: &min, Max: &max}
}

// AtLeast returns a range with only a lower bound.
func AtLeast(min int) *PathRange {
	return &PathRange{Min: &min}
}

// AtMost returns a range with only an upper bound.
func AtMost(max int) *PathRange {
	return &PathRange{Max: &max}
}

// AnyLength returns a range with neither bound, rendering *..
func AnyLength() *PathRange {
	return &PathRange{}
}

// String renders the range as *min..max.
func (r PathRange) String() string {
	var b strings.Builder
	b.WriteByte('*')
	if r.Min != nil {
		b.WriteString(strconv.Itoa(*r.Min))
	}
	b.WriteString("..")
	if r.Max != nil {
		b.WriteString(strconv.Itoa(*r.Max))
	}
	return b.String()
}

// Sort orders results by one property of each aliased node.
type Sort struct {
	Property  string
	Ascending bool
}

// Asc sorts ascending by property.
func Asc(property string) Sort {
	return Sort{Property: property, Ascending: true}
}

// Desc sorts descending by property.
func Desc(property string) Sort {
	return Sort{Property: property}
}

// Value is the operand of Engine.Value: either a Scalar written verbatim or
// a List written as a bracketed literal.
//
// This is a sealed interface; only Scalar and List implement it.
type Value interface {
	render() string
}

// Scalar is query text inserted as-is.
type Scalar string

func (s Scalar) render() string { return string(s) }

// Int renders an integer scalar.
func Int(n int64) Scalar {
	return Scalar(strconv.FormatInt(n, 10))
}

// Float renders a floating point scalar; see formatNumber.
func Float(f float64) Scalar {
	return Scalar(formatNumber(f, 64))
}

// Bool renders true or false.
func Bool(b bool) Scalar {
	return Scalar(strconv.FormatBool(b))
}

// Quote renders s as a single-quoted Cypher string literal.
func Quote(s string) Scalar {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return Scalar("'" + r.Replace(s) + "'")
}

// List is an ordered literal list rendered like JSON: [1,2,3] or ["a","b"].
type List struct {
	items []any
}

// Strings builds a list of string literals.
func Strings(items ...string) List {
	l := List{items: make([]any, len(items))}
	for i, s := range items {
		l.items[i] = s
	}
	return l
}

// Ints builds a list of integer literals.
func Ints(items ...int64) List {
	l := List{items: make([]any, len(items))}
	for i, n := range items {
		l.items[i] = n
	}
	return l
}

// Numbers builds a list of numeric literals. Whole numbers render without a
// fractional part.
func Numbers(items ...float64) List {
	l := List{items: make([]any, len(items))}
	for i, f := range items {
		l.items[i] = json.Number(formatNumber(f, 64))
	}
	return l
}

// Len returns the number of items.
func (l List) Len() int {
	return len(l.items)
}

func (l List) render() string {
	if len(l.items) == 0 {
		return "[]"
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Items are strings, int64 or json.Number. Only a NaN or infinite
	// number can fail to encode.
	_ = enc.Encode(l.items)
	return strings.TrimSuffix(buf.String(), "\n")
}

// formatScalar writes a property value verbatim.
func formatScalar(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case Scalar:
		return string(val)
	case float64:
		return formatNumber(val, 64)
	case float32:
		return formatNumber(float64(val), 32)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// formatNumber writes f with the shortest digits that round-trip, switching
// to exponent form only below 1e-6 or at 1e21 and above. Whole numbers in
// between carry no fraction or exponent, so 1e8 stays 100000000.
func formatNumber(f float64, bits int) string {
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) ||
			bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}
	s := strconv.FormatFloat(f, format, -1, bits)
	if format == 'e' {
		// 1e-07 becomes 1e-7.
		n := len(s)
		if n >= 4 && s[n-4] == 'e' && s[n-3] == '-' && s[n-2] == '0' {
			s = s[:n-2] + s[n-1:]
		}
	}
	return s
}
