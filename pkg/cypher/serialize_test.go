package cypher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodePattern(t *testing.T) {
	assert.Equal(t, "()", nodePattern(nil, "", nil))
	assert.Equal(t, "(n)", nodePattern(nil, "n", nil))
	assert.Equal(t, "(:A:B)", nodePattern([]string{"A", "B"}, "", nil))
	assert.Equal(t, "(n:A{x:1, y:'z'})", nodePattern([]string{"A"}, "n", []Property{P("x", 1), P("y", "'z'")}))
}

func TestRelationshipPattern(t *testing.T) {
	testCases := []struct {
		name  string
		dir   Direction
		types []string
		alias string
		rng   *PathRange
		props []Property
		want  string
	}{
		{name: "bare undirected", dir: Undirected, want: "--"},
		{name: "bare directed still shorthand", dir: Right, want: "--"},
		{name: "typed right", dir: Right, types: []string{"KNOWS"}, want: "-[:KNOWS]->"},
		{name: "typed left", dir: Left, types: []string{"KNOWS"}, want: "<-[:KNOWS]-"},
		{name: "alternatives", dir: Undirected, types: []string{"A", "B"}, want: "-[:A|B]-"},
		{name: "alias only", dir: Right, alias: "r", want: "-[r]->"},
		{name: "range only", dir: Right, rng: AnyLength(), want: "-[*..]->"},
		{name: "props only", dir: Left, props: []Property{P("since", 2020)}, want: "<-[{since:2020}]-"},
		{
			name:  "everything",
			dir:   Right,
			types: []string{"works_for"},
			alias: "r",
			rng:   Between(2, 4),
			props: []Property{P("years", 5)},
			want:  "-[r:works_for*2..4{years:5}]->",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, relationshipPattern(tc.dir, tc.types, tc.alias, tc.rng, tc.props))
		})
	}
}

func TestPathRange(t *testing.T) {
	assert.Equal(t, "*1..3", Between(1, 3).String())
	assert.Equal(t, "*3..", AtLeast(3).String())
	assert.Equal(t, "*..3", AtMost(3).String())
	assert.Equal(t, "*..", AnyLength().String())
}

func TestOrderByItems(t *testing.T) {
	assert.Equal(t, "ORDER BY n.a", orderByItems([]string{"n"}, []Sort{Asc("a")}, true))
	assert.Equal(t, "ORDER BY n.a DESC", orderByItems([]string{"n"}, []Sort{Desc("a")}, true))
	assert.Equal(t, "ORDER BY n.a  , n.b DESC", orderByItems([]string{"n"}, []Sort{Asc("a"), Desc("b")}, true))
	assert.Equal(t, " n.a  , m.a", orderByItems([]string{"n", "m"}, []Sort{Asc("a")}, false))
}

func TestPropertySetter(t *testing.T) {
	got := propertySetter([]SetProperty{Assign("n", "a", 1), Assign("m", "b", "$b")})
	assert.Equal(t, "n.a = 1, m.b = $b", got)
}

func TestFormatScalar(t *testing.T) {
	assert.Equal(t, "null", formatScalar(nil))
	assert.Equal(t, "'x'", formatScalar("'x'"))
	assert.Equal(t, "42", formatScalar(42))
	assert.Equal(t, "1.5", formatScalar(1.5))
	assert.Equal(t, "false", formatScalar(false))
	assert.Equal(t, "$p", formatScalar(Scalar("$p")))
	assert.Equal(t, "right", formatScalar(Right))

	assert.Equal(t, "100000000", formatScalar(100000000.0))
	assert.Equal(t, "1e+21", formatScalar(1e21))
	assert.Equal(t, "1e-7", formatScalar(1e-7))
	assert.Equal(t, "0.000001", formatScalar(1e-6))
	assert.Equal(t, "-2.5", formatScalar(-2.5))
	assert.Equal(t, "0.1", formatScalar(float32(0.1)))
	assert.Equal(t, "0", formatScalar(0.0))
}

func TestFormatNumber_MatchesListAndFloat(t *testing.T) {
	for _, f := range []float64{100000000, 1e21, 1e-7, 123.456, 0.5, -3} {
		scalar := formatScalar(f)
		assert.Equal(t, Scalar(scalar), Float(f), "Float(%v)", f)
		assert.Equal(t, "["+scalar+"]", Numbers(f).render(), "Numbers(%v)", f)
	}
}

func TestNodePattern_FloatProperty(t *testing.T) {
	got := New().Match().Node([]string{"P"}, "n", P("score", 100000000.0)).String()
	assert.Equal(t, "MATCH (n:P{score:100000000})", got)
	assert.Equal(t, "[100000000]", New().Value(Numbers(100000000.0)).String())
	assert.Equal(t, Scalar("1e+21"), Float(1e21))
}

func TestValues(t *testing.T) {
	assert.Equal(t, "[1,2,3]", Ints(1, 2, 3).render())
	assert.Equal(t, `["a","b<c>"]`, Strings("a", "b<c>").render())
	assert.Equal(t, "[1,2.5]", Numbers(1, 2.5).render())
	assert.Equal(t, "[]", Strings().render())
	assert.Equal(t, 3, Ints(1, 2, 3).Len())

	assert.Equal(t, Scalar("-7"), Int(-7))
	assert.Equal(t, Scalar("0.25"), Float(0.25))
	assert.Equal(t, Scalar("true"), Bool(true))
	assert.Equal(t, Scalar(`'it\'s'`), Quote("it's"))
}

func TestParseDirection(t *testing.T) {
	testCases := map[string]Direction{
		"":           Undirected,
		"undirected": Undirected,
		"Left":       Left,
		"incoming":   Left,
		" right ":    Right,
		"out":        Right,
	}
	for in, want := range testCases {
		got, err := ParseDirection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDirection("sideways")
	assert.Error(t, err)
}
