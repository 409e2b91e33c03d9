package cypher

// Engine builds a single Cypher query from chained calls.
//
// Every method appends to the query and returns the same Engine. The zero
// value is not usable; construct with New.
type Engine struct {
	b builder
}

// New creates an empty Engine.
func New() *Engine {
	return &Engine{b: newBuilder()}
}

// Cypher renders the accumulated query, or the first recorded error.
// Rendering does not change the Engine and may be repeated.
func (e *Engine) Cypher() (string, error) {
	return e.b.render()
}

// String renders the query. It returns "" when an error was recorded; use
// Cypher or Err to see it.
func (e *Engine) String() string {
	s, _ := e.b.render()
	return s
}

// Err returns the first error recorded by a builder call, if any.
func (e *Engine) Err() error {
	return e.b.err
}

// Fragments returns a copy of the fragments appended so far.
func (e *Engine) Fragments() []Fragment {
	return e.b.snapshot()
}

// Aliases returns the aliases currently in scope, in introduction order.
func (e *Engine) Aliases() []string {
	return e.b.nodes.list()
}

func (e *Engine) subquery() (string, error) {
	if e == nil {
		return "", nil
	}
	return e.Cypher()
}

// Match appends MATCH.
func (e *Engine) Match() *Engine {
	e.b.keyword("MATCH")
	return e
}

// OptionalMatch appends OPTIONAL MATCH.
func (e *Engine) OptionalMatch() *Engine {
	e.b.keyword("OPTIONAL")
	return e.Match()
}

// Create appends CREATE.
func (e *Engine) Create() *Engine {
	e.b.keyword("CREATE")
	return e
}

// Merge appends MERGE.
func (e *Engine) Merge() *Engine {
	e.b.keyword("MERGE")
	return e
}

// Node appends (alias:Label1:Label2{props}) and registers alias when set.
func (e *Engine) Node(labels []string, alias string, props ...Property) *Engine {
	e.b.node(labels, alias, props)
	return e
}

// DeclaredNode appends (alias:Extra...) for an alias introduced earlier.
// An unknown alias records an ErrCodeUnknownAlias error.
func (e *Engine) DeclaredNode(alias string, extraLabels ...string) *Engine {
	e.b.declaredNode(alias, extraLabels)
	return e
}

// Variable appends alias.property, or (alias) when property is empty.
func (e *Engine) Variable(alias, property string) *Engine {
	e.b.variable(alias, property)
	return e
}

// Relates appends a relationship pattern. types are alternatives joined by
// |. With no types, alias, range or properties it renders --.
func (e *Engine) Relates(dir Direction, types []string, alias string, rng *PathRange, props ...Property) *Engine {
	e.b.relates(dir, types, alias, rng, props)
	return e
}

// Delete appends DELETE alias[,more...].
func (e *Engine) Delete(alias string, more ...string) *Engine {
	e.b.delete(append([]string{alias}, more...))
	return e
}

// Detach appends DETACH; follow it with Delete.
func (e *Engine) Detach() *Engine {
	e.b.keyword("DETACH")
	return e
}

// Where appends WHERE.
func (e *Engine) Where() *Engine {
	e.b.keyword("WHERE")
	return e
}

// Unwind appends UNWIND.
func (e *Engine) Unwind() *Engine {
	e.b.keyword("UNWIND")
	return e
}

// With appends WITH a,b (or WITH * without aliases). Given aliases replace
// the aliases in scope; WITH * leaves the scope untouched.
func (e *Engine) With(aliases ...string) *Engine {
	e.b.with(aliases)
	return e
}

// Exists appends exists(alias.property).
func (e *Engine) Exists(alias, property string) *Engine {
	e.b.exists(alias, property)
	return e
}

// Value appends v verbatim. Quote string literals yourself.
func (e *Engine) Value(v Value) *Engine {
	e.b.value(v)
	return e
}

// Set appends SET alias.name = value, ... or a bare SET.
func (e *Engine) Set(props ...SetProperty) *Engine {
	e.b.set(props)
	return e
}

// OnCreate appends ON CREATE.
func (e *Engine) OnCreate() *Engine {
	e.b.keyword("ON CREATE")
	return e
}

// OnMatch appends ON MATCH.
func (e *Engine) OnMatch() *Engine {
	e.b.keyword("ON MATCH")
	return e
}

// And appends AND.
func (e *Engine) And() *Engine {
	e.b.keyword("AND")
	return e
}

// Or appends OR.
func (e *Engine) Or() *Engine {
	e.b.keyword("OR")
	return e
}

// Is appends IS.
func (e *Engine) Is() *Engine {
	e.b.keyword("IS")
	return e
}

// In appends IN.
func (e *Engine) In() *Engine {
	e.b.keyword("IN")
	return e
}

// Null appends NULL.
func (e *Engine) Null() *Engine {
	e.b.keyword("NULL")
	return e
}

// Not appends NOT.
func (e *Engine) Not() *Engine {
	e.b.keyword("NOT")
	return e
}

// Equals appends =.
func (e *Engine) Equals() *Engine {
	e.b.keyword("=")
	return e
}

// GreaterThan appends >.
func (e *Engine) GreaterThan() *Engine {
	e.b.keyword(">")
	return e
}

// LessThan appends <.
func (e *Engine) LessThan() *Engine {
	e.b.keyword("<")
	return e
}

// StartsWith appends STARTS WITH.
func (e *Engine) StartsWith() *Engine {
	e.b.keyword("STARTS WITH")
	return e
}

// EndsWith appends ENDS WITH.
func (e *Engine) EndsWith() *Engine {
	e.b.keyword("ENDS WITH")
	return e
}

// Contains appends CONTAINS.
func (e *Engine) Contains() *Engine {
	e.b.keyword("CONTAINS")
	return e
}

// RegularExpression appends =~.
func (e *Engine) RegularExpression() *Engine {
	e.b.keyword("=~")
	return e
}

// Call appends CALL procedure.
func (e *Engine) Call(procedure string) *Engine {
	e.b.call(procedure)
	return e
}

// CallQuery appends CALL {...} around the nested builder's current text.
// An error recorded by nested is recorded here too.
func (e *Engine) CallQuery(nested Subquery) *Engine {
	e.b.callQuery(nested)
	return e
}

// Returns appends RETURN a,b (or RETURN * without aliases).
func (e *Engine) Returns(aliases ...string) *Engine {
	e.b.returns(aliases)
	return e
}

// Limit appends LIMIT v.
func (e *Engine) Limit(v Scalar) *Engine {
	e.b.limit(v)
	return e
}

// Skip appends SKIP v.
func (e *Engine) Skip(v Scalar) *Engine {
	e.b.skip(v)
	return e
}

// OrderBy appends ORDER BY with every sort applied to every alias.
// Without sorts nothing is appended.
func (e *Engine) OrderBy(aliases []string, sorts ...Sort) *Engine {
	e.b.orderBy(aliases, sorts, true)
	return e
}

// OrderByItems is OrderBy without the ORDER BY keyword.
func (e *Engine) OrderByItems(aliases []string, sorts ...Sort) *Engine {
	e.b.orderBy(aliases, sorts, false)
	return e
}

// Case appends CASE.
func (e *Engine) Case() *Engine {
	e.b.keyword("CASE")
	return e
}

// When appends WHEN.
func (e *Engine) When() *Engine {
	e.b.keyword("WHEN")
	return e
}

// Then appends THEN.
func (e *Engine) Then() *Engine {
	e.b.keyword("THEN")
	return e
}

// Else appends ELSE.
func (e *Engine) Else() *Engine {
	e.b.keyword("ELSE")
	return e
}

// Remove appends REMOVE.
func (e *Engine) Remove() *Engine {
	e.b.keyword("REMOVE")
	return e
}

// Conditional appends thenText when test is true and elseText otherwise,
// both as verbatim values.
func (e *Engine) Conditional(test bool, thenText, elseText string) *Engine {
	if test {
		return e.Value(Scalar(thenText))
	}
	return e.Value(Scalar(elseText))
}

// ConditionalFunc runs thenFn when test is true and elseFn otherwise.
// The other function is never called. A nil function is a no-op.
func (e *Engine) ConditionalFunc(test bool, thenFn, elseFn func(*Engine) *Engine) *Engine {
	fn := elseFn
	if test {
		fn = thenFn
	}
	if fn != nil {
		fn(e)
	}
	return e
}
