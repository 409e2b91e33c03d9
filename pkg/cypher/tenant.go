package cypher

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// TenantConfig holds the fixed tokens a TenantEngine injects.
type TenantConfig struct {
	// HousekeepingLabel is prepended to every node pattern the engine
	// writes, tenant-scoped or not.
	HousekeepingLabel string

	// Placeholder is the label written into tenant-scoped node patterns and
	// substituted with each tenant at render time.
	Placeholder string

	// Directive is the execution-mode line Cypher puts before the query.
	Directive string

	// UnionSeparator joins the per-tenant copies of the query.
	UnionSeparator string
}

// DefaultTenantConfig returns the tokens used by NewTenantEngine.
func DefaultTenantConfig() TenantConfig {
	return TenantConfig{
		HousekeepingLabel: "Elements",
		Placeholder:       "{#tenant#}",
		Directive:         "CYPHER runtime=slotted",
		UnionSeparator:    "\nUNION ",
	}
}

// withDefaults fills empty fields from DefaultTenantConfig.
func (c TenantConfig) withDefaults() TenantConfig {
	d := DefaultTenantConfig()
	if c.HousekeepingLabel == "" {
		c.HousekeepingLabel = d.HousekeepingLabel
	}
	if c.Placeholder == "" {
		c.Placeholder = d.Placeholder
	}
	if c.Directive == "" {
		c.Directive = d.Directive
	}
	if c.UnionSeparator == "" {
		c.UnionSeparator = d.UnionSeparator
	}
	return c
}

// QuoteTenant returns tenant as a backtick-quoted label. The identifier is
// NFC-normalized so visually identical tenants produce the same label, and
// embedded backticks are doubled.
func QuoteTenant(tenant string) string {
	t := norm.NFC.String(tenant)
	return "`" + strings.ReplaceAll(t, "`", "``") + "`"
}

// ReplicateTenants renders one copy of template per tenant, replacing every
// occurrence of placeholder with the tenant, and joins the copies with
// union. Tenants are used as given (already quoted). With no tenants the
// template is returned unchanged. An empty placeholder matches nothing, so
// each copy is the template as is.
func ReplicateTenants(template, placeholder, union string, tenants []string) string {
	if len(tenants) == 0 {
		return template
	}
	var b strings.Builder
	for i, tenant := range tenants {
		if placeholder == "" {
			b.WriteString(template)
		} else {
			b.WriteString(strings.ReplaceAll(template, placeholder, tenant))
		}
		if i < len(tenants)-1 {
			b.WriteString(union)
		}
	}
	return b.String()
}

// TenantEngine builds a query scoped to one or more tenants.
//
// Node patterns carry the housekeeping label and a tenant placeholder; the
// rendered query is replicated per tenant and joined with UNION. MERGE and
// CREATE are only allowed with zero or one tenant.
type TenantEngine struct {
	b       builder
	cfg     TenantConfig
	tenants []string
}

// NewTenantEngine creates a TenantEngine with DefaultTenantConfig.
func NewTenantEngine(tenants ...string) *TenantEngine {
	return NewTenantEngineWithConfig(DefaultTenantConfig(), tenants...)
}

// NewTenantEngineWithConfig creates a TenantEngine with custom tokens.
// Empty config fields fall back to DefaultTenantConfig.
func NewTenantEngineWithConfig(cfg TenantConfig, tenants ...string) *TenantEngine {
	quoted := make([]string, len(tenants))
	for i, t := range tenants {
		quoted[i] = QuoteTenant(t)
	}
	return &TenantEngine{
		b:       newBuilder(),
		cfg:     cfg.withDefaults(),
		tenants: quoted,
	}
}

// Tenants returns the quoted tenant labels in configuration order.
func (e *TenantEngine) Tenants() []string {
	out := make([]string, len(e.tenants))
	copy(out, e.tenants)
	return out
}

// Config returns the tokens this engine injects.
func (e *TenantEngine) Config() TenantConfig {
	return e.cfg
}

// Template renders the fragments without tenant substitution. Tenant-scoped
// node patterns still carry the placeholder.
func (e *TenantEngine) Template() (string, error) {
	return e.b.render()
}

// CypherRaw renders the tenant-replicated query without the directive line.
// This is the form embedded by CallQuery.
func (e *TenantEngine) CypherRaw() (string, error) {
	template, err := e.b.render()
	if err != nil {
		return "", err
	}
	return ReplicateTenants(template, e.cfg.Placeholder, e.cfg.UnionSeparator, e.tenants), nil
}

// Cypher renders the directive line followed by the tenant-replicated query.
func (e *TenantEngine) Cypher() (string, error) {
	raw, err := e.CypherRaw()
	if err != nil {
		return "", err
	}
	return e.cfg.Directive + "\n" + raw, nil
}

// String renders like Cypher and returns "" when an error was recorded.
func (e *TenantEngine) String() string {
	s, _ := e.Cypher()
	return s
}

// Err returns the first error recorded by a builder call, if any.
func (e *TenantEngine) Err() error {
	return e.b.err
}

// Fragments returns a copy of the fragments appended so far.
func (e *TenantEngine) Fragments() []Fragment {
	return e.b.snapshot()
}

// Aliases returns the aliases currently in scope, in introduction order.
func (e *TenantEngine) Aliases() []string {
	return e.b.nodes.list()
}

func (e *TenantEngine) subquery() (string, error) {
	if e == nil {
		return "", nil
	}
	return e.CypherRaw()
}

// scopedLabels returns a fresh slice of prefix followed by labels; the
// caller's slice is never modified.
func scopedLabels(labels []string, prefix ...string) []string {
	out := make([]string, 0, len(prefix)+len(labels))
	out = append(out, prefix...)
	return append(out, labels...)
}

// Match appends MATCH.
func (e *TenantEngine) Match() *TenantEngine {
	e.b.keyword("MATCH")
	return e
}

// OptionalMatch appends OPTIONAL MATCH.
func (e *TenantEngine) OptionalMatch() *TenantEngine {
	e.b.keyword("OPTIONAL")
	return e.Match()
}

// Create appends CREATE. More than one tenant records an
// ErrCodeAmbiguousTenancy error.
func (e *TenantEngine) Create() *TenantEngine {
	if len(e.tenants) > 1 {
		e.b.fail(newAmbiguousTenancyError("Create", "create", len(e.tenants)))
		return e
	}
	e.b.keyword("CREATE")
	return e
}

// Merge appends MERGE. More than one tenant records an
// ErrCodeAmbiguousTenancy error.
func (e *TenantEngine) Merge() *TenantEngine {
	if len(e.tenants) > 1 {
		e.b.fail(newAmbiguousTenancyError("Merge", "merge", len(e.tenants)))
		return e
	}
	e.b.keyword("MERGE")
	return e
}

// Node appends a tenant-scoped node pattern
// (alias:Housekeeping:Placeholder:Label...{props}). Without tenants it
// records an ErrCodeTenancyRequired error.
func (e *TenantEngine) Node(labels []string, alias string, props ...Property) *TenantEngine {
	if len(e.tenants) == 0 {
		e.b.fail(newTenancyRequiredError("Node"))
		return e
	}
	e.b.node(scopedLabels(labels, e.cfg.HousekeepingLabel, e.cfg.Placeholder), alias, props)
	return e
}

// NodeTenantless appends a node pattern carrying only the housekeeping
// label. It works with any number of tenants, including none.
func (e *TenantEngine) NodeTenantless(labels []string, alias string, props ...Property) *TenantEngine {
	e.b.node(scopedLabels(labels, e.cfg.HousekeepingLabel), alias, props)
	return e
}

// DeclaredNode appends (alias:Extra...) for an alias introduced earlier.
func (e *TenantEngine) DeclaredNode(alias string, extraLabels ...string) *TenantEngine {
	e.b.declaredNode(alias, extraLabels)
	return e
}

// Variable appends alias.property, or (alias) when property is empty.
func (e *TenantEngine) Variable(alias, property string) *TenantEngine {
	e.b.variable(alias, property)
	return e
}

// Relates appends a relationship pattern; see Engine.Relates.
func (e *TenantEngine) Relates(dir Direction, types []string, alias string, rng *PathRange, props ...Property) *TenantEngine {
	e.b.relates(dir, types, alias, rng, props)
	return e
}

// Delete appends DELETE alias[,more...].
func (e *TenantEngine) Delete(alias string, more ...string) *TenantEngine {
	e.b.delete(append([]string{alias}, more...))
	return e
}

// Detach appends DETACH.
func (e *TenantEngine) Detach() *TenantEngine {
	e.b.keyword("DETACH")
	return e
}

// Where appends WHERE.
func (e *TenantEngine) Where() *TenantEngine {
	e.b.keyword("WHERE")
	return e
}

// Unwind appends UNWIND.
func (e *TenantEngine) Unwind() *TenantEngine {
	e.b.keyword("UNWIND")
	return e
}

// With appends WITH; see Engine.With for the scope rules.
func (e *TenantEngine) With(aliases ...string) *TenantEngine {
	e.b.with(aliases)
	return e
}

// Exists appends exists(alias.property).
func (e *TenantEngine) Exists(alias, property string) *TenantEngine {
	e.b.exists(alias, property)
	return e
}

// Value appends v verbatim.
func (e *TenantEngine) Value(v Value) *TenantEngine {
	e.b.value(v)
	return e
}

// Set appends SET alias.name = value, ... or a bare SET.
func (e *TenantEngine) Set(props ...SetProperty) *TenantEngine {
	e.b.set(props)
	return e
}

// OnCreate appends ON CREATE.
func (e *TenantEngine) OnCreate() *TenantEngine {
	e.b.keyword("ON CREATE")
	return e
}

// OnMatch appends ON MATCH.
func (e *TenantEngine) OnMatch() *TenantEngine {
	e.b.keyword("ON MATCH")
	return e
}

// And appends AND.
func (e *TenantEngine) And() *TenantEngine {
	e.b.keyword("AND")
	return e
}

// Or appends OR.
func (e *TenantEngine) Or() *TenantEngine {
	e.b.keyword("OR")
	return e
}

// Is appends IS.
func (e *TenantEngine) Is() *TenantEngine {
	e.b.keyword("IS")
	return e
}

// In appends IN.
func (e *TenantEngine) In() *TenantEngine {
	e.b.keyword("IN")
	return e
}

// Null appends NULL.
func (e *TenantEngine) Null() *TenantEngine {
	e.b.keyword("NULL")
	return e
}

// Not appends NOT.
func (e *TenantEngine) Not() *TenantEngine {
	e.b.keyword("NOT")
	return e
}

// Equals appends =.
func (e *TenantEngine) Equals() *TenantEngine {
	e.b.keyword("=")
	return e
}

// GreaterThan appends >.
func (e *TenantEngine) GreaterThan() *TenantEngine {
	e.b.keyword(">")
	return e
}

// LessThan appends <.
func (e *TenantEngine) LessThan() *TenantEngine {
	e.b.keyword("<")
	return e
}

// StartsWith appends STARTS WITH.
func (e *TenantEngine) StartsWith() *TenantEngine {
	e.b.keyword("STARTS WITH")
	return e
}

// EndsWith appends ENDS WITH.
func (e *TenantEngine) EndsWith() *TenantEngine {
	e.b.keyword("ENDS WITH")
	return e
}

// Contains appends CONTAINS.
func (e *TenantEngine) Contains() *TenantEngine {
	e.b.keyword("CONTAINS")
	return e
}

// RegularExpression appends =~.
func (e *TenantEngine) RegularExpression() *TenantEngine {
	e.b.keyword("=~")
	return e
}

// Call appends CALL procedure.
func (e *TenantEngine) Call(procedure string) *TenantEngine {
	e.b.call(procedure)
	return e
}

// CallQuery appends CALL {...} around the nested builder's current text.
// A nested TenantEngine contributes its replicated text without directive.
func (e *TenantEngine) CallQuery(nested Subquery) *TenantEngine {
	e.b.callQuery(nested)
	return e
}

// Returns appends RETURN a,b (or RETURN * without aliases).
func (e *TenantEngine) Returns(aliases ...string) *TenantEngine {
	e.b.returns(aliases)
	return e
}

// Limit appends LIMIT v.
func (e *TenantEngine) Limit(v Scalar) *TenantEngine {
	e.b.limit(v)
	return e
}

// Skip appends SKIP v.
func (e *TenantEngine) Skip(v Scalar) *TenantEngine {
	e.b.skip(v)
	return e
}

// OrderBy appends ORDER BY; see Engine.OrderBy.
func (e *TenantEngine) OrderBy(aliases []string, sorts ...Sort) *TenantEngine {
	e.b.orderBy(aliases, sorts, true)
	return e
}

// OrderByItems is OrderBy without the ORDER BY keyword.
func (e *TenantEngine) OrderByItems(aliases []string, sorts ...Sort) *TenantEngine {
	e.b.orderBy(aliases, sorts, false)
	return e
}

// Case appends CASE.
func (e *TenantEngine) Case() *TenantEngine {
	e.b.keyword("CASE")
	return e
}

// When appends WHEN.
func (e *TenantEngine) When() *TenantEngine {
	e.b.keyword("WHEN")
	return e
}

// Then appends THEN.
func (e *TenantEngine) Then() *TenantEngine {
	e.b.keyword("THEN")
	return e
}

// Else appends ELSE.
func (e *TenantEngine) Else() *TenantEngine {
	e.b.keyword("ELSE")
	return e
}

// Remove appends REMOVE.
func (e *TenantEngine) Remove() *TenantEngine {
	e.b.keyword("REMOVE")
	return e
}

// Conditional appends thenText when test is true and elseText otherwise.
func (e *TenantEngine) Conditional(test bool, thenText, elseText string) *TenantEngine {
	if test {
		return e.Value(Scalar(thenText))
	}
	return e.Value(Scalar(elseText))
}

// ConditionalFunc runs thenFn when test is true and elseFn otherwise.
func (e *TenantEngine) ConditionalFunc(test bool, thenFn, elseFn func(*TenantEngine) *TenantEngine) *TenantEngine {
	fn := elseFn
	if test {
		fn = thenFn
	}
	if fn != nil {
		fn(e)
	}
	return e
}
