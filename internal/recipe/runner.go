package recipe

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/cyphergen/pkg/cypher"
)

// Result is a built recipe.
type Result struct {
	Name    string   `json:"name"`
	Engine  string   `json:"engine"`
	Tenants []string `json:"tenants,omitempty"`

	// Cypher is the full query text; for tenant recipes it starts with the
	// directive line.
	Cypher string `json:"cypher"`

	// Raw is the tenant-replicated text without the directive line. It equals
	// Cypher for basic recipes.
	Raw string `json:"raw"`

	// Fingerprint identifies Cypher; see Fingerprint.
	Fingerprint string `json:"fingerprint"`
}

// Runner builds recipes into Cypher text.
type Runner struct {
	logger *slog.Logger
	cfg    cypher.TenantConfig
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used for step tracing.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTenantConfig sets the tokens used for tenant recipes.
func WithTenantConfig(cfg cypher.TenantConfig) Option {
	return func(r *Runner) {
		r.cfg = cfg
	}
}

// NewRunner creates a Runner. By default it logs nothing and uses
// cypher.DefaultTenantConfig.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		cfg:    cypher.DefaultTenantConfig(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Build validates rec and applies its steps. A non-empty tenants slice
// replaces the recipe's own tenants.
func (r *Runner) Build(rec *Recipe, tenants []string) (*Result, error) {
	if errs := Validate(rec); len(errs) > 0 {
		return nil, fmt.Errorf("invalid recipe %q: %w", rec.Name, errs[0])
	}
	if len(tenants) == 0 {
		tenants = rec.Tenants
	}

	log := r.logger.With("recipe", rec.Name, "engine", rec.Kind())
	log.Debug("building recipe", "steps", len(rec.Steps), "tenants", len(tenants))

	res := &Result{Name: rec.Name, Engine: rec.Kind()}

	switch rec.Kind() {
	case EngineTenant:
		e, err := r.tenantEngine(rec, tenants, log)
		if err != nil {
			log.Warn("recipe failed", "error", err)
			return nil, fmt.Errorf("build %q: %w", rec.Name, err)
		}
		if res.Cypher, err = e.Cypher(); err != nil {
			return nil, fmt.Errorf("build %q: %w", rec.Name, err)
		}
		if res.Raw, err = e.CypherRaw(); err != nil {
			return nil, fmt.Errorf("build %q: %w", rec.Name, err)
		}
		res.Tenants = e.Tenants()
	default:
		e, err := apply(cypher.New(), rec.Steps, &buildContext{runner: r, log: log})
		if err == nil {
			res.Cypher, err = e.Cypher()
		}
		if err != nil {
			log.Warn("recipe failed", "error", err)
			return nil, fmt.Errorf("build %q: %w", rec.Name, err)
		}
		res.Raw = res.Cypher
	}

	res.Fingerprint = Fingerprint(res.Cypher)
	log.Debug("recipe built", "bytes", len(res.Cypher), "fingerprint", res.Fingerprint[:12])
	return res, nil
}

func (r *Runner) tenantEngine(rec *Recipe, tenants []string, log *slog.Logger) (*cypher.TenantEngine, error) {
	e := cypher.NewTenantEngineWithConfig(r.cfg, tenants...)
	e, err := apply(e, rec.Steps, &buildContext{runner: r, log: log, tenants: tenants})
	if err != nil {
		return nil, err
	}
	return e, e.Err()
}

// subquery builds a nested call_query recipe. A tenant subquery without its
// own tenants inherits the enclosing ones.
func (r *Runner) subquery(rec *Recipe, inherited []string, log *slog.Logger) (cypher.Subquery, error) {
	log = log.With("subquery", rec.Name)
	if rec.Kind() == EngineTenant {
		tenants := rec.Tenants
		if len(tenants) == 0 {
			tenants = inherited
		}
		return r.tenantEngine(rec, tenants, log)
	}
	return apply(cypher.New(), rec.Steps, &buildContext{runner: r, log: log})
}

// buildContext carries what steps need besides the engine. tenants holds
// the unquoted tenants of the enclosing tenant recipe, if any.
type buildContext struct {
	runner  *Runner
	log     *slog.Logger
	tenants []string
}

// chain is the builder surface shared by cypher.Engine and
// cypher.TenantEngine.
type chain[E any] interface {
	Match() E
	OptionalMatch() E
	Create() E
	Merge() E
	Node(labels []string, alias string, props ...cypher.Property) E
	DeclaredNode(alias string, extraLabels ...string) E
	Variable(alias, property string) E
	Relates(dir cypher.Direction, types []string, alias string, rng *cypher.PathRange, props ...cypher.Property) E
	Delete(alias string, more ...string) E
	Detach() E
	Where() E
	Unwind() E
	With(aliases ...string) E
	Exists(alias, property string) E
	Value(v cypher.Value) E
	Set(props ...cypher.SetProperty) E
	OnCreate() E
	OnMatch() E
	And() E
	Or() E
	Is() E
	In() E
	Null() E
	Not() E
	Equals() E
	GreaterThan() E
	LessThan() E
	StartsWith() E
	EndsWith() E
	Contains() E
	RegularExpression() E
	Call(procedure string) E
	CallQuery(nested cypher.Subquery) E
	Returns(aliases ...string) E
	Limit(v cypher.Scalar) E
	Skip(v cypher.Scalar) E
	OrderBy(aliases []string, sorts ...cypher.Sort) E
	OrderByItems(aliases []string, sorts ...cypher.Sort) E
	Case() E
	When() E
	Then() E
	Else() E
	Remove() E
	Conditional(test bool, thenText, elseText string) E
	Err() error
}

// apply runs steps against e in order. It stops at the first step that
// leaves an error on the engine.
func apply[E chain[E]](e E, steps []Step, bc *buildContext) (E, error) {
	for i := range steps {
		s := &steps[i]
		bc.log.Debug("step", "index", i, "op", s.Op)

		var err error
		e, err = applyStep(e, s, bc)
		if err == nil {
			err = e.Err()
		}
		if err != nil {
			return e, fmt.Errorf("step %d (%s): %w", i, s.Op, err)
		}
	}
	return e, nil
}

func applyStep[E chain[E]](e E, s *Step, bc *buildContext) (E, error) {
	switch s.Op {
	case OpMatch:
		return e.Match(), nil
	case OpOptionalMatch:
		return e.OptionalMatch(), nil
	case OpCreate:
		return e.Create(), nil
	case OpMerge:
		return e.Merge(), nil
	case OpNode:
		return e.Node(s.Labels, s.Alias, properties(s.Properties)...), nil
	case OpNodeTenantless:
		te, ok := any(e).(*cypher.TenantEngine)
		if !ok {
			return e, fmt.Errorf("%s requires the tenant engine", s.Op)
		}
		te.NodeTenantless(s.Labels, s.Alias, properties(s.Properties)...)
		return e, nil
	case OpDeclaredNode:
		return e.DeclaredNode(s.Alias, s.Labels...), nil
	case OpVariable:
		return e.Variable(s.Alias, s.Property), nil
	case OpRelates:
		dir, err := cypher.ParseDirection(s.Direction)
		if err != nil {
			return e, err
		}
		return e.Relates(dir, s.Types, s.Alias, pathRange(s.Range), properties(s.Properties)...), nil
	case OpDelete:
		return e.Delete(s.Aliases[0], s.Aliases[1:]...), nil
	case OpDetach:
		return e.Detach(), nil
	case OpWhere:
		return e.Where(), nil
	case OpUnwind:
		return e.Unwind(), nil
	case OpWith:
		return e.With(s.Aliases...), nil
	case OpExists:
		return e.Exists(s.Alias, s.Property), nil
	case OpValue:
		return e.Value(operand(s)), nil
	case OpSet:
		return e.Set(assignments(s.Assign)...), nil
	case OpOnCreate:
		return e.OnCreate(), nil
	case OpOnMatch:
		return e.OnMatch(), nil
	case OpAnd:
		return e.And(), nil
	case OpOr:
		return e.Or(), nil
	case OpIs:
		return e.Is(), nil
	case OpIn:
		return e.In(), nil
	case OpNull:
		return e.Null(), nil
	case OpNot:
		return e.Not(), nil
	case OpEquals:
		return e.Equals(), nil
	case OpGreaterThan:
		return e.GreaterThan(), nil
	case OpLessThan:
		return e.LessThan(), nil
	case OpStartsWith:
		return e.StartsWith(), nil
	case OpEndsWith:
		return e.EndsWith(), nil
	case OpContains:
		return e.Contains(), nil
	case OpRegularExpression:
		return e.RegularExpression(), nil
	case OpCall:
		return e.Call(s.Procedure), nil
	case OpCallQuery:
		nested, err := bc.runner.subquery(s.Query, bc.tenants, bc.log)
		if err != nil {
			return e, fmt.Errorf("call query: %w", err)
		}
		return e.CallQuery(nested), nil
	case OpReturns:
		return e.Returns(s.Aliases...), nil
	case OpLimit:
		return e.Limit(cypher.Scalar(*s.Value)), nil
	case OpSkip:
		return e.Skip(cypher.Scalar(*s.Value)), nil
	case OpOrderBy:
		return e.OrderBy(s.Aliases, sorts(s.Sorts)...), nil
	case OpOrderByItems:
		return e.OrderByItems(s.Aliases, sorts(s.Sorts)...), nil
	case OpCase:
		return e.Case(), nil
	case OpWhen:
		return e.When(), nil
	case OpThen:
		return e.Then(), nil
	case OpElse:
		return e.Else(), nil
	case OpRemove:
		return e.Remove(), nil
	case OpConditional:
		test := *s.If
		if s.ThenText != nil || s.ElseText != nil {
			return e.Conditional(test, deref(s.ThenText), deref(s.ElseText)), nil
		}
		branch := s.Else
		if test {
			branch = s.Then
		}
		return apply(e, branch, bc)
	default:
		return e, fmt.Errorf("unknown op %q", s.Op)
	}
}

func properties(specs []PropertySpec) []cypher.Property {
	if len(specs) == 0 {
		return nil
	}
	out := make([]cypher.Property, len(specs))
	for i, p := range specs {
		out[i] = cypher.P(p.Name, p.Value)
	}
	return out
}

func assignments(specs []AssignSpec) []cypher.SetProperty {
	out := make([]cypher.SetProperty, len(specs))
	for i, a := range specs {
		out[i] = cypher.Assign(a.Alias, a.Name, a.Value)
	}
	return out
}

func sorts(specs []SortSpec) []cypher.Sort {
	out := make([]cypher.Sort, len(specs))
	for i, s := range specs {
		if s.Desc {
			out[i] = cypher.Desc(s.Property)
		} else {
			out[i] = cypher.Asc(s.Property)
		}
	}
	return out
}

func pathRange(rs *RangeSpec) *cypher.PathRange {
	if rs == nil {
		return nil
	}
	return &cypher.PathRange{Min: rs.Min, Max: rs.Max}
}

func operand(s *Step) cypher.Value {
	switch {
	case s.Quote != nil:
		return cypher.Quote(*s.Quote)
	case s.Strings != nil:
		return cypher.Strings(s.Strings...)
	case s.Numbers != nil:
		return cypher.Numbers(s.Numbers...)
	default:
		return cypher.Scalar(deref(s.Value))
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
