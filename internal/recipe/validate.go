package recipe

import (
	"fmt"

	"github.com/roach88/cyphergen/pkg/cypher"
)

// ValidationError reports one problem in a recipe.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Op names.
const (
	OpMatch             = "match"
	OpOptionalMatch     = "optional_match"
	OpCreate            = "create"
	OpMerge             = "merge"
	OpNode              = "node"
	OpNodeTenantless    = "node_tenantless"
	OpDeclaredNode      = "declared_node"
	OpVariable          = "variable"
	OpRelates           = "relates"
	OpDelete            = "delete"
	OpDetach            = "detach"
	OpWhere             = "where"
	OpUnwind            = "unwind"
	OpWith              = "with"
	OpExists            = "exists"
	OpValue             = "value"
	OpSet               = "set"
	OpOnCreate          = "on_create"
	OpOnMatch           = "on_match"
	OpAnd               = "and"
	OpOr                = "or"
	OpIs                = "is"
	OpIn                = "in"
	OpNull              = "null"
	OpNot               = "not"
	OpEquals            = "equals"
	OpGreaterThan       = "greater_than"
	OpLessThan          = "less_than"
	OpStartsWith        = "starts_with"
	OpEndsWith          = "ends_with"
	OpContains          = "contains"
	OpRegularExpression = "regular_expression"
	OpCall              = "call"
	OpCallQuery         = "call_query"
	OpReturns           = "returns"
	OpLimit             = "limit"
	OpSkip              = "skip"
	OpOrderBy           = "order_by"
	OpOrderByItems      = "order_by_items"
	OpCase              = "case"
	OpWhen              = "when"
	OpThen              = "then"
	OpElse              = "else"
	OpRemove            = "remove"
	OpConditional       = "conditional"
)

// Ops lists every supported op.
var Ops = []string{
	OpMatch, OpOptionalMatch, OpCreate, OpMerge,
	OpNode, OpNodeTenantless, OpDeclaredNode, OpVariable, OpRelates,
	OpDelete, OpDetach, OpWhere, OpUnwind, OpWith, OpExists, OpValue,
	OpSet, OpOnCreate, OpOnMatch,
	OpAnd, OpOr, OpIs, OpIn, OpNull, OpNot,
	OpEquals, OpGreaterThan, OpLessThan, OpStartsWith, OpEndsWith, OpContains, OpRegularExpression,
	OpCall, OpCallQuery, OpReturns, OpLimit, OpSkip, OpOrderBy, OpOrderByItems,
	OpCase, OpWhen, OpThen, OpElse, OpRemove, OpConditional,
}

var knownOps = func() map[string]bool {
	m := make(map[string]bool, len(Ops))
	for _, op := range Ops {
		m[op] = true
	}
	return m
}()

// Validate checks a recipe and returns every problem found, in document
// order. A nil result means the recipe can be built.
func Validate(r *Recipe) []ValidationError {
	v := &validator{}
	v.recipe(r, "", true)
	return v.errs
}

type validator struct {
	errs []ValidationError
}

func (v *validator) add(field, code, format string, args ...any) {
	v.errs = append(v.errs, ValidationError{Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) recipe(r *Recipe, prefix string, top bool) {
	if r == nil {
		v.add(prefix+"recipe", ErrCodeGeneric, "recipe is empty")
		return
	}
	if top && r.Name == "" {
		v.add(prefix+"name", ErrCodeMissingName, "name is required")
	}
	kind := r.Kind()
	if kind != EngineBasic && kind != EngineTenant {
		v.add(prefix+"engine", ErrCodeBadEngine, "unknown engine %q: must be %s or %s", r.Engine, EngineBasic, EngineTenant)
	}
	if kind == EngineBasic && len(r.Tenants) > 0 {
		v.add(prefix+"tenants", ErrCodeBadField, "tenants require engine %q", EngineTenant)
	}
	if len(r.Steps) == 0 {
		v.add(prefix+"steps", ErrCodeNoSteps, "steps list is required and must be non-empty")
	}
	v.steps(r.Steps, prefix+"steps", kind)
}

func (v *validator) steps(steps []Step, field, kind string) {
	for i := range steps {
		v.step(&steps[i], fmt.Sprintf("%s[%d]", field, i), kind)
	}
}

func (v *validator) step(s *Step, field, kind string) {
	if s.Op == "" {
		v.add(field+".op", ErrCodeMissingField, "op is required")
		return
	}
	if !knownOps[s.Op] {
		v.add(field+".op", ErrCodeUnknownOp, "unknown op %q", s.Op)
		return
	}

	switch s.Op {
	case OpNodeTenantless:
		if kind != EngineTenant {
			v.add(field, ErrCodeBadField, "%s requires engine %q", s.Op, EngineTenant)
		}
	case OpDeclaredNode, OpVariable:
		v.require(field+".alias", s.Alias != "", s.Op)
	case OpRelates:
		if _, err := cypher.ParseDirection(s.Direction); err != nil {
			v.add(field+".direction", ErrCodeBadField, "%v", err)
		}
		if s.Range != nil && s.Range.Min != nil && s.Range.Max != nil && *s.Range.Min > *s.Range.Max {
			v.add(field+".range", ErrCodeBadField, "min %d exceeds max %d", *s.Range.Min, *s.Range.Max)
		}
	case OpDelete:
		v.require(field+".aliases", len(s.Aliases) > 0, s.Op)
	case OpExists:
		v.require(field+".alias", s.Alias != "", s.Op)
		v.require(field+".property", s.Property != "", s.Op)
	case OpValue:
		if n := s.operandCount(); n != 1 {
			v.add(field, ErrCodeBadField, "value needs exactly one of value, quote, strings or numbers (got %d)", n)
		}
	case OpSet:
		for i, a := range s.Assign {
			if a.Alias == "" || a.Name == "" {
				v.add(fmt.Sprintf("%s.assign[%d]", field, i), ErrCodeMissingField, "alias and name are required")
			}
		}
	case OpCall:
		v.require(field+".procedure", s.Procedure != "", s.Op)
	case OpCallQuery:
		if s.Query == nil {
			v.add(field+".query", ErrCodeMissingField, "query is required for call_query")
			return
		}
		v.recipe(s.Query, field+".query.", false)
	case OpLimit, OpSkip:
		v.require(field+".value", s.Value != nil, s.Op)
	case OpOrderBy, OpOrderByItems:
		v.require(field+".aliases", len(s.Aliases) > 0, s.Op)
	case OpConditional:
		v.require(field+".if", s.If != nil, s.Op)
		textual := s.ThenText != nil || s.ElseText != nil
		if textual && (len(s.Then) > 0 || len(s.Else) > 0) {
			v.add(field, ErrCodeBadField, "use either then/else steps or then_text/else_text, not both")
		}
		v.steps(s.Then, field+".then", kind)
		v.steps(s.Else, field+".else", kind)
	}

	for i, p := range s.Properties {
		if p.Name == "" {
			v.add(fmt.Sprintf("%s.properties[%d].name", field, i), ErrCodeMissingField, "property name is required")
		}
	}
	for i, so := range s.Sorts {
		if so.Property == "" {
			v.add(fmt.Sprintf("%s.sorts[%d].property", field, i), ErrCodeMissingField, "sort property is required")
		}
	}
}

func (v *validator) require(field string, ok bool, op string) {
	if !ok {
		v.add(field, ErrCodeMissingField, "required for %s", op)
	}
}

func (s *Step) operandCount() int {
	n := 0
	if s.Value != nil {
		n++
	}
	if s.Quote != nil {
		n++
	}
	if s.Strings != nil {
		n++
	}
	if s.Numbers != nil {
		n++
	}
	return n
}
