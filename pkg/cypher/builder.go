package cypher

import (
	"fmt"
	"strings"
)

// Subquery is a builder whose text can be embedded in CALL { ... }.
//
// This is a sealed interface; *Engine and *TenantEngine implement it.
type Subquery interface {
	subquery() (string, error)
}

// builder holds the state both engines share: the ordered fragment list,
// the alias registry and the first error recorded.
type builder struct {
	fragments []Fragment
	nodes     *registry
	err       error
}

func newBuilder() builder {
	return builder{nodes: newRegistry()}
}

func (b *builder) push(text, separator string) {
	if b.err != nil {
		return
	}
	b.fragments = append(b.fragments, Fragment{Text: text, Separator: separator})
}

func (b *builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *builder) keyword(kw string) {
	b.push(kw, space)
}

func (b *builder) node(labels []string, alias string, props []Property) {
	if b.err != nil {
		return
	}
	b.push(nodePattern(labels, alias, props), lineBreak)
	if alias != "" {
		b.nodes.add(alias)
	}
}

func (b *builder) declaredNode(alias string, extraLabels []string) {
	if b.err != nil {
		return
	}
	if !b.nodes.has(alias) {
		b.fail(newUnknownAliasError(alias))
		return
	}
	b.push(nodePattern(extraLabels, alias, nil), lineBreak)
}

func (b *builder) variable(alias, property string) {
	b.push(variableRef(alias, property), space)
}

func (b *builder) relates(dir Direction, types []string, alias string, rng *PathRange, props []Property) {
	b.push(relationshipPattern(dir, types, alias, rng, props), noSeparator)
}

func (b *builder) delete(aliases []string) {
	b.push("DELETE "+strings.Join(aliases, ","), lineBreak)
}

// with narrows the registry only when aliases are given; WITH * keeps it.
func (b *builder) with(aliases []string) {
	if b.err != nil {
		return
	}
	if len(aliases) > 0 {
		b.nodes.replace(aliases)
	}
	b.push("WITH "+joinAliases(aliases), lineBreak)
}

func (b *builder) exists(alias, property string) {
	b.push("exists("+alias+"."+property+")", lineBreak)
}

func (b *builder) value(v Value) {
	if v == nil {
		b.push("null", space)
		return
	}
	b.push(v.render(), space)
}

func (b *builder) set(props []SetProperty) {
	text := "SET"
	if len(props) > 0 {
		text += " " + propertySetter(props)
	}
	b.push(text, lineBreak)
}

func (b *builder) call(procedure string) {
	b.push("CALL "+procedure, lineBreak)
}

// callQuery captures the nested builder's text now; later changes to the
// nested builder do not affect this query. A nil nested query, including a
// nil *Engine or *TenantEngine, renders CALL {}.
func (b *builder) callQuery(nested Subquery) {
	if b.err != nil {
		return
	}
	text := ""
	if nested != nil {
		var err error
		text, err = nested.subquery()
		if err != nil {
			b.fail(fmt.Errorf("call query: %w", err))
			return
		}
	}
	b.push("CALL {"+text+"}", lineBreak)
}

func (b *builder) returns(aliases []string) {
	b.push("RETURN "+joinAliases(aliases), space)
}

func (b *builder) limit(v Scalar) {
	b.push("LIMIT "+string(v), space)
}

func (b *builder) skip(v Scalar) {
	b.push("SKIP "+string(v), space)
}

// orderBy is a no-op without sort specs.
func (b *builder) orderBy(aliases []string, sorts []Sort, keyword bool) {
	if len(sorts) == 0 {
		return
	}
	b.push(orderByItems(aliases, sorts, keyword), lineBreak)
}

func (b *builder) render() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	return Join(b.fragments), nil
}

func (b *builder) snapshot() []Fragment {
	out := make([]Fragment, len(b.fragments))
	copy(out, b.fragments)
	return out
}
