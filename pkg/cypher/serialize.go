package cypher

import "strings"

// propertyFilter renders {name:value, name:value}, or "" when props is empty.
func propertyFilter(props []Property) string {
	if len(props) == 0 {
		return ""
	}
	parts := make([]string, len(props))
	for i, p := range props {
		parts[i] = p.Name + ":" + formatScalar(p.Value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// propertySetter renders alias.name = value pairs joined by ", ".
func propertySetter(sets []SetProperty) string {
	parts := make([]string, len(sets))
	for i, s := range sets {
		parts[i] = s.Alias + "." + s.Property.Name + " = " + formatScalar(s.Property.Value)
	}
	return strings.Join(parts, ", ")
}

// nodePattern renders (alias:Label1:Label2{props}).
func nodePattern(labels []string, alias string, props []Property) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(alias)
	if len(labels) > 0 {
		b.WriteByte(':')
		b.WriteString(strings.Join(labels, ":"))
	}
	b.WriteString(propertyFilter(props))
	b.WriteByte(')')
	return b.String()
}

// relationshipPattern renders a relationship between two node patterns.
// With nothing to put inside the brackets it falls back to the bare "--".
func relationshipPattern(dir Direction, types []string, alias string, rng *PathRange, props []Property) string {
	if len(types) == 0 && alias == "" && rng == nil && len(props) == 0 {
		return "--"
	}

	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(alias)
	if len(types) > 0 {
		b.WriteByte(':')
		b.WriteString(strings.Join(types, "|"))
	}
	if rng != nil {
		b.WriteString(rng.String())
	}
	b.WriteString(propertyFilter(props))
	b.WriteByte(']')
	body := b.String()

	switch dir {
	case Left:
		return "<-" + body + "-"
	case Right:
		return "-" + body + "->"
	default:
		return "-" + body + "-"
	}
}

// variableRef renders alias.property, or (alias) without a property.
func variableRef(alias, property string) string {
	if property == "" {
		return "(" + alias + ")"
	}
	return alias + "." + property
}

// orderByItems renders the sort list of an ORDER BY clause.
//
// Every item is written as "alias.prop " plus "DESC" for descending sorts
// and a trailing space, items are joined by ", " and the result trimmed.
// Ascending items therefore keep two spaces before the comma, which
// existing consumers of the rendered text depend on.
func orderByItems(aliases []string, sorts []Sort, keyword bool) string {
	var b strings.Builder
	for j, alias := range aliases {
		for i, s := range sorts {
			b.WriteString(alias)
			b.WriteByte('.')
			b.WriteString(s.Property)
			b.WriteByte(' ')
			if !s.Ascending {
				b.WriteString("DESC")
			}
			b.WriteByte(' ')
			if i != len(sorts)-1 {
				b.WriteString(", ")
			}
		}
		if j != len(aliases)-1 {
			b.WriteString(", ")
		}
	}

	prefix := ""
	if keyword {
		prefix = "ORDER BY"
	}
	return prefix + " " + strings.TrimSpace(b.String())
}

// joinAliases renders a projection list, or * when empty.
func joinAliases(aliases []string) string {
	if len(aliases) == 0 {
		return "*"
	}
	return strings.Join(aliases, ",")
}
