// Package recipe describes Cypher queries as data and builds them with the
// cypher package.
//
// A recipe is a YAML or CUE document holding an ordered list of steps, one
// per builder call:
//
//	name: find_user
//	engine: tenant
//	tenants: [Acme]
//	steps:
//	  - op: match
//	  - op: node
//	    labels: [User]
//	    alias: n0
//	  - op: returns
//
// Load and Parse decode and validate a recipe; Runner.Build applies its
// steps to a cypher.Engine or cypher.TenantEngine and returns the text.
package recipe
