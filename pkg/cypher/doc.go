// Package cypher assembles Cypher query text through chained builder calls.
//
// Two builders share one fragment model:
//
//   - Engine renders a single query.
//   - TenantEngine additionally scopes node patterns to tenants and
//     replicates the query once per tenant, joined by UNION.
//
// # Fragments
//
// Every builder method appends a Fragment: a piece of text plus the
// separator written after it. Rendering concatenates the fragments in call
// order; the separator of the last fragment is dropped. Nothing is
// reordered, deduplicated or validated against the Cypher grammar.
//
//	cypher.New().
//		Match().
//		Node([]string{"Person"}, "n0").
//		Where().Variable("n0", "name").Equals().Value(cypher.Scalar("$name")).
//		Returns()
//
// renders
//
//	MATCH (n0:Person)
//	WHERE n0.name = $name RETURN *
//
// # Values
//
// Values are written verbatim. The builders never quote string literals;
// use Quote or include the quotes in the Scalar yourself.
//
// # Errors
//
// Builder errors are sticky. The first failure (an unknown alias passed to
// DeclaredNode, or a tenancy violation on TenantEngine) is recorded, every
// later call becomes a no-op, and Cypher returns the error.
//
// # Tenancy
//
// TenantEngine renders its fragments to a template in which tenant-scoped
// node patterns carry a placeholder label. ReplicateTenants then produces
// one copy of the template per tenant with the placeholder substituted and
// joins the copies with the union separator.
//
// Builders are not safe for concurrent use.
package cypher
