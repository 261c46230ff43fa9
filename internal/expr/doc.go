// Package expr evaluates the `${{ ... }}` expression language used in GitHub
// Actions workflow files, to the extent needed to instantiate workflow steps
// against a single build matrix entry.
//
// Evaluation is best-effort: an expression is tokenized, matrix variables are
// substituted from a Context, and the token list is reduced by a small set of
// rewrite rules until a single literal remains. Anything that cannot be
// resolved (unknown functions, sequence values used as scalars, malformed
// input) is written back inside its `${{ }}` delimiters instead of failing.
package expr
