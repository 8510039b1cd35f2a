// Package testkit provides shared test support for tuning work: numeric
// closeness assertions with outlier budgets, per-kernel tolerance
// tables, golden-file comparison, deterministic fixtures, and temp
// directories that can be redirected to a persistent location for
// inspecting updated outputs.
package testkit
