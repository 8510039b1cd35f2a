// Package tdtext checks transform-dialect text for structural validity.
//
// It is not an MLIR parser: semantic checking belongs to the consuming
// compiler. What it catches is the class of mistakes a text-assembling
// renderer can make: unbalanced delimiters, unterminated strings, a
// missing module wrapper, malformed or duplicate sequence symbols, and
// sequences that never yield. Parser satisfies the renderer's validation
// boundary; a real compiler binding can replace it behind the same
// interface.
package tdtext
