// Package ir defines the narrow boundary through which the spec renderer
// observes compiler IR: attribute access by name, textual serialization,
// and ordered operand enumeration.
//
// The package deliberately does not bind to any concrete compiler. The
// interfaces cover exactly the capability set the renderer needs, so the
// renderer can run against a real compiler binding or against the
// lightweight in-package implementation (Op, Operand) used by the CLI
// and by tests.
//
// Key design constraints:
//   - Operand identity is object identity, not name equality. Value
//     implementations must be comparable (pointers are).
//   - Operation.String must reflect the current attribute set, since the
//     renderer serializes an operation with its root marker stripped.
package ir
