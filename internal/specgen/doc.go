// Package specgen renders transform-dialect tuning specs.
//
// Given a root operation and an ordered list of tuning configurations,
// Renderer.Render emits a module with three named sequences: an
// annotation sequence (@apply_op_config), a custom matcher named by the
// caller, and the @__kernel_config entry point that applies the
// annotation to every match. The consuming compiler does all matching
// and application; this package only produces the text it consumes, so
// the output grammar must be reproduced exactly.
//
// Rendering is synchronous and holds no state across calls. The one
// side effect is a transient mutation of the input operation (the
// root-op marker is removed around serialization and restored before
// return), which makes concurrent renders of the same operation unsafe;
// callers must serialize them. Renders of different operations do not
// interfere.
package specgen
