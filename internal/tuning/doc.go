// Package tuning defines tuning configurations and the job model the CLI
// feeds into the spec renderer.
//
// A Configuration is a named literal chosen by an external autotuner; the
// renderer injects its textual form verbatim into the generated spec. A
// Job bundles a root-op description, an ordered configuration list, and a
// matcher sequence name, and can be loaded from a single YAML file or
// compiled from a CUE directory.
package tuning
