package specgen

// placeholderText is the minimal valid tuning spec: an entry point that
// yields the variant op unchanged. It stands in for a real spec while a
// tuning session has no candidates yet.
const placeholderText = `module attributes { transform.with_named_sequence } {
  transform.named_sequence @__kernel_config(%variant_op: !transform.any_op {transform.readonly}) -> !transform.any_op
      attributes { iree_codegen.tuning_spec_entrypoint } {
    transform.yield %variant_op : !transform.any_op
  }
}
`

// PlaceholderSpec returns the no-op tuning spec, validated through the
// renderer's parser.
func (r *Renderer) PlaceholderSpec() (string, error) {
	if err := r.parser.Parse(placeholderText); err != nil {
		return "", &RenderError{Text: placeholderText, Err: err}
	}
	return placeholderText, nil
}
