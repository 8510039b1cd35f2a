package ir

// AttrKind identifies the concrete kind of an attribute.
type AttrKind int

const (
	// AttrUnit is a zero-payload marker attribute. The root-op marker is
	// always of this kind.
	AttrUnit AttrKind = iota

	// AttrText is an opaque attribute carried as its textual form.
	AttrText
)

// String returns a human-readable kind name for error messages.
func (k AttrKind) String() string {
	switch k {
	case AttrUnit:
		return "unit"
	case AttrText:
		return "text"
	default:
		return "unknown"
	}
}

// Attribute is a named payload attached to an operation.
type Attribute interface {
	// Kind reports the concrete attribute kind.
	Kind() AttrKind

	// String returns the attribute's textual form as it appears in the
	// operation's serialization. Unit attributes return "".
	String() string
}

// Value is an SSA value usable as an operation operand.
//
// Implementations must be comparable so that values can be used as map
// keys; the renderer deduplicates repeated operands by identity, not by
// name.
type Value interface {
	// Name returns the SSA name including the leading '%'.
	Name() string

	// Type returns the value's type as a textual token.
	Type() string
}

// Operation is the renderer's view of a compiler operation.
//
// Implementations are not required to be safe for concurrent use. The
// renderer transiently mutates the attribute set (remove then re-add the
// root marker), so concurrent calls over the same Operation must be
// serialized by the caller.
type Operation interface {
	// Attr returns the named attribute, if present.
	Attr(name string) (Attribute, bool)

	// SetAttr adds or replaces the named attribute.
	SetAttr(name string, attr Attribute)

	// RemoveAttr deletes the named attribute, reporting whether it was
	// present.
	RemoveAttr(name string) bool

	// Operands returns the operation's operands in order. Repeats of the
	// same Value are allowed.
	Operands() []Value

	// String returns the operation's textual serialization, including its
	// current attribute set.
	String() string
}
