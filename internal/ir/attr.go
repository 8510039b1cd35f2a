package ir

// Unit is the zero-payload marker attribute kind.
type Unit struct{}

// UnitAttr returns a unit attribute value.
func UnitAttr() Unit { return Unit{} }

// Kind implements Attribute.
func (Unit) Kind() AttrKind { return AttrUnit }

// String implements Attribute. Unit attributes have no payload; in the
// printed form only the attribute name appears.
func (Unit) String() string { return "" }

// Text is an opaque attribute payload carried verbatim, e.g.
// "#translation_info<...>" or "[[8, 16]]".
type Text string

// TextAttr returns a text attribute with the given payload.
func TextAttr(s string) Text { return Text(s) }

// Kind implements Attribute.
func (Text) Kind() AttrKind { return AttrText }

// String implements Attribute.
func (t Text) String() string { return string(t) }
