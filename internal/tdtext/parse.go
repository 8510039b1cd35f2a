package tdtext

import (
	"fmt"
	"regexp"
	"strings"
)

// SyntaxError reports a structural problem in transform-dialect text,
// with a 1-based line and column position.
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

// Module is the result of a successful parse.
type Module struct {
	// Text is the input text, unchanged.
	Text string

	// Sequences lists the named-sequence symbols in order of appearance,
	// without the leading '@'.
	Sequences []string
}

// EntryPointName is the fixed entry-point sequence symbol the consuming
// compiler looks up.
const EntryPointName = "__kernel_config"

// HasEntryPoint reports whether the module declares the entry-point
// sequence.
func (m *Module) HasEntryPoint() bool {
	for _, name := range m.Sequences {
		if name == EntryPointName {
			return true
		}
	}
	return false
}

// validSymbol matches named-sequence symbol names (after the '@').
var validSymbol = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$.]*$`)

// Parser checks transform-dialect text.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser { return &Parser{} }

// Parse validates text, returning the first structural error found.
func (p *Parser) Parse(text string) error {
	_, err := p.ParseModule(text)
	return err
}

// token is a word with its source position.
type token struct {
	text string
	line int
	col  int
}

// ParseModule validates text and extracts the named-sequence symbols.
func (p *Parser) ParseModule(text string) (*Module, error) {
	tokens, err := scan(text)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, &SyntaxError{Line: 1, Col: 1, Msg: "empty module text"}
	}
	if tokens[0].text != "module" {
		return nil, &SyntaxError{Line: tokens[0].line, Col: tokens[0].col,
			Msg: fmt.Sprintf("expected module, found %q", tokens[0].text)}
	}

	mod := &Module{Text: text}
	seen := make(map[string]bool)
	yielded := true // no pending sequence yet
	var pending token

	for i, tok := range tokens {
		switch {
		case tok.text == "transform.named_sequence":
			if !yielded {
				return nil, &SyntaxError{Line: pending.line, Col: pending.col,
					Msg: fmt.Sprintf("sequence @%s has no transform.yield", pending.text)}
			}
			if i+1 >= len(tokens) || !strings.HasPrefix(tokens[i+1].text, "@") {
				return nil, &SyntaxError{Line: tok.line, Col: tok.col,
					Msg: "transform.named_sequence is missing a symbol name"}
			}
			name := strings.TrimPrefix(tokens[i+1].text, "@")
			if !validSymbol.MatchString(name) {
				return nil, &SyntaxError{Line: tokens[i+1].line, Col: tokens[i+1].col,
					Msg: fmt.Sprintf("invalid sequence symbol %q", name)}
			}
			if seen[name] {
				return nil, &SyntaxError{Line: tokens[i+1].line, Col: tokens[i+1].col,
					Msg: fmt.Sprintf("duplicate sequence symbol @%s", name)}
			}
			seen[name] = true
			mod.Sequences = append(mod.Sequences, name)
			pending = token{text: name, line: tok.line, col: tok.col}
			yielded = false
		case tok.text == "transform.yield":
			yielded = true
		}
	}
	if !yielded {
		return nil, &SyntaxError{Line: pending.line, Col: pending.col,
			Msg: fmt.Sprintf("sequence @%s has no transform.yield", pending.text)}
	}
	if len(mod.Sequences) == 0 {
		return nil, &SyntaxError{Line: tokens[0].line, Col: tokens[0].col,
			Msg: "module declares no named sequences"}
	}

	return mod, nil
}

// bracket pairs tracked by the scanner.
var closing = map[rune]rune{')': '(', '}': '{', ']': '['}

// scan tokenizes text into words, checking delimiter balance, comment
// and string-literal structure along the way.
func scan(text string) ([]token, error) {
	type open struct {
		r    rune
		line int
		col  int
	}
	var stack []open
	var tokens []token

	line, col := 1, 0
	inString := false
	inComment := false
	escaped := false
	stringLine, stringCol := 0, 0
	var word strings.Builder
	wordLine, wordCol := 0, 0

	flush := func() {
		if word.Len() > 0 {
			tokens = append(tokens, token{text: word.String(), line: wordLine, col: wordCol})
			word.Reset()
		}
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		col++
		if r == '\n' {
			if inString {
				return nil, &SyntaxError{Line: stringLine, Col: stringCol, Msg: "unterminated string literal"}
			}
			inComment = false
			flush()
			line++
			col = 0
			continue
		}
		if inComment {
			continue
		}
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}

		switch r {
		case '"':
			inString = true
			stringLine, stringCol = line, col
			flush()
		case '/':
			if i+1 < len(runes) && runes[i+1] == '/' {
				inComment = true
				flush()
				continue
			}
			word.WriteRune(r)
		case '(', '{', '[':
			flush()
			stack = append(stack, open{r: r, line: line, col: col})
		case ')', '}', ']':
			flush()
			if len(stack) == 0 {
				return nil, &SyntaxError{Line: line, Col: col, Msg: fmt.Sprintf("unmatched %q", string(r))}
			}
			top := stack[len(stack)-1]
			if top.r != closing[r] {
				return nil, &SyntaxError{Line: line, Col: col,
					Msg: fmt.Sprintf("mismatched %q: open %q at %d:%d", string(r), string(top.r), top.line, top.col)}
			}
			stack = stack[:len(stack)-1]
		case ' ', '\t', '\r', ',', ':', '=', '<', '>', '^', '-':
			// Separators that never start a word we care about. '<' and
			// '>' also delimit type parameter lists, which may nest
			// unbalanced inside names like tensor<16x8xf32>, so they are
			// not tracked as brackets.
			flush()
		default:
			if word.Len() == 0 {
				wordLine, wordCol = line, col
			}
			word.WriteRune(r)
		}
	}
	if inString {
		return nil, &SyntaxError{Line: stringLine, Col: stringCol, Msg: "unterminated string literal"}
	}
	flush()
	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return nil, &SyntaxError{Line: top.line, Col: top.col, Msg: fmt.Sprintf("unclosed %q", string(top.r))}
	}

	return tokens, nil
}
