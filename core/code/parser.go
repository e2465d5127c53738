package code

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// codeGrammar is the participle grammar for the BASE[-YYYY] body of a
// composite code. The edition suffix is split off before parsing since
// it is free-form.
//
//nolint:govet // participle grammar tags are not standard struct tags
type codeGrammar struct {
	Base string  `parser:"@Letters"`
	Year *string `parser:"( \"-\" @Digits )?"`
}

// codeLexer defines the lexer for version code bodies.
// Letters covers Unicode letters and combining marks so that codes in
// non-Latin scripts lex as a single base token.
var codeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Letters", Pattern: `[\p{L}\p{M}]+`},
	{Name: "Digits", Pattern: `[0-9]+`},
	{Name: "Dash", Pattern: `-`},
})

// codeParser is the participle parser for version code bodies.
var codeParser = participle.MustBuild[codeGrammar](
	participle.Lexer(codeLexer),
)
