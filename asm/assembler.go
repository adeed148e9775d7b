package asm

import (
	"errors"

	"gone/cpu"
)

// Assembler wires Lex, Parse, and Assemble into a staged pipeline over one
// source text: Lex(source), then Parse, then Assemble, each requiring the
// stage before it. A stage error leaves the Assembler reusable; the next Lex
// starts over from scratch. The package-level Lex/Parse/Assemble remain
// exported for callers that want to drive the stages with their own state.
type Assembler struct {
	origin uint16
	tokens []Token
	nodes  []Node
	output []byte
	labels map[string]uint16

	lexed  bool
	parsed bool
}

// New returns an Assembler that lays out code starting at origin.
func New(origin uint16) *Assembler {
	return &Assembler{origin: origin}
}

// NewStandalone returns an Assembler using the same origin the CPU package
// loads standalone (cartridge-less) programs at, so assembled output can be
// handed straight to Cpu.Load.
func NewStandalone() *Assembler {
	return New(cpu.StandaloneOrigin)
}

// Lex tokenizes source, discarding all state from any previous run.
func (a *Assembler) Lex(source string) error {
	a.tokens, a.nodes, a.output, a.labels = nil, nil, nil, nil
	a.lexed, a.parsed = false, false

	tokens, err := Lex(source)
	if err != nil {
		return err
	}
	a.tokens = tokens
	a.lexed = true
	return nil
}

// Parse builds the AST from the most recent Lex's tokens.
func (a *Assembler) Parse() error {
	if !a.lexed {
		return errors.New("asm: Parse requires a prior successful Lex")
	}
	nodes, err := Parse(a.tokens)
	if err != nil {
		return err
	}
	a.nodes = nodes
	a.parsed = true
	return nil
}

// Assemble emits machine code from the most recent Parse's AST, filling the
// buffer Output returns.
func (a *Assembler) Assemble() error {
	if !a.parsed {
		return errors.New("asm: Assemble requires a prior successful Parse")
	}
	out, labels, err := Assemble(a.nodes, a.origin)
	if err != nil {
		return err
	}
	a.output = out
	a.labels = labels
	return nil
}

// AssembleSource runs Lex, Parse, and Assemble over source in one call.
func (a *Assembler) AssembleSource(source string) error {
	if err := a.Lex(source); err != nil {
		return err
	}
	if err := a.Parse(); err != nil {
		return err
	}
	return a.Assemble()
}

// Tokens is the token stream from the most recent Lex call.
func (a *Assembler) Tokens() []Token { return a.tokens }

// Output is the assembled machine code from the most recent Assemble call.
func (a *Assembler) Output() []byte { return a.output }

// Labels maps each label defined in the most recent Assemble call to its
// resolved address.
func (a *Assembler) Labels() map[string]uint16 { return a.labels }

// Nodes is the AST built by the most recent Parse call, useful for callers
// that want source-level context (e.g. Cpu.DebugSource).
func (a *Assembler) Nodes() []Node { return a.nodes }

// Origin is the address this Assembler lays code out at.
func (a *Assembler) Origin() uint16 { return a.origin }
