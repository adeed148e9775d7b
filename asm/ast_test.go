package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gone/isa"
)

func parse(t *testing.T, src string) []Node {
	t.Helper()
	toks, err := Lex(src)
	require.NoError(t, err)
	nodes, err := Parse(toks)
	require.NoError(t, err)
	return nodes
}

func TestParseImplied(t *testing.T) {
	nodes := parse(t, "INX")
	require.Len(t, nodes, 1)
	inst := nodes[0].(*Instruction)
	assert.Equal(t, "INX", inst.Mnemonic)
	assert.Equal(t, isa.Implied, inst.Mode)
	assert.Equal(t, 1, inst.Size())
}

func TestParseAccumulator(t *testing.T) {
	nodes := parse(t, "ASL A")
	inst := nodes[0].(*Instruction)
	assert.Equal(t, isa.Accumulator, inst.Mode)
}

func TestParseImmediate(t *testing.T) {
	nodes := parse(t, "LDA #0x01")
	inst := nodes[0].(*Instruction)
	assert.Equal(t, isa.Immediate, inst.Mode)
	assert.EqualValues(t, 1, inst.Operand.Value)
	assert.Equal(t, 2, inst.Size())
}

func TestParseZeroPageViaHashParen(t *testing.T) {
	zp := parse(t, "LDA #(0x44)")[0].(*Instruction)
	assert.Equal(t, isa.ZeroPage, zp.Mode)
	assert.EqualValues(t, 0x44, zp.Operand.Value)
	assert.Equal(t, 2, zp.Size())
}

func TestParseBareNumberIsAlwaysAbsolute(t *testing.T) {
	abs := parse(t, "LDA 0x44")[0].(*Instruction)
	assert.Equal(t, isa.Absolute, abs.Mode)
	assert.Equal(t, 3, abs.Size())

	abs2 := parse(t, "LDA 0x4400")[0].(*Instruction)
	assert.Equal(t, isa.Absolute, abs2.Mode)
	assert.Equal(t, 3, abs2.Size())
}

func TestParseZeroPageIndexedViaHashParen(t *testing.T) {
	assert.Equal(t, isa.ZeroPageX, parse(t, "LDA #(0x44,X)")[0].(*Instruction).Mode)
	assert.Equal(t, isa.ZeroPageY, parse(t, "LDX #(0x44,Y)")[0].(*Instruction).Mode)
}

func TestParseAbsoluteIndexedAddressing(t *testing.T) {
	assert.Equal(t, isa.AbsoluteX, parse(t, "LDA 0x4400,X")[0].(*Instruction).Mode)
	assert.Equal(t, isa.AbsoluteY, parse(t, "LDA 0x4400,Y")[0].(*Instruction).Mode)
}

func TestParseIndirectAddressing(t *testing.T) {
	assert.Equal(t, isa.IndirectX, parse(t, "LDA (0x44,X)")[0].(*Instruction).Mode)
	assert.Equal(t, isa.IndirectY, parse(t, "LDA (0x44,Y)")[0].(*Instruction).Mode)
	assert.Equal(t, isa.Indirect, parse(t, "JMP (0x4400)")[0].(*Instruction).Mode)
}

func TestParseBranchIsAlwaysRelative(t *testing.T) {
	inst := parse(t, "BEQ loop")[0].(*Instruction)
	assert.Equal(t, isa.Relative, inst.Mode)
	assert.Equal(t, OperandLabel, inst.Operand.Kind)
	assert.Equal(t, "loop", inst.Operand.Label)
}

func TestParseJMPToLabelIsAbsolute(t *testing.T) {
	inst := parse(t, "JMP done")[0].(*Instruction)
	assert.Equal(t, isa.Absolute, inst.Mode)
	assert.Equal(t, "done", inst.Operand.Label)
}

func TestParseBranchBareNumberIsRelative(t *testing.T) {
	inst := parse(t, "BNE 0x05")[0].(*Instruction)
	assert.Equal(t, isa.Relative, inst.Mode)
	assert.Equal(t, OperandValue, inst.Operand.Kind)
	assert.EqualValues(t, 0x05, inst.Operand.Value)
	assert.Equal(t, 2, inst.Size())
}

func TestParseRejectsDuplicateLabel(t *testing.T) {
	_, err := Parse(mustLex(t, "loop: INX loop: DEX"))
	require.Error(t, err)
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestParseLabelDef(t *testing.T) {
	nodes := parse(t, "loop: INX")
	require.Len(t, nodes, 2)
	label := nodes[0].(*LabelDef)
	assert.Equal(t, "loop", label.Name)
}

func TestParseFullProgram(t *testing.T) {
	nodes := parse(t, "start: LDX #0x00 loop: INX CPX #0x05 BNE loop BRK")
	require.Len(t, nodes, 7)
	assert.IsType(t, &LabelDef{}, nodes[0])
	assert.IsType(t, &Instruction{}, nodes[1])
	assert.IsType(t, &LabelDef{}, nodes[2])
}

func TestParseRejectsMismatchedRegister(t *testing.T) {
	_, err := Parse(mustLex(t, "LDA 0x44,Z"))
	require.Error(t, err)
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestParseRejectsIndexedBranchTarget(t *testing.T) {
	_, err := Parse(mustLex(t, "BEQ 0x44,X"))
	require.Error(t, err)
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestParseSkipsComments(t *testing.T) {
	nodes := parse(t, "// a comment\nLDA #0x01 /* trailing */")
	require.Len(t, nodes, 1)
	assert.Equal(t, "LDA", nodes[0].(*Instruction).Mnemonic)
}

func mustLex(t *testing.T, src string) []Token {
	t.Helper()
	toks, err := Lex(src)
	require.NoError(t, err)
	return toks
}
