package asm

import (
	"fmt"
	"strings"

	"gone/isa"
)

// Disassemble walks code starting at origin and renders one line per
// instruction, in the same mnemonic/operand syntax Parse accepts — so
// Disassemble(Assemble(Parse(Lex(src)))) round-trips back to equivalent
// source. Bytes that don't decode to a legal opcode are rendered as a raw
// ".byte 0xXX" directive-like comment rather than aborting the walk, so a
// disassembly of an arbitrary memory region (e.g. for Cpu.DebugSource)
// never errors.
func Disassemble(code []byte, origin uint16) string {
	byOpcode := isa.ByOpcode()
	var sb strings.Builder
	pc := 0

	for pc < len(code) {
		addr := origin + uint16(pc)
		entry, ok := byOpcode[code[pc]]
		if !ok {
			fmt.Fprintf(&sb, "%04X: .byte 0x%02X\n", addr, code[pc])
			pc++
			continue
		}

		operandLen := entry.Mode.OperandBytes()
		if pc+1+operandLen > len(code) {
			fmt.Fprintf(&sb, "%04X: .byte 0x%02X\n", addr, code[pc])
			pc++
			continue
		}

		operand := code[pc+1 : pc+1+operandLen]
		fmt.Fprintf(&sb, "%04X: %s\n", addr, formatInstruction(entry, operand))
		pc += 1 + operandLen
	}

	return sb.String()
}

// formatInstruction renders one decoded instruction in the assembler's own
// source syntax: bare numbers are Absolute/Relative, #n is Immediate, #(n)
// and #(n,X|Y) are ZeroPage/ZeroPageIndexed, (n) and (n,X|Y) are
// Indirect/IndirectIndexed.
func formatInstruction(entry isa.Entry, operand []byte) string {
	switch entry.Mode {
	case isa.Implied:
		return entry.Mnemonic
	case isa.Accumulator:
		return entry.Mnemonic + " A"
	case isa.Immediate:
		return fmt.Sprintf("%s #0x%02X", entry.Mnemonic, operand[0])
	case isa.ZeroPage:
		return fmt.Sprintf("%s #(0x%02X)", entry.Mnemonic, operand[0])
	case isa.ZeroPageX:
		return fmt.Sprintf("%s #(0x%02X,X)", entry.Mnemonic, operand[0])
	case isa.ZeroPageY:
		return fmt.Sprintf("%s #(0x%02X,Y)", entry.Mnemonic, operand[0])
	case isa.IndirectX:
		return fmt.Sprintf("%s (0x%02X,X)", entry.Mnemonic, operand[0])
	case isa.IndirectY:
		return fmt.Sprintf("%s (0x%02X,Y)", entry.Mnemonic, operand[0])
	case isa.Relative:
		// The raw offset byte, not the computed target: a bare number after
		// a branch mnemonic re-assembles as the literal offset, so this is
		// the only rendering that round-trips.
		return fmt.Sprintf("%s 0x%02X", entry.Mnemonic, operand[0])
	case isa.Absolute:
		return fmt.Sprintf("%s 0x%04X", entry.Mnemonic, word(operand))
	case isa.AbsoluteX:
		return fmt.Sprintf("%s 0x%04X,X", entry.Mnemonic, word(operand))
	case isa.AbsoluteY:
		return fmt.Sprintf("%s 0x%04X,Y", entry.Mnemonic, word(operand))
	case isa.Indirect:
		return fmt.Sprintf("%s (0x%04X)", entry.Mnemonic, word(operand))
	default:
		return entry.Mnemonic
	}
}

func word(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }
