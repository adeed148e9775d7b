package asm

import (
	"gone/isa"
)

// Assemble lays out nodes starting at origin and returns the encoded bytes
// alongside every label's resolved address. It runs two passes: the first
// walks the nodes to compute each instruction's address (and hence every
// label's address) from addressing modes alone, since those were already
// decided by Parse; the second resolves label operands against that table
// and emits bytes.
func Assemble(nodes []Node, origin uint16) ([]byte, map[string]uint16, error) {
	labels := make(map[string]uint16)
	addr := origin

	for _, n := range nodes {
		switch v := n.(type) {
		case *LabelDef:
			v.Addr = addr
			labels[v.Name] = addr
		case *Instruction:
			v.Addr = addr
			addr += uint16(v.Size())
		}
	}

	byMnemonic := isa.ByMnemonic()
	var out []byte

	for _, n := range nodes {
		inst, ok := n.(*Instruction)
		if !ok {
			continue
		}

		entry, err := selectEntry(byMnemonic, inst)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, entry.Opcode)

		switch inst.Mode {
		case isa.Implied, isa.Accumulator:
			// no operand bytes

		case isa.Relative:
			// A label resolves to a PC-relative delta; a bare number is
			// already the literal offset byte and is emitted as-is.
			if inst.Operand.Kind == OperandLabel {
				target, err := resolveOperand(inst, labels)
				if err != nil {
					return nil, nil, err
				}
				next := int(inst.Addr) + inst.Size()
				delta := int(target) - next
				if delta < -128 || delta > 127 {
					return nil, nil, &EmitError{At: inst.Span, Reason: "branch target out of range"}
				}
				out = append(out, byte(int8(delta)))
				break
			}
			if inst.Operand.Value > 0xff {
				return nil, nil, &EmitError{At: inst.Span, Reason: "relative offset does not fit in one byte"}
			}
			out = append(out, byte(inst.Operand.Value))

		case isa.Immediate, isa.ZeroPage, isa.ZeroPageX, isa.ZeroPageY, isa.IndirectX, isa.IndirectY:
			v, err := resolveOperand(inst, labels)
			if err != nil {
				return nil, nil, err
			}
			out = append(out, byte(v))

		default: // Absolute, AbsoluteX, AbsoluteY, Indirect
			v, err := resolveOperand(inst, labels)
			if err != nil {
				return nil, nil, err
			}
			out = append(out, byte(v), byte(v>>8))
		}
	}

	return out, labels, nil
}

func resolveOperand(inst *Instruction, labels map[string]uint16) (uint16, error) {
	if inst.Operand.Kind != OperandLabel {
		return inst.Operand.Value, nil
	}
	addr, ok := labels[inst.Operand.Label]
	if !ok {
		return 0, &EmitError{At: inst.Span, Reason: "undefined label " + inst.Operand.Label}
	}
	return addr, nil
}

func selectEntry(byMnemonic map[string][]isa.Entry, inst *Instruction) (isa.Entry, error) {
	for _, e := range byMnemonic[inst.Mnemonic] {
		if e.Mode == inst.Mode {
			return e, nil
		}
	}
	return isa.Entry{}, &EmitError{
		At:     inst.Span,
		Reason: inst.Mnemonic + " does not support " + inst.Mode.String() + " addressing",
	}
}
