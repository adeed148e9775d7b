package cpu

import "gone/mem"

// Instruction semantics below follow https://www.nesdev.org/obelisk-6502-guide/reference.html
// notation: A,Z,N = A&M reads as "set A; set Z and N from the result".

// adc - Add with Carry. The overflow flag's rule follows directly from two's
// complement: overflow happens exactly when the two operands share a sign
// and the result doesn't.
func (c *Cpu) adc() (bool, error) {
	m := c.load()
	carryIn := 0
	if c.Get(FlagCarry) {
		carryIn = 1
	}
	sum := int(c.A) + int(m) + carryIn
	result := byte(sum)

	c.Set(FlagCarry, sum > 0xff)
	c.Set(FlagOverflow, (c.A^m)&0x80 == 0 && (c.A^result)&0x80 != 0)
	c.A = result
	c.setZN(c.A)
	return false, nil
}

// sbc - Subtract with Carry. Implemented as ADC with the operand's ones'
// complement, the standard 6502 identity (A - M - (1-C) == A + ~M + C).
func (c *Cpu) sbc() (bool, error) {
	m := c.load() ^ 0xff
	carryIn := 0
	if c.Get(FlagCarry) {
		carryIn = 1
	}
	sum := int(c.A) + int(m) + carryIn
	result := byte(sum)

	c.Set(FlagCarry, sum > 0xff)
	c.Set(FlagOverflow, (c.A^m)&0x80 == 0 && (c.A^result)&0x80 != 0)
	c.A = result
	c.setZN(c.A)
	return false, nil
}

func (c *Cpu) and() (bool, error) {
	c.A &= c.load()
	c.setZN(c.A)
	return false, nil
}

func (c *Cpu) ora() (bool, error) {
	c.A |= c.load()
	c.setZN(c.A)
	return false, nil
}

func (c *Cpu) eor() (bool, error) {
	c.A ^= c.load()
	c.setZN(c.A)
	return false, nil
}

// asl - Arithmetic Shift Left. Operates on A in Accumulator mode, on memory
// otherwise; c.load/c.store (cpu.go) pick the right target for either case.
func (c *Cpu) asl() (bool, error) {
	v := c.load()
	c.Set(FlagCarry, v&0x80 != 0)
	v <<= 1
	c.store(v)
	c.setZN(v)
	return false, nil
}

// lsr - Logical Shift Right.
func (c *Cpu) lsr() (bool, error) {
	v := c.load()
	c.Set(FlagCarry, v&0x01 != 0)
	v >>= 1
	c.store(v)
	c.setZN(v)
	return false, nil
}

// rol - Rotate Left: the old carry becomes the new bit 0.
func (c *Cpu) rol() (bool, error) {
	v := c.load()
	oldCarry := c.Get(FlagCarry)
	c.Set(FlagCarry, v&0x80 != 0)
	v <<= 1
	if oldCarry {
		v |= 0x01
	}
	c.store(v)
	c.setZN(v)
	return false, nil
}

// ror - Rotate Right: the old carry becomes the new bit 7.
func (c *Cpu) ror() (bool, error) {
	v := c.load()
	oldCarry := c.Get(FlagCarry)
	c.Set(FlagCarry, v&0x01 != 0)
	v >>= 1
	if oldCarry {
		v |= 0x80
	}
	c.store(v)
	c.setZN(v)
	return false, nil
}

// bit - Bit Test: Z is set from A&M (not M alone), while N and V come
// straight from M's bit 7 and bit 6, regardless of A.
func (c *Cpu) bit() (bool, error) {
	m := c.load()
	c.Set(FlagZero, c.A&m == 0)
	c.Set(FlagOverflow, m&0x40 != 0)
	c.Set(FlagNegative, m&0x80 != 0)
	return false, nil
}

// compare is the shared CMP/CPX/CPY body: the carry and zero flags come
// from an unsigned comparison, but Negative must look at the bit pattern of
// the full (possibly borrowing) subtraction before it's thrown away, not at
// reg itself.
func (c *Cpu) compare(reg byte) {
	m := c.load()
	diff := reg - m
	c.Set(FlagCarry, reg >= m)
	c.Set(FlagZero, reg == m)
	c.Set(FlagNegative, diff&0x80 != 0)
}

func (c *Cpu) cmp() (bool, error) { c.compare(c.A); return false, nil }
func (c *Cpu) cpx() (bool, error) { c.compare(c.X); return false, nil }
func (c *Cpu) cpy() (bool, error) { c.compare(c.Y); return false, nil }

func (c *Cpu) dec() (bool, error) {
	v := c.load() - 1
	c.store(v)
	c.setZN(v)
	return false, nil
}

func (c *Cpu) inc() (bool, error) {
	v := c.load() + 1
	c.store(v)
	c.setZN(v)
	return false, nil
}

func (c *Cpu) dex() (bool, error) { c.X--; c.setZN(c.X); return false, nil }
func (c *Cpu) inx() (bool, error) { c.X++; c.setZN(c.X); return false, nil }
func (c *Cpu) dey() (bool, error) { c.Y--; c.setZN(c.Y); return false, nil }
func (c *Cpu) iny() (bool, error) { c.Y++; c.setZN(c.Y); return false, nil }

func (c *Cpu) lda() (bool, error) { c.A = c.load(); c.setZN(c.A); return false, nil }
func (c *Cpu) ldx() (bool, error) { c.X = c.load(); c.setZN(c.X); return false, nil }
func (c *Cpu) ldy() (bool, error) { c.Y = c.load(); c.setZN(c.Y); return false, nil }

func (c *Cpu) sta() (bool, error) { c.store(c.A); return false, nil }
func (c *Cpu) stx() (bool, error) { c.store(c.X); return false, nil }
func (c *Cpu) sty() (bool, error) { c.store(c.Y); return false, nil }

func (c *Cpu) tax() (bool, error) { c.X = c.A; c.setZN(c.X); return false, nil }
func (c *Cpu) tay() (bool, error) { c.Y = c.A; c.setZN(c.Y); return false, nil }
func (c *Cpu) txa() (bool, error) { c.A = c.X; c.setZN(c.A); return false, nil }
func (c *Cpu) tya() (bool, error) { c.A = c.Y; c.setZN(c.A); return false, nil }

// tsx/txs: unlike every other register transfer, TXS does not touch any
// flag (it moves a stack pointer, not a data value).
func (c *Cpu) tsx() (bool, error) { c.X = c.S; c.setZN(c.X); return false, nil }
func (c *Cpu) txs() (bool, error) { c.S = c.X; return false, nil }

func (c *Cpu) clc() (bool, error) { c.Set(FlagCarry, false); return false, nil }
func (c *Cpu) sec() (bool, error) { c.Set(FlagCarry, true); return false, nil }
func (c *Cpu) cli() (bool, error) { c.Set(FlagInterrupt, false); return false, nil }
func (c *Cpu) sei() (bool, error) { c.Set(FlagInterrupt, true); return false, nil }
func (c *Cpu) clv() (bool, error) { c.Set(FlagOverflow, false); return false, nil }
func (c *Cpu) cld() (bool, error) { c.Set(FlagDecimal, false); return false, nil }
func (c *Cpu) sed() (bool, error) { c.Set(FlagDecimal, true); return false, nil }

func (c *Cpu) nop() (bool, error) { return false, nil }

func (c *Cpu) pha() (bool, error) { return false, c.push(c.A) }

func (c *Cpu) pla() (bool, error) {
	v, err := c.pull()
	if err != nil {
		return false, err
	}
	c.A = v
	c.setZN(c.A)
	return false, nil
}

// php - Push Processor Status. Unlike an interrupt's own push, PHP always
// pushes with the B flag set, so a handler can tell "I was pushed by PHP"
// from "I was pushed by an interrupt" when it later inspects the byte.
func (c *Cpu) php() (bool, error) {
	return false, c.push(c.P | byte(FlagBreak) | byte(FlagUnused))
}

// plp - Pull Processor Status. The pulled byte's B bit is discarded: P has
// no real B bit of its own, only PHP/BRK's pushed snapshot does.
func (c *Cpu) plp() (bool, error) {
	p, err := c.pull()
	if err != nil {
		return false, err
	}
	c.P = (p | byte(FlagUnused)) &^ byte(FlagBreak)
	return false, nil
}

// jmp - Jump. c.addr.addr already holds the resolved target: for Absolute
// mode that's the operand itself, for Indirect mode decode has already
// chased the pointer (reproducing the page-wrap bug via mem.Bus.Read16).
func (c *Cpu) jmp() (bool, error) {
	c.PC = c.addr.addr
	return false, nil
}

// jsr - Jump to Subroutine. Pushes the address of the last byte of the JSR
// instruction (PC-1, since decode already advanced PC past both operand
// bytes); rts undoes this with +1.
func (c *Cpu) jsr() (bool, error) {
	if err := c.push16(c.PC - 1); err != nil {
		return false, err
	}
	c.PC = c.addr.addr
	return false, nil
}

func (c *Cpu) rts() (bool, error) {
	addr, err := c.pull16()
	if err != nil {
		return false, err
	}
	c.PC = addr + 1
	return false, nil
}

// brk - Force Interrupt. Acts like a hardware IRQ (vectors through
// mem.IRQVector) except it pushes PC+1 (treating the byte after BRK's
// opcode as a padding/signature byte the debugger can use) and sets the B
// flag in the pushed status byte so RTI's handler can tell it apart from a
// real IRQ.
func (c *Cpu) brk() (bool, error) {
	c.PC++
	if err := c.push16(c.PC); err != nil {
		return false, err
	}
	if err := c.push(c.P | byte(FlagBreak) | byte(FlagUnused)); err != nil {
		return false, err
	}
	c.Set(FlagInterrupt, true)
	c.PC = c.Bus.Read16NoWrap(mem.IRQVector)
	return true, nil
}

// rti - Return from Interrupt.
func (c *Cpu) rti() (bool, error) {
	p, err := c.pull()
	if err != nil {
		return false, err
	}
	c.P = (p | byte(FlagUnused)) &^ byte(FlagBreak)
	addr, err := c.pull16()
	if err != nil {
		return false, err
	}
	c.PC = addr
	return false, nil
}

// branchCond gives each branch mnemonic's flag test. The instruction bodies
// below and Step's cycle accounting both consult it, so the two can never
// disagree on when a branch is taken.
var branchCond = map[string]func(*Cpu) bool{
	"BPL": func(c *Cpu) bool { return !c.Get(FlagNegative) },
	"BMI": func(c *Cpu) bool { return c.Get(FlagNegative) },
	"BVC": func(c *Cpu) bool { return !c.Get(FlagOverflow) },
	"BVS": func(c *Cpu) bool { return c.Get(FlagOverflow) },
	"BCC": func(c *Cpu) bool { return !c.Get(FlagCarry) },
	"BCS": func(c *Cpu) bool { return c.Get(FlagCarry) },
	"BNE": func(c *Cpu) bool { return !c.Get(FlagZero) },
	"BEQ": func(c *Cpu) bool { return c.Get(FlagZero) },
}

// branch is the shared body for the eight conditional branches: if cond,
// jump to the pre-decoded relative target; either way the offset byte was
// already consumed by decode.
func (c *Cpu) branch(cond bool) (bool, error) {
	if cond {
		c.PC = c.addr.addr
	}
	return false, nil
}

func (c *Cpu) bcc() (bool, error) { return c.branch(branchCond["BCC"](c)) }
func (c *Cpu) bcs() (bool, error) { return c.branch(branchCond["BCS"](c)) }
func (c *Cpu) bne() (bool, error) { return c.branch(branchCond["BNE"](c)) }
func (c *Cpu) beq() (bool, error) { return c.branch(branchCond["BEQ"](c)) }
func (c *Cpu) bpl() (bool, error) { return c.branch(branchCond["BPL"](c)) }
func (c *Cpu) bmi() (bool, error) { return c.branch(branchCond["BMI"](c)) }
func (c *Cpu) bvc() (bool, error) { return c.branch(branchCond["BVC"](c)) }
func (c *Cpu) bvs() (bool, error) { return c.branch(branchCond["BVS"](c)) }
