package cpu

import "gone/isa"

// An instrFunc executes one mnemonic's effect. By the time it runs, c.addr
// already holds the decoded operand location (see decode in cpu.go); the
// function reads it with c.load and writes results with c.store. The bool
// result is true only for BRK, signaling Step to report Status.Interrupted.
//
// Unlike the opcode table in package isa (indexed by byte, one entry per
// addressing-mode variant), dispatch is indexed by mnemonic: every
// addressing-mode variant of, say, ADC shares one implementation, since the
// addressing mode has already been resolved into c.addr by the time it runs.
type instrFunc func(c *Cpu) (brk bool, err error)

// opcodeTable is isa.Table indexed by byte, built once at package init
// rather than per Step.
var opcodeTable = isa.ByOpcode()

var dispatch = map[string]instrFunc{
	"ADC": (*Cpu).adc,
	"AND": (*Cpu).and,
	"ASL": (*Cpu).asl,
	"BIT": (*Cpu).bit,
	"BRK": (*Cpu).brk,
	"CMP": (*Cpu).cmp,
	"CPX": (*Cpu).cpx,
	"CPY": (*Cpu).cpy,
	"DEC": (*Cpu).dec,
	"EOR": (*Cpu).eor,
	"INC": (*Cpu).inc,
	"JMP": (*Cpu).jmp,
	"JSR": (*Cpu).jsr,
	"LDA": (*Cpu).lda,
	"LDX": (*Cpu).ldx,
	"LDY": (*Cpu).ldy,
	"LSR": (*Cpu).lsr,
	"NOP": (*Cpu).nop,
	"ORA": (*Cpu).ora,
	"ROL": (*Cpu).rol,
	"ROR": (*Cpu).ror,
	"RTI": (*Cpu).rti,
	"RTS": (*Cpu).rts,
	"SBC": (*Cpu).sbc,
	"STA": (*Cpu).sta,
	"STX": (*Cpu).stx,
	"STY": (*Cpu).sty,

	"CLC": (*Cpu).clc,
	"SEC": (*Cpu).sec,
	"CLI": (*Cpu).cli,
	"SEI": (*Cpu).sei,
	"CLV": (*Cpu).clv,
	"CLD": (*Cpu).cld,
	"SED": (*Cpu).sed,

	"TAX": (*Cpu).tax,
	"TXA": (*Cpu).txa,
	"DEX": (*Cpu).dex,
	"INX": (*Cpu).inx,
	"TAY": (*Cpu).tay,
	"TYA": (*Cpu).tya,
	"DEY": (*Cpu).dey,
	"INY": (*Cpu).iny,

	"BPL": (*Cpu).bpl,
	"BMI": (*Cpu).bmi,
	"BVC": (*Cpu).bvc,
	"BVS": (*Cpu).bvs,
	"BCC": (*Cpu).bcc,
	"BCS": (*Cpu).bcs,
	"BNE": (*Cpu).bne,
	"BEQ": (*Cpu).beq,

	"TXS": (*Cpu).txs,
	"TSX": (*Cpu).tsx,
	"PHA": (*Cpu).pha,
	"PLA": (*Cpu).pla,
	"PHP": (*Cpu).php,
	"PLP": (*Cpu).plp,
}
