// Package cpu implements the MOS Technology 6502 microprocessor, as used in
// the NES (the decimal mode flag exists but, per the NES's hardwired
// omission, never changes ADC/SBC behavior).
package cpu

import (
	"fmt"
	"io"

	"gone/cartridge"
	"gone/isa"
	"gone/mask"
	"gone/mem"
)

// StandaloneOrigin is where Load places a program with no cartridge involved
// ($0600), matching the assembler's default test-harness entry point.
const StandaloneOrigin = 0x0600

// The Cpu has no memory of its own beyond its register file. Every byte it
// reads or writes passes through Bus.
type Cpu struct {
	Bus *mem.Bus

	A byte // accumulator
	X byte
	Y byte
	S byte // stack pointer; page 1 is 0x0100 + S

	// P is the status register. Use Get/Set (flags.go) rather than poking
	// bits directly; PHP, BRK, and interrupt entry all push this byte as-is
	// (with FlagBreak overlaid per context), and PLP/RTI pull it back.
	P byte

	PC uint16

	// Strict makes an illegal opcode byte return an *IllegalOpcodeError from
	// Step instead of being skipped as a one-byte NOP (PC advances by one and
	// OnCycle is not invoked), and a stack
	// push/pull that would wrap page 1 return a *StackError instead of
	// silently corrupting RAM. Off by default, matching real hardware's
	// lack of any such guard.
	Strict bool

	// OnCycle paces Step's instruction execution. A nil hook runs at
	// unthrottled speed (NoWait); set it to RealTime(NTSCClockHz) to pace a
	// program against a real NES's clock.
	OnCycle CycleHook

	// decode state, valid for the duration of a single Step
	addr        addrResult
	pageCrossed bool

	pendingNMI   bool
	pendingIRQ   bool
	pendingReset bool

	debugSource string
	debugOrigin uint16
}

// addrResult is the outcome of decoding one instruction's operand: either a
// memory address to read/write through the bus, or (for Accumulator mode)
// a direct reference to the A register.
type addrResult struct {
	mode        isa.AddressingMode
	addr        uint16
	accumulator bool
}

// New returns a Cpu wired to bus. Call Reset (or Load, which resets for you)
// before Step.
func New(bus *mem.Bus) *Cpu {
	return &Cpu{Bus: bus}
}

// Read reads one byte from addr via the bus.
func (c *Cpu) Read(addr uint16) byte { return c.Bus.Read(addr) }

// Write writes data to addr via the bus.
func (c *Cpu) Write(addr uint16, data byte) { c.Bus.Write(addr, data) }

// load returns the byte an instruction should operate on: A itself in
// Accumulator mode, or the decoded memory location otherwise.
func (c *Cpu) load() byte {
	if c.addr.accumulator {
		return c.A
	}
	return c.Read(c.addr.addr)
}

// store writes an instruction's result back to wherever load read it from.
func (c *Cpu) store(v byte) {
	if c.addr.accumulator {
		c.A = v
		return
	}
	c.Write(c.addr.addr, v)
}

// Load copies program into the bus at StandaloneOrigin, points the reset
// vector at it, and resets the Cpu so the next Step begins executing it.
func (c *Cpu) Load(program []byte) error {
	if err := c.Bus.Load(program, StandaloneOrigin); err != nil {
		return err
	}
	c.Reset()
	return nil
}

// LoadAndRun loads program, as Load does, then Runs it to completion.
func (c *Cpu) LoadAndRun(program []byte) error {
	if err := c.Load(program); err != nil {
		return err
	}
	return c.Run()
}

// LoadCartridge installs prg as PRG ROM (mirroring 16 KiB images, per
// mem.Bus.InstallCartridge) and resets the Cpu. The reset vector is read
// from the cartridge's own image, as on real hardware.
func (c *Cpu) LoadCartridge(prg []byte) error {
	if err := c.Bus.InstallCartridge(prg); err != nil {
		return err
	}
	c.Reset()
	return nil
}

// LoadINES parses an iNES image from r, installs its PRG ROM on the bus, and
// resets the Cpu, so the next Step begins at the cartridge's own reset
// vector. The parsed cartridge is returned for the host: CHR data and the
// mirroring mode belong to a PPU, which this core doesn't have.
func (c *Cpu) LoadINES(r io.Reader) (*cartridge.Cartridge, error) {
	cart, err := cartridge.Load(r)
	if err != nil {
		return nil, err
	}
	if err := c.Bus.InstallCartridge(cart.PRG); err != nil {
		return nil, err
	}
	c.Reset()
	return cart, nil
}

// DebugSource attaches assembler source text to the Cpu for Debug to display
// alongside the live register and memory view. origin is the address the
// source was assembled to start at; it is purely cosmetic bookkeeping for
// the debugger's source pane and does not affect execution.
func (c *Cpu) DebugSource(source string, origin uint16) {
	c.debugSource = source
	c.debugOrigin = origin
}

// Reset performs the power-up/reset sequence: registers clear (A, X, Y to
// zero; S to 0xfd, as if three pushes had already happened), I and the
// always-1 bit are set, and PC loads from the reset vector.
func (c *Cpu) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.S = 0xfd
	c.P = byte(FlagUnused | FlagInterrupt)
	c.PC = c.Bus.Read16NoWrap(mem.ResetVector)
}

// InterruptKind identifies what interrupted a Run loop.
type InterruptKind int

const (
	InterruptNone InterruptKind = iota
	InterruptBRK
	InterruptNMI
	InterruptIRQ
	InterruptReset
)

func (k InterruptKind) String() string {
	switch k {
	case InterruptBRK:
		return "BRK"
	case InterruptNMI:
		return "NMI"
	case InterruptIRQ:
		return "IRQ"
	case InterruptReset:
		return "reset"
	default:
		return "none"
	}
}

// Status is Step's outcome: either the instruction ran normally (OK), or it
// was BRK, or a pending NMI/IRQ was serviced instead of fetching the next
// opcode (Interrupted).
type Status struct {
	Interrupted bool
	Kind        InterruptKind
}

var statusOK = Status{}

// NMI requests a non-maskable interrupt be serviced on the next Step.
func (c *Cpu) NMI() { c.pendingNMI = true }

// IRQ requests a maskable interrupt be serviced on the next Step, if the
// interrupt-disable flag is clear.
func (c *Cpu) IRQ() { c.pendingIRQ = true }

// RequestReset asks Step to run the reset sequence in place of the next
// instruction. Unlike NMI/IRQ it pushes nothing; a Run loop observes it as
// an interrupt and exits.
func (c *Cpu) RequestReset() { c.pendingReset = true }

// Step executes exactly one instruction (or services one pending interrupt)
// and returns the resulting Status. Cycle pacing, if Cpu.OnCycle is set,
// happens inside Step before it returns.
func (c *Cpu) Step() (Status, error) {
	if c.pendingReset {
		c.pendingReset = false
		c.Reset()
		return Status{Interrupted: true, Kind: InterruptReset}, nil
	}
	if c.pendingNMI {
		c.pendingNMI = false
		c.serviceInterrupt(mem.NMIVector)
		return Status{Interrupted: true, Kind: InterruptNMI}, nil
	}
	// An IRQ masked by the interrupt-disable flag stays pending, as a held
	// interrupt line would, and is serviced once the flag clears.
	if c.pendingIRQ && !c.Get(FlagInterrupt) {
		c.pendingIRQ = false
		c.serviceInterrupt(mem.IRQVector)
		return Status{Interrupted: true, Kind: InterruptIRQ}, nil
	}

	opByte := c.Read(c.PC)
	entry, legal := opcodeTable[opByte]
	if !legal {
		if c.Strict {
			return statusOK, &IllegalOpcodeError{Opcode: opByte, At: c.PC}
		}
		c.PC++
		return statusOK, nil
	}
	at := c.PC
	c.PC++

	c.pageCrossed = false
	c.decode(entry.Mode)

	impl, ok := dispatch[entry.Mnemonic]
	if !ok {
		return statusOK, fmt.Errorf("cpu: unimplemented mnemonic %s at %#04x", entry.Mnemonic, at)
	}

	// Penalty cycles are computed before execution so the hook sees the full
	// count: a branch's condition and target are both known once the operand
	// is decoded, and indexing page crossings were flagged by decode itself.
	cycles := int(entry.Cycles)
	if entry.Mode == isa.Relative {
		if cond := branchCond[entry.Mnemonic]; cond != nil && cond(c) {
			cycles++
			if c.addr.addr&0xff00 != c.PC&0xff00 {
				cycles++
			}
		}
	} else if c.pageCrossed && pageCrossExtends(entry.Mnemonic, entry.Mode) {
		cycles++
	}

	var brk bool
	var err error
	run := func() { brk, err = impl(c) }
	if c.OnCycle != nil {
		c.OnCycle(cycles, run)
	} else {
		run()
	}
	if err != nil {
		return statusOK, err
	}
	if brk {
		return Status{Interrupted: true, Kind: InterruptBRK}, nil
	}
	return statusOK, nil
}

// pageCrossExtends reports whether entry's addressing mode takes an extra
// cycle on a page crossing. Branch instructions (Relative mode) are handled
// separately in Step; store instructions never get the bonus cycle since
// they always compute the full address.
func pageCrossExtends(mnemonic string, mode isa.AddressingMode) bool {
	if mnemonic == "STA" || mnemonic == "STX" || mnemonic == "STY" {
		return false
	}
	switch mode {
	case isa.AbsoluteX, isa.AbsoluteY, isa.IndirectY:
		return true
	default:
		return false
	}
}

// Run steps the Cpu until an instruction interrupts it (BRK, or a serviced
// NMI/IRQ) or a Step returns an error.
func (c *Cpu) Run() error {
	for {
		status, err := c.Step()
		if err != nil {
			return err
		}
		if status.Interrupted {
			return nil
		}
	}
}

// decode resolves mode into c.addr, advancing PC past the instruction's
// operand bytes and flagging c.pageCrossed when a page boundary is crossed
// by indexing.
func (c *Cpu) decode(mode isa.AddressingMode) {
	c.addr = addrResult{mode: mode}

	switch mode {
	case isa.Implied:
		// no operand

	case isa.Accumulator:
		c.addr.accumulator = true

	case isa.Immediate:
		c.addr.addr = c.PC
		c.PC++

	case isa.ZeroPage:
		c.addr.addr = uint16(c.Read(c.PC))
		c.PC++

	case isa.ZeroPageX:
		c.addr.addr = uint16(c.Read(c.PC) + c.X)
		c.PC++

	case isa.ZeroPageY:
		c.addr.addr = uint16(c.Read(c.PC) + c.Y)
		c.PC++

	case isa.Relative:
		offset := c.Read(c.PC)
		c.PC++
		c.addr.addr = c.PC + mask.SignExtend8(offset)

	case isa.Absolute:
		lo := c.Read(c.PC)
		c.PC++
		hi := c.Read(c.PC)
		c.PC++
		c.addr.addr = mask.Word(hi, lo)

	case isa.AbsoluteX:
		lo := c.Read(c.PC)
		c.PC++
		hi := c.Read(c.PC)
		c.PC++
		base := mask.Word(hi, lo)
		c.addr.addr = base + uint16(c.X)
		c.pageCrossed = c.addr.addr&0xff00 != uint16(hi)<<8

	case isa.AbsoluteY:
		lo := c.Read(c.PC)
		c.PC++
		hi := c.Read(c.PC)
		c.PC++
		base := mask.Word(hi, lo)
		c.addr.addr = base + uint16(c.Y)
		c.pageCrossed = c.addr.addr&0xff00 != uint16(hi)<<8

	case isa.IndirectX:
		ptr := c.Read(c.PC)
		c.PC++
		lo := c.Read(uint16(ptr+c.X) & 0x00ff)
		hi := c.Read(uint16(ptr+c.X+1) & 0x00ff)
		c.addr.addr = mask.Word(hi, lo)

	case isa.IndirectY:
		ptr := c.Read(c.PC)
		c.PC++
		lo := c.Read(uint16(ptr) & 0x00ff)
		hi := c.Read(uint16(ptr+1) & 0x00ff)
		base := mask.Word(hi, lo)
		c.addr.addr = base + uint16(c.Y)
		c.pageCrossed = c.addr.addr&0xff00 != uint16(hi)<<8

	case isa.Indirect:
		// JMP ($addr) — the 6502's documented page-wrap bug: if the
		// pointer's low byte is 0xff, the high byte of the target is
		// fetched from the start of the same page, not the next one.
		lo := c.Read(c.PC)
		c.PC++
		hi := c.Read(c.PC)
		c.PC++
		ptr := mask.Word(hi, lo)
		c.addr.addr = c.Bus.Read16(ptr)
	}
}

// push writes v to the stack (page 1) and decrements S. In Strict mode, a
// push at S==0x00 (which would wrap to 0xff, stomping the top of the page)
// returns a *StackError instead.
func (c *Cpu) push(v byte) error {
	if c.Strict && c.S == 0x00 {
		return &StackError{Op: "push", S: c.S}
	}
	c.Write(0x0100|uint16(c.S), v)
	c.S--
	return nil
}

// pull increments S and reads the byte now on top of the stack. In Strict
// mode, a pull at S==0xff (nothing has been pushed) returns a *StackError.
func (c *Cpu) pull() (byte, error) {
	if c.Strict && c.S == 0xff {
		return 0, &StackError{Op: "pull", S: c.S}
	}
	c.S++
	return c.Read(0x0100 | uint16(c.S)), nil
}

func (c *Cpu) push16(v uint16) error {
	if err := c.push(byte(v >> 8)); err != nil {
		return err
	}
	return c.push(byte(v))
}

func (c *Cpu) pull16() (uint16, error) {
	lo, err := c.pull()
	if err != nil {
		return 0, err
	}
	hi, err := c.pull()
	if err != nil {
		return 0, err
	}
	return mask.Word(hi, lo), nil
}

// serviceInterrupt runs the hardware NMI/IRQ entry sequence: push PC and P
// (with FlagBreak clear, which is what distinguishes a hardware interrupt
// from BRK's own push in brk), set the interrupt-disable flag, and vector PC
// through vector.
func (c *Cpu) serviceInterrupt(vector uint16) {
	_ = c.push16(c.PC)
	_ = c.push((c.P | byte(FlagUnused)) &^ byte(FlagBreak))
	c.Set(FlagInterrupt, true)
	c.PC = c.Bus.Read16NoWrap(vector)
}

// Register identifies a CPU register for GetRegister/SetRegister, the
// generic accessor a debugger or test harness uses when it wants to name a
// register dynamically instead of touching the field directly.
type Register int

const (
	RegA Register = iota
	RegX
	RegY
	RegS
	RegP
)

func (c *Cpu) GetRegister(r Register) byte {
	switch r {
	case RegA:
		return c.A
	case RegX:
		return c.X
	case RegY:
		return c.Y
	case RegS:
		return c.S
	case RegP:
		return c.P
	default:
		return 0
	}
}

func (c *Cpu) SetRegister(r Register, v byte) {
	switch r {
	case RegA:
		c.A = v
	case RegX:
		c.X = v
	case RegY:
		c.Y = v
	case RegS:
		c.S = v
	case RegP:
		c.P = v
	}
}
