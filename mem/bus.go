// Package mem implements the CPU's 16-bit flat address space: internal RAM
// mirroring, a PPU register stub for host-installed handlers, and cartridge
// PRG ROM. Every other component (the CPU, the assembler's test harness)
// reaches memory exclusively through a Bus.
package mem

import (
	"fmt"

	"go.uber.org/zap"
)

// CPU     MEM     PPU     CART
//  |       |       |       |
//  |       |0000   |2000   |8000
//  |       |1fff   |3fff   |ffff
//  |------------------------------------ BUS

const (
	ramSize = 0x0800 // 2 KiB of internal RAM
	ramMask = 0x07ff
	ramMin  = 0x0000
	ramMax  = 0x1fff
	ppuMin  = 0x2000
	ppuMax  = 0x3fff
	prgMin  = 0x8000
	prgMax  = 0xffff
	// prgWindow is the full 32 KiB mapped to PRG ROM; a 16 KiB cartridge
	// mirrors into both halves.
	prgWindow = prgMax - prgMin + 1

	ResetVector = 0xfffc
	NMIVector   = 0xfffa
	IRQVector   = 0xfffe
)

// A Handler answers reads and writes for a host-installed region, such as
// the PPU register window. Reader or Writer may be nil to leave that
// direction unhandled (falls through to the bus's default logging
// behavior).
type Handler struct {
	Start, End uint16
	Reader     func(addr uint16) byte
	Writer     func(addr uint16, data byte)
}

func (h Handler) contains(addr uint16) bool { return addr >= h.Start && addr <= h.End }

// BusError reports a fault the lenient Read/Write path swallows but the
// strict ReadStrict/WriteStrict path surfaces.
type BusError struct {
	Addr uint16
	Op   string // "read" or "write"
	Kind string // "cartridge-not-loaded", "read-only", "unsupported-region"
}

func (e *BusError) Error() string {
	return fmt.Sprintf("bus %s at %#04x: %s", e.Op, e.Addr, e.Kind)
}

// Bus dispatches byte and word accesses across the 6502's 64 KiB address
// space: RAM mirroring below 0x2000, a PPU stub from 0x2000-0x3fff, and
// cartridge PRG ROM from 0x8000-0xffff. Additional handler regions (for a
// host-supplied PPU, say) may be installed with Install.
type Bus struct {
	ram [ramSize]byte
	prg [prgWindow]byte

	cartLoaded bool
	handlers   []Handler

	log *zap.SugaredLogger
}

// New returns a Bus with no cartridge installed. A nil logger is valid and
// makes unmapped-access logging a no-op, matching "a host may ... ignore"
// from the cycle-hook contract.
func New(log *zap.SugaredLogger) *Bus {
	return &Bus{log: log}
}

// Install registers a handler for a host-owned address range (e.g. PPU
// registers). Handlers are consulted, in registration order, before the
// built-in RAM/ROM dispatch.
func (b *Bus) Install(h Handler) {
	b.handlers = append(b.handlers, h)
}

func (b *Bus) logf(format string, args ...any) {
	if b.log != nil {
		b.log.Debugf(format, args...)
	}
}

func (b *Bus) warnf(format string, args ...any) {
	if b.log != nil {
		b.log.Warnf(format, args...)
	}
}

// Read returns the byte at addr, per the bus dispatch rules. Unmapped
// accesses are logged and return 0; this never raises, by design (a
// deliberate leniency for development).
func (b *Bus) Read(addr uint16) byte {
	if v, ok := b.readHandler(addr); ok {
		return v
	}
	switch {
	case addr >= ramMin && addr <= ramMax:
		return b.ram[addr&ramMask]
	case addr >= ppuMin && addr <= ppuMax:
		b.warnf("unhandled PPU-range read at %#04x", addr)
		return 0
	case addr >= prgMin && addr <= prgMax:
		if !b.cartLoaded {
			b.logf("read at %#04x with no cartridge installed", addr)
		}
		return b.prg[addr-prgMin]
	default:
		b.logf("unhandled read at %#04x", addr)
		return 0
	}
}

// Write stores data at addr. Writes into PRG ROM are a no-op (the ROM is
// read-only); this is logged, not raised.
func (b *Bus) Write(addr uint16, data byte) {
	if b.writeHandler(addr, data) {
		return
	}
	switch {
	case addr >= ramMin && addr <= ramMax:
		b.ram[addr&ramMask] = data
	case addr >= ppuMin && addr <= ppuMax:
		b.warnf("unhandled PPU-range write at %#04x", addr)
	case addr >= prgMin && addr <= prgMax:
		b.warnf("write to read-only PRG ROM at %#04x ignored", addr)
	default:
		b.logf("unhandled write at %#04x", addr)
	}
}

func (b *Bus) readHandler(addr uint16) (byte, bool) {
	for _, h := range b.handlers {
		if h.contains(addr) && h.Reader != nil {
			return h.Reader(addr), true
		}
	}
	return 0, false
}

func (b *Bus) writeHandler(addr uint16, data byte) bool {
	for _, h := range b.handlers {
		if h.contains(addr) && h.Writer != nil {
			h.Writer(addr, data)
			return true
		}
	}
	return false
}

// ReadStrict is Read's fault-surfacing counterpart, for callers (tests,
// tooling) that want to distinguish an unmapped access from legitimate
// zero data.
func (b *Bus) ReadStrict(addr uint16) (byte, error) {
	if _, ok := b.readHandler(addr); ok {
		return b.Read(addr), nil
	}
	if addr >= prgMin && addr <= prgMax && !b.cartLoaded {
		return 0, &BusError{Addr: addr, Op: "read", Kind: "cartridge-not-loaded"}
	}
	if addr >= ppuMin && addr <= ppuMax {
		return 0, &BusError{Addr: addr, Op: "read", Kind: "unsupported-region"}
	}
	return b.Read(addr), nil
}

// WriteStrict is Write's fault-surfacing counterpart.
func (b *Bus) WriteStrict(addr uint16, data byte) error {
	if b.writeHandler(addr, data) {
		return nil
	}
	if addr >= prgMin && addr <= prgMax {
		return &BusError{Addr: addr, Op: "write", Kind: "read-only"}
	}
	if addr >= ppuMin && addr <= ppuMax {
		return &BusError{Addr: addr, Op: "write", Kind: "unsupported-region"}
	}
	b.Write(addr, data)
	return nil
}

// Read16 performs two sequential byte reads and concatenates them
// little-endian. The high byte's address wraps within the same page
// ("wrap-around addition of +1 on the high byte address"), reproducing the
// documented JMP-indirect page-wrap bug when addr's low byte is 0xff.
func (b *Bus) Read16(addr uint16) uint16 {
	lo := b.Read(addr)
	hiAddr := (addr & 0xff00) | uint16(byte(addr)+1)
	hi := b.Read(hiAddr)
	return uint16(hi)<<8 | uint16(lo)
}

// Read16NoWrap reads a little-endian word without the page-wrap bug; the
// CPU uses it to fetch the reset, NMI, and IRQ/BRK vectors.
func (b *Bus) Read16NoWrap(addr uint16) uint16 {
	lo := b.Read(addr)
	hi := b.Read(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// Write16 writes a little-endian word across two sequential addresses.
func (b *Bus) Write16(addr uint16, v uint16) {
	b.Write(addr, byte(v))
	b.Write(addr+1, byte(v>>8))
}

// InstallCartridge copies prg into the PRG ROM window. A 16 KiB PRG mirrors
// into the full 32 KiB window ("if cartridge PRG is 16 KiB it mirrors into
// the upper 16 KiB").
func (b *Bus) InstallCartridge(prg []byte) error {
	switch len(prg) {
	case prgWindow:
		copy(b.prg[:], prg)
	case prgWindow / 2:
		copy(b.prg[:prgWindow/2], prg)
		copy(b.prg[prgWindow/2:], prg)
	default:
		return fmt.Errorf("mem: unsupported PRG size %d bytes", len(prg))
	}
	b.cartLoaded = true
	return nil
}

// Load copies program into the bus's backing storage starting at origin and
// writes origin as the little-endian reset vector at 0xfffc-0xfffd. Unlike
// Write, this bypasses the read-only guard on PRG ROM: physically inserting
// a cartridge, or loading the standalone-assembler program, is not a CPU
// store and is allowed to land in either RAM or the PRG window.
func (b *Bus) Load(program []byte, origin uint16) error {
	for i, v := range program {
		if err := b.rawWrite(origin+uint16(i), v); err != nil {
			return err
		}
	}
	if err := b.rawWrite(ResetVector, byte(origin)); err != nil {
		return err
	}
	if err := b.rawWrite(ResetVector+1, byte(origin>>8)); err != nil {
		return err
	}
	b.cartLoaded = true
	return nil
}

func (b *Bus) rawWrite(addr uint16, v byte) error {
	switch {
	case addr >= ramMin && addr <= ramMax:
		b.ram[addr&ramMask] = v
	case addr >= prgMin && addr <= prgMax:
		b.prg[addr-prgMin] = v
	default:
		return fmt.Errorf("mem: cannot load into unmapped address %#04x", addr)
	}
	return nil
}
