package cpu

// Status flags are best represented as a single byte (the P register) with
// typed bit-mask constants, rather than eight bool fields: that is how the
// hardware stores them, and it is the only representation PHP/PLP/BRK/RTI can
// push and pull without a lossy translation step.
//
// 7654 3210
// NVUB DIZC
type Flag byte

const (
	FlagCarry     Flag = 1 << 0
	FlagZero      Flag = 1 << 1
	FlagInterrupt Flag = 1 << 2 // interrupt disable
	FlagDecimal   Flag = 1 << 3 // inherited from the 6502, unused by the NES
	FlagBreak     Flag = 1 << 4 // set in the byte PHP/BRK push, never in P itself
	FlagUnused    Flag = 1 << 5 // always 1
	FlagOverflow  Flag = 1 << 6
	FlagNegative  Flag = 1 << 7
)

// Get reports whether bit f is set in the status register.
func (c *Cpu) Get(f Flag) bool { return c.P&byte(f) != 0 }

// Set writes bit f in the status register.
func (c *Cpu) Set(f Flag, v bool) {
	if v {
		c.P |= byte(f)
	} else {
		c.P &^= byte(f)
	}
}

// setZN sets the Zero and Negative flags from v, the standard "load result"
// flag pair used by nearly every instruction that produces a byte.
func (c *Cpu) setZN(v byte) {
	c.Set(FlagZero, v == 0)
	c.Set(FlagNegative, v&0x80 != 0)
}
