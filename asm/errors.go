package asm

// EmitError reports an Instruction that could not be encoded: an undefined
// label, an addressing mode the mnemonic doesn't support, or a branch target
// too far away to reach with a signed 8-bit offset.
type EmitError struct {
	At     Span
	Reason string
}

func (e *EmitError) Error() string { return e.At.String() + ": " + e.Reason }
