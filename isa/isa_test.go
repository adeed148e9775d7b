package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableHasOneHundredFiftyOneEntries(t *testing.T) {
	assert.Len(t, Table, 151)
}

func TestByOpcodeIsInjective(t *testing.T) {
	byOp := ByOpcode()
	assert.Len(t, byOp, len(Table), "duplicate opcode byte in Table")
}

func TestByMnemonicGroupsAddressingModes(t *testing.T) {
	byMnem := ByMnemonic()
	adc := byMnem["ADC"]
	assert.Len(t, adc, 8)

	brk := byMnem["BRK"]
	assert.Len(t, brk, 1)
	assert.Equal(t, Implied, brk[0].Mode)
}

func TestBranchesAreRelative(t *testing.T) {
	byMnem := ByMnemonic()
	for mnemonic := range Branches {
		entries := byMnem[mnemonic]
		assert.Len(t, entries, 1)
		assert.Equal(t, Relative, entries[0].Mode)
	}
}

func TestOperandBytes(t *testing.T) {
	assert.Equal(t, 0, Implied.OperandBytes())
	assert.Equal(t, 0, Accumulator.OperandBytes())
	assert.Equal(t, 1, Immediate.OperandBytes())
	assert.Equal(t, 1, Relative.OperandBytes())
	assert.Equal(t, 2, Absolute.OperandBytes())
	assert.Equal(t, 2, Indirect.OperandBytes())
}
