// Package emu provides the architectural state the pipeline reads and
// writes: the integer register file and the word-addressed data memory.
package emu

// NumRegisters is the size of the architectural integer register file.
const NumRegisters = 32

// RegFile is the 32-slot architectural integer register file. Register
// zero is a normal register here: writes to it are not silently discarded
// and reads return whatever was last written to it (an explicit Non-goal
// of this design, unlike canonical RISC-V's hard-wired x0).
type RegFile struct {
	R [NumRegisters]int32
}

// NewRegFile creates a zeroed register file.
func NewRegFile() *RegFile {
	return &RegFile{}
}

// Read returns the value held in register idx. Both Read and Write are
// O(1); RF performs reads, WB performs writes.
func (rf *RegFile) Read(idx uint8) int32 {
	return rf.R[idx]
}

// Write stores value into register idx.
func (rf *RegFile) Write(idx uint8, value int32) {
	rf.R[idx] = value
}
