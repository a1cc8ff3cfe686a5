package emu

import "github.com/sarchlab/pipe8sim/insts"

// Reference is a minimal, non-pipelined interpreter over the same
// instruction set the timing pipeline executes. It exists purely as a test
// oracle: running a program image through Reference and through the timing
// pipeline must land on byte-identical architectural state, since neither
// model changes the instructions' meaning, only their scheduling.
type Reference struct {
	Regs   *RegFile
	Memory *Memory
	PC     uint32
	decoder *insts.Decoder
}

// NewReference creates a reference interpreter starting execution at pc.
func NewReference(pc uint32, mem *Memory) *Reference {
	return &Reference{
		Regs:    NewRegFile(),
		Memory:  mem,
		PC:      pc,
		decoder: insts.NewDecoder(),
	}
}

// Step decodes and executes the word at fetch(PC), advancing PC. fetch
// returns the word at a given address and false once the program image is
// exhausted. Step returns false when execution should stop.
func (r *Reference) Step(fetch func(addr uint32) (uint32, bool)) bool {
	word, ok := fetch(r.PC)
	if !ok {
		return false
	}

	in := r.decoder.Decode(word)
	pc := r.PC
	nextPC := pc + 4

	rs1 := r.Regs.Read(in.Rs1)
	rs2 := r.Regs.Read(in.Rs2)

	switch in.Category {
	case insts.CategoryR:
		r.Regs.Write(in.Rd, aluOp(in.Op, rs1, rs2))
	case insts.CategoryI:
		if in.Op == insts.OpSLTI {
			r.Regs.Write(in.Rd, boolToInt32(rs1 < in.Imm))
		} else {
			r.Regs.Write(in.Rd, rs1+in.Imm)
		}
	case insts.CategoryLoad:
		addr := uint32(rs1 + in.Imm)
		value, err := r.Memory.Read(addr)
		if err == nil {
			r.Regs.Write(in.Rd, value)
		}
	case insts.CategoryStore:
		addr := uint32(rs1 + in.Imm)
		_ = r.Memory.Write(addr, rs2)
	case insts.CategoryBranch:
		if branchTaken(in.Op, rs1, rs2) {
			nextPC = uint32(int32(pc) + in.Imm)
		}
	case insts.CategoryJAL:
		r.Regs.Write(in.Rd, int32(nextPC))
		nextPC = uint32(int32(pc) + in.Imm)
	case insts.CategoryJALR:
		r.Regs.Write(in.Rd, int32(nextPC))
		nextPC = uint32(rs1+in.Imm) &^ 1
	}

	r.PC = nextPC
	return true
}

func aluOp(op insts.Op, a, b int32) int32 {
	switch op {
	case insts.OpADD:
		return a + b
	case insts.OpSUB:
		return a - b
	case insts.OpAND:
		return a & b
	case insts.OpOR:
		return a | b
	case insts.OpXOR:
		return a ^ b
	case insts.OpSLL:
		return a << uint32(b&0x1F)
	case insts.OpSRL:
		return int32(uint32(a) >> uint32(b&0x1F))
	case insts.OpSLT:
		return boolToInt32(a < b)
	default:
		return 0
	}
}

func branchTaken(op insts.Op, a, b int32) bool {
	switch op {
	case insts.OpBEQ:
		return a == b
	case insts.OpBNE:
		return a != b
	case insts.OpBGE:
		return a >= b
	case insts.OpBLT:
		return a < b
	default:
		return false
	}
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
