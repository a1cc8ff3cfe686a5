package pipeline

import "github.com/sarchlab/pipe8sim/insts"

// ControlFlowUnit resolves branches and jumps in EX and reports the
// squash/redirect action the cycle driver must apply (§4.7).
type ControlFlowUnit struct {
	branchStallCycles uint64
}

// NewControlFlowUnit creates a control flow unit configured with the
// branch-stall window length armed after a taken transfer (§9: 8 cycles).
func NewControlFlowUnit(branchStallCycles uint64) *ControlFlowUnit {
	return &ControlFlowUnit{branchStallCycles: branchStallCycles}
}

// Resolution describes the outcome of evaluating a branch or jump in EX.
type Resolution struct {
	Taken      bool
	NextPC     uint32
	LinkAddr   int32 // written to Rd for JAL/JALR/RET
	HasLink    bool
}

// Resolve evaluates in (already in EX, with possibly-forwarded rs1Val and
// rs2Val) and reports where control flow should redirect to, if anywhere.
// nextSeqPC is pc+4 for in's own address, i.e. the address of the
// instruction textually following it (the JAL/JALR link value).
func (c *ControlFlowUnit) Resolve(in *insts.Instruction, rs1Val, rs2Val int32, nextSeqPC uint32) Resolution {
	switch in.Category {
	case insts.CategoryBranch:
		taken := branchTaken(in.Op, rs1Val, rs2Val)
		if !taken {
			return Resolution{}
		}
		return Resolution{Taken: true, NextPC: uint32(int32(in.Addr) + in.Imm)}
	case insts.CategoryJAL:
		return Resolution{
			Taken:    true,
			NextPC:   uint32(int32(in.Addr) + in.Imm),
			LinkAddr: int32(nextSeqPC),
			HasLink:  true,
		}
	case insts.CategoryJALR:
		return Resolution{
			Taken:    true,
			NextPC:   uint32(rs1Val+in.Imm) &^ 1,
			LinkAddr: int32(nextSeqPC),
			HasLink:  true,
		}
	default:
		return Resolution{}
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

// BranchStallCycles reports the configured control-stall window.
func (c *ControlFlowUnit) BranchStallCycles() uint64 { return c.branchStallCycles }
