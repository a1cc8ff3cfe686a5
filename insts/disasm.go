package insts

import "fmt"

// Disassemble renders the textual form of a decoded instruction used in the
// trace's Pipeline Status and Stall Instruction lines. Blank words render as
// "0"; undecodable words render as "ERROR".
func Disassemble(in *Instruction) string {
	if in == nil {
		return "NOP"
	}

	switch in.Category {
	case CategoryBlank:
		return "0"
	case CategoryOther:
		return "ERROR"
	}

	switch in.Op {
	case OpNOP:
		return "NOP"
	case OpJ:
		return fmt.Sprintf("J %d", in.Imm)
	case OpJAL:
		return fmt.Sprintf("JAL R%d, %d", in.Rd, in.Imm)
	case OpRET:
		return "RET"
	case OpJALR:
		return fmt.Sprintf("JALR R%d, R%d, %d", in.Rd, in.Rs1, in.Imm)
	case OpSW:
		return fmt.Sprintf("SW R%d, %d(R%d)", in.Rs2, in.Imm, in.Rs1)
	case OpLW:
		return fmt.Sprintf("LW R%d, %d(R%d)", in.Rd, in.Imm, in.Rs1)
	case OpADDI:
		return fmt.Sprintf("ADDI R%d, R%d, %d", in.Rd, in.Rs1, in.Imm)
	case OpSLTI:
		return fmt.Sprintf("SLTI R%d, R%d, %d", in.Rd, in.Rs1, in.Imm)
	case OpBEQ:
		return fmt.Sprintf("BEQ R%d, R%d, %d", in.Rs1, in.Rs2, in.Imm)
	case OpBNE:
		return fmt.Sprintf("BNE R%d, R%d, %d", in.Rs1, in.Rs2, in.Imm)
	case OpBGE:
		return fmt.Sprintf("BGE R%d, R%d, %d", in.Rs1, in.Rs2, in.Imm)
	case OpBLT:
		return fmt.Sprintf("BLT R%d, R%d, %d", in.Rs1, in.Rs2, in.Imm)
	case OpADD, OpSUB, OpSLT, OpSLL, OpSRL, OpAND, OpOR, OpXOR:
		return fmt.Sprintf("%s R%d, R%d, R%d", in.Op, in.Rd, in.Rs1, in.Rs2)
	default:
		return "ERROR"
	}
}
