// Package insts provides the instruction model and decoder for the pipe8sim
// 32-bit RISC subset: instruction categories, precise operations, and the
// per-instruction scratch state the pipeline threads through its stages.
package insts

// Category is the coarse instruction class selected by the 7-bit opcode
// field (bits 6..0 of the machine word).
type Category uint8

// Instruction categories, by opcode bits 6..0.
const (
	CategoryBlank Category = iota // all-zero word: legal placeholder, never executed
	CategoryJAL
	CategoryJALR
	CategoryR // register/register
	CategoryStore
	CategoryLoad
	CategoryI // immediate arithmetic
	CategoryBranch
	CategoryOther // unrecognized opcode
)

// String renders the category name used in diagnostics.
func (c Category) String() string {
	switch c {
	case CategoryBlank:
		return "Blank"
	case CategoryJAL:
		return "JAL"
	case CategoryJALR:
		return "JALR"
	case CategoryR:
		return "R"
	case CategoryStore:
		return "Store"
	case CategoryLoad:
		return "Load"
	case CategoryI:
		return "I"
	case CategoryBranch:
		return "Branch"
	default:
		return "Other"
	}
}

// Op is the precise operation once aliasing (J vs JAL, RET vs JALR, NOP vs
// ADDI) has been resolved.
type Op uint8

// Precise operations.
const (
	OpNone Op = iota // Blank (all-zero word)
	OpJAL
	OpJ // alias of JAL with Rd == 0
	OpJALR
	OpRET // alias of JALR with Rd==0, Rs1==1, Imm==0
	OpSW
	OpLW
	OpSLT
	OpSLL
	OpSRL
	OpSUB
	OpADD
	OpNOP // alias of ADDI with all-zero fields
	OpAND
	OpOR
	OpXOR
	OpADDI
	OpSLTI
	OpBEQ
	OpBNE
	OpBGE
	OpBLT
	OpError // unrecognized opcode or funct3/funct7 combination
)

var opNames = map[Op]string{
	OpNone: "0", OpJAL: "JAL", OpJ: "J", OpJALR: "JALR", OpRET: "RET",
	OpSW: "SW", OpLW: "LW", OpSLT: "SLT", OpSLL: "SLL", OpSRL: "SRL",
	OpSUB: "SUB", OpADD: "ADD", OpNOP: "NOP", OpAND: "AND", OpOR: "OR",
	OpXOR: "XOR", OpADDI: "ADDI", OpSLTI: "SLTI", OpBEQ: "BEQ", OpBNE: "BNE",
	OpBGE: "BGE", OpBLT: "BLT", OpError: "ERROR",
}

// String renders the mnemonic used in disassembly and error messages.
func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return "?"
}

// SrcOperand names a source-operand slot, used to key the scratch arrays
// threaded through the pipeline (fetched value, forwarding distance).
type SrcOperand int

// The two source-operand slots an instruction may read.
const (
	SrcRS1 SrcOperand = iota
	SrcRS2
	numSrcOperands
)

// NoForward is the sentinel cycles-ahead distance meaning "no forwarding
// armed for this operand; use the register-file value".
const NoForward = -1

// Instruction is the Decoded Instruction record: the immutable decode
// result plus the mutable scratch fields populated as the instruction
// advances through the pipeline.
type Instruction struct {
	// Decode-time, immutable fields.
	Word     uint32
	Addr     uint32 // address (PC) this word was fetched from
	Category Category
	Op       Op
	Rs1      uint8
	Rs2      uint8
	Rd       uint8
	Imm      int32

	// Execution-time scratch, mutated as the instruction advances.
	Src         [numSrcOperands]int32 // fetched source values, keyed by SrcOperand
	ForwardDist [numSrcOperands]int   // cycles-ahead distance, or NoForward
	Result      int32                 // ALU result / loaded value / link address
	EffAddr     uint32                // effective address for loads/stores
}

// SourceRegister returns the architectural register index feeding the given
// operand slot.
func (in *Instruction) SourceRegister(op SrcOperand) uint8 {
	if op == SrcRS1 {
		return in.Rs1
	}
	return in.Rs2
}

// ReadsRS1 reports whether this instruction's category consumes RS1 in RF.
func (in *Instruction) ReadsRS1() bool {
	switch in.Category {
	case CategoryJALR, CategoryLoad, CategoryStore, CategoryR, CategoryI, CategoryBranch:
		return true
	default:
		return false
	}
}

// ReadsRS2 reports whether this instruction's category consumes RS2 in RF.
func (in *Instruction) ReadsRS2() bool {
	switch in.Category {
	case CategoryStore, CategoryR, CategoryBranch:
		return true
	default:
		return false
	}
}

// WritesRegister reports whether this instruction's category defines a
// destination register written in WB.
func (in *Instruction) WritesRegister() bool {
	switch in.Category {
	case CategoryI, CategoryR, CategoryLoad, CategoryJAL, CategoryJALR:
		return true
	default:
		return false
	}
}

// IsBranchOrJump reports whether control flow may be redirected in EX.
func (in *Instruction) IsBranchOrJump() bool {
	switch in.Category {
	case CategoryBranch, CategoryJAL, CategoryJALR:
		return true
	default:
		return false
	}
}
