package pipeline

import "github.com/sarchlab/pipe8sim/insts"

// doWB writes the WB instruction's result into the register file. Runs
// first in the per-cycle action order so RF, later this same cycle, can
// observe a same-cycle writer (§5 ordering guarantee).
func (s *Simulator) doWB() {
	in := s.slots[WB]
	if in == nil {
		return
	}
	if in.WritesRegister() {
		s.Regs.Write(in.Rd, in.Result)
	}
	s.retired++
}

// doDS performs the memory access for a load or store sitting in DS. For
// loads, in.Result becomes the loaded word; for stores, in.Result (set at
// EX and possibly refined at DF) is written to memory. Access violations
// are reported and nullify the access (§7).
func (s *Simulator) doDS() {
	in := s.slots[DS]
	if in == nil {
		return
	}
	switch in.Category {
	case insts.CategoryLoad:
		v, err := s.Mem.Read(in.EffAddr)
		if err != nil {
			s.reportMemErr(err)
			return
		}
		in.Result = v
	case insts.CategoryStore:
		if err := s.Mem.Write(in.EffAddr, in.Result); err != nil {
			s.reportMemErr(err)
		}
	}
}

// doDF finalizes a store's value operand, pulling a forwarded value if
// the producing instruction is still in flight (DS or WB), one stage
// later than operand resolution for EX (§4.4, §4.6).
func (s *Simulator) doDF() {
	in := s.slots[DF]
	if in == nil || in.Category != insts.CategoryStore {
		return
	}
	if path, v, ok := s.hazard.ResolveAtDF(&s.slots, in.Rs2); ok {
		in.Result = v
		s.fireForward(path)
	}
}

// doEX computes the ALU result or effective address, resolves branches
// and jumps, and pulls any EX-stage forwarded operands.
func (s *Simulator) doEX() {
	in := s.slots[EX]
	if in == nil {
		return
	}

	rs1, rs2 := in.Src[insts.SrcRS1], in.Src[insts.SrcRS2]

	rs1Path := FwdNone
	if in.ReadsRS1() {
		if path, v, ok := s.hazard.ResolveAtEX(&s.slots, in.Rs1); ok {
			rs1 = v
			rs1Path = path
			s.fireForward(path)
		}
	}
	if in.ReadsRS2() {
		if path, v, ok := s.hazard.ResolveAtEX(&s.slots, in.Rs2); ok {
			rs2 = v
			// Both operands fed by the same producer count as one forwarding.
			if path != rs1Path {
				s.fireForward(path)
			}
		}
	}

	switch in.Category {
	case insts.CategoryR:
		in.Result = aluOp(in.Op, rs1, rs2)
	case insts.CategoryI:
		if in.Op == insts.OpSLTI {
			in.Result = boolToInt32(rs1 < in.Imm)
		} else {
			in.Result = rs1 + in.Imm
		}
	case insts.CategoryLoad:
		in.EffAddr = uint32(rs1 + in.Imm)
	case insts.CategoryStore:
		in.EffAddr = uint32(rs1 + in.Imm)
		in.Result = rs2
	case insts.CategoryBranch, insts.CategoryJAL, insts.CategoryJALR:
		res := s.ctrl.Resolve(in, rs1, rs2, in.Addr+4)
		if res.HasLink {
			in.Result = res.LinkAddr
		}
		if res.Taken {
			s.squash = true
			s.pc = res.NextPC
			s.stats.BranchStalls++
			s.branchStallRemaining = s.ctrl.BranchStallCycles()
			s.rawStallRemaining = 0
		}
	}
}

// doRF reads source operands from the register file. Plain register
// reads only; forwarding is resolved later, at EX/DF.
func (s *Simulator) doRF() {
	in := s.slots[RF]
	if in == nil {
		return
	}
	if in.ReadsRS1() {
		in.Src[insts.SrcRS1] = s.Regs.Read(in.Rs1)
	}
	if in.ReadsRS2() {
		in.Src[insts.SrcRS2] = s.Regs.Read(in.Rs2)
	}
}

// doID runs hazard detection for the instruction now in ID (§4.5),
// arming a load-use stall when needed.
func (s *Simulator) doID() {
	in := s.slots[ID]
	if in == nil {
		return
	}

	result := s.hazard.DetectAtID(&s.slots, in)
	for _, d := range result.Detected {
		s.detected = append(s.detected, d.Producer.String()+" -> ID (R"+regName(d.Reg)+")")
	}

	if result.LoadUseStall && s.rawStallRemaining == 0 {
		s.rawStallRemaining = s.hazard.LoadUseStallCycles()
		s.stats.LoadStalls++
		s.stallInst = in
	}
}

// doIS is a no-op placeholder: this design decodes at fetch time (IF), so
// by the time an instruction is visible in IS its fields are already
// complete. The stage exists for trace fidelity (§4.4, §6.3), not work.
func (s *Simulator) doIS() {}

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

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func regName(idx uint8) string {
	digits := "0123456789"
	if idx < 10 {
		return string(digits[idx])
	}
	return string(digits[idx/10]) + string(digits[idx%10])
}
