package pipeline

import "github.com/sarchlab/pipe8sim/insts"

// stageText renders one stage's trace row (§6.3): "<unknown>" for a fresh
// IF fetch (not yet observed by IS), "**STALL**" for a bubble forced by
// the RAW hold, NOP for a naturally empty slot, else the disassembly.
func (s *Simulator) stageText(stage Stage) string {
	in := s.slots[stage]

	if stage == IF {
		if in != nil {
			return "<unknown>"
		}
		return "NOP"
	}

	if in == nil {
		if stage == RF && s.lastHold {
			return "**STALL**"
		}
		return "NOP"
	}

	return insts.Disassemble(in)
}

func (s *Simulator) buildReport(pcAtStart uint32) CycleReport {
	r := CycleReport{
		Cycle:  s.cycle,
		PC:     pcAtStart,
		Stats:  s.stats,
		Halted: s.halted,
	}

	for st := Stage(0); st < numStages; st++ {
		r.StageText[st] = s.stageText(st)
	}

	if s.stallInst != nil {
		r.StallInst = insts.Disassemble(s.stallInst)
	} else {
		r.StallInst = "(none)"
	}

	r.Detected = s.detected
	for _, p := range AllForwardPaths {
		if s.fired[p] {
			r.Fired[p] = p.String()
		}
	}

	r.Latches = s.buildLatches()
	r.Registers = s.Regs.R
	for _, cell := range s.Mem.Dump() {
		r.Memory = append(r.Memory, MemCell{Addr: cell.Addr, Value: cell.Value})
	}
	r.MemoryErrors = s.memoryErrors

	return r
}

func (s *Simulator) buildLatches() Latches {
	var l Latches

	if in := s.slots[IS]; in != nil {
		l.NPC = in.Addr
	} else {
		l.NPC = s.pc
	}

	if in := s.slots[ID]; in != nil {
		l.IR = in.Word
	}

	if in := s.slots[EX]; in != nil {
		l.A = in.Src[insts.SrcRS1]
		l.B = in.Src[insts.SrcRS2]
	}

	if in := s.slots[DF]; in != nil {
		l.ALUout = in.Result
		l.StoreB = in.Src[insts.SrcRS2]
	}

	if in := s.slots[WB]; in != nil {
		l.FinalValue = in.Result
	}

	return l
}

func (s *Simulator) emptyReport() CycleReport {
	r := CycleReport{
		Cycle:  s.cycle,
		PC:     s.pc,
		Stats:  s.stats,
		Halted: true,
	}
	for st := Stage(0); st < numStages; st++ {
		r.StageText[st] = "NOP"
	}
	r.StallInst = "(none)"
	r.Registers = s.Regs.R
	for _, cell := range s.Mem.Dump() {
		r.Memory = append(r.Memory, MemCell{Addr: cell.Addr, Value: cell.Value})
	}
	return r
}
