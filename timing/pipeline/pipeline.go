// Package pipeline implements the 8-stage in-order pipeline: stage slots,
// pipeline latches, the hazard and forwarding unit, the control flow unit,
// and the cycle driver that ties them together.
//
// The eight stages, in order: IF, IS, ID, RF, EX, DF, DS, WB. Each holds at
// most one in-flight instruction; an empty slot renders as NOP. Per-cycle
// actions run in reverse pipeline order (WB, DS, DF, EX, RF, ID, IS, IF) so
// that a stage consuming a value its successor produced this same cycle
// observes it, matching a stage at cycle C reading its successor's state
// at the end of cycle C-1.
package pipeline

import (
	"fmt"
	"os"

	"github.com/sarchlab/pipe8sim/emu"
	"github.com/sarchlab/pipe8sim/insts"
	"github.com/sarchlab/pipe8sim/timing/config"
)

// Simulator holds all pipeline state: the eight stage slots, the register
// file and data memory, the hazard/control-flow units, and running
// statistics. It is the single value spec §9's Design Notes call for —
// no process-wide singletons.
type Simulator struct {
	cfg     *config.Config
	decoder *insts.Decoder
	Regs    *emu.RegFile
	Mem     *emu.Memory

	// Fetch returns the word at addr and whether one exists there; it is
	// backed by the loaded program image (§6.1, out of this package's
	// scope to decode the image file itself).
	Fetch func(addr uint32) (uint32, bool)

	pc uint32

	slots [numStages]*insts.Instruction

	hazard *HazardUnit
	ctrl   *ControlFlowUnit

	rawStallRemaining    uint64
	branchStallRemaining uint64
	squash               bool

	cycle   uint64
	retired uint64
	halted  bool

	stats Stats

	// Per-cycle scratch, reset at the start of each Tick and consumed
	// when building the CycleReport.
	detected     []string
	stallInst    *insts.Instruction
	fired        [numForwardPaths]bool
	memoryErrors []string
	lastHold     bool
}

// NewSimulator creates a pipeline over regs/mem, fetching program words
// via fetch, starting execution at entryPC.
func NewSimulator(cfg *config.Config, regs *emu.RegFile, mem *emu.Memory, fetch func(addr uint32) (uint32, bool), entryPC uint32) *Simulator {
	return &Simulator{
		cfg:     cfg,
		decoder: insts.NewDecoder(),
		Regs:    regs,
		Mem:     mem,
		Fetch:   fetch,
		pc:      entryPC,
		hazard:  NewHazardUnit(cfg.LoadUseStallCycles),
		ctrl:    NewControlFlowUnit(cfg.BranchStallCycles),
	}
}

// Halted reports whether the program has finished (no more instructions
// to fetch and every stage drained).
func (s *Simulator) Halted() bool { return s.halted }

// Cycle returns the number of cycles executed so far.
func (s *Simulator) Cycle() uint64 { return s.cycle }

// Stats returns the running stall/forwarding statistics.
func (s *Simulator) Stats() Stats { return s.stats }

func (s *Simulator) reportMemErr(err error) {
	msg := fmt.Sprintf("cycle %d: %s", s.cycle, err.Error())
	s.memoryErrors = append(s.memoryErrors, msg)
	fmt.Fprintln(os.Stderr, msg)
}

func (s *Simulator) fireForward(path ForwardPath) {
	if path == FwdNone {
		return
	}
	s.fired[path] = true
	s.stats.Forwards[path]++
}

// Tick advances the pipeline by one cycle and returns a report of
// everything the trace needs to render it (§4.8, §6.3).
func (s *Simulator) Tick() CycleReport {
	if s.halted {
		return s.emptyReport()
	}

	s.cycle++
	s.squash = false
	s.detected = nil
	s.stallInst = nil
	s.fired = [numForwardPaths]bool{}
	s.memoryErrors = nil

	fetchAddr := s.pc

	// Reverse pipeline order: WB, DS, DF, EX, RF, ID, IS. IF runs last,
	// once EX has had a chance to redirect the PC this same cycle.
	s.doWB()
	s.doDS()
	s.doDF()
	s.doEX()
	s.doRF()
	s.doID()
	s.doIS()

	// doID may have just armed rawStallRemaining for a load-use hazard on
	// the instruction now in ID; the hold must bite this same cycle, or
	// the consumer slips into RF before it is ever held.
	holding := s.rawStallRemaining > 0 && !s.squash

	var fetched *insts.Instruction
	switch {
	case s.squash:
		fetched = s.doFetch(s.pc)
		s.pc += 4
		s.rawStallRemaining = 0
	case holding:
		// IF does not advance while ID is held.
	default:
		fetched = s.doFetch(fetchAddr)
		s.pc = fetchAddr + 4
	}

	s.advance(s.squash, holding, fetched)
	s.lastHold = holding

	if holding {
		s.rawStallRemaining--
	}
	if s.branchStallRemaining > 0 {
		s.branchStallRemaining--
	}

	if fetched == nil && !s.squash && !holding && s.allEmpty() {
		s.halted = true
	}

	return s.buildReport(fetchAddr)
}

// doFetch reads the word at addr (if any) and decodes it into a fresh
// in-flight instruction for IF.
func (s *Simulator) doFetch(addr uint32) *insts.Instruction {
	word, ok := s.Fetch(addr)
	if !ok {
		return nil
	}
	in := s.decoder.Decode(word)
	in.Addr = addr
	in.ForwardDist[insts.SrcRS1] = insts.NoForward
	in.ForwardDist[insts.SrcRS2] = insts.NoForward
	return in
}

func (s *Simulator) allEmpty() bool {
	for _, in := range s.slots {
		if in != nil {
			return false
		}
	}
	return true
}

// advance moves each stage's instruction to its successor, honoring a
// squash (kills IF, IS, ID, RF; IF is refilled from the branch target) or
// a hold (IF, IS, ID frozen in place; RF receives a bubble) in force this
// cycle (§4.5, §4.7, §4.8 step 4).
func (s *Simulator) advance(squash, hold bool, fetched *insts.Instruction) {
	var next [numStages]*insts.Instruction

	next[WB] = s.slots[DS]
	next[DS] = s.slots[DF]
	next[DF] = s.slots[EX]

	switch {
	case squash:
		next[EX] = nil
		next[RF] = nil
		next[ID] = nil
		next[IS] = nil
		next[IF] = fetched
	case hold:
		next[EX] = s.slots[RF]
		next[RF] = nil
		next[ID] = s.slots[ID]
		next[IS] = s.slots[IS]
		next[IF] = s.slots[IF]
	default:
		next[EX] = s.slots[RF]
		next[RF] = s.slots[ID]
		next[ID] = s.slots[IS]
		next[IS] = s.slots[IF]
		next[IF] = fetched
	}

	s.slots = next
}
