package pipeline

import "github.com/sarchlab/pipe8sim/insts"

// ForwardPath names one of the five supported producer/consumer latch
// pairs (§4.6). The zero value means no forwarding armed.
type ForwardPath int

const (
	FwdNone ForwardPath = iota
	FwdEXDFtoRFEX // producer now at DF, consumer entering EX
	FwdDFDStoEXDF // producer now at DS, consumer entering DF
	FwdDFDStoRFEX // producer now at DS, consumer entering EX
	FwdDSWBtoEXDF // producer now at WB, consumer entering DF
	FwdDSWBtoRFEX // producer now at WB, consumer entering EX

	numForwardPaths
)

// AllForwardPaths lists every path in the fixed display/statistics order
// used by the trace (§6.3).
var AllForwardPaths = [5]ForwardPath{
	FwdEXDFtoRFEX, FwdDFDStoEXDF, FwdDFDStoRFEX, FwdDSWBtoEXDF, FwdDSWBtoRFEX,
}

func latchName(s Stage) string {
	return (s - 1).String() + "/" + s.String()
}

// String renders a path as "<producer latch> -> <consumer latch>", e.g.
// "EX/DF -> RF/EX".
func (p ForwardPath) String() string {
	if p == FwdNone {
		return "(none)"
	}
	return latchName(p.producerStage()) + " -> " + latchName(p.targetStage())
}

func (p ForwardPath) producerStage() Stage {
	switch p {
	case FwdEXDFtoRFEX:
		return DF
	case FwdDFDStoEXDF, FwdDFDStoRFEX:
		return DS
	case FwdDSWBtoEXDF, FwdDSWBtoRFEX:
		return WB
	default:
		return -1
	}
}

func (p ForwardPath) targetStage() Stage {
	switch p {
	case FwdEXDFtoRFEX, FwdDFDStoRFEX, FwdDSWBtoRFEX:
		return EX
	case FwdDFDStoEXDF, FwdDSWBtoEXDF:
		return DF
	default:
		return -1
	}
}

// pathFor resolves the forward path for a producer currently sitting at
// producerStage feeding a consumer about to use the value at targetStage
// (EX for ALU/branch/address operands, DF for a store's value operand).
func pathFor(producerStage, targetStage Stage) ForwardPath {
	for _, p := range AllForwardPaths {
		if p.producerStage() == producerStage && p.targetStage() == targetStage {
			return p
		}
	}
	return FwdNone
}

// HazardUnit detects RAW hazards at ID against in-flight producers, arms
// forwarding paths, and decides load-use stalls.
type HazardUnit struct {
	loadUseStallCycles uint64
}

// NewHazardUnit creates a hazard unit configured with the load-use stall
// length (§9: resolved to 2 cycles, held at ID).
func NewHazardUnit(loadUseStallCycles uint64) *HazardUnit {
	return &HazardUnit{loadUseStallCycles: loadUseStallCycles}
}

// LoadUseStallCycles reports the configured stall length.
func (h *HazardUnit) LoadUseStallCycles() uint64 { return h.loadUseStallCycles }

// idProducerStages are searched at ID for a RAW hazard, nearest producer
// first: the instruction immediately ahead of ID occupies RF.
var idProducerStages = [4]Stage{RF, EX, DF, DS}

// findProducer returns the nearest in-flight instruction among the given
// candidate stages that writes reg, or nil if none does.
func findProducer(slots *[numStages]*insts.Instruction, candidates []Stage, reg uint8) (Stage, *insts.Instruction) {
	for _, s := range candidates {
		in := slots[s]
		if in != nil && in.WritesRegister() && in.Rd == reg {
			return s, in
		}
	}
	return -1, nil
}

// DetectedPair names a hazard source spotted at ID, for the trace's
// "Detected" line.
type DetectedPair struct {
	Producer Stage
	Reg      uint8
}

// IDResult is what the ID stage action learns about the instruction
// currently occupying it.
type IDResult struct {
	LoadUseStall bool
	Detected     []DetectedPair
}

// DetectAtID runs the RAW check of §4.5 for the instruction currently in
// ID. A load-use stall is required only when the nearest producer sits in
// RF right now and is a load: that is the one case where, left
// unstalled, the consumer would reach EX exactly one cycle after the
// load's own EX, too early for any forwarding path to supply the value
// (the load's result isn't computed until DS).
func (h *HazardUnit) DetectAtID(slots *[numStages]*insts.Instruction, in *insts.Instruction) IDResult {
	var res IDResult

	check := func(reads bool, reg uint8) {
		if !reads {
			return
		}
		stage, producer := findProducer(slots, idProducerStages[:], reg)
		if producer == nil {
			return
		}
		if stage == RF && producer.Category == insts.CategoryLoad {
			res.LoadUseStall = true
			return
		}
		res.Detected = append(res.Detected, DetectedPair{Producer: stage, Reg: reg})
	}

	check(in.ReadsRS1(), in.Rs1)
	check(in.ReadsRS2(), in.Rs2)

	return res
}

// exCandidates and dfCandidates are searched when actually pulling a
// forwarded value, since the producer has moved ahead of wherever it was
// when the hazard was first spotted at ID. EX may draw from any stage
// that has already computed a result (DF, DS, WB); DF, being one stage
// further along, may only draw from DS or WB.
var exCandidates = [3]Stage{DF, DS, WB}
var dfCandidates = [2]Stage{DS, WB}

// ResolveAtEX finds a forwarding source for an EX-stage operand read
// (reg), returning the path and the value to use, or ok=false if no
// in-flight producer covers it (the register-file value applies).
func (h *HazardUnit) ResolveAtEX(slots *[numStages]*insts.Instruction, reg uint8) (ForwardPath, int32, bool) {
	stage, producer := findProducer(slots, exCandidates[:], reg)
	if producer == nil {
		return FwdNone, 0, false
	}
	return pathFor(stage, EX), producer.Result, true
}

// ResolveAtDF finds a forwarding source for a store's value operand (RS2)
// as it enters DF.
func (h *HazardUnit) ResolveAtDF(slots *[numStages]*insts.Instruction, reg uint8) (ForwardPath, int32, bool) {
	stage, producer := findProducer(slots, dfCandidates[:], reg)
	if producer == nil {
		return FwdNone, 0, false
	}
	return pathFor(stage, DF), producer.Result, true
}
