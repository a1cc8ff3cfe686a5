package pipeline

// Stats accumulates the running totals the trace prints at the end of
// every cycle block (§6.3 "Total Stalls" / "Total Forwardings").
type Stats struct {
	LoadStalls   uint64
	BranchStalls uint64
	OtherStalls  uint64
	Forwards     [numForwardPaths]uint64
}

// Latches is a snapshot of the five named inter-stage registers rendered
// in the trace's "Pipeline Registers" block (§6.3, §2).
type Latches struct {
	NPC        uint32 // IF/IS.NPC
	IR         uint32 // IS/ID.IR
	A, B       int32  // RF/EX.A, RF/EX.B
	ALUout     int32  // EX/DF.ALUout
	StoreB     int32  // EX/DF.B
	FinalValue int32  // DS/WB.ALUout-LMD
}

// MemCell is one rendered line of the data-memory dump.
type MemCell struct {
	Addr  uint32
	Value int32
}

// CycleReport is everything the trace package needs to render one cycle
// block; Simulator.Tick returns it so rendering stays a pure function of
// already-computed state (§1: text I/O is out of this package's scope).
type CycleReport struct {
	Cycle         uint64
	PC            uint32
	StageText     [numStages]string
	StallInst     string // "(none)" or the disassembled ID instruction
	Detected      []string
	Fired         [numForwardPaths]string // "" unless that path fired this cycle
	Latches       Latches
	Registers     [32]int32
	Memory        []MemCell
	Stats         Stats
	Halted        bool
	MemoryErrors  []string
}
