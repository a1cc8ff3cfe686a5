// Package trace renders a pipeline.CycleReport as the per-cycle text
// block emitted by the reference simulator, unchanged byte-for-byte
// across runs of the same program image (determinism is a property of
// Simulator.Tick; this package is a pure formatting layer over its
// output).
package trace

import (
	"fmt"
	"strings"

	"github.com/sarchlab/pipe8sim/timing/pipeline"
)

var stageLabels = [...]string{"IF", "IS", "ID", "RF", "EX", "DF", "DS", "WB"}

// pathOrder pairs each forward path with its fixed display label, in the
// order the trace always lists them regardless of which fired.
var pathOrder = []struct {
	path  pipeline.ForwardPath
	label string
}{
	{pipeline.FwdEXDFtoRFEX, "EX/DF -> RF/EX"},
	{pipeline.FwdDFDStoEXDF, "DF/DS -> EX/DF"},
	{pipeline.FwdDFDStoRFEX, "DF/DS -> RF/EX"},
	{pipeline.FwdDSWBtoEXDF, "DS/WB -> EX/DF"},
	{pipeline.FwdDSWBtoRFEX, "DS/WB -> RF/EX"},
}

// Render formats one CycleReport as the reference trace block.
func Render(r pipeline.CycleReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "***** Cycle #%d***********************************************\n", r.Cycle)
	fmt.Fprintf(&b, "Current PC = %d\n\n", r.PC)

	b.WriteString("Pipeline Status:\n")
	for i, label := range stageLabels {
		fmt.Fprintf(&b, "* %s : %s\n", label, r.StageText[i])
	}

	fmt.Fprintf(&b, "\nStall Instruction: %s\n", r.StallInst)

	b.WriteString("\nForwarding:\n")
	if len(r.Detected) == 0 {
		b.WriteString(" Detected: (none)\n")
	} else {
		b.WriteString(" Detected:\n")
		for i, d := range r.Detected {
			fmt.Fprintf(&b, "  [%d] %s\n", i, d)
		}
	}
	b.WriteString(" Forwarded:\n")
	for _, po := range pathOrder {
		fired := r.Fired[po.path]
		if fired == "" {
			fired = "(none)"
		}
		fmt.Fprintf(&b, " * %s : %s\n", po.label, fired)
	}

	b.WriteString("\nPipeline Registers:\n")
	fmt.Fprintf(&b, "* IF/IS.NPC  : %d\n", r.Latches.NPC)
	fmt.Fprintf(&b, "* IS/ID.IR   : %s\n", irText(r.Latches.IR))
	fmt.Fprintf(&b, "* RF/EX.A    : %d\n", r.Latches.A)
	fmt.Fprintf(&b, "* RF/EX.B    : %d\n", r.Latches.B)
	fmt.Fprintf(&b, "* EX/DF.ALUout : %d\n", r.Latches.ALUout)
	fmt.Fprintf(&b, "* EX/DF.B    : %d\n", r.Latches.StoreB)
	fmt.Fprintf(&b, "* DS/WB.ALUout-LMD : %d\n", r.Latches.FinalValue)

	b.WriteString("\nInteger registers:\n")
	for i := 0; i < 32; i++ {
		fmt.Fprintf(&b, "R%d\t%d\t", i, r.Registers[i])
		if (i+1)%4 == 0 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\nData memory:\n")
	for _, cell := range r.Memory {
		fmt.Fprintf(&b, "%d: %d\n", cell.Addr, cell.Value)
	}

	b.WriteString("\nTotal Stalls:\n")
	fmt.Fprintf(&b, "* Loads    : %d\n", r.Stats.LoadStalls)
	fmt.Fprintf(&b, "* Branches : %d\n", r.Stats.BranchStalls)
	fmt.Fprintf(&b, "* Other    : %d\n", r.Stats.OtherStalls)

	b.WriteString("\nTotal Forwardings:\n")
	for _, po := range pathOrder {
		fmt.Fprintf(&b, "* %s : %d\n", po.label, r.Stats.Forwards[po.path])
	}

	b.WriteString("\n")

	return b.String()
}

// irText matches the reference's "0 if zero, else 4 hex bytes" rendering
// of the instruction register.
func irText(word uint32) string {
	if word == 0 {
		return "0"
	}
	return fmt.Sprintf("<%02x %02x %02x %02x>",
		byte(word>>24), byte(word>>16), byte(word>>8), byte(word))
}
