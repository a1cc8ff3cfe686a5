package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pipe8sim/emu"
	"github.com/sarchlab/pipe8sim/insts"
	"github.com/sarchlab/pipe8sim/timing/config"
)

// runReference executes words against the non-pipelined interpreter until
// it runs off the end of the program image.
func runReference(cfg *config.Config, regs *emu.RegFile, mem *emu.Memory, words []uint32) {
	ref := emu.NewReference(cfg.CodeBase, mem)
	ref.Regs = regs
	for ref.Step(program(cfg, words)) {
	}
}

var _ = Describe("pipeline vs. reference interpreter", func() {
	// The timed pipeline only reorders when each instruction's effects
	// become visible, never what those effects are; a non-pipelined
	// interpreter over the same program image must land on identical
	// architectural state (§9 Design Notes: pipelining must not change
	// program semantics).
	It("agrees with the reference interpreter on a program mixing hazards, a branch, and memory", func() {
		cfg := config.DefaultConfig()

		words := []uint32{
			iType(insts.OpADDI, 1, 0, 7),       // R1 = 7
			rType(insts.OpADD, 2, 1, 1),        // R2 = 14 (RAW forward)
			storeWord(0, 2, 600),               // mem[600] = 14 (R0 holds 0, base addr)
			loadWord(3, 0, 600),                // R3 = mem[600] (load-use candidate)
			rType(insts.OpADD, 4, 3, 3),         // R4 = 2*R3, stalls on the load
			branch(insts.OpBEQ, 0, 0, 8),        // always taken, skips one ADDI
			iType(insts.OpADDI, 5, 0, 99),      // squashed
			iType(insts.OpADDI, 6, 0, 6),
		}

		pipeRegs := emu.NewRegFile()
		pipeMem := emu.NewDefaultMemory()
		run(cfg, pipeRegs, pipeMem, words, 60)

		refRegs := emu.NewRegFile()
		refMem := emu.NewDefaultMemory()
		runReference(cfg, refRegs, refMem, words)

		for i := 0; i < 32; i++ {
			Expect(pipeRegs.Read(uint8(i))).To(Equal(refRegs.Read(uint8(i))), "register R%d diverged", i)
		}
		for _, cell := range pipeMem.Dump() {
			refVal, err := refMem.Read(cell.Addr)
			Expect(err).NotTo(HaveOccurred())
			Expect(cell.Value).To(Equal(refVal), "memory[%d] diverged", cell.Addr)
		}
	})
})
