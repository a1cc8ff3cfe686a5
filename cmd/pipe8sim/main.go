// Command pipe8sim disassembles or simulates a program image against the
// 8-stage in-order pipeline (§6.4).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/pipe8sim/emu"
	"github.com/sarchlab/pipe8sim/insts"
	"github.com/sarchlab/pipe8sim/loader"
	"github.com/sarchlab/pipe8sim/timing/config"
	"github.com/sarchlab/pipe8sim/timing/pipeline"
	"github.com/sarchlab/pipe8sim/trace"
)

// Exit codes (§6.4): 0 success, 1 file-open failure, 2 malformed
// operation, 3 memory-access violation observed during simulation.
const (
	exitOK = iota
	exitFileError
	exitBadOperation
	exitMemoryViolation
)

func main() {
	os.Exit(run())
}

func run() int {
	var configPath string

	root := &cobra.Command{
		Use:           "pipe8sim <input-file> <output-file> <dis|sim>",
		Short:         "8-stage in-order pipeline simulator",
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(args[0], args[1], args[2], configPath)
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "path to a JSON simulator config file")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return codeFor(err)
	}
	return exitOK
}

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func codeFor(err error) int {
	if ee, ok := err.(*exitError); ok {
		return ee.code
	}
	return exitBadOperation
}

func execute(inputPath, outputPath, operation, configPath string) error {
	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return &exitError{exitFileError, err}
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		return &exitError{exitBadOperation, err}
	}

	img, err := loader.Load(inputPath, cfg.CodeBase)
	if err != nil {
		return &exitError{exitFileError, err}
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return &exitError{exitFileError, fmt.Errorf("failed to open output file: %w", err)}
	}
	defer func() { _ = out.Close() }()

	switch operation {
	case "dis":
		return disassemble(img, out)
	case "sim":
		return simulate(cfg, img, out)
	default:
		return &exitError{exitBadOperation, fmt.Errorf("operation must be %q or %q, got %q", "dis", "sim", operation)}
	}
}

func disassemble(img *loader.Image, out *os.File) error {
	decoder := insts.NewDecoder()
	for i, word := range img.Words {
		addr := img.Base + uint32(i)*4
		in := decoder.Decode(word)
		in.Addr = addr
		if _, err := fmt.Fprintf(out, "%d: %s\n", addr, insts.Disassemble(in)); err != nil {
			return &exitError{exitFileError, err}
		}
	}
	return nil
}

func simulate(cfg *config.Config, img *loader.Image, out *os.File) error {
	regs := emu.NewRegFile()
	mem := emu.NewMemory(cfg.AddrLo, cfg.AddrHi)

	sim := pipeline.NewSimulator(cfg, regs, mem, img.WordAt, cfg.CodeBase)

	sawMemoryError := false
	for !sim.Halted() {
		report := sim.Tick()
		if len(report.MemoryErrors) > 0 {
			sawMemoryError = true
		}
		if _, err := fmt.Fprint(out, trace.Render(report)); err != nil {
			return &exitError{exitFileError, err}
		}
	}

	if sawMemoryError {
		return &exitError{exitMemoryViolation, fmt.Errorf("simulation observed a memory access violation")}
	}
	return nil
}
