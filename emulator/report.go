package emulator

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/ezrec/hokster/cpu"
)

// Count of recognitions of an instruction.
type Count struct {
	Mnemonic cpu.Mnemonic
	Count    int
}

// Report is the statistics of the run since the last reset.
type Report struct {
	Cycles       int           // Active cycles.
	HaltCycles   int           // Halted cycles.
	Instructions int           // Recognized instructions.
	Elapsed      time.Duration // Wall time.
	Occurrence   []Count       // Recognitions, most frequent first.
}

// Report returns the run statistics.
func (emu *Emulator) Report() (rep Report) {
	rep = Report{
		Cycles:       emu.Cycles,
		HaltCycles:   emu.HaltCycles,
		Instructions: emu.Instructions(),
		Elapsed:      emu.Elapsed,
	}

	for mnem, count := range emu.Occurrences() {
		rep.Occurrence = append(rep.Occurrence, Count{Mnemonic: mnem, Count: count})
	}

	return
}

// IPC is the instructions per active cycle.
func (rep Report) IPC() float64 {
	if rep.Cycles == 0 {
		return 0
	}
	return float64(rep.Instructions) / float64(rep.Cycles)
}

// Summary is a one line report of cycles and wall time.
func (rep Report) Summary() string {
	if rep.HaltCycles != 0 {
		return f("Active Cycles: %d Halted Cycles: %d Time Elapsed: %.6f s", rep.Cycles, rep.HaltCycles, rep.Elapsed.Seconds())
	}
	return f("Cycles Elapsed: %d Time Elapsed: %.6f s", rep.Cycles, rep.Elapsed.Seconds())
}

// String returns the full statistics as text.
func (rep Report) String() (text string) {
	text += f("Cycles: %d\n", rep.Cycles)
	if rep.HaltCycles != 0 {
		text += f("Halted Cycles: %d\n", rep.HaltCycles)
	}
	text += f("Instructions: %d\n", rep.Instructions)
	text += f("IPC: %.3f\n", rep.IPC())
	text += f("Occurrence:\n")
	for _, occ := range rep.Occurrence {
		text += f("  %v : %d\n", occ.Mnemonic, occ.Count)
	}
	return
}

// WriteCSV writes the statistics as comma separated records.
func (rep Report) WriteCSV(w io.Writer) (err error) {
	cw := csv.NewWriter(w)

	records := [][]string{
		{"Cycles", fmt.Sprintf("%d", rep.Cycles)},
		{"Halted Cycles", fmt.Sprintf("%d", rep.HaltCycles)},
		{"Instructions", fmt.Sprintf("%d", rep.Instructions)},
		{"IPC", fmt.Sprintf("%.3f", rep.IPC())},
		{"Occurrence"},
	}
	for _, occ := range rep.Occurrence {
		records = append(records, []string{occ.Mnemonic.String(), fmt.Sprintf("%d", occ.Count)})
	}

	err = cw.WriteAll(records)
	return
}
