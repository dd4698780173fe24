package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/uniedit/uploader/internal/domain/upload"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// progressStep is the percentage granularity of progress lines.
const progressStep = 25

// progressPrinter renders batch progress as one line per phase change and
// per progressStep of transfer.
type progressPrinter struct {
	mu   sync.Mutex
	out  io.Writer
	last map[int]fileState
}

type fileState struct {
	phase upload.Phase
	step  int
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{out: out, last: make(map[int]fileState)}
}

func (p *progressPrinter) handle(bp upload.BatchProgress) {
	p.mu.Lock()
	defer p.mu.Unlock()

	step := int(bp.Progress.Percentage) / progressStep
	prev, seen := p.last[bp.FileIndex]
	if seen && prev.phase == bp.Progress.Phase && prev.step == step {
		return
	}
	p.last[bp.FileIndex] = fileState{phase: bp.Progress.Phase, step: step}

	// Terminal snapshots are reported by the summary.
	if bp.Progress.IsTerminal() {
		return
	}

	fmt.Fprintf(p.out, "%s %-40s %5.1f%% %s\n",
		gray(fmt.Sprintf("[%d/%d]", bp.FileIndex+1, bp.Total)),
		bp.FileName,
		bp.Progress.Percentage,
		gray(string(bp.Progress.Phase)),
	)
}

func printSuccess(out io.Writer, name, url string) {
	fmt.Fprintf(out, "%s %s %s\n", green("✓"), name, url)
}

func printFailure(out io.Writer, name string, err error) {
	fmt.Fprintf(out, "%s %s: %s\n", red("✗"), name, err)
}

func printSummary(out io.Writer, succeeded, failed int) {
	summary := fmt.Sprintf("%d uploaded, %d failed", succeeded, failed)
	if failed > 0 {
		fmt.Fprintln(out, bold(yellow(summary)))
		return
	}
	fmt.Fprintln(out, bold(green(summary)))
}
