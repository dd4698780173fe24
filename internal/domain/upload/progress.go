package upload

import (
	"math"

	"github.com/uniedit/uploader/internal/port/outbound"
)

// Phase is a coarse stage of the upload state machine.
type Phase string

const (
	PhaseInitializing        Phase = "initializing"
	PhaseAcquiringCredential Phase = "acquiring-credential"
	PhaseTransferring        Phase = "transferring"
	PhaseComplete            Phase = "complete"
	PhaseFailed              Phase = "failed"
)

// Percentage checkpoints of the overall progress band.
const (
	percentInitializing = 0
	percentAcquiring    = 5
	percentTransferBase = 10
	percentTransferSpan = 85
	percentComplete     = 100
)

// Progress is a snapshot of one upload.
type Progress struct {
	Loaded     int64
	Total      int64
	Percentage float64
	Phase      Phase
}

// IsTerminal reports whether no further snapshots follow.
func (p Progress) IsTerminal() bool {
	return p.Phase == PhaseComplete || p.Phase == PhaseFailed
}

// OverallPercentage maps a transport percentage (0-100) into the 10-95 band.
func OverallPercentage(transportPercent float64) float64 {
	transportPercent = math.Max(0, math.Min(100, transportPercent))
	return percentTransferBase + transportPercent*percentTransferSpan/100
}

// progressReporter forwards snapshots of one attempt to a sink and keeps the
// percentage non-decreasing. The failure snapshot is the only reset.
type progressReporter struct {
	sink  func(Progress)
	total int64
	last  float64
}

func newProgressReporter(sink func(Progress), total int64) *progressReporter {
	return &progressReporter{sink: sink, total: total}
}

func (r *progressReporter) emit(p Progress) {
	if r.sink == nil {
		return
	}
	if p.Phase != PhaseFailed {
		p.Percentage = math.Min(percentComplete, math.Max(r.last, p.Percentage))
		r.last = p.Percentage
	}
	r.sink(p)
}

func (r *progressReporter) initializing() {
	r.emit(Progress{Total: r.total, Percentage: percentInitializing, Phase: PhaseInitializing})
}

func (r *progressReporter) acquiringCredential() {
	r.emit(Progress{Total: r.total, Percentage: percentAcquiring, Phase: PhaseAcquiringCredential})
}

func (r *progressReporter) transferring(tp outbound.TransferProgress) {
	total := tp.Total
	if total <= 0 {
		total = r.total
	}
	r.emit(Progress{
		Loaded:     tp.Loaded,
		Total:      total,
		Percentage: OverallPercentage(tp.Percentage),
		Phase:      PhaseTransferring,
	})
}

func (r *progressReporter) complete() {
	r.emit(Progress{Loaded: r.total, Total: r.total, Percentage: percentComplete, Phase: PhaseComplete})
}

func (r *progressReporter) failed() {
	r.emit(Progress{Loaded: 0, Total: r.total, Percentage: 0, Phase: PhaseFailed})
}
