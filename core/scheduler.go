package core

/*------------------------------------------------------------------
 *
 * Purpose:	C-Netz supervisory scheduler (C10, spec §4.10): a
 *		32-timeslot TDMA discipline at 12.5ms cadence.
 *
 *----------------------------------------------------------------*/

const (
	CNetzSlotsPerFrame = 32
	CNetzSlotMS        = TimeMS(12) // the 12.5ms slot period truncated to whole milliseconds
)

// CNetzBlockKind distinguishes a Rufblock (paging) from a Meldeblock
// (response) slot.
type CNetzBlockKind int

const (
	CNetzRufblock CNetzBlockKind = iota
	CNetzMeldeblock
)

// cnetzForwardSlots gives the forward (paging) slot set for cell 0
// and cell 1, per the table in spec §4.10.
var cnetzForwardSlots = map[int][4]int{
	0: {0, 8, 16, 24},
	1: {4, 12, 20, 28},
}

// CNetzScheduler advances a slot counter modulo 32 and decides, for
// each slot, whether it is this cell's forward (paging) slot, and
// whether it carries a Rufblock or Meldeblock.
type CNetzScheduler struct {
	cellNr int
	slot   int

	// retuneAheadSlots is how many slots ahead of a traffic-channel
	// (SpK) handover the radio is retuned, per spec §4.10.
	retuneAheadSlots int

	pendingRetune int // slots remaining until a scheduled retune, -1 if none
}

func NewCNetzScheduler(cellNr int) *CNetzScheduler {
	return &CNetzScheduler{cellNr: cellNr, retuneAheadSlots: 2, pendingRetune: -1}
}

// Slot returns the current slot index (0..31).
func (s *CNetzScheduler) Slot() int { return s.slot }

// Advance moves to the next slot, wrapping modulo 32.
func (s *CNetzScheduler) Advance() {
	s.slot = (s.slot + 1) % CNetzSlotsPerFrame
	if s.pendingRetune > 0 {
		s.pendingRetune--
	}
}

// IsForwardSlot reports whether the current slot is one of this
// cell's forward (paging) slots (spec §4.10, testable property
// scenario E).
func (s *CNetzScheduler) IsForwardSlot() bool {
	slots, ok := cnetzForwardSlots[s.cellNr]
	if !ok {
		return false
	}
	for _, fs := range slots {
		if fs == s.slot {
			return true
		}
	}
	return false
}

// BlockKind reports whether the current slot carries a Rufblock or a
// Meldeblock, alternating by the low bit of a per-slot counter
// (spec §4.10).
func (s *CNetzScheduler) BlockKind() CNetzBlockKind {
	if s.slot&1 == 0 {
		return CNetzRufblock
	}
	return CNetzMeldeblock
}

// ScheduleRetune arms a traffic-channel retune N slots ahead so the
// radio has time to retune (spec §4.10).
func (s *CNetzScheduler) ScheduleRetune() {
	s.pendingRetune = s.retuneAheadSlots
}

// RetuneDue reports whether a previously scheduled retune should
// happen on this tick.
func (s *CNetzScheduler) RetuneDue() bool {
	return s.pendingRetune == 0
}

// PhaseSync implements the master/slave symbol-accurate alignment
// named in spec §4.10 and §9: the slave inserts or skips one sample
// per slot to match the master's fractional TX phase. Per §9's open
// question, residual drift beyond one sample per slot is out of
// scope; this only ever adjusts by exactly one sample.
type PhaseSync struct {
	isMaster     bool
	masterPhase  float64 // 0..1, set externally from the master's observed phase
	slavePhase   float64
}

func NewPhaseSync(isMaster bool) *PhaseSync {
	return &PhaseSync{isMaster: isMaster}
}

// SetMasterPhase is called on the slave with the master's
// fractional-sample phase as observed each slot.
func (p *PhaseSync) SetMasterPhase(phase float64) {
	p.masterPhase = phase
}

// SlotAdjustment returns -1, 0, or +1 samples to insert/skip this
// slot to track the master's phase.
func (p *PhaseSync) SlotAdjustment() int {
	if p.isMaster {
		return 0
	}
	diff := p.masterPhase - p.slavePhase
	switch {
	case diff > 0.5:
		p.slavePhase += 1.0
		return 1
	case diff < -0.5:
		p.slavePhase -= 1.0
		return -1
	default:
		return 0
	}
}
