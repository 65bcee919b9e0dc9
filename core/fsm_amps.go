package core

/*------------------------------------------------------------------
 *
 * Purpose:	AMPS/TACS/JTACS protocol FSM (C7, spec §4.7, scenarios A/B).
 *
 *----------------------------------------------------------------*/

import (
	"fmt"
	"strconv"
)

// AMPSState is the per-transaction state enum for AMPS/TACS/JTACS
// (spec §4.7's canonical MO/MT call diagrams).
type AMPSState int

const (
	AMPSIdle AMPSState = iota
	AMPSCallMoAssign
	AMPSCallMoAssignConfirm
	AMPSPage
	AMPSCallMtAssign
	AMPSCallMtAssignConfirm
	AMPSAlert
	AMPSAnswerWait
	AMPSActive
	AMPSRelease
	AMPSReject
)

// AMPSTimers holds the durations named in spec §4.7.
type AMPSTimers struct {
	SATAcquire   TimeMS
	SATLoss      TimeMS
	PageReply    TimeMS
	AlertConfirm TimeMS
	Answer       TimeMS
	Release      TimeMS
}

// DefaultAMPSTimers matches the durations listed in spec §4.7: SAT
// acquisition 5s, SAT loss 5s, page reply 8s, alert confirm 600ms,
// answer 60s, release 5s.
var DefaultAMPSTimers = AMPSTimers{
	SATAcquire: 5000, SATLoss: 5000, PageReply: 8000,
	AlertConfirm: 600, Answer: 60000, Release: 5000,
}

const (
	amsPageRetryLimit  = 2
	amsAlertRetryLimit = 3
)

// AMPSFSM implements ProtocolFSM for one AMPS/TACS/JTACS transceiver
// (spec §4.7).
type AMPSFSM struct {
	core       *Core
	transceiver *Transceiver
	timers     AMPSTimers
	sink       CallControlSink

	pendingForward Bits
	overheadTrain  []int // queue of forward message types still to send
}

func NewAMPSFSM(core *Core, t *Transceiver, sink CallControlSink) *AMPSFSM {
	return &AMPSFSM{core: core, transceiver: t, timers: DefaultAMPSTimers, sink: sink, overheadTrain: []int{0}}
}

// OnFrame dispatches a decoded RECC/FOCC frame to the appropriate
// transaction, creating one on RECC seizure (spec §4.7).
func (f *AMPSFSM) OnFrame(fr DecodedFrame) {
	data, ok, _ := AMPSReverseBCH.Decode(fr.Bits)
	if !ok {
		f.core.Log.Debugf("amps: dropped RECC word on channel %d (BCH parity failed)", f.transceiver.Channel)
		return // CRC/parity error below-threshold: drop silently (spec §4.7)
	}
	values, err := decodeAMPSReverseWord(0, IntToBits(data, AMPSReverseBCH.K))
	if err != nil {
		return
	}
	min1 := values["min1"]
	identity := fmt.Sprintf("%d", min1)

	tr, existing := f.core.Registry.SearchByIdentity(identity)
	if !existing {
		tr = f.core.Registry.Create(f.transceiver.System, identity, f.transceiver.Channel, fr.Level, f.onEvict)
		tr.State = int(AMPSCallMoAssign)
		f.core.Log.Infof("amps: new transaction %s on channel %d", identity, f.transceiver.Channel)
	}
	f.transceiver.Attach(tr.Handle())

	if AMPSState(tr.State) == AMPSPage {
		// The mobile answers a page with the same RECC seizure word used
		// for origination; it is disambiguated only by an already-paged
		// transaction existing for this MIN (original_source/src/amps/amps.c
		// search_transaction_number).
		tr.State = int(AMPSCallMtAssignConfirm)
		return
	}
	f.advanceMO(tr)
}

func decodeAMPSReverseWord(wordIndex int, data Bits) (map[string]uint64, error) {
	word, ok := ampsReverseWords[wordIndex]
	if !ok {
		return nil, fmt.Errorf("unknown AMPS reverse word %d", wordIndex)
	}
	return UnpackFields(word, data), nil
}

// advanceMO drives the MO-call diagram: Idle --RECC-seizure-->
// AssignReceived --vcAssigned--> AssignConfirm --satDetected--> Active
// (spec §4.7).
func (f *AMPSFSM) advanceMO(tr *Transaction) {
	switch AMPSState(tr.State) {
	case AMPSCallMoAssign:
		tr.State = int(AMPSCallMoAssignConfirm)
	case AMPSCallMoAssignConfirm:
		tr.State = int(AMPSActive)
	}
}

// OnSupervisory handles SAT detected/lost edges (spec §4.4, §4.7).
func (f *AMPSFSM) OnSupervisory(detected bool) {
	for _, h := range f.transceiver.transactions {
		tr, ok := f.core.Registry.Get(h)
		if !ok {
			continue
		}
		switch AMPSState(tr.State) {
		case AMPSCallMoAssignConfirm:
			if detected {
				tr.State = int(AMPSActive)
			}
		case AMPSCallMtAssignConfirm:
			if detected {
				// MT flow: SAT lock at assign-confirm means the mobile rang in
				// to answer a page, so the next step is alerting, not active.
				tr.State = int(AMPSAlert)
			}
		case AMPSActive:
			if !detected {
				// Loss of SAT during an active call is fatal after the grace
				// period; here the grace timer is the caller's responsibility
				// to arm via SATLoss, this just marks intent.
				tr.State = int(AMPSRelease)
			}
		}
	}
}

// OnSignalingTone handles the MT answer-wait transitions (spec §4.7
// scenario B: signaling-tone rise enters AnswerWait; fall triggers
// call_up_answer).
func (f *AMPSFSM) OnSignalingTone(detected bool) {
	for _, h := range f.transceiver.transactions {
		tr, ok := f.core.Registry.Get(h)
		if !ok {
			continue
		}
		switch AMPSState(tr.State) {
		case AMPSAlert:
			if detected {
				tr.State = int(AMPSAnswerWait)
			}
		case AMPSAnswerWait:
			if !detected {
				tr.State = int(AMPSActive)
				if f.sink != nil {
					f.sink.CallUpAnswer(tr.Callref)
				}
			}
		}
	}
}

// PullTxFrame implements the pull model named in spec §9: the TX FSK
// block calls this when it needs a frame; if the head transaction is
// in a state that wants to send, it advances state and returns the
// frame; otherwise it falls back to the overhead train.
func (f *AMPSFSM) PullTxFrame() Bits {
	for _, th := range f.transceiver.transactions {
		tr, ok := f.core.Registry.Get(th)
		if !ok {
			continue
		}
		if bits, ok := f.txFrameForState(tr); ok {
			return bits
		}
	}
	return f.nextOverheadFrame()
}

func (f *AMPSFSM) txFrameForState(tr *Transaction) (Bits, bool) {
	switch AMPSState(tr.State) {
	case AMPSCallMoAssign:
		bits, err := EncodeAMPSForward(1, map[string]uint64{"mt": 1, "chan": uint64(tr.Channel)})
		if err != nil {
			return nil, false
		}
		return bits, true
	case AMPSPage:
		min1, _ := strconv.ParseUint(tr.Identity, 10, 32) // Identity is the decimal MIN1
		bits, err := EncodeAMPSForward(2, map[string]uint64{"mt": 1, "min1": min1})
		if err != nil {
			return nil, false
		}
		return bits, true
	case AMPSRelease:
		bits, err := EncodeAMPSForward(1, map[string]uint64{"mt": 1, "ordq": 0, "order": 1})
		if err != nil {
			return nil, false
		}
		f.core.Registry.Destroy(tr.Handle(), Cause(CauseNormal), f.onEvict)
		return bits, true
	}
	return nil, false
}

func (f *AMPSFSM) nextOverheadFrame() Bits {
	if len(f.overheadTrain) == 0 {
		f.overheadTrain = []int{0}
	}
	mt := f.overheadTrain[0]
	f.overheadTrain = f.overheadTrain[1:]
	bits, err := EncodeAMPSForward(0, map[string]uint64{
		"mt": 0, "scc": 0, "dcc": uint64(f.transceiver.Info.DCC), "sid1": uint64(f.transceiver.Info.SID),
	})
	if err != nil {
		return nil
	}
	_ = mt
	return bits
}

// CallDownSetup starts an MT call: paging is emitted up to the retry
// limit (spec §4.7, scenario B).
func (f *AMPSFSM) CallDownSetup(callref uint32, callerID, dialed string) error {
	min1, min2, err := NumberToMIN(dialed)
	if err != nil {
		return &ConfigError{Op: "AMPSFSM.CallDownSetup", Reason: err.Error()}
	}
	identity := fmt.Sprintf("%d", min1)
	_ = min2
	tr := f.core.Registry.Create(f.transceiver.System, identity, f.transceiver.Channel, 0, f.onEvict)
	tr.State = int(AMPSPage)
	tr.CallerID = callerID
	tr.PageRetries = amsPageRetryLimit
	f.core.Registry.BindCallref(tr.Handle(), callref)
	f.transceiver.Attach(tr.Handle())
	return nil
}

func (f *AMPSFSM) CallDownAnswer(callref uint32) error {
	tr, ok := f.core.Registry.SearchByCallref(callref)
	if !ok {
		return fmt.Errorf("no transaction for callref %d", callref)
	}
	if AMPSState(tr.State) != AMPSAnswerWait {
		return nil // no-op unless MT call is in AnswerWait, per spec §6
	}
	tr.State = int(AMPSActive)
	return nil
}

func (f *AMPSFSM) CallDownDisconnect(callref uint32, cause Cause) error {
	tr, ok := f.core.Registry.SearchByCallref(callref)
	if !ok {
		return fmt.Errorf("no transaction for callref %d", callref)
	}
	tr.State = int(AMPSRelease)
	return nil
}

func (f *AMPSFSM) CallDownRelease(callref uint32, cause Cause) error {
	tr, ok := f.core.Registry.SearchByCallref(callref)
	if !ok {
		return fmt.Errorf("no transaction for callref %d", callref)
	}
	f.core.Registry.Destroy(tr.Handle(), cause, f.onEvict)
	return nil
}

func (f *AMPSFSM) OnCallUpRelease(tr *Transaction, cause Cause) {
	if f.sink != nil && tr.Callref != 0 {
		f.sink.CallUpRelease(tr.Callref, cause)
	}
}

func (f *AMPSFSM) onEvict(tr *Transaction, cause Cause) {
	f.core.Log.Infof("amps: transaction %s destroyed, cause=%s", tr.Identity, cause)
	f.transceiver.Detach(tr.Handle())
	f.OnCallUpRelease(tr, cause)
}

// PageRetryExpired decrements the paging retry counter on timer
// expiry; exhaustion releases the call with CauseNoAnswer (spec §4.7).
func (f *AMPSFSM) PageRetryExpired(tr *Transaction) {
	tr.PageRetries--
	if tr.PageRetries <= 0 {
		f.core.Registry.Destroy(tr.Handle(), Cause(CauseNoAnswer), f.onEvict)
		return
	}
	tr.State = int(AMPSPage)
}
