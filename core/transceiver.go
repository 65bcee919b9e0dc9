package core

/*------------------------------------------------------------------
 *
 * Purpose:	Transceiver object (C6, spec §4.6): the per-channel radio
 *		binding that ties the DSP blocks (C2-C4) to the frame
 *		codec/FSM (C5/C7) for one physical channel.
 *
 *----------------------------------------------------------------*/

import "fmt"

// Role is what a Transceiver's channel is currently used for.
type Role int

const (
	RoleControl Role = iota
	RolePaging
	RoleVoice
	RoleCombined
)

// DSPMode is the Transceiver's current sample-pump behaviour.
type DSPMode int

const (
	DSPOff DSPMode = iota
	DSPAudioRxAudioTx
	DSPAudioRxSilenceTx
	DSPAudioRxFrameTx
	DSPFrameRxFrameTx
)

// TXState is the Transceiver's coarse lifecycle state (spec §4.6).
type TXState int

const (
	StateNull TXState = iota
	StateIdle
	StateBusy
)

// SystemInfo is the broadcast overhead the Transceiver carries for its
// cell (spec §3): read-only during a call, mutated only on config
// reload.
type SystemInfo struct {
	SID, DCC, DTX, RegID int // AMPS
	TrafficArea, AreaNo  int // NMT
	MSPowerMax           int // NMT
	FuFSt, CNetzDCC      int // C-Netz
}

// Transceiver represents one radio channel (spec §3, §4.6).
type Transceiver struct {
	core *Core

	Channel    int
	Role       Role
	System     System
	Band       string
	RXFreqHz   float64
	TXFreqHz   float64
	DSPMode    DSPMode
	State      TXState
	Info       SystemInfo

	transactions []TransactionHandle

	Demod *FSKDemod
	Mod   *FSKMod
	Super *SupervisoryDetector

	SampleRate float64
	PreEmph    *Emphasis
	DeEmph     *Emphasis
	DC         *DCFilter
	Comp       *Compander

	FSM ProtocolFSM
}

// CreateTransceiver checks that channel is valid for sys and that a
// control-only channel is not given the voice role, then returns an
// Idle Transceiver, per spec §4.6. Band and SID parity are not checked.
func CreateTransceiver(channel int, role Role, sys System, info SystemInfo, sampleRate float64) (*Transceiver, error) {
	rxHz, rxOK := ChannelToFreq(sys, channel, true)
	txHz, txOK := ChannelToFreq(sys, channel, false)
	if !rxOK || !txOK {
		return nil, &ConfigError{Op: "CreateTransceiver", Reason: fmt.Sprintf("channel %d not valid for system %d", channel, sys)}
	}
	if role == RoleVoice && isControlOnlyChannel(sys, channel) {
		return nil, &ConfigError{Op: "CreateTransceiver", Reason: fmt.Sprintf("channel %d is control-only, cannot serve as voice channel", channel)}
	}

	const emphasisCoeff = 0.0 // set per-system by the caller once its shelf constant is known
	t := &Transceiver{
		Channel:    channel,
		Role:       role,
		System:     sys,
		RXFreqHz:   rxHz,
		TXFreqHz:   txHz,
		Info:       info,
		State:      StateIdle,
		SampleRate: sampleRate,
		PreEmph:    NewPreEmphasis(emphasisCoeff),
		DeEmph:     NewDeEmphasis(emphasisCoeff),
		DC:         NewDCFilter(sampleRate),
		Comp:       NewCompander(sampleRate, 3.0, 13.5, false),
	}
	return t, nil
}

func isControlOnlyChannel(sys System, channel int) bool {
	switch sys {
	case SystemAMPS:
		return AMPSIsControlChannel(channel)
	case SystemTACS:
		return TACSIsControlChannel(channel)
	case SystemJTACS:
		return JTACSIsControlChannel(channel)
	default:
		return false
	}
}

// Destroy releases any bound transactions with CauseNormal, per
// spec §4.6.
func (t *Transceiver) Destroy() {
	if t.core != nil {
		for _, h := range t.transactions {
			t.core.Registry.Destroy(h, CauseNormal, t.onTransactionEvicted)
		}
	}
	t.transactions = nil
	t.State = StateNull
	t.DSPMode = DSPOff
}

func (t *Transceiver) onTransactionEvicted(tr *Transaction, cause Cause) {
	if t.FSM != nil {
		t.FSM.OnCallUpRelease(tr, cause)
	}
}

// GoIdle cancels transactions and switches the DSP to the idle
// pattern appropriate to this Transceiver's role (spec §4.6): control
// and paging channels keep emitting filler frames, voice channels go
// silent.
func (t *Transceiver) GoIdle() {
	if t.core != nil {
		for _, h := range t.transactions {
			t.core.Registry.Destroy(h, CauseNormal, t.onTransactionEvicted)
		}
	}
	t.transactions = nil
	t.State = StateIdle
	switch t.Role {
	case RoleControl, RolePaging, RoleCombined:
		t.DSPMode = DSPFrameRxFrameTx
	case RoleVoice:
		t.DSPMode = DSPAudioRxSilenceTx
	}
}

// SetDSPMode atomically transitions DSP mode, resetting the
// supervisory detector and rearming sync hunt on changes that affect
// either (spec §4.6).
func (t *Transceiver) SetDSPMode(mode DSPMode) {
	if t.DSPMode == mode {
		return
	}
	t.DSPMode = mode
	if t.Super != nil {
		t.Super.Reset()
	}
	if t.Demod != nil {
		t.Demod.RearmSyncHunt()
	}
}

// Attach adds h to the set of transactions this transceiver services
// from PullTxFrame/OnSupervisory/OnSignalingTone. Every protocol FSM
// calls this right after creating or looking up a transaction it owns
// (spec §4.6, §4.7); idempotent, so re-attaching an already-attached
// handle is a no-op.
func (t *Transceiver) Attach(h TransactionHandle) {
	for _, th := range t.transactions {
		if th == h {
			return
		}
	}
	t.transactions = append(t.transactions, h)
}

// Detach is Attach's inverse, called once a transaction this
// transceiver was servicing is destroyed.
func (t *Transceiver) Detach(h TransactionHandle) {
	for i, th := range t.transactions {
		if th == h {
			t.transactions = append(t.transactions[:i], t.transactions[i+1:]...)
			return
		}
	}
}

// AssignVoiceChannel transitions Idle -> Busy, the only Transceiver
// state change permitted outside destruction (spec §4.6 invariant).
func (t *Transceiver) AssignVoiceChannel(h TransactionHandle) error {
	if t.State != StateIdle {
		return fmt.Errorf("transceiver %d not idle (state=%v)", t.Channel, t.State)
	}
	Assert("AssignVoiceChannel", t.Role != RoleControl, "a control-role transceiver never carries a voice call")
	t.Attach(h)
	t.State = StateBusy
	return nil
}

// Release moves a busy Transceiver back to Idle once its last
// transaction has ended.
func (t *Transceiver) Release(h TransactionHandle) {
	for i, th := range t.transactions {
		if th == h {
			t.transactions = append(t.transactions[:i], t.transactions[i+1:]...)
			break
		}
	}
	if len(t.transactions) == 0 {
		t.State = StateIdle
	}
}

// RxSamples feeds one chunk of RX samples through the DSP chain:
// DC-filter, then supervisory detection, then (if in a frame-RX mode)
// FSK demod and frame dispatch to the FSM. Called by the radio layer
// (spec §4.6, §5).
func (t *Transceiver) RxSamples(samples []int16, rfLevelDB float64) {
	if t.DSPMode == DSPOff {
		return
	}
	filtered := make([]int16, len(samples))
	for i, s := range samples {
		filtered[i] = clip16(t.DC.Step(float64(s)))
	}

	if t.Super != nil {
		t.Super.Process(filtered)
	}

	if t.DSPMode == DSPFrameRxFrameTx && t.Demod != nil {
		frames := t.Demod.Process(filtered)
		for _, fr := range frames {
			if t.FSM != nil {
				t.FSM.OnFrame(fr)
			}
		}
	}
}

// TxSamples pulls one chunk of TX samples from the DSP chain: in a
// frame-TX mode, the FSM is asked for its next frame pull-model
// (spec §4.7, §9); otherwise filler/silence/audio is emitted.
func (t *Transceiver) TxSamples(out []int16, powerOn bool) {
	if !powerOn || t.DSPMode == DSPOff {
		for i := range out {
			out[i] = 0
		}
		return
	}

	if t.DSPMode == DSPFrameRxFrameTx && t.Mod != nil && t.FSM != nil {
		bits := t.FSM.PullTxFrame()
		t.Mod.Feed(bits)
		t.Mod.Render(out)
		return
	}

	for i := range out {
		out[i] = 0
	}
}

// ProtocolFSM is the event-driven object described in spec §4.7,
// implemented once per system (fsm_amps.go, fsm_nmt.go, ...).
type ProtocolFSM interface {
	OnFrame(DecodedFrame)
	OnSupervisory(detected bool)
	OnSignalingTone(detected bool)
	PullTxFrame() Bits

	CallDownSetup(callref uint32, callerID, dialed string) error
	CallDownAnswer(callref uint32) error
	CallDownDisconnect(callref uint32, cause Cause) error
	CallDownRelease(callref uint32, cause Cause) error

	OnCallUpRelease(t *Transaction, cause Cause)
}

// CallControlSink receives the upper-layer outbound events
// (call_up_*, spec §6). Implemented by the process embedding the core.
type CallControlSink interface {
	CallUpSetup(callerID, dialed, networkID string) (callref uint32)
	CallUpAlerting(callref uint32)
	CallUpAnswer(callref uint32)
	CallUpRelease(callref uint32, cause Cause)
	CallUpAudio(callref uint32, samples []int16)
}
