package core

/*------------------------------------------------------------------
 *
 * Purpose:	NMT protocol FSM (C7, spec §4.7, scenario C), wired to the
 *		DMS/SMS sublayer (C9) for data-capable transactions.
 *
 *----------------------------------------------------------------*/

import "fmt"

// NMTState mirrors the canonical MT-call diagram for NMT (spec §4.7).
type NMTState int

const (
	NMTIdle NMTState = iota
	NMTCallMtSetup
	NMTPage
	NMTCallMtAssignConfirm
	NMTAlert
	NMTRinging
	NMTActive
	NMTRelease
)

// NMTTimers: similar shape to AMPS, values differ (spec §4.7).
var DefaultNMTTimers = AMPSTimers{
	SATAcquire: 3000, SATLoss: 5000, PageReply: 5000,
	AlertConfirm: 1000, Answer: 60000, Release: 3000,
}

// NMTFSM implements ProtocolFSM for one NMT transceiver.
type NMTFSM struct {
	core        *Core
	transceiver *Transceiver
	sink        CallControlSink

	dmsSender   *DMSSender
	dmsReceiver *DMSReceiver
	smsDecoder  *SMSSubmitDecoder

	OnMOSubmit func(*SMSSubmit)
}

func NewNMTFSM(core *Core, t *Transceiver, sink CallControlSink) *NMTFSM {
	f := &NMTFSM{core: core, transceiver: t, sink: sink}
	f.dmsSender = NewDMSSender(false)
	f.dmsReceiver = NewDMSReceiver(true, f.onDMSPayload)
	f.smsDecoder = &SMSSubmitDecoder{}
	return f
}

func (f *NMTFSM) onDMSPayload(p DMSPayload) {
	sub, done, err := f.smsDecoder.Feed(p.Bytes())
	if err != nil {
		f.smsDecoder = &SMSSubmitDecoder{}
		return
	}
	if done && f.OnMOSubmit != nil {
		f.OnMOSubmit(sub)
		f.smsDecoder = &SMSSubmitDecoder{}
	}
}

// FeedDMSFrame hands one received wire-level DMS frame's bits to the
// receiver and returns the acknowledgement sequence to send back.
func (f *NMTFSM) FeedDMSFrame(bits Bits) (ackSeq uint8, ok bool) {
	frame, valid := DecodeDMSFrame(bits)
	if !valid {
		return f.dmsReceiver.Receive(nil), false
	}
	return f.dmsReceiver.Receive(&frame), true
}

// OnFrame dispatches a decoded NMT frame by its catalog name
// (spec §4.5, §4.7).
func (f *NMTFSM) OnFrame(fr DecodedFrame) {
	msg, err := DecodeNMTFrame(fr.Bits)
	if err != nil {
		f.core.Log.Debugf("nmt: dropped frame on channel %d: %v", f.transceiver.Channel, err)
		return
	}
	switch msg.Name {
	case "1a": // MS origination / channel seizure
		identity := nmtIdentityFromDigits(msg.Digits)
		tr, existing := f.core.Registry.SearchByIdentity(identity)
		if !existing {
			tr = f.core.Registry.Create(f.transceiver.System, identity, f.transceiver.Channel, fr.Level, f.onEvict)
		}
		f.transceiver.Attach(tr.Handle())
		tr.State = int(NMTActive)
	case "4a": // paging reply
		identity := nmtIdentityFromDigits(msg.Digits)
		tr, ok := f.core.Registry.SearchByIdentity(identity)
		if !ok {
			return
		}
		f.transceiver.Attach(tr.Handle())
		tr.State = int(NMTCallMtAssignConfirm)
	case "12a":
		identity := nmtIdentityFromDigits(msg.Digits)
		tr, ok := f.core.Registry.SearchByIdentity(identity)
		if !ok {
			return
		}
		f.transceiver.Attach(tr.Handle())
		tr.State = int(NMTActive)
	}
}

func nmtIdentityFromDigits(digits [16]byte) string {
	var country, number int
	country = int(digits[1])
	for i := 2; i < 8; i++ {
		number = number*10 + int(digits[i])
	}
	return fmt.Sprintf("%d-%06d", country, number)
}

func (f *NMTFSM) OnSupervisory(detected bool) {
	for _, h := range f.transceiver.transactions {
		tr, ok := f.core.Registry.Get(h)
		if !ok {
			continue
		}
		if NMTState(tr.State) == NMTCallMtAssignConfirm && detected {
			tr.State = int(NMTAlert)
		}
	}
}

// OnSignalingTone here stands in for NMT's super-tone ringing signal
// (scenario C: "injected super-tone flips state to ringing").
func (f *NMTFSM) OnSignalingTone(detected bool) {
	for _, h := range f.transceiver.transactions {
		tr, ok := f.core.Registry.Get(h)
		if !ok {
			continue
		}
		if NMTState(tr.State) == NMTAlert && detected {
			tr.State = int(NMTRinging)
		}
	}
}

func (f *NMTFSM) PullTxFrame() Bits {
	for _, th := range f.transceiver.transactions {
		tr, ok := f.core.Registry.Get(th)
		if !ok {
			continue
		}
		if bits, ok := f.txFrameForState(tr); ok {
			return bits
		}
	}
	return EncodeNMTFrame([16]byte{})
}

func (f *NMTFSM) txFrameForState(tr *Transaction) (Bits, bool) {
	switch NMTState(tr.State) {
	case NMTCallMtSetup, NMTPage:
		var digits [16]byte
		digits[0] = 2 // "2a" MT call set-up
		return EncodeNMTFrame(digits), true
	case NMTCallMtAssignConfirm:
		var digits [16]byte
		digits[0] = 10 // "10a" channel assignment
		return EncodeNMTFrame(digits), true
	}
	return nil, false
}

func (f *NMTFSM) CallDownSetup(callref uint32, callerID, dialed string) error {
	tr := f.core.Registry.Create(f.transceiver.System, dialed, f.transceiver.Channel, 0, f.onEvict)
	tr.State = int(NMTPage)
	tr.CallerID = callerID
	f.core.Registry.BindCallref(tr.Handle(), callref)
	f.transceiver.Attach(tr.Handle())
	return nil
}

func (f *NMTFSM) CallDownAnswer(callref uint32) error {
	tr, ok := f.core.Registry.SearchByCallref(callref)
	if !ok {
		return fmt.Errorf("no transaction for callref %d", callref)
	}
	if NMTState(tr.State) != NMTRinging {
		return nil
	}
	tr.State = int(NMTActive)
	return nil
}

func (f *NMTFSM) CallDownDisconnect(callref uint32, cause Cause) error {
	tr, ok := f.core.Registry.SearchByCallref(callref)
	if !ok {
		return fmt.Errorf("no transaction for callref %d", callref)
	}
	tr.State = int(NMTRelease)
	return nil
}

func (f *NMTFSM) CallDownRelease(callref uint32, cause Cause) error {
	tr, ok := f.core.Registry.SearchByCallref(callref)
	if !ok {
		return fmt.Errorf("no transaction for callref %d", callref)
	}
	f.core.Registry.Destroy(tr.Handle(), cause, f.onEvict)
	return nil
}

func (f *NMTFSM) OnCallUpRelease(tr *Transaction, cause Cause) {
	if f.sink != nil && tr.Callref != 0 {
		f.sink.CallUpRelease(tr.Callref, cause)
	}
}

func (f *NMTFSM) onEvict(tr *Transaction, cause Cause) {
	f.core.Log.Infof("nmt: transaction %s destroyed, cause=%s", tr.Identity, cause)
	f.transceiver.Detach(tr.Handle())
	f.OnCallUpRelease(tr, cause)
}
