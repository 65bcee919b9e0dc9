package core

import "testing"

func reccSeizure(t *testing.T, min1 uint64) Bits {
	t.Helper()
	values := map[string]uint64{"scm": 0, "min1": min1, "station_class": 0, "reserved": 0}
	data := PackFields(ampsReverseWords[0], values)
	return AMPSReverseBCH.Encode(BitsToInt(data))
}

// TestAMPSMOSeizureReachesAssignConfirm drives scenario A's opening
// step: an RECC seizure for a MIN not yet known creates a transaction
// and, since OnFrame immediately advances it, leaves it one step past
// the initial assign state.
func TestAMPSMOSeizureReachesAssignConfirm(t *testing.T) {
	core := NewCore(nil, nil)
	tr := &Transceiver{core: core, Channel: 1, System: SystemAMPS}
	f := NewAMPSFSM(core, tr, nil)

	f.OnFrame(DecodedFrame{Bits: reccSeizure(t, 1234567), Level: 1.0})

	txn, ok := core.Registry.SearchByIdentity("1234567")
	if !ok {
		t.Fatal("expected a transaction keyed by MIN1 after RECC seizure")
	}
	if AMPSState(txn.State) != AMPSCallMoAssignConfirm {
		t.Fatalf("state after OnFrame = %v, want AMPSCallMoAssignConfirm", AMPSState(txn.State))
	}
}

// TestAMPSReleaseEmitsReleaseWordAndDestroysTransaction covers scenario
// A's teardown: call_down_release cannot be used directly since MO-flow
// transactions never get a bound callref, so the release path exercised
// here is the one PullTxFrame actually drives for a transaction sitting
// in AMPSRelease.
func TestAMPSReleaseEmitsReleaseWordAndDestroysTransaction(t *testing.T) {
	core := NewCore(nil, nil)
	tr := &Transceiver{core: core, Channel: 1, System: SystemAMPS}
	f := NewAMPSFSM(core, tr, nil)

	txn := core.Registry.Create(SystemAMPS, "1234567", 1, 1.0, nil)
	txn.State = int(AMPSRelease)
	tr.Attach(txn.Handle())

	bits := f.PullTxFrame()
	preambleLen := len(AMPSDotting) + len(AMPSBarkerSync)
	if len(bits) < preambleLen+AMPSForwardBCH.N {
		t.Fatalf("released frame too short: %d bits", len(bits))
	}
	codeword := bits[preambleLen : preambleLen+AMPSForwardBCH.N]
	data, ok, _ := AMPSForwardBCH.Decode(codeword)
	if !ok {
		t.Fatal("released frame's BCH parity did not validate")
	}
	values, err := DecodeAMPSForward(1, IntToBits(data, AMPSForwardBCH.K))
	if err != nil {
		t.Fatalf("DecodeAMPSForward: %v", err)
	}
	if values["order"] != 1 {
		t.Fatalf("release word order field = %d, want 1 (release order)", values["order"])
	}

	if _, ok := core.Registry.SearchByIdentity("1234567"); ok {
		t.Fatal("transaction still present after the release frame was pulled")
	}
}

type fakeAMPSSink struct {
	answeredCallref uint32
	answerCount     int
}

func (s *fakeAMPSSink) CallUpSetup(callerID, dialed, networkID string) uint32 { return 0 }
func (s *fakeAMPSSink) CallUpAlerting(callref uint32)                        {}
func (s *fakeAMPSSink) CallUpAnswer(callref uint32) {
	s.answeredCallref = callref
	s.answerCount++
}
func (s *fakeAMPSSink) CallUpRelease(callref uint32, cause Cause)      {}
func (s *fakeAMPSSink) CallUpAudio(callref uint32, samples []int16) {}

// TestAMPSCallDownSetupPages covers scenario B's opening step: paging
// a dialled number creates a transaction in AMPSPage with the retry
// counter armed and the callref bound for later call_down_answer.
func TestAMPSCallDownSetupPages(t *testing.T) {
	core := NewCore(nil, nil)
	tr := &Transceiver{core: core, Channel: 1, System: SystemAMPS}
	f := NewAMPSFSM(core, tr, nil)

	if err := f.CallDownSetup(7, "5551234567", "9876543210"); err != nil {
		t.Fatalf("CallDownSetup: %v", err)
	}

	min1, _, err := NumberToMIN("9876543210")
	if err != nil {
		t.Fatalf("NumberToMIN: %v", err)
	}
	txn, ok := core.Registry.SearchByCallref(7)
	if !ok {
		t.Fatal("expected a transaction bound to callref 7")
	}
	if AMPSState(txn.State) != AMPSPage {
		t.Fatalf("state after CallDownSetup = %v, want AMPSPage", AMPSState(txn.State))
	}
	if txn.PageRetries != amsPageRetryLimit {
		t.Fatalf("PageRetries = %d, want %d", txn.PageRetries, amsPageRetryLimit)
	}
	if txn.CallerID != "5551234567" {
		t.Fatalf("CallerID = %q, want %q", txn.CallerID, "5551234567")
	}

	// CallDownSetup already attaches the new transaction to the
	// transceiver (spec §4.6); no manual append needed here.
	bits := f.PullTxFrame()
	preambleLen := len(AMPSDotting) + len(AMPSBarkerSync)
	codeword := bits[preambleLen : preambleLen+AMPSForwardBCH.N]
	data, ok, _ := AMPSForwardBCH.Decode(codeword)
	if !ok {
		t.Fatal("page frame's BCH parity did not validate")
	}
	values, err := DecodeAMPSForward(2, IntToBits(data, AMPSForwardBCH.K))
	if err != nil {
		t.Fatalf("DecodeAMPSForward: %v", err)
	}
	if values["min1"] != uint64(min1) {
		t.Fatalf("page word min1 = %d, want %d", values["min1"], min1)
	}
}

// TestAMPSPagingReplyReachesAlert drives scenario B's middle step: the
// mobile answers a page by reusing the RECC seizure word (matched by
// an already-paged transaction, not a distinct message type), and SAT
// lock at that point enters Alert rather than jumping straight to
// Active.
func TestAMPSPagingReplyReachesAlert(t *testing.T) {
	core := NewCore(nil, nil)
	tr := &Transceiver{core: core, Channel: 1, System: SystemAMPS}
	f := NewAMPSFSM(core, tr, nil)

	if err := f.CallDownSetup(3, "5559876543", "3105554242"); err != nil {
		t.Fatalf("CallDownSetup: %v", err)
	}

	min1, _, err := NumberToMIN("3105554242")
	if err != nil {
		t.Fatalf("NumberToMIN: %v", err)
	}
	f.OnFrame(DecodedFrame{Bits: reccSeizure(t, uint64(min1)), Level: 1.0})

	txn, ok := core.Registry.SearchByCallref(3)
	if !ok {
		t.Fatal("transaction disappeared after the paging-reply seizure")
	}
	if AMPSState(txn.State) != AMPSCallMtAssignConfirm {
		t.Fatalf("state after paging-reply seizure = %v, want AMPSCallMtAssignConfirm", AMPSState(txn.State))
	}

	f.OnSupervisory(true)
	if AMPSState(txn.State) != AMPSAlert {
		t.Fatalf("state after SAT lock = %v, want AMPSAlert", AMPSState(txn.State))
	}
}

// TestAMPSAlertToAnswerWaitToActive drives scenario B's ringing
// handshake: signaling-tone rise enters AnswerWait, its fall answers
// the call and notifies the upper layer with the bound callref.
func TestAMPSAlertToAnswerWaitToActive(t *testing.T) {
	core := NewCore(nil, nil)
	sink := &fakeAMPSSink{}
	tr := &Transceiver{core: core, Channel: 1, System: SystemAMPS}
	f := NewAMPSFSM(core, tr, sink)

	txn := core.Registry.Create(SystemAMPS, "9876543", 1, 1.0, nil)
	txn.State = int(AMPSAlert)
	core.Registry.BindCallref(txn.Handle(), 99)
	tr.Attach(txn.Handle())

	f.OnSignalingTone(true)
	if AMPSState(txn.State) != AMPSAnswerWait {
		t.Fatalf("state after tone rise = %v, want AMPSAnswerWait", AMPSState(txn.State))
	}
	if sink.answerCount != 0 {
		t.Fatal("call_up_answer fired before the tone fell")
	}

	f.OnSignalingTone(false)
	if AMPSState(txn.State) != AMPSActive {
		t.Fatalf("state after tone fall = %v, want AMPSActive", AMPSState(txn.State))
	}
	if sink.answerCount != 1 || sink.answeredCallref != 99 {
		t.Fatalf("call_up_answer calls = %d callref = %d, want 1 call with callref 99", sink.answerCount, sink.answeredCallref)
	}
}
