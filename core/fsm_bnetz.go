package core

/*------------------------------------------------------------------
 *
 * Purpose:	B-Netz protocol FSM (C7, spec §4.7, scenario F): digit
 *		exchange to "Gespraech" (connected call).
 *
 *----------------------------------------------------------------*/

import "fmt"

// BNetzState names the digit-exchange states for B-Netz call setup
// (spec §4.7, scenario F names the terminal state "Gespraech").
type BNetzState int

const (
	BNetzIdle BNetzState = iota
	BNetzStationID
	BNetzDialedDigits
	BNetzGespraech
	BNetzRelease
)

const (
	bnetzStationIDDigits = 5
	bnetzDialedDigits    = 7
)

// BNetzFSM implements ProtocolFSM for one B-Netz transceiver.
type BNetzFSM struct {
	core        *Core
	transceiver *Transceiver
	sink        CallControlSink

	stationDigits []int
	dialedDigits  []int
	currentHandle TransactionHandle
}

func NewBNetzFSM(core *Core, t *Transceiver, sink CallControlSink) *BNetzFSM {
	return &BNetzFSM{core: core, transceiver: t, sink: sink}
}

// OnFrame accepts decoded B-Netz telegrams: first bnetzStationIDDigits
// digits form the station ID, the next bnetzDialedDigits form the
// dialled number; on completion the FSM reaches Gespraech and issues
// call_up_setup (spec §4.7, scenario F).
func (f *BNetzFSM) OnFrame(fr DecodedFrame) {
	digit, sig, ok := DecodeBNetzTelegram(fr.Bits)
	if !ok {
		return
	}
	if sig == BNetzGruppenfreisignal {
		return // idle channel signal, nothing to do
	}
	if sig == BNetzDialStart {
		f.stationDigits = nil
		f.dialedDigits = nil
		return
	}
	if sig != BNetzDigit {
		return
	}

	if len(f.stationDigits) < bnetzStationIDDigits {
		f.stationDigits = append(f.stationDigits, digit)
		if len(f.stationDigits) == bnetzStationIDDigits {
			identity := stationIDString(f.stationDigits)
			tr := f.core.Registry.Create(f.transceiver.System, identity, f.transceiver.Channel, fr.Level, f.onEvict)
			tr.State = int(BNetzStationID)
			f.currentHandle = tr.Handle()
			f.transceiver.Attach(f.currentHandle)
		}
		return
	}

	if len(f.dialedDigits) < bnetzDialedDigits {
		f.dialedDigits = append(f.dialedDigits, digit)
		if len(f.dialedDigits) == bnetzDialedDigits {
			tr, ok := f.core.Registry.Get(f.currentHandle)
			if !ok {
				return
			}
			tr.State = int(BNetzGespraech)
			dialed := stationIDString(f.dialedDigits)
			if f.sink != nil {
				callref := f.sink.CallUpSetup(tr.Identity, dialed, "")
				f.core.Registry.BindCallref(tr.Handle(), callref)
			}
		}
	}
}

func stationIDString(digits []int) string {
	s := ""
	for _, d := range digits {
		s += fmt.Sprintf("%d", d)
	}
	return s
}

func (f *BNetzFSM) OnSupervisory(detected bool)   {}
func (f *BNetzFSM) OnSignalingTone(detected bool) {}

func (f *BNetzFSM) PullTxFrame() Bits {
	bits, _ := EncodeBNetzSignal(BNetzGruppenfreisignal)
	return bits
}

func (f *BNetzFSM) CallDownSetup(callref uint32, callerID, dialed string) error {
	return fmt.Errorf("B-Netz base station does not originate MT setup in this core")
}

func (f *BNetzFSM) CallDownAnswer(callref uint32) error { return nil }

func (f *BNetzFSM) CallDownDisconnect(callref uint32, cause Cause) error {
	tr, ok := f.core.Registry.SearchByCallref(callref)
	if !ok {
		return fmt.Errorf("no transaction for callref %d", callref)
	}
	tr.State = int(BNetzRelease)
	return nil
}

func (f *BNetzFSM) CallDownRelease(callref uint32, cause Cause) error {
	tr, ok := f.core.Registry.SearchByCallref(callref)
	if !ok {
		return fmt.Errorf("no transaction for callref %d", callref)
	}
	f.core.Registry.Destroy(tr.Handle(), cause, f.onEvict)
	return nil
}

func (f *BNetzFSM) OnCallUpRelease(tr *Transaction, cause Cause) {
	if f.sink != nil && tr.Callref != 0 {
		f.sink.CallUpRelease(tr.Callref, cause)
	}
}

func (f *BNetzFSM) onEvict(tr *Transaction, cause Cause) {
	f.core.Log.Infof("bnetz: transaction %s destroyed, cause=%s", tr.Identity, cause)
	f.transceiver.Detach(tr.Handle())
	f.OnCallUpRelease(tr, cause)
}
