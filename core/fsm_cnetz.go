package core

/*------------------------------------------------------------------
 *
 * Purpose:	C-Netz protocol FSM (C7, spec §4.7, §4.10): paging/response
 *		over the 32-slot TDMA schedule, queued-call dispatch via
 *		the transaction registry's oldest-queued search.
 *
 *----------------------------------------------------------------*/

import "fmt"

type CNetzState int

const (
	CNetzIdle CNetzState = iota
	CNetzQueued
	CNetzPage
	CNetzAssignConfirm
	CNetzActive
	CNetzRelease
)

// CNetzFSM implements ProtocolFSM for one C-Netz transceiver.
type CNetzFSM struct {
	core        *Core
	transceiver *Transceiver
	sink        CallControlSink
	scheduler   *CNetzScheduler
}

func NewCNetzFSM(core *Core, t *Transceiver, sink CallControlSink, cellNr int) *CNetzFSM {
	return &CNetzFSM{core: core, transceiver: t, sink: sink, scheduler: NewCNetzScheduler(cellNr)}
}

func (f *CNetzFSM) OnFrame(fr DecodedFrame) {
	values, err := DecodeCNetzBlock(fr.Bits)
	if err != nil {
		f.core.Log.Debugf("cnetz: dropped block on channel %d: %v", f.transceiver.Channel, err)
		return
	}
	futln := FuTln{
		Net:    int(values["futln_net"]),
		Area:   int(values["futln_area"]),
		Number: int(values["futln_number"]),
	}
	identity := futln.String()
	tr, ok := f.core.Registry.SearchByIdentity(identity)
	if !ok {
		tr = f.core.Registry.Create(f.transceiver.System, identity, 0, fr.Level, f.onEvict)
		tr.State = int(CNetzQueued)
		f.transceiver.Attach(tr.Handle())
		return
	}
	f.transceiver.Attach(tr.Handle())
	if CNetzState(tr.State) == CNetzPage {
		tr.State = int(CNetzAssignConfirm)
		tr.Channel = f.transceiver.Channel
	}
}

func (f *CNetzFSM) OnSupervisory(detected bool) {
	for _, h := range f.transceiver.transactions {
		tr, ok := f.core.Registry.Get(h)
		if ok && CNetzState(tr.State) == CNetzAssignConfirm && detected {
			tr.State = int(CNetzActive)
		}
	}
}

func (f *CNetzFSM) OnSignalingTone(detected bool) {}

// PullTxFrame dispatches the oldest queued transaction when this
// slot's TDMA role permits paging (spec §4.10).
func (f *CNetzFSM) PullTxFrame() Bits {
	f.scheduler.Advance()
	if !f.scheduler.IsForwardSlot() || f.scheduler.BlockKind() != CNetzRufblock {
		return EncodeCNetzBlock(map[string]uint64{"dcc": uint64(f.transceiver.Info.CNetzDCC)})
	}
	tr, ok := f.core.Registry.SearchQueueOldest()
	if !ok {
		return EncodeCNetzBlock(map[string]uint64{"dcc": uint64(f.transceiver.Info.CNetzDCC)})
	}
	tr.State = int(CNetzPage)
	return EncodeCNetzBlock(map[string]uint64{
		"dcc": uint64(f.transceiver.Info.CNetzDCC), "block_type": 1,
	})
}

func (f *CNetzFSM) CallDownSetup(callref uint32, callerID, dialed string) error {
	tr := f.core.Registry.Create(f.transceiver.System, dialed, 0, 0, f.onEvict)
	tr.CallerID = callerID
	tr.State = int(CNetzQueued)
	f.core.Registry.BindCallref(tr.Handle(), callref)
	f.transceiver.Attach(tr.Handle())
	return nil
}

func (f *CNetzFSM) CallDownAnswer(callref uint32) error { return nil }

func (f *CNetzFSM) CallDownDisconnect(callref uint32, cause Cause) error {
	tr, ok := f.core.Registry.SearchByCallref(callref)
	if !ok {
		return fmt.Errorf("no transaction for callref %d", callref)
	}
	tr.State = int(CNetzRelease)
	return nil
}

func (f *CNetzFSM) CallDownRelease(callref uint32, cause Cause) error {
	tr, ok := f.core.Registry.SearchByCallref(callref)
	if !ok {
		return fmt.Errorf("no transaction for callref %d", callref)
	}
	f.core.Registry.Destroy(tr.Handle(), cause, f.onEvict)
	return nil
}

func (f *CNetzFSM) OnCallUpRelease(tr *Transaction, cause Cause) {
	if f.sink != nil && tr.Callref != 0 {
		f.sink.CallUpRelease(tr.Callref, cause)
	}
}

func (f *CNetzFSM) onEvict(tr *Transaction, cause Cause) {
	f.core.Log.Infof("cnetz: transaction %s destroyed, cause=%s", tr.Identity, cause)
	f.transceiver.Detach(tr.Handle())
	f.OnCallUpRelease(tr, cause)
}
