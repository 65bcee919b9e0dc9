package core

/*------------------------------------------------------------------
 *
 * Purpose:	The Core context: the single-threaded cooperative event
 *		loop's root object, replacing the reference implementation's
 *		unsynchronized process-wide globals (spec §5, §9).
 *
 * Description:	All cross-transceiver state (the transaction arena, the
 *		timer wheel, the subscriber oracle) hangs off one Core
 *		value threaded through every entry point. noCopy catches
 *		an accidental copy of a Core across a goroutine boundary
 *		at `go vet` time, which is the cheapest stand-in available
 *		for the reference's single-thread assumption.
 *
 *----------------------------------------------------------------*/

import "sync"

// noCopy, embedded by value, makes `go vet -copylocks` flag any
// accidental copy of the struct that contains it.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// SubscriberOracle is the read-only external subscriber database the
// core consults during registration and call setup (spec §3: "the
// core treats it as an oracle returning one record per identity").
type SubscriberOracle interface {
	Lookup(identity string) (SubscriberRecord, bool)
}

// SubscriberRecord is the NMT-only persisted subscriber row (spec §3).
type SubscriberRecord struct {
	Country   int
	Number    string
	Password  string
	Coinbox   bool
	Inscribed bool
}

// Core is the root context for one running base station: the
// transaction arena, the timer wheel, and the set of transceivers it
// drives. It is not safe to share across goroutines; exactly one
// owner is expected to drive its event loop.
type Core struct {
	noCopy

	Transceivers map[int]*Transceiver
	Registry     *TransactionRegistry
	Timers       *TimerWheel
	Subscribers  SubscriberOracle
	Log          *Logger

	nextCallref uint32
	mu          sync.Mutex // guards nextCallref only, for callers that do hand off across goroutines for ID allocation
}

// NewCore constructs an empty Core ready to have Transceivers added.
func NewCore(subscribers SubscriberOracle, log *Logger) *Core {
	return &Core{
		Transceivers: map[int]*Transceiver{},
		Registry:     NewTransactionRegistry(),
		Timers:       NewTimerWheel(),
		Subscribers:  subscribers,
		Log:          log,
	}
}

// NextCallref allocates a fresh, process-unique callref for a new
// upstream call (spec §6, upper-layer call-control).
func (c *Core) NextCallref() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextCallref++
	return c.nextCallref
}

// AddTransceiver registers a Transceiver with the Core so it
// participates in the event loop and the global transaction list.
func (c *Core) AddTransceiver(t *Transceiver) {
	c.Transceivers[t.Channel] = t
	t.core = c
}

// RemoveTransceiver releases a Transceiver's channel slot. Callers
// must have already invoked Transceiver.Destroy.
func (c *Core) RemoveTransceiver(channel int) {
	delete(c.Transceivers, channel)
}

// Tick drives one iteration of the cooperative event loop: expired
// timers fire in registration order (spec §5), then every
// transceiver's DSP pump runs via its own rx/tx calls (invoked
// separately by the radio layer, not here).
func (c *Core) Tick(now TimeMS) {
	c.Timers.Advance(now)
}
