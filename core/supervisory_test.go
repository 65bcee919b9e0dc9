package core

import "testing"

const testSupervisorySampleRate = 8000.0

func toneWindow(sampleRate, hz float64, n int) []int16 {
	g := NewSupervisoryGenerator(sampleRate, SATTone1)
	g.toneHz = hz
	out := make([]int16, n)
	g.MixInto(out)
	return out
}

func TestSupervisoryDetectorLocksOnToneAndLosesOnSilence(t *testing.T) {
	d := NewAMPSSupervisoryDetector(testSupervisorySampleRate, 3)
	var events []bool
	d.OnSupervisory = func(detected bool) { events = append(events, detected) }

	windowN := d.windowSamples()
	tone := toneWindow(testSupervisorySampleRate, supervisoryFreqHz[SATTone1], windowN)
	silence := make([]int16, windowN)

	// Feed enough tone windows to cross the hysteresis threshold.
	for i := 0; i < 3; i++ {
		d.Process(tone)
	}
	if len(events) != 1 || !events[0] {
		t.Fatalf("events after 3 tone windows = %v, want a single detected=true transition", events)
	}

	// Feed enough silence windows to cross back.
	for i := 0; i < 3; i++ {
		d.Process(silence)
	}
	if len(events) != 2 || events[1] {
		t.Fatalf("events after 3 silence windows = %v, want a second detected=false transition", events)
	}
}

func TestSupervisoryHysteresisIgnoresSingleSpuriousWindow(t *testing.T) {
	d := NewAMPSSupervisoryDetector(testSupervisorySampleRate, 3)
	var events []bool
	d.OnSupervisory = func(detected bool) { events = append(events, detected) }

	windowN := d.windowSamples()
	tone := toneWindow(testSupervisorySampleRate, supervisoryFreqHz[SATTone1], windowN)
	silence := make([]int16, windowN)

	// Two tone windows build a streak of 2 (short of the hysteresis
	// threshold of 3), then a single spurious silence window resets
	// the streak instead of flipping state.
	d.Process(tone)
	d.Process(tone)
	d.Process(silence)
	if len(events) != 0 {
		t.Fatalf("spurious single-window noise flipped detector state: events=%v", events)
	}

	// The streak was reset, so it now takes a full 3 more tone windows
	// to declare detected, not just 1.
	d.Process(tone)
	if len(events) != 0 {
		t.Fatalf("detector declared detected after only 1 tone window post-reset: events=%v", events)
	}
	d.Process(tone)
	d.Process(tone)
	if len(events) != 1 || !events[0] {
		t.Fatalf("events = %v, want a single detected=true transition after the reset streak completes", events)
	}
}

func TestSupervisoryDetectorSetTone(t *testing.T) {
	d := NewAMPSSupervisoryDetector(testSupervisorySampleRate, 3)
	d.SetTone(SATTone2)
	if d.toneHz != supervisoryFreqHz[SATTone2] {
		t.Fatalf("toneHz = %f after SetTone(SATTone2), want %f", d.toneHz, supervisoryFreqHz[SATTone2])
	}
}
