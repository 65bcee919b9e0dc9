package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// TestChannelFreqRoundTripProperty covers spec §8's "for every valid
// channel, ChannelToFreq then ChannelFromFreq recovers the original
// channel" property by drawing channels from each system's valid
// range rather than a hand-picked finite list.
func TestChannelFreqRoundTripProperty(t *testing.T) {
	cases := []struct {
		sys  System
		name string
		gen  *rapid.Generator[int]
	}{
		{SystemAMPS, "amps", rapid.IntRange(-33, 799)},
		{SystemTACS, "tacs", rapid.IntRange(1, 1000)},
		{SystemJTACS, "jtacs", rapid.OneOf(rapid.IntRange(1, 799), rapid.IntRange(801, 1039), rapid.IntRange(1041, 1199), rapid.IntRange(1201, 1600))},
		{SystemBNetz, "bnetz", rapid.OneOf(rapid.IntRange(1, 39), rapid.IntRange(50, 86))},
		{SystemEurosignal, "eurosignal", rapid.IntRange(0, 3)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rapid.Check(t, func(t *rapid.T) {
				ch := c.gen.Draw(t, "channel")
				uplink := rapid.Bool().Draw(t, "uplink")

				hz, ok := ChannelToFreq(c.sys, ch, uplink)
				a := assert.New(t)
				a.True(ok, "ChannelToFreq(%v, %d, uplink=%v): not ok", c.sys, ch, uplink)

				got, ok := ChannelFromFreq(c.sys, hz, uplink)
				a.True(ok, "ChannelFromFreq(%v, %f, uplink=%v): not ok", c.sys, hz, uplink)
				a.Equal(ch, got, "round trip for %v channel %d (uplink=%v)", c.sys, ch, uplink)
			})
		})
	}
}

func TestChannelToFreqRejectsInvalidChannels(t *testing.T) {
	cases := []struct {
		sys     System
		channel int
	}{
		{SystemAMPS, 800},
		{SystemAMPS, -34},
		{SystemTACS, 0},
		{SystemTACS, 1001},
		{SystemJTACS, 1040},
		{SystemBNetz, 40},
		{SystemBNetz, 49},
		{SystemEurosignal, 4},
	}
	for _, c := range cases {
		_, ok := ChannelToFreq(c.sys, c.channel, false)
		assert.Falsef(t, ok, "ChannelToFreq(%v, %d): want not ok", c.sys, c.channel)
	}
}

func TestChannelToFreqUnsupportedSystem(t *testing.T) {
	for _, sys := range []System{SystemNMT450, SystemNMT900, SystemCNetz} {
		_, ok := ChannelToFreq(sys, 1, false)
		assert.Falsef(t, ok, "ChannelToFreq(%v, 1): expected no channel plan wired in, got ok", sys)
	}
}

func TestAMPSDuplexOffset(t *testing.T) {
	down, _ := ChannelToFreq(SystemAMPS, 1, false)
	up, _ := ChannelToFreq(SystemAMPS, 1, true)
	assert.Equal(t, ampsDuplexOffsetHz, down-up)
}

func TestIsControlChannel(t *testing.T) {
	assert.True(t, AMPSIsControlChannel(313))
	assert.True(t, AMPSIsControlChannel(354))
	assert.False(t, AMPSIsControlChannel(312))
	assert.False(t, AMPSIsControlChannel(355))
	assert.True(t, TACSIsControlChannel(23))
	assert.True(t, TACSIsControlChannel(343))
	assert.True(t, JTACSIsControlChannel(418))
	assert.False(t, JTACSIsControlChannel(419))
}
