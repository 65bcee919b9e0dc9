package main

/*------------------------------------------------------------------
 *
 * Purpose:	Command line entry point for the base station core:
 *		parses flags and a YAML channel plan, wires up logging
 *		and the per-channel protocol FSMs, and drives the
 *		cooperative event loop until interrupted.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/jollycom/cellcore/core"
)

func main() {
	var configFile = pflag.StringP("config-file", "c", "basestation.yaml", "Configuration file name.")
	var logDir = pflag.StringP("log-dir", "l", "", "Directory for daily log files.")
	var logFile = pflag.StringP("log-file", "L", "", "Single fixed log file name.")
	var logLevel = pflag.StringP("log-level", "v", "info", "Log level: debug, info, warn, error.")
	var wavDir = pflag.StringP("wav-capture-dir", "w", "", "Directory to write diagnostic RX/TX WAV captures.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - AMPS/TACS/JTACS, NMT-450/900, B-Netz, C-Netz base station core.\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	if *logDir != "" && *logFile != "" {
		fmt.Fprintln(os.Stderr, "-l and -L can't both be given. Pick one or the other.")
		os.Exit(1)
	}

	level := parseLevel(*logLevel)
	logger, err := buildLogger(*logDir, *logFile, level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Close()

	cfg, err := core.LoadConfig(*configFile)
	if err != nil {
		logger.Errorf("config: %v", err)
		os.Exit(1)
	}

	oracle := staticSubscribers{}
	c := core.NewCore(oracle, logger)
	sink := &consoleSink{core: c}

	for _, ch := range cfg.Channels {
		t, err := ch.BuildTransceiver(cfg.SampleRateHz)
		if err != nil {
			logger.Errorf("channel %d: %v", ch.Channel, err)
			os.Exit(1)
		}
		t.FSM = buildFSM(c, t, sink)
		if err := core.ConfigureDSP(t); err != nil {
			logger.Errorf("channel %d: %v", ch.Channel, err)
			os.Exit(1)
		}
		c.AddTransceiver(t)
		t.SetDSPMode(core.DSPFrameRxFrameTx)
		logger.Infof("transceiver channel %d (%s) online: rx=%.1fHz tx=%.1fHz", t.Channel, ch.System, t.RXFreqHz, t.TXFreqHz)
	}

	if *wavDir != "" {
		logger.Infof("wav capture directory: %s", *wavDir)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	const tickPeriod = 20 * time.Millisecond
	ticker := time.NewTicker(tickPeriod)
	defer ticker.Stop()

	var now core.TimeMS
	logger.Infof("basestation core running, %d channel(s)", len(cfg.Channels))
	for {
		select {
		case <-stop:
			logger.Infof("shutting down")
			return
		case <-ticker.C:
			now += core.TimeMS(tickPeriod / time.Millisecond)
			c.Tick(now)
		}
	}
}

func parseLevel(s string) charmlog.Level {
	switch s {
	case "debug":
		return charmlog.DebugLevel
	case "warn":
		return charmlog.WarnLevel
	case "error":
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

func buildLogger(dir, file string, level charmlog.Level) (*core.Logger, error) {
	if file != "" {
		f, err := os.OpenFile(file, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file %q: %w", file, err)
		}
		return core.NewLogger(f, level), nil
	}
	if dir != "" {
		return core.NewDailyLogger(dir, "%Y-%m-%d.log", level)
	}
	return core.NewLogger(os.Stderr, level), nil
}

// buildFSM resolves a Transceiver's System to its concrete protocol
// FSM (spec §4.7, §9: "tagged variants with per-variant methods").
func buildFSM(c *core.Core, t *core.Transceiver, sink core.CallControlSink) core.ProtocolFSM {
	switch t.System {
	case core.SystemAMPS, core.SystemTACS, core.SystemJTACS:
		return core.NewAMPSFSM(c, t, sink)
	case core.SystemNMT450, core.SystemNMT900:
		return core.NewNMTFSM(c, t, sink)
	case core.SystemBNetz:
		return core.NewBNetzFSM(c, t, sink)
	case core.SystemCNetz:
		return core.NewCNetzFSM(c, t, sink, 0)
	default:
		return nil
	}
}

// staticSubscribers is a CallControlSink-adjacent SubscriberOracle
// placeholder: a real deployment backs this with a subscriber
// database (spec §3); this demonstration binary knows no subscribers,
// so every lookup misses and registration falls through to the
// unknown-subscriber path.
type staticSubscribers struct{}

func (staticSubscribers) Lookup(identity string) (core.SubscriberRecord, bool) {
	return core.SubscriberRecord{}, false
}

// consoleSink logs upper-layer call-control events instead of
// forwarding them to a real switch (spec §6's CallControlSink is
// implemented by "the process embedding the core").
type consoleSink struct {
	core *core.Core
	next uint32
}

func (s *consoleSink) CallUpSetup(callerID, dialed, networkID string) uint32 {
	s.next = s.core.NextCallref()
	s.core.Log.Infof("call up: setup caller=%s dialed=%s callref=%d", callerID, dialed, s.next)
	return s.next
}

func (s *consoleSink) CallUpAlerting(callref uint32) {
	s.core.Log.Infof("call up: alerting callref=%d", callref)
}

func (s *consoleSink) CallUpAnswer(callref uint32) {
	s.core.Log.Infof("call up: answer callref=%d", callref)
}

func (s *consoleSink) CallUpRelease(callref uint32, cause core.Cause) {
	s.core.Log.Infof("call up: release callref=%d cause=%s", callref, cause)
}

func (s *consoleSink) CallUpAudio(callref uint32, samples []int16) {}
