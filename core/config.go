package core

/*------------------------------------------------------------------
 *
 * Purpose:	Ambient YAML configuration (spec §6): per-channel system
 *		assignment and broadcast overhead, the sample rate, and
 *		the daily log file location.
 *
 * Description:	Grounded on the teacher's deviceid_init (src/deviceid.go),
 *		which reads its tocalls.yaml at run time with
 *		gopkg.in/yaml.v3 rather than compiling data in. Here the
 *		document is small enough to decode straight into tagged
 *		structs instead of deviceid.go's map[string]interface{}
 *		walk.
 *
 *----------------------------------------------------------------*/

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ChannelConfig describes one Transceiver to create: its channel
// number, system, role, and the broadcast overhead fields relevant to
// that system (spec §3's SystemInfo, unused fields left zero).
type ChannelConfig struct {
	Channel int    `yaml:"channel"`
	System  string `yaml:"system"`
	Role    string `yaml:"role"`

	SID   int `yaml:"sid"`
	DCC   int `yaml:"dcc"`
	DTX   int `yaml:"dtx"`
	RegID int `yaml:"reg_id"`

	TrafficArea int `yaml:"traffic_area"`
	AreaNo      int `yaml:"area_no"`
	MSPowerMax  int `yaml:"ms_power_max"`

	FuFSt    int `yaml:"fu_fst"`
	CNetzDCC int `yaml:"cnetz_dcc"`
}

// LogConfig selects between the teacher's two logging modes: a fixed
// file (Path set) or daily names under Dir (spec §6).
type LogConfig struct {
	Path    string `yaml:"path"`
	Dir     string `yaml:"dir"`
	Pattern string `yaml:"pattern"`
	Level   string `yaml:"level"`
}

// WavCaptureConfig enables diagnostic RX/TX WAV recording (spec §6).
type WavCaptureConfig struct {
	Dir     string `yaml:"dir"`
	Pattern string `yaml:"pattern"`
}

// Config is the complete on-disk configuration for one basestation
// process.
type Config struct {
	SampleRateHz float64          `yaml:"sample_rate_hz"`
	Log          LogConfig        `yaml:"log"`
	WavCapture   WavCaptureConfig `yaml:"wav_capture"`
	Channels     []ChannelConfig  `yaml:"channels"`
}

// LoadConfig reads and parses a YAML config file, filling in the
// documented defaults for any field left unset.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}
	if cfg.SampleRateHz == 0 {
		cfg.SampleRateHz = 8000
	}
	if cfg.Log.Pattern == "" {
		cfg.Log.Pattern = "%Y-%m-%d.log"
	}
	if cfg.WavCapture.Pattern == "" {
		cfg.WavCapture.Pattern = "%Y-%m-%d-%H%M%S"
	}
	if len(cfg.Channels) == 0 {
		return nil, fmt.Errorf("config %q: no channels configured", path)
	}
	return &cfg, nil
}

// ParseSystem maps a config file's system name to a System tag.
func ParseSystem(s string) (System, error) {
	switch strings.ToLower(s) {
	case "amps":
		return SystemAMPS, nil
	case "tacs":
		return SystemTACS, nil
	case "jtacs":
		return SystemJTACS, nil
	case "nmt450":
		return SystemNMT450, nil
	case "nmt900":
		return SystemNMT900, nil
	case "bnetz":
		return SystemBNetz, nil
	case "cnetz":
		return SystemCNetz, nil
	case "eurosignal":
		return SystemEurosignal, nil
	default:
		return 0, fmt.Errorf("unknown system %q", s)
	}
}

// ParseRole maps a config file's role name to a Role tag.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(s) {
	case "control":
		return RoleControl, nil
	case "paging":
		return RolePaging, nil
	case "voice":
		return RoleVoice, nil
	case "combined":
		return RoleCombined, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

// SystemInfo converts the subset of a ChannelConfig relevant to
// Transceiver broadcast overhead (spec §3).
func (c ChannelConfig) SystemInfo() SystemInfo {
	return SystemInfo{
		SID: c.SID, DCC: c.DCC, DTX: c.DTX, RegID: c.RegID,
		TrafficArea: c.TrafficArea, AreaNo: c.AreaNo, MSPowerMax: c.MSPowerMax,
		FuFSt: c.FuFSt, CNetzDCC: c.CNetzDCC,
	}
}

// BuildTransceiver resolves a ChannelConfig into a live Transceiver at
// the given sample rate (spec §4.6).
func (c ChannelConfig) BuildTransceiver(sampleRate float64) (*Transceiver, error) {
	sys, err := ParseSystem(c.System)
	if err != nil {
		return nil, err
	}
	role, err := ParseRole(c.Role)
	if err != nil {
		return nil, err
	}
	return CreateTransceiver(c.Channel, role, sys, c.SystemInfo(), sampleRate)
}
