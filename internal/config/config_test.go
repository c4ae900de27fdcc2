package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"navwire/internal/gdl90"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func requireErrEq(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", want)
	}
	if err.Error() != want {
		t.Fatalf("error=%q want %q", err.Error(), want)
	}
}

const tcpInput = "inputs:\n  - name: gdl\n    protocol: gdl90\n    kind: tcp\n    addr: '127.0.0.1:4000'\n"

func TestLoad_RequiresInput(t *testing.T) {
	path := writeTempConfig(t, "codec: {}\n")
	_, err := Load(path)
	requireErrEq(t, err, "at least one input is required")
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeTempConfig(t, "")
	_, err := Load(path)
	requireErrEq(t, err, "at least one input is required")
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeTempConfig(t, tcpInput)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Codec.CRCMode != gdl90.CRCInverted || cfg.Codec.Layout != gdl90.LayoutICD || cfg.Codec.Strict {
		t.Fatalf("codec=%+v want inverted/icd/permissive", cfg.Codec)
	}
	if cfg.Codec.MaxBuffer != gdl90.DefaultMaxBuffer {
		t.Fatalf("codec.max_buffer=%d want %d", cfg.Codec.MaxBuffer, gdl90.DefaultMaxBuffer)
	}
	if cfg.AIS.MaxPending != 16 || cfg.AIS.FragmentTTL != 30*time.Second {
		t.Fatalf("ais=%+v want max_pending=16 fragment_ttl=30s", cfg.AIS)
	}
	if cfg.Inputs[0].ReconnectDelay != time.Second {
		t.Fatalf("reconnect_delay=%s want 1s", cfg.Inputs[0].ReconnectDelay)
	}
	if cfg.Output.Format != FormatJSON || cfg.Output.Path != "-" {
		t.Fatalf("output=%+v want json to stdout", cfg.Output)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("log.level=%q want info", cfg.Log.Level)
	}
}

func TestLoad_CodecSettings(t *testing.T) {
	path := writeTempConfig(t, "codec:\n  crc_mode: plain\n  strict: true\n  layout: compact\n  max_buffer: 4096\nais:\n  fragment_ttl: 5s\n"+tcpInput)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	opts := cfg.Codec.Options()
	if opts.CRC != gdl90.CRCPlain || !opts.Strict || opts.Layout != gdl90.LayoutCompact {
		t.Fatalf("options=%+v want plain/strict/compact", opts)
	}
	if cfg.Codec.MaxBuffer != 4096 {
		t.Fatalf("max_buffer=%d want 4096", cfg.Codec.MaxBuffer)
	}
	if cfg.AIS.FragmentTTL != 5*time.Second {
		t.Fatalf("fragment_ttl=%s want 5s", cfg.AIS.FragmentTTL)
	}
}

func TestLoad_BadCRCMode(t *testing.T) {
	path := writeTempConfig(t, "codec:\n  crc_mode: ccitt\n"+tcpInput)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown crc_mode")
	}
}

func TestLoad_SerialDefaults(t *testing.T) {
	path := writeTempConfig(t, "inputs:\n  - name: ais\n    protocol: nmea\n    kind: serial\n    device: /dev/ttyUSB0\n  - name: gdl\n    protocol: gdl90\n    kind: serial\n    device: /dev/ttyUSB1\n    serial_driver: termios\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Inputs[0].Baud != 38400 || cfg.Inputs[0].SerialDriver != SerialDriverBugst {
		t.Fatalf("nmea serial=%+v want 38400 bugst", cfg.Inputs[0])
	}
	if cfg.Inputs[1].Baud != 115200 || cfg.Inputs[1].SerialDriver != SerialDriverTermios {
		t.Fatalf("gdl90 serial=%+v want 115200 termios", cfg.Inputs[1])
	}
}

func TestLoad_InputValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "MissingName",
			body: "inputs:\n  - protocol: gdl90\n    kind: udp\n    addr: ':4000'\n",
			want: "inputs[0].name is required",
		},
		{
			name: "BadProtocol",
			body: "inputs:\n  - name: a\n    protocol: adsb\n    kind: udp\n    addr: ':4000'\n",
			want: "inputs[0].protocol must be 'gdl90' or 'nmea'",
		},
		{
			name: "BadKind",
			body: "inputs:\n  - name: a\n    protocol: gdl90\n    kind: bluetooth\n",
			want: "inputs[0].kind must be one of serial, tcp, udp, file, replay",
		},
		{
			name: "SerialNeedsDevice",
			body: "inputs:\n  - name: a\n    protocol: gdl90\n    kind: serial\n",
			want: "inputs[0].device is required for serial inputs",
		},
		{
			name: "BadSerialDriver",
			body: "inputs:\n  - name: a\n    protocol: gdl90\n    kind: serial\n    device: /dev/x\n    serial_driver: ftdi\n",
			want: "inputs[0].serial_driver must be 'bugst' or 'termios'",
		},
		{
			name: "UDPNeedsAddr",
			body: "inputs:\n  - name: a\n    protocol: nmea\n    kind: udp\n",
			want: "inputs[0].addr is required for udp inputs",
		},
		{
			name: "FileNeedsPath",
			body: "inputs:\n  - name: a\n    protocol: nmea\n    kind: file\n",
			want: "inputs[0].path is required for file inputs",
		},
		{
			name: "DuplicateName",
			body: tcpInput + "  - name: gdl\n    protocol: nmea\n    kind: udp\n    addr: ':10110'\n",
			want: "inputs[1].name \"gdl\" is duplicated",
		},
		{
			name: "ReplayNegativeSpeed",
			body: "inputs:\n  - name: a\n    protocol: gdl90\n    kind: replay\n    path: ./x.log\n    speed: -1\n",
			want: "inputs[0].speed must be > 0",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeTempConfig(t, tc.body))
			requireErrEq(t, err, tc.want)
		})
	}
}

func TestLoad_ReplaySpeedDefaultsToOne(t *testing.T) {
	path := writeTempConfig(t, "inputs:\n  - name: a\n    protocol: gdl90\n    kind: replay\n    path: ./x.log\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Inputs[0].Speed != 1 {
		t.Fatalf("speed=%v want 1", cfg.Inputs[0].Speed)
	}
}

func TestLoad_OutputFormat(t *testing.T) {
	path := writeTempConfig(t, tcpInput+"output:\n  format: xml\n")
	_, err := Load(path)
	requireErrEq(t, err, "output.format must be 'json' or 'cbor'")
}

func TestLoad_RecordRequiresPath(t *testing.T) {
	path := writeTempConfig(t, tcpInput+"record:\n  enable: true\n")
	_, err := Load(path)
	requireErrEq(t, err, "record.path is required when record.enable is true")
}

func TestLoad_RecordAndReplayMutuallyExclusive(t *testing.T) {
	path := writeTempConfig(t, "inputs:\n  - name: a\n    protocol: gdl90\n    kind: replay\n    path: ./x.log\nrecord:\n  enable: true\n  path: ./rec\n")
	_, err := Load(path)
	requireErrEq(t, err, "record cannot be used with replay inputs")
}

func TestLoad_BadLogLevel(t *testing.T) {
	path := writeTempConfig(t, tcpInput+"log:\n  level: chatty\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown log level")
	}
}

func TestLoad_RejectsUnknownField(t *testing.T) {
	path := writeTempConfig(t, tcpInput+"codec:\n  mode: gdl90\n")
	_, err := Load(path)
	requireErrEq(t, err, "config contains unknown fields: field mode not found in type config.CodecConfig")
}
