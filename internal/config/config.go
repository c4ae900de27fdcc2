package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"navwire/internal/gdl90"
	"navwire/internal/nmea"
)

const (
	ProtocolGDL90 = "gdl90"
	ProtocolNMEA  = "nmea"

	KindSerial = "serial"
	KindTCP    = "tcp"
	KindUDP    = "udp"
	KindFile   = "file"
	KindReplay = "replay"

	SerialDriverBugst   = "bugst"
	SerialDriverTermios = "termios"

	FormatJSON = "json"
	FormatCBOR = "cbor"
)

type Config struct {
	Codec   CodecConfig   `yaml:"codec"`
	AIS     AISConfig     `yaml:"ais"`
	Inputs  []InputConfig `yaml:"inputs"`
	Output  OutputConfig  `yaml:"output"`
	Record  RecordConfig  `yaml:"record"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
}

type CodecConfig struct {
	CRCMode   gdl90.CRCMode `yaml:"crc_mode"`
	Strict    bool          `yaml:"strict"`
	Layout    gdl90.Layout  `yaml:"layout"`
	MaxBuffer int           `yaml:"max_buffer"`
}

func (c CodecConfig) Options() gdl90.Options {
	return gdl90.Options{CRC: c.CRCMode, Strict: c.Strict, Layout: c.Layout}
}

type AISConfig struct {
	MaxPending      int           `yaml:"max_pending"`
	FragmentTTL     time.Duration `yaml:"fragment_ttl"`
	RequireChecksum bool          `yaml:"require_checksum"`
	MaxBuffer       int           `yaml:"max_buffer"`
}

type InputConfig struct {
	Name     string `yaml:"name"`
	Protocol string `yaml:"protocol"`
	Kind     string `yaml:"kind"`

	// serial
	Device       string `yaml:"device"`
	Baud         int    `yaml:"baud"`
	SerialDriver string `yaml:"serial_driver"`

	// tcp, udp
	Addr           string        `yaml:"addr"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`

	// file, replay
	Path  string  `yaml:"path"`
	Speed float64 `yaml:"speed"`
	Loop  bool    `yaml:"loop"`
}

type OutputConfig struct {
	Format string `yaml:"format"`
	// Path of the record stream; "-" is stdout.
	Path string `yaml:"path"`
	// ForwardDest, when set, receives every CRC-valid GDL90 frame over UDP.
	ForwardDest string `yaml:"forward_dest"`
}

type RecordConfig struct {
	Enable bool `yaml:"enable"`
	// Path is a directory; each input records to <path>/<name>.log.
	Path string `yaml:"path"`
}

type MetricsConfig struct {
	// Listen is the address of the /metrics endpoint; empty disables it.
	Listen string `yaml:"listen"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, describeYAMLError(err)
	}
	if err := DefaultAndValidate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func describeYAMLError(err error) error {
	var te *yaml.TypeError
	if !errors.As(err, &te) {
		return err
	}
	msgs := make([]string, 0, len(te.Errors))
	unknown := true
	for _, e := range te.Errors {
		if strings.HasPrefix(e, "line ") {
			if _, rest, ok := strings.Cut(e, ": "); ok {
				e = rest
			}
		}
		unknown = unknown && strings.Contains(e, "not found in type")
		msgs = append(msgs, e)
	}
	if unknown {
		return fmt.Errorf("config contains unknown fields: %s", strings.Join(msgs, "; "))
	}
	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}

// DefaultAndValidate fills unset fields with defaults and rejects
// inconsistent settings.
func DefaultAndValidate(cfg *Config) error {
	if cfg.Codec.MaxBuffer <= 0 {
		cfg.Codec.MaxBuffer = gdl90.DefaultMaxBuffer
	}
	if cfg.AIS.MaxBuffer <= 0 {
		cfg.AIS.MaxBuffer = nmea.DefaultMaxBuffer
	}
	if cfg.AIS.MaxPending <= 0 {
		cfg.AIS.MaxPending = 16
	}
	if cfg.AIS.FragmentTTL <= 0 {
		cfg.AIS.FragmentTTL = 30 * time.Second
	}

	if len(cfg.Inputs) == 0 {
		return fmt.Errorf("at least one input is required")
	}
	seen := make(map[string]bool, len(cfg.Inputs))
	hasReplay := false
	for i := range cfg.Inputs {
		in := &cfg.Inputs[i]
		if err := defaultInput(i, in); err != nil {
			return err
		}
		if seen[in.Name] {
			return fmt.Errorf("inputs[%d].name %q is duplicated", i, in.Name)
		}
		seen[in.Name] = true
		hasReplay = hasReplay || in.Kind == KindReplay
	}

	if cfg.Output.Format == "" {
		cfg.Output.Format = FormatJSON
	}
	if cfg.Output.Format != FormatJSON && cfg.Output.Format != FormatCBOR {
		return fmt.Errorf("output.format must be 'json' or 'cbor'")
	}
	if cfg.Output.Path == "" {
		cfg.Output.Path = "-"
	}

	if cfg.Record.Enable {
		if cfg.Record.Path == "" {
			return fmt.Errorf("record.path is required when record.enable is true")
		}
		if hasReplay {
			return fmt.Errorf("record cannot be used with replay inputs")
		}
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

func defaultInput(i int, in *InputConfig) error {
	if in.Name == "" {
		return fmt.Errorf("inputs[%d].name is required", i)
	}
	switch in.Protocol {
	case ProtocolGDL90, ProtocolNMEA:
	default:
		return fmt.Errorf("inputs[%d].protocol must be 'gdl90' or 'nmea'", i)
	}

	switch in.Kind {
	case KindSerial:
		if in.Device == "" {
			return fmt.Errorf("inputs[%d].device is required for serial inputs", i)
		}
		if in.Baud <= 0 {
			in.Baud = 115200
			if in.Protocol == ProtocolNMEA {
				in.Baud = 38400
			}
		}
		if in.SerialDriver == "" {
			in.SerialDriver = SerialDriverBugst
		}
		if in.SerialDriver != SerialDriverBugst && in.SerialDriver != SerialDriverTermios {
			return fmt.Errorf("inputs[%d].serial_driver must be 'bugst' or 'termios'", i)
		}
	case KindTCP, KindUDP:
		if in.Addr == "" {
			return fmt.Errorf("inputs[%d].addr is required for %s inputs", i, in.Kind)
		}
		if in.Kind == KindTCP && in.ReconnectDelay <= 0 {
			in.ReconnectDelay = 1 * time.Second
		}
	case KindFile, KindReplay:
		if in.Path == "" {
			return fmt.Errorf("inputs[%d].path is required for %s inputs", i, in.Kind)
		}
		if in.Kind == KindReplay {
			if in.Speed == 0 {
				in.Speed = 1
			}
			if in.Speed < 0 {
				return fmt.Errorf("inputs[%d].speed must be > 0", i)
			}
		}
	default:
		return fmt.Errorf("inputs[%d].kind must be one of serial, tcp, udp, file, replay", i)
	}
	return nil
}
