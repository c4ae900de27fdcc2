package gdl90

import "fmt"

// Message IDs handled by the codec.
const (
	IDHeartbeat      = 0x00
	IDOwnshipReport  = 0x0A
	IDGeoAltitude    = 0x0B
	IDTrafficReport  = 0x14
	IDForeFlight     = 0x65
	foreFlightSubID  = 0x00
	foreFlightIDSize = 39
)

// Message is implemented by every decoded message variant: Heartbeat,
// OwnshipReport, TrafficReport, GeoAltitude, Identification and Unknown.
type Message interface {
	MessageID() byte
}

// Layout selects the byte layout used for the fixed-size messages.
type Layout int

const (
	// LayoutICD follows the published GDL90 interface control document, as
	// packed by Stratux and understood by common EFBs.
	LayoutICD Layout = iota
	// LayoutCompact is the shortened packing emitted by the legacy ground
	// tools: single-byte ground speed, no accuracy or velocity fields.
	LayoutCompact
)

func (l Layout) String() string {
	switch l {
	case LayoutICD:
		return "icd"
	case LayoutCompact:
		return "compact"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

func ParseLayout(s string) (Layout, error) {
	switch s {
	case "", "icd":
		return LayoutICD, nil
	case "compact":
		return LayoutCompact, nil
	default:
		return 0, fmt.Errorf("unknown layout %q", s)
	}
}

func (l Layout) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Layout) UnmarshalText(b []byte) error {
	v, err := ParseLayout(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Unknown carries a message whose ID the codec does not decode.
type Unknown struct {
	ID      byte   `json:"id"`
	Payload []byte `json:"payload"`
}

func (u Unknown) MessageID() byte { return u.ID }

// Name returns a short human-readable name for a message ID.
func Name(id byte) string {
	switch id {
	case IDHeartbeat:
		return "heartbeat"
	case IDOwnshipReport:
		return "ownship"
	case IDGeoAltitude:
		return "geo_altitude"
	case IDTrafficReport:
		return "traffic"
	case IDForeFlight:
		return "foreflight"
	default:
		return fmt.Sprintf("0x%02X", id)
	}
}
