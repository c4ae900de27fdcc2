package gdl90

import (
	"fmt"

	"github.com/sigurn/crc16"
)

// CRCMode selects the CRC-16 finalization used on the wire.
//
// Both modes run the same reflected 0x8408 register seeded with 0xFFFF. Devices
// in the field disagree on whether the register is inverted before it is
// appended, so the choice is left to configuration.
type CRCMode int

const (
	// CRCInverted applies a final one's complement (CRC-16/X-25).
	CRCInverted CRCMode = iota
	// CRCPlain appends the register as-is (CRC-16/MCRF4XX).
	CRCPlain
)

func (m CRCMode) String() string {
	switch m {
	case CRCInverted:
		return "inverted"
	case CRCPlain:
		return "plain"
	default:
		return fmt.Sprintf("CRCMode(%d)", int(m))
	}
}

// ParseCRCMode accepts the names produced by String.
func ParseCRCMode(s string) (CRCMode, error) {
	switch s {
	case "", "inverted", "x25":
		return CRCInverted, nil
	case "plain", "mcrf4xx":
		return CRCPlain, nil
	default:
		return 0, fmt.Errorf("unknown crc mode %q", s)
	}
}

func (m CRCMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *CRCMode) UnmarshalText(b []byte) error {
	v, err := ParseCRCMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

var (
	x25Table     = crc16.MakeTable(crc16.CRC16_X_25)
	mcrf4xxTable = crc16.MakeTable(crc16.CRC16_MCRF4XX)
)

// CRC16 computes the frame check sequence over data.
func CRC16(data []byte, mode CRCMode) uint16 {
	if mode == CRCPlain {
		return crc16.Checksum(data, mcrf4xxTable)
	}
	return crc16.Checksum(data, x25Table)
}
