package gdl90

import (
	"encoding/binary"
	"strings"
)

// Identification is the ForeFlight "ID" message (0x65, sub-id 0x00) used by
// receivers to announce themselves to EFBs.
type Identification struct {
	Version      byte   `json:"version"`
	Serial       uint64 `json:"serial"`       // all ones when unknown
	ShortName    string `json:"short_name"`   // up to 8 bytes
	LongName     string `json:"long_name"`    // up to 16 bytes
	Capabilities uint32 `json:"capabilities"` // bit0: ownship geometric altitude is MSL
}

func (Identification) MessageID() byte { return IDForeFlight }

// NewIdentification mirrors Stratux's makeFFIDMessage defaults.
func NewIdentification(shortName string, longName string) Identification {
	shortName = strings.TrimSpace(shortName)
	if shortName == "" {
		shortName = "navwire"
	}
	longName = strings.TrimSpace(longName)
	if longName == "" {
		longName = "navwire"
	}
	return Identification{
		Version:      0x01,
		Serial:       ^uint64(0),
		ShortName:    shortName,
		LongName:     longName,
		Capabilities: 0x01,
	}
}

func encodeIdentification(id Identification) []byte {
	msg := make([]byte, foreFlightIDSize)
	msg[0] = IDForeFlight
	msg[1] = foreFlightSubID
	msg[2] = id.Version
	binary.BigEndian.PutUint64(msg[3:11], id.Serial)
	putText(msg[11:19], id.ShortName)
	putText(msg[19:35], id.LongName)
	binary.BigEndian.PutUint32(msg[35:39], id.Capabilities)
	return msg
}

func decodeIdentification(msg []byte) (Identification, error) {
	if len(msg) < foreFlightIDSize {
		return Identification{}, &LengthError{ID: IDForeFlight, Got: len(msg), Want: foreFlightIDSize}
	}
	return Identification{
		Version:      msg[2],
		Serial:       binary.BigEndian.Uint64(msg[3:11]),
		ShortName:    cleanText(msg[11:19]),
		LongName:     cleanText(msg[19:35]),
		Capabilities: binary.BigEndian.Uint32(msg[35:39]),
	}, nil
}
