package gdl90

import (
	"encoding/binary"
	"time"
)

const (
	heartbeatICDLen     = 7
	heartbeatCompactLen = 4
)

// Heartbeat is the GDL90 status message (0x00).
//
// Timestamp is seconds since 0000Z in the ICD layout (17 bits) and device
// uptime in seconds in the compact layout (16 bits). TrafficValid is only
// carried by the compact layout.
type Heartbeat struct {
	GPSValid            bool `json:"gps_valid"`
	MaintenanceRequired bool `json:"maintenance_required"`
	Ident               bool `json:"ident"`
	AddressTalkback     bool `json:"address_talkback"`
	GPSBatteryLow       bool `json:"gps_battery_low"`
	RATCS               bool `json:"ratcs"`
	UATInitialized      bool `json:"uat_initialized"`

	CSARequested    bool `json:"csa_requested"`
	CSANotAvailable bool `json:"csa_not_available"`
	UTCOK           bool `json:"utc_ok"`

	TrafficValid bool `json:"traffic_valid"`

	Timestamp      uint32 `json:"timestamp"`
	UplinkCount    uint8  `json:"uplink_count"`     // 5 bits
	BasicLongCount uint16 `json:"basic_long_count"` // 10 bits
}

func (Heartbeat) MessageID() byte { return IDHeartbeat }

// NewHeartbeat builds the heartbeat a Stratux-like receiver emits at nowUTC.
func NewHeartbeat(nowUTC time.Time, gpsValid bool, maintenanceRequired bool) Heartbeat {
	nowUTC = nowUTC.UTC()
	midnightUTC := time.Date(nowUTC.Year(), nowUTC.Month(), nowUTC.Day(), 0, 0, 0, 0, time.UTC)
	return Heartbeat{
		GPSValid:            gpsValid,
		MaintenanceRequired: maintenanceRequired,
		AddressTalkback:     true,
		UATInitialized:      true,
		UTCOK:               true,
		Timestamp:           uint32(nowUTC.Sub(midnightUTC).Seconds()),
	}
}

func encodeHeartbeatICD(h Heartbeat) []byte {
	msg := make([]byte, heartbeatICDLen)
	msg[0] = IDHeartbeat

	msg[1] = bits8(h.GPSValid, h.MaintenanceRequired, h.Ident, h.AddressTalkback,
		h.GPSBatteryLow, h.RATCS, false, h.UATInitialized)

	// Timestamp bit 16 rides in the top bit of status byte 2.
	ts := h.Timestamp & 0x1FFFF
	msg[2] = bits8(ts>>16 != 0, h.CSARequested, h.CSANotAvailable, false, false, false, false, h.UTCOK)
	binary.LittleEndian.PutUint16(msg[3:5], uint16(ts))

	counts := uint16(h.UplinkCount&0x1F)<<11 | h.BasicLongCount&0x03FF
	binary.BigEndian.PutUint16(msg[5:7], counts)
	return msg
}

func decodeHeartbeatICD(msg []byte) (Heartbeat, error) {
	if len(msg) < heartbeatICDLen {
		return Heartbeat{}, &LengthError{ID: IDHeartbeat, Got: len(msg), Want: heartbeatICDLen}
	}
	s1, s2 := msg[1], msg[2]
	h := Heartbeat{
		GPSValid:            s1&0x80 != 0,
		MaintenanceRequired: s1&0x40 != 0,
		Ident:               s1&0x20 != 0,
		AddressTalkback:     s1&0x10 != 0,
		GPSBatteryLow:       s1&0x08 != 0,
		RATCS:               s1&0x04 != 0,
		UATInitialized:      s1&0x01 != 0,

		CSARequested:    s2&0x40 != 0,
		CSANotAvailable: s2&0x20 != 0,
		UTCOK:           s2&0x01 != 0,
	}
	h.Timestamp = uint32(binary.LittleEndian.Uint16(msg[3:5]))
	if s2&0x80 != 0 {
		h.Timestamp |= 1 << 16
	}
	counts := binary.BigEndian.Uint16(msg[5:7])
	h.UplinkCount = uint8(counts >> 11)
	h.BasicLongCount = counts & 0x03FF
	return h, nil
}

func encodeHeartbeatCompact(h Heartbeat) []byte {
	msg := make([]byte, heartbeatCompactLen)
	msg[0] = IDHeartbeat
	binary.BigEndian.PutUint16(msg[1:3], uint16(h.Timestamp))
	msg[3] = bits8(false, false, false, false, false, false, h.TrafficValid, h.GPSValid)
	return msg
}

func decodeHeartbeatCompact(msg []byte) (Heartbeat, error) {
	if len(msg) < heartbeatCompactLen {
		return Heartbeat{}, &LengthError{ID: IDHeartbeat, Got: len(msg), Want: heartbeatCompactLen}
	}
	return Heartbeat{
		Timestamp:    uint32(binary.BigEndian.Uint16(msg[1:3])),
		GPSValid:     msg[3]&0x01 != 0,
		TrafficValid: msg[3]&0x02 != 0,
	}, nil
}

// bits8 packs flags most significant bit first.
func bits8(flags ...bool) byte {
	var b byte
	for _, f := range flags {
		b <<= 1
		if f {
			b |= 1
		}
	}
	return b
}
