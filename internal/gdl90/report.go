package gdl90

import (
	"math"
)

const (
	latLonResolution = 180.0 / 8388608.0 // degrees per LSB for signed 24-bit
	trackResolution  = 360.0 / 256.0

	reportICDLen            = 28
	ownshipCompactLen       = 11
	trafficCompactLen       = 26
	altitudeUnavailable     = 0x0FFF
	verticalVelUnavailable  = 0x0800
	verticalVelResolutionFt = 64
)

// Report holds the fields shared by the Ownship (0x0A) and Traffic (0x14)
// reports.
//
// Misc is the low nibble next to the altitude: bit0-1 track type, bit2
// extrapolated, bit3 airborne. Altitude and vertical velocity carry explicit
// "unavailable" flags so the zero value encodes a valid 0.
type Report struct {
	AlertStatus byte   `json:"alert_status"` // 0-15
	AddressType byte   `json:"address_type"` // 0-15
	Address     uint32 `json:"address"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	AltitudeFeet        int  `json:"altitude_ft"`
	AltitudeUnavailable bool `json:"altitude_unavailable"`

	Misc byte `json:"misc"`
	NIC  byte `json:"nic"`  // 0-15
	NACp byte `json:"nacp"` // 0-15

	GroundSpeedKt int `json:"ground_speed_kt"`

	VerticalVelocityFpm         int  `json:"vertical_velocity_fpm"`
	VerticalVelocityUnavailable bool `json:"vertical_velocity_unavailable"`

	HeadingDeg float64 `json:"heading_deg"`
	Emitter    byte    `json:"emitter"`
	Callsign   string  `json:"callsign"`
	Priority   byte    `json:"priority"` // 0-15
}

// Airborne reports the air/ground bit of Misc.
func (r Report) Airborne() bool { return r.Misc&0x08 != 0 }

// OwnshipReport is message 0x0A.
type OwnshipReport struct{ Report }

func (OwnshipReport) MessageID() byte { return IDOwnshipReport }

// TrafficReport is message 0x14.
type TrafficReport struct{ Report }

func (TrafficReport) MessageID() byte { return IDTrafficReport }

func encodeReportICD(id byte, r Report) []byte {
	msg := make([]byte, reportICDLen)
	msg[0] = id
	msg[1] = (r.AlertStatus&0x0F)<<4 | r.AddressType&0x0F

	putU24(msg[2:5], r.Address)

	lat := encodeLatLon24(r.Latitude)
	msg[5], msg[6], msg[7] = lat[0], lat[1], lat[2]

	lon := encodeLatLon24(r.Longitude)
	msg[8], msg[9], msg[10] = lon[0], lon[1], lon[2]

	alt := uint16(altitudeUnavailable)
	if !r.AltitudeUnavailable {
		alt = encodeAltitude12(r.AltitudeFeet)
	}
	msg[11] = byte((alt & 0xFF0) >> 4)
	msg[12] = byte((alt&0x00F)<<4) | r.Misc&0x0F

	msg[13] = (r.NIC&0x0F)<<4 | r.NACp&0x0F

	gs := encodeU12(r.GroundSpeedKt)
	msg[14] = byte((gs & 0x0FF0) >> 4)
	msg[15] = byte((gs & 0x000F) << 4)

	vvel := uint16(verticalVelUnavailable)
	if !r.VerticalVelocityUnavailable {
		vv64 := int32(math.Round(float64(r.VerticalVelocityFpm) / verticalVelResolutionFt))
		vv64 = clampI32(vv64, -2047, 2047)
		vvel = uint16(int16(vv64)) & 0x0FFF
	}
	msg[15] |= byte((vvel & 0x0F00) >> 8)
	msg[16] = byte(vvel & 0x00FF)

	msg[17] = encodeTrack8(r.HeadingDeg)
	msg[18] = r.Emitter

	copy(msg[19:27], sanitizeCallsign(r.Callsign))

	msg[27] = (r.Priority & 0x0F) << 4
	return msg
}

func decodeReportICD(id byte, msg []byte) (Report, error) {
	if len(msg) < reportICDLen {
		return Report{}, &LengthError{ID: id, Got: len(msg), Want: reportICDLen}
	}
	r := Report{
		AlertStatus: msg[1] >> 4,
		AddressType: msg[1] & 0x0F,
		Address:     u24(msg[2:5]),
		Latitude:    decodeLatLon24(msg[5:8]),
		Longitude:   decodeLatLon24(msg[8:11]),
		Misc:        msg[12] & 0x0F,
		NIC:         msg[13] >> 4,
		NACp:        msg[13] & 0x0F,
		HeadingDeg:  decodeTrack8(msg[17]),
		Emitter:     msg[18],
		Callsign:    cleanText(msg[19:27]),
		Priority:    msg[27] >> 4,
	}

	alt := uint16(msg[11])<<4 | uint16(msg[12]>>4)
	r.AltitudeFeet, r.AltitudeUnavailable = decodeAltitude12(alt)

	r.GroundSpeedKt = int(uint16(msg[14])<<4 | uint16(msg[15]>>4))

	vvel := uint16(msg[15]&0x0F)<<8 | uint16(msg[16])
	if vvel == verticalVelUnavailable {
		r.VerticalVelocityUnavailable = true
	} else {
		r.VerticalVelocityFpm = int(signExtend(uint32(vvel), 12)) * verticalVelResolutionFt
	}
	return r, nil
}

func encodeOwnshipCompact(r Report) []byte {
	msg := make([]byte, ownshipCompactLen)
	msg[0] = IDOwnshipReport
	lat := encodeLatLon24(r.Latitude)
	copy(msg[1:4], lat[:])
	lon := encodeLatLon24(r.Longitude)
	copy(msg[4:7], lon[:])
	putAltitudeCompact(msg[7:9], r)
	msg[9] = encodeTrack8(r.HeadingDeg)
	msg[10] = encodeU8(r.GroundSpeedKt)
	return msg
}

func decodeOwnshipCompact(msg []byte) (Report, error) {
	if len(msg) < ownshipCompactLen {
		return Report{}, &LengthError{ID: IDOwnshipReport, Got: len(msg), Want: ownshipCompactLen}
	}
	r := Report{
		Latitude:      decodeLatLon24(msg[1:4]),
		Longitude:     decodeLatLon24(msg[4:7]),
		HeadingDeg:    decodeTrack8(msg[9]),
		GroundSpeedKt: int(msg[10]),
	}
	r.AltitudeFeet, r.AltitudeUnavailable = decodeAltitude12(u16(msg[7:9]) & 0x0FFF)
	return r, nil
}

func encodeTrafficCompact(r Report) []byte {
	msg := make([]byte, trafficCompactLen)
	msg[0] = IDTrafficReport
	putU24(msg[1:4], r.Address)
	lat := encodeLatLon24(r.Latitude)
	copy(msg[4:7], lat[:])
	lon := encodeLatLon24(r.Longitude)
	copy(msg[7:10], lon[:])
	putAltitudeCompact(msg[10:12], r)
	msg[12] = encodeU8(r.GroundSpeedKt)
	msg[13] = encodeTrack8(r.HeadingDeg)
	// 14..17 reserved.
	copy(msg[18:26], sanitizeCallsign(r.Callsign))
	return msg
}

func decodeTrafficCompact(msg []byte) (Report, error) {
	if len(msg) < trafficCompactLen {
		return Report{}, &LengthError{ID: IDTrafficReport, Got: len(msg), Want: trafficCompactLen}
	}
	r := Report{
		Address:       u24(msg[1:4]),
		Latitude:      decodeLatLon24(msg[4:7]),
		Longitude:     decodeLatLon24(msg[7:10]),
		GroundSpeedKt: int(msg[12]),
		HeadingDeg:    decodeTrack8(msg[13]),
		Callsign:      cleanText(msg[18:26]),
	}
	r.AltitudeFeet, r.AltitudeUnavailable = decodeAltitude12(u16(msg[10:12]) & 0x0FFF)
	return r, nil
}

func putAltitudeCompact(dst []byte, r Report) {
	alt := uint16(altitudeUnavailable)
	if !r.AltitudeUnavailable {
		alt = encodeAltitude12(r.AltitudeFeet)
	}
	dst[0] = byte(alt >> 8)
	dst[1] = byte(alt)
}
