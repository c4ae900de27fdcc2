package gdl90

import (
	"encoding/binary"
	"math"
)

const (
	geoAltICDLen     = 5
	geoAltCompactLen = 3
	geoAltResolution = 5
	VFOMUnavailable  = 0x7FFF
)

// GeoAltitude is the Ownship Geometric Altitude message (0x0B).
//
// The ICD layout carries a signed 5 ft altitude and the vertical figure of
// merit; the compact layout only carries a 12-bit, 25 ft altitude, where
// 0xFFF marks it unavailable.
type GeoAltitude struct {
	AltitudeFeet        int    `json:"altitude_ft"`
	AltitudeUnavailable bool   `json:"altitude_unavailable"`
	VerticalWarning     bool   `json:"vertical_warning"`
	VFOMMeters          uint16 `json:"vfom_meters"` // VFOMUnavailable when unknown
}

func (GeoAltitude) MessageID() byte { return IDGeoAltitude }

func encodeGeoAltICD(g GeoAltitude) []byte {
	msg := make([]byte, geoAltICDLen)
	msg[0] = IDGeoAltitude
	alt := clampI32(int32(math.Round(float64(g.AltitudeFeet)/geoAltResolution)), math.MinInt16, math.MaxInt16)
	binary.BigEndian.PutUint16(msg[1:3], uint16(int16(alt)))
	metrics := g.VFOMMeters & 0x7FFF
	if g.VerticalWarning {
		metrics |= 0x8000
	}
	binary.BigEndian.PutUint16(msg[3:5], metrics)
	return msg
}

func decodeGeoAltICD(msg []byte) (GeoAltitude, error) {
	if len(msg) < geoAltICDLen {
		return GeoAltitude{}, &LengthError{ID: IDGeoAltitude, Got: len(msg), Want: geoAltICDLen}
	}
	metrics := binary.BigEndian.Uint16(msg[3:5])
	return GeoAltitude{
		AltitudeFeet:    int(int16(binary.BigEndian.Uint16(msg[1:3]))) * geoAltResolution,
		VerticalWarning: metrics&0x8000 != 0,
		VFOMMeters:      metrics & 0x7FFF,
	}, nil
}

func encodeGeoAltCompact(g GeoAltitude) []byte {
	msg := make([]byte, geoAltCompactLen)
	msg[0] = IDGeoAltitude
	alt := uint16(altitudeUnavailable)
	if !g.AltitudeUnavailable {
		alt = encodeAltitude12(g.AltitudeFeet)
	}
	binary.BigEndian.PutUint16(msg[1:3], alt)
	return msg
}

func decodeGeoAltCompact(msg []byte) (GeoAltitude, error) {
	if len(msg) < geoAltCompactLen {
		return GeoAltitude{}, &LengthError{ID: IDGeoAltitude, Got: len(msg), Want: geoAltCompactLen}
	}
	var g GeoAltitude
	g.AltitudeFeet, g.AltitudeUnavailable = decodeAltitude12(u16(msg[1:3]))
	return g, nil
}
