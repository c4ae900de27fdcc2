package gdl90

import "math"

func encodeLatLon24(deg float64) [3]byte {
	v := deg / latLonResolution
	// Match Stratux behavior: truncate toward zero.
	wk := int32(v)
	u := uint32(wk) & 0x00FFFFFF
	return [3]byte{byte((u >> 16) & 0xFF), byte((u >> 8) & 0xFF), byte(u & 0xFF)}
}

func decodeLatLon24(b []byte) float64 {
	return float64(signExtend(u24(b), 24)) * latLonResolution
}

func encodeAltitude12(altFeet int) uint16 {
	// 25 ft resolution with +1000 ft offset.
	// GDL90 ICD convention:
	//   - range -1000..101350 -> 0x000..0xFFE
	//   - invalid/unavailable -> 0xFFF
	if altFeet < -1000 || altFeet > 101350 {
		return altitudeUnavailable
	}
	v := (altFeet + 1000) / 25
	return uint16(v) & 0x0FFF
}

// decodeAltitude12 returns the altitude in feet and whether the field holds
// the "unavailable" marker.
func decodeAltitude12(raw uint16) (int, bool) {
	raw &= 0x0FFF
	if raw == altitudeUnavailable {
		return 0, true
	}
	return int(raw)*25 - 1000, false
}

func encodeU12(v int) uint16 {
	if v < 0 {
		return 0
	}
	if v > 0xFFF {
		return 0xFFF
	}
	return uint16(v)
}

func encodeU8(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 0xFF {
		return 0xFF
	}
	return byte(v)
}

func encodeTrack8(deg float64) byte {
	if deg < 0 {
		deg = math.Mod(deg, 360) + 360
	}
	deg = math.Mod(deg, 360)
	return byte(int(math.Floor((deg+trackResolution/2)/trackResolution)) & 0xFF)
}

func decodeTrack8(b byte) float64 {
	return float64(b) * trackResolution
}

func u16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

func u24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

func putU24(dst []byte, v uint32) {
	dst[0] = byte(v >> 16)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v)
}

// signExtend interprets the low width bits of v as two's complement.
func signExtend(v uint32, width uint) int32 {
	shift := 32 - width
	return int32(v<<shift) >> shift
}

func clampI32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
