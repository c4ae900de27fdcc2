package nmea

import (
	"math"
	"strconv"
	"strings"
)

const feetPerMetre = 3.280839895013123

// Fix is the position content of an RMC or GGA sentence. Optional values are
// nil when the field was empty.
type Fix struct {
	Address string `json:"address"`
	// Time is the UTC time of day as sent, hhmmss.sss.
	Time string `json:"time,omitempty"`
	// Valid is the RMC status or a non-zero GGA fix quality.
	Valid bool `json:"valid"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	GroundKt *float64 `json:"ground_kt,omitempty"`
	TrackDeg *float64 `json:"track_deg,omitempty"`
	// Date is ddmmyy (RMC only).
	Date string `json:"date,omitempty"`

	FixQuality *int     `json:"fix_quality,omitempty"`
	Satellites *int     `json:"satellites,omitempty"`
	HDOP       *float64 `json:"hdop,omitempty"`
	AltFeet    *int     `json:"alt_feet,omitempty"`
}

// DecodeFix extracts the fix from an RMC or GGA sentence of any talker. ok is
// false for other sentence types and for sentences with too few fields.
func DecodeFix(s Sentence) (fix *Fix, ok bool) {
	switch s.Type {
	case "RMC":
		return decodeRMC(s)
	case "GGA":
		return decodeGGA(s)
	default:
		return nil, false
	}
}

// RMC fields after the address:
//
//	0: time (hhmmss.sss)
//	1: status (A=active, V=void)
//	2,3: latitude ddmm.mmmm, N/S
//	4,5: longitude dddmm.mmmm, E/W
//	6: speed over ground (knots)
//	7: course over ground (deg)
//	8: date (ddmmyy)
func decodeRMC(s Sentence) (*Fix, bool) {
	f := s.Fields
	if len(f) < 9 {
		return nil, false
	}
	fix := &Fix{
		Address: s.Address(),
		Time:    strings.TrimSpace(f[0]),
		Valid:   strings.TrimSpace(f[1]) == "A",
		Date:    strings.TrimSpace(f[8]),
	}
	fix.Latitude = parseLatLon(f[2], f[3])
	fix.Longitude = parseLatLon(f[4], f[5])
	fix.GroundKt = parseFloat(f[6])
	if trk := parseFloat(f[7]); trk != nil {
		v := math.Mod(*trk+360.0, 360.0)
		fix.TrackDeg = &v
	}
	return fix, true
}

// GGA fields after the address:
//
//	0: time
//	1,2: latitude, N/S
//	3,4: longitude, E/W
//	5: fix quality (0=invalid)
//	6: number of satellites
//	7: HDOP
//	8,9: altitude, units (M)
func decodeGGA(s Sentence) (*Fix, bool) {
	f := s.Fields
	if len(f) < 10 {
		return nil, false
	}
	fix := &Fix{
		Address: s.Address(),
		Time:    strings.TrimSpace(f[0]),
	}
	fix.Latitude = parseLatLon(f[1], f[2])
	fix.Longitude = parseLatLon(f[3], f[4])
	if q, err := strconv.Atoi(strings.TrimSpace(f[5])); err == nil {
		fix.FixQuality = &q
		fix.Valid = q != 0
	}
	if n, err := strconv.Atoi(strings.TrimSpace(f[6])); err == nil {
		fix.Satellites = &n
	}
	fix.HDOP = parseFloat(f[7])
	if m := parseFloat(f[8]); m != nil {
		ft := int(math.Round(*m * feetPerMetre))
		fix.AltFeet = &ft
	}
	return fix, true
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseLatLon parses ddmm.mmmm (latitude) or dddmm.mmmm (longitude) plus the
// hemisphere letter into signed decimal degrees.
func parseLatLon(v, hemi string) *float64 {
	v = strings.TrimSpace(v)
	hemi = strings.ToUpper(strings.TrimSpace(hemi))
	if v == "" || (hemi != "N" && hemi != "S" && hemi != "E" && hemi != "W") {
		return nil
	}

	// The last two digits before the decimal point start the minutes.
	intPart, _, _ := strings.Cut(v, ".")
	if len(intPart) < 3 {
		return nil
	}
	deg, err := strconv.Atoi(intPart[:len(intPart)-2])
	if err != nil {
		return nil
	}
	mins, err := strconv.ParseFloat(v[len(intPart)-2:], 64)
	if err != nil || mins >= 60 {
		return nil
	}

	dec := float64(deg) + mins/60.0
	if hemi == "S" || hemi == "W" {
		dec = -dec
	}
	return &dec
}
