package ais

import (
	"errors"
	"fmt"
	"math"
)

var ErrUnsupportedType = errors.New("ais: unsupported message type")

const positionBits = 143

// Sentinel raw values meaning "not available".
const (
	SpeedUnavailable   = 1023
	CourseUnavailable  = 3600
	HeadingUnavailable = 511
	TurnUnavailable    = -128
	lonUnavailable     = 181 * 600000
	latUnavailable     = 91 * 600000
)

// PositionReport is a class A position report (types 1, 2 and 3).
type PositionReport struct {
	MessageType uint8  `json:"message_type"`
	MMSI        uint32 `json:"mmsi"`
	NavStatus   uint8  `json:"nav_status"`
	// RateOfTurn is the raw ROT_AIS indicator, see TurnRate.
	RateOfTurn int8 `json:"rate_of_turn"`
	// SpeedOverGround in knots; 102.3 when unavailable.
	SpeedOverGround  float64 `json:"speed_over_ground"`
	PositionAccuracy bool    `json:"position_accuracy"`
	// Longitude and Latitude in degrees; 181 and 91 when unavailable.
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	// CourseOverGround in degrees; 360 when unavailable.
	CourseOverGround float64 `json:"course_over_ground"`
	Heading          uint16  `json:"heading"`
	// Timestamp is the UTC second of the fix.
	Timestamp uint8 `json:"timestamp"`
}

type bitField struct {
	start, length int
}

var (
	fieldType     = bitField{0, 6}
	fieldMMSI     = bitField{8, 30}
	fieldNav      = bitField{38, 4}
	fieldROT      = bitField{42, 8}
	fieldSOG      = bitField{50, 10}
	fieldAccuracy = bitField{60, 1}
	fieldLon      = bitField{61, 28}
	fieldLat      = bitField{89, 27}
	fieldCOG      = bitField{116, 12}
	fieldHeading  = bitField{128, 9}
	fieldSecond   = bitField{137, 6}
)

// MessageType returns the leading 6-bit type field.
func MessageType(b Bits) (uint8, error) {
	v, err := b.Uint(fieldType.start, fieldType.length)
	return uint8(v), err
}

// DecodePosition decodes a type 1, 2 or 3 report. Other types return
// ErrUnsupportedType.
func DecodePosition(b Bits) (*PositionReport, error) {
	typ, err := MessageType(b)
	if err != nil {
		return nil, err
	}
	if typ < 1 || typ > 3 {
		return nil, fmt.Errorf("%w %d", ErrUnsupportedType, typ)
	}
	if b.Len() < positionBits {
		return nil, fmt.Errorf("%w: position report needs %d bits, have %d", ErrBitRange, positionBits, b.Len())
	}

	u := func(f bitField) uint64 {
		v, _ := b.Uint(f.start, f.length)
		return v
	}
	s := func(f bitField) int64 {
		v, _ := b.Int(f.start, f.length)
		return v
	}

	return &PositionReport{
		MessageType:      typ,
		MMSI:             uint32(u(fieldMMSI)),
		NavStatus:        uint8(u(fieldNav)),
		RateOfTurn:       int8(s(fieldROT)),
		SpeedOverGround:  float64(u(fieldSOG)) / 10,
		PositionAccuracy: u(fieldAccuracy) == 1,
		Longitude:        float64(s(fieldLon)) / 600000,
		Latitude:         float64(s(fieldLat)) / 600000,
		CourseOverGround: float64(u(fieldCOG)) / 10,
		Heading:          uint16(u(fieldHeading)),
		Timestamp:        uint8(u(fieldSecond)),
	}, nil
}

func (p *PositionReport) PositionAvailable() bool {
	return math.Round(p.Longitude*600000) != lonUnavailable && math.Round(p.Latitude*600000) != latUnavailable
}

func (p *PositionReport) SpeedAvailable() bool {
	return math.Round(p.SpeedOverGround*10) != SpeedUnavailable
}

func (p *PositionReport) CourseAvailable() bool {
	return math.Round(p.CourseOverGround*10) != CourseUnavailable
}

func (p *PositionReport) HeadingAvailable() bool { return p.Heading != HeadingUnavailable }

// TurnRate converts RateOfTurn to degrees per minute. ok is false when the
// rate is unavailable or only the turn direction is known (raw ±127).
func (p *PositionReport) TurnRate() (degPerMin float64, ok bool) {
	switch p.RateOfTurn {
	case TurnUnavailable, 127, -127:
		return 0, false
	}
	r := float64(p.RateOfTurn) / 4.733
	return math.Copysign(r*r, r), true
}
