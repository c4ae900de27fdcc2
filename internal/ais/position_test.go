package ais

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePosition_Type1(t *testing.T) {
	b, err := ToBits("15M67FC000G?ufbE`FepT@3n00Sa")
	require.NoError(t, err)

	p, err := DecodePosition(b)
	require.NoError(t, err)

	assert.Equal(t, uint8(1), p.MessageType)
	assert.Equal(t, uint32(366053209), p.MMSI)
	assert.Equal(t, uint8(3), p.NavStatus)
	assert.Equal(t, int8(0), p.RateOfTurn)
	assert.InDelta(t, 0.0, p.SpeedOverGround, 1e-9)
	assert.False(t, p.PositionAccuracy)
	assert.InDelta(t, -122.341618, p.Longitude, 1e-6)
	assert.InDelta(t, 37.802118, p.Latitude, 1e-6)
	assert.InDelta(t, 219.3, p.CourseOverGround, 1e-9)
	assert.Equal(t, uint16(1), p.Heading)
	assert.Equal(t, uint8(59), p.Timestamp)

	assert.True(t, p.PositionAvailable())
	assert.True(t, p.HeadingAvailable())
	rate, ok := p.TurnRate()
	assert.True(t, ok)
	assert.Zero(t, rate)
}

func TestDecodePosition_NegativeTurn(t *testing.T) {
	b, err := ToBits("13u?etPv2;0n:dDPwUM1U1Cb069D")
	require.NoError(t, err)

	p, err := DecodePosition(b)
	require.NoError(t, err)
	assert.Equal(t, uint32(265547250), p.MMSI)
	assert.Equal(t, int8(-8), p.RateOfTurn)
	assert.InDelta(t, 13.9, p.SpeedOverGround, 1e-9)
	assert.InDelta(t, 11.832977, p.Longitude, 1e-6)
	assert.InDelta(t, 57.660353, p.Latitude, 1e-6)
	assert.InDelta(t, 40.4, p.CourseOverGround, 1e-9)
	assert.Equal(t, uint16(41), p.Heading)
	assert.Equal(t, uint8(53), p.Timestamp)

	rate, ok := p.TurnRate()
	require.True(t, ok)
	assert.InDelta(t, -2.857, rate, 1e-3)
}

func TestDecodePosition_Unavailable(t *testing.T) {
	p := &PositionReport{
		RateOfTurn:       TurnUnavailable,
		SpeedOverGround:  102.3,
		Longitude:        181,
		Latitude:         91,
		CourseOverGround: 360,
		Heading:          HeadingUnavailable,
	}
	assert.False(t, p.PositionAvailable())
	assert.False(t, p.SpeedAvailable())
	assert.False(t, p.CourseAvailable())
	assert.False(t, p.HeadingAvailable())
	_, ok := p.TurnRate()
	assert.False(t, ok)
}

func TestDecodePosition_Errors(t *testing.T) {
	// Type 5 (static data) starts with '5'.
	b, err := ToBits("55NBJr02;FL@S@E>4p4@E=@E4p@E")
	require.NoError(t, err)
	_, err = DecodePosition(b)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	short, err := ToBits("15M67FC000")
	require.NoError(t, err)
	_, err = DecodePosition(short)
	assert.ErrorIs(t, err, ErrBitRange)
}
