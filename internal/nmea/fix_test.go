package nmea

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) Sentence {
	t.Helper()
	s, err := Parse(raw)
	require.NoError(t, err)
	return s
}

func TestDecodeFix_RMC(t *testing.T) {
	s := mustParse(t, Format('$', "GPRMC", "123519", "A", "4807.038", "N", "01131.000", "E", "022.4", "084.4", "230394", "003.1", "W"))

	fix, ok := DecodeFix(s)
	require.True(t, ok)
	assert.Equal(t, "GPRMC", fix.Address)
	assert.Equal(t, "123519", fix.Time)
	assert.Equal(t, "230394", fix.Date)
	assert.True(t, fix.Valid)
	require.NotNil(t, fix.Latitude)
	require.NotNil(t, fix.Longitude)
	assert.InDelta(t, 48.1173, *fix.Latitude, 1e-6)
	assert.InDelta(t, 11.516667, *fix.Longitude, 1e-6)
	require.NotNil(t, fix.GroundKt)
	assert.InDelta(t, 22.4, *fix.GroundKt, 1e-9)
	require.NotNil(t, fix.TrackDeg)
	assert.InDelta(t, 84.4, *fix.TrackDeg, 1e-9)
	assert.Nil(t, fix.AltFeet)
}

func TestDecodeFix_RMCVoid(t *testing.T) {
	s := mustParse(t, Format('$', "GNRMC", "000000", "V", "", "", "", "", "", "", "010120"))

	fix, ok := DecodeFix(s)
	require.True(t, ok)
	assert.False(t, fix.Valid)
	assert.Nil(t, fix.Latitude)
	assert.Nil(t, fix.GroundKt)
}

func TestDecodeFix_GGA(t *testing.T) {
	s := mustParse(t, Format('$', "GPGGA", "123519", "4807.038", "S", "01131.000", "W", "1", "08", "0.9", "545.4", "M", "46.9", "M", "", ""))

	fix, ok := DecodeFix(s)
	require.True(t, ok)
	assert.True(t, fix.Valid)
	assert.InDelta(t, -48.1173, *fix.Latitude, 1e-6)
	assert.InDelta(t, -11.516667, *fix.Longitude, 1e-6)
	assert.Equal(t, 1, *fix.FixQuality)
	assert.Equal(t, 8, *fix.Satellites)
	assert.InDelta(t, 0.9, *fix.HDOP, 1e-9)
	assert.Equal(t, 1789, *fix.AltFeet)
}

func TestDecodeFix_Unsupported(t *testing.T) {
	_, ok := DecodeFix(mustParse(t, Format('$', "GPGSA", "A", "3")))
	assert.False(t, ok)

	_, ok = DecodeFix(mustParse(t, Format('$', "GPRMC", "123519", "A")))
	assert.False(t, ok, "short RMC")
}

func TestParseLatLon_Rejects(t *testing.T) {
	for _, tc := range []struct{ v, hemi string }{
		{"", "N"},
		{"4807.038", "X"},
		{"48", "N"},
		{"4875.000", "N"},
	} {
		assert.Nil(t, parseLatLon(tc.v, tc.hemi), "%q %q", tc.v, tc.hemi)
	}
}
