package stream

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"navwire/internal/ais"
	"navwire/internal/metrics"
	"navwire/internal/nmea"
)

const rmc = "$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A\r\n"

func TestNMEAPipeline_MixedStream(t *testing.T) {
	payload := "13u?etPv2;0n:dDPwUM1U1Cb069D"
	frag1 := nmea.Format('!', "AIVDM", "2", "1", "7", "B", payload[:10], "0") + "\r\n"
	frag2 := nmea.Format('!', "AIVDM", "2", "2", "7", "B", payload[10:], "0") + "\r\n"
	bad := strings.Replace(rmc, "*6A", "*00", 1)

	stream := frag2 + bad + rmc + frag1
	m := metrics.New(nil)
	p := NewNMEA(testOptions(m), nmea.ExtractorConfig{}, ais.AssemblerConfig{})

	var recs []Record
	for i := 0; i < len(stream); i += 7 {
		end := min(i+7, len(stream))
		recs = append(recs, p.Process([]byte(stream[i:end]))...)
	}

	require.Len(t, recs, 2)
	assert.Equal(t, "nmea", recs[0].Protocol)
	assert.Equal(t, "GPRMC", recs[0].Type)
	fix, ok := recs[0].Message.(*nmea.Fix)
	require.True(t, ok, "message type %T", recs[0].Message)
	assert.True(t, fix.Valid)

	assert.Equal(t, "ais", recs[1].Protocol)
	rep, ok := recs[1].Message.(*ais.PositionReport)
	require.True(t, ok, "message type %T", recs[1].Message)
	assert.Equal(t, uint32(265547250), rep.MMSI)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChecksumFailures.WithLabelValues("test")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Sentences.WithLabelValues("test", "AIVDM")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AISReports.WithLabelValues("test")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.FragmentsPending.WithLabelValues("test")))
}

func TestNMEAPipeline_EvictionsAndMalformed(t *testing.T) {
	clock := fixedNow
	m := metrics.New(nil)
	p := NewNMEA(testOptions(m), nmea.ExtractorConfig{}, ais.AssemblerConfig{
		TTL: 10 * time.Second,
		Now: func() time.Time { return clock },
	})

	p.Process([]byte(nmea.Format('!', "AIVDM", "2", "1", "1", "A", "13u?etPv2", "0") + "\r\n"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FragmentsPending.WithLabelValues("test")))

	clock = clock.Add(time.Minute)
	p.Process([]byte(nmea.Format('!', "AIVDM", "2", "1", "2", "A", "13u?etPv2", "0") + "\r\n"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FragmentEvictions.WithLabelValues("test", "expired")))

	p.Process([]byte(nmea.Format('!', "AIVDM", "two", "1", "", "A", "13u", "0") + "\r\n"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DecodeErrors.WithLabelValues("test", "ais_malformed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FragmentsPending.WithLabelValues("test")))
}
