// Package metrics holds the Prometheus collectors shared by the inputs and
// decode pipelines.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "navwire"

type Metrics struct {
	InputBytes   *prometheus.CounterVec
	InputErrors  *prometheus.CounterVec
	OverflowDrop *prometheus.CounterVec

	InputConnected *prometheus.GaugeVec
	InputConnects  *prometheus.CounterVec

	Frames       *prometheus.CounterVec
	CRCFailures  *prometheus.CounterVec
	DecodeErrors *prometheus.CounterVec

	Sentences         *prometheus.CounterVec
	ChecksumFailures  *prometheus.CounterVec
	AISReports        *prometheus.CounterVec
	FragmentsPending  *prometheus.GaugeVec
	FragmentEvictions *prometheus.CounterVec

	RecordsWritten *prometheus.CounterVec
}

// New registers every collector with reg. A nil reg uses a private registry,
// which keeps tests independent of each other.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		InputBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "input_bytes_total",
			Help: "Raw bytes read per input.",
		}, []string{"input"}),
		InputErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "input_errors_total",
			Help: "Input read failures, each followed by a restart.",
		}, []string{"input"}),
		OverflowDrop: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "buffer_overflow_bytes_total",
			Help: "Bytes discarded because no delimiter arrived within the buffer limit.",
		}, []string{"input"}),
		InputConnected: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "input_connected",
			Help: "1 while a connection-based input is connected.",
		}, []string{"input"}),
		InputConnects: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "input_connects_total",
			Help: "Successful connects of connection-based inputs, reconnects included.",
		}, []string{"input"}),

		Frames: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "gdl90_frames_total",
			Help: "Decoded GDL90 frames by message.",
		}, []string{"input", "message"}),
		CRCFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "gdl90_crc_failures_total",
			Help: "GDL90 frames whose CRC trailer did not match.",
		}, []string{"input"}),
		DecodeErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "decode_errors_total",
			Help: "Frames, sentences or fragments dropped by kind.",
		}, []string{"input", "kind"}),

		Sentences: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "nmea_sentences_total",
			Help: "Accepted NMEA sentences by address.",
		}, []string{"input", "address"}),
		ChecksumFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "nmea_checksum_failures_total",
			Help: "NMEA sentences dropped for a wrong checksum.",
		}, []string{"input"}),
		AISReports: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "ais_position_reports_total",
			Help: "Decoded AIS position reports.",
		}, []string{"input"}),
		FragmentsPending: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "ais_fragments_pending",
			Help: "Incomplete multi-sentence AIS messages.",
		}, []string{"input"}),
		FragmentEvictions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "ais_fragment_evictions_total",
			Help: "Incomplete AIS messages discarded by reason.",
		}, []string{"input", "reason"}),

		RecordsWritten: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "records_written_total",
			Help: "Decoded records written to the output.",
		}, []string{"format"}),
	}
}
