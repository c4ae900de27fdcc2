package gdl90

import "fmt"

// Options configures a Codec.
type Options struct {
	// CRC selects the trailer finalization expected on receive and produced
	// on transmit.
	CRC CRCMode
	// Strict rejects frames whose CRC does not match instead of returning
	// them flagged as invalid.
	Strict bool
	// Layout selects the byte layout of the fixed-size messages.
	Layout Layout
}

// Decoded is the result of decoding one frame.
type Decoded struct {
	Message Message
	// CRC is the received trailer; CRCValid reports whether it matched.
	CRC      uint16
	CRCValid bool
}

// Codec decodes frames into messages and encodes messages into frames.
// It holds no per-stream state and is safe for concurrent use.
type Codec struct {
	opts     Options
	decoders map[byte]decodeFunc
}

type decodeFunc func(msg []byte) (Message, error)

func NewCodec(opts Options) *Codec {
	c := &Codec{opts: opts}
	switch opts.Layout {
	case LayoutCompact:
		c.decoders = compactDecoders
	default:
		c.decoders = icdDecoders
	}
	return c
}

func (c *Codec) Options() Options { return c.opts }

var icdDecoders = map[byte]decodeFunc{
	IDHeartbeat: func(msg []byte) (Message, error) { return decodeHeartbeatICD(msg) },
	IDOwnshipReport: func(msg []byte) (Message, error) {
		r, err := decodeReportICD(IDOwnshipReport, msg)
		return OwnshipReport{r}, err
	},
	IDTrafficReport: func(msg []byte) (Message, error) {
		r, err := decodeReportICD(IDTrafficReport, msg)
		return TrafficReport{r}, err
	},
	IDGeoAltitude: func(msg []byte) (Message, error) { return decodeGeoAltICD(msg) },
	IDForeFlight:  decodeForeFlight,
}

var compactDecoders = map[byte]decodeFunc{
	IDHeartbeat: func(msg []byte) (Message, error) { return decodeHeartbeatCompact(msg) },
	IDOwnshipReport: func(msg []byte) (Message, error) {
		r, err := decodeOwnshipCompact(msg)
		return OwnshipReport{r}, err
	},
	IDTrafficReport: func(msg []byte) (Message, error) {
		r, err := decodeTrafficCompact(msg)
		return TrafficReport{r}, err
	},
	IDGeoAltitude: func(msg []byte) (Message, error) { return decodeGeoAltCompact(msg) },
	IDForeFlight:  decodeForeFlight,
}

func decodeForeFlight(msg []byte) (Message, error) {
	if len(msg) < 2 || msg[1] != foreFlightSubID {
		return Unknown{ID: IDForeFlight, Payload: append([]byte(nil), msg[1:]...)}, nil
	}
	return decodeIdentification(msg)
}

// Decode validates the CRC of f and decodes its message.
//
// With a CRC mismatch the permissive codec still returns the decoded message
// with CRCValid unset; a strict codec returns a *CRCError carrying it
// instead. Unrecognized message IDs decode to Unknown.
func (c *Codec) Decode(f Frame) (Decoded, error) {
	if len(f) < minFrameLen {
		return Decoded{}, ErrFrameTooShort
	}
	msg := f.Message()
	got := f.CRC()
	want := CRC16(msg, c.opts.CRC)

	m, err := c.DecodeMessage(msg)
	if err != nil {
		m = nil
	}
	if got != want && c.opts.Strict {
		return Decoded{CRC: got}, &CRCError{Got: got, Want: want, Message: m}
	}
	d := Decoded{Message: m, CRC: got, CRCValid: got == want}
	return d, err
}

// DecodeMessage decodes an unframed message (ID + payload, no CRC).
func (c *Codec) DecodeMessage(msg []byte) (Message, error) {
	if len(msg) == 0 {
		return nil, ErrFrameTooShort
	}
	dec, ok := c.decoders[msg[0]]
	if !ok {
		return Unknown{ID: msg[0], Payload: append([]byte(nil), msg[1:]...)}, nil
	}
	return dec(msg)
}

// Encode packs m into an unframed message (ID + payload). The caller adds
// the CRC and flags, or uses Pack.
func (c *Codec) Encode(m Message) ([]byte, error) {
	compact := c.opts.Layout == LayoutCompact
	switch v := m.(type) {
	case Heartbeat:
		if compact {
			return encodeHeartbeatCompact(v), nil
		}
		return encodeHeartbeatICD(v), nil
	case OwnshipReport:
		if compact {
			return encodeOwnshipCompact(v.Report), nil
		}
		return encodeReportICD(IDOwnshipReport, v.Report), nil
	case TrafficReport:
		if compact {
			return encodeTrafficCompact(v.Report), nil
		}
		return encodeReportICD(IDTrafficReport, v.Report), nil
	case GeoAltitude:
		if compact {
			return encodeGeoAltCompact(v), nil
		}
		return encodeGeoAltICD(v), nil
	case Identification:
		return encodeIdentification(v), nil
	case Unknown:
		out := make([]byte, 0, 1+len(v.Payload))
		out = append(out, v.ID)
		return append(out, v.Payload...), nil
	case nil:
		return nil, fmt.Errorf("%w: nil message", ErrUnsupportedMessage)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedMessage, m)
	}
}

// Pack encodes m and wraps it for the wire: CRC, byte-stuffing and flags.
func (c *Codec) Pack(m Message) ([]byte, error) {
	msg, err := c.Encode(m)
	if err != nil {
		return nil, err
	}
	return PackRaw(msg, c.opts.CRC), nil
}
