package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"navwire/internal/gdl90"
	"navwire/internal/replay"
)

type summaryCmd struct {
	Path    string        `arg:"" type:"existingfile" help:"Chunk log written by record."`
	CRCMode gdl90.CRCMode `default:"inverted" help:"CRC finalization: inverted (x25) or plain (mcrf4xx)."`
}

type logSummary struct {
	Segments    int
	Chunks      int
	Bytes       int
	Frames      int
	InvalidCRC  int
	MaxDuration time.Duration
	MsgIDCounts map[byte]int
}

func summarizeLog(records []replay.Record, mode gdl90.CRCMode) logSummary {
	s := logSummary{MsgIDCounts: map[byte]int{}}
	if len(records) == 0 {
		return s
	}

	ext := gdl90.NewExtractor(gdl90.DefaultMaxBuffer)
	origin := time.Duration(0)
	hasChunks := false
	for _, r := range records {
		if r.Chunk == nil {
			s.Segments++
			origin = r.At
			// A new segment never continues the previous one's frame.
			ext.Reset()
			continue
		}
		hasChunks = true
		s.Chunks++
		s.Bytes += len(r.Chunk)
		if at := r.At - origin; at > s.MaxDuration {
			s.MaxDuration = at
		}

		ext.Feed(r.Chunk)
		frames, _ := ext.Drain()
		for _, f := range frames {
			s.Frames++
			if !f.CheckCRC(mode) {
				s.InvalidCRC++
				continue
			}
			s.MsgIDCounts[f.Type()]++
		}
	}
	if s.Segments == 0 && hasChunks {
		s.Segments = 1
	}
	return s
}

func (c *summaryCmd) Run(g *globals) error {
	recs, err := replay.ReadFile(c.Path)
	if err != nil {
		return err
	}
	printLogSummary(os.Stdout, c.Path, summarizeLog(recs, c.CRCMode))
	return nil
}

func printLogSummary(w io.Writer, path string, s logSummary) {
	fmt.Fprintf(w, "path: %s\n", path)
	fmt.Fprintf(w, "segments: %d\n", s.Segments)
	fmt.Fprintf(w, "chunks: %d\n", s.Chunks)
	fmt.Fprintf(w, "bytes: %d\n", s.Bytes)
	fmt.Fprintf(w, "frames: %d\n", s.Frames)
	fmt.Fprintf(w, "invalid_crc: %d\n", s.InvalidCRC)
	fmt.Fprintf(w, "max_duration: %s\n", formatDuration(s.MaxDuration))

	keys := make([]int, 0, len(s.MsgIDCounts))
	for k := range s.MsgIDCounts {
		keys = append(keys, int(k))
	}
	sort.Ints(keys)
	fmt.Fprintf(w, "msg_id_counts:\n")
	for _, k := range keys {
		b := byte(k)
		fmt.Fprintf(w, "  0x%02X %s: %d\n", b, gdl90.Name(b), s.MsgIDCounts[b])
	}
}
