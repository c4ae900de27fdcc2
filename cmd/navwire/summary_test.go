package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"

	"navwire/internal/gdl90"
	"navwire/internal/replay"
)

func TestSummarizeLog(t *testing.T) {
	hb := gdl90.PackRaw([]byte{0x00, 0x81, 0x00, 0x00, 0x00, 0x00, 0x00}, gdl90.CRCInverted)
	own := gdl90.PackRaw([]byte{0x0A, 0xFF, 0x01}, gdl90.CRCInverted)
	badCRC := gdl90.PackRaw([]byte{0x14, 0x01, 0x02}, gdl90.CRCPlain)

	recs := []replay.Record{
		{At: 0},
		{At: 0, Chunk: hb[:3]},
		{At: 200 * time.Millisecond, Chunk: append(append([]byte(nil), hb[3:]...), own...)},
		{At: 300 * time.Millisecond, Chunk: badCRC},
		{At: 0},
		{At: 1 * time.Second, Chunk: hb},
	}

	s := summarizeLog(recs, gdl90.CRCInverted)
	if s.Segments != 2 {
		t.Fatalf("segments=%d want %d", s.Segments, 2)
	}
	if s.Chunks != 4 {
		t.Fatalf("chunks=%d want %d", s.Chunks, 4)
	}
	if s.Frames != 4 {
		t.Fatalf("frames=%d want %d", s.Frames, 4)
	}
	if s.InvalidCRC != 1 {
		t.Fatalf("invalid_crc=%d want %d", s.InvalidCRC, 1)
	}
	if s.MsgIDCounts[0x00] != 2 {
		t.Fatalf("count[0x00]=%d want %d", s.MsgIDCounts[0x00], 2)
	}
	if s.MsgIDCounts[0x0A] != 1 {
		t.Fatalf("count[0x0A]=%d want %d", s.MsgIDCounts[0x0A], 1)
	}
	if s.MaxDuration != 1*time.Second {
		t.Fatalf("maxDuration=%s want %s", s.MaxDuration, 1*time.Second)
	}
}

func TestSummarizeLog_Empty(t *testing.T) {
	s := summarizeLog(nil, gdl90.CRCInverted)
	if s.Segments != 0 || s.Frames != 0 {
		t.Fatalf("unexpected summary for empty log: %+v", s)
	}
}

func TestPrintLogSummary_PrintsExpectedFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "gdl.log")
	w, err := replay.CreateWriter(logPath)
	if err != nil {
		t.Fatalf("CreateWriter() error: %v", err)
	}
	now := time.Now()
	for _, msg := range [][]byte{{0x00, 0x01}, {0x0A, 0x01}} {
		if err := w.WriteChunk(now, gdl90.PackRaw(msg, gdl90.CRCInverted)); err != nil {
			_ = w.Close()
			t.Fatalf("WriteChunk() error: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	recs, err := replay.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	var buf bytes.Buffer
	printLogSummary(&buf, logPath, summarizeLog(recs, gdl90.CRCInverted))
	out := buf.String()

	for _, want := range []string{"path: ", "segments: 1", "frames: 2", "msg_id_counts:", "0x00 heartbeat: 1", "0x0A ownship: 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output: %q", want, out)
		}
	}
}

func TestSummaryCmd_ParsesCRCMode(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "gdl.log")
	w, err := replay.CreateWriter(logPath)
	if err != nil {
		t.Fatalf("CreateWriter() error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	parse := func(args ...string) (CLI, error) {
		var cli CLI
		p, err := kong.New(&cli, kong.Name("navwire"), kong.Exit(func(int) {}))
		if err != nil {
			t.Fatalf("kong.New() error: %v", err)
		}
		_, err = p.Parse(args)
		return cli, err
	}

	cli, err := parse("summary", logPath)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cli.Summary.CRCMode != gdl90.CRCInverted {
		t.Fatalf("default crc mode=%s want inverted", cli.Summary.CRCMode)
	}

	cli, err = parse("summary", "--crc-mode=mcrf4xx", logPath)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cli.Summary.CRCMode != gdl90.CRCPlain {
		t.Fatalf("crc mode=%s want plain", cli.Summary.CRCMode)
	}

	if _, err := parse("summary", "--crc-mode=ccitt", logPath); err == nil {
		t.Fatalf("expected error for unknown crc mode")
	}
}
