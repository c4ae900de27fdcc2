package main

import (
	"fmt"
	"io"
	"os"

	"navwire/internal/gdl90"
	"navwire/internal/replay"
)

type detectCmd struct {
	Path   string `arg:"" type:"existingfile" help:"Raw capture, or a chunk log with --replay."`
	Replay bool   `help:"Treat the file as a recorded chunk log."`
}

type crcTally struct {
	Mode  gdl90.CRCMode
	Valid int
}

type detectResult struct {
	Frames  int
	Dropped int
	Tallies []crcTally
}

// Best returns the mode that validated the most frames; ok is false when no
// mode validated any.
func (r detectResult) Best() (gdl90.CRCMode, bool) {
	best := crcTally{Valid: -1}
	for _, t := range r.Tallies {
		if t.Valid > best.Valid {
			best = t
		}
	}
	return best.Mode, best.Valid > 0
}

// detectCRCMode extracts every frame in chunks and checks its trailer under
// each CRC finalization.
func detectCRCMode(chunks [][]byte) detectResult {
	modes := []gdl90.CRCMode{gdl90.CRCInverted, gdl90.CRCPlain}
	res := detectResult{Tallies: make([]crcTally, len(modes))}
	for i, m := range modes {
		res.Tallies[i].Mode = m
	}

	ext := gdl90.NewExtractor(gdl90.DefaultMaxBuffer)
	for _, c := range chunks {
		ext.Feed(c)
		frames, err := ext.Drain()
		if err != nil {
			res.Dropped++
		}
		for _, f := range frames {
			res.Frames++
			for i := range res.Tallies {
				if f.CheckCRC(res.Tallies[i].Mode) {
					res.Tallies[i].Valid++
				}
			}
		}
	}
	return res
}

func readChunks(path string, isReplay bool) ([][]byte, error) {
	if isReplay {
		recs, err := replay.ReadFile(path)
		if err != nil {
			return nil, err
		}
		chunks := make([][]byte, 0, len(recs))
		for _, r := range recs {
			if r.Chunk != nil {
				chunks = append(chunks, r.Chunk)
			}
		}
		return chunks, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return [][]byte{b}, nil
}

func (d *detectCmd) Run(g *globals) error {
	chunks, err := readChunks(d.Path, d.Replay)
	if err != nil {
		return err
	}
	printDetect(os.Stdout, d.Path, detectCRCMode(chunks))
	return nil
}

func printDetect(w io.Writer, path string, res detectResult) {
	fmt.Fprintf(w, "path: %s\n", path)
	fmt.Fprintf(w, "candidate_frames: %d\n", res.Frames)
	if res.Dropped > 0 {
		fmt.Fprintf(w, "drain_errors: %d\n", res.Dropped)
	}
	for _, t := range res.Tallies {
		fmt.Fprintf(w, "valid_%s: %d\n", t.Mode, t.Valid)
	}
	if mode, ok := res.Best(); ok {
		fmt.Fprintf(w, "crc_mode: %s\n", mode)
	} else {
		fmt.Fprintf(w, "crc_mode: none (not GDL90?)\n")
	}
}
