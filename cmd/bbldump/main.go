// Package main implements bbldump, a bare bones program that decodes a
// blackbox log file and prints per-log record/event counts.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/flightrec/bbl/container/bbl"
)

// Logging related constants.
const (
	logPath      = "bbldump.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = true
)

// logSummary tracks one log's record/event counts as they stream past.
type logSummary struct {
	index       int
	records     int
	oobByKind   map[bbl.OOBKind]int
	firstTimeUs int64
	lastTimeUs  int64
}

func main() {
	path := flag.String("path", "", "Path to the blackbox log file to decode.")
	verbose := flag.Bool("verbose", false, "Print every record's time and field count, not just per-log totals.")
	flag.Parse()

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	bbl.Log = logging.New(logVerbosity, fileLog, logSuppress)

	if *path == "" {
		bbl.Log.Fatal("no -path given")
	}

	f, err := os.Open(*path)
	if err != nil {
		bbl.Log.Fatal("could not open log file", "error", err)
	}
	defer f.Close()

	if err := dump(f, *verbose); err != nil {
		bbl.Log.Fatal("decode failed", "error", err)
	}
}

// dump drives a Decoder to completion over r, printing a summary for every
// log it yields at least one record for.
func dump(r io.Reader, verbose bool) error {
	d, err := bbl.NewDecoder(r)
	if err != nil {
		return fmt.Errorf("bbldump: new decoder: %w", err)
	}

	summaries := map[int]*logSummary{}
	var order []int

	for {
		rec, err := d.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("bbldump: decode: %w", err)
		}

		s, ok := summaries[rec.LogIndex]
		if !ok {
			s = &logSummary{index: rec.LogIndex, oobByKind: map[bbl.OOBKind]int{}, firstTimeUs: rec.TimeUs}
			summaries[rec.LogIndex] = s
			order = append(order, rec.LogIndex)
		}
		s.records++
		s.lastTimeUs = rec.TimeUs

		if verbose {
			fmt.Printf("log %d: t=%dus fields=%d\n", rec.LogIndex, rec.TimeUs, len(rec.Fields))
		}

		for {
			item, ok := d.NextOOB()
			if !ok {
				break
			}
			if s, ok := summaries[item.LogIndex]; ok {
				s.oobByKind[item.Kind]++
			}
		}
	}

	// Items queued by the final Next call (frames after the last record,
	// and LogEnd) are still waiting.
	for {
		item, ok := d.NextOOB()
		if !ok {
			break
		}
		if s, ok := summaries[item.LogIndex]; ok {
			s.oobByKind[item.Kind]++
		}
	}

	stats := d.Stats()
	for _, idx := range order {
		s := summaries[idx]
		fmt.Printf("log %d: %d records, span=%dus, events=%d, gps fixes=%d, home updates=%d\n",
			s.index, s.records, s.lastTimeUs-s.firstTimeUs,
			s.oobByKind[bbl.EventItem], s.oobByKind[bbl.GpsFix], s.oobByKind[bbl.HomeUpdate])
	}
	fmt.Printf("frames accepted=%d rejected=%d resyncs=%d\n",
		stats.FramesAccepted, stats.FramesRejected, stats.ResyncAttempts)

	return nil
}
