// feedctl replays a file of framed wire messages through the decode,
// recovery and feedstats packages and reports a summary.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"feedbook/decode"
	"feedbook/feedstats"
	"feedbook/gapdetect"
	"feedbook/protocol"
	"feedbook/recovery"
	"feedbook/replay"
)

type options struct {
	in          string
	journalPath string
	snapshotDir string
	statsWindow int
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.in, "in", "", "path to a file of framed wire messages (required)")
	flag.StringVar(&opts.journalPath, "journal", "", "path to a replay journal file (optional)")
	flag.StringVar(&opts.snapshotDir, "snapshot-dir", "", "directory of replay snapshot files (optional)")
	flag.IntVar(&opts.statsWindow, "stats-window", feedstats.DefaultWindow, "latency sample window size")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -in <file> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "feedctl replays a framed message file through the feed handler core.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	return opts
}

func run(opts options, logger *zap.Logger) error {
	if opts.in == "" {
		return fmt.Errorf("feedctl: -in is required")
	}

	data, err := os.ReadFile(opts.in)
	if err != nil {
		return fmt.Errorf("feedctl: reading %s: %w", opts.in, err)
	}

	mgr := recovery.New()

	var rm *replay.Manager
	if opts.journalPath != "" && opts.snapshotDir != "" {
		if err := replay.Recover(mgr, opts.journalPath, opts.snapshotDir); err != nil {
			return fmt.Errorf("feedctl: recovering from disk: %w", err)
		}
		rm, err = replay.NewManagerFromRecovered(mgr, opts.journalPath, opts.snapshotDir)
		if err != nil {
			return fmt.Errorf("feedctl: opening replay manager: %w", err)
		}
		defer rm.Close()
		logger.Info("recovered from disk", zap.Bool("had_snapshot", !mgr.NeedsRecovery()))
	}

	stats := feedstats.NewStore(opts.statsWindow)
	gaps := gapdetect.New()
	dec := decode.Decoder{}

	start := time.Now()
	count := 0
	buf := data
	for len(buf) > 0 {
		decodeStart := time.Now()
		view, consumed, err := dec.Decode(buf)
		if err != nil {
			return fmt.Errorf("feedctl: decoding message %d: %w", count, err)
		}

		gaps.Process(view.Sequence())

		var applyErr error
		if rm != nil {
			applyErr = rm.Apply(view, buf[:consumed])
		} else if view.Type() == protocol.Snapshot {
			applyErr = mgr.ApplySnapshot(view)
		} else {
			applyErr = mgr.ApplyUpdate(view)
		}
		if applyErr != nil {
			logger.Warn("rejected message", zap.Uint32("sequence", view.Sequence()), zap.Error(applyErr))
		}

		stats.RecordLatency("apply", time.Since(decodeStart).Microseconds())
		stats.RecordMessage(consumed)

		count++
		buf = buf[consumed:]
	}
	elapsed := time.Since(start)

	for _, g := range gaps.Gaps() {
		stats.RecordGap(g.End - g.Start + 1)
	}

	if rm != nil {
		rm.TakeSnapshot(nil)
	}

	printSummary(count, elapsed, mgr, stats, gaps)
	return nil
}

func printSummary(count int, elapsed time.Duration, mgr *recovery.Manager, stats *feedstats.Store, gaps *gapdetect.Detector) {
	fmt.Println("================================================================================")
	fmt.Println("                         feedctl replay summary")
	fmt.Println("================================================================================")
	fmt.Printf("Messages decoded:       %d\n", count)
	fmt.Printf("Elapsed:                %s\n", elapsed)
	if elapsed > 0 {
		fmt.Printf("Throughput:             %.2f msg/s\n", float64(count)/elapsed.Seconds())
	}
	fmt.Printf("Gap events:             %d\n", len(gaps.Gaps()))
	fmt.Printf("Missing sequence count: %d\n", gaps.TotalGaps())

	b := mgr.Book()
	fmt.Printf("Bid levels:             %d\n", b.BidLevels())
	fmt.Printf("Ask levels:             %d\n", b.AskLevels())
	fmt.Printf("Live orders:            %d\n", b.OrderCount())

	if bid, ok := b.BestBid(); ok {
		fmt.Printf("Best bid:               %d @ %d\n", bid.Price, bid.Quantity)
	}
	if ask, ok := b.BestAsk(); ok {
		fmt.Printf("Best ask:               %d @ %d\n", ask.Price, ask.Quantity)
	}

	summary := stats.Snapshot("apply")
	fmt.Printf("Apply latency (us):     min=%d mean=%.1f p50=%d p99=%d max=%d\n",
		summary.Min, summary.Mean, summary.P50, summary.P99, summary.Max)
	fmt.Println("================================================================================")
}

func main() {
	opts := parseFlags()
	if opts.in == "" {
		flag.Usage()
		os.Exit(1)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := run(opts, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
