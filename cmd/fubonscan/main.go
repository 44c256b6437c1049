// fubonscan scrapes the Fubon eBrokerDJ top-mover and broker-branch
// rankings, computes the configured cross-source overlaps and writes the
// result as a JSON file. Scheduling and Discord delivery live in separate
// tooling; a run here is one complete batch.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"FubonScan-Backend/pkg/config"
	"FubonScan-Backend/pkg/fetch"
	"FubonScan-Backend/pkg/model"
	"FubonScan-Backend/pkg/output"
	"FubonScan-Backend/pkg/scrape"
)

func main() {
	var (
		outDir    = flag.String("out", "", "output directory (default from env, then ./out)")
		dateArg   = flag.String("date", "", "ZGB target date YYYY-MM-DD (default: today in Taipei)")
		simple    = flag.Bool("simple", false, "write only date and overlaps")
		rulesPath = flag.String("rules", "", "JSON file with intersection rules (default: built-in set)")

		// One ad-hoc branch target without editing any config.
		zgbBroker = flag.String("zgb-broker", "", "extra ZGB branch code, e.g. 9200")
		zgbTo     = flag.String("zgb-to", "", "extra ZGB branch range end (default: same as -zgb-broker)")
		zgbDays   = flag.Int("zgb-days", 1, "extra ZGB window: 1, 3 or 5 days")
		zgbMode   = flag.String("zgb-mode", "B", "extra ZGB flow mode: B (net-buy) or S (net-sell)")
		zgbLabel  = flag.String("zgb-label", "", "label for the extra ZGB group")
	)
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	settings := config.LoadSettings()
	if *outDir != "" {
		settings.OutDir = *outDir
	}

	date := config.TaipeiToday()
	if *dateArg != "" {
		date, err = config.ParseDate(*dateArg)
		if err != nil {
			logger.Fatal("bad -date", zap.Error(err))
		}
	}

	targets := append(config.DDTargets(), config.ZGBTargets(date)...)
	if *zgbBroker != "" {
		to := *zgbTo
		if to == "" {
			to = *zgbBroker
		}
		label := *zgbLabel
		if label == "" {
			label = fmt.Sprintf("ZGB_%s_%dd_%s", *zgbBroker, *zgbDays, *zgbMode)
		}
		params := config.ZGBParams{From: *zgbBroker, To: to, Mode: *zgbMode, Days: *zgbDays}
		targets = append(targets, config.ZGBTarget(label, params, date))
	}

	rules := config.DefaultRules()
	if *rulesPath != "" {
		rules, err = config.LoadRules(*rulesPath)
		if err != nil {
			logger.Fatal("bad -rules", zap.Error(err))
		}
	}

	runID := uuid.NewString()
	log := logger.With(zap.String("run_id", runID))
	log.Info("run starting",
		zap.String("date", date.Format("2006-01-02")),
		zap.Int("targets", len(targets)),
		zap.Int("rules", len(rules)))

	if err := output.Housekeep(settings.OutDir, settings.CleanBefore, settings.MaxKeep); err != nil {
		log.Warn("housekeeping failed", zap.Error(err))
	}

	fetcher := fetch.NewClient(settings.FetchAttempts, 600*time.Millisecond)
	aggregator := scrape.NewAggregator(fetcher, log)
	groups, overlaps := aggregator.Run(targets, rules)

	payload := output.BuildPayload(runID, date, groups, overlaps, *simple)
	path, err := output.Write(settings.OutDir, payload)
	if err != nil {
		log.Fatal("write output", zap.Error(err))
	}

	log.Info("run complete",
		zap.String("output", path),
		zap.Int("groups", len(groups)),
		zap.Int("overlaps", countNonEmpty(overlaps)))
}

func countNonEmpty(overlaps map[string]*model.OverlapResult) int {
	n := 0
	for _, result := range overlaps {
		if result.Len() > 0 {
			n++
		}
	}
	return n
}
