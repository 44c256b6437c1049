// Package config carries the Fubon eBrokerDJ source catalog, the overlap
// rule set and the handful of environment-driven settings. Everything is
// returned as plain values handed into the aggregator; nothing here is
// consulted from inside the pipeline.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"FubonScan-Backend/pkg/scrape"
)

const (
	ddBase  = "https://fubon-ebrokerdj.fbs.com.tw/z/zg/zg_dd_%d_%d.djhtm"
	zgbBase = "https://fubon-ebrokerdj.fbs.com.tw/z/zg/zgb/zgb0.djhtm"

	// Side markers of the dual-list broker-branch pages.
	SideNetBuy  = "買超"
	SideNetSell = "賣超"
)

var periodNames = map[int]string{1: "單日", 3: "3日", 5: "5日"}

// DDTargets returns the daily-ranking pages: TWSE (上市) and OTC (上櫃),
// each over 1, 3 and 5 days. These pages carry a single list, no
// segmentation needed.
func DDTargets() []scrape.Target {
	markets := []struct {
		kind int
		name string
	}{
		{0, "上市"},
		{1, "上櫃"},
	}

	var targets []scrape.Target
	for _, days := range []int{1, 3, 5} {
		for _, market := range markets {
			targets = append(targets, scrape.Target{
				Label: periodNames[days] + "_" + market.name,
				URL:   fmt.Sprintf(ddBase, market.kind, days),
			})
		}
	}
	return targets
}

// ZGBParams describe one broker-branch net-flow query: the branch code
// range, the flow mode (B buy / S sell) and the window in days. Days 0
// means a self-set date range, carried in the URL as e=f=<date>.
type ZGBParams struct {
	From string // a: first branch code
	To   string // b: last branch code
	Mode string // c: "B" or "S"
	Days int    // d: 1/3/5, or 0 for a dated range
}

// Side maps the flow mode to the page-side marker to segment on.
func (p ZGBParams) Side() string {
	if strings.EqualFold(p.Mode, "S") {
		return SideNetSell
	}
	return SideNetBuy
}

// Opposite returns the other side's marker.
func (p ZGBParams) Opposite() string {
	if p.Side() == SideNetBuy {
		return SideNetSell
	}
	return SideNetBuy
}

// BuildZGBURL renders the query URL for one branch page. The site wants
// unpadded month/day in dated ranges.
func BuildZGBURL(p ZGBParams, date time.Time) string {
	var sb strings.Builder
	sb.WriteString(zgbBase)
	fmt.Fprintf(&sb, "?a=%s&b=%s&c=%s", p.From, p.To, p.Mode)
	if p.Days > 0 {
		fmt.Fprintf(&sb, "&d=%d", p.Days)
	} else {
		d := fmt.Sprintf("%d-%d-%d", date.Year(), date.Month(), date.Day())
		fmt.Fprintf(&sb, "&e=%s&f=%s", d, d)
	}
	return sb.String()
}

// ZGBTarget builds one dual-sided scrape target from branch params.
func ZGBTarget(label string, p ZGBParams, date time.Time) scrape.Target {
	return scrape.Target{
		Label:     label,
		URL:       BuildZGBURL(p, date),
		DualSided: true,
		Side:      p.Side(),
		Opposite:  p.Opposite(),
	}
}

// ZGBTargets returns the stock branch watchlist: net-buy flows of branches
// 1470 and 1650 over 1, 3 and 5 days.
func ZGBTargets(date time.Time) []scrape.Target {
	var targets []scrape.Target
	for _, branch := range []string{"1470", "1650"} {
		for _, days := range []int{1, 3, 5} {
			label := fmt.Sprintf("ZGB_%s_%s", branch, periodNames[days])
			targets = append(targets, ZGBTarget(label, ZGBParams{From: branch, To: branch, Mode: "B", Days: days}, date))
		}
	}
	return targets
}

// TaipeiToday returns today's date in the exchange's timezone.
func TaipeiToday() time.Time {
	loc, err := time.LoadLocation("Asia/Taipei")
	if err != nil {
		return time.Now()
	}
	return time.Now().In(loc)
}

// ParseDate accepts YYYY-MM-DD with / and . tolerated as separators and
// single-digit month/day allowed.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("/", "-", ".", "-").Replace(s)
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("cannot parse date %q", s)
	}
	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return time.Time{}, fmt.Errorf("cannot parse date %q", s)
		}
		nums[i] = n
	}
	return time.Date(nums[0], time.Month(nums[1]), nums[2], 0, 0, 0, 0, time.UTC), nil
}

// Settings are the environment-driven knobs: output directory housekeeping
// and the per-group Discord webhooks consumed by the (separate) notifier.
type Settings struct {
	OutDir        string
	CleanBefore   bool // delete prior output files before each run
	MaxKeep       int  // otherwise keep only the newest N outputs
	FetchAttempts int
	Webhooks      map[string]string // group label -> webhook URL
}

// LoadSettings reads .env (if present) and the process environment.
func LoadSettings() Settings {
	_ = godotenv.Load() // absent .env is fine

	s := Settings{
		OutDir:        "out",
		CleanBefore:   true,
		MaxKeep:       30,
		FetchAttempts: 5,
		Webhooks:      map[string]string{},
	}
	if v := os.Getenv("FUBONSCAN_OUT_DIR"); v != "" {
		s.OutDir = v
	}
	if v := os.Getenv("FUBONSCAN_OUT_CLEAN"); v != "" {
		s.CleanBefore = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("FUBONSCAN_OUT_MAX_KEEP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.MaxKeep = n
		}
	}
	if v := os.Getenv("FUBONSCAN_FETCH_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.FetchAttempts = n
		}
	}
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" {
			continue
		}
		if label, found := strings.CutPrefix(key, "DISCORD_WEBHOOK_"); found {
			s.Webhooks[label] = value
		}
	}
	return s
}
