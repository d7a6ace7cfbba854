package profiler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/instmix/instmix/executor"
	"github.com/instmix/instmix/executor/extension"
	"github.com/instmix/instmix/logger"
	"github.com/instmix/instmix/profile/instmix"
	"github.com/instmix/instmix/utils"
	"github.com/instmix/instmix/utils/analytics"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"
)

// MakeMixSummary creates an extension summarizing the instruction mixes of
// all profiled functions at the end of the run.
func MakeMixSummary(cfg *utils.Config) executor.Extension {
	if !cfg.Summary {
		return extension.NilExtension{}
	}
	return makeMixSummary(cfg, logger.NewLogger(cfg.LogLevel, "Mix-Summary"))
}

func makeMixSummary(cfg *utils.Config, log logger.Logger) *mixSummary {
	s := &mixSummary{
		cfg:    cfg,
		log:    log,
		ratios: analytics.NewIncrementalAnalytics(instmix.NumCategories),
	}
	s.printers = utils.NewPrinters().
		AddPrintToConsole(false, s.table).
		AddPrintToFile(cfg.SummaryFile, s.csv)
	return s
}

type mixSummary struct {
	extension.NilExtension
	cfg      *utils.Config
	log      logger.Logger
	printers *utils.Printers

	mu      sync.Mutex
	ratios  *analytics.IncrementalAnalytics // unweighted ratio statistics per category
	dynops  analytics.IncrementalStats
	values  [instmix.NumCategories][]float64 // ratios of functions with dynamic ops
	weights []float64                        // dynamic ops of those functions
	idle    int                              // functions without dynamic ops
}

// CategorySummary holds the statistics of the ratio of one category over all
// functions with dynamic instructions.
type CategorySummary struct {
	Category       instmix.Category
	Mean           float64
	StdDev         float64
	Min            float64
	Max            float64
	WeightedMean   float64 // ratio weighted by dynamic ops, i.e. the mix of the whole run
	WeightedStdDev float64
}

func (s *mixSummary) PostFunction(_ executor.State, ctx *executor.Context) error {
	if ctx.Record == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(ctx.Record)
	return nil
}

func (s *mixSummary) add(r *instmix.Record) {
	if r.DynOps == 0 {
		s.idle++
		return
	}
	s.dynops.Update(r.DynOps)
	s.weights = append(s.weights, r.DynOps)
	for _, c := range instmix.Categories {
		ratio := r.Ratio(c)
		s.ratios.Update(int(c), ratio)
		s.values[c] = append(s.values[c], ratio)
	}
}

func (s *mixSummary) PostRun(executor.State, *executor.Context, error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dynops.GetCount() == 0 && s.idle == 0 {
		s.log.Warning("No records to summarize")
		return nil
	}
	if s.cfg.SummaryFile != "" {
		s.log.Noticef("Writing summary to %v", s.cfg.SummaryFile)
	}
	return s.printers.Print()
}

// summaries computes the per category statistics.
func (s *mixSummary) summaries() []CategorySummary {
	res := make([]CategorySummary, 0, instmix.NumCategories)
	for _, c := range instmix.Categories {
		id := int(c)
		summary := CategorySummary{Category: c}
		if s.ratios.GetCount(id) > 0 {
			summary.Mean = s.ratios.GetMean(id)
			summary.StdDev = s.ratios.GetStandardDeviation(id)
			summary.Min = s.ratios.GetMin(id)
			summary.Max = s.ratios.GetMax(id)
			summary.WeightedMean, summary.WeightedStdDev = stat.MeanStdDev(s.values[c], s.weights)
			if len(s.weights) < 2 || math.IsNaN(summary.WeightedStdDev) {
				summary.WeightedStdDev = 0
			}
		}
		res = append(res, summary)
	}
	return res
}

var summaryHeader = []string{"Category", "Mean", "StdDev", "Min", "Max", "Weighted Mean", "Weighted StdDev"}

func (c CategorySummary) row() []string {
	return []string{
		c.Category.String(),
		fmt.Sprintf("%.3f", c.Mean),
		fmt.Sprintf("%.3f", c.StdDev),
		fmt.Sprintf("%.3f", c.Min),
		fmt.Sprintf("%.3f", c.Max),
		fmt.Sprintf("%.3f", c.WeightedMean),
		fmt.Sprintf("%.3f", c.WeightedStdDev),
	}
}

// table renders the summary for the console.
func (s *mixSummary) table() string {
	var sb strings.Builder
	m := message.NewPrinter(language.English)
	m.Fprintf(&sb, "Functions: %d (%d without dynamic instructions)\n", int(s.dynops.GetCount())+s.idle, s.idle)
	m.Fprintf(&sb, "Dynamic instructions: %d\n", uint64(math.Round(s.dynops.GetSum())))

	tbl := tablewriter.NewWriter(&sb)
	tbl.SetHeader(summaryHeader)
	for _, summary := range s.summaries() {
		tbl.Append(summary.row())
	}
	tbl.Render()
	return strings.TrimRight(sb.String(), "\n")
}

// csv renders the summary as comma separated values.
func (s *mixSummary) csv() string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(summaryHeader)
	for _, summary := range s.summaries() {
		_ = w.Write(summary.row())
	}
	w.Flush()
	return buf.String()
}
