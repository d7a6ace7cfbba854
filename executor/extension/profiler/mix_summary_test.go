package profiler

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/instmix/instmix/executor"
	"github.com/instmix/instmix/executor/extension"
	"github.com/instmix/instmix/logger"
	"github.com/instmix/instmix/profile/instmix"
	"github.com/instmix/instmix/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func unbiasedRecord(name string, dynops float64) *instmix.Record {
	r := &instmix.Record{Function: name, DynOps: dynops}
	r.Weighted[instmix.UnbiasedBranch] = dynops
	return r
}

func TestMixSummary_DisabledByDefault(t *testing.T) {
	ext := MakeMixSummary(&utils.Config{})
	if _, ok := ext.(extension.NilExtension); !ok {
		t.Errorf("summary is enabled although not set in configuration")
	}
}

func TestMixSummary_ComputesPlainAndWeightedStatistics(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := logger.NewMockLogger(ctrl)

	s := makeMixSummary(utils.NewTestConfig(t, 1, false), log)
	s.add(biasedRecord("a"))              // 30 ops, 1/3 biased
	s.add(unbiasedRecord("b", 90))        // 90 ops, all unbiased
	s.add(&instmix.Record{Function: "c"}) // no dynamic ops

	summaries := s.summaries()
	require.Len(t, summaries, instmix.NumCategories)

	biased := summaries[instmix.BiasedBranch]
	assert.InDelta(t, 1.0/6, biased.Mean, 1e-12)
	assert.InDelta(t, 0.0, biased.Min, 1e-12)
	assert.InDelta(t, 1.0/3, biased.Max, 1e-12)
	assert.InDelta(t, 10.0/120, biased.WeightedMean, 1e-12)

	unbiased := summaries[instmix.UnbiasedBranch]
	assert.InDelta(t, 0.5, unbiased.Mean, 1e-12)
	assert.InDelta(t, 0.5, unbiased.StdDev, 1e-12)
	assert.InDelta(t, 90.0/120, unbiased.WeightedMean, 1e-12)

	assert.Equal(t, 1, s.idle)
	assert.Equal(t, 120.0, s.dynops.GetSum())
}

func TestMixSummary_SingleFunctionHasNoSpread(t *testing.T) {
	s := makeMixSummary(utils.NewTestConfig(t, 1, false), logger.NewLogger("critical", "Test"))
	s.add(biasedRecord("a"))
	for _, summary := range s.summaries() {
		if summary.StdDev != 0 || summary.WeightedStdDev != 0 {
			t.Errorf("unexpected spread for %v: %v / %v", summary.Category, summary.StdDev, summary.WeightedStdDev)
		}
	}
}

func TestMixSummary_TableListsAllCategories(t *testing.T) {
	s := makeMixSummary(utils.NewTestConfig(t, 1, false), logger.NewLogger("critical", "Test"))
	s.add(unbiasedRecord("big", 1234567))

	table := s.table()
	assert.Contains(t, table, "1,234,567")
	for _, c := range instmix.Categories {
		assert.Contains(t, table, c.String())
	}
}

func TestMixSummary_WritesCsvFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := logger.NewMockLogger(ctrl)
	log.EXPECT().Noticef(gomock.Any(), gomock.Any())

	cfg := utils.NewTestConfig(t, 1, false)
	cfg.Summary = true
	cfg.SummaryFile = filepath.Join(t.TempDir(), "summary.csv")

	s := makeMixSummary(cfg, log)
	// drop the console printer to keep the test output clean
	s.printers = utils.NewPrinters().AddPrintToFile(cfg.SummaryFile, s.csv)

	ctx := &executor.Context{Record: biasedRecord("a")}
	require.NoError(t, s.PostFunction(executor.State{}, ctx))
	require.NoError(t, s.PostRun(executor.State{}, &executor.Context{}, nil))

	file, err := os.Open(cfg.SummaryFile)
	require.NoError(t, err)
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, instmix.NumCategories+1)
	assert.Equal(t, "Category", rows[0][0])
	assert.Equal(t, []string{"Biased", "0.333", "0.000", "0.333", "0.333", "0.333", "0.000"}, rows[1+int(instmix.BiasedBranch)])
}

func TestMixSummary_EmptyRunOnlyWarns(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := logger.NewMockLogger(ctrl)
	log.EXPECT().Warning(gomock.Any())

	cfg := utils.NewTestConfig(t, 1, false)
	cfg.SummaryFile = filepath.Join(t.TempDir(), "summary.csv")
	s := makeMixSummary(cfg, log)
	require.NoError(t, s.PostRun(executor.State{}, &executor.Context{}, nil))

	if _, err := os.Stat(cfg.SummaryFile); err == nil {
		t.Errorf("no summary file must be written for an empty run")
	}
}
