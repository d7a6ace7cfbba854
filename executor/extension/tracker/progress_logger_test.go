package tracker

import (
	"testing"
	"time"

	"github.com/instmix/instmix/executor"
	"github.com/instmix/instmix/executor/extension"
	"github.com/instmix/instmix/logger"
	"github.com/instmix/instmix/profile/instmix"
	"github.com/instmix/instmix/utils"
	"go.uber.org/mock/gomock"
)

const testProgressReportFrequency = time.Second

func TestProgressLoggerExtension_CorrectClose(t *testing.T) {
	cfg := &utils.Config{}
	ext := MakeProgressLogger(cfg, testProgressReportFrequency)

	// start the report thread
	ext.PreRun(executor.State{}, nil)

	// make sure PostRun is not blocking.
	done := make(chan bool)
	go func() {
		ext.PostRun(executor.State{}, nil, nil)
		close(done)
	}()

	select {
	case <-done:
		return
	case <-time.After(time.Second):
		t.Fatalf("PostRun blocked unexpectedly")
	}
}

func TestProgressLoggerExtension_NoLoggerIsCreatedIfDisabled(t *testing.T) {
	cfg := &utils.Config{}
	cfg.NoHeartbeatLogging = true
	ext := MakeProgressLogger(cfg, testProgressReportFrequency)
	if _, ok := ext.(extension.NilExtension); !ok {
		t.Errorf("Logger is enabled although not set in configuration")
	}
}

func TestProgressLoggerExtension_LoggingHappens(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := logger.NewMockLogger(ctrl)

	cfg := &utils.Config{}

	ext := makeProgressLogger(cfg, testProgressReportFrequency, log)

	ext.PreRun(executor.State{}, nil)

	gomock.InOrder(
		// scheduled logging
		log.EXPECT().Infof(progressLoggerReportFormat,
			gomock.Any(), uint64(1),
			executor.MatchRate(gomock.All(executor.Gt(0.9), executor.Lt(1.1)), "functionRate"),
			executor.MatchRate(gomock.All(executor.Gt(90), executor.Lt(101)), "dynOpsRate"),
		),
		// defer logging
		log.EXPECT().Noticef(finalSummaryProgressReportFormat,
			gomock.Any(), uint64(1),
			executor.MatchRate(gomock.All(executor.Gt(0.6), executor.Lt(0.7)), "functionRate"),
			executor.MatchRate(gomock.All(executor.Gt(60), executor.Lt(70)), "dynOpsRate"),
		),
	)

	// fill the logger with some data
	ext.PostFunction(executor.State{}, &executor.Context{
		Record: &instmix.Record{Function: "f", DynOps: 100_000_000},
	})

	// we must wait for the ticker to tick
	time.Sleep((3 * testProgressReportFrequency) / 2)

	ext.PostRun(executor.State{}, nil, nil)
}

func TestProgressLoggerExtension_LoggingHappensEvenWhenProgramEndsBeforeTickerTicks(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := logger.NewMockLogger(ctrl)

	cfg := &utils.Config{}

	// we set large tick rate that does not trigger the ticker
	ext := makeProgressLogger(cfg, 10*time.Second, log)

	ext.PreRun(executor.State{}, nil)

	log.EXPECT().Noticef(finalSummaryProgressReportFormat,
		gomock.Any(), uint64(1),
		executor.MatchRate(gomock.All(executor.Gt(0.6), executor.Lt(0.7)), "functionRate"),
		executor.MatchRate(gomock.All(executor.Gt(60), executor.Lt(70)), "dynOpsRate"),
	)

	// fill the logger with some data
	ext.PostFunction(executor.State{}, &executor.Context{
		Record: &instmix.Record{Function: "f", DynOps: 100_000_000},
	})

	// wait for data to get into logger
	time.Sleep((3 * testProgressReportFrequency) / 2)

	ext.PostRun(executor.State{}, nil, nil)
}

func TestProgressLoggerExtension_FunctionsWithoutRecordAreCounted(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := logger.NewMockLogger(ctrl)

	ext := makeProgressLogger(&utils.Config{}, 10*time.Second, log)
	ext.PreRun(executor.State{}, nil)

	log.EXPECT().Noticef(finalSummaryProgressReportFormat, gomock.Any(), uint64(2), gomock.Any(), 0.0)

	ext.PostFunction(executor.State{}, &executor.Context{})
	ext.PostFunction(executor.State{}, &executor.Context{})
	ext.PostRun(executor.State{}, nil, nil)
}
