package tracker

import (
	"sync"
	"time"

	"github.com/instmix/instmix/executor"
	"github.com/instmix/instmix/executor/extension"
	"github.com/instmix/instmix/logger"
	"github.com/instmix/instmix/utils"
)

const (
	ProgressLoggerDefaultReportFrequency = 15 * time.Second // how often will ticker trigger
	progressLoggerReportFormat           = "Elapsed time: %v; processed %d functions; last interval rate ~%.2f functions/s, ~%.2f MDynOps/s"
	finalSummaryProgressReportFormat     = "Total elapsed time: %v; processed %d functions; total rate ~%.2f functions/s, ~%.2f MDynOps/s"
)

// MakeProgressLogger creates progress logging extension which logs the
// function and dynamic instruction rates in the given interval.
func MakeProgressLogger(cfg *utils.Config, reportFrequency time.Duration) executor.Extension {
	if cfg.NoHeartbeatLogging {
		return extension.NilExtension{}
	}

	if reportFrequency <= 0 {
		reportFrequency = ProgressLoggerDefaultReportFrequency
	}

	return makeProgressLogger(cfg, reportFrequency, logger.NewLogger(cfg.LogLevel, "Progress-Logger"))
}

func makeProgressLogger(cfg *utils.Config, reportFrequency time.Duration, logger logger.Logger) *progressLogger {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &progressLogger{
		cfg:             cfg,
		log:             logger,
		inputCh:         make(chan float64, workers*10),
		wg:              new(sync.WaitGroup),
		reportFrequency: reportFrequency,
	}
}

// progressLogger logs progress every XX seconds depending on reportFrequency.
type progressLogger struct {
	extension.NilExtension
	cfg             *utils.Config
	log             logger.Logger
	inputCh         chan float64 // dynamic ops of processed functions
	wg              *sync.WaitGroup
	reportFrequency time.Duration
}

// PreRun starts the report goroutine
func (l *progressLogger) PreRun(executor.State, *executor.Context) error {
	l.wg.Add(1)

	// pass the value for thread safety
	go l.startReport(l.reportFrequency)
	return nil
}

// PostRun checks whether the run ended with an error and waits for the report goroutine.
func (l *progressLogger) PostRun(executor.State, *executor.Context, error) error {
	close(l.inputCh)
	l.wg.Wait()

	return nil
}

// PostFunction sends the dynamic ops of the function to the report goroutine.
func (l *progressLogger) PostFunction(_ executor.State, ctx *executor.Context) error {
	var dynops float64
	if ctx.Record != nil {
		dynops = ctx.Record.DynOps
	}
	l.inputCh <- dynops
	return nil
}

// startReport runs in its own goroutine. It accumulates the processed
// functions and reports the rates in the given interval.
func (l *progressLogger) startReport(reportFrequency time.Duration) {
	defer l.wg.Done()

	var (
		totalFunctions, currentIntervalFunctions uint64
		totalDynOps, currentIntervalDynOps       float64
	)

	start := time.Now()
	lastReport := time.Now()
	ticker := time.NewTicker(reportFrequency)
	defer ticker.Stop()

	defer func() {
		elapsed := time.Since(start)
		functionRate := float64(totalFunctions) / elapsed.Seconds()
		dynOpsRate := totalDynOps / elapsed.Seconds()

		l.log.Noticef(finalSummaryProgressReportFormat, elapsed.Round(time.Second), totalFunctions, functionRate, dynOpsRate/1e6)
	}()

	for {
		select {
		case in, ok := <-l.inputCh:
			if !ok {
				return
			}

			currentIntervalFunctions++
			totalFunctions++
			currentIntervalDynOps += in
			totalDynOps += in

		case now := <-ticker.C:
			// skip if no data are present
			if currentIntervalFunctions == 0 {
				continue
			}
			elapsed := now.Sub(start)
			functionRate := float64(currentIntervalFunctions) / now.Sub(lastReport).Seconds()
			dynOpsRate := currentIntervalDynOps / now.Sub(lastReport).Seconds()

			l.log.Infof(progressLoggerReportFormat, elapsed.Round(1*time.Second), totalFunctions, functionRate, dynOpsRate/1e6)

			lastReport = now

			currentIntervalFunctions = 0
			currentIntervalDynOps = 0
		}
	}
}
