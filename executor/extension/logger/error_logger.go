package logger

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/instmix/instmix/executor"
	"github.com/instmix/instmix/executor/extension"
	"github.com/instmix/instmix/logger"
	"github.com/instmix/instmix/utils"
)

// MakeErrorLogger creates an extension collecting the errors tolerated in
// continue-on-failure mode. Errors are optionally recorded in the file given
// by --err-logging; the run fails at the end if any error was collected.
func MakeErrorLogger(cfg *utils.Config) executor.Extension {
	return makeErrorLogger(cfg, logger.NewLogger(cfg.LogLevel, "Error-Logger"))
}

func makeErrorLogger(cfg *utils.Config, log logger.Logger) *errorLogger {
	return &errorLogger{
		cfg: cfg,
		log: log,
		wg:  new(sync.WaitGroup),
	}
}

type errorLogger struct {
	extension.NilExtension
	cfg    *utils.Config
	file   *os.File
	log    logger.Logger
	wg     *sync.WaitGroup
	errors []error
}

func (l *errorLogger) PreRun(_ executor.State, ctx *executor.Context) error {
	workers := l.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	ctx.ErrorInput = make(chan error, workers*10)

	l.wg.Add(1)
	go l.doLogging(ctx.ErrorInput)

	if l.cfg.ErrorLogging == "" {
		return nil
	}

	l.log.Noticef("Creating log-file %v in which any processing error will be recorded.", l.cfg.ErrorLogging)

	var err error
	l.file, err = os.Create(l.cfg.ErrorLogging)
	if err != nil {
		return fmt.Errorf("cannot create log file %v; %v", l.cfg.ErrorLogging, err)
	}

	return nil
}

func (l *errorLogger) PostRun(_ executor.State, ctx *executor.Context, _ error) error {
	close(ctx.ErrorInput)
	l.wg.Wait()

	if l.file != nil {
		err := l.file.Close()
		if err != nil {
			l.log.Errorf("cannot close log-file; %v", err)
		}
	}

	if len(l.errors) != 0 {
		for i, e := range l.errors {
			l.log.Errorf("#%v: %v", i+1, e)
		}
		return fmt.Errorf("%d functions failed; %w", len(l.errors), errors.Join(l.errors...))
	}

	return nil
}

func (l *errorLogger) doLogging(input chan error) {
	defer l.wg.Done()

	var numberOfErrors int
	for in := range input {
		numberOfErrors++
		l.log.Errorf("New error: \n\t%v", in)
		l.log.Warningf("Total number of errors %v", numberOfErrors)
		if l.file != nil {
			_, err := l.file.WriteString(in.Error() + "\n")
			if err != nil {
				l.log.Errorf("cannot write into log-file; %v", err)
			}
		}
		l.errors = append(l.errors, in)
	}
}
