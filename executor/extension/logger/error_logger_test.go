package logger

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/instmix/instmix/executor"
	"github.com/instmix/instmix/logger"
	"github.com/instmix/instmix/utils"
	"go.uber.org/mock/gomock"
)

func TestErrorLogger_FileIsNotCreatedIfNotDefined(t *testing.T) {
	cfg := &utils.Config{}
	ext := makeErrorLogger(cfg, logger.NewLogger("critical", "Test"))
	ctx := new(executor.Context)
	ext.PreRun(executor.State{}, ctx)
	defer ext.PostRun(executor.State{}, ctx, nil)

	if ext.file != nil {
		t.Error("file must be nil")
	}
	if ctx.ErrorInput == nil {
		t.Error("error input must be created")
	}
}

func TestErrorLogger_PostRunClosesLoggingThreadAndDoesNotBlockTheExecution(t *testing.T) {
	cfg := &utils.Config{}
	ext := makeErrorLogger(cfg, logger.NewLogger("critical", "Test"))

	ctx := new(executor.Context)

	ext.PreRun(executor.State{}, ctx)

	// make sure PostRun is not blocking.
	done := make(chan bool)
	go func() {
		if err := ext.PostRun(executor.State{}, ctx, nil); err != nil {
			t.Errorf("unexpected error; %v", err)
		}
		close(done)
	}()

	select {
	case <-done:
		return
	case <-time.After(time.Second):
		t.Fatalf("PostRun blocked unexpectedly")
	}
}

func TestErrorLogger_LoggingHappens(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := logger.NewMockLogger(ctrl)

	fileName := t.TempDir() + "/test-log"
	cfg := &utils.Config{}
	cfg.ContinueOnFailure = true
	cfg.ErrorLogging = fileName
	ext := makeErrorLogger(cfg, log)

	e := errors.New("testing error")

	gomock.InOrder(
		log.EXPECT().Noticef(gomock.Any(), gomock.Any()),
		log.EXPECT().Errorf("New error: \n\t%v", e),
		log.EXPECT().Warningf("Total number of errors %v", 1),
		log.EXPECT().Errorf("#%v: %v", 1, e),
	)

	ctx := new(executor.Context)

	if err := ext.PreRun(executor.State{}, ctx); err != nil {
		t.Fatalf("pre-run returned err; %v", err)
	}

	ctx.ErrorInput <- e

	err := ext.PostRun(executor.State{}, ctx, nil)
	if !errors.Is(err, e) {
		t.Errorf("post-run must report the collected error, got %v", err)
	}

	content, err := os.ReadFile(fileName)
	if err != nil {
		t.Fatalf("cannot read log file; %v", err)
	}
	if got, want := strings.TrimSpace(string(content)), e.Error(); got != want {
		t.Errorf("unexpected log file content, wanted %q, got %q", want, got)
	}
}

func TestErrorLogger_InvalidFileIsReported(t *testing.T) {
	cfg := &utils.Config{}
	cfg.ErrorLogging = t.TempDir() + "/missing/test-log"
	ext := makeErrorLogger(cfg, logger.NewLogger("critical", "Test"))

	ctx := new(executor.Context)
	if err := ext.PreRun(executor.State{}, ctx); err == nil {
		t.Errorf("log file in missing directory must fail")
	}
	ext.PostRun(executor.State{}, ctx, nil)
}
