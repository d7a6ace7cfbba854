package profiler

import (
	"net/http"
	"testing"
	"time"

	"github.com/instmix/instmix/executor"
	"github.com/instmix/instmix/executor/extension"
	"github.com/instmix/instmix/logger"
	"github.com/instmix/instmix/utils"
	"go.uber.org/mock/gomock"
)

func TestDiagnosticServer_CollectsProfileDataIfEnabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := logger.NewMockLogger(ctrl)

	cfg := &utils.Config{}
	cfg.DiagnosticServer = 6061
	ext := makeDiagnosticServer(cfg, log)

	// Expect a server info message and a warning on the performance impact.
	log.EXPECT().Infof(gomock.Any(), gomock.Any())
	log.EXPECT().Warning(gomock.Any())

	if err := ext.PreRun(executor.State{}, nil); err != nil {
		t.Fatalf("failed to to run pre-run: %v", err)
	}

	time.Sleep(1 * time.Second)

	// Test that the server is online.
	resp, err := http.Get("http://localhost:6061/debug/pprof/")
	if err != nil {
		t.Fatalf("Unable to connect to server: %v", err)
	}
	resp.Body.Close()
}

func TestDiagnosticServer_NoServerIsHostedWhenDisabled(t *testing.T) {
	cfg := &utils.Config{}
	ext := MakeDiagnosticServer(cfg)

	if _, ok := ext.(extension.NilExtension); !ok {
		t.Errorf("profiler is enabled although not set in configuration")
	}
}
