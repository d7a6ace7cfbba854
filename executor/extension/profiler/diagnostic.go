package profiler

import (
	"fmt"
	"log"
	"math"
	"net/http"
	_ "net/http/pprof"
	"runtime"

	"github.com/instmix/instmix/executor"
	"github.com/instmix/instmix/executor/extension"
	"github.com/instmix/instmix/logger"
	"github.com/instmix/instmix/utils"
)

// MakeDiagnosticServer creates an extension hosting the pprof HTTP handlers
// on the configured port for the duration of the run.
func MakeDiagnosticServer(cfg *utils.Config) executor.Extension {
	return makeDiagnosticServer(cfg, logger.NewLogger(cfg.LogLevel, "Diagnostic-Server"))
}

func makeDiagnosticServer(cfg *utils.Config, log logger.Logger) executor.Extension {
	if cfg.DiagnosticServer < 1 || cfg.DiagnosticServer > math.MaxUint16 {
		return extension.NilExtension{}
	}
	return &diagnosticServer{
		port: cfg.DiagnosticServer,
		log:  log,
	}
}

type diagnosticServer struct {
	extension.NilExtension
	port int64
	log  logger.Logger
}

func (e *diagnosticServer) PreRun(executor.State, *executor.Context) error {
	e.log.Infof("Starting diagnostic server at port http://localhost:%d (see https://pkg.go.dev/net/http/pprof#hdr-Usage_examples for usage examples)", e.port)
	e.log.Warning("Block and mutex sampling rate is set to 100%% for diagnostics, which may impact overall performance")
	go func() {
		addr := fmt.Sprintf("localhost:%d", e.port)
		log.Println(http.ListenAndServe(addr, nil))
	}()
	runtime.SetBlockProfileRate(1)
	runtime.SetMutexProfileFraction(1)
	return nil
}
