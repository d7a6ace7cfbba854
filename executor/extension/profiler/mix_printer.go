package profiler

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/instmix/instmix/executor"
	"github.com/instmix/instmix/executor/extension"
	"github.com/instmix/instmix/logger"
	"github.com/instmix/instmix/utils"
)

// MakeMixPrinter creates an extension writing one report line per profiled
// function. Lines go to the file configured by --output or to stderr.
func MakeMixPrinter(cfg *utils.Config) executor.Extension {
	return makeMixPrinter(cfg, os.Stderr, logger.NewLogger(cfg.LogLevel, "Mix-Printer"))
}

func makeMixPrinter(cfg *utils.Config, w io.Writer, log logger.Logger) *mixPrinter {
	return &mixPrinter{
		cfg:     cfg,
		log:     log,
		console: w,
	}
}

type mixPrinter struct {
	extension.NilExtension
	cfg     *utils.Config
	log     logger.Logger
	console io.Writer
	file    *os.File
	out     *bufio.Writer
	mu      sync.Mutex
	printed int
}

func (p *mixPrinter) PreRun(executor.State, *executor.Context) error {
	if p.cfg.Output == "" {
		p.out = bufio.NewWriter(p.console)
		return nil
	}
	file, err := os.Create(p.cfg.Output)
	if err != nil {
		return fmt.Errorf("cannot create output file %v; %v", p.cfg.Output, err)
	}
	p.log.Noticef("Writing instruction mix records to %v", p.cfg.Output)
	p.file = file
	p.out = bufio.NewWriter(file)
	return nil
}

func (p *mixPrinter) PostFunction(state executor.State, ctx *executor.Context) error {
	// no record if the failure of this function was tolerated
	if ctx.Record == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := fmt.Fprintln(p.out, ctx.Record); err != nil {
		return fmt.Errorf("cannot print record of %v; %v", state.Data.Name, err)
	}
	p.printed++
	return nil
}

func (p *mixPrinter) PostModule(executor.State, *executor.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out.Flush()
}

func (p *mixPrinter) PostRun(executor.State, *executor.Context, error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.out == nil {
		return nil
	}
	err := p.out.Flush()
	if p.file != nil {
		if cerr := p.file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	p.log.Debugf("Printed %d records", p.printed)
	return err
}
