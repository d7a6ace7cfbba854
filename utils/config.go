package utils

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"testing"

	"github.com/instmix/instmix/logger"
	"github.com/instmix/instmix/profile/instmix"
	"github.com/urfave/cli/v2"
)

type ArgumentMode int

// An enums of argument modes used by instmix subcommands
const (
	NoArgs              ArgumentMode = iota // requires no arguments
	OneToNArgs                              // requires at least one argument: paths to module files
	PathArg                                 // requires 1 argument: path to file
	PathAndFunctionArgs                     // requires 2 arguments: path to module file and function name
)

// GitCommit represents the GitHub commit hash the app was built from.
var GitCommit = "0000000000000000000000000000000000000000"

// Config represents execution configuration for instmix tools.
type Config struct {
	AppName     string
	CommandName string

	ArgPath      string   // path to file given as argument
	ArgPaths     []string // paths to module files given as arguments
	FunctionName string   // function selected by the second argument

	CPUProfile         string // pprof cpu profile output file name
	ContinueOnFailure  bool   // continue validation when an error detected
	DiagnosticServer   int64  // if not zero, the port used for hosting a HTTP server for performance diagnostics
	EmptyBranch        string // policy for control instructions in blocks without successors
	ErrorLogging       string // if defined, error logging to file is enabled
	GraphCacheSize     int    // number of rendered graphs kept by the visualizer
	GraphFormat        string // output format of rendered control-flow graphs
	LogLevel           string // level of the logging of the app action
	MaxNumErrors       int    // maximum number of errors when ContinueOnFailure is enabled
	MaxNumFunctions    int    // the maximum number of processed functions, -1 for all
	MemoryProfile      string // capture the memory heap profile into the file
	Module             string // restricts reports to a single module
	NoHeartbeatLogging bool   // disables heartbeat logging
	Output             string // file receiving the instruction mix records, stderr if empty
	OutputFile         string // output file of the graph command
	Pass               string // name of the processor applied to every function
	Port               string // port of the visualization web server
	ProfileDB          string // sqlite3 database receiving instruction mix records
	Summary            bool   // print a summary over all profiled functions
	SummaryFile        string // CSV file receiving the summary
	Table              bool   // print records as table instead of report lines
	Validate           bool   // validate instruction mix records
	Workers            int    // number of worker threads
}

type configContext struct {
	cfg *Config       // run configuration
	log logger.Logger // logger for printing logs in config functions
	ctx *cli.Context  // command line context for accessing flags and command line arguments
}

func NewConfigContext(cfg *Config, ctx *cli.Context) *configContext {
	return &configContext{
		log: logger.NewLogger(cfg.LogLevel, "Config"),
		cfg: cfg,
		ctx: ctx,
	}
}

// NewTestConfig returns a configuration suitable for unit tests.
func NewTestConfig(t *testing.T, workers int, validate bool) *Config {
	t.Helper()
	return &Config{
		AppName:         "instmix-test",
		LogLevel:        "critical",
		EmptyBranch:     instmix.FailOnEmptyBranch.String(),
		GraphCacheSize:  GraphCacheSizeFlag.Value,
		GraphFormat:     GraphFormatFlag.Value,
		MaxNumFunctions: -1,
		Pass:            PassFlag.Value,
		Validate:        validate,
		Workers:         workers,
	}
}

// NewConfig creates and initializes Config with commandline arguments.
func NewConfig(ctx *cli.Context, mode ArgumentMode) (*Config, error) {
	cfg, _, err := createConfigFromFlags(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot read flags; %v", err)
	}

	cc := NewConfigContext(cfg, ctx)

	if err = cc.updateConfigArguments(ctx.Args().Slice(), mode); err != nil {
		return cfg, fmt.Errorf("unable to parse cli arguments; %v", err)
	}

	if err = cc.adjustMissingConfigValues(); err != nil {
		return nil, fmt.Errorf("cannot adjust missing config values; %v", err)
	}

	cc.reportNewConfig()

	return cfg, nil
}

// EmptyBranchPolicy returns the parsed zero-successor policy of the config.
func (cfg *Config) EmptyBranchPolicy() (instmix.EmptyBranchPolicy, error) {
	return instmix.ParseEmptyBranchPolicy(cfg.EmptyBranch)
}

// updateConfigArguments parses the command line arguments according to the mode
// in which the selected command runs and stores them into the config
func (cc *configContext) updateConfigArguments(args []string, mode ArgumentMode) error {
	switch mode {
	case NoArgs:
		if len(args) != 0 {
			return fmt.Errorf("command takes no arguments, got %v", args)
		}
	case OneToNArgs:
		if len(args) < 1 {
			return errors.New("this command requires at least 1 argument")
		}
		for _, path := range args {
			if err := checkPath(path); err != nil {
				return err
			}
		}
		cc.cfg.ArgPaths = args
		cc.cfg.ArgPath = args[0]
	case PathArg:
		if len(args) != 1 {
			return fmt.Errorf("exactly one path argument is required to run this command, got %d", len(args))
		}
		if err := checkPath(args[0]); err != nil {
			return err
		}
		cc.cfg.ArgPath = args[0]
		cc.cfg.ArgPaths = args
	case PathAndFunctionArgs:
		if len(args) != 2 {
			return fmt.Errorf("command requires 2 arguments: module file and function name, got %d", len(args))
		}
		if err := checkPath(args[0]); err != nil {
			return err
		}
		cc.cfg.ArgPath = args[0]
		cc.cfg.ArgPaths = args[:1]
		cc.cfg.FunctionName = args[1]
	default:
		return errors.New("unknown mode; unable to process commandline arguments")
	}
	return nil
}

func checkPath(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("given path (%v) argument does not exist", path)
		}
		return fmt.Errorf("cannot read argument path (%v)", err)
	}
	return nil
}

// adjustMissingConfigValues fill the missing values in the config
func (cc *configContext) adjustMissingConfigValues() error {
	cfg := cc.cfg
	log := cc.log

	if _, err := cfg.EmptyBranchPolicy(); err != nil {
		return err
	}

	switch cfg.GraphFormat {
	case "dot", "svg", "png":
	default:
		return fmt.Errorf("unsupported graph format %q; use dot, svg or png", cfg.GraphFormat)
	}

	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
		log.Infof("Number of workers set to %d", cfg.Workers)
	}

	// if ErrorLogging is set we expect we want to catch all processing errors hence we enable ContinueOnFailure
	if cfg.ErrorLogging != "" {
		cfg.ContinueOnFailure = true
		log.Warning("Enable continue-on-failure mode because error logging is used.")
	}

	// --continue-on-failure implicitly enables record validation
	cfg.Validate = cfg.Validate || cfg.ContinueOnFailure

	// a summary file implies a summary
	cfg.Summary = cfg.Summary || cfg.SummaryFile != ""

	if cfg.GraphCacheSize <= 0 {
		cfg.GraphCacheSize = GraphCacheSizeFlag.Value
		log.Warningf("Graph cache size must be positive; using %d", cfg.GraphCacheSize)
	}
	return nil
}

// reportNewConfig logs out the state of config in current run
func (cc *configContext) reportNewConfig() {
	cfg := cc.cfg
	log := cc.log

	log.Noticef("Run config:")
	if len(cfg.ArgPaths) > 0 {
		log.Infof("Module files: %v", cfg.ArgPaths)
	}
	if cfg.FunctionName != "" {
		log.Infof("Function: %v", cfg.FunctionName)
	}
	log.Infof("Pass: %v", cfg.Pass)
	log.Infof("Workers: %v", cfg.Workers)
	log.Infof("Empty branch policy: %v", cfg.EmptyBranch)
	if cfg.MaxNumFunctions >= 0 {
		log.Noticef("Function limit: %d", cfg.MaxNumFunctions)
	}
	if cfg.Output != "" {
		log.Infof("Records are written to %v", cfg.Output)
	}
	if cfg.ProfileDB != "" {
		log.Infof("Profile DB: %v", cfg.ProfileDB)
	}
	if cfg.Summary {
		log.Infof("Summary enabled")
		if cfg.SummaryFile != "" {
			log.Infof("  Summary output file path: %s", cfg.SummaryFile)
		}
	}
	log.Infof("Validate records: %v", cfg.Validate)
	if cfg.ContinueOnFailure {
		log.Warningf("Continue on failure enabled; at most %d errors are tolerated", cfg.MaxNumErrors)
	}
	if cfg.DiagnosticServer != 0 {
		log.Warning("Diagnostic server enabled, reducing throughput")
	}
}
