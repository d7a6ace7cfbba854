package mix

import (
	"time"

	"github.com/instmix/instmix/executor"
	"github.com/instmix/instmix/executor/extension/logger"
	"github.com/instmix/instmix/executor/extension/profiler"
	"github.com/instmix/instmix/executor/extension/tracker"
	"github.com/instmix/instmix/executor/extension/validator"
	log "github.com/instmix/instmix/logger"
	"github.com/instmix/instmix/utils"
	"github.com/urfave/cli/v2"
)

// RunCommand profiles all functions of the given module files.
var RunCommand = cli.Command{
	Action:    RunMix,
	Name:      "run",
	Usage:     "computes the instruction mix of every function of the given modules",
	ArgsUsage: "<module-file>...",
	Flags: []cli.Flag{
		// Analysis
		&utils.PassFlag,
		&utils.EmptyBranchFlag,
		&utils.MaxNumFunctionsFlag,
		&utils.WorkersFlag,

		// Output
		&utils.OutputFlag,
		&utils.ProfileDBFlag,
		&utils.SummaryFlag,
		&utils.SummaryFileFlag,

		// Profiling
		&utils.CpuProfileFlag,
		&utils.MemoryProfileFlag,
		&utils.DiagnosticServerFlag,

		// Utils
		&utils.ContinueOnFailureFlag,
		&utils.MaxNumErrorsFlag,
		&utils.ErrorLoggingFlag,
		&utils.ValidateFlag,
		&utils.NoHeartbeatLoggingFlag,
		&log.LogLevelFlag,
	},
	Description: `
The run command requires at least one argument: <module-file>...

Every function of the given module files is analysed by the selected pass
and one record per function is printed:

  <function>, <dynops>, <i_alu>, <fp_alu>, <mem>, <biased>, <unbiased>, <other>`,
}

// RunMix performs the instruction mix analysis of the given modules.
func RunMix(ctx *cli.Context) error {
	cfg, err := utils.NewConfig(ctx, utils.OneToNArgs)
	if err != nil {
		return err
	}

	processor, err := executor.MakeProcessor(cfg.Pass, cfg)
	if err != nil {
		return err
	}

	provider := executor.OpenModuleProvider(cfg.ArgPaths)
	defer provider.Close()

	return run(cfg, provider, processor, nil)
}

func run(
	cfg *utils.Config,
	provider executor.FunctionProvider,
	processor executor.Processor,
	extra []executor.Extension,
) error {
	// order of extensionList has to be maintained
	var extensionList = []executor.Extension{
		profiler.MakeCpuProfiler(cfg),
		profiler.MakeDiagnosticServer(cfg),
		logger.MakeErrorLogger(cfg),
		tracker.MakeProgressLogger(cfg, 15*time.Second),
		profiler.MakeMemoryProfiler(cfg),
		profiler.MakeMixSummary(cfg),
		profiler.MakeMixRecorder(cfg),
		profiler.MakeMixPrinter(cfg),
	}

	extensionList = append(extensionList, extra...)

	// The validator has to be last so that PostFunction checks records
	// before any of the extensions above publish them.
	extensionList = append(extensionList, validator.MakeRecordValidator(cfg))

	maxNumFunctions := cfg.MaxNumFunctions
	if maxNumFunctions < 0 {
		maxNumFunctions = 0
	}

	return executor.NewExecutor(provider).Run(
		executor.Params{
			NumWorkers:      cfg.Workers,
			MaxNumFunctions: maxNumFunctions,
		},
		processor,
		extensionList,
	)
}
