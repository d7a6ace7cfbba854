package utils

import (
	"github.com/urfave/cli/v2"
)

// Command line options for common flags in instmix commands.
var (
	ContinueOnFailureFlag = cli.BoolFlag{
		Name:  "continue-on-failure",
		Usage: "continue execute after validation failure detected",
	}
	CpuProfileFlag = cli.StringFlag{
		Name:  "cpu-profile",
		Usage: "enables CPU profiling",
	}
	DiagnosticServerFlag = cli.Int64Flag{
		Name:  "diagnostic-port",
		Usage: "enable hosting of a realtime diagnostic server by providing a port",
		Value: 0,
	}
	EmptyBranchFlag = cli.StringFlag{
		Name:  "empty-branch",
		Usage: "classification of control instructions in blocks without successors (\"fail\" or \"biased\")",
		Value: "fail",
	}
	ErrorLoggingFlag = cli.PathFlag{
		Name:  "err-logging",
		Usage: "defines path to error-log-file where any processing errors are recorded",
	}
	GraphCacheSizeFlag = cli.IntFlag{
		Name:  "graph-cache",
		Usage: "number of rendered control-flow graphs kept in memory by the visualizer",
		Value: 64,
	}
	GraphFormatFlag = cli.StringFlag{
		Name:  "graph-format",
		Usage: "format of rendered control-flow graphs (\"dot\", \"svg\" or \"png\")",
		Value: "dot",
	}
	MaxNumErrorsFlag = cli.IntFlag{
		Name:  "max-errors",
		Usage: "maximum number of errors when continue-on-failure is enabled, 0 is endless",
		Value: 50,
	}
	MaxNumFunctionsFlag = cli.IntFlag{
		Name:  "max-functions",
		Usage: "limit the maximum number of processed functions, default: unlimited",
		Value: -1,
	}
	MemoryProfileFlag = cli.StringFlag{
		Name:  "memory-profile",
		Usage: "enables memory allocation profiling",
	}
	ModuleFlag = cli.StringFlag{
		Name:  "module",
		Usage: "restrict the report to the records of a single module",
	}
	NoHeartbeatLoggingFlag = cli.BoolFlag{
		Name:  "no-heartbeat-logging",
		Usage: "disables heartbeat logging",
	}
	OutputFlag = cli.PathFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "file receiving the instruction mix records; records are written to stderr if not set",
	}
	OutputFileFlag = cli.PathFlag{
		Name:  "output-file",
		Usage: "file receiving the rendered control-flow graph; stdout if not set",
	}
	PassFlag = cli.StringFlag{
		Name:  "pass",
		Usage: "name of the pass applied to every function",
		Value: "instmix",
	}
	PortFlag = cli.StringFlag{
		Name:        "port",
		Aliases:     []string{"v"},
		Usage:       "enable visualization on `PORT`",
		DefaultText: "8080",
		Value:       "8080",
	}
	ProfileDBFlag = cli.PathFlag{
		Name:  "profile-db",
		Usage: "sqlite3 database receiving the instruction mix records",
	}
	SummaryFlag = cli.BoolFlag{
		Name:  "summary",
		Usage: "print a summary over all profiled functions",
	}
	SummaryFileFlag = cli.PathFlag{
		Name:  "summary-file",
		Usage: "CSV file receiving the summary; implies --summary",
	}
	TableFlag = cli.BoolFlag{
		Name:  "table",
		Usage: "print records as table",
	}
	ValidateFlag = cli.BoolFlag{
		Name:  "validate",
		Usage: "validate that the ratios of every record add up to one",
	}
	WorkersFlag = cli.IntFlag{
		Name:    "workers",
		Aliases: []string{"w"},
		Usage:   "determines number of workers",
		Value:   1,
	}
)
