package mix

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/instmix/instmix/ir"
	log "github.com/instmix/instmix/logger"
	"github.com/instmix/instmix/profile/instmix"
	"github.com/instmix/instmix/utils"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// InspectCommand prints the contribution of every block of one function.
var InspectCommand = cli.Command{
	Action:    InspectFunction,
	Name:      "inspect",
	Usage:     "prints the per-block instruction counts of a function",
	ArgsUsage: "<module-file> <function>",
	Flags: []cli.Flag{
		&utils.EmptyBranchFlag,
		&log.LogLevelFlag,
	},
}

// InspectFunction prints a table of the blocks of the selected function.
func InspectFunction(ctx *cli.Context) error {
	cfg, err := utils.NewConfig(ctx, utils.PathAndFunctionArgs)
	if err != nil {
		return err
	}
	fn, profile, err := loadFunction(cfg.ArgPath, cfg.FunctionName)
	if err != nil {
		return err
	}
	policy, err := cfg.EmptyBranchPolicy()
	if err != nil {
		return err
	}
	return inspect(ctx.App.Writer, fn, profile, policy)
}

// loadFunction reads a module file and selects one of its functions.
func loadFunction(path string, name string) (*ir.Function, *ir.StaticProfile, error) {
	module, err := ir.ReadModule(path)
	if err != nil {
		return nil, nil, err
	}
	fn := module.Function(name)
	if fn == nil {
		return nil, nil, fmt.Errorf("function %v not found in module %v", name, module.Name)
	}
	return fn, module.Profile(), nil
}

func inspect(w io.Writer, fn *ir.Function, profile *ir.StaticProfile, policy instmix.EmptyBranchPolicy) error {
	profiler := instmix.NewProfiler(instmix.WithEmptyBranchPolicy(policy))
	reports, err := profiler.Inspect(fn, profile, profile)
	if err != nil {
		return err
	}
	record, err := profiler.Profile(fn, profile, profile)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold).SprintfFunc()
	colored := color.New(color.FgBlue, color.Bold).SprintfFunc()
	m := message.NewPrinter(language.English)

	output(w, "Function:\t%s\n", colored(fn.Name))
	output(w, "Blocks:\t\t%s\n", bold(m.Sprintf("%d", len(fn.Blocks))))
	output(w, "Instructions:\t%s\n", bold(m.Sprintf("%d", fn.NumInstructions())))
	output(w, "DynOps:\t\t%s\n", bold(m.Sprintf("%.0f", record.DynOps)))

	tbl := tablewriter.NewWriter(w)
	header := []string{"Block", "Frequency", "Ops"}
	for _, c := range instmix.Categories {
		header = append(header, c.String())
	}
	header = append(header, "Max Prob", "Weighted")
	tbl.SetHeader(header)
	tbl.SetBorder(true)

	for i := range reports {
		report := &reports[i]
		freq := "unknown"
		if report.KnownFrequency {
			freq = m.Sprintf("%d", report.Frequency)
		}
		row := []string{report.Block.Label, freq, fmt.Sprintf("%d", report.Counts.DynOps)}
		for _, c := range instmix.Categories {
			row = append(row, fmt.Sprintf("%d", report.Counts.Counts[c]))
		}
		maxProb := "-"
		if len(report.Block.Successors) > 0 {
			maxProb = fmt.Sprintf("%.3f", report.MaxProbability)
		}
		row = append(row, maxProb, m.Sprintf("%.0f", report.Weighted()))
		tbl.Append(row)
	}
	tbl.Render()
	return nil
}

// output the given message with formatting.
func output(w io.Writer, format string, a ...any) {
	if _, err := fmt.Fprintf(w, format, a...); err != nil {
		log.NewLogger("error", "Output").Errorf("output error; %v", err)
	}
}
