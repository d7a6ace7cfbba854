package mix

import (
	"fmt"
	"os"

	"github.com/instmix/instmix/ir"
	log "github.com/instmix/instmix/logger"
	"github.com/instmix/instmix/utils"
	"github.com/instmix/instmix/visualizer"
	"github.com/urfave/cli/v2"
)

// VisualizeCommand serves the instruction mix of modules on a web page.
var VisualizeCommand = cli.Command{
	Action:    VisualizeMix,
	Name:      "visualize",
	Usage:     "starts a web server visualizing the instruction mix of the given modules",
	ArgsUsage: "<module-file>...",
	Flags: []cli.Flag{
		&utils.PortFlag,
		&utils.EmptyBranchFlag,
		&utils.GraphCacheSizeFlag,
		&log.LogLevelFlag,
	},
}

// GraphCommand renders the control-flow graph of a single function.
var GraphCommand = cli.Command{
	Action:    RenderGraph,
	Name:      "graph",
	Usage:     "renders the annotated control-flow graph of a function",
	ArgsUsage: "<module-file> <function>",
	Flags: []cli.Flag{
		&utils.OutputFileFlag,
		&utils.GraphFormatFlag,
		&log.LogLevelFlag,
	},
}

// VisualizeMix profiles the given modules and serves the charts until the
// server fails.
func VisualizeMix(ctx *cli.Context) error {
	cfg, err := utils.NewConfig(ctx, utils.OneToNArgs)
	if err != nil {
		return err
	}
	model, err := loadModel(cfg)
	if err != nil {
		return err
	}
	logger := log.NewLogger(cfg.LogLevel, "Visualize")
	for _, failure := range model.Failed() {
		logger.Warningf("Cannot profile %v", failure)
	}
	return visualizer.FireUpWeb(model, cfg.Port, cfg.GraphCacheSize, cfg.LogLevel)
}

func loadModel(cfg *utils.Config) (*visualizer.MixModel, error) {
	policy, err := cfg.EmptyBranchPolicy()
	if err != nil {
		return nil, err
	}
	modules := make([]*ir.Module, 0, len(cfg.ArgPaths))
	for _, path := range cfg.ArgPaths {
		module, err := ir.ReadModule(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read module %v; %w", path, err)
		}
		modules = append(modules, module)
	}
	return visualizer.NewMixModel(modules, policy), nil
}

// RenderGraph writes the graph of the selected function to --output-file or stdout.
func RenderGraph(ctx *cli.Context) error {
	cfg, err := utils.NewConfig(ctx, utils.PathAndFunctionArgs)
	if err != nil {
		return err
	}
	fn, profile, err := loadFunction(cfg.ArgPath, cfg.FunctionName)
	if err != nil {
		return err
	}
	if cfg.OutputFile == "" {
		return visualizer.RenderGraph(fn, profile, cfg.GraphFormat, ctx.App.Writer)
	}

	file, err := os.Create(cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("cannot create graph file %v; %v", cfg.OutputFile, err)
	}
	if err := visualizer.RenderGraph(fn, profile, cfg.GraphFormat, file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
