package utils

import (
	"fmt"
	"reflect"

	"github.com/instmix/instmix/logger"
	"github.com/urfave/cli/v2"
)

// createConfigFromFlags returns Config instance with user specified values or the default ones.
// The second result lists the names of the flags given on the command line.
func createConfigFromFlags(ctx *cli.Context) (*Config, map[string]bool, error) {
	cfg := &Config{
		AppName: "instmix",
	}
	if ctx.App != nil {
		cfg.AppName = ctx.App.HelpName
	}
	if ctx.Command != nil {
		cfg.CommandName = ctx.Command.Name
	}

	// string of this map has to exactly match the name of the field in Config struct
	cfgFlags := map[string]interface{}{
		"CPUProfile":         CpuProfileFlag,
		"ContinueOnFailure":  ContinueOnFailureFlag,
		"DiagnosticServer":   DiagnosticServerFlag,
		"EmptyBranch":        EmptyBranchFlag,
		"ErrorLogging":       ErrorLoggingFlag,
		"GraphCacheSize":     GraphCacheSizeFlag,
		"GraphFormat":        GraphFormatFlag,
		"LogLevel":           logger.LogLevelFlag,
		"MaxNumErrors":       MaxNumErrorsFlag,
		"MaxNumFunctions":    MaxNumFunctionsFlag,
		"MemoryProfile":      MemoryProfileFlag,
		"Module":             ModuleFlag,
		"NoHeartbeatLogging": NoHeartbeatLoggingFlag,
		"Output":             OutputFlag,
		"OutputFile":         OutputFileFlag,
		"Pass":               PassFlag,
		"Port":               PortFlag,
		"ProfileDB":          ProfileDBFlag,
		"Summary":            SummaryFlag,
		"SummaryFile":        SummaryFileFlag,
		"Table":              TableFlag,
		"Validate":           ValidateFlag,
		"Workers":            WorkersFlag,
	}

	cfgValue := reflect.ValueOf(cfg).Elem()

	specifiedFlags := make(map[string]bool)

	for cfgName, flag := range cfgFlags {
		value, isSpecified, flagName := getFlagValue(ctx, flag)
		if isSpecified {
			specifiedFlags[flagName] = true
		}

		field := cfgValue.FieldByName(cfgName)
		if !field.IsValid() {
			return nil, nil, fmt.Errorf("field %s is not valid", cfgName)
		}
		if !field.CanSet() {
			return nil, nil, fmt.Errorf("field %s cannot be set", cfgName)
		}

		field.Set(reflect.ValueOf(value))
	}

	return cfg, specifiedFlags, nil
}

// getFlagValue returns value specified by user if flag is set in cli context, otherwise return default flag value
func getFlagValue(ctx *cli.Context, flag interface{}) (interface{}, bool, string) {
	switch f := flag.(type) {
	case cli.IntFlag:
		if ctx.IsSet(f.Name) {
			return ctx.Int(f.Name), true, f.Name
		}
		return f.Value, false, f.Name
	case cli.Int64Flag:
		if ctx.IsSet(f.Name) {
			return ctx.Int64(f.Name), true, f.Name
		}
		return f.Value, false, f.Name
	case cli.StringFlag:
		if ctx.IsSet(f.Name) {
			return ctx.String(f.Name), true, f.Name
		}
		return f.Value, false, f.Name
	case cli.PathFlag:
		if ctx.IsSet(f.Name) {
			return ctx.Path(f.Name), true, f.Name
		}
		return f.Value, false, f.Name
	case cli.BoolFlag:
		if ctx.IsSet(f.Name) {
			return ctx.Bool(f.Name), true, f.Name
		}
		return f.Value, false, f.Name
	}
	return nil, false, ""
}
