package mix

import (
	"fmt"
	"io"

	log "github.com/instmix/instmix/logger"
	"github.com/instmix/instmix/profile/instmix"
	"github.com/instmix/instmix/utils"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
)

// ReportCommand prints the records stored in a profile database.
var ReportCommand = cli.Command{
	Action:    ReportMix,
	Name:      "report",
	Usage:     "prints the instruction mix records stored in a profile database",
	ArgsUsage: "<profile-db>",
	Flags: []cli.Flag{
		&utils.ModuleFlag,
		&utils.TableFlag,
		&log.LogLevelFlag,
	},
}

// ReportMix prints the stored records either as report lines or as table.
func ReportMix(ctx *cli.Context) error {
	cfg, err := utils.NewConfig(ctx, utils.PathArg)
	if err != nil {
		return err
	}
	records, err := instmix.ReadRecords(cfg.ArgPath, cfg.Module)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		log.NewLogger(cfg.LogLevel, "Report").Warningf("No records found in %v", cfg.ArgPath)
		return nil
	}
	if cfg.Table {
		printTable(ctx.App.Writer, records)
	} else {
		printLines(ctx.App.Writer, records)
	}
	return nil
}

// printLines prints one report line per record, prefixed with a comment
// line whenever the module changes.
func printLines(w io.Writer, records []instmix.ModuleRecord) {
	module := ""
	for i := range records {
		if i == 0 || records[i].Module != module {
			module = records[i].Module
			output(w, "# %s\n", module)
		}
		output(w, "%s\n", records[i].Record.String())
	}
}

func printTable(w io.Writer, records []instmix.ModuleRecord) {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader(append([]string{"Module"}, instmix.Header()...))
	tbl.SetBorder(true)
	for i := range records {
		r := &records[i].Record
		row := []string{records[i].Module, r.Function, fmt.Sprintf("%.0f", r.DynOps)}
		for _, ratio := range r.Ratios() {
			row = append(row, fmt.Sprintf("%.3f", ratio))
		}
		tbl.Append(row)
	}
	tbl.Render()
}
