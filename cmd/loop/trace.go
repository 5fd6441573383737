package loop

import (
	"github.com/grid2go/grid2go/internal/configuration"
	"github.com/grid2go/grid2go/internal/persistence"
	"github.com/grid2go/grid2go/internal/ui"
	"github.com/spf13/cobra"
)

var traceOutput string
var traceDelete bool

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Export the last recorded trace of a control loop as CSV",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		configPath := configuration.DetectConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()

		err = configuration.Validate()
		if err != nil {
			ui.Fatal(err.Error())
		}

		loopConf, err := getLoopConfig(loopId, configuration.CurrentConfig.Loops)
		if err != nil {
			return err
		}

		pers := persistence.NewPersistence(configuration.CurrentConfig.DbPath)

		if traceDelete {
			err = pers.DeleteLoopTrace(loopConf.ID)
			if err != nil {
				return err
			}
			ui.Success("Trace of loop %s deleted", loopConf.ID)
			return nil
		}

		err = pers.ExportLoopTraceCsv(loopConf.ID, traceOutput)
		if err != nil {
			return err
		}

		ui.Success("Trace of loop %s written to %s", loopConf.ID, traceOutput)
		return nil
	},
}

func init() {
	traceCmd.Flags().StringVarP(&traceOutput, "output", "o", "trace.csv", "Output file path")
	traceCmd.Flags().BoolVarP(&traceDelete, "delete", "d", false, "Delete the saved trace instead of exporting it")
	Command.AddCommand(traceCmd)
}
