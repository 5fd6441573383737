package loop

import (
	"github.com/grid2go/grid2go/internal"
	"github.com/grid2go/grid2go/internal/configuration"
	"github.com/grid2go/grid2go/internal/ui"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

var plotTicks int

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Simulate a control loop offline and plot its behavior",
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

		loops, err := internal.BuildLoops(configuration.CurrentConfig)
		if err != nil {
			return err
		}

		for _, l := range loops {
			if l.GetId() != loopConf.ID {
				continue
			}

			frequencies := make([]float64, 0, plotTicks)
			duties := make([]float64, 0, plotTicks)
			for i := 0; i < plotTicks; i++ {
				snapshot := l.Step()
				frequencies = append(frequencies, snapshot.Frequency)
				duties = append(duties, snapshot.Duties.A)
			}

			ui.Printfln(asciigraph.Plot(frequencies,
				asciigraph.Height(15), asciigraph.Width(100),
				asciigraph.Caption("PLL frequency / tick")))
			ui.Printfln("")
			ui.Printfln(asciigraph.Plot(duties,
				asciigraph.Height(15), asciigraph.Width(100),
				asciigraph.Caption("Phase A duty cycle / tick")))
		}

		return nil
	},
}

func init() {
	plotCmd.Flags().IntVarP(&plotTicks, "ticks", "t", 2000, "Number of ticks to simulate")
	Command.AddCommand(plotCmd)
}
