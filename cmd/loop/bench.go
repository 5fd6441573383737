package loop

import (
	"os"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/grid2go/grid2go/internal"
	"github.com/grid2go/grid2go/internal/configuration"
	"github.com/grid2go/grid2go/internal/ui"
	"github.com/spf13/cobra"
)

var benchTicks int

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure the per-tick latency distribution of a control loop",
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

			// tick latencies in nanoseconds
			hg := hdrhistogram.New(1, int64(time.Second), 3)

			for i := 0; i < benchTicks; i++ {
				start := time.Now()
				l.Step()
				if recordErr := hg.RecordValue(time.Since(start).Nanoseconds()); recordErr != nil {
					ui.Warning("Failed to record histogram value: %v", recordErr)
				}
			}

			ui.Printfln("Tick latency over %d ticks (ns):", benchTicks)
			hg.PercentilesPrint(os.Stdout, 1, 1.0)

			budget := time.Duration(float64(time.Second) / loopConf.TickRate)
			ui.Printfln("")
			ui.Printfln("Tick budget at %.0f Hz: %s", loopConf.TickRate, budget)
			ui.Printfln("p99: %s", time.Duration(hg.ValueAtQuantile(99)))
		}

		return nil
	},
}

func init() {
	benchCmd.Flags().IntVarP(&benchTicks, "ticks", "t", 100000, "Number of ticks to execute")
	Command.AddCommand(benchCmd)
}
