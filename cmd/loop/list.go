package loop

import (
	"bytes"
	"fmt"

	"github.com/grid2go/grid2go/cmd/global"
	"github.com/grid2go/grid2go/internal/configuration"
	"github.com/grid2go/grid2go/internal/ui"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the configured control loops to console",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		configPath := configuration.DetectConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()

		err = configuration.Validate()
		if err != nil {
			ui.Fatal(err.Error())
		}

		rows := [][]string{}
		for _, loopConf := range configuration.CurrentConfig.Loops {
			rows = append(rows, []string{
				loopConf.ID,
				loopConf.Source,
				fmt.Sprintf("%.0f Hz", loopConf.TickRate),
				fmt.Sprintf("%.0f V", loopConf.DCLinkVoltage),
				loopConf.DCompensator,
				loopConf.QCompensator,
				fmt.Sprintf("%.1f Hz", loopConf.Pll.NominalFrequency),
			})
		}

		tab := table.Table{
			Headers: []string{"ID", "Source", "Tick Rate", "DC Link", "D Compensator", "Q Compensator", "PLL Nominal"},
			Rows:    rows,
		}
		var buf bytes.Buffer
		tableErr := tab.WriteTable(&buf, &table.Config{
			ShowIndex:       false,
			Color:           !global.NoColor,
			AlternateColors: true,
			TitleColorCode:  ansi.ColorCode("white+buf"),
			AltColorCodes: []string{
				ansi.ColorCode("white"),
				ansi.ColorCode("white:236"),
			},
		})
		if tableErr != nil {
			panic(tableErr)
		}
		ui.Printfln(buf.String())

		return nil
	},
}

func init() {
	Command.AddCommand(listCmd)
}
