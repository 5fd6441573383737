package loop

import (
	"errors"
	"fmt"

	"github.com/grid2go/grid2go/internal/configuration"
	"github.com/spf13/cobra"
)

var loopId string

var Command = &cobra.Command{
	Use:              "loop",
	Short:            "Control loop related commands",
	TraverseChildren: true,
}

func init() {
	Command.PersistentFlags().StringVarP(
		&loopId,
		"id", "i",
		"",
		"Loop ID as specified in the config",
	)
}

func getLoopConfig(id string, loops []configuration.LoopConfig) (*configuration.LoopConfig, error) {
	availableLoopIds := []string{}
	for _, loopConf := range loops {
		availableLoopIds = append(availableLoopIds, loopConf.ID)
		if id == loopConf.ID {
			return &loopConf, nil
		}
	}

	return nil, errors.New(fmt.Sprintf("No loop with id found: %s, options: %s", id, availableLoopIds))
}
