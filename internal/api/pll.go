package api

import (
	"net/http"

	"github.com/grid2go/grid2go/internal/loop"
	"github.com/labstack/echo/v4"
)

type PllStatus struct {
	Theta        float64 `json:"theta"`
	Frequency    float64 `json:"frequency"`
	FrequencyAvg float64 `json:"frequencyAvg"`
}

func registerPllEndpoints(rest *echo.Echo) {
	group := rest.Group("/pll")

	group.GET("/:"+urlParamId+"/", getPll)
}

// returns the PLL state of the loop with the given id
func getPll(c echo.Context) error {
	id := c.Param(urlParamId)
	l, exists := loop.LoopMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}

	snapshot := l.Snapshot()
	data := PllStatus{
		Theta:        snapshot.Theta,
		Frequency:    snapshot.Frequency,
		FrequencyAvg: l.FrequencyMovingAvg(),
	}
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}
