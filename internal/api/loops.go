package api

import (
	"net/http"

	"github.com/grid2go/grid2go/internal/loop"
	"github.com/labstack/echo/v4"
	"github.com/qdm12/reprint"
)

func registerLoopEndpoints(rest *echo.Echo) {
	group := rest.Group("/loop")

	group.GET("/", getLoops)
	group.GET("/:"+urlParamId+"/", getLoop)
	group.GET("/:"+urlParamId+"/trace/", getLoopTrace)
}

// returns the configuration of all currently registered loops
func getLoops(c echo.Context) error {
	configs := map[string]interface{}{}
	for item := range loop.LoopMap.IterBuffered() {
		configs[item.Key] = reprint.This(item.Val.Config)
	}
	return c.JSONPretty(http.StatusOK, configs, indentationChar)
}

func getLoop(c echo.Context) error {
	id := c.Param(urlParamId)
	l, exists := loop.LoopMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	data := reprint.This(l.Snapshot())
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func getLoopTrace(c echo.Context) error {
	id := c.Param(urlParamId)
	l, exists := loop.LoopMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	data := reprint.This(l.TraceSnapshots())
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}
