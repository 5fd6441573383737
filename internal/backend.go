package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grid2go/grid2go/internal/api"
	"github.com/grid2go/grid2go/internal/compensator"
	"github.com/grid2go/grid2go/internal/configuration"
	"github.com/grid2go/grid2go/internal/loop"
	"github.com/grid2go/grid2go/internal/persistence"
	"github.com/grid2go/grid2go/internal/statistics"
	"github.com/grid2go/grid2go/internal/ui"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RunDaemon() {
	pers := persistence.NewPersistence(configuration.CurrentConfig.DbPath)
	if err := pers.Init(); err != nil {
		ui.Fatal("Unable to initialize trace store: %v", err)
	}

	InitializeObjects()

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		enabled := configuration.CurrentConfig.Statistics.Enabled
		if enabled {
			// === Prometheus Exporter
			g.Add(func() error {
				port := configuration.CurrentConfig.Statistics.Port
				if port <= 0 || port >= 65535 {
					port = 9000
				}
				addr := fmt.Sprintf(":%d", port)
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.Handler())
				server := &http.Server{Addr: addr, Handler: mux}

				go func() {
					<-ctx.Done()
					ui.Info("Stopping statistics server...")
					timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer timeoutCancel()
					_ = server.Shutdown(timeoutCtx)
				}()

				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					ui.Error("Cannot start prometheus metrics endpoint (%s)", err.Error())
					return err
				}
				return nil
			}, func(err error) {
				if err != nil {
					ui.Warning("Error stopping statistics server: " + err.Error())
				} else {
					ui.Info("Statistics server stopped.")
				}
			})
		}
	}
	{
		enabled := configuration.CurrentConfig.Api.Enabled
		if enabled {
			// === REST service
			restService := api.CreateRestService()

			g.Add(func() error {
				host := configuration.CurrentConfig.Api.Host
				port := configuration.CurrentConfig.Api.Port
				if port <= 0 || port >= 65535 {
					port = 9001
				}

				go func() {
					<-ctx.Done()
					ui.Info("Stopping REST service...")
					timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer timeoutCancel()
					_ = restService.Shutdown(timeoutCtx)
				}()

				err := restService.Start(fmt.Sprintf("%s:%d", host, port))
				if err != nil && err != http.ErrServerClosed {
					return err
				}
				return nil
			}, func(err error) {
				if err != nil {
					ui.Warning("Error stopping REST service: " + err.Error())
				} else {
					ui.Info("REST service stopped.")
				}
			})
		}
	}
	{
		// === control loops
		for item := range loop.LoopMap.IterBuffered() {
			l := item.Val

			g.Add(func() error {
				err := l.Run(ctx)
				ui.Info("Control loop %s stopped.", l.GetId())
				return err
			}, func(err error) {
				if err != nil {
					ui.Warning("Something went wrong: %v", err)
				}
			})
		}

		if loop.LoopMap.Count() == 0 {
			ui.Fatal("No valid loop configurations, exiting.")
		}
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			<-sig
			ui.Info("Received SIGTERM signal, exiting...")
			return nil
		}, func(err error) {
			defer close(sig)
			cancel()
		})
	}

	err := g.Run()

	// flush recorded traces so they survive the restart
	for item := range loop.LoopMap.IterBuffered() {
		l := item.Val
		snapshots := l.TraceSnapshots()
		if len(snapshots) == 0 {
			continue
		}
		if saveErr := pers.SaveLoopTrace(l.GetId(), snapshots); saveErr != nil {
			ui.Warning("Unable to save trace of loop %s: %v", l.GetId(), saveErr)
		}
	}

	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else {
		ui.Info("Done.")
		os.Exit(0)
	}
}

func InitializeObjects() {
	loops, err := BuildLoops(configuration.CurrentConfig)
	if err != nil {
		ui.Fatal("%v", err)
	}

	var loopList []*loop.ControlLoop
	for _, l := range loops {
		loop.LoopMap.Set(l.GetId(), l)
		loopList = append(loopList, l)
	}

	statistics.Register(statistics.NewLoopCollector(loopList))
	statistics.Register(statistics.NewPllCollector(loopList))
}

// BuildLoops instantiates every configured control loop with its own
// source and compensator instances.
func BuildLoops(config configuration.Configuration) ([]*loop.ControlLoop, error) {
	var loops []*loop.ControlLoop

	for _, loopConfig := range config.Loops {
		sourceConfig, err := findSourceConfig(loopConfig.Source, config.Sources)
		if err != nil {
			return nil, fmt.Errorf("loop %s: %w", loopConfig.ID, err)
		}
		source, err := loop.NewSource(sourceConfig, loopConfig.TickRate)
		if err != nil {
			return nil, fmt.Errorf("loop %s: %w", loopConfig.ID, err)
		}

		tickPeriod := 1 / loopConfig.TickRate
		dComp, err := compensator.Build(loopConfig.DCompensator, config.Compensators, tickPeriod)
		if err != nil {
			return nil, fmt.Errorf("loop %s: %w", loopConfig.ID, err)
		}
		qComp, err := compensator.Build(loopConfig.QCompensator, config.Compensators, tickPeriod)
		if err != nil {
			return nil, fmt.Errorf("loop %s: %w", loopConfig.ID, err)
		}

		l, err := loop.NewControlLoop(loopConfig, source, dComp, qComp)
		if err != nil {
			return nil, err
		}
		loops = append(loops, l)
	}

	return loops, nil
}

func findSourceConfig(id string, configs []configuration.SourceConfig) (configuration.SourceConfig, error) {
	for _, config := range configs {
		if config.ID == id {
			return config, nil
		}
	}
	return configuration.SourceConfig{}, fmt.Errorf("no source definition with id '%s' found", id)
}
