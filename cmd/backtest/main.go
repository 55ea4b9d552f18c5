package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/pkg/sys"

	"main/internal/core"
	"main/internal/ingest"
	"main/internal/match"
	"main/internal/obs"
	"main/internal/ops"
	"main/internal/replay"
	"main/internal/store"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: backtest '<json config>'")
		os.Exit(-1)
	}

	loaded, err := ops.Parse(os.Args[1])
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if loaded.Profiling != nil && loaded.Profiling.ServerAddress != "" {
		appName := loaded.Profiling.AppName
		if appName == "" {
			appName = "backtest"
		}
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: appName,
			ServerAddress:   loaded.Profiling.ServerAddress,
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseObjects,
				pyroscope.ProfileInuseSpace,
			},
		})
		if err != nil {
			log.Fatalf("pyroscope start failed: %v", err)
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	dsn := loaded.ResultDSN
	if dsn == "" {
		dsn = filepath.Join(loaded.SavePath, "results.db")
	}
	results, err := store.Open(dsn)
	if err != nil {
		log.Fatalf("result store open failed: %v", err)
	}
	defer results.Close()

	metrics := obs.NewMetrics()
	runner, err := core.NewRunner(newDemoStrategy(loaded.Registry), results, metrics)
	if err != nil {
		log.Fatalf("runner init failed: %v", err)
	}

	loader := ingest.NewFileLoader(loaded.SavePath, loaded.Registry.Symbols())
	replayer, err := replay.New(replay.Config{
		Mode:     loaded.Mode,
		BeginMs:  loaded.BeginMs,
		EndMs:    loaded.EndMs,
		Calendar: loaded.Calendar,
		Loader:   loader,
		Registry: loaded.Registry,
		Fees:     loaded.Fees,
		Metrics:  metrics,
	}, runner)
	if err != nil {
		log.Fatalf("replayer init failed: %v", err)
	}
	engine, err := match.NewEngine(loaded.CancelRate, obs.NewSequence(0), runner, metrics)
	if err != nil {
		log.Fatalf("engine init failed: %v", err)
	}
	runner.Bind(replayer, engine)

	go func() {
		<-sys.Shutdown()
		runner.Stop()
	}()

	if err := runner.Run(context.Background(), loaded.Mode, loaded.BeginMs, loaded.EndMs); err != nil {
		log.Fatalf("replay failed: %v", err)
	}

	snap := metrics.Snapshot()
	log.Printf("done: %d ticks (%d simulated), %d bar closes, %d task fires, %d trades",
		snap.Ticks, snap.SimTicks, snap.BarCloses, snap.TaskFires, snap.Trades)
}
