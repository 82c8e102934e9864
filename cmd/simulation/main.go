package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-schools-of-fish/pkg/simulation"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
)

func main() {
	flag.Parse()
	ctx := context.Background()

	cfg := simulation.DefaultConfig()
	if *configFlag != "" {
		var err error
		cfg, err = simulation.LoadConfig(*configFlag, *schemaFlag)
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
	}

	var logger golog.Logger = golog.DefaultLogger
	if *debugFlag {
		logger = golog.New(golog.DebugLevel, os.Stdout)
	}

	system, err := actor.NewActorSystem("SchoolsOfFish",
		actor.WithLogger(logger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		log.Fatalf("Error creating actor system: %v", err)
	}
	if err := system.Start(ctx); err != nil {
		log.Fatalf("Error starting actor system: %v", err)
	}
	defer func() {
		if err := system.Stop(ctx); err != nil {
			log.Printf("Error stopping actor system: %v", err)
		}
	}()

	ebiten.SetWindowSize(int(cfg.WorldWidth), int(cfg.WorldHeight))
	ebiten.SetWindowTitle("Schools of fish")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TicksPerSecond)

	game, err := simulation.GetNewGame(ctx, cfg, system)
	if err != nil {
		log.Fatalf("Error creating game: %v", err)
	}
	if err := ebiten.RunGame(game); err != nil {
		log.Printf("Game stopped: %v", err)
	}
}
