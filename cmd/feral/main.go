package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nidhogg/feral/internal/ai"
	"github.com/nidhogg/feral/internal/api"
	"github.com/nidhogg/feral/internal/config"
	"github.com/nidhogg/feral/internal/events"
	"github.com/nidhogg/feral/internal/memory"
	"github.com/nidhogg/feral/internal/world"
	"go.uber.org/zap"
)

// simDriver bridges clock ticks into the AI system.
type simDriver struct {
	world  *world.World
	system *ai.System
}

func (d *simDriver) OnFrame(delta time.Duration) {
	d.system.Update(d.world.Entities(), delta)
}

func (d *simDriver) OnTurn(turn uint64) {
	d.system.SetGlobalTurn(turn)
	d.system.ProcessMemoryDecay()
}

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	logger.Info("Starting Feral...")

	// Load configuration
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "configs/feral.json"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.String("path", cfgPath), zap.Error(err))
	}
	logger.Info("Config loaded", zap.String("path", cfgPath))

	// Build the world
	grid := world.NewGrid(cfg.World.Width, cfg.World.Height)
	w := world.New(grid, logger)

	// Event bus and AI system
	bus := events.NewBus(256, logger)
	manager := memory.NewManager(cfg.Memory.DecayPolicy(), logger)
	system := ai.NewSystem(manager, w, w, bus, logger)
	ai.RegisterBuiltins(system)

	// Redis broadcaster is optional
	var broadcaster *events.RedisBroadcaster
	if cfg.Redis.URL != "" {
		stream := cfg.Redis.Stream
		if stream == "" {
			stream = events.DefaultStream
		}
		rb, rbErr := events.NewRedisBroadcaster(cfg.Redis.URL, stream, logger)
		if rbErr != nil {
			logger.Warn("Redis unavailable, running without event broadcast", zap.Error(rbErr))
		} else {
			rb.Attach(bus)
			broadcaster = rb
		}
	}

	// Spawn configured NPCs
	for _, sp := range cfg.Spawns {
		e := world.NewEntity(sp.ID)
		e.SetComponent(world.ComponentPosition, &world.PositionComponent{Pos: world.Position{X: sp.X, Y: sp.Y}})
		e.SetComponent(world.ComponentAI, &world.AIComponent{})
		w.Spawn(e)
		if !system.AssignBehavior(e, sp.Behavior) {
			logger.Warn("unknown behavior in spawn config",
				zap.String("entity", sp.ID), zap.String("behavior", sp.Behavior))
			continue
		}
		system.OnEntityAdded(e)
	}
	logger.Info("World populated", zap.Int("spawns", len(cfg.Spawns)))

	// Clock drives the simulation
	clock := world.NewClock(cfg.Clock.FrameInterval(), cfg.Clock.Speed, cfg.Clock.TurnEvery(), logger)
	driver := &simDriver{world: w, system: system}
	clock.AddFrameListener(driver)
	clock.AddTurnListener(driver)
	clock.Start()
	logger.Info("World simulation started")

	// Build HTTP handler
	handler := api.NewHandler(system, w, clock, bus, logger)

	// Start server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: handler.Router(),
	}

	go func() {
		logger.Info("Feral listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down Feral...")
	clock.Stop()
	srv.Shutdown(context.Background())
	if broadcaster != nil {
		broadcaster.Close()
	}
}
