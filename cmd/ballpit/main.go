// cmd/ballpit/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EngoEngine/engo"
	"golang.org/x/term"

	"github.com/opd-ai/go-ballpit/pkg/config"
	"github.com/opd-ai/go-ballpit/pkg/control"
	"github.com/opd-ai/go-ballpit/pkg/engine"
	"github.com/opd-ai/go-ballpit/pkg/health"
	"github.com/opd-ai/go-ballpit/pkg/logging"
	"github.com/opd-ai/go-ballpit/pkg/render"
	engorender "github.com/opd-ai/go-ballpit/pkg/render/engo"
)

const (
	windowTitle = "ballpit"
	// staleAfter is how long the simulation may go without a frame before
	// the readiness probe fails.
	staleAfter = 2 * time.Second
	// memoryLimitMB is the heap size above which the readiness probe fails.
	memoryLimitMB = 500
)

// options holds the command line flags.
type options struct {
	configPath    string
	createDefault bool
	renderer      string
	frames        uint64
	balls         int
	seed          uint64

	set map[string]bool
}

func parseFlags(args []string, output io.Writer) (*options, error) {
	opts := &options{set: make(map[string]bool)}

	fs := flag.NewFlagSet("ballpit", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.configPath, "config", "config.json", "Path to configuration file")
	fs.BoolVar(&opts.createDefault, "default", false, "Create default configuration file and exit")
	fs.StringVar(&opts.renderer, "renderer", "", "Renderer: null, terminal or engo (overrides config)")
	fs.Uint64Var(&opts.frames, "frames", 0, "Stop after this many frames; 0 runs until interrupted (null and terminal only)")
	fs.IntVar(&opts.balls, "balls", 0, "Number of balls (overrides config)")
	fs.Uint64Var(&opts.seed, "seed", 0, "Random seed for the initial velocities (overrides config)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

// loadConfig reads the configuration file, falling back to the defaults
// when it does not exist, then applies environment and flag overrides.
func loadConfig(ctx context.Context, opts *options, logger *logging.Logger) (*config.SimulationConfig, error) {
	var cfg *config.SimulationConfig

	if _, err := os.Stat(opts.configPath); errors.Is(err, os.ErrNotExist) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", opts.configPath,
		)
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
	}

	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		return nil, err
	}

	if opts.set["renderer"] {
		cfg.Display.Renderer = opts.renderer
	}
	if opts.set["balls"] {
		cfg.Bodies.Count = opts.balls
	}
	if opts.set["seed"] {
		cfg.Bodies.Seed = opts.seed
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is the whole program; it returns the process exit code. Logs go to
// stderr so that stdout stays free for the terminal renderer.
func run(args []string, stdin *os.File, stdout *os.File, stderr io.Writer) int {
	logger := logging.NewLoggerWithWriter(stderr)
	ctx := logging.WithCorrelationID(context.Background(), logging.GenerateCorrelationID())

	opts, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}

	if opts.createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), opts.configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", opts.configPath,
			)
			return 1
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", opts.configPath,
		)
		return 0
	}

	cfg, err := loadConfig(ctx, opts, logger)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err,
			"config_path", opts.configPath,
		)
		return 1
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	world, err := engine.NewWorld(cfg, engine.WithLogger(logger), engine.WithContext(ctx))
	if err != nil {
		logger.Error(ctx, "Failed to create world", err)
		return 1
	}
	logger.Info(ctx, "World created",
		"bodies", world.NumBodies(),
		"renderer", cfg.Display.Renderer,
		"seed", cfg.Bodies.Seed,
	)

	switch cfg.Display.Renderer {
	case config.RendererEngo:
		err = runEngo(ctx, cfg, world, logger)
	case config.RendererTerminal:
		err = runTerminal(ctx, cfg, opts, world, logger, stdin, stdout)
	default:
		runner := engine.NewRunner(world, render.NewNullRenderer(logger), cfg.Display, logger)
		runner.SetMaxFrames(opts.frames)
		err = serveAndRun(ctx, cfg, runner.Health, logger, runner.Run)
	}

	if err != nil {
		logger.Error(ctx, "Simulation stopped with an error", err)
		return 1
	}
	return 0
}

func runTerminal(ctx context.Context, cfg *config.SimulationConfig, opts *options, world *engine.World,
	logger *logging.Logger, stdin, stdout *os.File) error {
	width, height := render.TerminalSize(stdout)
	renderer := render.NewTerminalRenderer(stdout, width, height)

	runner := engine.NewRunner(world, renderer, cfg.Display, logger)
	runner.SetMaxFrames(opts.frames)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if fd := int(stdin.Fd()); term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("failed to enable raw mode: %w", err)
		}
		defer func() {
			_ = term.Restore(fd, oldState)
		}()
		renderer.SetRawMode(true)

		slider := control.NewTimeSlider(cfg.Display.TimeScaleMin, cfg.Display.TimeScaleMax, runner.TimeScale())
		go render.NewKeyControl(runner, slider, cancel).Listen(ctx, stdin)
	}

	return serveAndRun(ctx, cfg, runner.Health, logger, runner.Run)
}

func runEngo(ctx context.Context, cfg *config.SimulationConfig, world *engine.World, logger *logging.Logger) error {
	scene := engorender.NewBallScene(world, cfg.Display, cfg.Bodies.MaxSpeed, logger)

	return serveAndRun(ctx, cfg, scene.Runner().Health, logger, func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			engo.Exit()
		}()
		return engorender.Run(scene, windowTitle)
	})
}

// serveAndRun runs the simulation with the health probes served on the
// configured address, if any.
func serveAndRun(ctx context.Context, cfg *config.SimulationConfig, snapshot func() engine.Snapshot,
	logger *logging.Logger, simulate func(context.Context) error) error {
	if cfg.Health.Address == "" {
		return simulate(ctx)
	}

	checker := health.NewChecker()
	checker.AddCheck(health.NewSimulationCheck(snapshot, staleAfter))
	checker.AddCheck(health.NewHeapCheck(memoryLimitMB, nil))
	server := checker.NewServer(cfg.Health.Address)

	go func() {
		logger.Info(ctx, "Starting health check server", "address", cfg.Health.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "Health check server failed", err)
		}
	}()

	simErr := simulate(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Health check server shutdown failed", err)
	}
	return simErr
}
