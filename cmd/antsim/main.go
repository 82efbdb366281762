// Command antsim runs one ant-colony destruction simulation from the
// command line and prints the surviving map.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dmdv/ants-simulation/internal/config"
	"github.com/Dmdv/ants-simulation/internal/mapfile"
	"github.com/Dmdv/ants-simulation/internal/report"
	"github.com/Dmdv/ants-simulation/internal/sim"
)

// Exit codes, one per failure kind so wrappers can tell them apart.
const (
	exitConfigError = 1
	exitMapError    = 2
	exitParamError  = 3
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))

func main() {
	ants := flag.Int("ants", 0, "number of ants to spawn (required, positive)")
	mapPath := flag.String("map", "", "path to the colony map file (required)")
	seed := flag.Uint64("seed", 0, "random seed; 0 picks one and reports it")
	cfgPath := flag.String("config", "", "optional YAML config with simulation defaults")
	maxTicks := flag.Int("max-ticks", 0, "tick safety bound (0 = config default)")
	maxMoves := flag.Int("max-moves", 0, "per-ant move budget (0 = config default)")
	workers := flag.Int("workers", 0, "move-phase parallelism (0 = GOMAXPROCS)")
	distinct := flag.Bool("distinct-start", false, "give every ant its own starting colony")
	plain := flag.Bool("plain", false, "disable colored output")
	quiet := flag.Bool("quiet", false, "suppress per-destruction lines")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := config.Default()
	if *cfgPath != "" {
		loader, err := config.NewLoader(*cfgPath)
		if err != nil {
			slog.Error("failed to load config", "err", err)
			os.Exit(exitConfigError)
		}
		cfg = loader.Config()
		if err := config.Validate(cfg); err != nil {
			slog.Error("config validation failed", "err", err)
			os.Exit(exitConfigError)
		}
	}

	if *mapPath == "" {
		slog.Error("missing required flag -map")
		flag.Usage()
		os.Exit(exitParamError)
	}
	g, err := mapfile.ParseFile(*mapPath)
	if err != nil {
		slog.Error("map load failed", "err", err)
		os.Exit(exitMapError)
	}
	slog.Info("map loaded", "colonies", g.Count())

	if *seed == 0 {
		*seed = rand.Uint64()
	}
	params := sim.Params{
		Ants:          *ants,
		Seed:          *seed,
		MaxTicks:      pick(*maxTicks, cfg.Simulation.MaxTicks),
		MaxMoves:      pick(*maxMoves, cfg.Simulation.MaxMoves),
		MoveWorkers:   pick(*workers, cfg.Simulation.MoveWorkers),
		DistinctStart: *distinct || cfg.Simulation.DistinctStart,
	}

	var rep report.Reporter = &report.Printer{W: os.Stdout, Styled: !*plain}
	if *quiet {
		rep = &report.Collector{}
	}

	eng, err := sim.New(g, params, rep)
	if err != nil {
		if errors.Is(err, sim.ErrInvalidConfiguration) {
			slog.Error("invalid configuration", "err", err)
			os.Exit(exitParamError)
		}
		slog.Error("simulation setup failed", "err", err)
		os.Exit(exitConfigError)
	}

	res, err := eng.Run(context.Background())
	if err != nil {
		slog.Error("simulation failed", "err", err)
		os.Exit(exitConfigError)
	}

	fmt.Printf("\nSimulation %s in %v after %d ticks (seed %d)\n",
		res.Outcome, res.Duration, res.Ticks, *seed)
	fmt.Printf("%d colonies destroyed, %d ants killed, %d ants remaining\n\n",
		res.ColoniesDestroyed, res.AntsKilled, res.AntsRemaining)

	header := "Remaining map:"
	if !*plain {
		header = headerStyle.Render(header)
	}
	fmt.Println(header)
	fmt.Print(report.RenderMap(eng.Graph()))
}

func pick(flagVal, confVal int) int {
	if flagVal != 0 {
		return flagVal
	}
	return confVal
}
