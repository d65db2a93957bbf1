package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/samuelfneumann/gomario/agent"
	"github.com/samuelfneumann/gomario/agent/linear/discrete/qlearning"
	"github.com/samuelfneumann/gomario/agent/random"
	"github.com/samuelfneumann/gomario/environment"
	"github.com/samuelfneumann/gomario/environment/envconfig"
	"github.com/samuelfneumann/gomario/environment/smb/simulator"
	"github.com/samuelfneumann/gomario/environment/wrappers"
	"github.com/samuelfneumann/gomario/experiment"
	"github.com/samuelfneumann/gomario/experiment/store"
	"github.com/samuelfneumann/gomario/experiment/tracker"
	"github.com/samuelfneumann/gomario/experiment/trackers"
	ts "github.com/samuelfneumann/gomario/timestep"
	"github.com/samuelfneumann/gomario/utils/progressbar"
)

var (
	flagConfig      string
	flagSimulator   string
	flagSteps       int
	flagEpisodeMax  int
	flagSeed        uint64
	flagFrames      string
	flagFramesEvery int
	flagOut         string
	flagRun         string
	flagRecord      bool

	flagAgent        string
	flagEpsilon      float64
	flagLearningRate float64
	flagDiscount     float64
	flagTilings      int
)

var playCmd = &cobra.Command{
	Use:   "play [id]",
	Short: "Run an agent on an environment",
	Long: `Runs an agent on the environment with the given ID, or on the
environment described by a YAML config file.

The random agent acts uniformly at random on the raw environment. The
qlearning agent learns online from tile-coded position and velocity
features read from the game's memory.

Episode returns and lengths can be saved to a directory, observations
can be saved as PNG frames, and finished episodes are recorded in the
results database unless --record=false.

Examples:
  gomario play SuperMarioBros-1-1-Vanilla --steps 2000
  gomario play SuperMarioBrosRandomStages-Vanilla-SmbOnly --seed 7
  gomario play --config ./env.yaml --frames ./frames --every 10
  gomario play SuperMarioBros-1-1-Vanilla --agent qlearning --steps 100000`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "",
		"Path to environment config YAML")
	playCmd.Flags().StringVar(&flagSimulator, "simulator", "",
		"Path to simulator config YAML")
	playCmd.Flags().IntVar(&flagSteps, "steps", 1000,
		"Number of steps to run")
	playCmd.Flags().IntVar(&flagEpisodeMax, "max-episode-steps", 0,
		"Truncate episodes after this many steps (0 = never)")
	playCmd.Flags().Uint64Var(&flagSeed, "seed", 0,
		"RNG seed (unset = random based on time)")
	playCmd.Flags().StringVar(&flagFrames, "frames", "",
		"Directory to save observation frames into")
	playCmd.Flags().IntVar(&flagFramesEvery, "every", 1,
		"Save every n-th frame of each episode")
	playCmd.Flags().StringVar(&flagOut, "out", "",
		"Directory to save episode returns and lengths into")
	playCmd.Flags().StringVar(&flagRun, "run", "",
		"Name of the run in the results database (default: start time)")
	playCmd.Flags().BoolVar(&flagRecord, "record", true,
		"Record finished episodes in the results database")

	playCmd.Flags().StringVar(&flagAgent, "agent", "random",
		"Agent: random or qlearning")
	playCmd.Flags().Float64Var(&flagEpsilon, "epsilon", 0.1,
		"Exploration rate of the qlearning agent")
	playCmd.Flags().Float64Var(&flagLearningRate, "learning-rate", 0.1,
		"Learning rate of the qlearning agent")
	playCmd.Flags().Float64Var(&flagDiscount, "discount", 0.99,
		"Discount of the qlearning agent")
	playCmd.Flags().IntVar(&flagTilings, "tilings", 8,
		"Number of tilings of the qlearning agent's features")
}

func runPlay(cmd *cobra.Command, args []string) error {
	c, err := envConfig(cmd, args)
	if err != nil {
		return err
	}

	simConfig, err := loadSimulatorConfig(flagSimulator)
	if err != nil {
		return err
	}

	env, _, err := c.Create(envconfig.NewRegistry(),
		simulator.Loader(simConfig), logger)
	if err != nil {
		return err
	}
	defer env.Close()
	logger.Info("created environment", "env", env)

	seed := flagSeed
	if !cmd.Flags().Changed("seed") {
		seed = uint64(time.Now().UnixNano())
	}
	agentEnv, a, err := newAgent(env, seed)
	if err != nil {
		return err
	}

	var t []tracker.Tracker
	if flagOut != "" {
		if err := os.MkdirAll(flagOut, 0o755); err != nil {
			return err
		}
		t = append(t,
			trackers.NewReturn(filepath.Join(flagOut, "returns.bin")),
			trackers.NewEpisodeLength(filepath.Join(flagOut, "lengths.bin")),
		)
	}
	if flagFrames != "" {
		frames, err := trackers.NewFrames(flagFrames, flagFramesEvery)
		if err != nil {
			return err
		}
		// The agent may act on features, frames are the raw images
		t = append(t, tracker.Register(frames, env))
	}
	if flagRecord {
		s, err := store.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer s.Close()

		run := flagRun
		if run == "" {
			run = time.Now().Format("2006-01-02T15:04:05")
		}
		t = append(t, trackers.NewStore(s, c.ID, run))
	}

	e, err := experiment.NewOnline(agentEnv, a, flagSteps, logger, t...)
	if err != nil {
		return err
	}

	bar := progressbar.New(cmd.ErrOrStderr(), 40, flagSteps)
	e.OnStep = func(step ts.TimeStep) {
		bar.Increment()
		if step.Last() {
			bar.SetLabel(fmt.Sprintf("episode %d", e.Episodes()))
		}
		if e.Steps()%100 == 0 {
			bar.Display()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runErr := e.Run(ctx)
	bar.Finish()
	if errors.Is(runErr, context.Canceled) {
		logger.Warn("interrupted", "steps", e.Steps())
		runErr = nil
	}

	return errors.Join(runErr, e.Save())
}

// newAgent returns the agent named by the --agent flag and the
// environment it acts in, which wraps env
func newAgent(env environment.Environment, seed uint64) (environment.Environment,
	agent.Agent, error) {
	var c agent.Config
	switch flagAgent {
	case "random":
		c = random.Config{}

	case "qlearning":
		f, err := wrappers.NewFeatures(env, wrappers.MarioFeatures)
		if err != nil {
			return nil, nil, err
		}
		bins := make([][]int, flagTilings)
		for i := range bins {
			bins[i] = []int{32, 8, 4, 4}
		}
		tc, _, err := wrappers.NewIndexTileCoding(f, bins, seed)
		if err != nil {
			return nil, nil, err
		}
		env = tc
		c = qlearning.Config{
			Epsilon:      flagEpsilon,
			LearningRate: flagLearningRate,
			Discount:     flagDiscount,
		}

	default:
		return nil, nil, fmt.Errorf("unknown agent %q", flagAgent)
	}

	if err := c.Validate(); err != nil {
		return nil, nil, err
	}
	a, err := c.CreateAgent(env, seed)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("created agent", "agent", flagAgent, "env", env)
	return env, a, nil
}

// envConfig returns the environment config given by the --config flag
// or by the ID argument
func envConfig(cmd *cobra.Command, args []string) (envconfig.Config, error) {
	var c envconfig.Config
	switch {
	case flagConfig != "" && len(args) > 0:
		return c, fmt.Errorf("give either an ID or --config, not both")

	case flagConfig != "":
		var err error
		if c, err = envconfig.LoadFile(flagConfig); err != nil {
			return c, err
		}

	case len(args) > 0:
		c.ID = args[0]

	default:
		return c, fmt.Errorf("an environment ID or --config is required")
	}

	if cmd.Flags().Changed("max-episode-steps") {
		c.MaxEpisodeSteps = flagEpisodeMax
	}
	if cmd.Flags().Changed("seed") {
		seed := flagSeed
		c.Seed = &seed
	}
	return c, nil
}

func loadSimulatorConfig(path string) (simulator.Config, error) {
	c := simulator.DefaultConfig()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("%v: %w", path, err)
	}
	return c, nil
}
