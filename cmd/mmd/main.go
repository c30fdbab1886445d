package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/colorstring"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/Rodlemus03/mastermind/mastermind"
	"github.com/Rodlemus03/mastermind/solver"
)

// colorTags maps the reference color names to colorstring tags; unknown
// names render plain.
var colorTags = map[string]string{
	"blue":   "blue",
	"red":    "red",
	"white":  "white",
	"black":  "dark_gray",
	"green":  "green",
	"purple": "magenta",
}

func renderCode(alphabet mastermind.Alphabet, code mastermind.Code) string {
	tokens := make([]string, mastermind.CodeLen)
	for i, sym := range code {
		name := alphabet[sym]
		if tag, ok := colorTags[name]; ok {
			tokens[i] = fmt.Sprintf("[%s]%s[reset]", tag, name)
		} else {
			tokens[i] = name
		}
	}
	return colorstring.Color(strings.Join(tokens, " "))
}

type globalConfiguration struct {
	alphabet mastermind.Alphabet
	params   solver.Params
	seed     int64
	logger   *slog.Logger
	progress bool
}

func configure(configPath string, seed int, verbose, progress bool) (globalConfiguration, error) {
	var cfg Config
	if configPath != "" {
		loaded, err := loadConfig(configPath)
		if err != nil {
			return globalConfiguration{}, err
		}
		cfg = loaded
	}
	alphabet, err := cfg.alphabet()
	if err != nil {
		return globalConfiguration{}, err
	}
	params, err := cfg.params(alphabet)
	if err != nil {
		return globalConfiguration{}, err
	}
	logger := slog.New(slog.DiscardHandler)
	if verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	s := int64(seed)
	if s == 0 {
		s = time.Now().UnixNano()
	}
	return globalConfiguration{
		alphabet: alphabet,
		params:   params,
		seed:     s,
		logger:   logger,
		progress: progress,
	}, nil
}

func (gc globalConfiguration) newSession() *solver.Session {
	return solver.NewSession(gc.alphabet,
		solver.WithRand(rand.New(rand.NewSource(gc.seed))),
		solver.WithParams(gc.params),
		solver.WithLogger(gc.logger))
}

// solveSecret runs the automated mode against a known or random secret.
func solveSecret(gc globalConfiguration, secretText string) error {
	var secret mastermind.Code
	if secretText == "" {
		secret = gc.alphabet.Random(rand.New(rand.NewSource(gc.seed)))
		fmt.Println("no secret supplied, generated one at random")
	} else {
		parsed, err := gc.alphabet.Parse(secretText)
		if err != nil {
			return err
		}
		secret = parsed
	}
	fmt.Println("secret:", renderCode(gc.alphabet, secret))

	session := gc.newSession()
	start := time.Now()
	attempts, history, err := session.RunToSolution(secret)
	if err != nil {
		return err
	}
	fmt.Printf("solved in %d attempts (%.2f seconds)\n", attempts, time.Since(start).Seconds())
	fmt.Print("search space by attempt:")
	for _, size := range history {
		fmt.Print(" ", size)
	}
	fmt.Println()
	return nil
}

// playFeedback runs the step-wise mode: the solver proposes, the caller
// replays the feedback they observed for each proposal.
func playFeedback(gc globalConfiguration, feedbackArgs []string) error {
	session := gc.newSession()
	session.Start()
	for _, arg := range feedbackArgs {
		guess, err := session.IssueGuess()
		if err != nil {
			return err
		}
		fmt.Printf("attempt %d: %s\n", session.Attempts(), renderCode(gc.alphabet, guess))

		exact, color, err := parseFeedbackArg(arg)
		if err != nil {
			return err
		}
		solved, err := session.ApplyFeedback(exact, color)
		if err != nil {
			return err
		}
		if solved {
			fmt.Printf("solved in %d attempts\n", session.Attempts())
			return nil
		}
		fmt.Printf("feedback %d,%d leaves %d possible codes\n", exact, color, session.SpaceSize())
	}
	next, err := session.IssueGuess()
	if err != nil {
		return err
	}
	fmt.Printf("next guess: %s\n", renderCode(gc.alphabet, next))
	return nil
}

func parseFeedbackArg(arg string) (int, int, error) {
	parts := strings.Split(arg, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("feedback must look like exact,color (e.g. 1,2), got %q", arg)
	}
	exact, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("feedback %q: %w", arg, err)
	}
	color, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("feedback %q: %w", arg, err)
	}
	return exact, color, nil
}

func runExperiment(gc globalConfiguration, games, workers int) error {
	var bar *progressbar.ProgressBar
	if gc.progress {
		bar = progressbar.Default(int64(games))
	} else {
		bar = progressbar.DefaultSilent(int64(games))
	}
	result, err := solver.RunExperiment(gc.alphabet, games, solver.ExperimentOptions{
		Workers: workers,
		Seed:    gc.seed,
		Params:  &gc.params,
		Logger:  gc.logger,
		OnProgress: func(done, total int) {
			bar.Add(1)
		},
	})
	if err != nil {
		return err
	}

	fmt.Printf("games: %d\n", result.Games)
	fmt.Printf("mean attempts: %.2f\n", result.MeanAttempts)
	fmt.Printf("distinct secrets: %d\n", result.DistinctSecrets)
	fmt.Printf("total time: %.2f seconds\n", result.Elapsed.Seconds())

	counts := make([]int, 0, len(result.AttemptCounts))
	for attempts := range result.AttemptCounts {
		counts = append(counts, attempts)
	}
	sort.Ints(counts)
	for _, attempts := range counts {
		fmt.Printf("%d attempts: %d games\n", attempts, result.AttemptCounts[attempts])
	}

	if len(result.MeanSpaceByAttempt) > 1 {
		fmt.Println("search space reduction:")
		for i := 1; i < len(result.MeanSpaceByAttempt); i++ {
			prev := result.MeanSpaceByAttempt[i-1]
			cur := result.MeanSpaceByAttempt[i]
			if prev <= 0 {
				continue
			}
			fmt.Printf("after attempt %d: %d -> %d (%.1f%%)\n", i, int(prev), int(cur), (1-cur/prev)*100)
		}
	}
	return nil
}

func main() {
	configPath := ""
	seed := 0
	verbose := false
	progress := false
	// command specific flags
	games := 100
	workers := 1
	cmd := &cli.Command{
		Name:  "mmd",
		Usage: "mastermind solver",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Value:       "",
				Usage:       "YAML config file overriding the alphabet and selector tuning",
				Destination: &configPath,
			},
			&cli.IntFlag{
				Name:        "seed",
				Value:       0,
				Aliases:     []string{"s"},
				Usage:       "random seed, 0 picks a fresh one; fixed seeds make runs reproducible",
				Destination: &seed,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Value:       false,
				Aliases:     []string{"v"},
				Usage:       "log every attempt to stderr",
				Destination: &verbose,
			},
			&cli.BoolFlag{
				Name:        "progress",
				Value:       false,
				Aliases:     []string{"p"},
				Usage:       "show progress bar",
				Destination: &progress,
			},
		},
		Commands: []*cli.Command{
			{
				Name: "solve",
				Usage: `solve [secret]
				Solve a secret code automatically. The secret is four symbols
				separated by commas or spaces, e.g. "blue,red,green,black";
				omit it to solve a randomly generated one.
				`,
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.NArg() > 1 {
						return cli.Exit("at most one secret argument", 1)
					}
					gc, err := configure(configPath, seed, verbose, progress)
					if err != nil {
						return err
					}
					return solveSecret(gc, strings.Join(cmd.Args().Slice(), " "))
				},
			},
			{
				Name: "play",
				Usage: `play [exact,color]...
				Play against a secret only you know. The solver proposes a
				guess; you answer each proposal with the feedback you observed
				as exact,color pairs, e.g.: mmd play 0,2 1,1
				The next proposal is printed after the supplied feedback is
				replayed. Use --seed to keep proposals stable across calls.
				`,
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.NArg() < 1 {
						return cli.Exit("supply at least one exact,color feedback pair", 1)
					}
					gc, err := configure(configPath, seed, verbose, progress)
					if err != nil {
						return err
					}
					return playFeedback(gc, cmd.Args().Slice())
				},
			},
			{
				Name: "experiment",
				Usage: `experiment -n 100
				Run many automated games against random secrets and report
				attempt statistics and the mean search-space trajectory.
				`,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:        "games",
						Value:       100,
						Aliases:     []string{"n"},
						Usage:       "number of games to run",
						Destination: &games,
					},
					&cli.IntFlag{
						Name:        "workers",
						Value:       1,
						Aliases:     []string{"w"},
						Usage:       "concurrent sessions",
						Destination: &workers,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					gc, err := configure(configPath, seed, verbose, progress)
					if err != nil {
						return err
					}
					return runExperiment(gc, games, workers)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
