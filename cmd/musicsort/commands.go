package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"musicsort/internal/api"
	"musicsort/internal/audio"
	"musicsort/internal/config"
	"musicsort/internal/diag"
	"musicsort/internal/engine"
	"musicsort/internal/grid"
	"musicsort/internal/model"
	"musicsort/internal/render"
)

// app carries the state every subcommand shares once the root has loaded it.
type app struct {
	configPath string
	logLevel   string

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "musicsort",
		Short:         "Step through sorting algorithms over a grid of musical notes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			diag.Uninstall()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (overrides the config)")

	root.AddCommand(
		newServeCmd(a),
		newSortCmd(a),
		newGridCmd(a),
		newAudioCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg
	a.logger = diag.NewLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(a.logger)
	diag.Install(a.logger)
	return nil
}

// configuredGrid is the reference grid holding the configured notes.
func (a *app) configuredGrid() (*grid.Grid, error) {
	seq, err := a.cfg.Sequence()
	if err != nil {
		return nil, err
	}
	return grid.NewWithCells(grid.DefaultWidth, grid.DefaultHeight, seq), nil
}

// sequence resolves --notes against the configured grid.
func (a *app) sequence(notes string) (model.Sequence, error) {
	if notes != "" {
		return model.ParseSequence(notes)
	}
	return a.cfg.Sequence()
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the sort API, replay stream and metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	g, err := a.configuredGrid()
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := &http.Server{
		Addr: a.cfg.Server.Addr,
		Handler: api.NewServer(api.Options{
			Grid:              g,
			Logger:            a.logger,
			Registry:          reg,
			MaxNotes:          a.cfg.Sort.MaxNotes,
			ReplayInterval:    a.cfg.Replay.Interval,
			MinReplayInterval: a.cfg.Replay.MinInterval,
		}),
		ReadHeaderTimeout: a.cfg.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting server", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down", slog.Duration("timeout", a.cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down the server: %w", err)
	}
	return nil
}

func newSortCmd(a *app) *cobra.Command {
	var (
		notes  string
		asJSON bool
		plain  bool
		remote string
	)
	var validAlg []string
	for _, alg := range engine.Algorithms() {
		validAlg = append(validAlg, alg.String())
	}

	cmd := &cobra.Command{
		Use:       "sort [algorithm]",
		Short:     "Print every step of a sort over the grid",
		Long:      "Runs insertion, selection or bubble sort and prints each recorded step.\nWithout an algorithm the configured one is used.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: validAlg,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := a.cfg.Sort.Algorithm
			if len(args) == 1 {
				name = args[0]
			}
			alg, err := engine.ParseAlgorithm(name)
			if err != nil {
				return err
			}

			var log model.StepLog
			err = diag.Guard(func() error {
				var runErr error
				log, runErr = a.runSort(cmd.Context(), alg, notes, remote)
				return runErr
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(api.SortRun{Algorithm: alg.String(), Steps: api.ToWire(log)})
			}
			return render.Log(out, log, render.Options{Plain: plain})
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "comma-separated notes to sort instead of the configured grid")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the step log as JSON tuples")
	cmd.Flags().BoolVar(&plain, "plain", false, "disable colors")
	cmd.Flags().StringVar(&remote, "remote", "", "run the sort on a musicsort server at this base URL")
	return cmd
}

func (a *app) runSort(ctx context.Context, alg engine.Algorithm, notes, remote string) (model.StepLog, error) {
	if remote == "" {
		seq, err := a.sequence(notes)
		if err != nil {
			return nil, err
		}
		return engine.Run(alg, seq)
	}

	var seq model.Sequence
	if notes != "" {
		var err error
		if seq, err = model.ParseSequence(notes); err != nil {
			return nil, err
		}
	}
	client := api.NewClient(remote, &http.Client{Timeout: 30 * time.Second})
	log, runID, err := client.Sort(ctx, alg, seq)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("remote sort finished", slog.String("run_id", runID), slog.Int("steps", len(log)))
	return log, nil
}

func newGridCmd(a *app) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Show the configured grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.configuredGrid()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%dx%d  %s\n", g.Width(), g.Height(), g.Sequence())
			fmt.Fprintln(out, render.Frame(model.Step{
				Snapshot: g.Sequence(),
				IndexA:   model.NoSwap,
				IndexB:   model.NoSwap,
			}, render.Options{Plain: plain}))
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "disable colors")
	return cmd
}

func newAudioCmd(a *app) *cobra.Command {
	var (
		notes  string
		output string
		stepMs int
	)
	cmd := &cobra.Command{
		Use:   "audio [algorithm]",
		Short: "Render a sort as a WAV file, one tone pair per swap",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := a.cfg.Sort.Algorithm
			if len(args) == 1 {
				name = args[0]
			}
			alg, err := engine.ParseAlgorithm(name)
			if err != nil {
				return err
			}
			seq, err := a.sequence(notes)
			if err != nil {
				return err
			}
			log, err := engine.Run(alg, seq)
			if err != nil {
				return err
			}

			opts := audio.Options{
				SampleRate:   a.cfg.Audio.SampleRate,
				StepDuration: a.cfg.Audio.StepDuration,
				Gain:         a.cfg.Audio.Gain,
			}
			if stepMs > 0 {
				opts.StepDuration = time.Duration(stepMs) * time.Millisecond
			}
			if err := audio.WriteFile(output, log, opts); err != nil {
				return err
			}
			a.logger.Info("wrote audio",
				slog.String("path", output),
				slog.String("algorithm", alg.String()),
				slog.Int("swaps", log.Swaps()))
			return nil
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "comma-separated notes to sort instead of the configured grid")
	cmd.Flags().StringVarP(&output, "output", "o", "sort.wav", "destination WAV file")
	cmd.Flags().IntVar(&stepMs, "step-ms", 0, "milliseconds per step (overrides the config)")
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration to path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteDefault(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}, &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(a.cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	})
	return cmd
}
