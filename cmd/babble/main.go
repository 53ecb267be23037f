package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/chriscorrea/babble/internal/app"
	"github.com/chriscorrea/babble/internal/config"
	"github.com/chriscorrea/babble/internal/counter"
	"github.com/chriscorrea/babble/internal/fetch"
	"github.com/chriscorrea/babble/internal/model"

	"github.com/spf13/cobra"
)

// resolveSettings loads the config file (or built-in defaults) and applies every
// flag the user set explicitly on top of it
func resolveSettings(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	configPath, _ := flags.GetString("config")
	settings, usedPath, err := config.LoadWithPriority(configPath)
	if err != nil {
		return nil, err
	}
	if usedPath != "" {
		slog.Debug("Using config file", "path", usedPath)
	}

	if flags.Changed("kind") {
		settings.Model.Kind, _ = flags.GetString("kind")
	}
	if flags.Changed("interpolate") {
		interpolate, _ := flags.GetBool("interpolate")
		if interpolate {
			settings.Model.Kind = model.InterpolatedKind.String()
		} else {
			settings.Model.Kind = model.Base.String()
		}
	}
	if flags.Changed("context-length") {
		settings.Model.ContextLength, _ = flags.GetInt("context-length")
	}
	if flags.Changed("smoothing") {
		settings.Model.Smoothing, _ = flags.GetFloat64("smoothing")
	}
	if flags.Changed("seed") {
		settings.Generate.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("length") {
		settings.Generate.Length, _ = flags.GetInt("length")
	}
	if flags.Changed("clean") {
		settings.Corpus.Clean, _ = flags.GetBool("clean")
	}
	if flags.Changed("html") {
		settings.Corpus.HTML, _ = flags.GetString("html")
	}
	if flags.Changed("selector") {
		settings.Corpus.Selector, _ = flags.GetString("selector")
	}
	if flags.Changed("chunk-size") {
		settings.Corpus.ChunkSize, _ = flags.GetInt("chunk-size")
	}
	if flags.Changed("max-chars") {
		settings.Corpus.MaxChars, _ = flags.GetInt("max-chars")
	}

	// sizing flags are mutually exclusive, so at most one is set
	for _, name := range []string{"beginning", "middle", "end"} {
		if on, _ := flags.GetBool(name); on {
			settings.Corpus.Sizing = name
		}
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// buildConfig constructs an app.Config from command flags and arguments
func buildConfig(cmd *cobra.Command, args []string) (app.Config, error) {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return app.Config{}, err
	}

	kind, err := model.ParseKind(settings.Model.Kind)
	if err != nil {
		return app.Config{}, err
	}

	htmlMode, err := app.ParseHTMLMode(settings.Corpus.HTML)
	if err != nil {
		return app.Config{}, err
	}

	sizing, err := app.ParseSizingStrategy(settings.Corpus.Sizing)
	if err != nil {
		return app.Config{}, err
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	debug, _ := cmd.Flags().GetBool("debug")

	// no arguments: read the corpus from stdin
	sources := args
	if len(sources) == 0 {
		sources = []string{fetch.Stdin}
	}

	return app.Config{
		Sources:       sources,
		Kind:          kind,
		ContextLength: settings.Model.ContextLength,
		Smoothing:     settings.Model.Smoothing,
		Seed:          settings.Generate.Seed,
		Length:        settings.Generate.Length,
		HTML:          htmlMode,
		Selector:      settings.Corpus.Selector,
		Clean:         settings.Corpus.Clean,
		ChunkSize:     settings.Corpus.ChunkSize,
		MaxChars:      settings.Corpus.MaxChars,
		Sizing:        sizing,
		Quiet:         quiet,
		Debug:         debug,
	}, nil
}

// setupLogger configures the default slog logger based on debug mode
func setupLogger(debug bool) {
	var level slog.Level
	if debug {
		level = slog.LevelDebug
	} else {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// outputFormat reads the --json flag of reporting commands
func outputFormat(cmd *cobra.Command) app.OutputFormat {
	if jsonFlag, _ := cmd.Flags().GetBool("json"); jsonFlag {
		return app.JSON
	}
	return app.Text
}

// withTrainedModel builds the config, trains a model on the sources and hands
// both to fn. Interrupts cancel training.
func withTrainedModel(cmd *cobra.Command, args []string, fn func(ctx context.Context, cfg app.Config, lm model.LanguageModel, corpus app.Corpus) error) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// create context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	lm, corpus, err := app.Build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	return fn(ctx, cfg, lm, corpus)
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [sources...]",
		Short: "Train on the sources and print random text",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTrainedModel(cmd, args, func(_ context.Context, cfg app.Config, lm model.LanguageModel, _ app.Corpus) error {
				text, err := app.Generate(lm, cfg.Length)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			})
		},
	}
	cmd.Flags().IntP("length", "l", 600, "Number of characters to generate")
	return cmd
}

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score [sources...]",
		Short: "Train on the sources and print the perplexity of a text",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTrainedModel(cmd, args, func(ctx context.Context, cfg app.Config, lm model.LanguageModel, _ app.Corpus) error {
				text, _ := cmd.Flags().GetString("text")
				if file, _ := cmd.Flags().GetString("file"); file != "" {
					var err error
					if text, err = app.LoadText(ctx, cfg, file); err != nil {
						return err
					}
				}

				perplexity, err := app.Score(lm, text)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), app.FormatFloat(perplexity))
				return nil
			})
		},
	}
	cmd.Flags().StringP("text", "t", "", "Text to score")
	cmd.Flags().StringP("file", "f", "", "File, URL or - to score")
	cmd.MarkFlagsMutuallyExclusive("text", "file")
	cmd.MarkFlagsOneRequired("text", "file")
	return cmd
}

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval --file held-out [sources...]",
		Short: "Train on the sources and report perplexity over chunks of held-out text",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTrainedModel(cmd, args, func(ctx context.Context, cfg app.Config, lm model.LanguageModel, _ app.Corpus) error {
				file, _ := cmd.Flags().GetString("file")
				text, err := app.LoadText(ctx, cfg, file)
				if err != nil {
					return err
				}

				report, err := app.Evaluate(ctx, cfg, lm, text)
				if err != nil {
					return err
				}

				out, err := app.FormatEval(report, outputFormat(cmd))
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	cmd.Flags().StringP("file", "f", "", "Held-out file, URL or - to evaluate")
	_ = cmd.MarkFlagRequired("file")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	return cmd
}

func newProbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prob --char x [--context ctx] [sources...]",
		Short: "Train on the sources and print P(char | context)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTrainedModel(cmd, args, func(_ context.Context, _ app.Config, lm model.LanguageModel, _ app.Corpus) error {
				preceding, _ := cmd.Flags().GetString("context")
				char, _ := cmd.Flags().GetString("char")

				p, err := app.Probability(lm, preceding, char)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), app.FormatFloat(p))
				return nil
			})
		},
	}
	cmd.Flags().String("context", "", "Preceding characters")
	cmd.Flags().String("char", "", "The character to score")
	_ = cmd.MarkFlagRequired("char")
	return cmd
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [sources...]",
		Short: "Train on the sources and print corpus and model statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			countNames, _ := cmd.Flags().GetStringSlice("count")
			top, _ := cmd.Flags().GetInt("top")

			methods := make([]counter.CountingMethod, 0, len(countNames))
			for _, name := range countNames {
				method, err := counter.ParseMethod(name)
				if err != nil {
					return fmt.Errorf("configuration error: %w", err)
				}
				methods = append(methods, method)
			}

			return withTrainedModel(cmd, args, func(_ context.Context, cfg app.Config, lm model.LanguageModel, corpus app.Corpus) error {
				report, err := app.Stats(cfg, lm, corpus, methods, top)
				if err != nil {
					return err
				}

				out, err := app.FormatStats(report, outputFormat(cmd))
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	cmd.Flags().StringSlice("count", []string{"characters", "words"}, "Counting methods: characters, words, tokens")
	cmd.Flags().Int("top", 10, "Number of most frequent characters to list")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	return cmd
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := resolveSettings(cmd)
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			return settings.Encode(cmd.OutOrStdout())
		},
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "babble",
		Short: "A character-level n-gram language model",
		Long: `Babble trains a character-level n-gram language model on text and uses it to
generate random text, score text by perplexity, and query probabilities. Sources
may include URLs, local files, or standard input.

Examples:
  babble generate pride-and-prejudice.txt
  babble generate -n 4 --seed 7 https://www.gutenberg.org/cache/epub/1342/pg1342.txt
  babble score -t "It is a truth universally acknowledged" austen/*.txt
  babble eval -f held-out.txt --interpolate=false corpus.txt
  babble generate --clean https://www.gutenberg.org/cache/epub/1342/pg1342.txt
  cat corpus.txt | babble stats`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// configure logging pending debug flag
			debug, _ := cmd.Flags().GetBool("debug")
			setupLogger(debug)
		},
	}

	flags := rootCmd.PersistentFlags()

	// model flags
	flags.IntP("context-length", "n", 2, "Number of characters of context")
	flags.Float64P("smoothing", "k", 0, "Add-k smoothing constant (stored, not applied)")
	flags.String("kind", "interpolated", "Model kind: base or interpolated")
	flags.Bool("interpolate", true, "Interpolate over all context lengths up to -n")
	rootCmd.MarkFlagsMutuallyExclusive("kind", "interpolate")
	flags.Uint64("seed", 0, "Random seed for reproducible output (0 = unseeded)")
	flags.String("config", "", "Path to a TOML config file")

	// corpus flags
	flags.BoolP("clean", "C", false, "Drop boilerplate such as licence headers and tables of contents before training")
	flags.String("html", "auto", "HTML handling: auto, readability, all, markdown, off")
	flags.StringP("selector", "s", "", "CSS selector for HTML sources")
	flags.Int("chunk-size", 2000, "Characters per chunk for filtering and evaluation")
	flags.Int("max-chars", 0, "Limit each source to this many characters (0 = no limit)")

	// sizing strategy flags are mutually exclusive
	flags.Bool("beginning", false, "Apply --max-chars from the beginning of each source (default)")
	flags.Bool("middle", false, "Apply --max-chars from the middle of each source, expanding outward")
	flags.Bool("end", false, "Apply --max-chars from the end of each source")
	rootCmd.MarkFlagsMutuallyExclusive("beginning", "middle", "end")

	// other flags
	flags.BoolP("quiet", "q", false, "Suppress warnings and progress")
	flags.BoolP("debug", "D", false, "Enable debug logging")
	_ = flags.MarkHidden("debug")

	rootCmd.AddCommand(newGenerateCmd(), newScoreCmd(), newEvalCmd(), newProbCmd(), newStatsCmd(), newConfigCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
