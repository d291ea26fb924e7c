package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/course-roadmap/internal/config"
	"github.com/jonathan/course-roadmap/internal/input"
	"github.com/jonathan/course-roadmap/internal/llm"
	"github.com/jonathan/course-roadmap/internal/logging"
	"github.com/jonathan/course-roadmap/internal/observability"
	"github.com/jonathan/course-roadmap/internal/pipeline"
	"github.com/jonathan/course-roadmap/internal/recommend"
)

var runCommand = &cobra.Command{
	Use:   "run [topic words...]",
	Short: "Recommend courses for a topic and render its learning roadmap",
	Long: `Asks for a topic (plus optional current skills and career goals), requests course
recommendations from Gemini and writes learning_roadmap_<topic>.png.

Use --quick "<topic>" to skip the interactive prompts.

Configuration can be loaded from a JSON or YAML file using --config. Environment variables
override the file and command-line flags override both.`,
	Args: cobra.ArbitraryArgs,
	RunE: runRoadmapCmd,
}

var (
	runQuick      string
	runSkills     string
	runGoals      string
	runConfigPath string
	runAPIKey     string
	runModel      string
	runOutDir     string
	runOut        string
	runJSON       bool
	runVerbose    bool
)

// clientFactory is nil in production so the Gemini client is used
var clientFactory llm.Factory

func init() {
	runCommand.Flags().StringVarP(&runQuick, "quick", "q", "", "Topic to generate a roadmap for without prompting")
	runCommand.Flags().StringVar(&runSkills, "skills", "", "Current skills (quick mode)")
	runCommand.Flags().StringVar(&runGoals, "goals", "", "Career goals (quick mode)")

	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to a JSON or YAML config file")
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API key (optional, defaults to GEMINI_API_KEY_1 env var)")
	runCommand.Flags().StringVar(&runModel, "model", "", "Gemini model name (optional, defaults to "+config.DefaultModel+")")
	runCommand.Flags().StringVarP(&runOutDir, "out-dir", "o", "", "Directory for the roadmap image")
	runCommand.Flags().StringVar(&runOut, "out", "", "Exact path of the roadmap image (overrides --out-dir)")
	runCommand.Flags().BoolVar(&runJSON, "json", false, "Also write the plan as <image>.json")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print debug logs to stderr")

	rootCmd.AddCommand(runCommand)
}

func runRoadmapCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Resolve(runConfigPath, config.Overrides{
		APIKey:        runAPIKey,
		Model:         runModel,
		OutputDir:     runOutDir,
		WritePlanJSON: runJSON,
		Verbose:       runVerbose,
	})
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// No questions are asked when nothing could be sent
	if !cfg.HasCredentials() {
		logger.Info("no API key configured, showing setup guidance")
		observability.NewPrinter(cmd.OutOrStdout()).PrintNotice(recommend.GuidanceTitle, recommend.GuidanceMessage)
		return nil
	}

	query, err := readQuery(cmd, args)
	if err != nil {
		return err
	}
	logger.Debug("query received",
		zap.String("topic", query.Topic),
		zap.Bool("quick", cmd.Flags().Changed("quick") || len(args) > 0))

	_, err = pipeline.Run(ctx, pipeline.RunOptions{
		Query:         query,
		Config:        cfg,
		OutputPath:    runOut,
		Stdout:        cmd.OutOrStdout(),
		Logger:        logger,
		ClientFactory: clientFactory,
	})
	return err
}

// readQuery uses --quick or positional words when given and prompts otherwise
func readQuery(cmd *cobra.Command, args []string) (input.Query, error) {
	if cmd.Flags().Changed("quick") || len(args) > 0 {
		return input.FromQuick(runQuick, args, runSkills, runGoals)
	}

	if runSkills != "" || runGoals != "" {
		return input.Query{}, fmt.Errorf("--skills and --goals can only be used with --quick")
	}
	return input.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).Ask(cmd.Context())
}
