package main

import (
	"os"

	"vision-infra/internal/config"
	"vision-infra/internal/logging"
	"vision-infra/internal/startup"

	"github.com/spf13/cobra"
)

// Persistent flags shared by every subcommand.
var (
	logLevel string
	logFile  string
)

// rootCmd is the base command when vision-infra is called without a
// subcommand.
var rootCmd = &cobra.Command{
	Use:   "vision-infra",
	Short: "Tools around computer vision inference clients",
	Long: `vision-infra bundles the pieces an inference client needs before it
talks to a model server: configuration resolution, source inspection,
frame preprocessing and source directory watching.`,
	SilenceUsage:      true,
	PersistentPreRun:  configureLogging,
	PersistentPostRun: flushLogs,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	rootCmd.Version = startup.Version
	rootCmd.SetVersionTemplate(`{{printf "vision-infra version %s\n" .Version}}`)

	err := rootCmd.Execute()
	logging.DefaultManager().Close()
	if err != nil {
		os.Exit(1)
	}
}

// configureLogging applies --log-level and --log-file to the logger
// registry. Without --log-level the level from DEBUG/LOG_LEVEL is kept.
func configureLogging(_ *cobra.Command, _ []string) {
	cfg := config.Default()
	cfg.LogLevel = logging.GetLevel().String()
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	cfg.LogFile = logFile
	startup.ConfigureLogging(cfg)
}

func flushLogs(_ *cobra.Command, _ []string) {
	logging.DefaultManager().FlushAll()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error or fatal (default from LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append log output to this file")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newPreprocessCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newVersionCmd())
}
