package main

import (
	"fmt"
	"io"
	"os"

	"vision-infra/internal/config"
	"vision-infra/internal/startup"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type configOptions struct {
	output   string
	env      bool
	file     string
	validate bool
}

// newConfigCmd creates the command that resolves and prints an inference
// configuration.
func newConfigCmd() *cobra.Command {
	opts := configOptions{}

	cmd := &cobra.Command{
		Use:   "config [flags] [-- inference flags]",
		Short: "Resolve and print an inference configuration",
		Long: `Resolve an inference configuration and print it.

Sources are merged in order: defaults, INFERENCE_* environment variables
(with --env), a YAML file (with --file) and finally the inference flags
given after "--". Later sources win for every value that differs from its
default.

Examples:
  vision-infra config -- -m yolov8n --model_type yolov8 -s video.mp4
  vision-infra config --env -o yaml
  vision-infra config --file run.yaml --validate -- --port 8001`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig(cmd.OutOrStdout(), opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output format: table, yaml or text (default table on a terminal, text otherwise)")
	cmd.Flags().BoolVar(&opts.env, "env", false, "read INFERENCE_* environment variables")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "read a YAML configuration file")
	cmd.Flags().BoolVar(&opts.validate, "validate", false, "fail if the resolved configuration is invalid")

	return cmd
}

func runConfig(w io.Writer, opts configOptions, args []string) error {
	m := config.NewManager()
	m.SetLoader(&config.DefaultLoader{Usage: w})
	m.RegisterSerializer("yaml", config.YAMLSerializer{})
	m.RegisterSerializer("yml", config.YAMLSerializer{})

	cfg := m.CreateDefault()
	if opts.env {
		cfg = m.LoadFromEnvironment()
	}

	if opts.file != "" {
		fromFile, err := m.LoadFromFile(opts.file)
		if err != nil {
			return err
		}
		cfg = m.Merge(cfg, fromFile)
	}

	if len(args) > 0 {
		fromArgs, err := m.LoadFromCommandLine(args)
		if err != nil {
			return err
		}
		if fromArgs == nil {
			// Usage was printed.
			return nil
		}
		cfg = m.Merge(cfg, fromArgs)
	}

	startup.LogConfig(cfg)

	if err := writeConfig(w, m, cfg, opts.output); err != nil {
		return err
	}

	if opts.validate {
		if !m.ValidateConfig(cfg) {
			return fmt.Errorf("invalid configuration: %s", m.GetValidationErrors(cfg))
		}
		fmt.Fprintln(w, "Configuration is valid")
	}
	return nil
}

func writeConfig(w io.Writer, m *config.Manager, cfg *config.InferenceConfig, format string) error {
	if format == "" {
		format = "text"
		if term.IsTerminal(int(os.Stdout.Fd())) {
			format = "table"
		}
	}

	switch format {
	case "table":
		config.WriteTable(w, cfg)
	case "yaml":
		return config.WriteYAML(w, cfg)
	case "text":
		m.PrintConfig(w, cfg)
	default:
		return fmt.Errorf("unknown output format %q (want table, yaml or text)", format)
	}
	return nil
}
