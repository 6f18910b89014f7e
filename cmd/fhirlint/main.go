// Command fhirlint decodes and validates FHIR R4 resource files.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	fhirmodel "github.com/gofhir/model"
	"github.com/gofhir/model/internal/config"
	"github.com/gofhir/model/pkg/logger"
	"github.com/gofhir/model/pkg/terminology"
)

// errInvalid signals that at least one resource failed validation. The
// report has already been written, so main only sets the exit status.
var errInvalid = errors.New("invalid resources")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string
	root := &cobra.Command{
		Use:           "fhirlint",
		Short:         "Validate FHIR R4 resources",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error, none")
	root.PersistentFlags().String("terminology-dir", "", "directory of CodeSystem/ValueSet JSON added to the built-in terminology")

	root.AddCommand(validateCmd(&configFile))
	root.AddCommand(systemsCmd(&configFile))
	root.AddCommand(versionCmd())
	return root
}

// setup loads the configuration and initializes logging and terminology.
func setup(cmd *cobra.Command, configFile string) (*config.Config, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	log := logger.New(cmd.ErrOrStderr(), cfg.Level())
	logger.SetDefault(log)

	if cfg.TerminologyDir != "" {
		if err := terminology.Init(terminology.DirSource(cfg.TerminologyDir)); err != nil {
			return nil, fmt.Errorf("load terminology: %w", err)
		}
		log.Info("terminology loaded from %s", cfg.TerminologyDir)
	}
	return cfg, nil
}

func validateCmd(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [flags] <file|glob|->...",
		Short: "Decode and validate resource files",
		Example: `  fhirlint validate patient.json
  fhirlint validate --strict --constraints 'bundle/*.json'
  cat encounter.json | fhirlint validate -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd, *configFile)
			if err != nil {
				return err
			}
			l := &linter{cfg: cfg, stdin: cmd.InOrStdin(), metrics: fhirmodel.NewMetrics()}
			reports, err := l.run(cmd.Context(), args)
			if err != nil {
				return err
			}
			if err := write(cmd.OutOrStdout(), cfg.Output, reports); err != nil {
				return err
			}
			s := l.metrics.Snapshot()
			logger.Info("validated %d resources, %d valid, %d errors, %d warnings",
				s.ValidationsTotal, s.ValidationsValid, s.ErrorsTotal, s.WarningsTotal)
			for _, r := range reports {
				if !r.Valid {
					return errInvalid
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("strict", false, "treat binding warnings as errors")
	cmd.Flags().Bool("constraints", false, "also evaluate the FHIRPath invariants")
	cmd.Flags().Int("workers", 0, "number of files validated in parallel (default: number of CPUs)")
	cmd.Flags().StringP("output", "o", config.OutputText, "output format: text or json")
	return cmd
}

func systemsCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "systems",
		Short: "List the code systems known to the terminology registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := setup(cmd, *configFile); err != nil {
				return err
			}
			reg := terminology.Default()
			for _, system := range reg.Systems() {
				if v := reg.SystemVersion(system); v != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s|%s\n", system, v)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), system)
			}
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fhirlint %s (FHIR %s)\n", fhirmodel.Version, fhirmodel.R4)
		},
	}
}
