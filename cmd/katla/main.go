package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/artpar/katla/internal/core/mapping"
	"github.com/artpar/katla/internal/shell/management"
	"github.com/artpar/katla/internal/shell/seed"
	"github.com/spf13/cobra"
)

const programName = "katla"

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		var sErr *ServerError
		if errors.As(err, &sErr) {
			fmt.Fprintf(stderr, "%s: %v\n", sErr.Op, sErr.Err)
			return sErr.ExitCode
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitConfigError
	}
	return ExitSuccess
}

type cli struct {
	configPath string
	config     *Config
	logger     *slog.Logger
	stdout     io.Writer
}

func newRootCommand(stdout io.Writer) *cobra.Command {
	c := &cli{stdout: stdout}

	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Hive, hive section and catalogue product administration service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			cfg, err := LoadConfig(c.configPath)
			if err != nil {
				return &ServerError{Op: "LoadConfig", Err: err, ExitCode: ExitConfigError}
			}
			c.config = cfg
			c.logger = SetupLogger(cfg)
			return nil
		},
		RunE: c.serve,
	}

	rootCmd.PersistentFlags().StringVar(&c.configPath, "config", "", "path to config file")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			Args:  cobra.NoArgs,
			RunE:  c.serve,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations and print the schema version",
			Args:  cobra.NoArgs,
			RunE:  c.migrate,
		},
		&cobra.Command{
			Use:   "seed <file.yaml>",
			Short: "Create hives, sections and products from a YAML fixture",
			Args:  cobra.ExactArgs(1),
			RunE:  c.seed,
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print version and exit",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(c.stdout, "%s %s (built %s)\n", programName, Version, BuildTime)
			},
		},
	)

	return rootCmd
}

// =============================================================================
// Commands
// =============================================================================

func (c *cli) serve(cmd *cobra.Command, args []string) error {
	c.logger.Info("starting katla",
		"version", Version,
		"config", c.configPath,
	)

	server, err := NewServer(c.config, c.logger)
	if err != nil {
		return err
	}
	return server.Start(cmd.Context())
}

func (c *cli) migrate(cmd *cobra.Command, args []string) error {
	s, err := openStore(c.config)
	if err != nil {
		return err
	}
	defer s.Close()

	version, dirty, err := s.SchemaVersion()
	if err != nil {
		return &ServerError{Op: "migrate", Err: err, ExitCode: ExitDatabaseError}
	}
	c.logger.Info("migrations applied", "version", version, "dirty", dirty)
	fmt.Fprintf(c.stdout, "schema version %d\n", version)
	return nil
}

// seedUser stamps fixture records with the configured dev user.
type seedUser int

func (u seedUser) UserID(context.Context) int { return int(u) }

func (c *cli) seed(cmd *cobra.Command, args []string) error {
	fixture, err := seed.LoadFile(args[0])
	if err != nil {
		return &ServerError{Op: "seed", Err: err, ExitCode: ExitSeedError}
	}

	s, err := openStore(c.config)
	if err != nil {
		return err
	}
	defer s.Close()

	profile := mapping.NewProfile(nil)
	user := seedUser(c.config.Auth.DevUserID)

	hives, err := management.NewHiveService(s, profile, user, c.logger)
	if err != nil {
		return err
	}
	sections, err := management.NewHiveSectionService(s, profile, user, c.logger)
	if err != nil {
		return err
	}
	products, err := management.NewProductService(s, profile, user, c.logger)
	if err != nil {
		return err
	}

	seeder := seed.NewSeeder(seed.Services{Hives: hives, Sections: sections, Products: products}, c.logger)
	res, err := seeder.Apply(cmd.Context(), fixture)
	if err != nil {
		return &ServerError{Op: "seed", Err: err, ExitCode: ExitSeedError}
	}

	fmt.Fprintf(c.stdout, "hives: %d created, %d skipped\n", res.HivesCreated, res.HivesSkipped)
	fmt.Fprintf(c.stdout, "sections: %d created, %d skipped\n", res.SectionsCreated, res.SectionsSkipped)
	fmt.Fprintf(c.stdout, "products: %d created, %d skipped\n", res.ProductsCreated, res.ProductsSkipped)
	return nil
}
