package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/taskhive/taskhive/cmd/taskhive/serve"
	"github.com/taskhive/taskhive/pkg/config"
	logger "github.com/taskhive/taskhive/pkg/log"
	"go.uber.org/automaxprocs/maxprocs"
)

var (
	// Version contains the application version number. It's set via ldflags
	// when building.
	Version = ""

	// CommitSHA contains the SHA of the commit that this application was built
	// against. It's set via ldflags when building.
	CommitSHA = ""

	rootCmd = &cobra.Command{
		Use:          "taskhive",
		Short:        "A multi-tenant project and task tracker",
		Long:         "Taskhive is a multi-tenant tracker for organizations, projects, and tasks.",
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.AddCommand(
		serve.Command,
		manCmd,
		migrateCmd,
	)

	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Sum != "" {
			Version = info.Main.Version
		} else {
			Version = "unknown (built from source)"
		}
	}
	rootCmd.Version = Version
}

func main() {
	ctx := context.Background()

	cfg := config.DefaultConfig()
	if cfg.Exist() {
		if err := cfg.ParseFile(); err != nil {
			fmt.Fprintln(os.Stderr, "parse config file:", err)
			os.Exit(1)
		}
	} else if err := cfg.WriteConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "write config file:", err)
		os.Exit(1)
	}

	if err := cfg.ParseEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "parse environment variables:", err)
		os.Exit(1)
	}

	ctx = config.WithContext(ctx, cfg)

	lg, f, err := logger.NewLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "create logger:", err)
		os.Exit(1)
	}
	if f != nil {
		defer f.Close() //nolint:errcheck
	}

	// Set global logger
	log.SetDefault(lg)
	ctx = log.WithContext(ctx, lg)

	// Set the max number of processes to the number of CPUs
	// This is useful when running taskhive in a container
	if _, err := maxprocs.Set(maxprocs.Logger(log.Debugf)); err != nil {
		log.Warn("couldn't set automaxprocs", "error", err)
	}

	if rootCmd.ExecuteContext(ctx) != nil {
		os.Exit(1)
	}
}
