// Package serve implements the serve command.
package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/taskhive/taskhive/cmd"
	"github.com/taskhive/taskhive/pkg/db"
	"github.com/taskhive/taskhive/pkg/db/migrate"
)

// Command is the serve command.
var Command = &cobra.Command{
	Use:                "serve",
	Short:              "Start the server",
	Args:               cobra.NoArgs,
	PersistentPreRunE:  cmd.InitBackendContext,
	PersistentPostRunE: cmd.CloseDBContext,
	RunE: func(c *cobra.Command, _ []string) error {
		ctx := c.Context()

		dbx := db.FromContext(ctx)
		if err := migrate.Migrate(ctx, dbx); err != nil {
			return fmt.Errorf("migration error: %w", err)
		}

		s, err := NewServer(ctx)
		if err != nil {
			return fmt.Errorf("start server: %w", err)
		}

		lch := make(chan error, 1)
		done := make(chan os.Signal, 1)
		doneOnce := sync.OnceFunc(func() { close(done) })

		signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

		go func() {
			lch <- s.Start()
			doneOnce()
		}()

		select {
		case err := <-lch:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
		case <-done:
		}

		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := s.Shutdown(ctx); err != nil {
			return err
		}

		return nil
	},
}
