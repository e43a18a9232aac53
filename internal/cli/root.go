// Package cli implements bookingctl, the operator tool for manual
// reconciliation of bookings.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/metinatakli/cinex-booking/internal/app"
	"github.com/metinatakli/cinex-booking/internal/booking"
	"github.com/spf13/cobra"
)

// OpenFunc builds the booking service the commands operate on and returns a
// function releasing its resources.
type OpenFunc func(ctx context.Context, cfg app.Config, logger *slog.Logger) (*booking.Service, func(), error)

type Options struct {
	Out  io.Writer
	Open OpenFunc
}

type runtime struct {
	cfg     app.Config
	out     io.Writer
	open    OpenFunc
	verbose bool
}

func NewRootCmd(opts Options) *cobra.Command {
	rt := &runtime{
		out:  opts.Out,
		open: opts.Open,
	}
	if rt.out == nil {
		rt.out = os.Stdout
	}
	if rt.open == nil {
		rt.open = openService
	}

	root := &cobra.Command{
		Use:           "bookingctl",
		Short:         "Operate the CineX booking engine",
		Long:          `Inspect bookings and seat layouts, expire stale bookings and retry rejected refunds.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			rt.cfg = mergeFlags(cmd, cfg)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("storage", "", "storage backend (postgres|memory)")
	flags.String("db-dsn", "", "PostgreSQL DSN")
	flags.String("redis-url", "", "Redis URL")
	flags.BoolVarP(&rt.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		newSweepCmd(rt),
		newRefundCmd(rt),
		newLayoutCmd(rt),
		newBookingCmd(rt),
		newTokenCmd(rt),
		newMigrateCmd(rt),
	)

	return root
}

func mergeFlags(cmd *cobra.Command, cfg app.Config) app.Config {
	flags := cmd.Flags()

	if v, _ := flags.GetString("storage"); v != "" {
		cfg.Storage = v
	}
	if v, _ := flags.GetString("db-dsn"); v != "" {
		cfg.DB.DSN = v
	}
	if v, _ := flags.GetString("redis-url"); v != "" {
		cfg.Redis.URL = v
	}

	return cfg
}

func (rt *runtime) logger() *slog.Logger {
	if !rt.verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// withService opens the service for the duration of fn.
func (rt *runtime) withService(ctx context.Context, fn func(svc *booking.Service) error) error {
	svc, closeFn, err := rt.open(ctx, rt.cfg, rt.logger())
	if err != nil {
		return err
	}
	defer closeFn()

	return fn(svc)
}

func openService(ctx context.Context, cfg app.Config, logger *slog.Logger) (*booking.Service, func(), error) {
	components, err := app.Bootstrap(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	return components.Service(cfg), components.Close, nil
}
