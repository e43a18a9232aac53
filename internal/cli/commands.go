package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/cinex-booking/internal/app"
	"github.com/metinatakli/cinex-booking/internal/booking"
	"github.com/metinatakli/cinex-booking/internal/domain"
	appvalidator "github.com/metinatakli/cinex-booking/internal/validator"
	"github.com/spf13/cobra"
)

var validate = appvalidator.NewValidator()

func newSweepCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Expire one batch of stale pending bookings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withService(cmd.Context(), func(svc *booking.Service) error {
				n, err := svc.Sweep(cmd.Context())
				if err != nil {
					return err
				}

				fmt.Fprintf(rt.out, "expired %d booking(s)\n", n)
				return nil
			})
		},
	}
}

func newRefundCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "refund <reference>",
		Short: "Retry a rejected refund of a cancelled booking or a late payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reference, err := bookingReference(args[0])
			if err != nil {
				return err
			}

			return rt.withService(cmd.Context(), func(svc *booking.Service) error {
				b, err := svc.RetryRefund(cmd.Context(), reference)
				if err != nil {
					return fmt.Errorf("refund of %s failed: %w", reference, err)
				}

				return renderBooking(rt.out, b, paymentOf(cmd, svc, b))
			})
		},
	}
}

func newLayoutCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "layout <showId>",
		Short: "Print the seat map of a show",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			showID, err := strconv.Atoi(args[0])
			if err != nil || showID < 1 {
				return fmt.Errorf("show ID must be a positive integer, got %q", args[0])
			}

			return rt.withService(cmd.Context(), func(svc *booking.Service) error {
				seats, err := svc.SeatLayout(cmd.Context(), showID)
				if err != nil {
					return err
				}

				available, err := svc.AvailableSeats(cmd.Context(), showID)
				if err != nil {
					return err
				}

				renderLayout(rt.out, showID, available, seats)
				return nil
			})
		},
	}
}

func newBookingCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "booking <reference>",
		Short: "Show a booking and its payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reference, err := bookingReference(args[0])
			if err != nil {
				return err
			}

			return rt.withService(cmd.Context(), func(svc *booking.Service) error {
				b, err := svc.GetByReference(cmd.Context(), reference)
				if err != nil {
					return err
				}

				return renderBooking(rt.out, b, paymentOf(cmd, svc, b))
			})
		},
	}
}

func newTokenCmd(rt *runtime) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <userId>",
		Short: "Sign a bearer token for local testing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.Atoi(args[0])
			if err != nil || userID < 1 {
				return fmt.Errorf("user ID must be a positive integer, got %q", args[0])
			}

			if rt.cfg.Auth.JWTSecret == "" {
				return errors.New("CINEX_AUTH_JWT_SECRET is not set")
			}

			token, err := app.NewAccessToken(rt.cfg.Auth.JWTSecret, userID, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(rt.out, token)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")

	return cmd
}

func newMigrateCmd(rt *runtime) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rt.cfg.DB.DSN == "" {
				return errors.New("database DSN is not set")
			}

			if err := app.Migrate(rt.cfg.DB.DSN, path); err != nil {
				return err
			}

			fmt.Fprintln(rt.out, "migrations applied")
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "file://migrations", "migration source URL")

	return cmd
}

func bookingReference(arg string) (string, error) {
	if err := validate.Var(arg, "booking_ref"); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return "", fmt.Errorf("reference %s", appvalidator.ValidationMessage(fieldErrs[0]))
		}
		return "", err
	}
	return arg, nil
}

// paymentOf returns the booking's payment, or nil when none was started.
func paymentOf(cmd *cobra.Command, svc *booking.Service, b *domain.Booking) *domain.Payment {
	payment, err := svc.Payment(cmd.Context(), b.ID)
	if err != nil {
		return nil
	}
	return payment
}
