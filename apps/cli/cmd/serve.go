package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/hitreq/packages/echo"
	"github.com/abdul-hamid-achik/hitreq/packages/inbound"
	"github.com/abdul-hamid-achik/hitreq/packages/log"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var (
		addr     string
		delay    time.Duration
		session  []string
		maxInput int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start a server that echoes requests back as JSON",
		Long: `Start an HTTP server that answers every request with a JSON report of
what it received: method, query, form fields, session, server variables,
uploaded files and the raw and decoded body.

GET /redirect?to=<url> answers with a 302 to the given location.

Examples:
  hitreq serve
  hitreq serve --addr :8080 --session user=alice`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := parsePairs(session)
			if err != nil {
				return err
			}
			store := inbound.Store{}
			for k, v := range pairs {
				store[k] = v
			}

			logger := log.New(
				log.WithWriter(cmd.ErrOrStderr()),
				log.WithLevel(log.InfoLevel),
				log.WithVerbose(opts.verbose),
				log.WithJSON(opts.logJSON),
			)
			log.Logr(logger).WithName("serve").Info("starting echo server", "addr", addr, "delay", delay.String())

			server := echo.NewServer(
				echo.WithAddr(addr),
				echo.WithDelay(delay),
				echo.WithSession(store),
				echo.WithMaxInput(maxInput),
				echo.WithLogger(logger),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := server.StartWithContext(ctx); err != nil {
				return withExit(ExitNetworkError, fmt.Errorf("echo server: %w", err))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", getEnvString("HITREQ_SERVE_ADDR", ":3000"), "Listen address (env: HITREQ_SERVE_ADDR)")
	cmd.Flags().DurationVar(&delay, "delay", 0, "Delay before each echo response")
	cmd.Flags().StringArrayVar(&session, "session", nil, "Session value as key=value (repeatable)")
	cmd.Flags().Int64Var(&maxInput, "max-input", inbound.DefaultMaxInput, "Maximum request body size in bytes")

	return cmd
}

