package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"commerce/internal/http/handlers"
	"commerce/internal/jobs"
)

func newServeCmd() *cobra.Command {
	var withCron bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and storefront",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStack(func(st *stack) error {
				ctx, stop := signalContext(cmd)
				defer stop()

				if withCron {
					reg, err := jobs.Maintenance(st.cfg, st.deps.Stats, st.deps.Reviews)
					if err != nil {
						return err
					}
					sched, err := reg.Start(ctx)
					if err != nil {
						return err
					}
					defer sched.Stop()
				}

				app := handlers.NewApp(st.deps, handlers.Limits{})
				go func() {
					<-ctx.Done()
					log.Printf("[serve] shutting down")
					_ = app.Shutdown()
				}()
				log.Printf("[serve] listening on :%s", st.cfg.Port)
				return app.Listen(":" + st.cfg.Port)
			})
		},
	}
	cmd.Flags().BoolVar(&withCron, "with-cron", false, "Also run the scheduled jobs in this process")
	return cmd
}

// signalContext is cmd.Context() canceled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
}
