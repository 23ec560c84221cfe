package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"commerce/internal/jobs"
)

func newCronCmd() *cobra.Command {
	var jobName string
	cmd := &cobra.Command{
		Use:   "cron:start",
		Short: "Start the cron scheduler or run a single job by name",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStack(func(st *stack) error {
				reg, err := jobs.Maintenance(st.cfg, st.deps.Stats, st.deps.Reviews)
				if err != nil {
					return err
				}
				ctx, stop := signalContext(cmd)
				defer stop()

				if jobName != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Running cron job: %s\n", jobName)
					return reg.RunNow(ctx, jobName)
				}
				sched, err := reg.Start(ctx)
				if err != nil {
					return err
				}
				log.Printf("[cron] scheduler started, Ctrl+C to exit")
				<-ctx.Done()
				<-sched.Stop().Done()
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&jobName, "job", "j", "", "Run a single job by name and exit ("+jobs.JobStatsRefresh+", "+jobs.JobReviewsIndex+")")
	return cmd
}

func newReindexCmd() *cobra.Command {
	var batch int
	cmd := &cobra.Command{
		Use:   "reviews:index",
		Short: "Bulk index every review into Elasticsearch",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStack(func(st *stack) error {
				ctx, stop := signalContext(cmd)
				defer stop()
				n, err := st.deps.Reviews.IndexAll(ctx, batch)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d reviews into %q\n", n, st.cfg.ReviewIndex)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&batch, "batch-size", 500, "Reviews per bulk request")
	return cmd
}
