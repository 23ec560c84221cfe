package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"commerce/internal/services"
)

func newImportCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "products:import",
		Short: "Import or update products from a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open CSV: %w", err)
			}
			defer f.Close()
			return withStack(func(st *stack) error {
				res, err := st.deps.Catalog.Import(cmd.Context(), f)
				if err != nil {
					return fmt.Errorf("import: %w", err)
				}
				out := cmd.OutOrStdout()
				for _, w := range res.Warnings {
					fmt.Fprintf(out, "  [warn] %s\n", w)
				}
				fmt.Fprintf(out, `
=== Import Report ===
CSV rows:   %d
Created:    %d
Updated:    %d
Skipped:    %d
Total time: %s
=====================
`, res.TotalRows, res.Created, res.Updated, res.Skipped, res.TotalTime.Round(time.Millisecond))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV file path (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newInitAdminCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "init-admin",
		Short: "Create the admin account if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStack(func(st *stack) error {
				created, err := st.deps.Auth.EnsureAdmin(email, password)
				if err != nil {
					return err
				}
				if created {
					fmt.Fprintf(cmd.OutOrStdout(), "Admin user created: %s\n", email)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Admin user already exists")
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", services.DefaultAdminEmail, "Admin email")
	cmd.Flags().StringVar(&password, "password", services.DefaultAdminPassword, "Admin password")
	return cmd
}
