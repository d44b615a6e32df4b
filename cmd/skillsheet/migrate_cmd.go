package main

import (
	"github.com/spf13/cobra"

	"github.com/profilwerk/skillsheet/modules/staffing/infrastructure/persistence"
	"github.com/profilwerk/skillsheet/pkg/configuration"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the store schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return persistence.Migrate(cmd.Context(), configuration.Use().Database.Opts, false)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return persistence.Migrate(cmd.Context(), configuration.Use().Database.Opts, true)
		},
	})
	return cmd
}
