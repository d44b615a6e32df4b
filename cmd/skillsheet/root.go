package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/profilwerk/skillsheet/pkg/configuration"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "skillsheet",
		Short:         "Skill sheet ingestion and deduplication tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newDedupCmd())
	return cmd
}

func Execute() {
	conf := configuration.Use()
	defer conf.Unload()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
