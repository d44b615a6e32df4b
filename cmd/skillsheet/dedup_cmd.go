package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/profilwerk/skillsheet/modules/staffing/dedup"
	"github.com/profilwerk/skillsheet/modules/staffing/infrastructure/persistence"
	"github.com/profilwerk/skillsheet/pkg/composables"
	"github.com/profilwerk/skillsheet/pkg/configuration"
	"github.com/profilwerk/skillsheet/pkg/eventbus"
)

func newDedupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dedup",
		Short: "Merge duplicate career records and catalog entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := configuration.Use()
			logger := conf.Logger()

			pool, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()
			ctx := composables.WithPool(cmd.Context(), pool)

			bus := eventbus.NewEventPublisher(logger)
			dedup.RegisterLogging(bus, logger)

			catalogRepo := persistence.NewCatalogRepository()
			engine := dedup.NewEngine(
				persistence.NewEmployeeRepository(),
				persistence.NewBackgroundRepository(),
				persistence.NewDegreeRepository(),
				persistence.NewActivityRepository(),
				catalogRepo,
				persistence.NewCertificateRepository(),
				composables.InTx,
				bus,
				logger,
			)

			stats, err := engine.Run(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("backgrounds merged:  %d\n", stats.BackgroundsMerged)
			fmt.Printf("degrees merged:      %d\n", stats.DegreesMerged)
			fmt.Printf("skills merged:       %d\n", stats.SkillsMerged)
			fmt.Printf("certificates merged: %d\n", stats.CertificatesMerged)
			return nil
		},
	}
}
