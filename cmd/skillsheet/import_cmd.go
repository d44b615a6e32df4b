package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/profilwerk/skillsheet/modules/staffing/importer"
	"github.com/profilwerk/skillsheet/modules/staffing/infrastructure/persistence"
	"github.com/profilwerk/skillsheet/pkg/composables"
	"github.com/profilwerk/skillsheet/pkg/configuration"
	"github.com/profilwerk/skillsheet/pkg/eventbus"
)

func newImportCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "import [dir]",
		Short: "Ingest all skill sheet workbooks from a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := configuration.Use()
			logger := conf.Logger()

			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				dir = conf.ImportDir
			}

			pool, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()
			ctx := composables.WithPool(cmd.Context(), pool)

			bus := eventbus.NewEventPublisher(logger)
			importer.RegisterLogging(bus, logger)

			catalogRepo := persistence.NewCatalogRepository()
			assembler := importer.NewAssembler(
				catalogRepo,
				persistence.NewBackgroundRepository(),
				persistence.NewDegreeRepository(),
				persistence.NewVocationalRepository(),
				persistence.NewActivityRepository(),
				catalogRepo,
				persistence.NewCertificateRepository(),
				logger,
			)
			imp := importer.NewImporter(
				persistence.NewEmployeeRepository(),
				catalogRepo,
				assembler,
				bus,
				logger,
			)

			stats, err := imp.Run(ctx, dir)
			if err != nil {
				return err
			}

			fmt.Printf("files processed: %d (skipped: %d)\n", stats.FilesProcessed, stats.FilesSkipped)
			fmt.Printf("rows imported:   %d (skipped: %d)\n", stats.RowsImported, stats.RowsSkipped)
			fmt.Printf("employees:       %d created, %d updated\n", stats.EmployeesCreated, stats.EmployeesUpdated)
			fmt.Printf("counselors:      %d linked\n", stats.CounselorsLinked)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "workbook directory (defaults to IMPORT_DIR)")
	return cmd
}
