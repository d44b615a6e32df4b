package importer

import (
	"github.com/sirupsen/logrus"

	"github.com/profilwerk/skillsheet/pkg/eventbus"
)

// EmployeeImportedEvent is published once per workbook after the identity
// sheet resolved to an employee row.
type EmployeeImportedEvent struct {
	EmployeeID uint
	Pseudonym  string
	Created    bool
}

// FileProcessedEvent is published after all sheets of one workbook have been
// assembled.
type FileProcessedEvent struct {
	Path         string
	Pseudonym    string
	RowsImported int
	RowsSkipped  int
}

// RegisterLogging subscribes the run-log handlers for the ingestion events.
// Callers constructing a bus must register these (or their own handlers)
// before a run, otherwise every publish warns about missing subscribers.
func RegisterLogging(bus eventbus.EventBus, logger *logrus.Logger) {
	bus.Subscribe(func(e *EmployeeImportedEvent) {
		logger.WithFields(logrus.Fields{
			"pseudonym": e.Pseudonym,
			"created":   e.Created,
		}).Debug("employee resolved")
	})
	bus.Subscribe(func(e *FileProcessedEvent) {
		logger.WithFields(logrus.Fields{
			"file":    e.Path,
			"rows":    e.RowsImported,
			"skipped": e.RowsSkipped,
		}).Info("workbook processed")
	})
}
