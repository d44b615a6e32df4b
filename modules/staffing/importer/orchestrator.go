package importer

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/profilwerk/skillsheet/modules/staffing/domain/aggregates/employee"
	"github.com/profilwerk/skillsheet/modules/staffing/domain/entities/catalog"
	"github.com/profilwerk/skillsheet/pkg/eventbus"
)

// ImportContext carries the cross-file state of one ingestion run: the
// pseudonym map used for deferred counselor linking. It replaces what used to
// be ambient global state; the orchestrator threads it explicitly into the
// final stitching pass.
type ImportContext struct {
	pseudonyms map[string]uint
	pending    []pendingCounselor
}

type pendingCounselor struct {
	employeeID uint
	pseudonym  string
	counselor  string
}

func NewImportContext() *ImportContext {
	return &ImportContext{pseudonyms: map[string]uint{}}
}

// RunStats summarizes one ingestion run.
type RunStats struct {
	FilesProcessed   int
	FilesSkipped     int
	RowsImported     int
	RowsSkipped      int
	EmployeesCreated int
	EmployeesUpdated int
	CounselorsLinked int
}

// Importer drives the full ingestion: it walks the workbook directory,
// processes files strictly in sequence, and performs the deferred counselor
// pass at the end. Failed rows and files are logged and skipped, never fatal.
type Importer struct {
	employees employee.Repository
	resolver  catalog.Resolver
	assembler *Assembler
	bus       eventbus.EventBus
	logger    *logrus.Logger
}

func NewImporter(
	employees employee.Repository,
	resolver catalog.Resolver,
	assembler *Assembler,
	bus eventbus.EventBus,
	logger *logrus.Logger,
) *Importer {
	return &Importer{
		employees: employees,
		resolver:  resolver,
		assembler: assembler,
		bus:       bus,
		logger:    logger,
	}
}

func (i *Importer) Run(ctx context.Context, dir string) (*RunStats, error) {
	ictx := NewImportContext()
	stats := &RunStats{}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsWorkbookFile(path) {
			return nil
		}
		if err := i.importFile(ctx, path, ictx, stats); err != nil {
			i.logger.WithError(err).WithField("file", path).Warn("skipping workbook")
			stats.FilesSkipped++
			return nil
		}
		stats.FilesProcessed++
		return nil
	})
	if err != nil {
		return stats, errors.Wrapf(err, "failed to walk import directory %s", dir)
	}

	i.linkCounselors(ctx, ictx, stats)

	i.logger.WithFields(logrus.Fields{
		"files":       stats.FilesProcessed,
		"skipped":     stats.FilesSkipped,
		"rows":        stats.RowsImported,
		"rowsSkipped": stats.RowsSkipped,
		"counselors":  stats.CounselorsLinked,
	}).Info("ingestion run finished")

	return stats, nil
}

func (i *Importer) importFile(ctx context.Context, path string, ictx *ImportContext, stats *RunStats) error {
	wb, err := OpenWorkbook(path)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := wb.Close(); cErr != nil {
			i.logger.WithError(cErr).WithField("file", path).Warn("failed to close workbook")
		}
	}()

	idSpec := sheetSpecs[SheetIdentity]
	if !wb.HasSheet(idSpec.Name) {
		return errors.Errorf("workbook has no %q sheet", idSpec.Name)
	}
	grid, err := wb.Grid(idSpec.Name)
	if err != nil {
		return err
	}

	rec := MapRecord(ParseVertical(grid), idSpec.Fields)
	pseudonym := getString(rec, "pseudonym")
	if pseudonym == "" {
		return errors.New("identity sheet carries no pseudonym")
	}

	emp, created, err := i.resolveEmployee(ctx, pseudonym, rec)
	if err != nil {
		return err
	}
	ictx.pseudonyms[emp.Pseudonym] = emp.ID
	if counselor := getString(rec, "counselor"); counselor != "" {
		ictx.pending = append(ictx.pending, pendingCounselor{
			employeeID: emp.ID,
			pseudonym:  emp.Pseudonym,
			counselor:  counselor,
		})
	}
	if created {
		stats.EmployeesCreated++
	} else {
		stats.EmployeesUpdated++
	}
	i.bus.Publish(&EmployeeImportedEvent{EmployeeID: emp.ID, Pseudonym: emp.Pseudonym, Created: created})

	imported, skipped := 0, 0
	for _, kind := range tableKinds {
		spec := sheetSpecs[kind]
		if !wb.HasSheet(spec.Name) {
			continue
		}
		sheetGrid, err := wb.Grid(spec.Name)
		if err != nil {
			i.logger.WithError(err).WithFields(logrus.Fields{
				"file":  path,
				"sheet": spec.Name,
			}).Warn("skipping unreadable sheet")
			continue
		}
		for idx, raw := range ParseTable(sheetGrid) {
			if IsPlaceholderRow(raw) {
				continue
			}
			mapped := MapRecord(raw, spec.Fields)
			if len(mapped) == 0 {
				continue
			}
			if err := i.assembler.AssembleRow(ctx, kind, emp.ID, mapped); err != nil {
				i.logger.WithError(err).WithFields(logrus.Fields{
					"pseudonym": emp.Pseudonym,
					"sheet":     spec.Name,
					"row":       idx,
				}).Warn("skipping row")
				skipped++
				continue
			}
			imported++
		}
	}

	stats.RowsImported += imported
	stats.RowsSkipped += skipped
	i.bus.Publish(&FileProcessedEvent{
		Path:         path,
		Pseudonym:    emp.Pseudonym,
		RowsImported: imported,
		RowsSkipped:  skipped,
	})
	return nil
}

// resolveEmployee matches by pseudonym: a hit updates the existing row, a
// miss creates a new one. The workbook values win on update except that
// absent fields never blank out previously imported data.
func (i *Importer) resolveEmployee(ctx context.Context, pseudonym string, rec map[string]any) (*employee.Employee, bool, error) {
	existing, err := i.employees.GetByPseudonym(ctx, pseudonym)
	switch {
	case err == nil:
		if err := i.applyIdentity(ctx, existing, rec); err != nil {
			return nil, false, err
		}
		if err := i.employees.Update(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	case errors.Is(err, employee.ErrNotFound):
		created := employee.New(pseudonym)
		if err := i.applyIdentity(ctx, created, rec); err != nil {
			return nil, false, err
		}
		created, err = i.employees.Create(ctx, created)
		if err != nil {
			return nil, false, err
		}
		return created, true, nil
	default:
		return nil, false, err
	}
}

func (i *Importer) applyIdentity(ctx context.Context, e *employee.Employee, rec map[string]any) error {
	if v := getString(rec, "firstName"); v != "" {
		e.FirstName = v
	}
	if v := getString(rec, "lastName"); v != "" {
		e.LastName = v
	}
	if v := getString(rec, "description"); v != "" {
		e.Description = v
	}
	if v := getDate(rec, "contractStart"); v != nil {
		e.ContractStart = v
	}
	if v, ok := rec["experienceIT"].(int); ok {
		e.ExperienceIT = v
	}
	if v, ok := rec["experienceInfoSec"].(int); ok {
		e.ExperienceInfoSec = v
	}
	if v, ok := rec["experienceITBaseline"].(int); ok {
		e.ExperienceITBaseline = v
	}
	if v, ok := rec["experiencePublicSector"].(int); ok {
		e.ExperiencePublicSector = v
	}

	if rank := getString(rec, "rank"); rank != "" {
		id, err := i.resolver.Resolve(ctx, catalog.KindRank, rank)
		if err != nil {
			return err
		}
		e.RankID = &id
	}
	if location := getString(rec, "location"); location != "" {
		id, err := i.resolver.Resolve(ctx, catalog.KindLocation, location)
		if err != nil {
			return err
		}
		e.LocationID = &id
	}
	return nil
}

// linkCounselors is the deferred pass: counselor pseudonyms can only be
// resolved once every file has been read, because the counselor's own row may
// come from a later workbook.
func (i *Importer) linkCounselors(ctx context.Context, ictx *ImportContext, stats *RunStats) {
	for _, p := range ictx.pending {
		counselorID, ok := ictx.pseudonyms[employee.NormalizePseudonym(p.counselor)]
		if !ok {
			i.logger.WithFields(logrus.Fields{
				"pseudonym": p.pseudonym,
				"counselor": p.counselor,
			}).Warn("counselor pseudonym not found in this run")
			continue
		}
		if counselorID == p.employeeID {
			i.logger.WithField("pseudonym", p.pseudonym).Warn("employee lists themselves as counselor")
			continue
		}
		if err := i.employees.SetCounselor(ctx, p.employeeID, counselorID); err != nil {
			i.logger.WithError(err).WithField("pseudonym", p.pseudonym).Warn("failed to link counselor")
			continue
		}
		stats.CounselorsLinked++
	}
}
