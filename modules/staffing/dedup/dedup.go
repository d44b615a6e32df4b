package dedup

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sirupsen/logrus"

	"github.com/profilwerk/skillsheet/modules/staffing/domain/aggregates/employee"
	"github.com/profilwerk/skillsheet/modules/staffing/domain/entities/career"
	"github.com/profilwerk/skillsheet/modules/staffing/domain/entities/catalog"
	"github.com/profilwerk/skillsheet/modules/staffing/domain/entities/project"
	"github.com/profilwerk/skillsheet/pkg/eventbus"
)

// TxRunner wraps one merge deletion in a transaction; each delete holds its
// own scope, the engine takes no broader locks.
type TxRunner func(ctx context.Context, fn func(context.Context) error) error

func passthroughTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// MergedEvent is published after a duplicate pair has been resolved.
type MergedEvent struct {
	Entity    string
	KeptID    uint
	RemovedID uint
}

// RegisterLogging subscribes the run-log handler for merge events. Callers
// constructing a bus must register it (or their own handler) before a run,
// otherwise every publish warns about missing subscribers.
func RegisterLogging(bus eventbus.EventBus, logger *logrus.Logger) {
	bus.Subscribe(func(e *MergedEvent) {
		logger.WithFields(logrus.Fields{
			"entity":  e.Entity,
			"kept":    e.KeptID,
			"removed": e.RemovedID,
		}).Info("duplicate merged")
	})
}

// Stats summarizes one corrective run.
type Stats struct {
	BackgroundsMerged  int
	DegreesMerged      int
	SkillsMerged       int
	CertificatesMerged int
}

// Engine is the corrective pass over an already-populated store: it compares
// owned records per employee with multi-field matching and the global skill
// and certificate pools by normalized title, keeps the more complete record
// of each duplicate pair and removes the other together with its dependents.
// It is idempotent; re-running on a clean store changes nothing.
type Engine struct {
	employees    employee.Repository
	backgrounds  career.BackgroundRepository
	degrees      career.DegreeRepository
	activities   project.ActivityRepository
	skills       catalog.SkillRepository
	certificates catalog.CertificateRepository
	inTx         TxRunner
	bus          eventbus.EventBus
	logger       *logrus.Logger
}

func NewEngine(
	employees employee.Repository,
	backgrounds career.BackgroundRepository,
	degrees career.DegreeRepository,
	activities project.ActivityRepository,
	skills catalog.SkillRepository,
	certificates catalog.CertificateRepository,
	inTx TxRunner,
	bus eventbus.EventBus,
	logger *logrus.Logger,
) *Engine {
	if inTx == nil {
		inTx = passthroughTx
	}
	return &Engine{
		employees:    employees,
		backgrounds:  backgrounds,
		degrees:      degrees,
		activities:   activities,
		skills:       skills,
		certificates: certificates,
		inTx:         inTx,
		bus:          bus,
		logger:       logger,
	}
}

func (e *Engine) Run(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	employees, err := e.employees.GetAll(ctx)
	if err != nil {
		return stats, errors.Wrap(err, "failed to list employees")
	}

	for _, emp := range employees {
		merged, err := e.dedupeBackgrounds(ctx, emp.ID)
		if err != nil {
			return stats, err
		}
		stats.BackgroundsMerged += merged

		merged, err = e.dedupeDegrees(ctx, emp.ID)
		if err != nil {
			return stats, err
		}
		stats.DegreesMerged += merged
	}

	if stats.SkillsMerged, err = e.dedupeSkills(ctx); err != nil {
		return stats, err
	}
	if stats.CertificatesMerged, err = e.dedupeCertificates(ctx); err != nil {
		return stats, err
	}

	e.logger.WithFields(logrus.Fields{
		"backgrounds":  stats.BackgroundsMerged,
		"degrees":      stats.DegreesMerged,
		"skills":       stats.SkillsMerged,
		"certificates": stats.CertificatesMerged,
	}).Info("dedup run finished")

	return stats, nil
}

// normalizeValue lower-cases, trims, and collapses internal whitespace.
func normalizeValue(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// matchCount counts pairwise-equal normalized fields, ignoring pairs where
// both sides are empty.
func matchCount(a, b []string) int {
	n := 0
	for i := range a {
		na, nb := normalizeValue(a[i]), normalizeValue(b[i])
		if na == "" && nb == "" {
			continue
		}
		if na == nb {
			n++
		}
	}
	return n
}

const duplicateFieldThreshold = 2

func backgroundsDuplicate(a, b *career.ProfessionalBackground) bool {
	return matchCount(
		[]string{a.Employer, a.Position, a.Description},
		[]string{b.Employer, b.Position, b.Description},
	) >= duplicateFieldThreshold
}

func degreesDuplicate(a, b *career.AcademicDegree) bool {
	return matchCount(
		[]string{a.DegreeTitleShort, a.DegreeTitleLong, a.University, a.Study},
		[]string{b.DegreeTitleShort, b.DegreeTitleLong, b.University, b.Study},
	) >= duplicateFieldThreshold
}

// completeness is the count of non-null fields in the record's inspection set.
func backgroundCompleteness(b *career.ProfessionalBackground) int {
	n := 0
	for _, s := range []string{b.Employer, b.Position, b.Description} {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	if b.SectorID != nil {
		n++
	}
	if b.Start != nil {
		n++
	}
	if b.End != nil {
		n++
	}
	return n
}

func degreeCompleteness(d *career.AcademicDegree) int {
	n := 0
	for _, s := range []string{d.DegreeTitleShort, d.DegreeTitleLong, d.Study, d.University} {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	if d.Start != nil {
		n++
	}
	if d.End != nil {
		n++
	}
	return n
}

// survivor picks the record to keep: higher completeness wins, a tie keeps
// the record with the lower id (first created).
func survivor(idA, scoreA, idB, scoreB uint) (keep, drop uint) {
	if scoreA > scoreB {
		return idA, idB
	}
	if scoreB > scoreA {
		return idB, idA
	}
	if idA <= idB {
		return idA, idB
	}
	return idB, idA
}

func (e *Engine) dedupeBackgrounds(ctx context.Context, employeeID uint) (int, error) {
	items, err := e.backgrounds.ListByEmployee(ctx, employeeID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to list professional backgrounds")
	}

	merged := 0
	removed := map[uint]bool{}
	for i := 0; i < len(items); i++ {
		if removed[items[i].ID] {
			continue
		}
		for j := i + 1; j < len(items); j++ {
			if removed[items[j].ID] {
				continue
			}
			if !backgroundsDuplicate(items[i], items[j]) {
				continue
			}
			keep, drop := survivor(
				items[i].ID, uint(backgroundCompleteness(items[i])),
				items[j].ID, uint(backgroundCompleteness(items[j])),
			)
			if err := e.removeBackground(ctx, drop); err != nil {
				return merged, err
			}
			removed[drop] = true
			merged++
			e.bus.Publish(&MergedEvent{Entity: "professional_background", KeptID: keep, RemovedID: drop})
			if drop == items[i].ID {
				break
			}
		}
	}
	return merged, nil
}

// removeBackground deletes the background and, first, any external project
// activities that copied their role from it.
func (e *Engine) removeBackground(ctx context.Context, id uint) error {
	return e.inTx(ctx, func(txCtx context.Context) error {
		n, err := e.activities.DeleteByBackground(txCtx, id)
		if err != nil {
			return errors.Wrap(err, "failed to delete dependent project activities")
		}
		if n > 0 {
			e.logger.WithFields(logrus.Fields{
				"background": id,
				"activities": n,
			}).Info("removed dependent external project activities")
		}
		if err := e.backgrounds.Delete(txCtx, id); err != nil {
			if errors.Is(err, career.ErrBackgroundNotFound) {
				e.logger.WithField("background", id).Warn("background already deleted")
				return nil
			}
			return err
		}
		return nil
	})
}

func (e *Engine) dedupeDegrees(ctx context.Context, employeeID uint) (int, error) {
	items, err := e.degrees.ListByEmployee(ctx, employeeID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to list academic degrees")
	}

	merged := 0
	removed := map[uint]bool{}
	for i := 0; i < len(items); i++ {
		if removed[items[i].ID] {
			continue
		}
		for j := i + 1; j < len(items); j++ {
			if removed[items[j].ID] {
				continue
			}
			if !degreesDuplicate(items[i], items[j]) {
				continue
			}
			keep, drop := survivor(
				items[i].ID, uint(degreeCompleteness(items[i])),
				items[j].ID, uint(degreeCompleteness(items[j])),
			)
			if err := e.removeDegree(ctx, drop); err != nil {
				return merged, err
			}
			removed[drop] = true
			merged++
			e.bus.Publish(&MergedEvent{Entity: "academic_degree", KeptID: keep, RemovedID: drop})
			if drop == items[i].ID {
				break
			}
		}
	}
	return merged, nil
}

func (e *Engine) removeDegree(ctx context.Context, id uint) error {
	return e.inTx(ctx, func(txCtx context.Context) error {
		if err := e.degrees.Delete(txCtx, id); err != nil {
			if errors.Is(err, career.ErrDegreeNotFound) {
				e.logger.WithField("degree", id).Warn("degree already deleted")
				return nil
			}
			return err
		}
		return nil
	})
}

func (e *Engine) dedupeSkills(ctx context.Context) (int, error) {
	skills, err := e.skills.List(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to list skills")
	}

	merged := 0
	removed := map[uint]bool{}
	for i := 0; i < len(skills); i++ {
		if removed[skills[i].ID] {
			continue
		}
		for j := i + 1; j < len(skills); j++ {
			if removed[skills[j].ID] {
				continue
			}
			if normalizeValue(skills[i].Title) != normalizeValue(skills[j].Title) {
				e.hintNearMiss("skill", skills[i].Title, skills[j].Title)
				continue
			}
			// List is id-ordered, so the earlier row survives.
			keep, drop := skills[i].ID, skills[j].ID
			if err := e.removeSkill(ctx, drop); err != nil {
				return merged, err
			}
			removed[drop] = true
			merged++
			e.bus.Publish(&MergedEvent{Entity: "skill", KeptID: keep, RemovedID: drop})
		}
	}
	return merged, nil
}

func (e *Engine) removeSkill(ctx context.Context, id uint) error {
	return e.inTx(ctx, func(txCtx context.Context) error {
		if _, err := e.skills.DeleteLinksBySkill(txCtx, id); err != nil {
			return errors.Wrap(err, "failed to delete skill links")
		}
		if err := e.skills.Delete(txCtx, id); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				e.logger.WithField("skill", id).Warn("skill already deleted")
				return nil
			}
			return err
		}
		return nil
	})
}

func (e *Engine) dedupeCertificates(ctx context.Context) (int, error) {
	certs, err := e.certificates.List(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to list certificates")
	}

	merged := 0
	removed := map[uint]bool{}
	for i := 0; i < len(certs); i++ {
		if removed[certs[i].ID] {
			continue
		}
		for j := i + 1; j < len(certs); j++ {
			if removed[certs[j].ID] {
				continue
			}
			if normalizeValue(certs[i].Title) != normalizeValue(certs[j].Title) {
				e.hintNearMiss("certificate", certs[i].Title, certs[j].Title)
				continue
			}
			keep, drop := certs[i].ID, certs[j].ID
			if err := e.removeCertificate(ctx, drop); err != nil {
				return merged, err
			}
			removed[drop] = true
			merged++
			e.bus.Publish(&MergedEvent{Entity: "certificate", KeptID: keep, RemovedID: drop})
		}
	}
	return merged, nil
}

func (e *Engine) removeCertificate(ctx context.Context, id uint) error {
	return e.inTx(ctx, func(txCtx context.Context) error {
		if _, err := e.certificates.DeleteLinksByCertificate(txCtx, id); err != nil {
			return errors.Wrap(err, "failed to delete certificate links")
		}
		if err := e.certificates.Delete(txCtx, id); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				e.logger.WithField("certificate", id).Warn("certificate already deleted")
				return nil
			}
			return err
		}
		return nil
	})
}

// hintNearMiss logs title pairs that differ only by a small edit distance.
// They are never merged automatically, somebody has to look at them.
func (e *Engine) hintNearMiss(entity, a, b string) {
	na, nb := normalizeValue(a), normalizeValue(b)
	if na == nb {
		return
	}
	if d := fuzzy.LevenshteinDistance(na, nb); d > 0 && d <= 2 {
		e.logger.WithFields(logrus.Fields{
			"entity": entity,
			"a":      a,
			"b":      b,
		}).Info("near-duplicate titles left untouched")
	}
}
