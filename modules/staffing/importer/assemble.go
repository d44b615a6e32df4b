package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/profilwerk/skillsheet/modules/staffing/domain/entities/career"
	"github.com/profilwerk/skillsheet/modules/staffing/domain/entities/catalog"
	"github.com/profilwerk/skillsheet/modules/staffing/domain/entities/project"
)

// Assembler builds and persists the owned records of one employee from
// canonical sheet records, resolving reference fields through the catalog
// resolver first.
type Assembler struct {
	resolver     catalog.Resolver
	backgrounds  career.BackgroundRepository
	degrees      career.DegreeRepository
	vocational   career.VocationalRepository
	activities   project.ActivityRepository
	skills       catalog.SkillRepository
	certificates catalog.CertificateRepository
	logger       *logrus.Logger
}

func NewAssembler(
	resolver catalog.Resolver,
	backgrounds career.BackgroundRepository,
	degrees career.DegreeRepository,
	vocational career.VocationalRepository,
	activities project.ActivityRepository,
	skills catalog.SkillRepository,
	certificates catalog.CertificateRepository,
	logger *logrus.Logger,
) *Assembler {
	return &Assembler{
		resolver:     resolver,
		backgrounds:  backgrounds,
		degrees:      degrees,
		vocational:   vocational,
		activities:   activities,
		skills:       skills,
		certificates: certificates,
		logger:       logger,
	}
}

// AssembleRow dispatches one canonical record to the builder for its sheet
// kind. A *SkipError return means the row is invalid and must be dropped.
func (a *Assembler) AssembleRow(ctx context.Context, kind SheetKind, employeeID uint, rec map[string]any) error {
	switch kind {
	case SheetBackground:
		return a.assembleBackground(ctx, employeeID, rec)
	case SheetDegree:
		return a.assembleDegree(ctx, employeeID, rec)
	case SheetVocational:
		return a.assembleVocational(ctx, employeeID, rec)
	case SheetProject:
		return a.assembleProject(ctx, employeeID, rec)
	case SheetCertificate:
		return a.assembleCertificate(ctx, employeeID, rec)
	case SheetSkill:
		return a.assembleSkill(ctx, employeeID, rec)
	default:
		return fmt.Errorf("no assembler for sheet kind %d", kind)
	}
}

func (a *Assembler) assembleBackground(ctx context.Context, employeeID uint, rec map[string]any) error {
	sectorID, err := a.resolveOptional(ctx, catalog.KindSector, getString(rec, "sector"))
	if err != nil {
		return err
	}

	_, err = a.backgrounds.Create(ctx, &career.ProfessionalBackground{
		EmployeeID:  employeeID,
		Employer:    getString(rec, "employer"),
		Position:    getString(rec, "position"),
		Executive:   getBool(rec, "executive"),
		SectorID:    sectorID,
		Description: getString(rec, "description"),
		Start:       getDate(rec, "start"),
		End:         getDate(rec, "end"),
	})
	return err
}

func (a *Assembler) assembleDegree(ctx context.Context, employeeID uint, rec map[string]any) error {
	study := getString(rec, "study")
	_, err := a.degrees.Create(ctx, &career.AcademicDegree{
		EmployeeID:       employeeID,
		DegreeTitleShort: getString(rec, "degreeTitleShort"),
		DegreeTitleLong:  getString(rec, "degreeTitleLong"),
		Study:            study,
		University:       getString(rec, "university"),
		Start:            getDate(rec, "start"),
		End:              getDate(rec, "end"),
		Completed:        getBool(rec, "completed"),
		MINT:             IsMINTField(study),
	})
	return err
}

func (a *Assembler) assembleVocational(ctx context.Context, employeeID uint, rec map[string]any) error {
	sectorID, err := a.resolveOptional(ctx, catalog.KindSector, getString(rec, "sector"))
	if err != nil {
		return err
	}

	_, err = a.vocational.Create(ctx, &career.VocationalRecord{
		EmployeeID: employeeID,
		Company:    getString(rec, "company"),
		Title:      getString(rec, "title"),
		SectorID:   sectorID,
		Start:      getDate(rec, "start"),
		End:        getDate(rec, "end"),
		ITRelevant: strings.EqualFold(getString(rec, "itRelevant"), "ja"),
	})
	return err
}

func (a *Assembler) assembleProject(ctx context.Context, employeeID uint, rec map[string]any) error {
	title := getString(rec, "title")
	if title == "" {
		return Skip("project activity without a resolvable title")
	}

	activity := &project.Activity{
		EmployeeID:  employeeID,
		Title:       title,
		Client:      getString(rec, "client"),
		Description: getString(rec, "description"),
		Start:       getDate(rec, "start"),
		End:         getDate(rec, "end"),
	}

	if orgName := getString(rec, "organisation"); orgName != "" {
		orgID, err := a.resolver.Resolve(ctx, catalog.KindOrganisation, orgName)
		if err != nil {
			return err
		}
		projectID, err := a.resolver.ResolveProject(ctx, title, &orgID)
		if err != nil {
			return err
		}
		activity.Kind = project.ActivityInternal
		activity.ProjectID = &projectID
		if role := getString(rec, "role"); role != "" {
			activity.Role = &role
		}
	} else {
		activity.Kind = project.ActivityExternal
		recent, err := a.backgrounds.MostRecentByEmployee(ctx, employeeID)
		switch {
		case err == nil:
			if recent.Position != "" {
				position := recent.Position
				activity.Role = &position
			}
			activity.BackgroundID = &recent.ID
		case errors.Is(err, career.ErrBackgroundNotFound):
			// no background yet, role stays null
		default:
			return err
		}
	}

	_, err := a.activities.Create(ctx, activity)
	return err
}

func (a *Assembler) assembleCertificate(ctx context.Context, employeeID uint, rec map[string]any) error {
	title := getString(rec, "title")
	if title == "" {
		return Skip("certificate row without a title")
	}

	certificateID, err := a.resolver.Resolve(ctx, catalog.KindCertificate, title)
	if err != nil {
		return err
	}

	_, err = a.certificates.CreateLink(ctx, &catalog.CertificateLink{
		EmployeeID:    employeeID,
		CertificateID: certificateID,
		ValidUntil:    getDate(rec, "validUntil"),
		Issuer:        getString(rec, "issuer"),
	})
	return err
}

func (a *Assembler) assembleSkill(ctx context.Context, employeeID uint, rec map[string]any) error {
	title := getString(rec, "title")
	if title == "" {
		return Skip("skill row without a title")
	}

	skillID, err := a.resolver.Resolve(ctx, catalog.KindSkill, title)
	if err != nil {
		return err
	}

	_, err = a.skills.CreateLink(ctx, &catalog.SkillLink{
		EmployeeID: employeeID,
		SkillID:    skillID,
		Level:      getString(rec, "level"),
	})
	return err
}

func (a *Assembler) resolveOptional(ctx context.Context, kind catalog.Kind, key string) (*uint, error) {
	if key == "" {
		return nil, nil
	}
	id, err := a.resolver.Resolve(ctx, kind, key)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// IsMINTField reports whether a field of study names a MINT discipline.
func IsMINTField(study string) bool {
	study = strings.ToLower(study)
	for _, kw := range mintKeywords {
		if strings.Contains(study, kw) {
			return true
		}
	}
	return false
}
