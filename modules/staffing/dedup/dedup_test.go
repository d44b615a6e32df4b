package dedup

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/profilwerk/skillsheet/modules/staffing/domain/aggregates/employee"
	"github.com/profilwerk/skillsheet/modules/staffing/domain/entities/career"
	"github.com/profilwerk/skillsheet/modules/staffing/domain/entities/catalog"
	"github.com/profilwerk/skillsheet/modules/staffing/domain/entities/project"
	"github.com/profilwerk/skillsheet/pkg/eventbus"
)

type employeeRepositoryStub struct {
	items []*employee.Employee
}

func (s *employeeRepositoryStub) GetByID(_ context.Context, _ uint) (*employee.Employee, error) {
	return nil, employee.ErrNotFound
}

func (s *employeeRepositoryStub) GetByPseudonym(_ context.Context, _ string) (*employee.Employee, error) {
	return nil, employee.ErrNotFound
}

func (s *employeeRepositoryStub) GetAll(_ context.Context) ([]*employee.Employee, error) {
	return s.items, nil
}

func (s *employeeRepositoryStub) Count(_ context.Context) (int64, error) {
	return int64(len(s.items)), nil
}

func (s *employeeRepositoryStub) Create(_ context.Context, data *employee.Employee) (*employee.Employee, error) {
	s.items = append(s.items, data)
	return data, nil
}

func (s *employeeRepositoryStub) Update(_ context.Context, _ *employee.Employee) error {
	return nil
}

func (s *employeeRepositoryStub) SetCounselor(_ context.Context, _, _ uint) error {
	return nil
}

type backgroundRepositoryStub struct {
	items []*career.ProfessionalBackground
}

func (s *backgroundRepositoryStub) ListByEmployee(_ context.Context, employeeID uint) ([]*career.ProfessionalBackground, error) {
	var out []*career.ProfessionalBackground
	for _, b := range s.items {
		if b.EmployeeID == employeeID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *backgroundRepositoryStub) MostRecentByEmployee(_ context.Context, _ uint) (*career.ProfessionalBackground, error) {
	return nil, career.ErrBackgroundNotFound
}

func (s *backgroundRepositoryStub) Create(_ context.Context, data *career.ProfessionalBackground) (*career.ProfessionalBackground, error) {
	s.items = append(s.items, data)
	return data, nil
}

func (s *backgroundRepositoryStub) Delete(_ context.Context, id uint) error {
	for i, b := range s.items {
		if b.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return career.ErrBackgroundNotFound
}

type degreeRepositoryStub struct {
	items     []*career.AcademicDegree
	deleteErr error
}

func (s *degreeRepositoryStub) ListByEmployee(_ context.Context, employeeID uint) ([]*career.AcademicDegree, error) {
	var out []*career.AcademicDegree
	for _, d := range s.items {
		if d.EmployeeID == employeeID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *degreeRepositoryStub) Create(_ context.Context, data *career.AcademicDegree) (*career.AcademicDegree, error) {
	s.items = append(s.items, data)
	return data, nil
}

func (s *degreeRepositoryStub) Delete(_ context.Context, id uint) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i, d := range s.items {
		if d.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return career.ErrDegreeNotFound
}

type activityRepositoryStub struct {
	items []*project.Activity
}

func (s *activityRepositoryStub) ListByEmployee(_ context.Context, employeeID uint) ([]*project.Activity, error) {
	var out []*project.Activity
	for _, a := range s.items {
		if a.EmployeeID == employeeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *activityRepositoryStub) Create(_ context.Context, data *project.Activity) (*project.Activity, error) {
	s.items = append(s.items, data)
	return data, nil
}

func (s *activityRepositoryStub) Delete(_ context.Context, _ uint) error {
	return project.ErrActivityNotFound
}

func (s *activityRepositoryStub) DeleteByBackground(_ context.Context, backgroundID uint) (int64, error) {
	var kept []*project.Activity
	var n int64
	for _, a := range s.items {
		if a.Kind == project.ActivityExternal && a.BackgroundID != nil && *a.BackgroundID == backgroundID {
			n++
			continue
		}
		kept = append(kept, a)
	}
	s.items = kept
	return n, nil
}

type skillRepositoryStub struct {
	items []*catalog.Skill
	links []*catalog.SkillLink
}

func (s *skillRepositoryStub) List(_ context.Context) ([]*catalog.Skill, error) {
	return s.items, nil
}

func (s *skillRepositoryStub) Delete(_ context.Context, id uint) error {
	for i, sk := range s.items {
		if sk.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return catalog.ErrNotFound
}

func (s *skillRepositoryStub) CreateLink(_ context.Context, link *catalog.SkillLink) (*catalog.SkillLink, error) {
	s.links = append(s.links, link)
	return link, nil
}

func (s *skillRepositoryStub) DeleteLinksBySkill(_ context.Context, skillID uint) (int64, error) {
	var kept []*catalog.SkillLink
	var n int64
	for _, l := range s.links {
		if l.SkillID == skillID {
			n++
			continue
		}
		kept = append(kept, l)
	}
	s.links = kept
	return n, nil
}

type certificateRepositoryStub struct {
	items []*catalog.Certificate
	links []*catalog.CertificateLink
}

func (s *certificateRepositoryStub) List(_ context.Context) ([]*catalog.Certificate, error) {
	return s.items, nil
}

func (s *certificateRepositoryStub) Delete(_ context.Context, id uint) error {
	for i, c := range s.items {
		if c.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return catalog.ErrNotFound
}

func (s *certificateRepositoryStub) CreateLink(_ context.Context, link *catalog.CertificateLink) (*catalog.CertificateLink, error) {
	s.links = append(s.links, link)
	return link, nil
}

func (s *certificateRepositoryStub) DeleteLinksByCertificate(_ context.Context, certificateID uint) (int64, error) {
	var kept []*catalog.CertificateLink
	var n int64
	for _, l := range s.links {
		if l.CertificateID == certificateID {
			n++
			continue
		}
		kept = append(kept, l)
	}
	s.links = kept
	return n, nil
}

type engineFixture struct {
	engine       *Engine
	employees    *employeeRepositoryStub
	backgrounds  *backgroundRepositoryStub
	degrees      *degreeRepositoryStub
	activities   *activityRepositoryStub
	skills       *skillRepositoryStub
	certificates *certificateRepositoryStub
	txCalls      int
}

func newEngineFixture() *engineFixture {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	f := &engineFixture{
		employees:    &employeeRepositoryStub{},
		backgrounds:  &backgroundRepositoryStub{},
		degrees:      &degreeRepositoryStub{},
		activities:   &activityRepositoryStub{},
		skills:       &skillRepositoryStub{},
		certificates: &certificateRepositoryStub{},
	}
	inTx := func(ctx context.Context, fn func(context.Context) error) error {
		f.txCalls++
		return fn(ctx)
	}
	f.engine = NewEngine(
		f.employees,
		f.backgrounds,
		f.degrees,
		f.activities,
		f.skills,
		f.certificates,
		inTx,
		eventbus.NewEventPublisher(logger),
		logger,
	)
	return f
}

func (f *engineFixture) addEmployee(id uint) {
	f.employees.items = append(f.employees.items, &employee.Employee{ID: id, Pseudonym: "E"})
}

func TestEngine_MergesDegrees(t *testing.T) {
	f := newEngineFixture()
	f.addEmployee(1)

	start := time.Date(2010, 10, 1, 0, 0, 0, 0, time.UTC)
	f.degrees.items = []*career.AcademicDegree{
		{ID: 1, EmployeeID: 1, DegreeTitleShort: "M.Sc.", University: "Uni Bonn", Study: "Informatik"},
		{ID: 2, EmployeeID: 1, DegreeTitleShort: "MSc", University: "uni  bonn", Study: "INFORMATIK", Start: &start},
	}

	stats, err := f.engine.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, stats.DegreesMerged)
	require.Len(t, f.degrees.items, 1)
	require.Equal(t, uint(2), f.degrees.items[0].ID,
		"the record with more populated fields survives")
}

func TestEngine_DegreeTieKeepsFirstCreated(t *testing.T) {
	f := newEngineFixture()
	f.addEmployee(1)

	f.degrees.items = []*career.AcademicDegree{
		{ID: 4, EmployeeID: 1, University: "Uni Bonn", Study: "Informatik"},
		{ID: 9, EmployeeID: 1, University: "Uni Bonn", Study: "Informatik"},
	}

	stats, err := f.engine.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, stats.DegreesMerged)
	require.Len(t, f.degrees.items, 1)
	require.Equal(t, uint(4), f.degrees.items[0].ID)
}

func TestEngine_DegreeAlreadyDeletedIsBenign(t *testing.T) {
	f := newEngineFixture()
	f.addEmployee(1)

	f.degrees.items = []*career.AcademicDegree{
		{ID: 1, EmployeeID: 1, University: "Uni Bonn", Study: "Informatik"},
		{ID: 2, EmployeeID: 1, University: "uni bonn", Study: "informatik"},
	}
	f.degrees.deleteErr = career.ErrDegreeNotFound

	stats, err := f.engine.Run(context.Background())
	require.NoError(t, err, "a degree removed by a concurrent run must not fail the merge")
	require.Equal(t, 1, stats.DegreesMerged)
}

func TestEngine_SingleFieldMatchIsNotADuplicate(t *testing.T) {
	f := newEngineFixture()
	f.addEmployee(1)

	f.degrees.items = []*career.AcademicDegree{
		{ID: 1, EmployeeID: 1, University: "Uni Bonn", Study: "Informatik"},
		{ID: 2, EmployeeID: 1, University: "Uni Bonn", Study: "Physik"},
	}

	stats, err := f.engine.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 0, stats.DegreesMerged)
	require.Len(t, f.degrees.items, 2)
}

func TestEngine_BackgroundMergeCascadesActivities(t *testing.T) {
	f := newEngineFixture()
	f.addEmployee(1)

	sector := uint(7)
	f.backgrounds.items = []*career.ProfessionalBackground{
		{ID: 1, EmployeeID: 1, Employer: "Acme GmbH", Position: "Berater", SectorID: &sector},
		{ID: 2, EmployeeID: 1, Employer: "acme gmbh", Position: "Berater"},
	}
	dropped := uint(2)
	f.activities.items = []*project.Activity{
		{ID: 1, EmployeeID: 1, Kind: project.ActivityExternal, BackgroundID: &dropped, Title: "Audit"},
		{ID: 2, EmployeeID: 1, Kind: project.ActivityInternal, Title: "Migration"},
	}

	stats, err := f.engine.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, stats.BackgroundsMerged)
	require.Len(t, f.backgrounds.items, 1)
	require.Equal(t, uint(1), f.backgrounds.items[0].ID)
	require.Len(t, f.activities.items, 1,
		"external activities of the removed background must go with it")
	require.Equal(t, project.ActivityInternal, f.activities.items[0].Kind)
	require.GreaterOrEqual(t, f.txCalls, 1, "each merge runs inside a transaction")
}

func TestEngine_MergesSkillPoolByNormalizedTitle(t *testing.T) {
	f := newEngineFixture()

	f.skills.items = []*catalog.Skill{
		{ID: 1, Title: "Go"},
		{ID: 2, Title: " go "},
		{ID: 3, Title: "Rust"},
	}
	f.skills.links = []*catalog.SkillLink{
		{ID: 1, EmployeeID: 1, SkillID: 1},
		{ID: 2, EmployeeID: 2, SkillID: 2},
	}

	stats, err := f.engine.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, stats.SkillsMerged)
	require.Len(t, f.skills.items, 2)
	require.Equal(t, uint(1), f.skills.items[0].ID)
	require.Len(t, f.skills.links, 1, "links of the removed entry are deleted")
	require.Equal(t, uint(1), f.skills.links[0].SkillID)
}

func TestEngine_MergesCertificatePool(t *testing.T) {
	f := newEngineFixture()

	f.certificates.items = []*catalog.Certificate{
		{ID: 1, Title: "CISSP"},
		{ID: 2, Title: "cissp"},
	}
	f.certificates.links = []*catalog.CertificateLink{
		{ID: 1, EmployeeID: 1, CertificateID: 2},
	}

	stats, err := f.engine.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, stats.CertificatesMerged)
	require.Len(t, f.certificates.items, 1)
	require.Equal(t, uint(1), f.certificates.items[0].ID)
	require.Empty(t, f.certificates.links)
}

func TestEngine_IdempotentOnCleanStore(t *testing.T) {
	f := newEngineFixture()
	f.addEmployee(1)

	f.degrees.items = []*career.AcademicDegree{
		{ID: 1, EmployeeID: 1, University: "Uni Bonn", Study: "Informatik"},
	}
	f.skills.items = []*catalog.Skill{{ID: 1, Title: "Go"}}

	stats, err := f.engine.Run(context.Background())
	require.NoError(t, err)

	require.Zero(t, stats.DegreesMerged)
	require.Zero(t, stats.SkillsMerged)
	require.Zero(t, f.txCalls)
}

func TestRegisterLogging_ConsumesMergeEvents(t *testing.T) {
	var logBuffer bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&logBuffer)
	logger.SetLevel(logrus.WarnLevel)

	f := newEngineFixture()
	bus := eventbus.NewEventPublisher(logger)
	RegisterLogging(bus, logger)
	f.engine.bus = bus
	f.engine.logger = logger

	f.skills.items = []*catalog.Skill{
		{ID: 1, Title: "Go"},
		{ID: 2, Title: "go"},
	}

	stats, err := f.engine.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, stats.SkillsMerged)
	require.NotContains(t, logBuffer.String(), "no matching subscribers",
		"every published merge event must have a registered handler")
}

func TestNormalizeValue(t *testing.T) {
	require.Equal(t, "acme gmbh", normalizeValue("  Acme   GmbH "))
	require.Equal(t, "", normalizeValue("   "))
}
