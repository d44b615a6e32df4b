package importer

import (
	"context"
	"fmt"
	"sort"

	"github.com/profilwerk/skillsheet/modules/staffing/domain/aggregates/employee"
	"github.com/profilwerk/skillsheet/modules/staffing/domain/entities/career"
	"github.com/profilwerk/skillsheet/modules/staffing/domain/entities/catalog"
	"github.com/profilwerk/skillsheet/modules/staffing/domain/entities/project"
)

type employeeRepositoryMock struct {
	seq   uint
	items map[uint]*employee.Employee
}

func newEmployeeRepositoryMock() *employeeRepositoryMock {
	return &employeeRepositoryMock{items: map[uint]*employee.Employee{}}
}

func (m *employeeRepositoryMock) GetByID(_ context.Context, id uint) (*employee.Employee, error) {
	if e, ok := m.items[id]; ok {
		return e, nil
	}
	return nil, employee.ErrNotFound
}

func (m *employeeRepositoryMock) GetByPseudonym(_ context.Context, pseudonym string) (*employee.Employee, error) {
	for _, e := range m.items {
		if e.Pseudonym == pseudonym {
			return e, nil
		}
	}
	return nil, employee.ErrNotFound
}

func (m *employeeRepositoryMock) GetAll(_ context.Context) ([]*employee.Employee, error) {
	out := make([]*employee.Employee, 0, len(m.items))
	for _, e := range m.items {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *employeeRepositoryMock) Count(_ context.Context) (int64, error) {
	return int64(len(m.items)), nil
}

func (m *employeeRepositoryMock) Create(_ context.Context, data *employee.Employee) (*employee.Employee, error) {
	m.seq++
	data.ID = m.seq
	m.items[data.ID] = data
	return data, nil
}

func (m *employeeRepositoryMock) Update(_ context.Context, data *employee.Employee) error {
	if _, ok := m.items[data.ID]; !ok {
		return employee.ErrNotFound
	}
	m.items[data.ID] = data
	return nil
}

func (m *employeeRepositoryMock) SetCounselor(_ context.Context, id uint, counselorID uint) error {
	e, ok := m.items[id]
	if !ok {
		return employee.ErrNotFound
	}
	e.CounselorID = &counselorID
	return nil
}

type backgroundRepositoryMock struct {
	seq   uint
	items []*career.ProfessionalBackground
}

func (m *backgroundRepositoryMock) ListByEmployee(_ context.Context, employeeID uint) ([]*career.ProfessionalBackground, error) {
	var out []*career.ProfessionalBackground
	for _, b := range m.items {
		if b.EmployeeID == employeeID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *backgroundRepositoryMock) MostRecentByEmployee(_ context.Context, employeeID uint) (*career.ProfessionalBackground, error) {
	var recent *career.ProfessionalBackground
	for _, b := range m.items {
		if b.EmployeeID != employeeID {
			continue
		}
		if recent == nil {
			recent = b
			continue
		}
		if b.Start != nil && (recent.Start == nil || b.Start.After(*recent.Start)) {
			recent = b
		}
	}
	if recent == nil {
		return nil, career.ErrBackgroundNotFound
	}
	return recent, nil
}

func (m *backgroundRepositoryMock) Create(_ context.Context, data *career.ProfessionalBackground) (*career.ProfessionalBackground, error) {
	m.seq++
	data.ID = m.seq
	m.items = append(m.items, data)
	return data, nil
}

func (m *backgroundRepositoryMock) Delete(_ context.Context, id uint) error {
	for i, b := range m.items {
		if b.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return career.ErrBackgroundNotFound
}

type degreeRepositoryMock struct {
	seq   uint
	items []*career.AcademicDegree
}

func (m *degreeRepositoryMock) ListByEmployee(_ context.Context, employeeID uint) ([]*career.AcademicDegree, error) {
	var out []*career.AcademicDegree
	for _, d := range m.items {
		if d.EmployeeID == employeeID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *degreeRepositoryMock) Create(_ context.Context, data *career.AcademicDegree) (*career.AcademicDegree, error) {
	m.seq++
	data.ID = m.seq
	m.items = append(m.items, data)
	return data, nil
}

func (m *degreeRepositoryMock) Delete(_ context.Context, id uint) error {
	for i, d := range m.items {
		if d.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return career.ErrDegreeNotFound
}

type vocationalRepositoryMock struct {
	seq   uint
	items []*career.VocationalRecord
}

func (m *vocationalRepositoryMock) ListByEmployee(_ context.Context, employeeID uint) ([]*career.VocationalRecord, error) {
	var out []*career.VocationalRecord
	for _, v := range m.items {
		if v.EmployeeID == employeeID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *vocationalRepositoryMock) Create(_ context.Context, data *career.VocationalRecord) (*career.VocationalRecord, error) {
	m.seq++
	data.ID = m.seq
	m.items = append(m.items, data)
	return data, nil
}

func (m *vocationalRepositoryMock) Delete(_ context.Context, id uint) error {
	for i, v := range m.items {
		if v.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return career.ErrVocationalNotFound
}

type activityRepositoryMock struct {
	seq   uint
	items []*project.Activity
}

func (m *activityRepositoryMock) ListByEmployee(_ context.Context, employeeID uint) ([]*project.Activity, error) {
	var out []*project.Activity
	for _, a := range m.items {
		if a.EmployeeID == employeeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *activityRepositoryMock) Create(_ context.Context, data *project.Activity) (*project.Activity, error) {
	m.seq++
	data.ID = m.seq
	m.items = append(m.items, data)
	return data, nil
}

func (m *activityRepositoryMock) Delete(_ context.Context, id uint) error {
	for i, a := range m.items {
		if a.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return project.ErrActivityNotFound
}

func (m *activityRepositoryMock) DeleteByBackground(_ context.Context, backgroundID uint) (int64, error) {
	var kept []*project.Activity
	var n int64
	for _, a := range m.items {
		if a.Kind == project.ActivityExternal && a.BackgroundID != nil && *a.BackgroundID == backgroundID {
			n++
			continue
		}
		kept = append(kept, a)
	}
	m.items = kept
	return n, nil
}

// catalogMock backs the resolver and both link pools with plain maps.
type catalogMock struct {
	seq       uint
	entries   map[string]uint
	skillLink []*catalog.SkillLink
	certLink  []*catalog.CertificateLink
}

func newCatalogMock() *catalogMock {
	return &catalogMock{entries: map[string]uint{}}
}

func (m *catalogMock) Resolve(_ context.Context, kind catalog.Kind, key string) (uint, error) {
	k := string(kind) + "/" + key
	if id, ok := m.entries[k]; ok {
		return id, nil
	}
	m.seq++
	m.entries[k] = m.seq
	return m.seq, nil
}

func (m *catalogMock) ResolveProject(_ context.Context, title string, organisationID *uint) (uint, error) {
	k := "project/" + title
	if organisationID != nil {
		k = fmt.Sprintf("%s/%d", k, *organisationID)
	}
	if id, ok := m.entries[k]; ok {
		return id, nil
	}
	m.seq++
	m.entries[k] = m.seq
	return m.seq, nil
}

func (m *catalogMock) List(_ context.Context) ([]*catalog.Skill, error) {
	return nil, nil
}

func (m *catalogMock) Delete(_ context.Context, _ uint) error {
	return catalog.ErrNotFound
}

func (m *catalogMock) CreateLink(_ context.Context, link *catalog.SkillLink) (*catalog.SkillLink, error) {
	m.seq++
	link.ID = m.seq
	m.skillLink = append(m.skillLink, link)
	return link, nil
}

func (m *catalogMock) DeleteLinksBySkill(_ context.Context, skillID uint) (int64, error) {
	var kept []*catalog.SkillLink
	var n int64
	for _, l := range m.skillLink {
		if l.SkillID == skillID {
			n++
			continue
		}
		kept = append(kept, l)
	}
	m.skillLink = kept
	return n, nil
}

type certificatePoolMock struct {
	catalogs *catalogMock
}

func (m *certificatePoolMock) List(_ context.Context) ([]*catalog.Certificate, error) {
	return nil, nil
}

func (m *certificatePoolMock) Delete(_ context.Context, _ uint) error {
	return catalog.ErrNotFound
}

func (m *certificatePoolMock) CreateLink(_ context.Context, link *catalog.CertificateLink) (*catalog.CertificateLink, error) {
	m.catalogs.seq++
	link.ID = m.catalogs.seq
	m.catalogs.certLink = append(m.catalogs.certLink, link)
	return link, nil
}

func (m *certificatePoolMock) DeleteLinksByCertificate(_ context.Context, certificateID uint) (int64, error) {
	var kept []*catalog.CertificateLink
	var n int64
	for _, l := range m.catalogs.certLink {
		if l.CertificateID == certificateID {
			n++
			continue
		}
		kept = append(kept, l)
	}
	m.catalogs.certLink = kept
	return n, nil
}
