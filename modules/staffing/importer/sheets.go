package importer

// SheetKind enumerates the seven sheet shapes of an employee workbook. Each
// kind carries its layout strategy and field-mapping table; the assembler
// dispatches on the kind, so adding a shape means extending these tables and
// the assembler switch, all checked at compile time.
type SheetKind int

const (
	SheetIdentity SheetKind = iota
	SheetBackground
	SheetDegree
	SheetVocational
	SheetProject
	SheetCertificate
	SheetSkill
)

func (k SheetKind) String() string {
	return sheetSpecs[k].Name
}

type FieldType int

const (
	FieldText FieldType = iota
	FieldDate
	FieldBool
	FieldInt
)

// FieldSpec names the canonical field a source label maps to and the value
// transform applied to it.
type FieldSpec struct {
	Name string
	Type FieldType
}

type sheetSpec struct {
	Name   string
	Layout LayoutKind
	Fields map[string]FieldSpec
}

// tableKinds are iterated per workbook after the identity sheet.
var tableKinds = []SheetKind{
	SheetBackground,
	SheetDegree,
	SheetVocational,
	SheetProject,
	SheetCertificate,
	SheetSkill,
}

var sheetSpecs = map[SheetKind]sheetSpec{
	SheetIdentity: {
		Name:   "Mitarbeiter",
		Layout: LayoutVertical,
		Fields: map[string]FieldSpec{
			"Kürzel":                           {Name: "pseudonym"},
			"Vorname":                          {Name: "firstName"},
			"Nachname":                         {Name: "lastName"},
			"Karrierestufe":                    {Name: "rank"},
			"Standort":                         {Name: "location"},
			"Vertragsbeginn":                   {Name: "contractStart", Type: FieldDate},
			"Erfahrung IT":                     {Name: "experienceIT", Type: FieldInt},
			"Erfahrung Informationssicherheit": {Name: "experienceInfoSec", Type: FieldInt},
			"Erfahrung IT-Grundschutz":         {Name: "experienceITBaseline", Type: FieldInt},
			"Erfahrung öffentlicher Dienst":    {Name: "experiencePublicSector", Type: FieldInt},
			"Beschreibung":                     {Name: "description"},
			"Betreuer":                         {Name: "counselor"},
		},
	},
	SheetBackground: {
		Name:   "Beruflicher Werdegang",
		Layout: LayoutTable,
		Fields: map[string]FieldSpec{
			"Arbeitgeber":      {Name: "employer"},
			"Position":         {Name: "position"},
			"Führungsposition": {Name: "executive", Type: FieldBool},
			"Branche":          {Name: "sector"},
			"Beschreibung":     {Name: "description"},
			"Beginn":           {Name: "start", Type: FieldDate},
			"Ende":             {Name: "end", Type: FieldDate},
		},
	},
	SheetDegree: {
		Name:   "Studium",
		Layout: LayoutTable,
		Fields: map[string]FieldSpec{
			"Abschluss":            {Name: "degreeTitleShort"},
			"Abschlussbezeichnung": {Name: "degreeTitleLong"},
			"Studienfach":          {Name: "study"},
			"Hochschule":           {Name: "university"},
			"Beginn":               {Name: "start", Type: FieldDate},
			"Ende":                 {Name: "end", Type: FieldDate},
			"Abgeschlossen":        {Name: "completed", Type: FieldBool},
		},
	},
	SheetVocational: {
		Name:   "Berufsausbildung",
		Layout: LayoutTable,
		Fields: map[string]FieldSpec{
			"Unternehmen":            {Name: "company"},
			"Ausbildungsbezeichnung": {Name: "title"},
			"Branche":                {Name: "sector"},
			"Beginn":                 {Name: "start", Type: FieldDate},
			"Ende":                   {Name: "end", Type: FieldDate},
			// Derived by equality against "ja", not the strict boolean literal.
			"IT-relevant": {Name: "itRelevant"},
		},
	},
	SheetProject: {
		Name:   "Projekthistorie",
		Layout: LayoutTable,
		Fields: map[string]FieldSpec{
			"Projekttitel": {Name: "title"},
			"Auftraggeber": {Name: "client"},
			"Organisation": {Name: "organisation"},
			"Rolle":        {Name: "role"},
			"Beschreibung": {Name: "description"},
			"Beginn":       {Name: "start", Type: FieldDate},
			"Ende":         {Name: "end", Type: FieldDate},
		},
	},
	SheetCertificate: {
		Name:   "Zertifikate",
		Layout: LayoutTable,
		Fields: map[string]FieldSpec{
			"Zertifikat": {Name: "title"},
			"Gültig bis": {Name: "validUntil", Type: FieldDate},
			"Aussteller": {Name: "issuer"},
		},
	},
	SheetSkill: {
		Name:   "Qualifikation",
		Layout: LayoutTable,
		Fields: map[string]FieldSpec{
			"Qualifikation": {Name: "title"},
			"Niveau":        {Name: "level"},
		},
	},
}

// mintKeywords flag a field of study as a MINT discipline.
var mintKeywords = []string{
	"informatik",
	"mathematik",
	"physik",
	"chemie",
	"biologie",
	"ingenieur",
	"elektrotechnik",
	"maschinenbau",
	"naturwissenschaft",
	"technik",
}
