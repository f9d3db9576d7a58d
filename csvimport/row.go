// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package csvimport

import (
	"github.com/worldstaffingawards/wsa2026/models"
)

// Row is one parsed data row. It is either a PersonRow or a CompanyRow.
type Row interface {
	Common() *Fields
	NomineeType() string
	// Nominee builds the identity record for this row.
	Nominee() models.Nominee
}

// Fields are the columns shared by both nominee types.
type Fields struct {
	// Number is the 1-based position of the row among the data rows.
	Number       int
	Email        string
	Phone        string
	Country      string
	LinkedIn     string
	Bio          string
	Achievements string
	WhyVote      string
	Category     string

	NominatorName     string
	NominatorEmail    string
	NominatorCompany  string
	NominatorJobTitle string
	NominatorPhone    string
	NominatorCountry  string

	Raw map[string]string
}

type PersonRow struct {
	Fields
	FirstName   string
	LastName    string
	JobTitle    string
	Employer    string
	HeadshotURL string
}

type CompanyRow struct {
	Fields
	CompanyName string
	Website     string
	LogoURL     string
	Industry    string
	CompanySize string
}

func (r *PersonRow) Common() *Fields { return &r.Fields }
func (r *PersonRow) NomineeType() string { return models.NomineePerson }
func (r *CompanyRow) Common() *Fields { return &r.Fields }
func (r *CompanyRow) NomineeType() string { return models.NomineeCompany }

func (r *PersonRow) Nominee() models.Nominee {
	n := r.Fields.nominee(models.NomineePerson)
	n.FirstName = &r.FirstName
	n.LastName = &r.LastName
	n.JobTitle = opt(r.JobTitle)
	n.Employer = opt(r.Employer)
	n.HeadshotURL = opt(r.HeadshotURL)
	return n
}

func (r *CompanyRow) Nominee() models.Nominee {
	n := r.Fields.nominee(models.NomineeCompany)
	n.CompanyName = &r.CompanyName
	n.Website = opt(r.Website)
	n.LogoURL = opt(r.LogoURL)
	n.Industry = opt(r.Industry)
	n.CompanySize = opt(r.CompanySize)
	return n
}

func (f *Fields) nominee(typ string) models.Nominee {
	return models.Nominee{
		Type:         typ,
		Email:        f.Email,
		Phone:        f.Phone,
		Country:      f.Country,
		LinkedIn:     f.LinkedIn,
		Bio:          f.Bio,
		Achievements: f.Achievements,
	}
}

// Nominator builds the nominator record named on the row.
func (f *Fields) Nominator() models.Nominator {
	return models.Nominator{
		Email:    f.NominatorEmail,
		Name:     f.NominatorName,
		Company:  f.NominatorCompany,
		JobTitle: f.NominatorJobTitle,
		Phone:    f.NominatorPhone,
		Country:  f.NominatorCountry,
	}
}

// NewRow maps raw column values onto the typed row for typ.
func NewRow(typ string, number int, raw map[string]string) Row {
	f := Fields{
		Number:            number,
		Email:             raw["email"],
		Phone:             raw["phone"],
		Country:           raw["country"],
		LinkedIn:          raw["linkedin"],
		Bio:               raw["bio"],
		Achievements:      raw["achievements"],
		WhyVote:           raw["why_vote_for_me"],
		Category:          raw["category"],
		NominatorName:     raw["nominator_name"],
		NominatorEmail:    raw["nominator_email"],
		NominatorCompany:  raw["nominator_company"],
		NominatorJobTitle: raw["nominator_job_title"],
		NominatorPhone:    raw["nominator_phone"],
		NominatorCountry:  raw["nominator_country"],
		Raw:               raw,
	}
	if typ == models.NomineeCompany {
		return &CompanyRow{
			Fields:      f,
			CompanyName: raw["company_name"],
			Website:     raw["website"],
			LogoURL:     raw["logo_url"],
			Industry:    raw["industry"],
			CompanySize: raw["company_size"],
		}
	}
	return &PersonRow{
		Fields:      f,
		FirstName:   raw["first_name"],
		LastName:    raw["last_name"],
		JobTitle:    raw["job_title"],
		Employer:    raw["company_name"],
		HeadshotURL: raw["headshot_url"],
	}
}

func opt(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
