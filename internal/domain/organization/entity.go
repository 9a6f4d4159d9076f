package organization

import "time"

type Organization struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Holiday marks a calendar date. Holidays may be organization-wide or
// restricted by a rule evaluated upstream; the engine only needs the
// per-user applicability answer.
type Holiday struct {
	ID             string
	OrganizationID string
	Name           string
	Date           time.Time
}

// FiscalYear is the organization's reporting year, divided into months
// used as monthly limit windows.
type FiscalYear struct {
	ID             string
	OrganizationID string
	Name           string
	StartAt        time.Time
	EndAt          time.Time
	Months         []FiscalMonth
}

type FiscalMonth struct {
	ID           string
	FiscalYearID string
	Index        int
	StartAt      time.Time
	EndAt        time.Time
}

// MonthFor returns the fiscal month containing date, or false.
func (fy FiscalYear) MonthFor(date time.Time) (FiscalMonth, bool) {
	d := date.Truncate(24 * time.Hour)
	for _, m := range fy.Months {
		if !d.Before(m.StartAt) && !d.After(m.EndAt) {
			return m, true
		}
	}
	return FiscalMonth{}, false
}
