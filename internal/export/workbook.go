package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"hr-onboarding/internal/models"
)

const SheetName = "Onboarding"

// ContentType is the MIME type of the xlsx workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type column struct {
	title string
	value func(r *models.OnboardingRecord) any
}

var columns = []column{
	{"ID", func(r *models.OnboardingRecord) any { return r.ID }},
	{"Employee ID", func(r *models.OnboardingRecord) any { return r.EmpID }},
	{"Full Name", func(r *models.OnboardingRecord) any { return r.FullName }},
	{"Email", func(r *models.OnboardingRecord) any { return r.Email }},
	{"Phone", func(r *models.OnboardingRecord) any { return r.Phone }},
	{"Date of Birth", func(r *models.OnboardingRecord) any { return str(r.DOB) }},
	{"Department", func(r *models.OnboardingRecord) any { return r.Department }},
	{"Job Role", func(r *models.OnboardingRecord) any { return r.JobRole }},
	{"Start Date", func(r *models.OnboardingRecord) any { return str(r.JobStartDate) }},
	{"City", func(r *models.OnboardingRecord) any { return r.City }},
	{"State", func(r *models.OnboardingRecord) any { return r.State }},
	{"Degree", func(r *models.OnboardingRecord) any { return str(r.Degree) }},
	{"Graduation Year", func(r *models.OnboardingRecord) any { return year(r.GraduationYear) }},
	{"Previous Company", func(r *models.OnboardingRecord) any { return str(r.PrevCompanyName) }},
	{"Emergency Contact", func(r *models.OnboardingRecord) any { return r.EmergencyContactName }},
	{"Emergency Phone", func(r *models.OnboardingRecord) any { return r.EmergencyContactPhone }},
	{"Status", func(r *models.OnboardingRecord) any { return string(r.Status) }},
	{"Submitted At", func(r *models.OnboardingRecord) any { return r.CreatedAt.UTC().Format("2006-01-02 15:04:05") }},
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func year(p *int) any {
	if p == nil {
		return ""
	}
	return *p
}

// WriteOnboarding renders records as a single-sheet workbook.
func WriteOnboarding(w io.Writer, records []models.OnboardingRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = excelize.Cell{StyleID: bold, Value: c.title}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range records {
		row := make([]any, len(columns))
		for j, c := range columns {
			row[j] = c.value(&records[i])
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	return f.Write(w)
}
