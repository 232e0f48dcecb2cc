package core

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Profile is everything printed on an employee's profile sheet.
type Profile struct {
	Employee  Employee
	Detail    PersonalDetail
	Documents []Document
	// PhotoPath is a readable file on disk; empty skips the photo.
	PhotoPath string
}

// WriteProfilePDF renders a one page A4 profile sheet.
func WriteProfilePDF(w io.Writer, p Profile) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Employee profile "+p.Employee.Name, true)
	pdf.AddPage()

	if p.PhotoPath != "" {
		pdf.ImageOptions(p.PhotoPath, 160, 15, 35, 0, false, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Employee Profile")
	pdf.Ln(12)

	section := func(title string) {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, title)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 10)
	}
	row := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			value = "-"
		}
		pdf.CellFormat(55, 6, tr(label), "", 0, "L", false, 0, "")
		pdf.MultiCell(0, 6, tr(value), "", "L", false)
	}

	section("Employment")
	row("Name", p.Employee.Name)
	row("Position", p.Employee.Position)
	row("Job type", p.Employee.JobType)
	row("Status", p.Employee.Status)
	row("Join date", dateText(p.Employee.JoinDate))
	if p.Employee.EndDate != nil {
		row("End date", dateText(*p.Employee.EndDate))
	}
	row("Client", p.Employee.ClientName)

	d := p.Detail
	section("Identity")
	row("NIK", d.NIK)
	row("Full name", d.FullName)
	row("Nickname", d.Nickname)
	row("Gender", d.Gender)
	birth := d.BirthPlace
	if d.BirthDate != nil {
		birth = strings.TrimSpace(birth + ", " + dateText(*d.BirthDate))
	}
	row("Place, date of birth", strings.Trim(birth, ", "))
	row("Address (KTP)", d.AddressKTP)
	row("Current address", d.AddressCurrent)
	row("Phone", d.Phone)
	row("Email", d.Email)
	row("Education", d.Education)
	row("Last job", d.LastJob)

	section("Physical")
	row("Blood type", d.BloodType)
	row("Height (cm)", intText(d.HeightCm))
	row("Weight (kg)", intText(d.WeightKg))
	row("Shirt size", d.ShirtSize)
	row("Shoe size", d.ShoeSize)
	row("Health notes", d.NoteHealth)

	section("Family")
	row("Marital status", d.MaritalStatus)
	row("Spouse", d.SpouseName)
	row("Spouse job", d.SpouseJob)
	row("Children", intText(d.NumChildren))
	row("Parents", d.ParentsName)
	row("Parents address", d.ParentsAddress)
	row("Siblings", intText(d.NumSiblings))

	section("Insurance")
	row("BPJS Ketenagakerjaan", d.BPJSEmployment)
	row("BPJS Kesehatan", d.BPJSHealth)

	section("Emergency contact")
	row("Name", d.EmergencyName)
	row("Phone", d.EmergencyPhone)
	row("Relation", d.EmergencyRelation)
	row("Address", d.EmergencyAddress)

	if len(p.Documents) > 0 {
		section("Documents")
		for _, doc := range p.Documents {
			row(strings.ToUpper(doc.DocumentType), dateText(doc.UploadedAt))
		}
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func dateText(t interface{ Format(string) string }) string {
	return t.Format("02 Jan 2006")
}

func intText(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(*v)
}
