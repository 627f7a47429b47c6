package document

import (
	"fmt"
	"html/template"
	"io"
)

// HTMLRenderer writes a Document as a self-contained printable page,
// A4-sized with the optional Panchkarma and advice content on a second
// sheet.
type HTMLRenderer struct {
	tmpl *template.Template
}

func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.New("prescription").Parse(prescriptionHTML)
	if err != nil {
		return nil, fmt.Errorf("parse prescription template: %w", err)
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

func (r *HTMLRenderer) Render(w io.Writer, doc *Document) error {
	if err := r.tmpl.Execute(w, doc); err != nil {
		return fmt.Errorf("render prescription: %w", err)
	}
	return nil
}

const prescriptionHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Prescription for {{.Identity.Name}}</title>
<style>
  @media print { @page { size: A4; margin: 0; } }
  body { font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; }
  .page { min-height: 745px; padding: 24px; page-break-after: always; }
  .header { text-align: center; border-bottom: 2px solid #333; padding-bottom: 8px; }
  .header h1 { margin: 0; font-size: 18pt; }
  .header p { margin: 2px 0; font-size: 9pt; }
  .doctor { display: flex; justify-content: space-between; font-size: 10pt; margin-top: 6px; }
  .patient-info { display: flex; justify-content: space-between; margin-top: 14px; }
  .patient-info .name { font-weight: bold; font-size: 13pt; }
  .vitals { font-size: 9pt; margin-top: 10px; }
  .vitals span { margin-right: 16px; }
  .section-title { font-weight: bold; margin-top: 14px; }
  .medicine { margin-top: 8px; }
  .medicine .duration { margin: 4px 0 4px 15px; }
  .medicine .dosage { margin-left: 15px; font-size: 10pt; }
  table { border-collapse: collapse; width: 100%; margin-top: 8px; }
  th, td { border: 1px solid #666; padding: 4px 8px; font-size: 10pt; text-align: left; }
  .follow-up { margin-top: 20px; font-weight: bold; }
</style>
</head>
<body>
<div class="page">
  <div class="header">
    <h1>{{.Letterhead.HospitalName}}</h1>
    <p>{{.Letterhead.HospitalAddress}}</p>
    <p>{{.Letterhead.HospitalContact}}</p>
    <div class="doctor">
      <span>{{.Letterhead.DoctorName}} {{.Letterhead.DoctorQualification}}</span>
      <span>{{.Letterhead.DoctorRegistration}}</span>
    </div>
  </div>

  <div class="patient-info">
    <div>
      <div class="name">{{.Identity.Name}}</div>
      <div>{{.Identity.AgeGender}}</div>
      {{if .Identity.Address}}<div>{{.Identity.Address}}</div>{{end}}
      <div><strong>Patient ID:</strong> {{.Identity.PatientID}}</div>
    </div>
    <div>{{.Identity.Date}}</div>
  </div>

  <div class="vitals">
    {{if .Vitals.Pulse}}<span><strong>Pulse:</strong> {{.Vitals.Pulse}}</span>{{end}}
    {{if .Vitals.BloodPressure}}<span><strong>BP:</strong> {{.Vitals.BloodPressure}}</span>{{end}}
    {{if .Vitals.Weight}}<span><strong>Weight:</strong> {{.Vitals.Weight}}</span>{{end}}
    {{if .Vitals.Temperature}}<span><strong>Temp:</strong> {{.Vitals.Temperature}}</span>{{end}}
    {{if .Vitals.RespRate}}<span><strong>Resp Rate:</strong> {{.Vitals.RespRate}} rpm</span>{{end}}
    {{if .Vitals.SpO2}}<span><strong>SPO2:</strong> {{.Vitals.SpO2}}%</span>{{end}}
  </div>

  <div class="section-title">Chief Complaints:</div>
  <div>{{.ChiefComplaints}}</div>

  <div class="section-title">DIAGNOSIS:</div>
  <div>{{.Diagnosis}}</div>

  {{if .ExamNotes}}
  <div class="section-title">Examination:</div>
  <ul>{{range .ExamNotes}}<li>{{.}}</li>{{end}}</ul>
  {{end}}

  <div class="section-title">Medicines (दवाइयाँ):</div>
  {{range .Medicines}}
  <div class="medicine">
    <b>{{.Seq}}. {{.Name}}</b>
    <p class="duration">{{.DurationText}}{{if .Type}} ({{.Type}}){{end}}</p>
    <div class="dosage">
      {{range .Dosage}}<p>{{.Label}} - {{.Quantity}}{{if .Instructions}} - {{.Instructions}}{{end}}</p>{{end}}
    </div>
  </div>
  {{end}}

  {{if .FollowUp}}
  <div class="follow-up">
    Follow up: {{.FollowUp.Date}}{{if .FollowUp.AppointmentID}} ({{.FollowUp.AppointmentID}}){{end}}
  </div>
  {{end}}
</div>

{{if .HasBackPage}}
<div class="page">
  {{if .Panchkarma}}
  <div class="section-title">Panchkarma Procedures:</div>
  <table>
    <tr><th>#</th><th>Process</th><th>Procedure</th><th>Material</th><th>Days</th></tr>
    {{range .Panchkarma}}
    <tr><td>{{.Seq}}</td><td>{{.Process}}</td><td>{{.Procedure}}</td><td>{{.Material}}</td><td>{{.Days}}</td></tr>
    {{end}}
  </table>
  {{end}}

  {{if .Advice}}
  <div class="section-title">Advice (सलाह):</div>
  <ul>{{range .Advice}}<li>{{.}}</li>{{end}}</ul>
  {{end}}
</div>
{{end}}
</body>
</html>
`
