package service

import (
	"fmt"
	"strings"
	"time"

	"imani/internal/models"

	"gopkg.in/gomail.v2"
)

// EmailService sends transactional mail over SMTP using settings resolved per
// send. Failures are returned to the caller, which logs them; email is never
// on the critical path of a donation or visitation write.
type EmailService struct {
	settings *SettingsService
}

func NewEmailService(settings *SettingsService) *EmailService {
	return &EmailService{settings: settings}
}

func (s *EmailService) send(to, subject, html string) error {
	cfg, err := s.settings.ResolveEmail()
	if err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(cfg.From, cfg.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
	return d.DialAndSend(m)
}

// SendVisitationNotice notifies staff about a scheduled children's-home visit.
func (s *EmailService) SendVisitationNotice(to string, v *models.Visitation) error {
	html := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1>New Visitation Scheduled</h1>
  <p><strong>Children's Home:</strong> %s</p>
  <p><strong>Visit Date:</strong> %s</p>
  <p><strong>Number of Children:</strong> %d</p>
  <p><strong>Budget:</strong> KES %d</p>
  <p>Please ensure all preparations are complete before the visit date.</p>
</div>`, v.HomeName, v.VisitDate, v.NumberOfChildren, v.Budget)
	return s.send(to, "Upcoming Visitation - "+v.HomeName, html)
}

// MonthlyReport summarizes completed donations for one calendar month.
type MonthlyReport struct {
	Month          time.Month
	Year           int
	TotalDonations int
	TotalAmount    int64
	Donations      []models.Donation
}

func BuildMonthlyReport(month time.Month, year int, donations []models.Donation) MonthlyReport {
	r := MonthlyReport{Month: month, Year: year, Donations: donations, TotalDonations: len(donations)}
	for _, d := range donations {
		r.TotalAmount += d.Amount
	}
	return r
}

func (s *EmailService) SendMonthlyReport(to string, r MonthlyReport) error {
	var rows strings.Builder
	for _, d := range r.Donations {
		name := d.Donor
		if d.Anonymous || name == "" {
			name = "Anonymous"
		}
		date := ""
		if d.CompletedAt != nil {
			date = d.CompletedAt.Format("2006-01-02")
		}
		fmt.Fprintf(&rows, `<tr><td>%s</td><td>%s</td><td style="text-align:right">KES %d</td></tr>`,
			date, name, d.Amount)
	}
	html := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto;">
  <h1>Monthly Donation Report</h1>
  <h2>%s %d</h2>
  <p>Total donations: <strong>%d</strong></p>
  <p>Total amount: <strong>KES %d</strong></p>
  <table style="width:100%%; border-collapse: collapse;">
    <thead><tr><th>Date</th><th>Donor</th><th>Amount</th></tr></thead>
    <tbody>%s</tbody>
  </table>
</div>`, r.Month.String(), r.Year, r.TotalDonations, r.TotalAmount, rows.String())
	subject := fmt.Sprintf("Monthly Donation Report - %s %d", r.Month.String(), r.Year)
	return s.send(to, subject, html)
}
