package service

import "strings"

// CompanyProfile fills the placeholders of customer-facing messages.
type CompanyProfile struct {
	Name    string
	Phone   string
	Website string
}

const followUpTemplate = `Hi! Thank you for your interest in solar energy. Here are our company details:

{{company_name}} - Your Solar Energy Partner
Call us: {{company_phone}}
Website: {{company_website}}
Local installation team in your area

Benefits we discussed:
- Save up to 90% on electricity bills
- $0 down financing available
- 25-year warranty included
- Increase home value by 15%

Ready to start your solar journey? Reply to schedule your free home assessment!`

// RenderFollowUpMessage builds the company details message sent after a
// positive call.
func RenderFollowUpMessage(company CompanyProfile) string {
	return renderTemplate(followUpTemplate, map[string]string{
		"company_name":    company.Name,
		"company_phone":   company.Phone,
		"company_website": company.Website,
	})
}

func renderTemplate(template string, values map[string]string) string {
	result := template
	for key, value := range values {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return result
}
