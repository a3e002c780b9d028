package rules

import (
	"strconv"
	"strings"

	"rentledger/internal/domain"
)

const (
	defaultDueTemplate     = "Hi {firstName}, your rent of ₹{rent} for {propertyName} is due on {dueDate}."
	defaultOverdueTemplate = "Hi {firstName}, your rent for {propertyName} is overdue. Please pay immediately."
)

// ReminderTemplate picks the message template for a tenant's status.
// Paid tenants are not reminder-eligible.
func ReminderTemplate(status string, msgs domain.ReminderMessages) (string, bool) {
	switch status {
	case domain.StatusOverdue:
		if msgs.Overdue != "" {
			return msgs.Overdue, true
		}
		return defaultOverdueTemplate, true
	case domain.StatusDue:
		if msgs.Due != "" {
			return msgs.Due, true
		}
		return defaultDueTemplate, true
	default:
		return "", false
	}
}

// RenderReminder substitutes the {firstName}, {rent}, {propertyName}
// and {dueDate} placeholders.
func RenderReminder(template string, t domain.Tenant, propertyName string) string {
	dueDate := "the due date"
	if t.DueDate != nil {
		dueDate = t.DueDate.Format("2 January 2006")
	}
	r := strings.NewReplacer(
		"{firstName}", FirstName(t.Name),
		"{rent}", FormatINR(t.Rent),
		"{propertyName}", propertyName,
		"{dueDate}", dueDate,
	)
	return r.Replace(template)
}

func FirstName(name string) string {
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}

// FormatINR groups digits in the Indian numbering system
// (1,00,00,000).
func FormatINR(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := strconv.FormatInt(amount, 10)
	if len(s) > 3 {
		head, tail := s[:len(s)-3], s[len(s)-3:]
		var parts []string
		for len(head) > 2 {
			parts = append([]string{head[len(head)-2:]}, parts...)
			head = head[:len(head)-2]
		}
		if head != "" {
			parts = append([]string{head}, parts...)
		}
		s = strings.Join(append(parts, tail), ",")
	}
	if neg {
		return "-" + s
	}
	return s
}
