package rules

import (
	"strings"
	"testing"
	"time"

	"rentledger/internal/domain"
)

func TestReminderTemplate(t *testing.T) {
	msgs := domain.ReminderMessages{Due: "custom due", Overdue: "custom overdue"}

	if tpl, ok := ReminderTemplate(domain.StatusDue, msgs); !ok || tpl != "custom due" {
		t.Fatalf("got %q ok=%v", tpl, ok)
	}
	if tpl, ok := ReminderTemplate(domain.StatusOverdue, msgs); !ok || tpl != "custom overdue" {
		t.Fatalf("got %q ok=%v", tpl, ok)
	}

	// defaults kick in when no custom message is saved
	if tpl, ok := ReminderTemplate(domain.StatusDue, domain.ReminderMessages{}); !ok || !strings.Contains(tpl, "{dueDate}") {
		t.Fatalf("default due template = %q ok=%v", tpl, ok)
	}

	// Paid and Archived tenants are not reminder-eligible
	if _, ok := ReminderTemplate(domain.StatusPaid, msgs); ok {
		t.Fatal("Paid must not be eligible")
	}
	if _, ok := ReminderTemplate(domain.StatusArchived, msgs); ok {
		t.Fatal("Archived must not be eligible")
	}
}

func TestRenderReminder(t *testing.T) {
	due := date(2026, time.March, 20)
	tenant := domain.Tenant{
		Name:    "Ramesh Kumar",
		Rent:    10650,
		Status:  domain.StatusDue,
		DueDate: &due,
	}

	got := RenderReminder("Hi {firstName}, ₹{rent} for {propertyName} due on {dueDate}.", tenant, "Green Villa")
	want := "Hi Ramesh, ₹10,650 for Green Villa due on 20 March 2026."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderReminder_MissingDueDate(t *testing.T) {
	tenant := domain.Tenant{Name: "Sita", Rent: 8000}
	got := RenderReminder("pay by {dueDate}", tenant, "")
	if got != "pay by the due date" {
		t.Fatalf("got %q", got)
	}
}

func TestFirstName(t *testing.T) {
	if got := FirstName("Ramesh Kumar"); got != "Ramesh" {
		t.Fatalf("got %q", got)
	}
	if got := FirstName("Sita"); got != "Sita" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatINR(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{10650, "10,650"},
		{100000, "1,00,000"},
		{2500000, "25,00,000"},
		{10000000, "1,00,00,000"},
		{-10650, "-10,650"},
	}
	for _, c := range cases {
		if got := FormatINR(c.amount); got != c.want {
			t.Errorf("FormatINR(%d) = %q, want %q", c.amount, got, c.want)
		}
	}
}
