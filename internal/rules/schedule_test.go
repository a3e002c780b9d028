package rules

import (
	"testing"
	"time"

	"rentledger/internal/domain"
)

func TestIncrementRent(t *testing.T) {
	cases := []struct {
		rent    int64
		percent int
		want    int64
	}{
		{10000, 10, 11000},
		{11000, 10, 12100},
		{10545, 3, 10861}, // 10861.35 rounds down
		{250, 5, 263},     // 262.5 rounds half away from zero
		{10000, 0, 10000},
	}
	for _, c := range cases {
		if got := IncrementRent(c.rent, c.percent); got != c.want {
			t.Errorf("IncrementRent(%d, %d) = %d, want %d", c.rent, c.percent, got, c.want)
		}
	}
}

func TestInitialDueDate(t *testing.T) {
	// due day still ahead this month
	got := InitialDueDate(15, date(2026, time.March, 10))
	if !got.Equal(date(2026, time.March, 15)) {
		t.Fatalf("expected 2026-03-15, got %v", got)
	}

	// onboarding on the due day itself keeps it in this month
	got = InitialDueDate(15, date(2026, time.March, 15))
	if !got.Equal(date(2026, time.March, 15)) {
		t.Fatalf("expected 2026-03-15, got %v", got)
	}

	// due day already passed: next month
	got = InitialDueDate(15, date(2026, time.March, 20))
	if !got.Equal(date(2026, time.April, 15)) {
		t.Fatalf("expected 2026-04-15, got %v", got)
	}
}

func TestNextDueDate_ClampsToMonthEnd(t *testing.T) {
	// day 31 into February
	got := NextDueDate(date(2026, time.January, 31), 31)
	if !got.Equal(date(2026, time.February, 28)) {
		t.Fatalf("expected 2026-02-28, got %v", got)
	}

	// leap year February
	got = NextDueDate(date(2024, time.January, 31), 31)
	if !got.Equal(date(2024, time.February, 29)) {
		t.Fatalf("expected 2024-02-29, got %v", got)
	}

	// clamped cycle recovers the configured day in a longer month
	got = NextDueDate(date(2026, time.February, 28), 31)
	if !got.Equal(date(2026, time.March, 31)) {
		t.Fatalf("expected 2026-03-31, got %v", got)
	}
}

func TestPreviousDueDate(t *testing.T) {
	got := PreviousDueDate(date(2026, time.April, 15))
	if !got.Equal(date(2026, time.March, 15)) {
		t.Fatalf("expected 2026-03-15, got %v", got)
	}
}

func TestDueIncrements_CatchUpCompounds(t *testing.T) {
	anniversary := date(2024, time.January, 15)
	tenant := domain.Tenant{
		ID:                "t1",
		Rent:              10000,
		Increment:         10,
		RentIncrementDate: &anniversary,
	}

	// two anniversaries have passed: 2025-01-15 and 2026-01-15
	entries, rent := DueIncrements(tenant, date(2026, time.June, 1))
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if rent != 12100 {
		t.Fatalf("expected compounded rent 12100, got %d", rent)
	}
	if entries[0].Rent != 11000 || entries[0].Year != 1 {
		t.Fatalf("first entry = %+v", entries[0])
	}
	if entries[1].Rent != 12100 || entries[1].Year != 2 {
		t.Fatalf("second entry = %+v", entries[1])
	}
	if !entries[0].DateApplied.Equal(date(2025, time.January, 15)) {
		t.Fatalf("first entry dated %v", entries[0].DateApplied)
	}
	if !entries[1].DateApplied.Equal(date(2026, time.January, 15)) {
		t.Fatalf("second entry dated %v", entries[1].DateApplied)
	}
}

func TestDueIncrements_ContinuesFromHistory(t *testing.T) {
	anniversary := date(2024, time.January, 15)
	tenant := domain.Tenant{
		ID:                "t1",
		Rent:              11000,
		Increment:         10,
		RentIncrementDate: &anniversary,
		RentHistory: []domain.RentHistoryEntry{
			{Year: 1, Rent: 11000, IncrementPercent: 10, DateApplied: date(2025, time.January, 15)},
		},
	}

	entries, rent := DueIncrements(tenant, date(2026, time.June, 1))
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if rent != 12100 {
		t.Fatalf("expected rent 12100, got %d", rent)
	}
	if entries[0].Year != 2 {
		t.Fatalf("expected year 2, got %d", entries[0].Year)
	}
}

func TestDueIncrements_NothingDue(t *testing.T) {
	anniversary := date(2024, time.January, 15)
	tenant := domain.Tenant{
		ID:                "t1",
		Rent:              10000,
		Increment:         10,
		RentIncrementDate: &anniversary,
	}

	entries, rent := DueIncrements(tenant, date(2024, time.December, 31))
	if len(entries) != 0 || rent != 10000 {
		t.Fatalf("expected no increments, got %d entries, rent %d", len(entries), rent)
	}

	// idempotent: applying on the anniversary and re-running changes nothing
	entries, _ = DueIncrements(tenant, date(2025, time.January, 15))
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry on anniversary, got %d", len(entries))
	}
	tenant.RentHistory = entries
	tenant.Rent = entries[0].Rent
	entries, _ = DueIncrements(tenant, date(2025, time.January, 15))
	if len(entries) != 0 {
		t.Fatalf("re-run must be a no-op, got %d entries", len(entries))
	}
}

func TestDueIncrements_SkipsUnconfigured(t *testing.T) {
	tenant := domain.Tenant{ID: "t1", Rent: 10000, Increment: 10}
	if entries, _ := DueIncrements(tenant, date(2026, time.June, 1)); entries != nil {
		t.Fatalf("tenant without increment date must be skipped")
	}

	anniversary := date(2024, time.January, 15)
	tenant = domain.Tenant{ID: "t1", Rent: 10000, RentIncrementDate: &anniversary}
	if entries, _ := DueIncrements(tenant, date(2026, time.June, 1)); entries != nil {
		t.Fatalf("tenant without increment percent must be skipped")
	}
}

func TestManualIncrement(t *testing.T) {
	now := date(2026, time.May, 3)
	tenant := domain.Tenant{ID: "t1", Rent: 10000, Increment: 5}

	entry, rent := ManualIncrement(tenant, now)
	if rent != 10500 {
		t.Fatalf("expected 10500, got %d", rent)
	}
	if entry.Year != 1 || entry.IncrementPercent != 5 || !entry.DateApplied.Equal(now) {
		t.Fatalf("entry = %+v", entry)
	}
}

func TestManualIncrement_DefaultsToTenPercent(t *testing.T) {
	entry, rent := ManualIncrement(domain.Tenant{ID: "t1", Rent: 10000}, date(2026, time.May, 3))
	if rent != 11000 || entry.IncrementPercent != 10 {
		t.Fatalf("expected 10%% default, got rent %d percent %d", rent, entry.IncrementPercent)
	}
}
