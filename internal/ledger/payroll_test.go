package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"cement-works/internal/ledger"
	"cement-works/internal/models"
)

// September 2025 starts on a Monday: 4 Sundays (7, 14, 21, 28) and the
// 2nd/4th Saturdays (13, 27) are off, the 1st/3rd (6, 20) are worked.
func TestWorkingDays_September2025(t *testing.T) {
	days := ledger.WorkingDays(2025, time.September, nil)
	if len(days) != 24 {
		t.Fatalf("working days = %d, want 24", len(days))
	}

	worked := make(map[string]bool, len(days))
	for _, d := range days {
		worked[d.Format("2006-01-02")] = true
	}
	for _, off := range []string{"2025-09-07", "2025-09-13", "2025-09-27", "2025-09-28"} {
		if worked[off] {
			t.Fatalf("%s must be off", off)
		}
	}
	for _, on := range []string{"2025-09-06", "2025-09-20"} {
		if !worked[on] {
			t.Fatalf("%s (1st/3rd Saturday) must be worked", on)
		}
	}
}

func TestWorkingDays_HolidayExcluded(t *testing.T) {
	holidays := map[string]bool{"2025-09-05": true}
	days := ledger.WorkingDays(2025, time.September, holidays)
	if len(days) != 23 {
		t.Fatalf("working days with one holiday = %d, want 23", len(days))
	}
	for _, d := range days {
		if d.Format("2006-01-02") == "2025-09-05" {
			t.Fatal("holiday date must not be listed")
		}
	}
}

func fullDays(n int) []ledger.Mark {
	marks := make([]ledger.Mark, n)
	for i := range marks {
		marks[i] = ledger.Mark{Status: models.StatusPresent, Hours: dec("8")}
	}
	return marks
}

func TestComputeSalary_FullMonth(t *testing.T) {
	// 26000 over 26 working days is 1000 per day; 22 full days pay 22000.
	res := ledger.ComputeSalary(dec("26000"), 26, fullDays(22), ledger.StrategyHoursRatio)
	if !res.PerDay.Equal(dec("1000")) {
		t.Fatalf("per day = %s, want 1000", res.PerDay)
	}
	if !res.Salary.Equal(dec("22000")) {
		t.Fatalf("salary = %s, want 22000", res.Salary)
	}
	if !res.AbsentDays.Equal(dec("4")) {
		t.Fatalf("absent = %s, want 4", res.AbsentDays)
	}
}

func TestComputeSalary_HalfDayCountsFixedFourHours(t *testing.T) {
	marks := append(fullDays(1), ledger.Mark{Status: models.StatusHalfDay, Hours: dec("7")})
	res := ledger.ComputeSalary(dec("26000"), 26, marks, ledger.StrategyHoursRatio)

	if !res.PresentDays.Equal(dec("1.5")) {
		t.Fatalf("present days = %s, want 1.5", res.PresentDays)
	}
	// The recorded 7 hours are ignored; a half-day is always 4 hours.
	if !res.TotalHours.Equal(dec("12")) {
		t.Fatalf("total hours = %s, want 12", res.TotalHours)
	}
	if !res.Salary.Equal(dec("1500")) {
		t.Fatalf("salary = %s, want 1500", res.Salary)
	}
}

func TestComputeSalary_LeavePaidInFull(t *testing.T) {
	marks := append(fullDays(2), ledger.Mark{Status: models.StatusLeave})
	res := ledger.ComputeSalary(dec("26000"), 26, marks, ledger.StrategyHoursRatio)

	if res.LeaveDays != 1 {
		t.Fatalf("leave days = %d, want 1", res.LeaveDays)
	}
	if !res.Salary.Equal(dec("3000")) {
		t.Fatalf("salary = %s, want 3000 (two worked + one paid leave)", res.Salary)
	}
}

func TestComputeSalary_HoursProportion(t *testing.T) {
	marks := []ledger.Mark{
		{Status: models.StatusPresent, Hours: dec("6")},
		{Status: models.StatusPresent, Hours: dec("8")},
	}
	res := ledger.ComputeSalary(dec("26000"), 26, marks, ledger.StrategyHoursProportion)

	// 2 days * 1000 scaled by 14/16 worked hours.
	if !res.Salary.Equal(dec("1750")) {
		t.Fatalf("salary = %s, want 1750", res.Salary)
	}
}

func TestComputeSalary_ZeroWorkingDays(t *testing.T) {
	res := ledger.ComputeSalary(dec("26000"), 0, fullDays(2), ledger.StrategyHoursRatio)
	if !res.Salary.IsZero() || !res.PerDay.IsZero() {
		t.Fatalf("zero working days must yield zero salary, got %s", res.Salary)
	}
}

func TestComputeSalary_OvermarkedMonthClamps(t *testing.T) {
	res := ledger.ComputeSalary(dec("26000"), 2, fullDays(3), ledger.StrategyHoursRatio)
	if !res.AbsentDays.IsZero() {
		t.Fatalf("absent days = %s, want clamped to 0", res.AbsentDays)
	}
	if !res.DataQualityWarning {
		t.Fatal("overmarked month must set the data quality warning")
	}
}

func TestComputeManagerPayroll_Deductions(t *testing.T) {
	marks := fullDays(24)
	mp := ledger.ComputeManagerPayroll(dec("30000"), 26, marks,
		true, true, dec("12"), dec("0.75"))

	if !mp.PFAmount.Equal(dec("3600")) {
		t.Fatalf("pf = %s, want 3600", mp.PFAmount)
	}
	if !mp.ESIAmount.Equal(dec("225")) {
		t.Fatalf("esi = %s, want 225", mp.ESIAmount)
	}

	perDay := dec("30000").Div(decimal.NewFromInt(26))
	wantLeaveDeduction := dec("2").Mul(perDay)
	if !mp.LeaveDeduction.Equal(wantLeaveDeduction) {
		t.Fatalf("leave deduction = %s, want %s", mp.LeaveDeduction, wantLeaveDeduction)
	}

	wantNet := dec("30000").Sub(dec("3600")).Sub(dec("225")).Sub(wantLeaveDeduction)
	if !mp.NetSalary.Equal(wantNet) {
		t.Fatalf("net = %s, want %s", mp.NetSalary, wantNet)
	}
}

func TestComputeManagerPayroll_DeductionsDisabled(t *testing.T) {
	mp := ledger.ComputeManagerPayroll(dec("30000"), 26, fullDays(26),
		false, false, dec("12"), dec("0.75"))

	if !mp.PFAmount.IsZero() || !mp.ESIAmount.IsZero() {
		t.Fatalf("disabled deductions must be zero, got pf=%s esi=%s", mp.PFAmount, mp.ESIAmount)
	}
	if !mp.NetSalary.Equal(dec("30000")) {
		t.Fatalf("net = %s, want full 30000", mp.NetSalary)
	}
}
