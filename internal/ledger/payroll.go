package ledger

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// SalaryStrategy selects which of the two coexisting salary formulas to
// apply. Both come from different report paths of the product and give
// different numbers for uneven hours; which one is canonical is a
// product decision, so callers must pick explicitly.
type SalaryStrategy string

const (
	// StrategyHoursRatio pays each present day proportionally to the
	// hours worked that day: perDay * hours/8, plus full perDay for
	// each leave day.
	StrategyHoursRatio SalaryStrategy = "hours-ratio"

	// StrategyHoursProportion pays presentDays * perDay scaled by
	// totalHours / (presentDays * 8), plus full perDay per leave day.
	StrategyHoursProportion SalaryStrategy = "hours-proportion"
)

var eight = decimal.NewFromInt(8)

// Mark is one day's attendance as the payroll calculator sees it.
type Mark struct {
	Status string
	Hours  decimal.Decimal
}

// PayrollResult is everything derived from a month of marks.
type PayrollResult struct {
	WorkingDays int             `json:"working_days"`
	PresentDays decimal.Decimal `json:"present_days"` // half-days count 0.5
	LeaveDays   int             `json:"leave_days"`
	AbsentDays  decimal.Decimal `json:"absent_days"`
	TotalHours  decimal.Decimal `json:"total_hours"`
	PerDay      decimal.Decimal `json:"per_day_salary"`
	Salary      decimal.Decimal `json:"salary"`

	// DataQualityWarning is set when more present+leave days were
	// marked than the month has working days; absent days are clamped
	// to zero instead of going negative.
	DataQualityWarning bool `json:"data_quality_warning,omitempty"`
}

// WorkingDays lists the working dates of a month: every day except
// Sundays, the 2nd and 4th Saturdays (week-of-month by ceil(day/7)),
// and any date in holidays (keys are YYYY-MM-DD).
func WorkingDays(year int, month time.Month, holidays map[string]bool) []time.Time {
	var days []time.Time
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Sunday:
			continue
		case time.Saturday:
			week := int(math.Ceil(float64(d.Day()) / 7))
			if week == 2 || week == 4 {
				continue
			}
		}
		if holidays[d.Format("2006-01-02")] {
			continue
		}
		days = append(days, d)
	}
	return days
}

// ComputeSalary turns one month of marks plus a base salary into the
// derived payroll figures. A month with zero working days yields a zero
// salary rather than an error; that only happens with degenerate
// holiday data.
func ComputeSalary(baseSalary decimal.Decimal, workingDays int, marks []Mark, strategy SalaryStrategy) PayrollResult {
	res := PayrollResult{
		WorkingDays: workingDays,
		PresentDays: decimal.Zero,
		TotalHours:  decimal.Zero,
		PerDay:      decimal.Zero,
		Salary:      decimal.Zero,
	}

	half := decimal.NewFromFloat(0.5)
	four := decimal.NewFromInt(4)

	perDayHours := decimal.Zero // hours-ratio accumulator, in units of perDay
	for _, m := range marks {
		switch m.Status {
		case "Present":
			res.PresentDays = res.PresentDays.Add(decimal.NewFromInt(1))
			res.TotalHours = res.TotalHours.Add(m.Hours)
			perDayHours = perDayHours.Add(m.Hours.Div(eight))
		case "Half-day":
			// Fixed 4 hours and half a present day, whatever was recorded.
			res.PresentDays = res.PresentDays.Add(half)
			res.TotalHours = res.TotalHours.Add(four)
			perDayHours = perDayHours.Add(half)
		case "Leave":
			res.LeaveDays++
		}
	}

	absent := decimal.NewFromInt(int64(workingDays)).
		Sub(res.PresentDays).
		Sub(decimal.NewFromInt(int64(res.LeaveDays)))
	if absent.IsNegative() {
		absent = decimal.Zero
		res.DataQualityWarning = true
	}
	res.AbsentDays = absent

	if workingDays == 0 {
		return res
	}
	res.PerDay = baseSalary.Div(decimal.NewFromInt(int64(workingDays)))

	leavePay := decimal.NewFromInt(int64(res.LeaveDays)).Mul(res.PerDay)

	switch strategy {
	case StrategyHoursProportion:
		expected := res.PresentDays.Mul(eight)
		if expected.IsPositive() {
			res.Salary = res.PresentDays.Mul(res.PerDay).Mul(res.TotalHours.Div(expected))
		}
		res.Salary = res.Salary.Add(leavePay)
	default: // StrategyHoursRatio
		res.Salary = res.PerDay.Mul(perDayHours).Add(leavePay)
	}
	return res
}

// ManagerPayroll adds the statutory deductions applied on top of the
// attendance figures for managers.
type ManagerPayroll struct {
	PayrollResult
	BaseSalary     decimal.Decimal `json:"base_salary"`
	PFAmount       decimal.Decimal `json:"pf_amount"`
	ESIAmount      decimal.Decimal `json:"esi_amount"`
	LeaveDeduction decimal.Decimal `json:"leave_deduction"`
	NetSalary      decimal.Decimal `json:"net_salary"`
}

// ComputeManagerPayroll applies PF/ESI percentages (when enabled) and
// the absent-day deduction to the base salary.
func ComputeManagerPayroll(baseSalary decimal.Decimal, workingDays int, marks []Mark, pfEnabled, esiEnabled bool, pfPercent, esiPercent decimal.Decimal) ManagerPayroll {
	mp := ManagerPayroll{
		PayrollResult: ComputeSalary(baseSalary, workingDays, marks, StrategyHoursRatio),
		BaseSalary:    baseSalary,
		PFAmount:      decimal.Zero,
		ESIAmount:     decimal.Zero,
	}
	if pfEnabled {
		mp.PFAmount = baseSalary.Mul(pfPercent).Div(hundred)
	}
	if esiEnabled {
		mp.ESIAmount = baseSalary.Mul(esiPercent).Div(hundred)
	}
	mp.LeaveDeduction = mp.AbsentDays.Mul(mp.PerDay)
	mp.NetSalary = baseSalary.Sub(mp.PFAmount).Sub(mp.ESIAmount).Sub(mp.LeaveDeduction)
	return mp
}
