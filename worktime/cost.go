/*
cost.go - Salary to cost conversion

PURPOSE:

	Turns a logged duration into money using a person's monthly salary and the
	firm's working calendar.

RATE CHAIN:

	yearly    = monthly * 12
	daily     = yearly / totalWorkingDays
	hourly    = daily / salaryTimeHours
	perMinute = hourly / 60
	cost      = round(perMinute * totalMinutes)

	Rounding is per call (per task), half away from zero. Summing N rounded
	task costs drifts from the unrounded sum by at most 0.5 * N.

EXAMPLE:

	250 working days, 8h days, 60000/month, "02:00:00":
	720000 -> 2880 -> 360 -> 6/min * 120 min = 720

SEE ALSO:
  - time.go: Duration parsing
  - supervision.go: Uses the calculator for the lead's oversight share
*/
package worktime

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CALENDAR
// =============================================================================

// CalendarDefaults fills in firm calendar fields that were never configured.
type CalendarDefaults struct {
	WorkingDays   int
	OfficeHours   int
	OfficeMinutes int
}

// DefaultCalendarDefaults is 251 working days of 8h30m.
func DefaultCalendarDefaults() CalendarDefaults {
	return CalendarDefaults{WorkingDays: 251, OfficeHours: 8, OfficeMinutes: 30}
}

// Calendar is the resolved working calendar for one firm-year.
type Calendar struct {
	Year             int
	TotalWorkingDays int
	SalaryTimeHours  decimal.Decimal
}

// WorkdayHours converts hours and minutes into fractional hours.
func WorkdayHours(hours, minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(hours)).
		Add(decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)))
}

// CalendarFor resolves the firm's calendar for year. The returned slice names
// every default that had to be applied.
func (f Firm) CalendarFor(year int, defaults CalendarDefaults) (Calendar, []string) {
	cal := Calendar{Year: year}
	var applied []string

	for _, wy := range f.HolidaySettings {
		if wy.Year == year && wy.TotalWorkingDays > 0 {
			cal.TotalWorkingDays = wy.TotalWorkingDays
			break
		}
	}
	if cal.TotalWorkingDays == 0 {
		cal.TotalWorkingDays = defaults.WorkingDays
		applied = append(applied, fmt.Sprintf("working_days=%d (no holiday settings for %d)", defaults.WorkingDays, year))
	}

	if f.OfficeTiming != nil {
		cal.SalaryTimeHours = WorkdayHours(f.OfficeTiming.Hours, f.OfficeTiming.Minutes)
	}
	if !cal.SalaryTimeHours.IsPositive() {
		cal.SalaryTimeHours = WorkdayHours(defaults.OfficeHours, defaults.OfficeMinutes)
		applied = append(applied, fmt.Sprintf("office_timing=%dh%02dm", defaults.OfficeHours, defaults.OfficeMinutes))
	}

	return cal, applied
}

// Valid reports whether the calendar can be divided by.
func (c Calendar) Valid() bool {
	return c.TotalWorkingDays > 0 && c.SalaryTimeHours.IsPositive()
}

// =============================================================================
// COST CALCULATION
// =============================================================================

// Rates is the salary broken down along the rate chain.
type Rates struct {
	Yearly    decimal.Decimal
	Daily     decimal.Decimal
	Hourly    decimal.Decimal
	PerMinute decimal.Decimal
}

var (
	twelve = decimal.NewFromInt(12)
	sixty  = decimal.NewFromInt(60)
)

// RatesFor derives the rate chain for a monthly salary. An invalid calendar
// yields zero rates.
func RatesFor(monthlySalary decimal.Decimal, cal Calendar) Rates {
	if !cal.Valid() {
		return Rates{}
	}
	yearly := monthlySalary.Mul(twelve)
	daily := yearly.Div(decimal.NewFromInt(int64(cal.TotalWorkingDays)))
	hourly := daily.Div(cal.SalaryTimeHours)
	return Rates{
		Yearly:    yearly,
		Daily:     daily,
		Hourly:    hourly,
		PerMinute: hourly.Div(sixty),
	}
}

// Cost is the result of costing one duration.
type Cost struct {
	Amount  decimal.Decimal // whole currency units
	Seconds int64
}

func (c Cost) Add(o Cost) Cost {
	return Cost{Amount: c.Amount.Add(o.Amount), Seconds: c.Seconds + o.Seconds}
}

// Duration renders Seconds as HH:MM:SS.
func (c Cost) Duration() string { return DurationOf(c.Seconds) }

// CostOf prices timeTaken at the person's monthly salary.
func CostOf(timeTaken string, monthlySalary decimal.Decimal, cal Calendar) Cost {
	seconds := SecondsOf(timeTaken)
	return costOfSeconds(seconds, monthlySalary, cal)
}

func costOfSeconds(seconds int64, monthlySalary decimal.Decimal, cal Calendar) Cost {
	if seconds == 0 {
		return Cost{Amount: decimal.Zero}
	}
	minutes := decimal.NewFromInt(seconds).Div(sixty)
	amount := RatesFor(monthlySalary, cal).PerMinute.Mul(minutes).Round(0)
	return Cost{Amount: amount, Seconds: seconds}
}

// CostOfTasks prices each task individually and sums the rounded results.
func CostOfTasks(tasks []Task, monthlySalary decimal.Decimal, cal Calendar) Cost {
	total := Cost{Amount: decimal.Zero}
	for _, t := range tasks {
		total = total.Add(CostOf(t.TimeTaken, monthlySalary, cal))
	}
	return total
}
