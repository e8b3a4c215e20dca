package worktime_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/workcost-engine/worktime"
)

func calendar(days, hours, minutes int) worktime.Calendar {
	return worktime.Calendar{
		Year:             2025,
		TotalWorkingDays: days,
		SalaryTimeHours:  worktime.WorkdayHours(hours, minutes),
	}
}

func salary(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestCostOf_RateChainScenario(t *testing.T) {
	// GIVEN: 250 working days of 8 hours, 60000/month, two hours logged
	cal := calendar(250, 8, 0)

	// WHEN: Costing the task
	rates := worktime.RatesFor(salary(60000), cal)
	cost := worktime.CostOf("02:00:00", salary(60000), cal)

	// THEN: 720000/yr -> 2880/day -> 360/h -> 6/min -> 720
	assert.True(t, rates.Yearly.Equal(salary(720000)), "yearly %s", rates.Yearly)
	assert.True(t, rates.Daily.Equal(salary(2880)), "daily %s", rates.Daily)
	assert.True(t, rates.Hourly.Equal(salary(360)), "hourly %s", rates.Hourly)
	assert.True(t, rates.PerMinute.Equal(salary(6)), "per minute %s", rates.PerMinute)
	assert.True(t, cost.Amount.Equal(salary(720)), "cost %s", cost.Amount)
	assert.Equal(t, int64(7200), cost.Seconds)
}

func TestCostOf_ZeroTimeIsFree(t *testing.T) {
	cal := calendar(251, 8, 30)
	for _, s := range []int64{0, 1, 60000, 9999999} {
		c := worktime.CostOf("00:00:00", salary(s), cal)
		assert.True(t, c.Amount.IsZero(), "salary %d", s)
		assert.True(t, worktime.CostOf("", salary(s), cal).Amount.IsZero())
	}
}

func TestCostOf_RoundsPerCall(t *testing.T) {
	// 251 days, 8h30m, 50000/month: 600000/251/8.5/60 = 4.6871...
	cal := calendar(251, 8, 30)

	one := worktime.CostOf("00:01:00", salary(50000), cal)
	assert.True(t, one.Amount.Equal(salary(5)), "got %s", one.Amount)

	hour := worktime.CostOf("01:00:00", salary(50000), cal)
	assert.True(t, hour.Amount.Equal(salary(281)), "got %s", hour.Amount)
}

func TestCostOf_MonotonicInTime(t *testing.T) {
	cal := calendar(251, 8, 30)
	prev := decimal.Zero
	for s := int64(0); s <= 8*3600; s += 37 {
		c := worktime.CostOf(worktime.DurationOf(s), salary(45000), cal)
		require.False(t, c.Amount.LessThan(prev), "cost decreased at %ds", s)
		prev = c.Amount
	}
}

func TestCostOf_MonotonicInSalary(t *testing.T) {
	cal := calendar(240, 7, 45)
	prev := decimal.Zero
	for s := int64(0); s <= 200000; s += 1250 {
		c := worktime.CostOf("03:17:41", salary(s), cal)
		require.False(t, c.Amount.LessThan(prev), "cost decreased at salary %d", s)
		prev = c.Amount
	}
}

func TestCostOf_InvalidCalendarIsFree(t *testing.T) {
	c := worktime.CostOf("02:00:00", salary(60000), worktime.Calendar{})
	assert.True(t, c.Amount.IsZero())
	assert.Equal(t, int64(7200), c.Seconds)
}

func TestCostOfTasks_SumsRoundedTaskCosts(t *testing.T) {
	// GIVEN: Three tasks of 1 minute at 4.6871/min
	cal := calendar(251, 8, 30)
	tasks := []worktime.Task{
		{TimeTaken: "00:01:00"},
		{TimeTaken: "00:01:00"},
		{TimeTaken: "00:01:00"},
	}

	// WHEN: Costing them together
	c := worktime.CostOfTasks(tasks, salary(50000), cal)

	// THEN: Each task rounds to 5 before summing (unrounded sum would be 14)
	assert.True(t, c.Amount.Equal(salary(15)), "got %s", c.Amount)
	assert.Equal(t, int64(180), c.Seconds)
}

func TestCalendarFor_UsesConfiguredYear(t *testing.T) {
	firm := worktime.Firm{
		HolidaySettings: []worktime.WorkingYear{
			{Year: 2024, TotalWorkingDays: 248},
			{Year: 2025, TotalWorkingDays: 250},
		},
		OfficeTiming: &worktime.OfficeTiming{Hours: 8, Minutes: 0},
	}

	cal, applied := firm.CalendarFor(2025, worktime.DefaultCalendarDefaults())

	assert.Equal(t, 250, cal.TotalWorkingDays)
	assert.True(t, cal.SalaryTimeHours.Equal(salary(8)))
	assert.Empty(t, applied)
}

func TestCalendarFor_MissingFieldsUseDefaults(t *testing.T) {
	// GIVEN: A firm with settings for another year and no office timing
	firm := worktime.Firm{
		HolidaySettings: []worktime.WorkingYear{{Year: 2019, TotalWorkingDays: 240}},
	}

	// WHEN: Resolving 2025
	cal, applied := firm.CalendarFor(2025, worktime.DefaultCalendarDefaults())

	// THEN: 251 days of 8.5 hours, both defaults reported
	assert.Equal(t, 251, cal.TotalWorkingDays)
	assert.True(t, cal.SalaryTimeHours.Equal(decimal.RequireFromString("8.5")), "got %s", cal.SalaryTimeHours)
	assert.Len(t, applied, 2)
}

func TestCalendarFor_ZeroOfficeTimingFallsBack(t *testing.T) {
	firm := worktime.Firm{OfficeTiming: &worktime.OfficeTiming{}}
	cal, _ := firm.CalendarFor(2025, worktime.CalendarDefaults{WorkingDays: 200, OfficeHours: 7})
	assert.Equal(t, 200, cal.TotalWorkingDays)
	assert.True(t, cal.SalaryTimeHours.Equal(salary(7)))
}
