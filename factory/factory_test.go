package factory

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/workcost-engine/worktime"
)

const (
	firmHex   = "650000000000000000000001"
	rankHex   = "650000000000000000000002"
	leadHex   = "650000000000000000000010"
	memberHex = "650000000000000000000011"
	teamHex   = "650000000000000000000020"
	projHex   = "650000000000000000000030"
	taskHex   = "650000000000000000000040"
	task2Hex  = "650000000000000000000041"
)

const scenarioJSON = `{
  "firm": {
    "id": "` + firmHex + `",
    "name": "Northwind",
    "holiday_settings": [{"year": 2025, "total_working_days": 250}],
    "office_timing": {"hours": 8, "minutes": 0}
  },
  "ranks": [{"id": "` + rankHex + `", "label": "Principal"}],
  "managers": [{"id": "` + leadHex + `", "name": "Lena", "monthly_salary": "60000", "rank_id": "` + rankHex + `"}],
  "crew": [{"id": "` + memberHex + `", "name": "Ade", "monthly_salary": 30000}],
  "teams": [{
    "id": "` + teamHex + `",
    "name": "Platform",
    "lead": {"_id": {"$oid": "` + leadHex + `"}, "kind": "Manager"},
    "members": ["` + memberHex + `"],
    "projects": ["` + projHex + `"]
  }],
  "tasks": [
    {
      "id": "` + taskHex + `",
      "project_id": "` + projHex + `",
      "title": "Schema",
      "assignee": "` + memberHex + `",
      "assignee_model": "Crew",
      "assigner": "` + leadHex + `",
      "assigner_model": "Manager",
      "status": "Completed",
      "remark_status": "Approved",
      "time_taken": "1:30:00",
      "created_at": "2025-03-01T10:00:00Z"
    },
    {
      "id": "` + task2Hex + `",
      "project_id": "` + projHex + `",
      "assignee": "` + memberHex + `",
      "assigner": "` + leadHex + `",
      "status": "in progress"
    }
  ]
}`

func TestParseScenario_FullDocument(t *testing.T) {
	// GIVEN: A seed document covering every collection
	f := NewScenarioFactory()
	f.Now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }

	// WHEN: Parsing it
	sc, err := f.ParseScenario(scenarioJSON)
	require.NoError(t, err)

	// THEN: The firm carries its calendar
	assert.Equal(t, "Northwind", sc.Firm.Name)
	require.Len(t, sc.Firm.HolidaySettings, 1)
	assert.Equal(t, worktime.WorkingYear{Year: 2025, TotalWorkingDays: 250}, sc.Firm.HolidaySettings[0])
	require.NotNil(t, sc.Firm.OfficeTiming)
	assert.Equal(t, 8, sc.Firm.OfficeTiming.Hours)

	// AND: Ranks and people inherit the firm and their collection
	require.Len(t, sc.Ranks, 1)
	assert.Equal(t, sc.Firm.ID, sc.Ranks[0].FirmID)
	require.Len(t, sc.Persons, 2)
	assert.Equal(t, worktime.KindManager, sc.Persons[0].Kind)
	assert.True(t, sc.Persons[0].MonthlySalary.Equal(decimal.NewFromInt(60000)))
	require.NotNil(t, sc.Persons[0].RankID)
	assert.Equal(t, rankHex, sc.Persons[0].RankID.Hex())
	assert.Equal(t, worktime.KindCrew, sc.Persons[1].Kind)
	assert.True(t, sc.Persons[1].MonthlySalary.Equal(decimal.NewFromInt(30000)))
	assert.Nil(t, sc.Persons[1].RankID)

	// AND: The expanded lead reference is accepted
	require.Len(t, sc.Teams, 1)
	assert.Equal(t, leadHex, sc.Teams[0].Lead.ID.Hex())
	assert.Equal(t, worktime.KindManager, sc.Teams[0].Lead.Kind)
	assert.True(t, sc.Teams[0].CoversProject(worktime.MustParseID(projHex)))

	// AND: Tasks are normalized on ingestion
	require.Len(t, sc.Tasks, 2)
	done := sc.Tasks[0]
	assert.Equal(t, worktime.StatusCompleted, done.Status)
	assert.Equal(t, worktime.RemarkStatus("approved"), done.RemarkStatus)
	assert.Equal(t, "01:30:00", done.TimeTaken)
	assert.Equal(t, worktime.KindCrew, done.Assignee.Kind)
	assert.Equal(t, worktime.KindManager, done.Assigner.Kind)
	assert.Equal(t, 2025, done.CreatedAt.Year())

	open := sc.Tasks[1]
	assert.Equal(t, worktime.StatusInProgress, open.Status)
	assert.Equal(t, worktime.ZeroDuration, open.TimeTaken)
	assert.Equal(t, worktime.KindUnknown, open.Assigner.Kind)
	assert.Equal(t, time.June, open.CreatedAt.Month())
}

func TestParseScenario_BadIdentifier(t *testing.T) {
	// GIVEN: A firm id that is not an object id
	f := NewScenarioFactory()

	// WHEN: Parsing
	_, err := f.ParseScenario(`{"firm": {"id": "acme"}}`)

	// THEN: The error names the field and is a client error
	require.Error(t, err)
	assert.True(t, worktime.IsClientError(err))
	assert.Contains(t, err.Error(), "firm.id")
}

func TestParseScenario_TeamWithoutLead(t *testing.T) {
	f := NewScenarioFactory()
	doc := `{"firm": {"id": "` + firmHex + `"}, "teams": [{"id": "` + teamHex + `", "members": []}]}`

	_, err := f.ParseScenario(doc)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "teams[0].lead")
}

func TestParseScenario_MalformedJSON(t *testing.T) {
	_, err := NewScenarioFactory().ParseScenario(`{"firm":`)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse scenario JSON")
}

func TestParseFirmSettings_Empty(t *testing.T) {
	for _, in := range []string{"", "  ", "null"} {
		years, timing, err := ParseFirmSettings([]byte(in))
		require.NoError(t, err, in)
		assert.Empty(t, years)
		assert.Nil(t, timing)
	}
}

func TestParseFirmSettings_TimingListPrefersCurrent(t *testing.T) {
	// GIVEN: A timing history with a current entry in the middle
	doc := `{
	  "holiday_settings": [{"year": 2024, "total_working_days": 248}, {"year": 2025, "total_working_days": 251}],
	  "office_timing": [
	    {"hours": 9, "minutes": 0},
	    {"hours": 8, "minutes": 30, "is_current": true},
	    {"hours": 7, "minutes": 0}
	  ]
	}`

	// WHEN: Parsing
	years, timing, err := ParseFirmSettings([]byte(doc))

	// THEN: The current timing wins
	require.NoError(t, err)
	assert.Len(t, years, 2)
	require.NotNil(t, timing)
	assert.Equal(t, worktime.OfficeTiming{Hours: 8, Minutes: 30}, *timing)
}

func TestParseFirmSettings_TimingListFallsBackToLast(t *testing.T) {
	_, timing, err := ParseFirmSettings([]byte(`{"office_timing": [{"hours": 9}, {"hours": 7, "minutes": 45}]}`))

	require.NoError(t, err)
	require.NotNil(t, timing)
	assert.Equal(t, worktime.OfficeTiming{Hours: 7, Minutes: 45}, *timing)
}

func TestEncodeFirmSettings_RoundTrip(t *testing.T) {
	// GIVEN: A firm with both calendar fields
	firm := worktime.Firm{
		HolidaySettings: []worktime.WorkingYear{{Year: 2025, TotalWorkingDays: 250}},
		OfficeTiming:    &worktime.OfficeTiming{Hours: 8, Minutes: 15},
	}

	// WHEN: Encoding then parsing
	data, err := EncodeFirmSettings(firm)
	require.NoError(t, err)
	years, timing, err := ParseFirmSettings(data)

	// THEN: Nothing is lost
	require.NoError(t, err)
	assert.Equal(t, firm.HolidaySettings, years)
	assert.Equal(t, firm.OfficeTiming, timing)
}

func TestEncodeFirmSettings_NoTiming(t *testing.T) {
	data, err := EncodeFirmSettings(worktime.Firm{})
	require.NoError(t, err)

	_, timing, err := ParseFirmSettings(data)
	require.NoError(t, err)
	assert.Nil(t, timing)
}
