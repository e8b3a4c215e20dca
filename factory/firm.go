/*
Package factory converts JSON documents into worktime domain records.

PURPOSE:

	Firm calendar settings and seed scenarios arrive as JSON (admin exports,
	the settings column in the firms table, demo fixtures). The factory turns
	them into worktime types and applies the documented ingestion rules once:

	- status strings are normalized to worktime.TaskStatus
	- a task without time_taken gets "00:00:00"
	- person references may be bare ids or expanded person objects

FIRM SETTINGS SCHEMA:

	{
	  "holiday_settings": [
	    {"year": 2025, "total_working_days": 250}
	  ],
	  "office_timing": {"hours": 8, "minutes": 30}
	}

	office_timing may also be a list of timings; the one flagged
	"is_current" wins, otherwise the last entry.

SEE ALSO:
  - scenario.go: Seed documents
  - worktime/cost.go: Calendar defaults when settings are missing
*/
package factory

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/warp/workcost-engine/worktime"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// FirmSettingsJSON is the stored form of a firm's working calendar.
type FirmSettingsJSON struct {
	HolidaySettings []HolidaySettingJSON `json:"holiday_settings,omitempty"`
	OfficeTiming    json.RawMessage      `json:"office_timing,omitempty"`
}

// HolidaySettingJSON is one year's working-day count.
type HolidaySettingJSON struct {
	Year             int `json:"year"`
	TotalWorkingDays int `json:"total_working_days"`
}

// OfficeTimingJSON is a workday length.
type OfficeTimingJSON struct {
	Hours     int  `json:"hours"`
	Minutes   int  `json:"minutes"`
	IsCurrent bool `json:"is_current,omitempty"`
}

// =============================================================================
// FIRM SETTINGS
// =============================================================================

// ParseFirmSettings decodes settings JSON. Empty input means no settings.
func ParseFirmSettings(data []byte) ([]worktime.WorkingYear, *worktime.OfficeTiming, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil, nil, nil
	}

	var fj FirmSettingsJSON
	if err := json.Unmarshal(data, &fj); err != nil {
		return nil, nil, fmt.Errorf("failed to parse firm settings JSON: %w", err)
	}

	years := make([]worktime.WorkingYear, 0, len(fj.HolidaySettings))
	for _, hs := range fj.HolidaySettings {
		years = append(years, worktime.WorkingYear{Year: hs.Year, TotalWorkingDays: hs.TotalWorkingDays})
	}

	timing, err := parseOfficeTiming(fj.OfficeTiming)
	if err != nil {
		return nil, nil, err
	}
	return years, timing, nil
}

func parseOfficeTiming(raw json.RawMessage) (*worktime.OfficeTiming, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	if raw[0] == '[' {
		var list []OfficeTimingJSON
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("failed to parse office_timing: %w", err)
		}
		if len(list) == 0 {
			return nil, nil
		}
		chosen := list[len(list)-1]
		for _, ot := range list {
			if ot.IsCurrent {
				chosen = ot
				break
			}
		}
		return &worktime.OfficeTiming{Hours: chosen.Hours, Minutes: chosen.Minutes}, nil
	}

	var single OfficeTimingJSON
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("failed to parse office_timing: %w", err)
	}
	return &worktime.OfficeTiming{Hours: single.Hours, Minutes: single.Minutes}, nil
}

// EncodeFirmSettings is the inverse of ParseFirmSettings.
func EncodeFirmSettings(f worktime.Firm) ([]byte, error) {
	fj := FirmSettingsJSON{}
	for _, wy := range f.HolidaySettings {
		fj.HolidaySettings = append(fj.HolidaySettings, HolidaySettingJSON{
			Year:             wy.Year,
			TotalWorkingDays: wy.TotalWorkingDays,
		})
	}
	if f.OfficeTiming != nil {
		raw, err := json.Marshal(OfficeTimingJSON{Hours: f.OfficeTiming.Hours, Minutes: f.OfficeTiming.Minutes})
		if err != nil {
			return nil, err
		}
		fj.OfficeTiming = raw
	}
	return json.Marshal(fj)
}
