/*
Package worktime provides the work-time and cost attribution engine.

PURPOSE:

	Given a team (a lead plus members), the tasks logged against a project and
	the firm's compensation calendar, the engine reconstructs how much time each
	person spent on work attributable to them and what that time cost. The lead
	additionally carries an indirect supervision cost derived from member
	activity.

KEY CONCEPTS IN THIS FILE (types.go):
  - PersonRef: An identifier tagged with the collection it lives in
  - Person: Manager and Crew records unified into one shape
  - Task: A logged unit of work with assignee, assigner and duration
  - Team, Firm, Rank: Read-only inputs fetched from collaborators
  - TaskStatus: Closed status enumeration, normalized once on ingestion

DESIGN PRINCIPLES:
 1. Read-only: The engine never writes back to any collaborator
 2. Precision: Money is computed with decimal.Decimal
 3. Explicit defaults: Missing calendar fields come from CalendarDefaults

SEE ALSO:
  - time.go: HH:MM:SS codec
  - cost.go: Salary to per-minute cost conversion
  - report.go: Team/member aggregation
*/
package worktime

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PERSON REFERENCES
// =============================================================================

// PersonKind names the collection a person record lives in.
type PersonKind string

const (
	KindUnknown PersonKind = ""
	KindManager PersonKind = "Manager"
	KindCrew    PersonKind = "Crew"
)

// ParsePersonKind normalizes a discriminant tag. Unrecognized tags map to
// KindUnknown, which makes the resolver probe both collections.
func ParsePersonKind(s string) PersonKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "manager":
		return KindManager
	case "crew":
		return KindCrew
	default:
		return KindUnknown
	}
}

// PersonRef points at a Manager or Crew record.
type PersonRef struct {
	ID   ID
	Kind PersonKind
}

func (r PersonRef) IsZero() bool { return r.ID.IsZero() }

func (r PersonRef) String() string {
	if r.Kind == KindUnknown {
		return r.ID.Hex()
	}
	return string(r.Kind) + ":" + r.ID.Hex()
}

// UnmarshalJSON accepts a bare identifier string or an expanded person
// object carrying "id" or "_id", with an optional "kind".
func (r *PersonRef) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		id, err := ParseID("person", raw)
		if err != nil {
			return err
		}
		*r = PersonRef{ID: id}
		return nil
	}

	var obj struct {
		ID    json.RawMessage `json:"id"`
		OID   json.RawMessage `json:"_id"`
		Kind  string          `json:"kind"`
		Model string          `json:"model"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return &InvalidIDError{Field: "person", Value: string(data)}
	}

	rawID := obj.ID
	if len(rawID) == 0 {
		rawID = obj.OID
	}
	id, err := ParseID("person", rawIDString(rawID))
	if err != nil {
		return err
	}

	kind := obj.Kind
	if kind == "" {
		kind = obj.Model
	}
	*r = PersonRef{ID: id, Kind: ParsePersonKind(kind)}
	return nil
}

func (r PersonRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   string `json:"id"`
		Kind string `json:"kind,omitempty"`
	}{ID: r.ID.Hex(), Kind: string(r.Kind)})
}

// rawIDString extracts an identifier from a JSON value that may be a string,
// an extended-JSON {"$oid": "..."} object, or something else entirely.
func rawIDString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var oid struct {
		OID string `json:"$oid"`
	}
	if err := json.Unmarshal(raw, &oid); err == nil && oid.OID != "" {
		return oid.OID
	}
	return strings.Trim(string(raw), `"`)
}

// Person is the unified shape of Manager and Crew records.
type Person struct {
	ID            ID
	Kind          PersonKind
	Name          string
	MonthlySalary decimal.Decimal
	RankID        *ID
}

func (p Person) Ref() PersonRef { return PersonRef{ID: p.ID, Kind: p.Kind} }

// =============================================================================
// TASK STATUS
// =============================================================================

type TaskStatus string

const (
	StatusUnknown    TaskStatus = "unknown"
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusOnHold     TaskStatus = "on_hold"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
)

// ParseTaskStatus maps a free-form status string onto the closed set.
// Comparison is case-insensitive and tolerant of separators.
func ParseTaskStatus(s string) TaskStatus {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	switch norm {
	case "completed":
		return StatusCompleted
	case "pending", "todo", "to_do", "open":
		return StatusPending
	case "in_progress", "inprogress", "ongoing":
		return StatusInProgress
	case "on_hold", "onhold", "hold", "paused":
		return StatusOnHold
	case "cancelled", "canceled":
		return StatusCancelled
	default:
		return StatusUnknown
	}
}

func (s *TaskStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("task status: %w", err)
	}
	*s = ParseTaskStatus(raw)
	return nil
}

// RemarkStatus is a reviewer's free-form remark on a task, stored lower-cased.
type RemarkStatus string

func ParseRemarkStatus(s string) RemarkStatus {
	return RemarkStatus(strings.ToLower(strings.TrimSpace(s)))
}

// =============================================================================
// TASK / TEAM / FIRM / RANK
// =============================================================================

// Task is a logged unit of work. TimeTaken is an HH:MM:SS string and is
// "00:00:00" when the source record has none.
type Task struct {
	ID           ID
	ProjectID    ID
	Title        string
	Assignee     PersonRef
	Assigner     PersonRef
	Status       TaskStatus
	RemarkStatus RemarkStatus
	TimeTaken    string
	CreatedAt    time.Time
}

func (t Task) IsCompleted() bool { return t.Status == StatusCompleted }

// Team is a lead plus members. The lead never appears among Members.
type Team struct {
	ID       ID
	FirmID   ID
	Name     string
	Lead     PersonRef
	Members  []PersonRef
	Projects []ID
}

// CoversProject reports whether the team is assigned to the project.
func (t Team) CoversProject(projectID ID) bool {
	for _, p := range t.Projects {
		if p == projectID {
			return true
		}
	}
	return false
}

// HasPerson reports whether id is the lead or one of the members.
func (t Team) HasPerson(id ID) bool {
	if t.Lead.ID == id {
		return true
	}
	for _, m := range t.Members {
		if m.ID == id {
			return true
		}
	}
	return false
}

// WorkingYear is one year's entry in a firm's holiday settings.
type WorkingYear struct {
	Year             int
	TotalWorkingDays int
}

// OfficeTiming is the length of a standard workday.
type OfficeTiming struct {
	Hours   int
	Minutes int
}

// Firm carries the working calendar used to convert salaries into rates.
// OfficeTiming is nil when the firm never configured one.
type Firm struct {
	ID              ID
	Name            string
	HolidaySettings []WorkingYear
	OfficeTiming    *OfficeTiming
}

// Rank is a firm-scoped designation.
type Rank struct {
	ID     ID
	FirmID ID
	Label  string
}

// IDHexes renders identifiers for logging and bulk queries.
func IDHexes(ids []ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}
