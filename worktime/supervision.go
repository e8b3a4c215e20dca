/*
supervision.go - Lead oversight cost

PURPOSE:

	A lead's supervision burden is modeled as the average logged time of the
	members who logged anything on the project, priced at the lead's salary.

RULES:
  - Every task counts regardless of status or assigner. Member rows only
    credit completed, lead-assigned work, so a member's in-progress work can
    raise the lead's supervision cost without showing up in the member's row.
  - Members who never appear as an assignee are left out of the denominator.
  - Average seconds are floored.

EXAMPLE:

	Members logged 01:00:00, 02:00:00 and nothing:
	(3600 + 7200) / 2 = 5400s -> "01:30:00"
*/
package worktime

import "github.com/shopspring/decimal"

// Supervision is the lead's oversight share.
type Supervision struct {
	Seconds       int64
	Cost          decimal.Decimal
	ActiveMembers int
	MemberSeconds int64
}

func (s Supervision) Duration() string { return DurationOf(s.Seconds) }

// AsCost returns the supervision share in Cost form.
func (s Supervision) AsCost() Cost { return Cost{Amount: s.Cost, Seconds: s.Seconds} }

// DistributeSupervision computes the lead's supervision share over the full,
// unfiltered task list.
func DistributeSupervision(tasks []Task, memberIDs []ID, leadSalary decimal.Decimal, cal Calendar) Supervision {
	members := make(map[ID]bool, len(memberIDs))
	for _, id := range memberIDs {
		members[id] = true
	}

	active := make(map[ID]bool)
	var total int64
	for _, t := range tasks {
		if !members[t.Assignee.ID] {
			continue
		}
		active[t.Assignee.ID] = true
		total += SecondsOf(t.TimeTaken)
	}

	sup := Supervision{Cost: decimal.Zero, ActiveMembers: len(active), MemberSeconds: total}
	if len(active) == 0 {
		return sup
	}
	sup.Seconds = total / int64(len(active))
	sup.Cost = CostOf(DurationOf(sup.Seconds), leadSalary, cal).Amount
	return sup
}
