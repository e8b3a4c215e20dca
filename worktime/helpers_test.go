package worktime_test

import (
	"fmt"

	"github.com/warp/workcost-engine/worktime"
)

// oid builds a deterministic identifier from a small integer.
func oid(n int) worktime.ID {
	return worktime.MustParseID(fmt.Sprintf("%024x", n))
}

func task(assignee, assigner worktime.ID, status string, timeTaken string) worktime.Task {
	return worktime.Task{
		ID:        worktime.NewID(),
		Assignee:  worktime.PersonRef{ID: assignee},
		Assigner:  worktime.PersonRef{ID: assigner},
		Status:    worktime.ParseTaskStatus(status),
		TimeTaken: timeTaken,
	}
}
