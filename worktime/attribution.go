package worktime

// =============================================================================
// ATTRIBUTION - Which tasks count for a supervisor
// =============================================================================

// AttributedTo returns the tasks assigned by supervisorID whose status is
// completed. Input order is preserved.
func AttributedTo(tasks []Task, supervisorID ID) []Task {
	var out []Task
	for _, t := range tasks {
		if t.Assigner.ID == supervisorID && t.IsCompleted() {
			out = append(out, t)
		}
	}
	return out
}

// AssignedTo returns the tasks whose assignee is personID, preserving order.
func AssignedTo(tasks []Task, personID ID) []Task {
	var out []Task
	for _, t := range tasks {
		if t.Assignee.ID == personID {
			out = append(out, t)
		}
	}
	return out
}
