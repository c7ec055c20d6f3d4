package pipeline

import (
	"strconv"
	"strings"
)

// Run statuses shown in the list view.
const (
	StatusSucceeded = "Succeeded"
	StatusFailed    = "Failed"
	StatusCancelled = "Cancelled"
	StatusRunning   = "Running"
	StatusPending   = "Pending"

	// StatusNone is shown when a pipeline has never run.
	StatusNone = "-"

	reasonCancelled = "PipelineRunCancelled"
)

// RunStatusOf derives the display status of a run from its Succeeded
// condition. It returns "" when the run has no such condition yet.
func RunStatusOf(run *PipelineRun) string {
	if run == nil {
		return ""
	}
	cond := run.Condition(StatusSucceeded)
	if cond == nil {
		return ""
	}
	if cond.Status != "True" && (cond.Reason == reasonCancelled || run.Spec.Status == reasonCancelled) {
		return StatusCancelled
	}
	return conditionStatus(cond.Status)
}

func conditionStatus(s string) string {
	switch s {
	case "True":
		return StatusSucceeded
	case "False":
		return StatusFailed
	default:
		return StatusRunning
	}
}

// FilterReducer returns the status used to filter and display a pipeline:
// the status of its latest run, or "-".
func FilterReducer(p Pipeline) string {
	if s := RunStatusOf(p.LatestRun); s != "" {
		return s
	}
	return StatusNone
}

// TaskStatus counts the tasks of a run per status.
type TaskStatus struct {
	Succeeded int
	Failed    int
	Cancelled int
	Running   int
	Pending   int
}

// Total returns the number of counted tasks.
func (s TaskStatus) Total() int {
	return s.Succeeded + s.Failed + s.Cancelled + s.Running + s.Pending
}

// String renders the non-zero counts, e.g. "2 Succeeded, 1 Failed".
func (s TaskStatus) String() string {
	parts := make([]string, 0, 5)
	for _, c := range []struct {
		n     int
		label string
	}{
		{s.Succeeded, StatusSucceeded},
		{s.Failed, StatusFailed},
		{s.Cancelled, StatusCancelled},
		{s.Running, StatusRunning},
		{s.Pending, StatusPending},
	} {
		if c.n > 0 {
			parts = append(parts, strconv.Itoa(c.n)+" "+c.label)
		}
	}
	return strings.Join(parts, ", ")
}

// TaskStatusOf summarizes the task runs of run.
func TaskStatusOf(run *PipelineRun) TaskStatus {
	var s TaskStatus
	if run == nil {
		return s
	}
	for _, tr := range run.Status.TaskRuns {
		var cond *Condition
		for i := range tr.Status.Conditions {
			if tr.Status.Conditions[i].Type == StatusSucceeded {
				cond = &tr.Status.Conditions[i]
			}
		}
		switch {
		case cond == nil:
			s.Pending++
		case cond.Status != "True" && strings.HasSuffix(cond.Reason, "Cancelled"):
			s.Cancelled++
		default:
			switch conditionStatus(cond.Status) {
			case StatusSucceeded:
				s.Succeeded++
			case StatusFailed:
				s.Failed++
			default:
				s.Running++
			}
		}
	}
	return s
}
