package progress

import (
	"math"
	"time"

	"progressapi/internal/model"
)

// ComputeStatus aggregates a client's flat step list into the progress
// summary shown on list and dashboard views. This is the single source of
// truth for percentage and overdue badges; no view computes its own.
//
// Percentage is rounded half up to the nearest whole percent and is 0 when
// the client has no steps.
func ComputeStatus(steps []model.ProgressStep, now time.Time) model.ClientStatus {
	var st model.ClientStatus
	st.TotalSteps = len(steps)

	for _, s := range steps {
		if s.Completed {
			st.CompletedSteps++
		}
		if IsStepOverdue(s, now) {
			st.OverdueCount++
		}
	}

	if st.TotalSteps > 0 {
		st.Percentage = int(math.Round(float64(st.CompletedSteps) / float64(st.TotalSteps) * 100))
	}
	st.HasOverdue = st.OverdueCount > 0
	return st
}
