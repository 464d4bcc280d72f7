package interfaces

import "runboard/internal/models"

// RunSourceInterface is read at the moment a snapshot is captured.
type RunSourceInterface interface {
	CaptureRunSummary() models.RunSummarySnapshot
}
