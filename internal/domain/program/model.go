package program

import "time"

type ApplicationStatus string

const (
	ApplicationStatusOpen   ApplicationStatus = "open"
	ApplicationStatusClosed ApplicationStatus = "closed"
)

// Application is one accelerator cohort's intake campaign. Submissions,
// evaluation steps and interview slots all hang off it.
type Application struct {
	ID          string
	WorkspaceID string
	Name        string
	Status      ApplicationStatus
	CreatedAt   time.Time
}
