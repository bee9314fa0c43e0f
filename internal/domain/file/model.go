package file

import (
	"time"

	"github.com/tallyhq/tally/internal/domain/liveness"
)

// File is metadata for a stored upload. The bytes live on disk under the
// configured uploads directory; Filepath is the server-relative storage path.
type File struct {
	ID        string         `json:"id"`
	Filename  string         `json:"filename"`
	Filepath  string         `json:"filepath"`
	ProjectID string         `json:"projectId"`
	UserID    string         `json:"userId"`
	AddedBy   string         `json:"addedBy"`
	AddedOn   time.Time      `json:"addedOn"`
	UpdatedBy *string        `json:"updatedBy,omitempty"`
	UpdatedOn *time.Time     `json:"updatedOn,omitempty"`
	Liveness  liveness.State `json:"liveness"`
}

// Active reports whether the file is visible to normal reads.
func (f *File) Active() bool {
	return f.Liveness == liveness.Active
}
