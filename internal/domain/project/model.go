package project

import "time"

// Project is a unit of work owned by a single user. All reads and writes are
// scoped to the owner; there is no sharing model.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"ownerId"`
	LogoFileID  *string   `json:"logoFileId,omitempty"`
	LogoURL     string    `json:"logoUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Logo returns the authoritative logo reference for display: an uploaded file
// takes precedence over a raw URL when both are set.
func (p *Project) Logo() (fileID, url string) {
	if p.LogoFileID != nil && *p.LogoFileID != "" {
		return *p.LogoFileID, ""
	}
	return "", p.LogoURL
}
