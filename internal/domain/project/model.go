package project

// Project binds a user to one backing spreadsheet document. Exactly one
// project is "current" at a time on the client side; the backend tracks the
// default flag.
type Project struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"userId"`
	Name          string `json:"name"`
	SpreadsheetID string `json:"spreadsheetId"`
	TemplateID    *int64 `json:"templateId,omitempty"`
	IsDefault     bool   `json:"isDefault"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// Template describes a server-provided starting sheet layout.
type Template struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Headers     []string `json:"headers"`
	SampleRows  [][]any  `json:"sampleRows,omitempty"`
}

// Mode selects how a new project obtains its spreadsheet.
type Mode string

const (
	// ModeTemplate creates a new sheet from a server template.
	ModeTemplate Mode = "template"
	// ModeScratch creates a blank sheet.
	ModeScratch Mode = "scratch"
	// ModeExisting links an external sheet by URL.
	ModeExisting Mode = "existing"
)

// CreateRequest describes a project creation request.
type CreateRequest struct {
	Name           string `json:"name"`
	Mode           Mode   `json:"mode"`
	TemplateID     *int64 `json:"templateId,omitempty"`
	SpreadsheetURL string `json:"spreadsheetUrl,omitempty"`
}

// NextCurrent picks the project that becomes current after the current one
// is removed: the default-flagged one, else the first remaining, else none.
func NextCurrent(remaining []Project) *Project {
	for i := range remaining {
		if remaining[i].IsDefault {
			return &remaining[i]
		}
	}
	if len(remaining) > 0 {
		return &remaining[0]
	}
	return nil
}
