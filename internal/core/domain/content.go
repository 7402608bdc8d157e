package domain

// AuditContext describes the company state the AI helper should reason about.
type AuditContext struct {
	CompanyName string   `json:"companyName,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	Problems    []string `json:"problems,omitempty"`
}

// ContentRequest asks the AI collaborator for page help or an audit plan.
type ContentRequest struct {
	PageID string        `json:"pageId,omitempty"`
	Audit  *AuditContext `json:"audit,omitempty"`
}

type PlanStep struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ContentResponse is the structured help returned to the UI.
type ContentResponse struct {
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Actions     []string   `json:"actions,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	Problems    []string   `json:"problems,omitempty"`
	Plan        []PlanStep `json:"plan,omitempty"`
}

// Empty reports whether the response carries nothing the UI can render.
func (r *ContentResponse) Empty() bool {
	return r.Title == "" && r.Summary == "" && len(r.Plan) == 0
}
