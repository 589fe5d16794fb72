package model

type AuditActor struct {
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	IP       string `json:"ip,omitempty"`
}

type AuditEntry struct {
	Action     string     `json:"action"`
	OccurredAt string     `json:"occurred_at"`
	Actor      AuditActor `json:"actor"`
	Status     string     `json:"status"`
	Resource   string     `json:"resource,omitempty"`
	Before     any        `json:"before,omitempty"`
	After      any        `json:"after,omitempty"`
	Error      string     `json:"error,omitempty"`
}

type AuditQuery struct {
	Action  string
	ActorID string
	Status  string
	From    string
	To      string
}

type PayBillRequest struct {
	Method    string `json:"method"`
	Reference string `json:"reference"`
}

type GenerateBillsRequest struct {
	Period string `json:"period"`
}

type GenerateBillsResult struct {
	Period  string            `json:"period"`
	Created int               `json:"created"`
	Skipped int               `json:"skipped"`
	Bills   []MaintenanceBill `json:"bills"`
}
