package event

type Type string

const (
	TypeSocietyCreated  Type = "society.created"
	TypeSocietyUpdated  Type = "society.updated"
	TypeSocietyDeleted  Type = "society.deleted"
	TypeUnitCreated     Type = "unit.created"
	TypeUnitUpdated     Type = "unit.updated"
	TypeUnitDeleted     Type = "unit.deleted"
	TypeResidentCreated Type = "resident.created"
	TypeResidentUpdated Type = "resident.updated"
	TypeResidentDeleted Type = "resident.deleted"
	TypeIncomeCreated   Type = "income.created"
	TypeIncomeDeleted   Type = "income.deleted"
	TypeExpenseCreated  Type = "expense.created"
	TypeExpenseDeleted  Type = "expense.deleted"
	TypeExpenseAttached Type = "expense.attached"
	TypeBillsGenerated  Type = "bills.generated"
	TypeBillsOverdue    Type = "bills.overdue"
	TypeBillPaid        Type = "bill.paid"
	TypeUserRegistered  Type = "user.registered"
	TypeUserLoginFailed Type = "user.login_failed"
	TypeUserLoggedIn    Type = "user.login"
)

type Actor struct {
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	IP       string `json:"ip,omitempty"`
}

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Resource  string `json:"resource,omitempty"` // e.g. "society/<id>"
	Before    any    `json:"before,omitempty"`
	Payload   any    `json:"payload"`
	Failed    string `json:"failed,omitempty"`
	Timestamp string `json:"timestamp"`
	Actor     Actor  `json:"actor"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}
