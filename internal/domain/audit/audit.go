package audit

import (
	"time"

	"github.com/google/uuid"
)

// Category is the audit trail filter shown on the admin audit page.
type Category string

const (
	CategoryAccount  Category = "account"
	CategorySecurity Category = "security"
	CategorySales    Category = "sales"
	CategoryPartner  Category = "partner"
	CategoryAccess   Category = "access"
	CategorySystem   Category = "system"
)

type Action string

const (
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionLogin      Action = "login"
	ActionLogout     Action = "logout"
	ActionRoleChange Action = "role_change"
	ActionExport     Action = "export"
	ActionRotate     Action = "rotate"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Actor is whoever caused an event: a signed-in account and the address it came from.
type Actor struct {
	ID    string
	Email string
	Role  string
	IP    string
}

// Event is one row of the audit trail. Events are append-only.
type Event struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Category     Category  `json:"category"`
	Action       Action    `json:"action"`
	Severity     Severity  `json:"severity"`
	ActorID      string    `json:"actorId"`
	ActorEmail   string    `json:"actorEmail"`
	ActorRole    string    `json:"actorRole"`
	ResourceID   string    `json:"resourceId"`
	ResourceType string    `json:"resourceType"`
	Description  string    `json:"description"`
	IPAddress    string    `json:"ipAddress"`
	Metadata     string    `json:"metadata"`
}

// NewEvent starts an info-level event attributed to by, stamped with the current time.
// POST: ID is a fresh uuid; Timestamp is UTC
func NewEvent(by Actor, category Category, action Action) Event {
	return Event{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		Category:   category,
		Action:     action,
		Severity:   SeverityInfo,
		ActorID:    by.ID,
		ActorEmail: by.Email,
		ActorRole:  by.Role,
		IPAddress:  by.IP,
	}
}

// The With helpers return a modified copy so events can be built in one expression.

func (e Event) At(t time.Time) Event {
	e.Timestamp = t.UTC()
	return e
}

func (e Event) WithSeverity(s Severity) Event {
	e.Severity = s
	return e
}

func (e Event) WithResource(kind, id string) Event {
	e.ResourceType, e.ResourceID = kind, id
	return e
}

func (e Event) WithDescription(desc string) Event {
	e.Description = desc
	return e
}

// WithMetadata attaches a JSON document.
// PRE: metadata is valid JSON or empty
func (e Event) WithMetadata(metadata string) Event {
	e.Metadata = metadata
	return e
}
