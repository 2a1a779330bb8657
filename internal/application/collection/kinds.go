package collection

import (
	"time"

	"gymdesk/internal/domain/class"
	"gymdesk/internal/domain/cleaning"
	"gymdesk/internal/domain/equipment"
	"gymdesk/internal/domain/member"
	"gymdesk/internal/domain/product"
)

// Managers for each back-office list.
type (
	ClassManager     = Manager[class.Class, *class.Class]
	EquipmentManager = Manager[equipment.Unit, *equipment.Unit]
	CleaningManager  = Manager[cleaning.Task, *cleaning.Task]
	ProductManager   = Manager[product.Product, *product.Product]
	MemberManager    = Manager[member.Member, *member.Member]
)

// ClassRules: timetable entries bucketed by their date.
var ClassRules = Rules[class.Class]{
	Kind:     "class",
	Statuses: class.Statuses,
	Prepare: func(c *class.Class, _ time.Time) error {
		return c.ApplyDefaults()
	},
	SearchFields: func(c class.Class) []string {
		return []string{c.Name, c.Instructor, c.Description}
	},
	Date: func(c class.Class) (time.Time, bool) { return parseDay(c.Date) },
}

// EquipmentRules: returning a unit to operational stamps its maintenance day.
var EquipmentRules = Rules[equipment.Unit]{
	Kind:     "equipment",
	Statuses: equipment.Statuses,
	Prepare: func(u *equipment.Unit, _ time.Time) error {
		if u.Status == "" {
			u.Status = equipment.StatusOperational
		}
		return nil
	},
	Transition: func(u *equipment.Unit, status string, now time.Time) error {
		if status == equipment.StatusOperational {
			u.ReturnToService(now)
		}
		return nil
	},
	SearchFields: func(u equipment.Unit) []string {
		return []string{u.Name, u.Type, u.Location, u.Notes}
	},
}

// CleaningRules: completing a task reschedules it from today.
var CleaningRules = Rules[cleaning.Task]{
	Kind:     "cleaning task",
	Statuses: cleaning.Statuses,
	Prepare: func(t *cleaning.Task, _ time.Time) error {
		if t.Status == "" {
			t.Status = cleaning.StatusPending
		}
		if t.LastCleaned != "" && t.NextDue == "" {
			last, err := time.Parse(cleaning.DateLayout, t.LastCleaned)
			if err != nil {
				return cleaning.ErrInvalidDate
			}
			next, err := cleaning.NextDueDate(last, t.Frequency)
			if err != nil {
				return err
			}
			t.NextDue = next.Format(cleaning.DateLayout)
		}
		return nil
	},
	Transition: func(t *cleaning.Task, status string, now time.Time) error {
		if status == cleaning.StatusCompleted {
			return t.Complete(now)
		}
		return nil
	},
	SearchFields: func(t cleaning.Task) []string {
		return []string{t.Area, t.AssignedTo, t.Notes}
	},
	Date: func(t cleaning.Task) (time.Time, bool) { return parseDay(t.NextDue) },
}

// ProductRules: the shop catalogue.
var ProductRules = Rules[product.Product]{
	Kind:     "product",
	Statuses: product.Statuses,
	Prepare: func(p *product.Product, _ time.Time) error {
		p.ApplyDefaults()
		return nil
	},
	SearchFields: func(p product.Product) []string {
		return []string{p.Name, p.Category, p.Description}
	},
}

// MemberRules: people holding a membership.
var MemberRules = Rules[member.Member]{
	Kind:     "member",
	Statuses: member.Statuses,
	Prepare: func(m *member.Member, now time.Time) error {
		m.Prepare(now)
		return nil
	},
	SearchFields: func(m member.Member) []string {
		return []string{m.Name, m.Email, m.MembershipType}
	},
	Date: func(m member.Member) (time.Time, bool) { return parseDay(m.JoinDate) },
}
