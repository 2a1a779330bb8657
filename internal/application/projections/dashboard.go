package projections

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"gymdesk/internal/domain/class"
	"gymdesk/internal/domain/member"
)

// DashboardMemberStore counts members by status.
type DashboardMemberStore interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// DashboardClassStore lists classes.
type DashboardClassStore interface {
	List(ctx context.Context) ([]class.Class, error)
}

// DashboardDeps holds dependencies for the dashboard projection.
type DashboardDeps struct {
	Members   DashboardMemberStore
	Classes   DashboardClassStore
	Equipment EquipmentLister
	Cleaning  CleaningLister
	Sales     SaleLister
}

// MemberCounts breaks members down by status.
type MemberCounts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
	Pending  int `json:"pending"`
}

// Dashboard is the front-desk overview.
type Dashboard struct {
	Members            MemberCounts    `json:"members"`
	TodaysClasses      []class.Class   `json:"todaysClasses"`
	EquipmentAttention int             `json:"equipmentNeedingAttention"`
	OverdueCleaning    int             `json:"overdueCleaning"`
	RevenueToday       decimal.Decimal `json:"revenueToday"`
	RevenueMonth       decimal.Decimal `json:"revenueThisMonth"`
}

// QueryDashboard gathers the overview for now.
// POST: TodaysClasses excludes cancelled classes and is ordered by start time
func QueryDashboard(ctx context.Context, now time.Time, deps DashboardDeps) (Dashboard, error) {
	var d Dashboard

	counts, err := deps.Members.CountByStatus(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	d.Members = MemberCounts{
		Active:   counts[member.StatusActive],
		Inactive: counts[member.StatusInactive],
		Pending:  counts[member.StatusPending],
	}
	for _, n := range counts {
		d.Members.Total += n
	}

	classes, err := deps.Classes.List(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	today := now.Format(class.DateLayout)
	d.TodaysClasses = []class.Class{}
	for _, c := range classes {
		if c.Date == today && c.Status != class.StatusCancelled {
			d.TodaysClasses = append(d.TodaysClasses, c)
		}
	}
	sortByTime(d.TodaysClasses)

	units, err := deps.Equipment.List(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	for _, u := range units {
		if u.NeedsAttention() {
			d.EquipmentAttention++
		}
	}

	tasks, err := deps.Cleaning.List(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	for _, t := range tasks {
		if t.IsOverdue(now) {
			d.OverdueCleaning++
		}
	}

	month, err := SalesInRange(ctx, deps.Sales, RangeMonth, now)
	if err != nil {
		return Dashboard{}, err
	}
	dayStart, dayEnd := RangeDay.Bounds(now)
	d.RevenueToday, d.RevenueMonth = decimal.Zero, decimal.Zero
	for _, s := range month {
		d.RevenueMonth = d.RevenueMonth.Add(s.Total)
		if !s.Timestamp.Before(dayStart) && s.Timestamp.Before(dayEnd) {
			d.RevenueToday = d.RevenueToday.Add(s.Total)
		}
	}
	return d, nil
}

func sortByTime(classes []class.Class) {
	sort.SliceStable(classes, func(i, j int) bool { return classes[i].Time < classes[j].Time })
}
