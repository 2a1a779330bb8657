package orchestrators

import (
	"context"
	"log/slog"

	"gymdesk/internal/domain/class"
	"gymdesk/internal/domain/member"
)

// ClassStoreForSeed defines the store interface needed by SeedClasses.
type ClassStoreForSeed interface {
	Save(ctx context.Context, c class.Class) error
	List(ctx context.Context) ([]class.Class, error)
}

// MemberStoreForSeed defines the store interface needed by SeedMembers.
type MemberStoreForSeed interface {
	Save(ctx context.Context, m member.Member) error
	List(ctx context.Context) ([]member.Member, error)
}

// ExecuteSeedClasses stores the starter timetable into an empty class table.
// POST: Returns the number of classes created; 0 when any class already exists
// INVARIANT: sample ids are kept as-is so partner booking counts line up
func ExecuteSeedClasses(ctx context.Context, store ClassStoreForSeed) (int, error) {
	return seedEmpty(ctx, "classes_seeded", class.Samples(), store.List, store.Save)
}

// ExecuteSeedMembers stores the starter roster into an empty member table.
// POST: Returns the number of members created; 0 when any member already exists
func ExecuteSeedMembers(ctx context.Context, store MemberStoreForSeed) (int, error) {
	return seedEmpty(ctx, "members_seeded", member.Samples(), store.List, store.Save)
}

func seedEmpty[T any](ctx context.Context, event string, seeds []T,
	list func(context.Context) ([]T, error), save func(context.Context, T) error) (int, error) {
	existing, err := list(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for _, v := range seeds {
		if err := save(ctx, v); err != nil {
			return 0, err
		}
	}
	slog.Info("seed_event", "event", event, "rows", len(seeds))
	return len(seeds), nil
}
