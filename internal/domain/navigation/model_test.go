package navigation_test

import (
	"testing"

	"gymdesk/internal/domain/account"
	"gymdesk/internal/domain/navigation"
)

func labels(items []navigation.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Label
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestItems covers each kind of viewer.
func TestItems(t *testing.T) {
	tests := []struct {
		name     string
		signedIn bool
		role     string
		want     []string
	}{
		{"anonymous", false, "", []string{"Dashboard", "Classes", "Sign In"}},
		{"anonymous ignores role", false, account.RoleAdmin, []string{"Dashboard", "Classes", "Sign In"}},
		{"member", true, account.RoleMember, []string{"Dashboard", "Classes"}},
		{"admin", true, account.RoleAdmin, []string{
			"Dashboard", "Classes", "Members", "Sales", "Statistics",
			"Equipment", "Cleaning", "Access Control", "Client View",
		}},
		{"signed in without profile", true, "", []string{"Dashboard", "Classes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := labels(navigation.Items(tt.signedIn, tt.role))
			if !equal(got, tt.want) {
				t.Errorf("Items() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestAllows matches paths against the visible items.
func TestAllows(t *testing.T) {
	if !navigation.Allows(true, account.RoleAdmin, "/sales") {
		t.Error("admin should reach /sales")
	}
	if navigation.Allows(true, account.RoleMember, "/sales") {
		t.Error("member should not reach /sales")
	}
	if navigation.Allows(true, account.RoleMember, "/auth") {
		t.Error("signed-in member should not see /auth")
	}
}
