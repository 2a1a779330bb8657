package navigation

import "gymdesk/internal/domain/account"

// Item is one navigation entry.
type Item struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

var common = []Item{
	{Label: "Dashboard", Path: "/"},
	{Label: "Classes", Path: "/classes"},
}

var adminOnly = []Item{
	{Label: "Members", Path: "/members"},
	{Label: "Sales", Path: "/sales"},
	{Label: "Statistics", Path: "/stats"},
	{Label: "Equipment", Path: "/equipment"},
	{Label: "Cleaning", Path: "/cleaning"},
	{Label: "Access Control", Path: "/access-control"},
	{Label: "Client View", Path: "/client-view"},
}

var signIn = Item{Label: "Sign In", Path: "/auth"}

// Items returns the navigation visible to a viewer.
// role is ignored when signedIn is false.
// POST: common items always come first; admin items only for admins; Sign In only for anonymous viewers
func Items(signedIn bool, role string) []Item {
	items := make([]Item, 0, len(common)+len(adminOnly)+1)
	items = append(items, common...)
	if signedIn && role == account.RoleAdmin {
		items = append(items, adminOnly...)
	}
	if !signedIn {
		items = append(items, signIn)
	}
	return items
}

// Allows reports whether path is reachable for the viewer.
func Allows(signedIn bool, role, path string) bool {
	for _, it := range Items(signedIn, role) {
		if it.Path == path {
			return true
		}
	}
	return false
}
