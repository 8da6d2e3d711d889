package disciteomnes

import (
	"sort"
	"strings"
)

// Group is a study group row. IDs are opaque strings issued by the
// backend.
type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedBy   string `json:"created_by,omitempty"`
}

type GroupRequest struct {
	Name string `json:"name"`
}

// GroupMembership is the join record, nothing more.
type GroupMembership struct {
	UserID  string `json:"user_id"`
	GroupID string `json:"group_id"`
}

// GroupMember is one row of the relational projection
// group_members?select=group:groups(id,name).
type GroupMember struct {
	Group Group `json:"group"`
}

// SortGroupsByName orders groups by name, case-insensitively. The sort
// is stable so equal names keep their server order.
func SortGroupsByName(groups []Group) {
	sort.SliceStable(groups, func(i, j int) bool {
		return strings.ToLower(groups[i].Name) < strings.ToLower(groups[j].Name)
	})
}
