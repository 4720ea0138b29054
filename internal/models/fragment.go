package models

import "time"

// Fragment names a reusable HTML partial and the container it mounts into.
type Fragment struct {
	Name      string
	Container string
}

// DefaultFragments returns the page's component set in mount order.
func DefaultFragments() []Fragment {
	return []Fragment{
		{Name: "sidebar", Container: "sidebar-container"},
		{Name: "header", Container: "header-container"},
		{Name: "chat", Container: "chat-container"},
	}
}

// FragmentNames returns the names of the given fragments.
func FragmentNames(fragments []Fragment) []string {
	names := make([]string, len(fragments))
	for i, f := range fragments {
		names[i] = f.Name
	}
	return names
}

// ReadinessEvent is published once every fragment is mounted.
type ReadinessEvent struct {
	Timestamp  time.Time
	Components []string
}
