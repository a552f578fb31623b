package router

import "strings"

// NavLink is one entry of a navigation menu.
type NavLink struct {
	Href  string
	Label string
}

// PrimaryNav is the main page menu.
var PrimaryNav = []NavLink{
	{Href: "/", Label: "Search"},
	{Href: "/search", Label: "Advanced"},
	{Href: "/graph", Label: "Knowledge Graph"},
	{Href: "/learn", Label: "Learn"},
	{Href: "/simulator", Label: "Simulator"},
	{Href: "/deep-research", Label: "Deep Research"},
	{Href: "/chat", Label: "Chat"},
}

// TopNav is the account menu in the header.
var TopNav = []NavLink{
	{Href: "/learn?tab=progress", Label: "Progress"},
	{Href: "/learn?tab=badges", Label: "Badges"},
	{Href: "/profile", Label: "Profile"},
}

// NavItem is a NavLink with its highlight state for one navigation.
type NavItem struct {
	NavLink
	Active bool
}

// Chrome is the page-independent state toggled on every navigation.
type Chrome struct {
	// Home styles the body for the landing page.
	Home bool
	// FabVisible shows the floating chat button; hidden on the chat page.
	FabVisible bool
	Primary    []NavItem
	Top        []NavItem
}

// ChromeFor computes the chrome for a resolved match.
func ChromeFor(m Match) Chrome {
	current := m.Path
	if q := m.Query.Encode(); q != "" {
		current += "?" + q
	}
	return Chrome{
		Home:       m.Page == PageHome,
		FabVisible: m.Page != PageChat,
		Primary:    highlight(PrimaryNav, m.Path),
		Top:        highlight(TopNav, current),
	}
}

func highlight(links []NavLink, current string) []NavItem {
	items := make([]NavItem, len(links))
	for i, l := range links {
		items[i] = NavItem{NavLink: l, Active: IsActive(l.Href, current)}
	}
	return items
}

// IsActive reports whether href is a prefix of current on a segment
// boundary. The root link is only active on the root itself.
func IsActive(href, current string) bool {
	if href == "/" {
		return current == "/" || strings.HasPrefix(current, "/?")
	}
	if !strings.HasPrefix(current, href) {
		return false
	}
	rest := current[len(href):]
	return rest == "" || rest[0] == '/' || rest[0] == '?' || strings.HasSuffix(href, "/")
}
