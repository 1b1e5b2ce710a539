// Package view holds the UI-independent navigation and presentation model
// of a contractdesk front end. A renderer (terminal, web, test) observes
// the Router and draws whatever state it reports; the Router itself never
// touches I/O.
package view

import (
	"fmt"

	"contractdesk/client"
)

type Page string

const (
	PageLogin Page = "login"
	PageMain  Page = "main"
)

// Panel is one content area of the main page. Exactly one panel is visible
// at a time.
type Panel string

const (
	PanelContracts      Panel = "contracts"
	PanelContractDetail Panel = "contract-detail"
	PanelContractForm   Panel = "contract-form"
	PanelReports        Panel = "reports"
	PanelUsers          Panel = "users"
	PanelSettings       Panel = "settings"
)

// adminPanels are only reachable with the admin role.
var adminPanels = map[Panel]bool{
	PanelUsers:    true,
	PanelSettings: true,
}

// loadedPanels trigger a data load every time they become visible.
var loadedPanels = map[Panel]bool{
	PanelContracts: true,
	PanelUsers:     true,
	PanelSettings:  true,
}

// Router is the two-level navigation state machine: login page or main
// page, and within the main page exactly one visible panel.
type Router struct {
	page  Page
	panel Panel
	user  *client.User

	loaders          map[Panel]func()
	categoryWatchers []func()
}

func NewRouter() *Router {
	return &Router{
		page:    PageLogin,
		panel:   PanelContracts,
		loaders: make(map[Panel]func()),
	}
}

// OnShow registers the data loader that runs whenever the panel becomes
// visible. Only list-style panels reload on every visit; detail and form
// panels are populated by the caller before navigation.
func (r *Router) OnShow(panel Panel, load func()) {
	r.loaders[panel] = load
}

// OnCategoriesChanged registers a listener for category changes. Every
// category consumer (the list filter dropdown and the contract form
// dropdown) registers here so a rename or delete refreshes them all.
func (r *Router) OnCategoriesChanged(refresh func()) {
	r.categoryWatchers = append(r.categoryWatchers, refresh)
}

// CategoriesChanged notifies all registered category consumers.
func (r *Router) CategoriesChanged() {
	for _, refresh := range r.categoryWatchers {
		refresh()
	}
}

// SessionStarted switches to the main page after a login or a restored
// session, landing on the contracts panel.
func (r *Router) SessionStarted(user *client.User) {
	r.user = user
	r.page = PageMain
	r.showPanel(PanelContracts)
}

// SessionEnded returns to the login page. Used for both an explicit logout
// and an expired session.
func (r *Router) SessionEnded() {
	r.user = nil
	r.page = PageLogin
	r.panel = PanelContracts
}

// ShowPanel makes the given panel the visible one. Admin panels are refused
// for non-admin users.
func (r *Router) ShowPanel(panel Panel) error {
	if r.page != PageMain {
		return fmt.Errorf("not logged in")
	}
	if adminPanels[panel] && !r.user.IsAdmin() {
		return fmt.Errorf("admin access required")
	}

	r.showPanel(panel)
	return nil
}

func (r *Router) showPanel(panel Panel) {
	r.panel = panel
	if loadedPanels[panel] {
		if load, ok := r.loaders[panel]; ok {
			load()
		}
	}
}

func (r *Router) Page() Page {
	return r.page
}

func (r *Router) User() *client.User {
	return r.user
}

// Visible reports whether the given panel is the one to draw.
func (r *Router) Visible(panel Panel) bool {
	return r.page == PageMain && r.panel == panel
}

// ActiveNav returns the navigation entry to highlight. Detail and form
// panels belong to the contracts entry.
func (r *Router) ActiveNav() Panel {
	switch r.panel {
	case PanelContractDetail, PanelContractForm:
		return PanelContracts
	default:
		return r.panel
	}
}

// NavPanels lists the navigation entries visible to the current user.
func (r *Router) NavPanels() []Panel {
	panels := []Panel{PanelContracts, PanelReports}
	if r.user.IsAdmin() {
		panels = append(panels, PanelUsers, PanelSettings)
	}
	return panels
}
