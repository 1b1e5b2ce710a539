package view

import (
	"testing"
	"time"

	"contractdesk/client"
)

func admin() *client.User {
	return &client.User{ID: 1, Username: "admin", Role: client.RoleAdmin}
}

func viewer() *client.User {
	return &client.User{ID: 2, Username: "viewer", Role: client.RoleViewer}
}

func TestRouterStartsAtLogin(t *testing.T) {
	r := NewRouter()

	if r.Page() != PageLogin {
		t.Errorf("page = %s, want login", r.Page())
	}
	if r.Visible(PanelContracts) {
		t.Error("panels visible before login")
	}
	if err := r.ShowPanel(PanelContracts); err == nil {
		t.Error("panel navigation allowed before login")
	}
}

func TestSessionLifecycle(t *testing.T) {
	r := NewRouter()

	r.SessionStarted(admin())
	if r.Page() != PageMain || !r.Visible(PanelContracts) {
		t.Errorf("after login: page=%s visible(contracts)=%v", r.Page(), r.Visible(PanelContracts))
	}

	r.SessionEnded()
	if r.Page() != PageLogin || r.User() != nil {
		t.Errorf("after logout: page=%s user=%+v", r.Page(), r.User())
	}
}

func TestExactlyOnePanelVisible(t *testing.T) {
	r := NewRouter()
	r.SessionStarted(admin())

	all := []Panel{PanelContracts, PanelContractDetail, PanelContractForm, PanelReports, PanelUsers, PanelSettings}
	for _, target := range all {
		if err := r.ShowPanel(target); err != nil {
			t.Fatalf("show %s: %v", target, err)
		}

		visible := 0
		for _, panel := range all {
			if r.Visible(panel) {
				visible++
			}
		}
		if visible != 1 || !r.Visible(target) {
			t.Errorf("after showing %s: %d panels visible", target, visible)
		}
	}
}

func TestListPanelsReloadOnShow(t *testing.T) {
	r := NewRouter()
	loads := map[Panel]int{}
	for _, panel := range []Panel{PanelContracts, PanelUsers, PanelSettings, PanelContractDetail} {
		p := panel
		r.OnShow(p, func() { loads[p]++ })
	}

	r.SessionStarted(admin())
	if loads[PanelContracts] != 1 {
		t.Errorf("contracts loaded %d times after login, want 1", loads[PanelContracts])
	}

	r.ShowPanel(PanelUsers)
	r.ShowPanel(PanelSettings)
	r.ShowPanel(PanelContracts)
	if loads[PanelUsers] != 1 || loads[PanelSettings] != 1 || loads[PanelContracts] != 2 {
		t.Errorf("loads = %v", loads)
	}

	// Detail panels are populated by the caller, not by a load hook.
	r.ShowPanel(PanelContractDetail)
	if loads[PanelContractDetail] != 0 {
		t.Errorf("detail panel load hook ran %d times", loads[PanelContractDetail])
	}
}

func TestRoleGating(t *testing.T) {
	r := NewRouter()
	r.SessionStarted(viewer())

	for _, panel := range []Panel{PanelUsers, PanelSettings} {
		if err := r.ShowPanel(panel); err == nil {
			t.Errorf("viewer reached %s", panel)
		}
	}
	if !r.Visible(PanelContracts) {
		t.Error("refused navigation changed the visible panel")
	}

	nav := r.NavPanels()
	if len(nav) != 2 || nav[0] != PanelContracts || nav[1] != PanelReports {
		t.Errorf("viewer nav = %v", nav)
	}

	r.SessionStarted(admin())
	if len(r.NavPanels()) != 4 {
		t.Errorf("admin nav = %v", r.NavPanels())
	}
}

func TestActiveNavGroupsContractPanels(t *testing.T) {
	r := NewRouter()
	r.SessionStarted(admin())

	r.ShowPanel(PanelContractDetail)
	if r.ActiveNav() != PanelContracts {
		t.Errorf("active nav = %s for detail panel", r.ActiveNav())
	}
	r.ShowPanel(PanelContractForm)
	if r.ActiveNav() != PanelContracts {
		t.Errorf("active nav = %s for form panel", r.ActiveNav())
	}
	r.ShowPanel(PanelReports)
	if r.ActiveNav() != PanelReports {
		t.Errorf("active nav = %s for reports panel", r.ActiveNav())
	}
}

func TestCategoriesChangedNotifiesAllConsumers(t *testing.T) {
	r := NewRouter()

	filterRefreshed := 0
	formRefreshed := 0
	r.OnCategoriesChanged(func() { filterRefreshed++ })
	r.OnCategoriesChanged(func() { formRefreshed++ })

	r.CategoriesChanged()
	r.CategoriesChanged()

	if filterRefreshed != 2 || formRefreshed != 2 {
		t.Errorf("refresh counts = %d, %d, want 2, 2", filterRefreshed, formRefreshed)
	}
}

func TestContractStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		contract client.Contract
		want     Status
	}{
		{"open ended", client.Contract{}, StatusValid},
		{"future end", client.Contract{ValidUntil: &future}, StatusValid},
		{"past end", client.Contract{ValidUntil: &past}, StatusExpired},
		{"terminated", client.Contract{IsTerminated: true}, StatusTerminated},
		{"terminated wins over future end", client.Contract{IsTerminated: true, ValidUntil: &future}, StatusTerminated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContractStatus(tt.contract, now); got != tt.want {
				t.Errorf("status = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := FormatDate(nil); got != "-" {
		t.Errorf("FormatDate(nil) = %q", got)
	}
	d := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(&d); got != "07.03.2025" {
		t.Errorf("FormatDate = %q", got)
	}

	if got := FormatMonths(nil); got != "-" {
		t.Errorf("FormatMonths(nil) = %q", got)
	}
	one, three := 1, 3
	if got := FormatMonths(&one); got != "1 month" {
		t.Errorf("FormatMonths(1) = %q", got)
	}
	if got := FormatMonths(&three); got != "3 months" {
		t.Errorf("FormatMonths(3) = %q", got)
	}
}
