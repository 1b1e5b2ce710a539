package main

import (
	"flag"
	"strings"
	"testing"
	"time"

	"contractdesk/client"
)

func parseContractFlags(t *testing.T, args ...string) (*flag.FlagSet, *contractFlags) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := registerContractFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("flag parse failed: %v", err)
	}
	return fs, f
}

func TestContractFlagsApplyOnlySetFlags(t *testing.T) {
	notice := 3
	validFrom := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := client.Contract{
		ContractNumber: "V000007",
		Title:          "Hosting",
		Partner:        "Acme",
		Category:       "IT",
		ContractType:   client.ContractTypeIndividual,
		ValidFrom:      validFrom,
		NoticePeriod:   &notice,
	}

	fs, f := parseContractFlags(t, "-title", "Hosting Renewed", "-term", "12")
	form := formFromContract(existing)
	if err := f.apply(fs, &form); err != nil {
		t.Fatal(err)
	}

	if form.Title != "Hosting Renewed" {
		t.Errorf("title = %q", form.Title)
	}
	if form.TermMonths == nil || *form.TermMonths != 12 {
		t.Errorf("term = %v, want 12", form.TermMonths)
	}

	// Everything not flagged keeps the existing value.
	if form.Partner != "Acme" || form.Category != "IT" {
		t.Errorf("untouched fields changed: partner=%q category=%q", form.Partner, form.Category)
	}
	if form.ContractNumber != "V000007" {
		t.Errorf("contract number changed: %q", form.ContractNumber)
	}
	if !form.ValidFrom.Equal(validFrom) {
		t.Errorf("valid_from changed: %v", form.ValidFrom)
	}
	if form.NoticePeriod == nil || *form.NoticePeriod != 3 {
		t.Errorf("notice period changed: %v", form.NoticePeriod)
	}
}

func TestContractFlagsParseDates(t *testing.T) {
	fs, f := parseContractFlags(t,
		"-valid-from", "2024-03-01",
		"-valid-until", "2025-03-01",
		"-min-term", "2024-09-01",
	)

	var form client.ContractForm
	if err := f.apply(fs, &form); err != nil {
		t.Fatal(err)
	}

	if want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC); !form.ValidFrom.Equal(want) {
		t.Errorf("valid_from = %v", form.ValidFrom)
	}
	if form.ValidUntil == nil || form.ValidUntil.Month() != time.March {
		t.Errorf("valid_until = %v", form.ValidUntil)
	}
	if form.MinimumTerm == nil || form.MinimumTerm.Month() != time.September {
		t.Errorf("minimum_term = %v", form.MinimumTerm)
	}
}

func TestContractFlagsRejectBadDate(t *testing.T) {
	fs, f := parseContractFlags(t, "-valid-from", "01.03.2024")

	var form client.ContractForm
	err := f.apply(fs, &form)
	if err == nil || !strings.Contains(err.Error(), "valid-from") {
		t.Fatalf("err = %v, want valid-from format error", err)
	}
}

func TestContractFlagsClearOptionals(t *testing.T) {
	notice, term := 3, 12
	until := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	frameworkID := uint(4)
	existing := client.Contract{
		NoticePeriod:        &notice,
		TermMonths:          &term,
		ValidUntil:          &until,
		FrameworkContractID: &frameworkID,
	}

	fs, f := parseContractFlags(t, "-notice", "0", "-term", "0", "-valid-until", "", "-framework", "0")
	form := formFromContract(existing)
	if err := f.apply(fs, &form); err != nil {
		t.Fatal(err)
	}

	if form.NoticePeriod != nil || form.TermMonths != nil {
		t.Errorf("notice=%v term=%v, want both cleared", form.NoticePeriod, form.TermMonths)
	}
	if form.ValidUntil != nil {
		t.Errorf("valid_until = %v, want cleared", form.ValidUntil)
	}
	if form.FrameworkContractID != nil {
		t.Errorf("framework_contract_id = %v, want cleared", form.FrameworkContractID)
	}
}

func TestFormFromContract(t *testing.T) {
	notice := 6
	existing := client.Contract{
		ID:             3,
		ContractNumber: "V000003",
		Title:          "Cleaning",
		Partner:        "Sauber AG",
		Category:       "Facilities",
		ContractType:   client.ContractTypeFramework,
		ValidFrom:      time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		NoticePeriod:   &notice,
	}

	form := formFromContract(existing)
	if form.ContractNumber != "V000003" || form.Title != "Cleaning" || form.Partner != "Sauber AG" {
		t.Errorf("form = %+v", form)
	}
	if form.ContractType != client.ContractTypeFramework || form.Category != "Facilities" {
		t.Errorf("form = %+v", form)
	}
	if form.NoticePeriod == nil || *form.NoticePeriod != 6 {
		t.Errorf("notice = %v", form.NoticePeriod)
	}
}
