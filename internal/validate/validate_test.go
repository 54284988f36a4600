package validate_test

import (
	"errors"
	"testing"

	"launchtracker/internal/domain"
	"launchtracker/internal/validate"
)

func fieldMessages(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *domain.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected *domain.ErrValidation, got %T: %v", err, err)
	}
	out := make(map[string]string, len(verr.Fields))
	for _, f := range verr.Fields {
		out[f.Field] = f.Message
	}
	return out
}

func TestStruct_Valid(t *testing.T) {
	in := domain.RegisterInput{Email: "founder@example.com", Password: "secret1", Name: "Founder"}
	if err := validate.Struct(in); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
}

func TestStruct_RequiredAndEmail(t *testing.T) {
	in := domain.RegisterInput{Email: "not-an-email", Password: ""}
	fields := fieldMessages(t, validate.Struct(in))

	if fields["email"] != "must be a valid email address" {
		t.Errorf("email message = %q", fields["email"])
	}
	if fields["password"] != "is required" {
		t.Errorf("password message = %q", fields["password"])
	}
	if fields["name"] != "is required" {
		t.Errorf("name message = %q", fields["name"])
	}
}

func TestStruct_WireFieldNames(t *testing.T) {
	// Field names in errors come from json tags, not Go field names.
	in := domain.CreatePlanInput{Name: "Launch", StartDate: "02/01/2026", EndDate: "2026-02-14"}
	fields := fieldMessages(t, validate.Struct(in))

	if _, ok := fields["startDate"]; !ok {
		t.Fatalf("expected error keyed by wire name startDate, got %v", fields)
	}
	if fields["startDate"] != "must be a date in YYYY-MM-DD format" {
		t.Errorf("startDate message = %q", fields["startDate"])
	}
}

func TestStruct_OneOf(t *testing.T) {
	in := domain.CreateKpiInput{
		Name:       "Delivered Rate",
		Category:   "bogus",
		Unit:       domain.UnitPercent,
		TargetType: domain.TargetMinimum,
	}
	fields := fieldMessages(t, validate.Struct(in))

	want := "must be one of: email_deliverability, funnel_conversion, revenue, activation, ads"
	if fields["category"] != want {
		t.Errorf("category message = %q, want %q", fields["category"], want)
	}
}

func TestStruct_NestedImportRows(t *testing.T) {
	in := domain.ImportContactsInput{Contacts: []domain.ImportContact{
		{Email: "good@example.com", Segment: domain.SegmentColdList},
		{Email: "bad", Segment: "warm_list"},
	}}
	err := validate.Struct(in)
	if err == nil {
		t.Fatal("expected nested row validation to fail")
	}

	var verr *domain.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected *domain.ErrValidation, got %T", err)
	}
	if len(verr.Fields) != 2 {
		t.Fatalf("expected 2 field errors, got %d: %v", len(verr.Fields), verr.Fields)
	}
}

func TestStruct_EmptyImportRejected(t *testing.T) {
	if err := validate.Struct(domain.ImportContactsInput{}); err == nil {
		t.Fatal("expected empty contact list to fail validation")
	}
}
