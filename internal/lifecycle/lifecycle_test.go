package lifecycle

import (
	"errors"
	"slices"
	"testing"

	"scar_tracker/internal/apperrors"
	"scar_tracker/internal/models"
)

// completeResponse returns a SCAR whose supplier sections 3-6 are filled in.
func completeResponse(status string) *models.Scar {
	return &models.Scar{
		Status:             status,
		ContainmentIsolate: "affected lot quarantined in warehouse B",
		RootCause:          "mold wear on locking tab cavity",
		CorrectiveAction:   "mold refurbished and recertified",
		PreventiveAction:   "predictive maintenance with shot-count triggers",
	}
}

func TestTransitionForwardPath(t *testing.T) {
	scar := completeResponse(models.ScarOpen)

	next, err := Transition(scar, Submit, models.RoleSupplier)
	if err != nil {
		t.Fatalf("submit from open: %v", err)
	}
	if next != models.ScarSubmitted {
		t.Fatalf("submit from open: got %q, want %q", next, models.ScarSubmitted)
	}

	scar.Status = next
	scar.VerificationAcceptable = "yes"
	next, err = Transition(scar, Accept, models.RoleAdmin)
	if err != nil {
		t.Fatalf("accept from submitted: %v", err)
	}
	if next != models.ScarClosed {
		t.Fatalf("accept from submitted: got %q, want %q", next, models.ScarClosed)
	}
}

func TestTransitionRejectReopens(t *testing.T) {
	scar := completeResponse(models.ScarSubmitted)
	scar.VerificationAcceptable = "no"

	next, err := Transition(scar, Reject, models.RoleAdmin)
	if err != nil {
		t.Fatalf("reject from submitted: %v", err)
	}
	if next != models.ScarOpen {
		t.Fatalf("reject from submitted: got %q, want %q", next, models.ScarOpen)
	}
}

func TestTransitionErrors(t *testing.T) {
	tests := []struct {
		name   string
		scar   *models.Scar
		action Action
		role   string
		want   error
	}{
		{"admin cannot submit", completeResponse(models.ScarOpen), Submit, models.RoleAdmin, apperrors.ErrForbidden},
		{"supplier cannot accept", completeResponse(models.ScarSubmitted), Accept, models.RoleSupplier, apperrors.ErrForbidden},
		{"supplier cannot reject", completeResponse(models.ScarSubmitted), Reject, models.RoleSupplier, apperrors.ErrForbidden},
		{"no direct open to closed", completeResponse(models.ScarOpen), Accept, models.RoleAdmin, apperrors.ErrInvalidTransition},
		{"no reject from open", completeResponse(models.ScarOpen), Reject, models.RoleAdmin, apperrors.ErrInvalidTransition},
		{"no resubmit from submitted", completeResponse(models.ScarSubmitted), Submit, models.RoleSupplier, apperrors.ErrInvalidTransition},
		{"closed is terminal for submit", completeResponse(models.ScarClosed), Submit, models.RoleSupplier, apperrors.ErrInvalidTransition},
		{"closed is terminal for accept", completeResponse(models.ScarClosed), Accept, models.RoleAdmin, apperrors.ErrInvalidTransition},
		{"closed is terminal for reject", completeResponse(models.ScarClosed), Reject, models.RoleAdmin, apperrors.ErrInvalidTransition},
		{"unknown action", completeResponse(models.ScarOpen), Action("escalate"), models.RoleAdmin, apperrors.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Transition(tt.scar, tt.action, tt.role); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSubmitRequiresResponseSections(t *testing.T) {
	scar := &models.Scar{
		Status:    models.ScarOpen,
		RootCause: "pigment source changed without notification",
	}

	_, err := Transition(scar, Submit, models.RoleSupplier)
	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	for _, field := range []string{"containment_isolate", "corrective_action", "preventive_action"} {
		if !slices.Contains(ve.Fields, field) {
			t.Errorf("missing fields %v do not include %q", ve.Fields, field)
		}
	}
	if slices.Contains(ve.Fields, "root_cause") {
		t.Errorf("root_cause is populated but reported missing")
	}
}

func TestAcceptRequiresAcceptance(t *testing.T) {
	for _, acceptable := range []string{"", "no"} {
		scar := completeResponse(models.ScarSubmitted)
		scar.VerificationAcceptable = acceptable

		_, err := Transition(scar, Accept, models.RoleAdmin)
		var ve *apperrors.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("acceptable=%q: got %v, want ValidationError", acceptable, err)
		}
	}
}

func TestValidateIssue(t *testing.T) {
	scar := &models.Scar{
		VendorID:        3,
		DateIssued:      "2026-08-01",
		ResponseDueDate: "2026-08-15",
		ProductName:     "500ml Clear Glass Jar",
		Severity:        "bogus",
	}

	err := ValidateIssue(scar)
	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	want := []string{"contact_id", "defect_type", "nonconformity_description", "severity"}
	for _, field := range want {
		if !slices.Contains(ve.Fields, field) {
			t.Errorf("missing fields %v do not include %q", ve.Fields, field)
		}
	}
	if slices.Contains(ve.Fields, "vendor_id") {
		t.Errorf("vendor_id is populated but reported missing")
	}

	scar.ContactID = 7
	scar.DefectType = "Dimensional"
	scar.NonconformityDescription = "jar height exceeds spec by 2mm"
	scar.Severity = models.SeverityMajor
	if err := ValidateIssue(scar); err != nil {
		t.Fatalf("complete sections 1-2 rejected: %v", err)
	}
}

func TestActivityAction(t *testing.T) {
	tests := []struct {
		action Action
		want   string
	}{
		{Submit, models.ActionSubmitted},
		{Accept, models.ActionClosed},
		{Reject, models.ActionReturned},
	}
	for _, tt := range tests {
		if got := ActivityAction(tt.action); got != tt.want {
			t.Errorf("ActivityAction(%q) = %q, want %q", tt.action, got, tt.want)
		}
	}

	// Forward progress and the reject edge must stay distinguishable.
	if ActivityAction(Submit) == ActivityAction(Reject) {
		t.Error("submit and reject map to the same activity action")
	}
}
