package lifecycle

import (
	"scar_tracker/internal/apperrors"
	"scar_tracker/internal/models"
)

// Action is a workflow trigger on an existing SCAR.
type Action string

const (
	// Submit moves a completed supplier response from open to submitted.
	Submit Action = "submit"
	// Accept closes a submitted SCAR after admin verification.
	Accept Action = "accept"
	// Reject returns a submitted SCAR to the supplier, back to open.
	// This is the only backward edge in the workflow.
	Reject Action = "reject"
)

// actor maps each action to the only role allowed to trigger it.
var actor = map[Action]string{
	Submit: models.RoleSupplier,
	Accept: models.RoleAdmin,
	Reject: models.RoleAdmin,
}

// next maps current status -> action -> resulting status. Closed is terminal:
// it has no outgoing edges, so every action on a closed SCAR is rejected.
var next = map[string]map[Action]string{
	models.ScarOpen: {
		Submit: models.ScarSubmitted,
	},
	models.ScarSubmitted: {
		Accept: models.ScarClosed,
		Reject: models.ScarOpen,
	},
}

// Transition validates that role may perform action on the SCAR in its current
// status, and that the fields the transition depends on are populated. It
// returns the resulting status without mutating the SCAR; persisting the new
// status, the field writes and the activity entry atomically is the caller's
// job.
func Transition(s *models.Scar, action Action, role string) (string, error) {
	want, ok := actor[action]
	if !ok {
		return "", apperrors.ErrInvalidTransition
	}
	if role != want {
		return "", apperrors.ErrForbidden
	}

	to, ok := next[s.Status][action]
	if !ok {
		return "", apperrors.ErrInvalidTransition
	}

	switch action {
	case Submit:
		if err := ValidateResponse(s); err != nil {
			return "", err
		}
	case Accept:
		if s.VerificationAcceptable != "yes" {
			return "", apperrors.NewValidation("verification_acceptable")
		}
	case Reject:
		// The rejection reason is carried outside the SCAR row (it goes into
		// the activity log), so the caller validates it before delegating.
	}

	return to, nil
}

// ValidateIssue checks the section 1-2 fields an admin must populate before a
// SCAR can be created.
func ValidateIssue(s *models.Scar) error {
	var missing []string
	if s.VendorID == 0 {
		missing = append(missing, "vendor_id")
	}
	if s.ContactID == 0 {
		missing = append(missing, "contact_id")
	}
	if s.DateIssued == "" {
		missing = append(missing, "date_issued")
	}
	if s.ResponseDueDate == "" {
		missing = append(missing, "response_due_date")
	}
	if s.ProductName == "" {
		missing = append(missing, "product_name")
	}
	if s.DefectType == "" {
		missing = append(missing, "defect_type")
	}
	if s.NonconformityDescription == "" {
		missing = append(missing, "nonconformity_description")
	}
	switch s.Severity {
	case models.SeverityMinor, models.SeverityMajor, models.SeverityCritical:
	default:
		missing = append(missing, "severity")
	}
	if len(missing) > 0 {
		return &apperrors.ValidationError{Fields: missing}
	}
	return nil
}

// ValidateResponse checks the section 3-6 fields a supplier must populate
// before submitting.
func ValidateResponse(s *models.Scar) error {
	var missing []string
	if s.ContainmentIsolate == "" {
		missing = append(missing, "containment_isolate")
	}
	if s.RootCause == "" {
		missing = append(missing, "root_cause")
	}
	if s.CorrectiveAction == "" {
		missing = append(missing, "corrective_action")
	}
	if s.PreventiveAction == "" {
		missing = append(missing, "preventive_action")
	}
	if len(missing) > 0 {
		return &apperrors.ValidationError{Fields: missing}
	}
	return nil
}

// ActivityAction names the audit log entry recorded for a transition, so that
// forward progress and the reject edge are distinguishable in the trail.
func ActivityAction(action Action) string {
	switch action {
	case Submit:
		return models.ActionSubmitted
	case Accept:
		return models.ActionClosed
	case Reject:
		return models.ActionReturned
	}
	return models.ActionUpdated
}
