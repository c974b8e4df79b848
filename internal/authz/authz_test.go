package authz

import (
	"errors"
	"slices"
	"testing"

	"scar_tracker/internal/apperrors"
	"scar_tracker/internal/models"
)

var (
	admin           = Identity{UserID: 1, Role: models.RoleAdmin}
	pacificSupplier = Identity{UserID: 2, Role: models.RoleSupplier, VendorID: 10}
	acmeSupplier    = Identity{UserID: 3, Role: models.RoleSupplier, VendorID: 20}
)

func scarFor(vendorID uint, status string) *models.Scar {
	return &models.Scar{VendorID: vendorID, Status: status}
}

func TestCanAccessScar(t *testing.T) {
	tests := []struct {
		name string
		id   Identity
		scar *models.Scar
		want error
	}{
		{"admin sees any vendor", admin, scarFor(10, models.ScarOpen), nil},
		{"supplier sees own vendor", pacificSupplier, scarFor(10, models.ScarOpen), nil},
		{"supplier denied foreign vendor", acmeSupplier, scarFor(10, models.ScarOpen), apperrors.ErrForbidden},
		{"supplier denied foreign vendor even when closed", acmeSupplier, scarFor(10, models.ScarClosed), apperrors.ErrForbidden},
		{"supplier without vendor denied", Identity{UserID: 4, Role: models.RoleSupplier}, scarFor(10, models.ScarOpen), apperrors.ErrForbidden},
		{"unknown role denied", Identity{UserID: 5, Role: "auditor", VendorID: 10}, scarFor(10, models.ScarOpen), apperrors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CanAccessScar(tt.id, tt.scar); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestVendorScope(t *testing.T) {
	if _, all := VendorScope(admin); !all {
		t.Error("admin scope is not all vendors")
	}
	if vendorID, all := VendorScope(pacificSupplier); all || vendorID != 10 {
		t.Errorf("supplier scope = (%d, %v), want (10, false)", vendorID, all)
	}
}

func TestEditableSections(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		status string
		want   []Section
	}{
		{"admin on open", models.RoleAdmin, models.ScarOpen, []Section{SectionDetails, SectionNonconformity, SectionVerification}},
		{"admin on submitted", models.RoleAdmin, models.ScarSubmitted, []Section{SectionDetails, SectionNonconformity, SectionVerification}},
		{"admin on closed", models.RoleAdmin, models.ScarClosed, nil},
		{"supplier on open", models.RoleSupplier, models.ScarOpen, []Section{SectionContainment, SectionRootCause, SectionCorrection, SectionPrevention}},
		{"supplier on submitted", models.RoleSupplier, models.ScarSubmitted, nil},
		{"supplier on closed", models.RoleSupplier, models.ScarClosed, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EditableSections(tt.role, tt.status)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEditableSectionsNeverOverlap(t *testing.T) {
	// Admin and supplier must not hold simultaneous write access to the same
	// section in any state; last-write-wins relies on it.
	for _, status := range []string{models.ScarOpen, models.ScarSubmitted, models.ScarClosed} {
		adminSections := EditableSections(models.RoleAdmin, status)
		for _, s := range EditableSections(models.RoleSupplier, status) {
			if slices.Contains(adminSections, s) {
				t.Errorf("status %q: section %d editable by both roles", status, s)
			}
		}
	}
}

func TestCanEditSection(t *testing.T) {
	tests := []struct {
		name    string
		id      Identity
		scar    *models.Scar
		section Section
		want    error
	}{
		{"supplier edits containment while open", pacificSupplier, scarFor(10, models.ScarOpen), SectionContainment, nil},
		{"supplier locked out after submit", pacificSupplier, scarFor(10, models.ScarSubmitted), SectionRootCause, apperrors.ErrForbidden},
		{"supplier cannot touch verification", pacificSupplier, scarFor(10, models.ScarOpen), SectionVerification, apperrors.ErrForbidden},
		{"supplier denied on foreign scar before state is considered", acmeSupplier, scarFor(10, models.ScarClosed), SectionContainment, apperrors.ErrForbidden},
		{"admin edits details while submitted", admin, scarFor(10, models.ScarSubmitted), SectionDetails, nil},
		{"admin edits verification while open", admin, scarFor(10, models.ScarOpen), SectionVerification, nil},
		{"admin cannot edit supplier sections", admin, scarFor(10, models.ScarOpen), SectionContainment, apperrors.ErrForbidden},
		{"closed is immutable for admin", admin, scarFor(10, models.ScarClosed), SectionDetails, apperrors.ErrInvalidTransition},
		{"closed is immutable for supplier", pacificSupplier, scarFor(10, models.ScarClosed), SectionPrevention, apperrors.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CanEditSection(tt.id, tt.scar, tt.section); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}
