package authz

import (
	"scar_tracker/internal/apperrors"
	"scar_tracker/internal/models"
)

// Identity is an already-authenticated, already-approved actor. The core never
// sees raw credentials or session state; the JWT middleware produces this.
type Identity struct {
	UserID   uint
	Role     string
	VendorID uint // 0 for admins
}

// Section identifies one of the seven SCAR form sections.
type Section int

const (
	SectionDetails       Section = 1
	SectionNonconformity Section = 2
	SectionContainment   Section = 3
	SectionRootCause     Section = 4
	SectionCorrection    Section = 5
	SectionPrevention    Section = 6
	SectionVerification  Section = 7
)

// CanAccessScar reports whether the identity may see the SCAR at all. Admins
// see every row; suppliers only rows of their own vendor. This is enforced
// here, at the data-access boundary, not by list filtering alone.
func CanAccessScar(id Identity, s *models.Scar) error {
	if id.Role == models.RoleAdmin {
		return nil
	}
	if id.Role == models.RoleSupplier && id.VendorID != 0 && s.VendorID == id.VendorID {
		return nil
	}
	return apperrors.ErrForbidden
}

// VendorScope returns the vendor the identity's SCAR queries must be limited
// to. all is true only for admins.
func VendorScope(id Identity) (vendorID uint, all bool) {
	if id.Role == models.RoleAdmin {
		return 0, true
	}
	return id.VendorID, false
}

// EditableSections computes the sections the role may write given the SCAR's
// current status. Closed SCARs are immutable for everyone.
func EditableSections(role, status string) []Section {
	switch role {
	case models.RoleAdmin:
		if status == models.ScarOpen || status == models.ScarSubmitted {
			return []Section{SectionDetails, SectionNonconformity, SectionVerification}
		}
	case models.RoleSupplier:
		if status == models.ScarOpen {
			return []Section{SectionContainment, SectionRootCause, SectionCorrection, SectionPrevention}
		}
	}
	return nil
}

// CanEditSection gates a single section write. Access is checked before
// editability so a supplier probing a foreign SCAR always gets Forbidden,
// never a hint about its state.
func CanEditSection(id Identity, s *models.Scar, sec Section) error {
	if err := CanAccessScar(id, s); err != nil {
		return err
	}
	for _, allowed := range EditableSections(id.Role, s.Status) {
		if allowed == sec {
			return nil
		}
	}
	if s.Status == models.ScarClosed {
		return apperrors.ErrInvalidTransition
	}
	return apperrors.ErrForbidden
}
