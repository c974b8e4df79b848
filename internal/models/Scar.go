package models

import "gorm.io/gorm"

// SCAR workflow states. Transitions are owned by the lifecycle package.
const (
	ScarOpen      = "open"
	ScarSubmitted = "submitted"
	ScarClosed    = "closed"
)

const (
	SeverityMinor    = "minor"
	SeverityMajor    = "major"
	SeverityCritical = "critical"
)

// Scar is a Supplier Corrective Action Report. Sections 1-2 are authored by
// the issuing admin, 3-6 by the supplier, 7 by the verifying admin.
type Scar struct {
	gorm.Model
	ScarNumber string `json:"scar_number" gorm:"unique;not null"`
	Status     string `json:"status" gorm:"default:open"`

	// Section 1: SCAR details
	DateIssued       string   `json:"date_issued"`
	ResponseDueDate  string   `json:"response_due_date"`
	VendorID         uint     `json:"vendor_id" gorm:"index;not null"`
	Vendor           *Vendor  `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	ContactID        uint     `json:"contact_id"`
	Contact          *Contact `gorm:"foreignKey:ContactID" json:"contact,omitempty"`
	NCRNumber        string   `json:"ncr_number"`
	POSONumber       string   `json:"po_so_number"`
	PartSKUNumber    string   `json:"part_sku_number"`
	AffectedQuantity int      `json:"affected_quantity"`
	LotNumbers       string   `json:"lot_numbers"`

	// Section 2: non-conformity
	ProductName              string `json:"product_name"`
	DefectType               string `json:"defect_type"`
	NonconformityDescription string `json:"nonconformity_description"`
	Severity                 string `json:"severity"` // "minor", "major", "critical"

	// Section 3: containment
	ContainmentIsolate    string `json:"containment_isolate"`
	ContainmentScreenSort string `json:"containment_screen_sort"`
	ContainmentPreparedBy string `json:"containment_prepared_by"`
	ContainmentDate       string `json:"containment_date"`

	// Section 4: root cause
	RootCause           string `json:"root_cause"`
	RootCauseEvidence   string `json:"root_cause_evidence"`
	RootCauseApprovedBy string `json:"root_cause_approved_by"`
	RootCauseDate       string `json:"root_cause_date"`

	// Section 5: correction
	CorrectiveAction     string `json:"corrective_action"`
	CorrectionApprovedBy string `json:"correction_approved_by"`
	CorrectionDate       string `json:"correction_date"`

	// Section 6: prevention
	PreventiveAction     string `json:"preventive_action"`
	PreventionApprovedBy string `json:"prevention_approved_by"`
	PreventionDate       string `json:"prevention_date"`

	// Section 7: verification
	VerificationAcceptable string `json:"verification_acceptable"` // "yes", "no" or ""
	EffectivenessCheck     string `json:"effectiveness_check"`
	VerifiedBy             string `json:"verified_by"`
	VerificationDate       string `json:"verification_date"`

	CreatedByID uint `json:"created_by_id"`
}
