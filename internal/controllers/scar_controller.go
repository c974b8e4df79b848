package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"scar_tracker/internal/apperrors"
	"scar_tracker/internal/authz"
	"scar_tracker/internal/config"
	"scar_tracker/internal/lifecycle"
	"scar_tracker/internal/metrics"
	"scar_tracker/internal/middleware"
	"scar_tracker/internal/models"
)

type createScarInput struct {
	// Section 1
	DateIssued       string `json:"date_issued" binding:"required"`
	ResponseDueDate  string `json:"response_due_date" binding:"required"`
	VendorID         uint   `json:"vendor_id" binding:"required"`
	ContactID        uint   `json:"contact_id" binding:"required"`
	NCRNumber        string `json:"ncr_number"`
	POSONumber       string `json:"po_so_number"`
	PartSKUNumber    string `json:"part_sku_number"`
	AffectedQuantity int    `json:"affected_quantity"`
	LotNumbers       string `json:"lot_numbers"`
	// Section 2
	ProductName              string `json:"product_name" binding:"required"`
	DefectType               string `json:"defect_type" binding:"required"`
	NonconformityDescription string `json:"nonconformity_description" binding:"required"`
	Severity                 string `json:"severity" binding:"required"`
}

// CreateScar issues a new SCAR against a vendor. The SCAR number is assigned
// sequentially per year; creation and its audit entry commit together.
func CreateScar(c *gin.Context) {
	var input createScarInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := middleware.CurrentIdentity(c)

	scar := models.Scar{
		Status:                   models.ScarOpen,
		DateIssued:               input.DateIssued,
		ResponseDueDate:          input.ResponseDueDate,
		VendorID:                 input.VendorID,
		ContactID:                input.ContactID,
		NCRNumber:                input.NCRNumber,
		POSONumber:               input.POSONumber,
		PartSKUNumber:            input.PartSKUNumber,
		AffectedQuantity:         input.AffectedQuantity,
		LotNumbers:               input.LotNumbers,
		ProductName:              input.ProductName,
		DefectType:               input.DefectType,
		NonconformityDescription: input.NonconformityDescription,
		Severity:                 input.Severity,
		CreatedByID:              actor.UserID,
	}

	if err := lifecycle.ValidateIssue(&scar); err != nil {
		respondError(c, err)
		return
	}

	var contact models.Contact
	if err := config.DB.First(&contact, input.ContactID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contact does not exist"})
		return
	}
	if contact.VendorID != input.VendorID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contact does not belong to the selected vendor"})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start transaction"})
		return
	}

	number, err := nextScarNumber(tx)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not allocate SCAR number"})
		return
	}
	scar.ScarNumber = number

	if err := tx.Create(&scar).Error; err != nil {
		tx.Rollback()
		respondError(c, translateDBError(err))
		return
	}
	if err := appendActivity(tx, scar.ID, actor.UserID, models.ActionCreated, "SCAR "+number+" created"); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record activity"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction: " + err.Error()})
		return
	}

	logrus.WithFields(logrus.Fields{"scar": number, "vendor_id": scar.VendorID, "admin_id": actor.UserID}).Info("SCAR created")

	c.JSON(http.StatusCreated, gin.H{"scar": scar})
}

// ListScars returns the SCARs the caller is allowed to see: all of them for
// admins, own-vendor rows for suppliers. The vendor filter is only honored
// for admins; status filtering works for both.
func ListScars(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	query := config.DB.Preload("Vendor").Preload("Contact").Order("created_at DESC")

	vendorID, all := authz.VendorScope(identity)
	if all {
		if v := c.Query("vendor_id"); v != "" {
			query = query.Where("vendor_id = ?", v)
		}
	} else {
		query = query.Where("vendor_id = ?", vendorID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var scars []models.Scar
	if err := query.Find(&scars).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing SCARs: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": scars})
}

// GetScar retrieves a single SCAR. Suppliers asking for another vendor's SCAR
// get Forbidden no matter how the id was obtained.
func GetScar(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	scar, ok := loadScar(c)
	if !ok {
		return
	}
	if err := authz.CanAccessScar(identity, scar); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scar":              scar,
		"editable_sections": authz.EditableSections(identity.Role, scar.Status),
	})
}

type scarDetailsInput struct {
	// Section 1
	DateIssued       *string `json:"date_issued"`
	ResponseDueDate  *string `json:"response_due_date"`
	ContactID        *uint   `json:"contact_id"`
	NCRNumber        *string `json:"ncr_number"`
	POSONumber       *string `json:"po_so_number"`
	PartSKUNumber    *string `json:"part_sku_number"`
	AffectedQuantity *int    `json:"affected_quantity"`
	LotNumbers       *string `json:"lot_numbers"`
	// Section 2
	ProductName              *string `json:"product_name"`
	DefectType               *string `json:"defect_type"`
	NonconformityDescription *string `json:"nonconformity_description"`
	Severity                 *string `json:"severity"`
}

// UpdateScarDetails lets an admin correct sections 1-2 while the SCAR is
// still in the workflow (open or submitted).
func UpdateScarDetails(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	scar, ok := loadScar(c)
	if !ok {
		return
	}
	if err := authz.CanEditSection(identity, scar, authz.SectionDetails); err != nil {
		respondError(c, err)
		return
	}

	var input scarDetailsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var changed []string
	if input.DateIssued != nil {
		scar.DateIssued = *input.DateIssued
		changed = append(changed, "date_issued")
	}
	if input.ResponseDueDate != nil {
		scar.ResponseDueDate = *input.ResponseDueDate
		changed = append(changed, "response_due_date")
	}
	if input.ContactID != nil {
		var contact models.Contact
		if err := config.DB.First(&contact, *input.ContactID).Error; err != nil || contact.VendorID != scar.VendorID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "contact does not belong to the SCAR's vendor"})
			return
		}
		scar.ContactID = *input.ContactID
		changed = append(changed, "contact_id")
	}
	if input.NCRNumber != nil {
		scar.NCRNumber = *input.NCRNumber
		changed = append(changed, "ncr_number")
	}
	if input.POSONumber != nil {
		scar.POSONumber = *input.POSONumber
		changed = append(changed, "po_so_number")
	}
	if input.PartSKUNumber != nil {
		scar.PartSKUNumber = *input.PartSKUNumber
		changed = append(changed, "part_sku_number")
	}
	if input.AffectedQuantity != nil {
		scar.AffectedQuantity = *input.AffectedQuantity
		changed = append(changed, "affected_quantity")
	}
	if input.LotNumbers != nil {
		scar.LotNumbers = *input.LotNumbers
		changed = append(changed, "lot_numbers")
	}
	if input.ProductName != nil {
		scar.ProductName = *input.ProductName
		changed = append(changed, "product_name")
	}
	if input.DefectType != nil {
		scar.DefectType = *input.DefectType
		changed = append(changed, "defect_type")
	}
	if input.NonconformityDescription != nil {
		scar.NonconformityDescription = *input.NonconformityDescription
		changed = append(changed, "nonconformity_description")
	}
	if input.Severity != nil {
		scar.Severity = *input.Severity
		changed = append(changed, "severity")
	}

	if err := lifecycle.ValidateIssue(scar); err != nil {
		respondError(c, err)
		return
	}

	saveScarUpdate(c, scar, identity, changed)
}

type supplierResponseInput struct {
	// Section 3
	ContainmentIsolate    *string `json:"containment_isolate"`
	ContainmentScreenSort *string `json:"containment_screen_sort"`
	ContainmentPreparedBy *string `json:"containment_prepared_by"`
	ContainmentDate       *string `json:"containment_date"`
	// Section 4
	RootCause           *string `json:"root_cause"`
	RootCauseEvidence   *string `json:"root_cause_evidence"`
	RootCauseApprovedBy *string `json:"root_cause_approved_by"`
	RootCauseDate       *string `json:"root_cause_date"`
	// Section 5
	CorrectiveAction     *string `json:"corrective_action"`
	CorrectionApprovedBy *string `json:"correction_approved_by"`
	CorrectionDate       *string `json:"correction_date"`
	// Section 6
	PreventiveAction     *string `json:"preventive_action"`
	PreventionApprovedBy *string `json:"prevention_approved_by"`
	PreventionDate       *string `json:"prevention_date"`
}

// UpdateSupplierResponse saves the supplier-authored sections 3-6. Only the
// owning vendor's supplier may write, and only while the SCAR is open.
func UpdateSupplierResponse(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	scar, ok := loadScar(c)
	if !ok {
		return
	}

	var input supplierResponseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var changed []string
	apply := func(section authz.Section, dst *string, src *string, field string) bool {
		if src == nil {
			return true
		}
		if err := authz.CanEditSection(identity, scar, section); err != nil {
			respondError(c, err)
			return false
		}
		*dst = *src
		changed = append(changed, field)
		return true
	}

	ok = apply(authz.SectionContainment, &scar.ContainmentIsolate, input.ContainmentIsolate, "containment_isolate") &&
		apply(authz.SectionContainment, &scar.ContainmentScreenSort, input.ContainmentScreenSort, "containment_screen_sort") &&
		apply(authz.SectionContainment, &scar.ContainmentPreparedBy, input.ContainmentPreparedBy, "containment_prepared_by") &&
		apply(authz.SectionContainment, &scar.ContainmentDate, input.ContainmentDate, "containment_date") &&
		apply(authz.SectionRootCause, &scar.RootCause, input.RootCause, "root_cause") &&
		apply(authz.SectionRootCause, &scar.RootCauseEvidence, input.RootCauseEvidence, "root_cause_evidence") &&
		apply(authz.SectionRootCause, &scar.RootCauseApprovedBy, input.RootCauseApprovedBy, "root_cause_approved_by") &&
		apply(authz.SectionRootCause, &scar.RootCauseDate, input.RootCauseDate, "root_cause_date") &&
		apply(authz.SectionCorrection, &scar.CorrectiveAction, input.CorrectiveAction, "corrective_action") &&
		apply(authz.SectionCorrection, &scar.CorrectionApprovedBy, input.CorrectionApprovedBy, "correction_approved_by") &&
		apply(authz.SectionCorrection, &scar.CorrectionDate, input.CorrectionDate, "correction_date") &&
		apply(authz.SectionPrevention, &scar.PreventiveAction, input.PreventiveAction, "preventive_action") &&
		apply(authz.SectionPrevention, &scar.PreventionApprovedBy, input.PreventionApprovedBy, "prevention_approved_by") &&
		apply(authz.SectionPrevention, &scar.PreventionDate, input.PreventionDate, "prevention_date")
	if !ok {
		return
	}

	if len(changed) == 0 {
		// Still verify the caller may touch this SCAR before echoing it back.
		if err := authz.CanEditSection(identity, scar, authz.SectionContainment); err != nil {
			respondError(c, err)
			return
		}
	}

	saveScarUpdate(c, scar, identity, changed)
}

type verificationInput struct {
	VerificationAcceptable *string `json:"verification_acceptable"`
	EffectivenessCheck     *string `json:"effectiveness_check"`
	VerifiedBy             *string `json:"verified_by"`
	VerificationDate       *string `json:"verification_date"`
}

// UpdateVerification saves a draft of section 7 without transitioning.
func UpdateVerification(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	scar, ok := loadScar(c)
	if !ok {
		return
	}
	if err := authz.CanEditSection(identity, scar, authz.SectionVerification); err != nil {
		respondError(c, err)
		return
	}

	var input verificationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var changed []string
	if input.VerificationAcceptable != nil {
		switch *input.VerificationAcceptable {
		case "", "yes", "no":
			scar.VerificationAcceptable = *input.VerificationAcceptable
			changed = append(changed, "verification_acceptable")
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "verification_acceptable must be yes, no or empty"})
			return
		}
	}
	if input.EffectivenessCheck != nil {
		scar.EffectivenessCheck = *input.EffectivenessCheck
		changed = append(changed, "effectiveness_check")
	}
	if input.VerifiedBy != nil {
		scar.VerifiedBy = *input.VerifiedBy
		changed = append(changed, "verified_by")
	}
	if input.VerificationDate != nil {
		scar.VerificationDate = *input.VerificationDate
		changed = append(changed, "verification_date")
	}

	saveScarUpdate(c, scar, identity, changed)
}

// SubmitScar moves a completed supplier response to submitted. After this the
// supplier's write access to sections 3-6 is revoked until an admin rejects.
func SubmitScar(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	scar, ok := loadScar(c)
	if !ok {
		return
	}
	if err := authz.CanAccessScar(identity, scar); err != nil {
		respondError(c, err)
		return
	}

	next, err := lifecycle.Transition(scar, lifecycle.Submit, identity.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	applyTransition(c, scar, identity, lifecycle.Submit, next, "Supplier response submitted")
}

// VerifyScar records the admin's verification verdict on a submitted SCAR.
// Accepting closes it; rejecting reopens it for the supplier, and the
// rejection reason is mandatory and logged.
func VerifyScar(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	scar, ok := loadScar(c)
	if !ok {
		return
	}
	if err := authz.CanAccessScar(identity, scar); err != nil {
		respondError(c, err)
		return
	}

	var input struct {
		Acceptable         *bool  `json:"acceptable" binding:"required"`
		EffectivenessCheck string `json:"effectiveness_check"`
		VerifiedBy         string `json:"verified_by"`
		VerificationDate   string `json:"verification_date"`
		Reason             string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.EffectivenessCheck != "" {
		scar.EffectivenessCheck = input.EffectivenessCheck
	}
	if input.VerifiedBy != "" {
		scar.VerifiedBy = input.VerifiedBy
	}
	scar.VerificationDate = input.VerificationDate
	if scar.VerificationDate == "" {
		scar.VerificationDate = time.Now().Format("2006-01-02")
	}

	if *input.Acceptable {
		scar.VerificationAcceptable = "yes"
		next, err := lifecycle.Transition(scar, lifecycle.Accept, identity.Role)
		if err != nil {
			respondError(c, err)
			return
		}
		applyTransition(c, scar, identity, lifecycle.Accept, next, "SCAR verified and closed")
		return
	}

	if strings.TrimSpace(input.Reason) == "" {
		respondError(c, apperrors.NewValidation("reason"))
		return
	}
	scar.VerificationAcceptable = "no"
	next, err := lifecycle.Transition(scar, lifecycle.Reject, identity.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	applyTransition(c, scar, identity, lifecycle.Reject, next, "SCAR returned to supplier for revision: "+input.Reason)
}

// ScarActivity returns the append-only audit trail, oldest first.
func ScarActivity(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	scar, ok := loadScar(c)
	if !ok {
		return
	}
	if err := authz.CanAccessScar(identity, scar); err != nil {
		respondError(c, err)
		return
	}

	var activities []models.Activity
	if err := config.DB.Preload("User").
		Where("scar_id = ?", scar.ID).
		Order("created_at ASC, id ASC").
		Find(&activities).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching activity: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": activities})
}

// ScarStats reports SCAR counts by status plus an overdue count, scoped to
// the caller's vendor for suppliers.
func ScarStats(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	base := config.DB.Model(&models.Scar{})
	if vendorID, all := authz.VendorScope(identity); !all {
		base = base.Where("vendor_id = ?", vendorID)
	}

	stats := gin.H{}
	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error computing stats"})
		return
	}
	stats["total"] = total

	for _, status := range []string{models.ScarOpen, models.ScarSubmitted, models.ScarClosed} {
		var n int64
		if err := base.Session(&gorm.Session{}).Where("status = ?", status).Count(&n).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error computing stats"})
			return
		}
		stats[status] = n
	}

	today := time.Now().Format("2006-01-02")
	var overdue int64
	if err := base.Session(&gorm.Session{}).
		Where("status = ? AND response_due_date < ?", models.ScarOpen, today).
		Count(&overdue).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error computing stats"})
		return
	}
	stats["overdue"] = overdue

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// loadScar fetches the SCAR named in the route, writing the error response
// itself when the id is unknown.
func loadScar(c *gin.Context) (*models.Scar, bool) {
	var scar models.Scar
	if err := config.DB.Preload("Vendor").Preload("Contact").First(&scar, c.Param("id")).Error; err != nil {
		respondError(c, translateDBError(err))
		return nil, false
	}
	return &scar, true
}

// saveScarUpdate persists field edits and their single audit entry in one
// transaction.
func saveScarUpdate(c *gin.Context, scar *models.Scar, actor authz.Identity, changed []string) {
	if len(changed) == 0 {
		c.JSON(http.StatusOK, gin.H{"scar": scar})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start transaction"})
		return
	}

	if err := tx.Save(scar).Error; err != nil {
		tx.Rollback()
		respondError(c, translateDBError(err))
		return
	}
	details := "fields updated: " + strings.Join(changed, ", ")
	if err := appendActivity(tx, scar.ID, actor.UserID, models.ActionUpdated, details); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record activity"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"scar": scar})
}

// applyTransition persists a status change, the section 7 fields it carried,
// and its audit entry atomically.
func applyTransition(c *gin.Context, scar *models.Scar, actor authz.Identity, action lifecycle.Action, next, details string) {
	scar.Status = next

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start transaction"})
		return
	}

	if err := tx.Save(scar).Error; err != nil {
		tx.Rollback()
		respondError(c, translateDBError(err))
		return
	}
	if err := appendActivity(tx, scar.ID, actor.UserID, lifecycle.ActivityAction(action), details); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record activity"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction: " + err.Error()})
		return
	}

	metrics.TransitionsTotal.WithLabelValues(string(action)).Inc()
	logrus.WithFields(logrus.Fields{
		"scar":   scar.ScarNumber,
		"action": string(action),
		"status": scar.Status,
		"actor":  actor.UserID,
	}).Info("SCAR transition")

	c.JSON(http.StatusOK, gin.H{"scar": scar})
}

func appendActivity(tx *gorm.DB, scarID, userID uint, action, details string) error {
	entry := models.Activity{
		ScarID:  scarID,
		UserID:  userID,
		Action:  action,
		Details: details,
	}
	return tx.Create(&entry).Error
}

// nextScarNumber allocates the next sequential number for the current year,
// e.g. SCAR-2026-001.
func nextScarNumber(tx *gorm.DB) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("SCAR-%d-", year)

	var last models.Scar
	err := tx.Where("scar_number LIKE ?", prefix+"%").
		Order("scar_number DESC").
		First(&last).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Sprintf("%s%03d", prefix, 1), nil
		}
		return "", err
	}

	var seq int
	if _, err := fmt.Sscanf(strings.TrimPrefix(last.ScarNumber, prefix), "%d", &seq); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%03d", prefix, seq+1), nil
}
