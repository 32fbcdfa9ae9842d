package handlers

import (
	"net/http"
	"time"

	"cement-works/internal/database"
	"cement-works/internal/ledger"
	"cement-works/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ManagerRequest struct {
	ManagerID       string          `json:"manager_id" binding:"required"`
	Name            string          `json:"name" binding:"required"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	DOB             string          `json:"dob"`
	Gender          string          `json:"gender"`
	Aadhar          string          `json:"aadhar"`
	Shift           string          `json:"shift" binding:"required"`
	ExperienceYears int             `json:"experience_years"`
	BaseSalary      decimal.Decimal `json:"base_salary" binding:"required"`
	PFEnabled       *bool           `json:"pf_enabled"`
	ESIEnabled      *bool           `json:"esi_enabled"`
	PFPercent       decimal.Decimal `json:"pf_percent"`
	ESIPercent      decimal.Decimal `json:"esi_percent"`
}

func GetManagers(c *gin.Context) {
	var managers []models.Manager
	query := database.DB.Order("name asc")
	if shift := c.Query("shift"); shift != "" {
		query = query.Where("shift = ?", shift)
	}
	if err := query.Find(&managers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch managers"})
		return
	}
	c.JSON(http.StatusOK, managers)
}

func GetManager(c *gin.Context) {
	var manager models.Manager
	if err := database.DB.First(&manager, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Manager not found", "kind": string(ledger.KindNotFound)})
		return
	}
	c.JSON(http.StatusOK, manager)
}

func CreateManager(c *gin.Context) {
	var req ManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.BaseSalary.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "base_salary must be positive", "kind": string(ledger.KindInvalidAmount)})
		return
	}

	var existing models.Manager
	if err := database.DB.Where("manager_id = ?", req.ManagerID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Manager ID already exists", "kind": string(ledger.KindDuplicateKey)})
		return
	}
	if req.Email != "" {
		if err := database.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already exists", "kind": string(ledger.KindDuplicateKey)})
			return
		}
	}

	manager := models.Manager{
		ManagerID:       req.ManagerID,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		DOB:             req.DOB,
		Gender:          req.Gender,
		Aadhar:          req.Aadhar,
		Shift:           req.Shift,
		ExperienceYears: req.ExperienceYears,
		BaseSalary:      req.BaseSalary,
		PFEnabled:       true,
		ESIEnabled:      true,
		PFPercent:       decimal.NewFromInt(12),
		ESIPercent:      decimal.NewFromFloat(0.75),
	}
	applyDeductionSettings(&manager, req)

	if err := database.DB.Create(&manager).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create manager"})
		return
	}
	BotCache.Reset()
	c.JSON(http.StatusCreated, manager)
}

func UpdateManager(c *gin.Context) {
	var manager models.Manager
	if err := database.DB.First(&manager, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Manager not found", "kind": string(ledger.KindNotFound)})
		return
	}

	var req ManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.BaseSalary.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "base_salary must be positive", "kind": string(ledger.KindInvalidAmount)})
		return
	}

	manager.ManagerID = req.ManagerID
	manager.Name = req.Name
	manager.Email = req.Email
	manager.Phone = req.Phone
	manager.DOB = req.DOB
	manager.Gender = req.Gender
	manager.Aadhar = req.Aadhar
	manager.Shift = req.Shift
	manager.ExperienceYears = req.ExperienceYears
	manager.BaseSalary = req.BaseSalary
	applyDeductionSettings(&manager, req)

	if err := database.DB.Save(&manager).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update manager"})
		return
	}
	BotCache.Reset()
	c.JSON(http.StatusOK, manager)
}

func DeleteManager(c *gin.Context) {
	result := database.DB.Delete(&models.Manager{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete manager"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Manager not found", "kind": string(ledger.KindNotFound)})
		return
	}
	BotCache.Reset()
	c.JSON(http.StatusOK, gin.H{"message": "Manager deleted successfully"})
}

// GetManagerPayroll computes the month's payslip with PF/ESI and leave
// deductions applied.
func GetManagerPayroll(c *gin.Context) {
	var manager models.Manager
	if err := database.DB.First(&manager, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Manager not found", "kind": string(ledger.KindNotFound)})
		return
	}

	now := time.Now()
	year, month := payrollPeriod(c, now)
	holidays, err := monthHolidays(year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute payroll"})
		return
	}
	marks, err := monthMarks(manager.ID, models.PersonManager, year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute payroll"})
		return
	}

	workingDays := len(ledger.WorkingDays(year, month, holidays))
	payroll := ledger.ComputeManagerPayroll(
		manager.BaseSalary, workingDays, marks,
		manager.PFEnabled, manager.ESIEnabled, manager.PFPercent, manager.ESIPercent,
	)
	c.JSON(http.StatusOK, gin.H{"manager": manager, "payroll": payroll})
}

func applyDeductionSettings(m *models.Manager, req ManagerRequest) {
	if req.PFEnabled != nil {
		m.PFEnabled = *req.PFEnabled
	}
	if req.ESIEnabled != nil {
		m.ESIEnabled = *req.ESIEnabled
	}
	if req.PFPercent.IsPositive() {
		m.PFPercent = req.PFPercent
	}
	if req.ESIPercent.IsPositive() {
		m.ESIPercent = req.ESIPercent
	}
}
