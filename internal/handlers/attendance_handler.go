package handlers

import (
	"net/http"
	"time"

	"cement-works/internal/database"
	"cement-works/internal/ledger"
	"cement-works/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MarkAttendanceRequest struct {
	PersonID    uint            `json:"person_id" binding:"required"`
	PersonType  string          `json:"person_type" binding:"required"`
	Date        string          `json:"date" binding:"required"` // YYYY-MM-DD
	Status      string          `json:"status" binding:"required"`
	HoursWorked decimal.Decimal `json:"hours_worked"`
}

func validAttendance(req MarkAttendanceRequest) string {
	if req.PersonType != models.PersonEmployee && req.PersonType != models.PersonManager {
		return "person_type must be employee or manager"
	}
	switch req.Status {
	case models.StatusPresent, models.StatusAbsent, models.StatusHalfDay, models.StatusLeave:
	default:
		return "status must be Present, Absent, Half-day or Leave"
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return "date must be YYYY-MM-DD"
	}
	if req.HoursWorked.IsNegative() {
		return "hours_worked must not be negative"
	}
	return ""
}

func upsertAttendance(tx *gorm.DB, req MarkAttendanceRequest, markedBy uint) error {
	record := models.Attendance{
		PersonID:    req.PersonID,
		PersonType:  req.PersonType,
		Date:        req.Date,
		Status:      req.Status,
		HoursWorked: req.HoursWorked,
		MarkedBy:    markedBy,
	}
	// Re-marking the same person and day overwrites the earlier record.
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "person_id"}, {Name: "person_type"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "hours_worked", "marked_by", "updated_at"}),
	}).Create(&record).Error
}

func markedByFromContext(c *gin.Context) uint {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func MarkAttendance(c *gin.Context) {
	var req MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := validAttendance(req); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "kind": string(ledger.KindInvalidAmount)})
		return
	}

	if err := upsertAttendance(database.DB, req, markedByFromContext(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark attendance"})
		return
	}

	var record models.Attendance
	database.DB.Where("person_id = ? AND person_type = ? AND date = ?", req.PersonID, req.PersonType, req.Date).
		First(&record)
	c.JSON(http.StatusOK, record)
}

// MarkBulkAttendance marks a whole shift in one transaction; any invalid
// entry rejects the batch.
func MarkBulkAttendance(c *gin.Context) {
	var reqs []MarkAttendanceRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(reqs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty attendance batch"})
		return
	}
	for _, req := range reqs {
		if msg := validAttendance(req); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg, "kind": string(ledger.KindInvalidAmount)})
			return
		}
	}

	markedBy := markedByFromContext(c)
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		for _, req := range reqs {
			if err := upsertAttendance(tx, req, markedBy); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark attendance"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attendance marked", "count": len(reqs)})
}

// GetMonthlyAttendance lists one person's records for a month plus the
// month's working-day calendar.
func GetMonthlyAttendance(c *gin.Context) {
	personType := c.Param("personType")
	if personType != models.PersonEmployee && personType != models.PersonManager {
		c.JSON(http.StatusBadRequest, gin.H{"error": "person type must be employee or manager"})
		return
	}

	now := time.Now()
	year, month := payrollPeriod(c, now)
	prefix := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")

	var records []models.Attendance
	err := database.DB.Where("person_id = ? AND person_type = ? AND date LIKE ?", uintParam(c.Param("id")), personType, prefix+"%").
		Order("date asc").Find(&records).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendance"})
		return
	}

	holidays, err := monthHolidays(year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch holidays"})
		return
	}
	workingDays := ledger.WorkingDays(year, month, holidays)
	days := make([]string, 0, len(workingDays))
	for _, d := range workingDays {
		days = append(days, d.Format("2006-01-02"))
	}

	c.JSON(http.StatusOK, gin.H{
		"records":      records,
		"working_days": days,
		"year":         year,
		"month":        int(month),
	})
}

type OfficialLeaveRequest struct {
	Date   string `json:"date" binding:"required"` // YYYY-MM-DD
	Reason string `json:"reason" binding:"required"`
}

func GetOfficialLeaves(c *gin.Context) {
	var leaves []models.OfficialLeave
	if err := database.DB.Order("date asc").Find(&leaves).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch official leaves"})
		return
	}
	c.JSON(http.StatusOK, leaves)
}

func CreateOfficialLeave(c *gin.Context) {
	var req OfficialLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	var existing models.OfficialLeave
	if err := database.DB.Where("date = ?", req.Date).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Official leave already declared for this date", "kind": string(ledger.KindDuplicateKey)})
		return
	}

	leave := models.OfficialLeave{Date: req.Date, Reason: req.Reason}
	if err := database.DB.Create(&leave).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create official leave"})
		return
	}
	c.JSON(http.StatusCreated, leave)
}

func DeleteOfficialLeave(c *gin.Context) {
	result := database.DB.Delete(&models.OfficialLeave{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete official leave"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Official leave not found", "kind": string(ledger.KindNotFound)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Official leave deleted successfully"})
}
