package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"cement-works/internal/database"
	"cement-works/internal/handlers"
	"cement-works/internal/ledger"
	"cement-works/internal/models"
)

func attendanceRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/attendance", handlers.MarkAttendance)
	r.POST("/attendance/bulk", handlers.MarkBulkAttendance)
	r.GET("/employees/:id", handlers.GetEmployee)
	r.GET("/managers/:id/payroll", handlers.GetManagerPayroll)
	r.POST("/official-leaves", handlers.CreateOfficialLeave)
	return r
}

func TestMarkAttendance_UpsertsPerPersonAndDay(t *testing.T) {
	setupDB(t)
	r := attendanceRouter()

	employee := models.Employee{Name: "Ravi", Shift: "A", BaseSalary: decimal.NewFromInt(24000)}
	database.DB.Create(&employee)

	mark := gin.H{
		"person_id": employee.ID, "person_type": "employee",
		"date": "2025-09-01", "status": "Present", "hours_worked": "8",
	}
	if w := doJSON(t, r, http.MethodPost, "/attendance", mark); w.Code != http.StatusOK {
		t.Fatalf("mark: %d %s", w.Code, w.Body)
	}

	// Re-marking the same day overwrites instead of duplicating.
	mark["status"] = "Half-day"
	if w := doJSON(t, r, http.MethodPost, "/attendance", mark); w.Code != http.StatusOK {
		t.Fatalf("re-mark: %d %s", w.Code, w.Body)
	}

	var count int64
	database.DB.Model(&models.Attendance{}).
		Where("person_id = ? AND date = ?", employee.ID, "2025-09-01").Count(&count)
	if count != 1 {
		t.Fatalf("rows = %d, want 1", count)
	}
	var record models.Attendance
	database.DB.Where("person_id = ? AND date = ?", employee.ID, "2025-09-01").First(&record)
	if record.Status != models.StatusHalfDay {
		t.Fatalf("status = %q, want Half-day", record.Status)
	}
}

func TestMarkAttendance_RejectsBadInput(t *testing.T) {
	setupDB(t)
	r := attendanceRouter()

	w := doJSON(t, r, http.MethodPost, "/attendance", gin.H{
		"person_id": 1, "person_type": "visitor", "date": "2025-09-01", "status": "Present",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad person type: %d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/attendance", gin.H{
		"person_id": 1, "person_type": "employee", "date": "01-09-2025", "status": "Present",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad date format: %d, want 400", w.Code)
	}
}

func TestGetEmployee_MonthPayroll(t *testing.T) {
	setupDB(t)
	r := attendanceRouter()

	// September 2025 has 24 working days; 24000 base is 1000 per day.
	employee := models.Employee{Name: "Ravi", Shift: "A", BaseSalary: decimal.NewFromInt(24000)}
	database.DB.Create(&employee)

	marks := []gin.H{
		{"person_id": employee.ID, "person_type": "employee", "date": "2025-09-01", "status": "Present", "hours_worked": "8"},
		{"person_id": employee.ID, "person_type": "employee", "date": "2025-09-02", "status": "Present", "hours_worked": "8"},
		{"person_id": employee.ID, "person_type": "employee", "date": "2025-09-03", "status": "Half-day"},
	}
	if w := doJSON(t, r, http.MethodPost, "/attendance/bulk", marks); w.Code != http.StatusOK {
		t.Fatalf("bulk mark: %d %s", w.Code, w.Body)
	}

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/employees/%d?year=2025&month=9", employee.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get employee: %d %s", w.Code, w.Body)
	}
	var resp struct {
		Payroll ledger.PayrollResult `json:"payroll"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Payroll.WorkingDays != 24 {
		t.Fatalf("working days = %d, want 24", resp.Payroll.WorkingDays)
	}
	if !resp.Payroll.Salary.Equal(decimal.NewFromInt(2500)) {
		t.Fatalf("salary = %s, want 2500 (two full days plus a half)", resp.Payroll.Salary)
	}
}

func TestGetEmployee_HolidayShrinksWorkingDays(t *testing.T) {
	setupDB(t)
	r := attendanceRouter()

	employee := models.Employee{Name: "Ravi", Shift: "A", BaseSalary: decimal.NewFromInt(23000)}
	database.DB.Create(&employee)

	w := doJSON(t, r, http.MethodPost, "/official-leaves", gin.H{"date": "2025-09-05", "reason": "Festival"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create leave: %d %s", w.Code, w.Body)
	}
	// Duplicate declaration for the same date is rejected.
	w = doJSON(t, r, http.MethodPost, "/official-leaves", gin.H{"date": "2025-09-05", "reason": "Again"})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate leave: %d, want 409", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/employees/%d?year=2025&month=9", employee.ID), nil)
	var resp struct {
		Payroll ledger.PayrollResult `json:"payroll"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Payroll.WorkingDays != 23 {
		t.Fatalf("working days = %d, want 23 with the holiday", resp.Payroll.WorkingDays)
	}
}

func TestGetManagerPayroll_Deductions(t *testing.T) {
	setupDB(t)
	r := attendanceRouter()

	manager := models.Manager{
		ManagerID: "MGR-01", Name: "Meena", Shift: "A",
		BaseSalary: decimal.NewFromInt(30000),
		PFEnabled:  true, ESIEnabled: true,
		PFPercent: decimal.NewFromInt(12), ESIPercent: decimal.NewFromFloat(0.75),
	}
	database.DB.Create(&manager)

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/managers/%d/payroll?year=2025&month=9", manager.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("payroll: %d %s", w.Code, w.Body)
	}
	var resp struct {
		Payroll ledger.ManagerPayroll `json:"payroll"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Payroll.PFAmount.Equal(decimal.NewFromInt(3600)) {
		t.Fatalf("pf = %s, want 3600", resp.Payroll.PFAmount)
	}
	if !resp.Payroll.ESIAmount.Equal(decimal.NewFromInt(225)) {
		t.Fatalf("esi = %s, want 225", resp.Payroll.ESIAmount)
	}
}
