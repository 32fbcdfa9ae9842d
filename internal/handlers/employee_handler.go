package handlers

import (
	"net/http"
	"strconv"
	"time"

	"cement-works/internal/database"
	"cement-works/internal/ledger"
	"cement-works/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type EmployeeRequest struct {
	Name            string          `json:"name" binding:"required"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	DOB             string          `json:"dob"`
	Gender          string          `json:"gender"`
	Aadhar          string          `json:"aadhar"`
	Shift           string          `json:"shift" binding:"required"`
	ExperienceYears int             `json:"experience_years"`
	BaseSalary      decimal.Decimal `json:"base_salary" binding:"required"`
}

func GetEmployees(c *gin.Context) {
	var employees []models.Employee
	query := database.DB.Order("name asc")
	if shift := c.Query("shift"); shift != "" {
		query = query.Where("shift = ?", shift)
	}
	if err := query.Find(&employees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch employees"})
		return
	}
	c.JSON(http.StatusOK, employees)
}

// GetEmployee returns the employee along with the current month's
// computed payroll. The ?strategy= query selects the salary formula;
// hours-ratio is the default.
func GetEmployee(c *gin.Context) {
	var employee models.Employee
	if err := database.DB.First(&employee, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found", "kind": string(ledger.KindNotFound)})
		return
	}

	now := time.Now()
	year, month := payrollPeriod(c, now)
	result, err := employeePayroll(employee, year, month, salaryStrategy(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute payroll"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"employee": employee, "payroll": result})
}

func CreateEmployee(c *gin.Context) {
	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.BaseSalary.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "base_salary must be positive", "kind": string(ledger.KindInvalidAmount)})
		return
	}
	if req.Email != "" {
		var existing models.Employee
		if err := database.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already exists", "kind": string(ledger.KindDuplicateKey)})
			return
		}
	}

	employee := models.Employee{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		DOB:             req.DOB,
		Gender:          req.Gender,
		Aadhar:          req.Aadhar,
		Shift:           req.Shift,
		ExperienceYears: req.ExperienceYears,
		BaseSalary:      req.BaseSalary,
	}
	if err := database.DB.Create(&employee).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create employee"})
		return
	}
	BotCache.Reset()
	c.JSON(http.StatusCreated, employee)
}

func UpdateEmployee(c *gin.Context) {
	var employee models.Employee
	if err := database.DB.First(&employee, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found", "kind": string(ledger.KindNotFound)})
		return
	}

	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.BaseSalary.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "base_salary must be positive", "kind": string(ledger.KindInvalidAmount)})
		return
	}

	employee.Name = req.Name
	employee.Email = req.Email
	employee.Phone = req.Phone
	employee.DOB = req.DOB
	employee.Gender = req.Gender
	employee.Aadhar = req.Aadhar
	employee.Shift = req.Shift
	employee.ExperienceYears = req.ExperienceYears
	employee.BaseSalary = req.BaseSalary

	if err := database.DB.Save(&employee).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update employee"})
		return
	}
	BotCache.Reset()
	c.JSON(http.StatusOK, employee)
}

func DeleteEmployee(c *gin.Context) {
	result := database.DB.Delete(&models.Employee{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete employee"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found", "kind": string(ledger.KindNotFound)})
		return
	}
	BotCache.Reset()
	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}

// GetShiftSalaries lists every employee on a shift with that month's
// computed salary, for the shift-wise salary board.
func GetShiftSalaries(c *gin.Context) {
	var employees []models.Employee
	if err := database.DB.Where("shift = ?", c.Param("shift")).Order("name asc").Find(&employees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch employees"})
		return
	}

	now := time.Now()
	year, month := payrollPeriod(c, now)
	strategy := salaryStrategy(c)

	out := make([]gin.H, 0, len(employees))
	for _, e := range employees {
		result, err := employeePayroll(e, year, month, strategy)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute payroll"})
			return
		}
		out = append(out, gin.H{"employee": e, "payroll": result})
	}
	c.JSON(http.StatusOK, out)
}

// payrollPeriod reads ?year= and ?month=, defaulting to the current month.
func payrollPeriod(c *gin.Context, now time.Time) (int, time.Month) {
	year := now.Year()
	month := now.Month()
	if y, err := strconv.Atoi(c.Query("year")); err == nil && y > 0 {
		year = y
	}
	if m, err := strconv.Atoi(c.Query("month")); err == nil && m >= 1 && m <= 12 {
		month = time.Month(m)
	}
	return year, month
}

func salaryStrategy(c *gin.Context) ledger.SalaryStrategy {
	if c.Query("strategy") == string(ledger.StrategyHoursProportion) {
		return ledger.StrategyHoursProportion
	}
	return ledger.StrategyHoursRatio
}

// monthHolidays loads official leaves falling inside the month as a
// date-keyed set for the working-day calendar.
func monthHolidays(year int, month time.Month) (map[string]bool, error) {
	prefix := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
	var leaves []models.OfficialLeave
	if err := database.DB.Where("date LIKE ?", prefix+"%").Find(&leaves).Error; err != nil {
		return nil, err
	}
	holidays := make(map[string]bool, len(leaves))
	for _, l := range leaves {
		holidays[l.Date] = true
	}
	return holidays, nil
}

func monthMarks(personID uint, personType string, year int, month time.Month) ([]ledger.Mark, error) {
	prefix := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
	var records []models.Attendance
	err := database.DB.Where("person_id = ? AND person_type = ? AND date LIKE ?", personID, personType, prefix+"%").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	marks := make([]ledger.Mark, 0, len(records))
	for _, r := range records {
		marks = append(marks, ledger.Mark{Status: r.Status, Hours: r.HoursWorked})
	}
	return marks, nil
}

func employeePayroll(e models.Employee, year int, month time.Month, strategy ledger.SalaryStrategy) (ledger.PayrollResult, error) {
	holidays, err := monthHolidays(year, month)
	if err != nil {
		return ledger.PayrollResult{}, err
	}
	marks, err := monthMarks(e.ID, models.PersonEmployee, year, month)
	if err != nil {
		return ledger.PayrollResult{}, err
	}
	workingDays := len(ledger.WorkingDays(year, month, holidays))
	return ledger.ComputeSalary(e.BaseSalary, workingDays, marks, strategy), nil
}
