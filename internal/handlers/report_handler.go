package handlers

import (
	"fmt"
	"net/http"
	"time"

	"cement-works/internal/database"
	"cement-works/internal/ledger"
	"cement-works/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

func GetOverview(c *gin.Context) {
	overview, err := database.GetOverview(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build overview"})
		return
	}
	c.JSON(http.StatusOK, overview)
}

func writeWorkbook(c *gin.Context, f *excelize.File, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write workbook"})
	}
}

// ExportStackOrders writes one stack's full order log as an Excel sheet.
func ExportStackOrders(c *gin.Context) {
	var stack models.Stack
	if err := stackPreloads(database.DB).First(&stack, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stack not found", "kind": string(ledger.KindNotFound)})
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Orders"
	f.SetSheetName("Sheet1", sheet)

	header := []interface{}{"Buyer", "Qty", "Price/Unit", "GST %", "Total", "GST Amount", "Total with GST", "Paid", "Balance", "Delivered", "Pending", "Order Date"}
	f.SetSheetRow(sheet, "A1", &header)

	for i, order := range stack.Orders {
		summary := ledger.SummarizeOrder(order)
		row := []interface{}{
			order.Buyer,
			order.Qty.StringFixed(3),
			order.PricePerUnit.StringFixed(2),
			order.GSTRate.StringFixed(2),
			summary.TotalValue.StringFixed(2),
			summary.GSTAmount.StringFixed(2),
			summary.TotalWithGST.StringFixed(2),
			summary.TotalPaid.StringFixed(2),
			summary.BalanceDue.StringFixed(2),
			summary.DeliveredQty.StringFixed(3),
			summary.PendingQty.StringFixed(3),
			order.OrderedAt.Format("2006-01-02"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		f.SetSheetRow(sheet, cell, &row)
	}

	totals := ledger.SummarizeStack(stack)
	cell, _ := excelize.CoordinatesToCellName(1, len(stack.Orders)+3)
	totalRow := []interface{}{
		"TOTAL", totals.TotalOrdered.StringFixed(3), "", "",
		"", totals.TotalGST.StringFixed(2), totals.TotalWithGST.StringFixed(2),
		totals.TotalPaid.StringFixed(2), totals.TotalBalance.StringFixed(2),
		totals.TotalDelivered.StringFixed(3), "", "",
	}
	f.SetSheetRow(sheet, cell, &totalRow)

	writeWorkbook(c, f, fmt.Sprintf("%s-orders.xlsx", stack.StackID))
}

// ExportSalaryReport writes every employee's computed salary for the
// month as an Excel sheet.
func ExportSalaryReport(c *gin.Context) {
	var employees []models.Employee
	if err := database.DB.Order("shift asc, name asc").Find(&employees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch employees"})
		return
	}

	now := time.Now()
	year, month := payrollPeriod(c, now)
	strategy := salaryStrategy(c)

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Salaries"
	f.SetSheetName("Sheet1", sheet)

	header := []interface{}{"Name", "Shift", "Base Salary", "Working Days", "Present Days", "Leave Days", "Absent Days", "Total Hours", "Salary"}
	f.SetSheetRow(sheet, "A1", &header)

	for i, e := range employees {
		result, err := employeePayroll(e, year, month, strategy)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute payroll"})
			return
		}
		row := []interface{}{
			e.Name,
			e.Shift,
			e.BaseSalary.StringFixed(2),
			result.WorkingDays,
			result.PresentDays.String(),
			result.LeaveDays,
			result.AbsentDays.String(),
			result.TotalHours.StringFixed(2),
			result.Salary.StringFixed(2),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		f.SetSheetRow(sheet, cell, &row)
	}

	writeWorkbook(c, f, fmt.Sprintf("salary-report-%d-%02d.xlsx", year, int(month)))
}
