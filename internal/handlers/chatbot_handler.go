package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"cement-works/internal/chatbot"
	"cement-works/internal/database"
	"cement-works/internal/ledger"
	"cement-works/internal/models"

	"github.com/gin-gonic/gin"
)

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// intentResponder answers one intent. Entity-scoped responders receive
// the entities resolved from the message; global ones ignore them.
type intentResponder func(c *gin.Context, query string, entities []chatbot.Entity) (string, error)

var intentResponders = map[chatbot.Intent]intentResponder{
	chatbot.IntentGreeting:       answerGreeting,
	chatbot.IntentHelp:           answerHelp,
	chatbot.IntentTotalEmployees: answerTotalEmployees,
	chatbot.IntentTotalManagers:  answerTotalManagers,
	chatbot.IntentTotalBalance:   answerTotalBalance,
	chatbot.IntentOfficialLeaves: answerOfficialLeaves,
	chatbot.IntentLowStock:       answerLowStock,
	chatbot.IntentShiftQuery:     answerShiftQuery,
	chatbot.IntentSalary:         answerSalary,
	chatbot.IntentAttendance:     answerAttendance,
	chatbot.IntentOrders:         answerOrders,
	chatbot.IntentStock:          answerStock,
	chatbot.IntentPersonal:       answerPersonal,
	chatbot.IntentPurchase:       answerPurchase,
	chatbot.IntentDetails:        answerDetails,
}

// ChatbotQuery resolves entities from the message against the cached
// name snapshot, classifies the intent and dispatches.
func ChatbotQuery(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, ok := BotCache.Snapshot()
	if !ok {
		if err := BotCache.Load(database.DB); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chatbot data"})
			return
		}
		snap, _ = BotCache.Snapshot()
	}

	query := strings.ToLower(strings.TrimSpace(req.Message))
	entities := snap.MatchGreedy(query)
	intent := chatbot.ClassifyIntent(query)

	reply, err := intentResponders[intent](c, query, entities)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to answer query"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply, "intent": string(intent)})
}

func answerGreeting(_ *gin.Context, _ string, _ []chatbot.Entity) (string, error) {
	return "Hello! Ask me about employees, managers, stacks, purchases, salaries, attendance or stock.", nil
}

func answerHelp(_ *gin.Context, _ string, _ []chatbot.Entity) (string, error) {
	return "You can ask things like: 'salary of Ravi', 'stock of Stack A', 'orders of cement', " +
		"'total employees', 'shift a employees', 'total balance', 'low stock', 'official leaves'.", nil
}

func answerTotalEmployees(_ *gin.Context, _ string, _ []chatbot.Entity) (string, error) {
	var count int64
	if err := database.DB.Model(&models.Employee{}).Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("There are %d employees.", count), nil
}

func answerTotalManagers(_ *gin.Context, _ string, _ []chatbot.Entity) (string, error) {
	var count int64
	if err := database.DB.Model(&models.Manager{}).Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("There are %d managers.", count), nil
}

func answerTotalBalance(_ *gin.Context, _ string, _ []chatbot.Entity) (string, error) {
	overview, err := database.GetOverview(database.DB)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Total receivable from buyers: %s. Total payable to suppliers: %s.",
		overview.TotalReceivable.StringFixed(2), overview.TotalPayable.StringFixed(2)), nil
}

func answerOfficialLeaves(_ *gin.Context, _ string, _ []chatbot.Entity) (string, error) {
	var leaves []models.OfficialLeave
	if err := database.DB.Order("date asc").Find(&leaves).Error; err != nil {
		return "", err
	}
	if len(leaves) == 0 {
		return "No official leaves are declared.", nil
	}
	parts := make([]string, 0, len(leaves))
	for _, l := range leaves {
		parts = append(parts, fmt.Sprintf("%s (%s)", l.Date, l.Reason))
	}
	return "Official leaves: " + strings.Join(parts, ", ") + ".", nil
}

func answerLowStock(_ *gin.Context, _ string, _ []chatbot.Entity) (string, error) {
	var purchases []models.Purchase
	if err := purchasePreloads(database.DB).Find(&purchases).Error; err != nil {
		return "", err
	}
	low := make([]string, 0)
	for _, p := range purchases {
		summary := ledger.SummarizePurchase(p)
		if summary.AvailableStock.LessThanOrEqual(p.LowStockThreshold) {
			low = append(low, fmt.Sprintf("%s from %s (%s %s left)",
				p.MaterialName, p.SupplierName, summary.AvailableStock.StringFixed(3), p.Unit))
		}
	}
	if len(low) == 0 {
		return "No materials are below their low-stock threshold.", nil
	}
	return "Low stock: " + strings.Join(low, "; ") + ".", nil
}

func answerShiftQuery(_ *gin.Context, query string, _ []chatbot.Entity) (string, error) {
	shift, group, ok := chatbot.ShiftQueryParts(query)
	if !ok {
		return "Please ask like 'shift a employees' or 'shift b managers'.", nil
	}
	if group == "managers" {
		var managers []models.Manager
		if err := database.DB.Where("LOWER(shift) = ?", shift).Order("name asc").Find(&managers).Error; err != nil {
			return "", err
		}
		if len(managers) == 0 {
			return fmt.Sprintf("No managers on shift %s.", strings.ToUpper(shift)), nil
		}
		names := make([]string, 0, len(managers))
		for _, m := range managers {
			names = append(names, m.Name)
		}
		return fmt.Sprintf("Shift %s managers: %s.", strings.ToUpper(shift), strings.Join(names, ", ")), nil
	}

	var employees []models.Employee
	if err := database.DB.Where("LOWER(shift) = ?", shift).Order("name asc").Find(&employees).Error; err != nil {
		return "", err
	}
	if len(employees) == 0 {
		return fmt.Sprintf("No employees on shift %s.", strings.ToUpper(shift)), nil
	}
	names := make([]string, 0, len(employees))
	for _, e := range employees {
		names = append(names, e.Name)
	}
	return fmt.Sprintf("Shift %s employees: %s.", strings.ToUpper(shift), strings.Join(names, ", ")), nil
}

func answerSalary(c *gin.Context, query string, entities []chatbot.Entity) (string, error) {
	person, msg := onePerson(entities)
	if msg != "" {
		return msg, nil
	}
	now := time.Now()
	year, month := now.Year(), now.Month()

	if person.Type == chatbot.EntityManager {
		var manager models.Manager
		if err := database.DB.First(&manager, person.ID).Error; err != nil {
			return "", err
		}
		holidays, err := monthHolidays(year, month)
		if err != nil {
			return "", err
		}
		marks, err := monthMarks(manager.ID, models.PersonManager, year, month)
		if err != nil {
			return "", err
		}
		payroll := ledger.ComputeManagerPayroll(
			manager.BaseSalary, len(ledger.WorkingDays(year, month, holidays)), marks,
			manager.PFEnabled, manager.ESIEnabled, manager.PFPercent, manager.ESIPercent,
		)
		return fmt.Sprintf("%s's net salary this month is %s (PF %s, ESI %s, leave deduction %s).",
			manager.Name, payroll.NetSalary.StringFixed(2), payroll.PFAmount.StringFixed(2),
			payroll.ESIAmount.StringFixed(2), payroll.LeaveDeduction.StringFixed(2)), nil
	}

	var employee models.Employee
	if err := database.DB.First(&employee, person.ID).Error; err != nil {
		return "", err
	}
	result, err := employeePayroll(employee, year, month, ledger.StrategyHoursRatio)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s's salary this month is %s (%s of %d working days present).",
		employee.Name, result.Salary.StringFixed(2), result.PresentDays.String(), result.WorkingDays), nil
}

func answerAttendance(_ *gin.Context, _ string, entities []chatbot.Entity) (string, error) {
	person, msg := onePerson(entities)
	if msg != "" {
		return msg, nil
	}
	now := time.Now()
	marks, err := monthMarks(person.ID, string(person.Type), now.Year(), now.Month())
	if err != nil {
		return "", err
	}
	present, absent, half, leave := 0, 0, 0, 0
	for _, m := range marks {
		switch m.Status {
		case models.StatusPresent:
			present++
		case models.StatusAbsent:
			absent++
		case models.StatusHalfDay:
			half++
		case models.StatusLeave:
			leave++
		}
	}
	return fmt.Sprintf("%s this month: %d present, %d half-day, %d leave, %d absent.",
		person.Name, present, half, leave, absent), nil
}

func answerOrders(_ *gin.Context, _ string, entities []chatbot.Entity) (string, error) {
	stack, msg := oneOf(entities, chatbot.EntityStack, "stack")
	if msg != "" {
		return msg, nil
	}
	var record models.Stack
	if err := stackPreloads(database.DB).First(&record, stack.ID).Error; err != nil {
		return "", err
	}
	summary := ledger.SummarizeStack(record)
	return fmt.Sprintf("%s has %d orders: %s ordered, %s delivered, balance due %s.",
		record.StackID, len(record.Orders), summary.TotalOrdered.StringFixed(3),
		summary.TotalDelivered.StringFixed(3), summary.TotalBalance.StringFixed(2)), nil
}

func answerStock(_ *gin.Context, _ string, entities []chatbot.Entity) (string, error) {
	for _, e := range entities {
		if e.Type == chatbot.EntityStack {
			var record models.Stack
			if err := stackPreloads(database.DB).First(&record, e.ID).Error; err != nil {
				return "", err
			}
			summary := ledger.SummarizeStack(record)
			return fmt.Sprintf("%s (%s) has %s %s available of %s total.",
				record.StackID, record.Material, summary.Available.StringFixed(3),
				record.Unit, record.TotalQty.StringFixed(3)), nil
		}
		if e.Type == chatbot.EntityPurchase {
			var record models.Purchase
			if err := purchasePreloads(database.DB).First(&record, e.ID).Error; err != nil {
				return "", err
			}
			summary := ledger.SummarizePurchase(record)
			return fmt.Sprintf("%s from %s: %s %s in stock (threshold %s).",
				record.MaterialName, record.SupplierName, summary.AvailableStock.StringFixed(3),
				record.Unit, record.LowStockThreshold.StringFixed(3)), nil
		}
	}
	return "Which stack or material do you mean?", nil
}

func answerPersonal(_ *gin.Context, _ string, entities []chatbot.Entity) (string, error) {
	person, msg := onePerson(entities)
	if msg != "" {
		return msg, nil
	}
	if person.Type == chatbot.EntityManager {
		var m models.Manager
		if err := database.DB.First(&m, person.ID).Error; err != nil {
			return "", err
		}
		return fmt.Sprintf("%s (manager %s): shift %s, %d years experience, phone %s, email %s.",
			m.Name, m.ManagerID, m.Shift, m.ExperienceYears, m.Phone, m.Email), nil
	}
	var e models.Employee
	if err := database.DB.First(&e, person.ID).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s (employee): shift %s, %d years experience, phone %s, email %s.",
		e.Name, e.Shift, e.ExperienceYears, e.Phone, e.Email), nil
}

func answerPurchase(_ *gin.Context, _ string, entities []chatbot.Entity) (string, error) {
	purchase, msg := oneOf(entities, chatbot.EntityPurchase, "material")
	if msg != "" {
		return msg, nil
	}
	var record models.Purchase
	if err := purchasePreloads(database.DB).First(&record, purchase.ID).Error; err != nil {
		return "", err
	}
	summary := ledger.SummarizePurchase(record)
	return fmt.Sprintf("%s from %s: ordered %s, received %s, used %s, available %s %s, balance payable %s.",
		record.MaterialName, record.SupplierName, summary.TotalOrdered.StringFixed(3),
		summary.TotalReceived.StringFixed(3), summary.TotalUsed.StringFixed(3),
		summary.AvailableStock.StringFixed(3), record.Unit, summary.TotalBalance.StringFixed(2)), nil
}

// answerDetails is the fallback: describe whatever entity the message
// named, or ask the caller to rephrase.
func answerDetails(c *gin.Context, query string, entities []chatbot.Entity) (string, error) {
	if len(entities) == 0 {
		return "I couldn't find anyone or anything by that name. Try 'help' to see what I can answer.", nil
	}
	switch entities[0].Type {
	case chatbot.EntityEmployee, chatbot.EntityManager:
		return answerPersonal(c, query, entities)
	case chatbot.EntityStack:
		return answerStock(c, query, entities)
	default:
		return answerPurchase(c, query, entities)
	}
}

func onePerson(entities []chatbot.Entity) (chatbot.Entity, string) {
	for _, e := range entities {
		if e.Type == chatbot.EntityEmployee || e.Type == chatbot.EntityManager {
			return e, ""
		}
	}
	return chatbot.Entity{}, "Whose details do you want? Please include the person's name."
}

func oneOf(entities []chatbot.Entity, t chatbot.EntityType, noun string) (chatbot.Entity, string) {
	for _, e := range entities {
		if e.Type == t {
			return e, ""
		}
	}
	return chatbot.Entity{}, fmt.Sprintf("Which %s do you mean? Please include its name.", noun)
}
