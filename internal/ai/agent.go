package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cement-works/internal/database"
	"cement-works/internal/ledger"
	"cement-works/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// RunAgent answers one free-form question with Gemini function calling
// over live business data.
func RunAgent(userMessage string, apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")
	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the assistant for a cement works back office.

RULES:
1. STOCK: If a user asks about a stack, material, or stock level, call 'check_stock' and read the JSON to answer. Do NOT say you cannot check stock.
2. MONEY: If a user asks about balances, receivables, or payables, call 'get_balances'.
3. SALARY: If a user asks for a salary by NAME, you must NOT ask for the id. Instead:
   - Call 'list_people' to find the id.
   - Call 'get_payroll' using that id.
4. LOW STOCK: If a user asks what is running low, call 'low_stock_report'.

USER: %s`, today, userMessage)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_stock",
					Description: "Get every stack and raw-material stock level. Use this to find quantities, availability, and low-stock thresholds.",
				},
				{
					Name:        "list_people",
					Description: "Get every employee and manager with their id, name and shift.",
				},
				{
					Name:        "get_balances",
					Description: "Get the total receivable from buyers and payable to suppliers.",
				},
				{
					Name:        "get_payroll",
					Description: "Compute an employee's salary for the current month using their id.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"employee_id": {Type: genai.TypeInteger, Description: "ID of the employee"},
						},
						Required: []string{"employee_id"},
					},
				},
				{
					Name:        "low_stock_report",
					Description: "List raw materials at or below their low-stock threshold.",
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			switch funcCall.Name {
			case "check_stock":
				return executeCheckStock(ctx, session), nil
			case "list_people":
				return executeListPeople(ctx, session), nil
			case "get_balances":
				return executeBalances(ctx, session), nil
			case "get_payroll":
				return executePayroll(ctx, session, funcCall), nil
			case "low_stock_report":
				return executeLowStock(ctx, session), nil
			}
		}
	}

	return printResponse(resp), nil
}

func executeCheckStock(ctx context.Context, session *genai.ChatSession) string {
	var stacks []models.Stack
	database.DB.Preload("Orders.Payments").Preload("Orders.Deliveries").Find(&stacks)
	var purchases []models.Purchase
	database.DB.Preload("PurchaseOrders.Payments").Preload("PurchaseOrders.Deliveries").Preload("UsageLogs").Find(&purchases)

	type stockLine struct {
		Kind      string `json:"kind"`
		Name      string `json:"name"`
		Unit      string `json:"unit"`
		Available string `json:"available"`
	}
	lines := make([]stockLine, 0, len(stacks)+len(purchases))
	for _, s := range stacks {
		lines = append(lines, stockLine{
			Kind:      "stack",
			Name:      s.StackID + " (" + s.Material + ")",
			Unit:      s.Unit,
			Available: ledger.StackAvailable(s).StringFixed(3),
		})
	}
	for _, p := range purchases {
		lines = append(lines, stockLine{
			Kind:      "material",
			Name:      p.MaterialName + " from " + p.SupplierName,
			Unit:      p.Unit,
			Available: ledger.SummarizePurchase(p).AvailableStock.StringFixed(3),
		})
	}

	jsonBytes, _ := json.Marshal(lines)
	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "check_stock",
		Response: map[string]interface{}{"stock": string(jsonBytes)},
	})
	if err != nil {
		return "Error reading stock."
	}
	return handleRecursiveToolCalls(ctx, session, finalResp)
}

func executeListPeople(ctx context.Context, session *genai.ChatSession) string {
	var employees []models.Employee
	database.DB.Find(&employees)
	var managers []models.Manager
	database.DB.Find(&managers)

	type person struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Role  string `json:"role"`
		Shift string `json:"shift"`
	}
	people := make([]person, 0, len(employees)+len(managers))
	for _, e := range employees {
		people = append(people, person{ID: e.ID, Name: e.Name, Role: "employee", Shift: e.Shift})
	}
	for _, m := range managers {
		people = append(people, person{ID: m.ID, Name: m.Name, Role: "manager", Shift: m.Shift})
	}

	jsonBytes, _ := json.Marshal(people)
	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "list_people",
		Response: map[string]interface{}{"people": string(jsonBytes)},
	})
	if err != nil {
		return "Error listing people."
	}
	return handleRecursiveToolCalls(ctx, session, finalResp)
}

func executeBalances(ctx context.Context, session *genai.ChatSession) string {
	overview, err := database.GetOverview(database.DB)
	if err != nil {
		return "Error calculating balances."
	}
	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name: "get_balances",
		Response: map[string]interface{}{
			"receivable": overview.TotalReceivable.StringFixed(2),
			"payable":    overview.TotalPayable.StringFixed(2),
		},
	})
	return printResponse(finalResp)
}

func executePayroll(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	id, ok := funcCall.Args["employee_id"].(float64)
	if !ok {
		return "Error: employee_id must be a number."
	}

	var employee models.Employee
	if err := database.DB.First(&employee, uint(id)).Error; err != nil {
		finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
			Name:     "get_payroll",
			Response: map[string]interface{}{"status": "Employee ID not found"},
		})
		return printResponse(finalResp)
	}

	now := time.Now()
	prefix := now.Format("2006-01")
	var leaves []models.OfficialLeave
	database.DB.Where("date LIKE ?", prefix+"%").Find(&leaves)
	holidays := make(map[string]bool, len(leaves))
	for _, l := range leaves {
		holidays[l.Date] = true
	}

	var records []models.Attendance
	database.DB.Where("person_id = ? AND person_type = ? AND date LIKE ?",
		employee.ID, models.PersonEmployee, prefix+"%").Find(&records)
	marks := make([]ledger.Mark, 0, len(records))
	for _, r := range records {
		marks = append(marks, ledger.Mark{Status: r.Status, Hours: r.HoursWorked})
	}

	workingDays := len(ledger.WorkingDays(now.Year(), now.Month(), holidays))
	result := ledger.ComputeSalary(employee.BaseSalary, workingDays, marks, ledger.StrategyHoursRatio)

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name: "get_payroll",
		Response: map[string]interface{}{
			"name":         employee.Name,
			"salary":       result.Salary.StringFixed(2),
			"working_days": result.WorkingDays,
			"present_days": result.PresentDays.String(),
		},
	})
	return printResponse(finalResp)
}

func executeLowStock(ctx context.Context, session *genai.ChatSession) string {
	var purchases []models.Purchase
	database.DB.Preload("PurchaseOrders.Payments").Preload("PurchaseOrders.Deliveries").Preload("UsageLogs").Find(&purchases)

	type lowLine struct {
		Material  string `json:"material"`
		Supplier  string `json:"supplier"`
		Available string `json:"available"`
		Threshold string `json:"threshold"`
	}
	low := make([]lowLine, 0)
	for _, p := range purchases {
		available := ledger.SummarizePurchase(p).AvailableStock
		if available.LessThanOrEqual(p.LowStockThreshold) {
			low = append(low, lowLine{
				Material:  p.MaterialName,
				Supplier:  p.SupplierName,
				Available: available.StringFixed(3),
				Threshold: p.LowStockThreshold.StringFixed(3),
			})
		}
	}

	jsonBytes, _ := json.Marshal(low)
	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "low_stock_report",
		Response: map[string]interface{}{"low_stock": string(jsonBytes)},
	})
	return printResponse(finalResp)
}

// handleRecursiveToolCalls lets the model chain a lookup tool into a
// second call, e.g. list_people followed by get_payroll.
func handleRecursiveToolCalls(ctx context.Context, session *genai.ChatSession, resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			switch funcCall.Name {
			case "get_payroll":
				return executePayroll(ctx, session, funcCall)
			case "get_balances":
				return executeBalances(ctx, session)
			case "low_stock_report":
				return executeLowStock(ctx, session)
			}
		}
	}
	return printResponse(resp)
}

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
