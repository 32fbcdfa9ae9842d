package chatbot

import (
	"regexp"
	"strings"
)

// Intent is the classified meaning of a free-text query. Classification
// runs once up front; handlers dispatch on the enum through a lookup
// table instead of re-testing substrings.
type Intent string

const (
	IntentGreeting       Intent = "greeting"
	IntentHelp           Intent = "help"
	IntentTotalEmployees Intent = "total_employees"
	IntentTotalManagers  Intent = "total_managers"
	IntentTotalBalance   Intent = "total_balance"
	IntentOfficialLeaves Intent = "official_leaves"
	IntentLowStock       Intent = "low_stock"
	IntentShiftQuery     Intent = "shift_query"
	IntentSalary         Intent = "salary"
	IntentAttendance     Intent = "attendance"
	IntentOrders         Intent = "orders"
	IntentStock          Intent = "stock"
	IntentPersonal       Intent = "personal_details"
	IntentPurchase       Intent = "purchase"
	IntentDetails        Intent = "details"
)

var shiftQueryRe = regexp.MustCompile(`shift\s+([a-c])\s+(employees|managers)`)

var greetings = []string{"hello", "hi", "vanakkam"}

// ClassifyIntent maps a query onto one intent. Specific global intents
// win over entity-scoped ones; IntentDetails is the fallback that asks
// the resolver for a plain entity summary.
func ClassifyIntent(query string) Intent {
	q := strings.ToLower(strings.TrimSpace(query))

	for _, g := range greetings {
		if strings.HasPrefix(q, g) {
			return IntentGreeting
		}
	}
	switch {
	case strings.Contains(q, "help"):
		return IntentHelp
	case strings.Contains(q, "total employee"):
		return IntentTotalEmployees
	case strings.Contains(q, "total manager"):
		return IntentTotalManagers
	case strings.Contains(q, "total balance"), strings.Contains(q, "overall balance"):
		return IntentTotalBalance
	case strings.Contains(q, "official leave"):
		return IntentOfficialLeaves
	case strings.Contains(q, "low stock"):
		return IntentLowStock
	case shiftQueryRe.MatchString(q):
		return IntentShiftQuery
	case strings.Contains(q, "salary"):
		return IntentSalary
	case strings.Contains(q, "attendance"), strings.Contains(q, "hours"),
		strings.Contains(q, "present"), strings.Contains(q, "leave"):
		return IntentAttendance
	case strings.Contains(q, "buyer"), strings.Contains(q, "order"):
		return IntentOrders
	case strings.Contains(q, "stock"), strings.Contains(q, "quantity"),
		strings.Contains(q, "pending"), strings.Contains(q, "available"):
		return IntentStock
	case strings.Contains(q, "phone"), strings.Contains(q, "email"),
		strings.Contains(q, "dob"), strings.Contains(q, "experience"),
		strings.Contains(q, "shift"), strings.Contains(q, "aadhar"):
		return IntentPersonal
	case strings.Contains(q, "supplier"), strings.Contains(q, "purchase"):
		return IntentPurchase
	}
	return IntentDetails
}

// ShiftQueryParts extracts the shift letter and group from a shift
// query, e.g. "shift a employees" -> ("a", "employees").
func ShiftQueryParts(query string) (shift, group string, ok bool) {
	m := shiftQueryRe.FindStringSubmatch(strings.ToLower(query))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
