package chatbot

import "testing"

func TestClassifyIntent(t *testing.T) {
	cases := []struct {
		query string
		want  Intent
	}{
		{"hello there", IntentGreeting},
		{"vanakkam", IntentGreeting},
		{"help", IntentHelp},
		{"how many total employees do we have", IntentTotalEmployees},
		{"total managers", IntentTotalManagers},
		{"what is the total balance", IntentTotalBalance},
		{"overall balance please", IntentTotalBalance},
		{"list official leaves", IntentOfficialLeaves},
		{"any low stock materials", IntentLowStock},
		{"shift a employees", IntentShiftQuery},
		{"shift b managers", IntentShiftQuery},
		{"salary of ravi", IntentSalary},
		{"attendance of ravi", IntentAttendance},
		{"how many hours did ravi work", IntentAttendance},
		{"orders of stack a", IntentOrders},
		{"buyers of stack a", IntentOrders},
		{"stock of limestone", IntentStock},
		{"pending quantity for stack a", IntentStock},
		{"phone number of ravi", IntentPersonal},
		{"which shift is ravi on", IntentPersonal},
		{"limestone purchase details", IntentPurchase},
		{"ravi", IntentDetails},
	}

	for _, tc := range cases {
		if got := ClassifyIntent(tc.query); got != tc.want {
			t.Errorf("ClassifyIntent(%q) = %s, want %s", tc.query, got, tc.want)
		}
	}
}

// "shift a employees salary" mentions salary but the shift listing is
// the more specific intent and must win.
func TestClassifyIntent_ShiftBeatsSalary(t *testing.T) {
	if got := ClassifyIntent("shift a employees salary"); got != IntentShiftQuery {
		t.Fatalf("got %s, want %s", got, IntentShiftQuery)
	}
}

func TestShiftQueryParts(t *testing.T) {
	shift, group, ok := ShiftQueryParts("show me Shift B managers")
	if !ok || shift != "b" || group != "managers" {
		t.Fatalf("got (%q, %q, %v)", shift, group, ok)
	}

	if _, _, ok := ShiftQueryParts("shift z employees"); ok {
		t.Fatal("shift letters are a-c only")
	}
}
