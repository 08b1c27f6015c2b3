package billing

import (
	"fmt"

	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

// Códigos de problemas de integridad.
const (
	IssuePaidMismatch       = "PAID_MISMATCH"
	IssueStatusMismatch     = "STATUS_MISMATCH"
	IssueTotalMismatch      = "TOTAL_MISMATCH"
	IssueFineMismatch       = "FINE_MISMATCH"
	IssueDuplicateLineID    = "DUPLICATE_LINE_ID"
	IssueDuplicatePaymentID = "DUPLICATE_PAYMENT_ID"
)

// Issue problema detectado en una factura guardada.
type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Audit compara los campos guardados contra el recálculo. Una diferencia es un problema de datos,
// nunca "más impuesto".
func Audit(inv *entity.Invoice) []Issue {
	var issues []Issue
	t := Recompute(inv)

	if !inv.PaidAmount.Equal(t.Paid) {
		issues = append(issues, Issue{IssuePaidMismatch,
			fmt.Sprintf("pagado guardado %s, suma de pagos %s", inv.PaidAmount.StringFixed(2), t.Paid.StringFixed(2))})
	}
	if expected := DeriveStatus(inv.TotalAmount, inv.PaidAmount); inv.PaymentStatus != expected {
		issues = append(issues, Issue{IssueStatusMismatch,
			fmt.Sprintf("estado guardado %s, esperado %s", inv.PaymentStatus, expected)})
	}
	if inv.IsMetalExchangeApplied {
		if !inv.OriginalTotalBeforeFine.Equal(t.OriginalTotal) {
			issues = append(issues, Issue{IssueTotalMismatch,
				fmt.Sprintf("total original guardado %s, calculado %s", inv.OriginalTotalBeforeFine.StringFixed(2), t.OriginalTotal.StringFixed(2))})
		}
		if !inv.TotalAmount.Equal(inv.OriginalTotalBeforeFine.Sub(t.FineValue)) {
			issues = append(issues, Issue{IssueFineMismatch,
				fmt.Sprintf("total %s no es original %s menos fino %s", inv.TotalAmount.StringFixed(2), inv.OriginalTotalBeforeFine.StringFixed(2), t.FineValue.StringFixed(2))})
		}
	} else if !inv.TotalAmount.Equal(t.Total) {
		issues = append(issues, Issue{IssueTotalMismatch,
			fmt.Sprintf("total guardado %s, subtotal+cargos+impuesto %s", inv.TotalAmount.StringFixed(2), t.Total.StringFixed(2))})
	}

	seen := make(map[string]bool, len(inv.Items))
	for _, it := range inv.Items {
		if seen[it.ID] {
			issues = append(issues, Issue{IssueDuplicateLineID, "línea repetida " + it.ID})
		}
		seen[it.ID] = true
	}
	seenPay := make(map[string]bool, len(inv.Payments))
	for _, p := range inv.Payments {
		if seenPay[p.ID] {
			issues = append(issues, Issue{IssueDuplicatePaymentID, "pago repetido " + p.ID})
		}
		seenPay[p.ID] = true
	}
	return issues
}
