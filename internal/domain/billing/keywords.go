package billing

import (
	"sort"
	"strings"
	"unicode"

	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

const (
	minKeywordLen = 2
	maxKeywordLen = 20
)

// Keywords índice de búsqueda de la factura: prefijos en minúscula de número, cliente, teléfono
// y nombres/códigos de artículos.
func Keywords(inv *entity.Invoice) []string {
	set := make(map[string]struct{})
	add := func(s string) {
		for _, tok := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
		}) {
			runes := []rune(tok)
			for n := minKeywordLen; n <= len(runes) && n <= maxKeywordLen; n++ {
				set[string(runes[:n])] = struct{}{}
			}
		}
	}
	add(inv.InvoiceNumber)
	add(inv.CustomerName)
	add(inv.CustomerPhone)
	for _, it := range inv.Items {
		add(it.ItemDetails.DisplayName)
		add(it.ItemDetails.JewelryCode)
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
