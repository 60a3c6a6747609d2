package settlement

import (
	"strings"

	"github.com/BruksfildServices01/consultapp/internal/httperr"
)

type TransactionType string

const (
	Inflow  TransactionType = "entrada"
	Outflow TransactionType = "saida"
)

// ParseTransactionType accepts the stored Portuguese values and their
// English names.
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "entrada", "inflow":
		return Inflow, nil
	case "saida", "saída", "outflow":
		return Outflow, nil
	}
	return "", httperr.ErrBusiness("invalid_transaction_type")
}

const (
	InstallmentPending = "pendente"
	InstallmentPaid    = "pago"
)

const MaxInstallments = 12
