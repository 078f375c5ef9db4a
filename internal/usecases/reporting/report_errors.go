package reporting

import (
	"errors"
	"fmt"
)

var (
	ErrOwnerIDRequired = errors.New("owner dos dados não informado")
	ErrOwnerNotFound   = errors.New("owner dos dados não encontrado")
	ErrFetchFailed     = errors.New("falha ao buscar registros")
)

// ReportError é um erro com contexto adicional para relatórios
type ReportError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	OwnerID string // Owner envolvido (quando aplicável)
	Details string // Detalhes adicionais
}

func (e *ReportError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

// IsPreconditionError indica falhas de identidade que devem ser devolvidas ao cliente como 4xx
func IsPreconditionError(err error) bool {
	return errors.Is(err, ErrOwnerIDRequired) || errors.Is(err, ErrOwnerNotFound)
}

func NewReportError(baseErr error, code, ownerID, details string) *ReportError {
	return &ReportError{
		Err:     baseErr,
		Code:    code,
		OwnerID: ownerID,
		Details: details,
	}
}
