package usecase

// Taxonomia de erros da busca de leads:
//   - SEARCH_FAILED: falha de rede/API, sobe para o caller com a causa
//   - PROXY_BLOCKED: subtipo com mensagem de remediação própria
//   - SEARCH_EXHAUSTED: a retentativa ampliada também não trouxe nada novo
// Duplicado na base e falha de detalhe de um lugar NÃO são erros.

const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeSearchFailed    = "SEARCH_FAILED"
	CodeProxyBlocked    = "PROXY_BLOCKED"
	CodeSearchExhausted = "SEARCH_EXHAUSTED"
	CodeDuplicateLead   = "DUPLICATE_LEAD"
	CodeLeadNotFound    = "LEAD_NOT_FOUND"
	CodeDatabase        = "DATABASE_ERROR"
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

type TechnicalError struct {
	Code    string
	Message string
	Cause   error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Cause
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}

// ErrorCode devolve o código de domínio/técnico, ou vazio.
func ErrorCode(err error) string {
	if de, ok := err.(*DomainError); ok {
		return de.Code
	}
	if te, ok := err.(*TechnicalError); ok {
		return te.Code
	}
	return ""
}
