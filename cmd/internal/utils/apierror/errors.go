package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"consultacnpj/cmd/internal/domain/cnpj"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

type APIError struct {
	Failed  bool                `json:"error"`
	Message string              `json:"message"`
	Details string              `json:"details,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Status  int                 `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

// WithDetails returns a copy carrying the given details. Shared error values
// are never mutated.
func (a *APIError) WithDetails(details string) *APIError {
	cp := *a
	cp.Details = details
	return &cp
}

var (
	InternalServerError = NewSimple(http.StatusInternalServerError, "Erro interno do servidor")
	NotFoundError       = NewSimple(http.StatusNotFound, "Recurso não encontrado")

	/*
	 * Used for CNPJ lookups
	 */
	MissingCNPJError         = NewSimple(http.StatusBadRequest, "Parâmetro CNPJ é obrigatório")
	InvalidCNPJError         = NewSimple(http.StatusBadRequest, "CNPJ inválido")
	CNPJLengthError          = NewSimple(http.StatusBadRequest, "CNPJ deve conter 14 dígitos")
	CNPJRepeatedDigitsError  = NewSimple(http.StatusBadRequest, "CNPJ inválido: todos os dígitos são iguais")
	CNPJCheckDigitError      = NewSimple(http.StatusBadRequest, "CNPJ inválido: dígitos verificadores não conferem")
	CompanyNotFoundError     = NewSimple(http.StatusNotFound, "Empresa não encontrada")
	TooManyRequestsError     = NewSimple(http.StatusTooManyRequests, "Muitas requisições. Aguarde um momento e tente novamente.")
	UpstreamRateLimitError   = NewSimple(http.StatusTooManyRequests, "Limite de consultas à base da Receita atingido. Tente novamente em instantes.")
	UpstreamTimeoutError     = NewSimple(http.StatusRequestTimeout, "Tempo limite excedido ao consultar a base da Receita")
	UpstreamUnavailableError = NewSimple(http.StatusServiceUnavailable, "Serviço de consulta temporariamente indisponível")
)

func FromValidationError(err error) *APIError {
	var ve validator.ValidationErrors
	ok := errors.As(err, &ve)
	if !ok {
		return nil
	}

	problems := map[string][]string{}
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())

		switch fe.Tag() {
		case "required":
			problems[field] = append(problems[field], "Campo obrigatório")
		case "cnpj":
			problems[field] = append(problems[field], "CNPJ inválido")
		case "numeric":
			problems[field] = append(problems[field], "Deve conter apenas números")
		case "min":
			problems[field] = append(problems[field], "Valor muito curto, mínimo: "+fe.Param())
		case "max":
			problems[field] = append(problems[field], "Valor muito longo, máximo: "+fe.Param())

		default:
			problems[field] = append(problems[field], "Valor inválido")
		}
	}

	fields := make([]string, 0, len(problems))
	for f := range problems {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	return &APIError{
		Failed:  true,
		Message: "Parâmetros inválidos: " + strings.Join(fields, ", "),
		Errors:  problems,
		Status:  http.StatusBadRequest,
	}
}

// FromCNPJError picks the response matching the reason a CNPJ was rejected.
func FromCNPJError(err error) *APIError {
	switch {
	case errors.Is(err, cnpj.ErrWrongLength):
		return CNPJLengthError
	case errors.Is(err, cnpj.ErrRepeatedDigits):
		return CNPJRepeatedDigitsError
	case errors.Is(err, cnpj.ErrInvalidCheckDigit):
		return CNPJCheckDigitError
	default:
		return InvalidCNPJError
	}
}

func NewSimple(status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Failed: true, Status: status, Message: msg}
}
