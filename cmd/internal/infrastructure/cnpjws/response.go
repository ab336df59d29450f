package cnpjws

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// companyResponse mirrors the publica.cnpj.ws document. Only the fields we map
// are declared; everything is optional on the wire.
type companyResponse struct {
	RootCNPJ              flexString                 `json:"cnpj_raiz"`
	LegalName             flexString                 `json:"razao_social"`
	ShareCapital          flexString                 `json:"capital_social"`
	FederativeResponsible flexString                 `json:"responsavel_federativo"`
	UpdatedAt             flexString                 `json:"atualizado_em"`
	Size                  *labelResponse             `json:"porte"`
	LegalNature           *labelResponse             `json:"natureza_juridica"`
	Partners              flexList[*partnerResponse] `json:"socios"`
	Simples               *simplesResponse           `json:"simples"`
	Establishment         *establishmentResponse     `json:"estabelecimento"`
}

type labelResponse struct {
	ID          flexString `json:"id"`
	Description flexString `json:"descricao"`
}

type partnerResponse struct {
	TaxID     flexString     `json:"cpf_cnpj_socio"`
	Name      flexString     `json:"nome"`
	Type      flexString     `json:"tipo"`
	EntryDate flexString     `json:"data_entrada"`
	AgeRange  flexString     `json:"faixa_etaria"`
	Role      *labelResponse `json:"qualificacao_socio"`
}

type simplesResponse struct {
	Simples        flexString `json:"simples"`
	SimplesSince   flexString `json:"data_opcao_simples"`
	SimplesExclude flexString `json:"data_exclusao_simples"`
	MEI            flexString `json:"mei"`
	MEISince       flexString `json:"data_opcao_mei"`
	MEIExclude     flexString `json:"data_exclusao_mei"`
}

type activityResponse struct {
	ID          flexString `json:"id"`
	Subclass    flexString `json:"subclasse"`
	Description flexString `json:"descricao"`
}

type establishmentResponse struct {
	CNPJ                     flexString                      `json:"cnpj"`
	Type                     flexString                      `json:"tipo"`
	TradeName                flexString                      `json:"nome_fantasia"`
	RegistrationStatus       flexString                      `json:"situacao_cadastral"`
	RegistrationStatusDate   flexString                      `json:"data_situacao_cadastral"`
	RegistrationStatusReason *labelResponse                  `json:"motivo_situacao_cadastral"`
	SpecialStatus            flexString                      `json:"situacao_especial"`
	SpecialStatusDate        flexString                      `json:"data_situacao_especial"`
	BusinessStartDate        flexString                      `json:"data_inicio_atividade"`
	AddressType              flexString                      `json:"tipo_logradouro"`
	AddressStreetName        flexString                      `json:"logradouro"`
	AddressNumber            flexString                      `json:"numero"`
	AddressComplement        flexString                      `json:"complemento"`
	AddressNeighborhood      flexString                      `json:"bairro"`
	AddressZipCode           flexString                      `json:"cep"`
	AreaCode1                flexString                      `json:"ddd1"`
	Phone1                   flexString                      `json:"telefone1"`
	AreaCode2                flexString                      `json:"ddd2"`
	Phone2                   flexString                      `json:"telefone2"`
	FaxAreaCode              flexString                      `json:"ddd_fax"`
	Fax                      flexString                      `json:"fax"`
	Email                    flexString                      `json:"email"`
	MainActivity             *activityResponse               `json:"atividade_principal"`
	SideActivities           flexList[*activityResponse]     `json:"atividades_secundarias"`
	Country                  *countryResponse                `json:"pais"`
	State                    *stateResponse                  `json:"estado"`
	City                     *cityResponse                   `json:"cidade"`
	StateRegistrations       flexList[*registrationResponse] `json:"inscricoes_estaduais"`
}

type countryResponse struct {
	Name flexString `json:"nome"`
}

type stateResponse struct {
	Acronym flexString `json:"sigla"`
}

type cityResponse struct {
	Name   flexString `json:"nome"`
	IBGEID flexString `json:"ibge_id"`
}

type registrationResponse struct {
	Number    flexString     `json:"inscricao_estadual"`
	Active    flexBool       `json:"ativo"`
	UpdatedAt flexString     `json:"atualizado_em"`
	State     *stateResponse `json:"estado"`
}

// flexList decodes JSON arrays and leaves anything else empty.
type flexList[T any] []T

func (l *flexList[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '[' {
		*l = nil
		return nil
	}

	var items []T
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// flexBool accepts booleans and their string forms. Anything else is false.
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	v, err := strconv.ParseBool(s.String())
	*f = flexBool(err == nil && v)
	return nil
}

// decodeObject fills v only when b holds a JSON object, so a nested record
// that arrives as a string or an array is left empty.
func decodeObject(b []byte, v any) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	return json.Unmarshal(b, v)
}

// UnmarshalJSON also takes a bare string as the description.
func (l *labelResponse) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		*l = labelResponse{}
		return l.Description.UnmarshalJSON(b)
	}

	type plain labelResponse
	return decodeObject(b, (*plain)(l))
}

func (r *partnerResponse) UnmarshalJSON(b []byte) error {
	type plain partnerResponse
	return decodeObject(b, (*plain)(r))
}

func (r *simplesResponse) UnmarshalJSON(b []byte) error {
	type plain simplesResponse
	return decodeObject(b, (*plain)(r))
}

func (r *activityResponse) UnmarshalJSON(b []byte) error {
	type plain activityResponse
	return decodeObject(b, (*plain)(r))
}

func (r *establishmentResponse) UnmarshalJSON(b []byte) error {
	type plain establishmentResponse
	return decodeObject(b, (*plain)(r))
}

func (r *countryResponse) UnmarshalJSON(b []byte) error {
	type plain countryResponse
	return decodeObject(b, (*plain)(r))
}

func (r *stateResponse) UnmarshalJSON(b []byte) error {
	type plain stateResponse
	return decodeObject(b, (*plain)(r))
}

func (r *cityResponse) UnmarshalJSON(b []byte) error {
	type plain cityResponse
	return decodeObject(b, (*plain)(r))
}

func (r *registrationResponse) UnmarshalJSON(b []byte) error {
	type plain registrationResponse
	return decodeObject(b, (*plain)(r))
}

// flexString decodes JSON strings, numbers and booleans into their textual form
// and null into the empty string. Registries are not consistent about field
// types, and a single odd field must not fail the whole document.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}

	if b[0] == '{' || b[0] == '[' {
		*f = ""
		return nil
	}

	*f = flexString(b)
	return nil
}

func (f flexString) String() string {
	return string(f)
}

// Ptr returns nil for empty values.
func (f flexString) Ptr() *string {
	if f == "" {
		return nil
	}
	s := string(f)
	return &s
}

func (f flexString) Int() *int {
	n, err := strconv.Atoi(strings.TrimSpace(string(f)))
	if err != nil {
		return nil
	}
	return &n
}
