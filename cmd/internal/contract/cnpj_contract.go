package contract

import "consultacnpj/cmd/internal/domain/entity"

type LookupRequest struct {
	CNPJ string `validate:"required,len=14,digits,cnpj"`
}

type CompanyLookupResponse struct {
	Failed bool            `json:"error"`
	Data   *entity.Company `json:"data"`
	Cached bool            `json:"cached"`
}

type HealthResponse struct {
	Status       string `json:"status"`
	CacheEntries int    `json:"cache_entries"`
	Clients      int    `json:"rate_limited_clients"`
}
