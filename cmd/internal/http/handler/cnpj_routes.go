package handler

import (
	"context"
	"net/http"
	"strings"

	"consultacnpj/cmd/internal/contract"
	"consultacnpj/cmd/internal/domain/cnpj"
	"consultacnpj/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type CompanyService interface {
	GetCompanyByCNPJ(ctx context.Context, req *contract.LookupRequest) (*contract.CompanyLookupResponse, apierror.ErrorResponse)
}

type DefaultCNPJRoute struct {
	CompanyService CompanyService
}

func NewCNPJRoute(companyService CompanyService) *DefaultCNPJRoute {
	return &DefaultCNPJRoute{CompanyService: companyService}
}

// GetCompany serves both /api/cnpj?cnpj= and /api/cnpj/:cnpj.
func (r *DefaultCNPJRoute) GetCompany(c echo.Context) error {
	raw := c.QueryParam("cnpj")
	if raw == "" {
		raw = c.Param("cnpj")
	}

	if strings.TrimSpace(raw) == "" {
		apierr := apierror.MissingCNPJError
		return c.JSON(apierr.Code(), apierr)
	}

	cleaned, err := cnpj.Validate(cnpj.Sanitize(raw))
	if err != nil {
		apierr := apierror.FromCNPJError(err)
		return c.JSON(apierr.Code(), apierr)
	}

	company, apierr := r.CompanyService.GetCompanyByCNPJ(c.Request().Context(), &contract.LookupRequest{CNPJ: cleaned})
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, company)
}

// Preflight answers CORS preflight requests. The headers themselves are set
// by the CORS middleware.
func (r *DefaultCNPJRoute) Preflight(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}
