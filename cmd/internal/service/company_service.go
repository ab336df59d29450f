package service

import (
	"context"
	"errors"
	"time"

	"consultacnpj/cmd/internal/cache"
	"consultacnpj/cmd/internal/contract"
	"consultacnpj/cmd/internal/domain/entity"
	"consultacnpj/cmd/internal/infrastructure/cnpjws"
	"consultacnpj/cmd/internal/metrics"
	"consultacnpj/cmd/internal/utils"
	"consultacnpj/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/singleflight"
)

type CompanyFetcher interface {
	GetByCNPJ(ctx context.Context, cnpj string) (*entity.Company, error)
}

type CompanyServiceConfig struct {
	// CacheNegative stores registry 404s so repeated misses skip the upstream.
	CacheNegative bool

	// Coalesce merges concurrent cache misses for the same CNPJ into one fetch.
	Coalesce bool

	// DevMode adds the underlying error to failed lookup responses.
	DevMode bool
}

type CompanyService struct {
	Fetcher  CompanyFetcher
	Cache    cache.Store
	Validate *validator.Validate
	config   CompanyServiceConfig
	group    *singleflight.Group
}

func NewCompanyService(fetcher CompanyFetcher, store cache.Store, validate *validator.Validate, cfg CompanyServiceConfig) *CompanyService {
	s := &CompanyService{
		Fetcher:  fetcher,
		Cache:    store,
		Validate: validate,
		config:   cfg,
	}
	if cfg.Coalesce {
		s.group = &singleflight.Group{}
	}
	return s
}

// GetCompanyByCNPJ resolves a cleaned 14-digit CNPJ, serving from the cache
// when possible.
func (s *CompanyService) GetCompanyByCNPJ(ctx context.Context, req *contract.LookupRequest) (*contract.CompanyLookupResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		if apierr := apierror.FromValidationError(err); apierr != nil {
			return nil, apierr
		}
		log.Errorf("failed to validate lookup request: %v", err)
		return nil, apierror.InternalServerError
	}

	company, fromCache, apierr := s.findCompany(ctx, req.CNPJ)
	if apierr != nil {
		return nil, apierr
	}
	return &contract.CompanyLookupResponse{Data: company, Cached: fromCache}, nil
}

// findCompany returns the company, whether it came from the cache and a
// possible error response.
func (s *CompanyService) findCompany(ctx context.Context, cnpj string) (*entity.Company, bool, apierror.ErrorResponse) {
	cached, err := s.Cache.Get(cnpj)
	if err != nil {
		log.Errorf("failed to read company cache for cnpj %s: %v", cnpj, err)
		return nil, false, apierror.InternalServerError
	}

	if cached != nil {
		if cached.Found {
			metrics.CacheLookups.WithLabelValues(metrics.CacheHit).Inc()
			return cached.Company, true, nil
		}
		metrics.CacheLookups.WithLabelValues(metrics.CacheNegativeHit).Inc()
		return nil, false, apierror.CompanyNotFoundError
	}
	metrics.CacheLookups.WithLabelValues(metrics.CacheMiss).Inc()

	company, err := s.fetch(ctx, cnpj)
	if err != nil {
		if errors.Is(err, cnpjws.ErrNotFound) && s.config.CacheNegative {
			s.store(cnpj, &cache.Entry{Found: false})
		}
		return nil, false, s.lookupError(cnpj, err)
	}

	s.store(cnpj, &cache.Entry{Company: company, Found: true})
	return company, false, nil
}

func (s *CompanyService) fetch(ctx context.Context, cnpj string) (*entity.Company, error) {
	if s.group == nil {
		return s.fetchFromAPI(ctx, cnpj)
	}

	// The shared fetch must not die with whichever caller started it
	v, err, shared := s.group.Do(cnpj, func() (any, error) {
		return s.fetchFromAPI(context.WithoutCancel(ctx), cnpj)
	})
	if shared {
		log.Debugf("coalesced lookup for cnpj %s", cnpj)
	}
	if err != nil {
		return nil, err
	}
	return v.(*entity.Company), nil
}

func (s *CompanyService) fetchFromAPI(ctx context.Context, cnpj string) (*entity.Company, error) {
	start := time.Now()
	company, err := s.Fetcher.GetByCNPJ(ctx, cnpj)
	metrics.UpstreamDuration.Observe(time.Since(start).Seconds())
	metrics.UpstreamRequests.WithLabelValues(upstreamOutcome(err)).Inc()
	return company, err
}

// store never fails the request, since the company is already at hand and
// only the cache is affected.
func (s *CompanyService) store(cnpj string, entry *cache.Entry) {
	if err := s.Cache.Set(cnpj, entry); err != nil {
		log.Errorf("failed to save company cache for cnpj %s: %v", cnpj, err)
	}
}

func (s *CompanyService) lookupError(cnpj string, err error) apierror.ErrorResponse {
	var apierr *apierror.APIError
	switch {
	case errors.Is(err, cnpjws.ErrNotFound):
		return apierror.CompanyNotFoundError
	case errors.Is(err, cnpjws.ErrTimeout):
		apierr = apierror.UpstreamTimeoutError
	case errors.Is(err, cnpjws.ErrRateLimited):
		apierr = apierror.UpstreamRateLimitError
	case errors.Is(err, cnpjws.ErrUnavailable):
		apierr = apierror.UpstreamUnavailableError
	default:
		apierr = apierror.InternalServerError
	}

	log.Errorf("failed to fetch company by cnpj %s: %v", cnpj, err)
	if s.config.DevMode {
		return apierr.WithDetails(err.Error())
	}
	return apierr
}

func upstreamOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.UpstreamOK
	case errors.Is(err, cnpjws.ErrNotFound):
		return metrics.UpstreamNotFound
	case errors.Is(err, cnpjws.ErrTimeout):
		return metrics.UpstreamTimeout
	case errors.Is(err, cnpjws.ErrRateLimited):
		return metrics.UpstreamRateLimited
	case errors.Is(err, cnpjws.ErrUnavailable):
		return metrics.UpstreamUnavailable
	default:
		return metrics.UpstreamError
	}
}
