package search

import (
	"github.com/gofiber/fiber/v2"

	searchsvc "egdc-backend/internal/application/search"
	"egdc-backend/internal/pkg/response"
)

// Handlers holds dependencies for the search endpoints.
type Handlers struct {
	Service *searchsvc.Service
}

// Search GET /api/v1/search — filtered, free-text, sorted page of published
// case studies. Filter params are repeatable (?sector=a&sector=b).
func (h *Handlers) Search(c *fiber.Ctx) error {
	f := searchsvc.Filters{
		Query:            c.Query("q"),
		MatchType:        c.Query("match_type", searchsvc.MatchExact),
		Sectors:          multiQuery(c, "sector"),
		TechCodes:        multiQuery(c, "tech_code"),
		FundingTypeCodes: multiQuery(c, "funding_type_code"),
		CalcTypeCodes:    multiQuery(c, "calc_type_code"),
		Countries:        multiQuery(c, "country"),
		OrgTypes:         multiQuery(c, "organization_types"),
		BenefitUnits:     multiQuery(c, "benefit_units"),
		BenefitTypes:     multiQuery(c, "benefit_types"),
		SortBy:           c.Query("sort_by", searchsvc.SortByCreatedDate),
		SortOrder:        c.Query("sort_order", "desc"),
		Page:             c.QueryInt("page", 1),
		Limit:            c.QueryInt("limit", 10),
	}

	items, total, err := h.Service.Search(c.Context(), f)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	page, limit := response.ClampPage(f.Page, f.Limit)
	return c.JSON(response.NewPage(total, page, limit, items))
}

// Facets GET /api/v1/search/facets — per-dimension counts over the published
// catalog.
func (h *Handlers) Facets(c *fiber.Ctx) error {
	facets, err := h.Service.Facets(c.Context())
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(facets)
}

// multiQuery collects every occurrence of a repeatable query param.
func multiQuery(c *fiber.Ctx, key string) []string {
	values := c.Context().QueryArgs().PeekMulti(key)
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s := string(v); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
