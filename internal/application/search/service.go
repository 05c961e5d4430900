package search

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"egdc-backend/internal/application/casestudies"
	"egdc-backend/internal/domain"
	"egdc-backend/internal/pkg/response"
)

// Service answers catalog search and facet queries over published case
// studies. Reads only; it keeps no state of its own.
type Service struct {
	DB *gorm.DB
}

// Search runs the catalog query in two phases. Phase one scans the joined
// filter graph for DISTINCT case study ids and produces the total. Phase
// two loads the page rows through the summary scope, constrained to the
// same id set via a subquery, so benefit and address fan-out can never
// inflate the count or duplicate a result row.
func (s *Service) Search(ctx context.Context, f Filters) ([]casestudies.Summary, int64, error) {
	page, limit := response.ClampPage(f.Page, f.Limit)

	counter := s.matchScope(ctx, f)
	var total int64
	if err := counter.db.Distinct("case_study.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	matched := s.matchScope(ctx, f)
	var rows []domain.CaseStudy
	err := casestudies.SummaryScope(s.DB.WithContext(ctx)).
		Where("case_study.id IN (?)", matched.db.Distinct("case_study.id")).
		Order(orderClause(f)).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	items := make([]casestudies.Summary, 0, len(rows))
	for i := range rows {
		items = append(items, casestudies.NewSummary(&rows[i]))
	}
	return items, total, nil
}

// matchScope builds one fresh filter graph over published case studies.
// Each phase gets its own builder; GORM sessions are not reusable across
// a Count and a subquery without leaking state between them.
func (s *Service) matchScope(ctx context.Context, f Filters) *queryBuilder {
	b := newBuilder(s.DB.WithContext(ctx))
	b.db = b.db.Where("case_study.status = ?", domain.StatusPublished)
	b.applyFilters(f)
	b.applyFreeText(f.Query, f.MatchType)
	return b
}

// orderClause honors the requested sort key with the record id as a
// same-direction tiebreak, so pages stay stable when titles or dates
// collide.
func orderClause(f Filters) string {
	dir := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		dir = "ASC"
	}
	if f.SortBy == SortByTitle {
		return fmt.Sprintf("LOWER(case_study.title) %s, case_study.title %s, case_study.id %s", dir, dir, dir)
	}
	return fmt.Sprintf("case_study.created_date %s, case_study.id %s", dir, dir)
}

// FacetItem is one code bucket and the number of published case studies
// carrying it.
type FacetItem struct {
	Code  string `json:"code"`
	Count int64  `json:"count"`
}

// Facets is the filter vocabulary with live counts, one list per search
// dimension.
type Facets struct {
	Sectors           []FacetItem `json:"sectors"`
	Technologies      []FacetItem `json:"technologies"`
	FundingTypes      []FacetItem `json:"funding_types"`
	CalculationTypes  []FacetItem `json:"calculation_types"`
	Countries         []FacetItem `json:"countries"`
	OrganizationTypes []FacetItem `json:"organization_types"`
	BenefitUnits      []FacetItem `json:"benefit_units"`
	BenefitTypes      []FacetItem `json:"benefit_types"`
}

// Facets counts the published catalog per filter code. Every bucket counts
// DISTINCT case study ids so a record with three benefits in the same unit
// still counts once, and codes left NULL or empty are omitted rather than
// surfacing a phantom bucket.
func (s *Service) Facets(ctx context.Context) (*Facets, error) {
	providerJoins := []string{
		"JOIN case_study_provider_link cspl ON cspl.case_study_id = case_study.id",
		"JOIN organization provider_org ON provider_org.id = cspl.organization_id",
	}
	benefitJoin := []string{"JOIN benefit ON benefit.case_study_id = case_study.id"}
	addressJoin := []string{"JOIN address ON address.case_study_id = case_study.id"}

	out := &Facets{}
	for _, dim := range []struct {
		dest  *[]FacetItem
		col   string
		joins []string
	}{
		{&out.Sectors, "provider_org.sector_code", providerJoins},
		{&out.Technologies, "case_study.tech_code", nil},
		{&out.FundingTypes, "case_study.funding_type_code", nil},
		{&out.CalculationTypes, "case_study.calc_type_code", nil},
		{&out.Countries, "address.admin_unit_l1", addressJoin},
		{&out.OrganizationTypes, "provider_org.org_type_code", providerJoins},
		{&out.BenefitUnits, "benefit.unit_code", benefitJoin},
		{&out.BenefitTypes, "benefit.type_code", benefitJoin},
	} {
		items, err := s.facet(ctx, dim.col, dim.joins)
		if err != nil {
			return nil, err
		}
		*dim.dest = items
	}
	return out, nil
}

func (s *Service) facet(ctx context.Context, col string, joins []string) ([]FacetItem, error) {
	items := []FacetItem{}
	q := s.DB.WithContext(ctx).Table("case_study").
		Select(col + " AS code, COUNT(DISTINCT case_study.id) AS count").
		Where("case_study.status = ?", domain.StatusPublished)
	for _, j := range joins {
		q = q.Joins(j)
	}
	err := q.Where(col + " IS NOT NULL AND " + col + " <> ''").
		Group(col).
		Order(col + " ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
