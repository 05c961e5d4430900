package search

import (
	"regexp"
	"strings"

	"gorm.io/gorm"
)

// Match modes for the free-text query. Exact matches whole values and whole
// words; partial is a substring scan across every searchable column.
const (
	MatchExact   = "exact"
	MatchPartial = "partial"
)

// Sort keys accepted by the catalog search.
const (
	SortByCreatedDate = "created_date"
	SortByTitle       = "title"
)

// Filters collects everything the search query string can carry. Slice
// fields come from repeatable parameters and filter with IN semantics;
// zero values mean "not filtered".
type Filters struct {
	Query     string
	MatchType string

	Sectors          []string
	TechCodes        []string
	FundingTypeCodes []string
	CalcTypeCodes    []string
	Countries        []string
	OrgTypes         []string
	BenefitUnits     []string
	BenefitTypes     []string

	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// queryBuilder accumulates left joins and predicates for one phase of a
// search. Join helpers are idempotent so a facet filter and the free-text
// scan can require the same table without repeating it in the FROM clause.
// The join fan-out this produces is why callers must read DISTINCT ids.
type queryBuilder struct {
	db       *gorm.DB
	postgres bool
	joined   map[string]bool
}

func newBuilder(db *gorm.DB) *queryBuilder {
	return &queryBuilder{
		db:       db.Table("case_study"),
		postgres: db.Dialector.Name() == "postgres",
		joined:   map[string]bool{},
	}
}

func (b *queryBuilder) join(alias, clause string) {
	if b.joined[alias] {
		return
	}
	b.joined[alias] = true
	b.db = b.db.Joins(clause)
}

func (b *queryBuilder) joinProviderOrg() {
	b.join("cspl", "LEFT JOIN case_study_provider_link cspl ON cspl.case_study_id = case_study.id")
	b.join("provider_org", "LEFT JOIN organization provider_org ON provider_org.id = cspl.organization_id")
}

// joinSubSectors reaches the provider's secondary sectors. The sector filter
// accepts a case study when the code is the provider's main sector or any of
// its sub-sectors.
func (b *queryBuilder) joinSubSectors() {
	b.joinProviderOrg()
	b.join("osl", "LEFT JOIN organization_sector_link osl ON osl.organization_id = provider_org.id")
}

func (b *queryBuilder) joinAddress() {
	b.join("address", "LEFT JOIN address ON address.case_study_id = case_study.id")
}

func (b *queryBuilder) joinBenefit() {
	b.join("benefit", "LEFT JOIN benefit ON benefit.case_study_id = case_study.id")
}

func (b *queryBuilder) joinContactPoint() {
	b.joinProviderOrg()
	b.join("contact_point", "LEFT JOIN contact_point ON contact_point.organization_id = provider_org.id")
}

func (b *queryBuilder) joinProviderSector() {
	b.joinProviderOrg()
	b.join("provider_sector", "LEFT JOIN ref_sector provider_sector ON provider_sector.code = provider_org.sector_code")
}

func (b *queryBuilder) joinOrgTypeRef() {
	b.joinProviderOrg()
	b.join("org_type_ref", "LEFT JOIN ref_organization_type org_type_ref ON org_type_ref.code = provider_org.org_type_code")
}

func (b *queryBuilder) joinBenefitRefs() {
	b.joinBenefit()
	b.join("bu", "LEFT JOIN ref_benefit_unit bu ON bu.code = benefit.unit_code")
	b.join("bt", "LEFT JOIN ref_benefit_type bt ON bt.code = benefit.type_code")
}

func (b *queryBuilder) joinCaseRefs() {
	b.join("ft", "LEFT JOIN ref_funding_type ft ON ft.code = case_study.funding_type_code")
	b.join("tech_ref", "LEFT JOIN ref_technology tech_ref ON tech_ref.code = case_study.tech_code")
	b.join("calc_ref", "LEFT JOIN ref_calculation_type calc_ref ON calc_ref.code = case_study.calc_type_code")
}

func (b *queryBuilder) joinCountryRef() {
	b.joinAddress()
	b.join("country_ref", "LEFT JOIN ref_country country_ref ON country_ref.code = address.admin_unit_l1")
}

// applyFilters adds one AND-ed predicate per populated filter dimension,
// pulling in only the joins those dimensions need.
func (b *queryBuilder) applyFilters(f Filters) {
	if len(f.Sectors) > 0 {
		b.joinSubSectors()
		b.db = b.db.Where("(provider_org.sector_code IN ? OR osl.sector_code IN ?)", f.Sectors, f.Sectors)
	}
	if len(f.TechCodes) > 0 {
		b.db = b.db.Where("case_study.tech_code IN ?", f.TechCodes)
	}
	if len(f.FundingTypeCodes) > 0 {
		b.db = b.db.Where("case_study.funding_type_code IN ?", f.FundingTypeCodes)
	}
	if len(f.CalcTypeCodes) > 0 {
		b.db = b.db.Where("case_study.calc_type_code IN ?", f.CalcTypeCodes)
	}
	if len(f.Countries) > 0 {
		b.joinAddress()
		b.db = b.db.Where("address.admin_unit_l1 IN ?", f.Countries)
	}
	if len(f.OrgTypes) > 0 {
		b.joinProviderOrg()
		b.db = b.db.Where("provider_org.org_type_code IN ?", f.OrgTypes)
	}
	if len(f.BenefitUnits) > 0 {
		b.joinBenefit()
		b.db = b.db.Where("benefit.unit_code IN ?", f.BenefitUnits)
	}
	if len(f.BenefitTypes) > 0 {
		b.joinBenefit()
		b.db = b.db.Where("benefit.type_code IN ?", f.BenefitTypes)
	}
}

// applyFreeText ORs one predicate per searchable column. Exact mode matches
// identity fields by equality and description fields on word boundaries;
// partial mode substring-scans the whole joined graph and, on Postgres,
// adds pg_trgm similarity legs so near-misses on names still rank in.
func (b *queryBuilder) applyFreeText(q, matchType string) {
	if q == "" {
		return
	}

	b.joinContactPoint()
	b.joinProviderSector()
	b.joinAddress()

	var legs []string
	var args []interface{}
	add := func(sql string, a ...interface{}) {
		legs = append(legs, sql)
		args = append(args, a...)
	}

	if matchType == MatchPartial {
		b.joinBenefitRefs()
		b.joinOrgTypeRef()
		b.joinCaseRefs()

		for _, col := range []string{
			"case_study.title",
			"case_study.short_description",
			"case_study.long_description",
			"case_study.problem_solved",
			"CAST(case_study.created_date AS TEXT)",
			"benefit.name",
			"bt.label",
			"bu.label",
			"provider_org.name",
			"contact_point.has_email",
			"provider_sector.label",
			"org_type_ref.label",
			"ft.label",
			"address.admin_unit_l1",
			"address.post_name",
			"tech_ref.label",
			"calc_ref.label",
		} {
			add(b.containsLeg(col, q))
		}
		if b.postgres {
			b.joinCountryRef()
			for _, col := range []string{
				"case_study.title",
				"provider_org.name",
				"provider_sector.label",
				"address.post_name",
				"country_ref.label",
			} {
				add("similarity("+col+", ?) > 0.3", q)
			}
		}
	} else {
		add("case_study.title = ?", q)
		for _, col := range []string{
			"case_study.short_description",
			"case_study.long_description",
			"case_study.problem_solved",
		} {
			add(b.wordLeg(col, q))
		}
		for _, col := range []string{
			"provider_org.name",
			"contact_point.has_email",
			"provider_sector.label",
			"address.admin_unit_l1",
			"address.post_name",
		} {
			add(col+" = ?", q)
		}
	}

	b.db = b.db.Where("("+strings.Join(legs, " OR ")+")", args...)
}

// containsLeg is a case-insensitive substring predicate. Postgres gets
// native ILIKE; other dialects lower both sides.
func (b *queryBuilder) containsLeg(col, q string) (string, interface{}) {
	if b.postgres {
		return col + " ILIKE ?", "%" + q + "%"
	}
	return "LOWER(COALESCE(" + col + ", '')) LIKE ?", "%" + strings.ToLower(q) + "%"
}

// wordLeg matches q as a whole word inside col. Postgres uses \y word
// boundaries; other dialects approximate them by padding both the column
// and the needle with spaces, which misses punctuation-adjacent words.
func (b *queryBuilder) wordLeg(col, q string) (string, interface{}) {
	if b.postgres {
		return col + " ~* ?", `\y` + regexp.QuoteMeta(q) + `\y`
	}
	return "(' ' || LOWER(COALESCE(" + col + ", '')) || ' ') LIKE ?", "% " + strings.ToLower(q) + " %"
}
