package stats

import (
	"context"

	"gorm.io/gorm"

	"egdc-backend/internal/domain"
)

// CityStat counts published case studies located in one city.
type CityStat struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// CountryStat groups a country's city counts for the dashboard map.
type CountryStat struct {
	CountryCode  string     `json:"country_code"`
	CountryLabel string     `json:"country_label"`
	Cities       []CityStat `json:"cities"`
}

// BenefitStat is the summed benefit value for one type/unit pair.
type BenefitStat struct {
	TypeCode   string  `json:"type_code"`
	UnitCode   string  `json:"unit_code"`
	TotalValue float64 `json:"total_value"`
}

// Response is the dashboard payload: the per-country map and the KPI sums.
type Response struct {
	MapData []CountryStat `json:"map_data"`
	KPIData []BenefitStat `json:"kpi_data"`
}

// Service aggregates dashboard figures over the published catalog. The
// scope matches search: drafts, pending and declined records never count.
type Service struct {
	DB *gorm.DB
}

// Dashboard runs the map and KPI aggregations.
func (s *Service) Dashboard(ctx context.Context) (*Response, error) {
	mapData, err := s.mapData(ctx)
	if err != nil {
		return nil, err
	}
	kpiData, err := s.kpiData(ctx)
	if err != nil {
		return nil, err
	}
	return &Response{MapData: mapData, KPIData: kpiData}, nil
}

// mapData counts DISTINCT case studies per country and city, then folds the
// city rows under their country. A country whose addresses carry no city
// still appears, with an empty city list.
func (s *Service) mapData(ctx context.Context) ([]CountryStat, error) {
	var rows []struct {
		CountryCode    string
		CountryLabel   string
		CityName       *string
		CaseStudyCount int64
	}
	err := s.DB.WithContext(ctx).Table("address").
		Select("address.admin_unit_l1 AS country_code, country_ref.label AS country_label, address.post_name AS city_name, COUNT(DISTINCT case_study.id) AS case_study_count").
		Joins("JOIN case_study ON case_study.id = address.case_study_id").
		Joins("JOIN ref_country country_ref ON country_ref.code = address.admin_unit_l1").
		Where("case_study.status = ?", domain.StatusPublished).
		Group("address.admin_unit_l1, country_ref.label, address.post_name").
		Order("address.admin_unit_l1, address.post_name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	index := map[string]int{}
	out := []CountryStat{}
	for _, r := range rows {
		i, ok := index[r.CountryCode]
		if !ok {
			i = len(out)
			index[r.CountryCode] = i
			out = append(out, CountryStat{
				CountryCode:  r.CountryCode,
				CountryLabel: r.CountryLabel,
				Cities:       []CityStat{},
			})
		}
		if r.CityName != nil && *r.CityName != "" {
			out[i].Cities = append(out[i].Cities, CityStat{Name: *r.CityName, Count: r.CaseStudyCount})
		}
	}
	return out, nil
}

func (s *Service) kpiData(ctx context.Context) ([]BenefitStat, error) {
	out := []BenefitStat{}
	err := s.DB.WithContext(ctx).Table("benefit").
		Select("benefit.type_code, benefit.unit_code, SUM(benefit.value) AS total_value").
		Joins("JOIN case_study ON case_study.id = benefit.case_study_id").
		Where("case_study.status = ?", domain.StatusPublished).
		Group("benefit.type_code, benefit.unit_code").
		Order("benefit.type_code, benefit.unit_code").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
