package services

import (
	"time"

	"fieldops-http-service/internal/domain/models"
	"fieldops-http-service/internal/infrastructure/config"
	"fieldops-http-service/pkg/logger"

	"gorm.io/gorm"
)

// dashboardStatsTTL keeps the counters fresh enough for a review screen
// without hitting the database on every load.
const dashboardStatsTTL = 30 * time.Second

// filterAll is the sentinel option meaning "do not restrict on this level".
const filterAll = "All"

// InterfaceReportService defines the reporting interface
type InterfaceReportService interface {
	GetDashboardStats() (*DashboardStats, error)
	GetLocationOptions(governorate, district string) (*LocationOptions, error)
	FilterWorkOrders(filter LocationFilter) ([]models.WorkOrder, error)
}

// DashboardStats is the counter set shown on the admin dashboard.
type DashboardStats struct {
	TotalWorkOrders     int64 `json:"total_work_orders"`
	DraftWorkOrders     int64 `json:"draft_work_orders"`
	LockedWorkOrders    int64 `json:"locked_work_orders"`
	PendingEditRequests int64 `json:"pending_edit_requests"`
}

// LocationOptions holds the values available at each level of the
// governorate > district > city cascade, given the selections above it.
// Every list is prefixed with the "All" sentinel.
type LocationOptions struct {
	Governorates []string `json:"governorates"`
	Districts    []string `json:"districts"`
	Cities       []string `json:"cities"`
}

// LocationFilter narrows a work order listing by facility location. Empty
// or "All" on a level means no restriction at that level.
type LocationFilter struct {
	Governorate string
	District    string
	City        string
}

// ReportService aggregates work order data for dashboards and filtered
// listings. The Redis cache is optional; a nil or unreachable cache just
// means every read recomputes.
type ReportService struct {
	DB     *gorm.DB
	Config *config.Config
	Cache  InterfaceRedisService
}

// NewReportService creates a new report service
func NewReportService(db *gorm.DB, cfg *config.Config, cache InterfaceRedisService) InterfaceReportService {
	return &ReportService{
		DB:     db,
		Config: cfg,
		Cache:  cache,
	}
}

// GetDashboardStats returns the dashboard counters, served from cache when
// a fresh copy exists.
func (s *ReportService) GetDashboardStats() (*DashboardStats, error) {
	if s.Cache != nil {
		if stats, err := s.Cache.GetDashboardStats(); err == nil {
			return stats, nil
		}
	}

	var stats DashboardStats
	if err := s.DB.Model(&models.WorkOrder{}).Count(&stats.TotalWorkOrders).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.WorkOrder{}).
		Where("status = ?", models.WorkOrderStatusDraft).
		Count(&stats.DraftWorkOrders).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.WorkOrder{}).
		Where("status = ?", models.WorkOrderStatusLocked).
		Count(&stats.LockedWorkOrders).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.EditRequest{}).
		Where("status = ?", models.EditRequestStatusPending).
		Count(&stats.PendingEditRequests).Error; err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.CacheDashboardStats(&stats, dashboardStatsTTL); err != nil {
			logger.Warning("failed to cache dashboard stats: %v", err)
		}
	}

	return &stats, nil
}

// GetLocationOptions returns the filter choices for each cascade level.
// Districts are scoped to the chosen governorate and cities to the chosen
// governorate and district; "All" above a level leaves it unscoped.
func (s *ReportService) GetLocationOptions(governorate, district string) (*LocationOptions, error) {
	options := &LocationOptions{
		Governorates: []string{filterAll},
		Districts:    []string{filterAll},
		Cities:       []string{filterAll},
	}

	var governorates []string
	if err := s.DB.Model(&models.Facility{}).
		Distinct("governorate").
		Where("governorate <> ''").
		Order("governorate").
		Pluck("governorate", &governorates).Error; err != nil {
		return nil, err
	}
	options.Governorates = append(options.Governorates, governorates...)

	districtQuery := s.DB.Model(&models.Facility{}).
		Distinct("district").
		Where("district <> ''").
		Order("district")
	if isRestriction(governorate) {
		districtQuery = districtQuery.Where("governorate = ?", governorate)
	}
	var districts []string
	if err := districtQuery.Pluck("district", &districts).Error; err != nil {
		return nil, err
	}
	options.Districts = append(options.Districts, districts...)

	cityQuery := s.DB.Model(&models.Facility{}).
		Distinct("city_or_village").
		Where("city_or_village <> ''").
		Order("city_or_village")
	if isRestriction(governorate) {
		cityQuery = cityQuery.Where("governorate = ?", governorate)
	}
	if isRestriction(district) {
		cityQuery = cityQuery.Where("district = ?", district)
	}
	var cities []string
	if err := cityQuery.Pluck("city_or_village", &cities).Error; err != nil {
		return nil, err
	}
	options.Cities = append(options.Cities, cities...)

	return options, nil
}

// FilterWorkOrders returns all work orders whose facility matches the
// location filter, facility attached, newest first.
func (s *ReportService) FilterWorkOrders(filter LocationFilter) ([]models.WorkOrder, error) {
	query := s.DB.Preload("Facility").
		Joins("JOIN facilities ON facilities.id = work_orders.facility_id").
		Order("work_orders.created_at DESC")

	if isRestriction(filter.Governorate) {
		query = query.Where("facilities.governorate = ?", filter.Governorate)
	}
	if isRestriction(filter.District) {
		query = query.Where("facilities.district = ?", filter.District)
	}
	if isRestriction(filter.City) {
		query = query.Where("facilities.city_or_village = ?", filter.City)
	}

	var orders []models.WorkOrder
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// isRestriction reports whether a filter value actually narrows the result.
func isRestriction(value string) bool {
	return value != "" && value != filterAll
}
