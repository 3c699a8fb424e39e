package services

import (
	"errors"
	"fmt"

	"fieldops-http-service/internal/domain/models"
	"fieldops-http-service/internal/infrastructure/config"
	"fieldops-http-service/pkg/logger"

	"gorm.io/gorm"
)

// InterfaceFacilityService defines the facility service interface
type InterfaceFacilityService interface {
	CreateFacility(facility *models.Facility) error
	GetFacilityByID(id uint) (*models.Facility, error)
	EnrichFacility(facility *models.Facility)
}

// FacilityService provides facility persistence and enrichment. Facilities
// are append-only: created once, never updated or deleted.
type FacilityService struct {
	DB       *gorm.DB
	Config   *config.Config
	Geocoder InterfaceGeocodeService
	Vision   InterfaceVisionService
}

// NewFacilityService creates a new facility service
func NewFacilityService(db *gorm.DB, cfg *config.Config, geocoder InterfaceGeocodeService, vision InterfaceVisionService) InterfaceFacilityService {
	return &FacilityService{
		DB:       db,
		Config:   cfg,
		Geocoder: geocoder,
		Vision:   vision,
	}
}

// CreateFacility inserts a new facility row
func (s *FacilityService) CreateFacility(facility *models.Facility) error {
	if err := s.DB.Create(facility).Error; err != nil {
		return fmt.Errorf("create facility: %w", err)
	}
	return nil
}

// GetFacilityByID fetches a facility by id
func (s *FacilityService) GetFacilityByID(id uint) (*models.Facility, error) {
	var facility models.Facility
	if err := s.DB.First(&facility, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("facility %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &facility, nil
}

// EnrichFacility fills the location fields from the geocoder when they are
// blank and attaches vision labels to the external image. Collaborator
// failures are logged and leave the fields as they were; the facility is
// persisted either way.
func (s *FacilityService) EnrichFacility(facility *models.Facility) {
	if s.Geocoder != nil && facility.Governorate == "" {
		address, err := s.Geocoder.ReverseGeocode(facility.Lat, facility.Lon)
		if err != nil {
			logger.Warning("reverse geocode failed for (%f, %f): %v", facility.Lat, facility.Lon, err)
		} else if address != nil {
			facility.Governorate = address.Governorate
			facility.District = address.District
			if facility.City == "" {
				facility.City = address.City
			}
		}
	}

	if s.Vision != nil && facility.VisionLabels == "" && len(facility.ExternalImage) > 0 {
		labels, err := s.Vision.LabelImage(facility.ExternalImage)
		if err != nil {
			logger.Warning("vision labeling failed: %v", err)
			labels = ""
		}
		facility.VisionLabels = labels
	}
}
