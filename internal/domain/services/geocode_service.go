package services

import (
	"fmt"
	"strings"
	"time"

	"fieldops-http-service/internal/infrastructure/config"

	"github.com/go-resty/resty/v2"
)

// InterfaceGeocodeService defines the reverse-geocoding client interface
type InterfaceGeocodeService interface {
	ReverseGeocode(lat, lon float64) (*Address, error)
}

// Address is the structured address returned by the geocoder
type Address struct {
	Governorate string `json:"governorate"`
	District    string `json:"district"`
	City        string `json:"city"`
}

// GeocodeService resolves coordinates against a Google-style geocoding API.
// Failures are non-fatal: callers leave location fields blank for manual
// entry.
type GeocodeService struct {
	Config *config.Config
	client *resty.Client
}

// geocodeAPIResponse mirrors the geocoding API payload
type geocodeAPIResponse struct {
	Results []struct {
		AddressComponents []struct {
			LongName string   `json:"long_name"`
			Types    []string `json:"types"`
		} `json:"address_components"`
	} `json:"results"`
	Status string `json:"status"`
}

// NewGeocodeService creates a new geocoding client
func NewGeocodeService(cfg *config.Config) InterfaceGeocodeService {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(1)

	return &GeocodeService{
		Config: cfg,
		client: client,
	}
}

// ReverseGeocode resolves (lat, lon) to a structured address. Returns
// ErrExternalService on transport or API failure and (nil, nil) when the
// API has no result for the coordinates.
func (s *GeocodeService) ReverseGeocode(lat, lon float64) (*Address, error) {
	if s.Config.GeocodeAPIKey == "" {
		return nil, nil
	}

	var apiResp geocodeAPIResponse
	resp, err := s.client.R().
		SetQueryParams(map[string]string{
			"latlng": fmt.Sprintf("%f,%f", lat, lon),
			"key":    s.Config.GeocodeAPIKey,
		}).
		SetResult(&apiResp).
		Get(s.Config.GeocodeAPIURL)
	if err != nil {
		return nil, fmt.Errorf("%w: geocode request: %v", ErrExternalService, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("%w: geocode API returned status %d", ErrExternalService, resp.StatusCode())
	}

	if len(apiResp.Results) == 0 {
		return nil, nil
	}

	address := &Address{}
	for _, component := range apiResp.Results[0].AddressComponents {
		for _, t := range component.Types {
			switch t {
			case "administrative_area_level_1":
				address.Governorate = strings.TrimPrefix(component.LongName, "محافظة ")
			case "administrative_area_level_2":
				address.District = component.LongName
			case "locality":
				address.City = component.LongName
			case "sublocality_level_1":
				if address.City == "" {
					address.City = component.LongName
				}
			}
		}
	}

	return address, nil
}
