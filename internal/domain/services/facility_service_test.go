package services

import (
	"testing"

	"fieldops-http-service/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder struct {
	address *Address
	err     error
	calls   int
}

func (s *stubGeocoder) ReverseGeocode(lat, lon float64) (*Address, error) {
	s.calls++
	return s.address, s.err
}

type stubVision struct {
	labels string
	err    error
}

func (s *stubVision) LabelImage(image []byte) (string, error) {
	return s.labels, s.err
}

func TestCreateAndGetFacility(t *testing.T) {
	db := newTestDB(t)
	svc := &FacilityService{DB: db, Config: testConfig()}

	facility := testFacility()
	require.NoError(t, svc.CreateFacility(facility))
	require.NotZero(t, facility.ID)

	fetched, err := svc.GetFacilityByID(facility.ID)
	require.NoError(t, err)
	assert.Equal(t, "water_station", fetched.Type)
	assert.Equal(t, "Aswan", fetched.Governorate)

	_, err = svc.GetFacilityByID(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEnrichFacilityFillsBlankLocation(t *testing.T) {
	geocoder := &stubGeocoder{address: &Address{Governorate: "Aswan", District: "Kom Ombo", City: "Al Raghama"}}
	svc := &FacilityService{
		Config:   testConfig(),
		Geocoder: geocoder,
		Vision:   &stubVision{labels: "water tower(0.93)"},
	}

	facility := &models.Facility{
		Type:          "water_station",
		Lat:           24.476,
		Lon:           32.943,
		ExternalImage: []byte{0x89, 0x50},
	}
	svc.EnrichFacility(facility)

	assert.Equal(t, "Aswan", facility.Governorate)
	assert.Equal(t, "Kom Ombo", facility.District)
	assert.Equal(t, "Al Raghama", facility.City)
	assert.Equal(t, "water tower(0.93)", facility.VisionLabels)
}

func TestEnrichFacilityKeepsManualLocation(t *testing.T) {
	geocoder := &stubGeocoder{address: &Address{Governorate: "Luxor"}}
	svc := &FacilityService{Config: testConfig(), Geocoder: geocoder}

	facility := &models.Facility{Governorate: "Aswan", District: "Daraw"}
	svc.EnrichFacility(facility)

	// Already-filled locations are never overwritten.
	assert.Equal(t, "Aswan", facility.Governorate)
	assert.Equal(t, "Daraw", facility.District)
	assert.Zero(t, geocoder.calls)
}

func TestEnrichFacilitySurvivesCollaboratorFailure(t *testing.T) {
	svc := &FacilityService{
		Config:   testConfig(),
		Geocoder: &stubGeocoder{err: ErrExternalService},
		Vision:   &stubVision{err: ErrExternalService},
	}

	facility := &models.Facility{Lat: 24.476, Lon: 32.943, ExternalImage: []byte{0x01}}
	svc.EnrichFacility(facility)

	// Failures leave the fields blank; the facility remains persistable.
	assert.Empty(t, facility.Governorate)
	assert.Empty(t, facility.VisionLabels)
}
