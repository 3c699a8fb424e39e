package services

import (
	"testing"

	"fieldops-http-service/internal/domain/models"
	"fieldops-http-service/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedReportData(t *testing.T, db *gorm.DB) {
	t.Helper()
	svc := &WorkOrderService{DB: db, Config: testConfig(), serialFn: utils.GenerateSerial}

	sites := []*models.Facility{
		{Type: "water_station", Description: "a", Governorate: "Aswan", District: "Kom Ombo", City: "Al Raghama", Lat: 24.4, Lon: 32.9},
		{Type: "water_station", Description: "b", Governorate: "Aswan", District: "Daraw", City: "Daraw City", Lat: 24.3, Lon: 32.9},
		{Type: "school", Description: "c", Governorate: "Luxor", District: "Esna", City: "Esna City", Lat: 25.3, Lon: 32.5},
	}
	for i, facility := range sites {
		order := &models.WorkOrder{MaintenanceType: "pump_replacement"}
		require.NoError(t, svc.CreateWorkOrder("tech1", facility, order))
		if i == 0 {
			require.NoError(t, db.Model(&models.WorkOrder{}).
				Where("id = ?", order.ID).
				Update("status", models.WorkOrderStatusLocked).Error)
		}
	}
}

func TestDashboardStats(t *testing.T) {
	db := newTestDB(t)
	seedReportData(t, db)

	editSvc := &EditRequestService{DB: db, Config: testConfig()}
	var firstOrder models.WorkOrder
	require.NoError(t, db.First(&firstOrder).Error)

	_, err := editSvc.Submit(firstOrder.ID, "status", models.WorkOrderStatusLocked, "", "tech1")
	require.NoError(t, err)
	reviewed, err := editSvc.Submit(firstOrder.ID, "maintenance_type", "pipe_repair", "", "tech1")
	require.NoError(t, err)
	_, err = editSvc.Reject(reviewed.ID, "admin1")
	require.NoError(t, err)

	svc := &ReportService{DB: db, Config: testConfig(), Cache: nil}
	stats, err := svc.GetDashboardStats()
	require.NoError(t, err)

	assert.EqualValues(t, 3, stats.TotalWorkOrders)
	assert.EqualValues(t, 2, stats.DraftWorkOrders)
	assert.EqualValues(t, 1, stats.LockedWorkOrders)
	assert.EqualValues(t, 1, stats.PendingEditRequests)
}

func TestLocationOptionsCascade(t *testing.T) {
	db := newTestDB(t)
	seedReportData(t, db)
	svc := &ReportService{DB: db, Config: testConfig()}

	// Unrestricted: every level lists all values behind the All sentinel.
	options, err := svc.GetLocationOptions("", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"All", "Aswan", "Luxor"}, options.Governorates)
	assert.Equal(t, []string{"All", "Daraw", "Esna", "Kom Ombo"}, options.Districts)
	assert.Len(t, options.Cities, 4)

	// Selecting a governorate narrows the levels below it.
	options, err = svc.GetLocationOptions("Aswan", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"All", "Aswan", "Luxor"}, options.Governorates)
	assert.Equal(t, []string{"All", "Daraw", "Kom Ombo"}, options.Districts)
	assert.Equal(t, []string{"All", "Al Raghama", "Daraw City"}, options.Cities)

	// Selecting a district narrows the city list further.
	options, err = svc.GetLocationOptions("Aswan", "Kom Ombo")
	require.NoError(t, err)
	assert.Equal(t, []string{"All", "Al Raghama"}, options.Cities)

	// The All sentinel leaves a level unrestricted.
	options, err = svc.GetLocationOptions("All", "All")
	require.NoError(t, err)
	assert.Equal(t, []string{"All", "Daraw", "Esna", "Kom Ombo"}, options.Districts)
}

func TestFilterWorkOrdersByLocation(t *testing.T) {
	db := newTestDB(t)
	seedReportData(t, db)
	svc := &ReportService{DB: db, Config: testConfig()}

	all, err := svc.FilterWorkOrders(LocationFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	all, err = svc.FilterWorkOrders(LocationFilter{Governorate: "All", District: "All", City: "All"})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	aswan, err := svc.FilterWorkOrders(LocationFilter{Governorate: "Aswan"})
	require.NoError(t, err)
	require.Len(t, aswan, 2)
	for _, order := range aswan {
		require.NotNil(t, order.Facility)
		assert.Equal(t, "Aswan", order.Facility.Governorate)
	}

	komOmbo, err := svc.FilterWorkOrders(LocationFilter{Governorate: "Aswan", District: "Kom Ombo"})
	require.NoError(t, err)
	require.Len(t, komOmbo, 1)
	assert.Equal(t, "Al Raghama", komOmbo[0].Facility.City)

	none, err := svc.FilterWorkOrders(LocationFilter{Governorate: "Cairo"})
	require.NoError(t, err)
	assert.Empty(t, none)
}
