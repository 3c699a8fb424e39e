package services

import (
	"regexp"
	"testing"
	"time"

	"fieldops-http-service/internal/domain/models"
	"fieldops-http-service/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var serialPattern = regexp.MustCompile(`^WO-[0-9A-F]{8}$`)

func TestGenerateSerialFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		serial := utils.GenerateSerial()
		assert.Regexp(t, serialPattern, serial)
	}
}

func TestCreateWorkOrderDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := &WorkOrderService{DB: db, Config: testConfig(), serialFn: utils.GenerateSerial}

	facility := testFacility()
	order := &models.WorkOrder{MaintenanceType: "pump_replacement"}

	require.NoError(t, svc.CreateWorkOrder("tech1", facility, order))

	assert.Regexp(t, serialPattern, order.Serial)
	assert.Equal(t, "tech1", order.Technician)
	assert.Equal(t, models.WorkOrderStatusDraft, order.Status)
	assert.Equal(t, order.CreatedAt, order.LastSavedAt)
	assert.Equal(t, 30*time.Minute, order.EditableUntil.Sub(order.CreatedAt))
	assert.NotZero(t, facility.ID)
	assert.Equal(t, facility.ID, order.FacilityID)

	var count int64
	require.NoError(t, db.Model(&models.WorkOrder{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateWorkOrderRetriesOnSerialCollision(t *testing.T) {
	db := newTestDB(t)

	first := &WorkOrderService{DB: db, Config: testConfig(), serialFn: func() string { return "WO-AAAAAAAA" }}
	require.NoError(t, first.CreateWorkOrder("tech1", testFacility(), &models.WorkOrder{MaintenanceType: "pump_replacement"}))

	// First attempt collides, second succeeds with a fresh serial.
	serials := []string{"WO-AAAAAAAA", "WO-BBBBBBBB"}
	calls := 0
	second := &WorkOrderService{DB: db, Config: testConfig(), serialFn: func() string {
		s := serials[calls]
		calls++
		return s
	}}

	facility := testFacility()
	order := &models.WorkOrder{MaintenanceType: "pipe_repair"}
	require.NoError(t, second.CreateWorkOrder("tech2", facility, order))

	assert.Equal(t, "WO-BBBBBBBB", order.Serial)
	assert.Equal(t, 2, calls)

	// The rolled-back attempt must leave no partial rows behind.
	var facilityCount, orderCount int64
	require.NoError(t, db.Model(&models.Facility{}).Count(&facilityCount).Error)
	require.NoError(t, db.Model(&models.WorkOrder{}).Count(&orderCount).Error)
	assert.EqualValues(t, 2, facilityCount)
	assert.EqualValues(t, 2, orderCount)
}

func TestCreateWorkOrderGivesUpAfterRepeatedCollisions(t *testing.T) {
	db := newTestDB(t)

	first := &WorkOrderService{DB: db, Config: testConfig(), serialFn: func() string { return "WO-AAAAAAAA" }}
	require.NoError(t, first.CreateWorkOrder("tech1", testFacility(), &models.WorkOrder{MaintenanceType: "pump_replacement"}))

	stuck := &WorkOrderService{DB: db, Config: testConfig(), serialFn: func() string { return "WO-AAAAAAAA" }}
	err := stuck.CreateWorkOrder("tech2", testFacility(), &models.WorkOrder{MaintenanceType: "pipe_repair"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConstraintViolation)

	var orderCount int64
	require.NoError(t, db.Model(&models.WorkOrder{}).Count(&orderCount).Error)
	assert.EqualValues(t, 1, orderCount)
}

func TestIsEditable(t *testing.T) {
	deadline := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	order := &models.WorkOrder{EditableUntil: deadline}

	assert.True(t, IsEditable(order, deadline.Add(-time.Minute)))
	assert.True(t, IsEditable(order, deadline)) // inclusive deadline
	assert.False(t, IsEditable(order, deadline.Add(time.Second)))
}

func TestUpdateOwnWorkOrderRejectsNonOwner(t *testing.T) {
	db := newTestDB(t)
	svc := &WorkOrderService{DB: db, Config: testConfig(), serialFn: utils.GenerateSerial}

	order := &models.WorkOrder{MaintenanceType: "pump_replacement"}
	require.NoError(t, svc.CreateWorkOrder("tech1", testFacility(), order))

	newType := "pipe_repair"
	_, err := svc.UpdateOwnWorkOrder(order.ID, "tech2", SelfEdit{MaintenanceType: &newType})
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestUpdateOwnWorkOrderRejectsClosedWindow(t *testing.T) {
	db := newTestDB(t)
	svc := &WorkOrderService{DB: db, Config: testConfig(), serialFn: utils.GenerateSerial}

	order := &models.WorkOrder{MaintenanceType: "pump_replacement"}
	require.NoError(t, svc.CreateWorkOrder("tech1", testFacility(), order))

	// Push the deadline into the past.
	expired := time.Now().UTC().Add(-time.Minute)
	require.NoError(t, db.Model(&models.WorkOrder{}).Where("id = ?", order.ID).Update("editable_until", expired).Error)

	newType := "pipe_repair"
	_, err := svc.UpdateOwnWorkOrder(order.ID, "tech1", SelfEdit{MaintenanceType: &newType})
	assert.ErrorIs(t, err, ErrInvalidState)

	// The work order is unchanged.
	current, err := svc.GetWorkOrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, "pump_replacement", current.MaintenanceType)
}

func TestUpdateOwnWorkOrderAppliesChanges(t *testing.T) {
	db := newTestDB(t)
	svc := &WorkOrderService{DB: db, Config: testConfig(), serialFn: utils.GenerateSerial}

	order := &models.WorkOrder{MaintenanceType: "pump_replacement"}
	require.NoError(t, svc.CreateWorkOrder("tech1", testFacility(), order))

	newType := "pipe_repair"
	updated, err := svc.UpdateOwnWorkOrder(order.ID, "tech1", SelfEdit{
		MaintenanceType: &newType,
		AfterImage:      []byte{0x89, 0x50},
	})
	require.NoError(t, err)

	assert.Equal(t, "pipe_repair", updated.MaintenanceType)
	assert.Equal(t, []byte{0x89, 0x50}, updated.AfterImage)
	assert.False(t, updated.LastSavedAt.Before(order.LastSavedAt))
	// Untouched fields survive.
	assert.Equal(t, order.Serial, updated.Serial)
	assert.Equal(t, models.WorkOrderStatusDraft, updated.Status)
}

func TestListWorkOrdersScopedByRole(t *testing.T) {
	db := newTestDB(t)
	svc := &WorkOrderService{DB: db, Config: testConfig(), serialFn: utils.GenerateSerial}

	orders := make([]*models.WorkOrder, 0, 3)
	for _, technician := range []string{"tech1", "tech2", "tech1"} {
		order := &models.WorkOrder{MaintenanceType: "pump_replacement"}
		require.NoError(t, svc.CreateWorkOrder(technician, testFacility(), order))
		orders = append(orders, order)
	}

	// Spread creation times out so ordering is deterministic.
	base := time.Now().UTC().Add(-time.Hour)
	for i, order := range orders {
		require.NoError(t, db.Model(&models.WorkOrder{}).
			Where("id = ?", order.ID).
			Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	own, err := svc.ListWorkOrders(models.RoleTechnician, "tech1")
	require.NoError(t, err)
	require.Len(t, own, 2)
	for _, order := range own {
		assert.Equal(t, "tech1", order.Technician)
	}
	// Newest first.
	assert.Equal(t, orders[2].ID, own[0].ID)
	assert.Equal(t, orders[0].ID, own[1].ID)

	all, err := svc.ListWorkOrders(models.RoleAdmin, "admin1")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, orders[2].ID, all[0].ID)

	// Facility comes preloaded.
	require.NotNil(t, all[0].Facility)
	assert.Equal(t, "water_station", all[0].Facility.Type)
}

func TestGetWorkOrderByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := &WorkOrderService{DB: db, Config: testConfig(), serialFn: utils.GenerateSerial}

	_, err := svc.GetWorkOrderByID(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
