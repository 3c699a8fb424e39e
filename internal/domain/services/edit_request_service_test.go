package services

import (
	"sync"
	"testing"
	"time"

	"fieldops-http-service/internal/domain/models"
	"fieldops-http-service/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedWorkOrder(t *testing.T, db *gorm.DB, technician string) *models.WorkOrder {
	t.Helper()
	svc := &WorkOrderService{DB: db, Config: testConfig(), serialFn: utils.GenerateSerial}
	order := &models.WorkOrder{MaintenanceType: "pump_replacement"}
	require.NoError(t, svc.CreateWorkOrder(technician, testFacility(), order))
	return order
}

func TestSubmitCreatesPendingRequest(t *testing.T) {
	db := newTestDB(t)
	order := seedWorkOrder(t, db, "tech1")
	svc := &EditRequestService{DB: db, Config: testConfig()}

	request, err := svc.Submit(order.ID, "status", models.WorkOrderStatusLocked, "work verified", "tech1")
	require.NoError(t, err)

	assert.Equal(t, models.EditRequestStatusPending, request.Status)
	assert.Equal(t, order.ID, request.WorkOrderID)
	assert.Equal(t, "tech1", request.RequestedBy)
	assert.Nil(t, request.ReviewedBy)
	assert.Nil(t, request.ReviewedAt)
}

func TestSubmitUnknownWorkOrder(t *testing.T) {
	db := newTestDB(t)
	svc := &EditRequestService{DB: db, Config: testConfig()}

	_, err := svc.Submit(9999, "status", models.WorkOrderStatusLocked, "", "tech1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitAgainstForeignWorkOrder(t *testing.T) {
	db := newTestDB(t)
	order := seedWorkOrder(t, db, "tech1")
	svc := &EditRequestService{DB: db, Config: testConfig()}

	// Ownership is not checked at submission; arbitration happens at review.
	request, err := svc.Submit(order.ID, "maintenance_type", "pipe_repair", "", "tech2")
	require.NoError(t, err)
	assert.Equal(t, "tech2", request.RequestedBy)
	assert.Equal(t, models.EditRequestStatusPending, request.Status)
}

func TestApproveAppliesStatusChange(t *testing.T) {
	db := newTestDB(t)
	order := seedWorkOrder(t, db, "tech1")
	svc := &EditRequestService{DB: db, Config: testConfig()}

	request, err := svc.Submit(order.ID, "status", models.WorkOrderStatusLocked, "work verified", "tech1")
	require.NoError(t, err)

	reviewed, err := svc.Approve(request.ID, "admin1")
	require.NoError(t, err)

	assert.Equal(t, models.EditRequestStatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, "admin1", *reviewed.ReviewedBy)
	require.NotNil(t, reviewed.ReviewedAt)
	assert.WithinDuration(t, time.Now().UTC(), *reviewed.ReviewedAt, 5*time.Second)

	var current models.WorkOrder
	require.NoError(t, db.First(&current, order.ID).Error)
	assert.Equal(t, models.WorkOrderStatusLocked, current.Status)
}

func TestApproveAppliesMaintenanceTypeChange(t *testing.T) {
	db := newTestDB(t)
	order := seedWorkOrder(t, db, "tech1")
	svc := &EditRequestService{DB: db, Config: testConfig()}

	request, err := svc.Submit(order.ID, "maintenance_type", "pipe_repair", "", "tech1")
	require.NoError(t, err)

	_, err = svc.Approve(request.ID, "admin1")
	require.NoError(t, err)

	var current models.WorkOrder
	require.NoError(t, db.First(&current, order.ID).Error)
	assert.Equal(t, "pipe_repair", current.MaintenanceType)
}

func TestApproveNonAllowListedFieldLeavesWorkOrderUntouched(t *testing.T) {
	db := newTestDB(t)
	order := seedWorkOrder(t, db, "tech1")
	svc := &EditRequestService{DB: db, Config: testConfig()}

	request, err := svc.Submit(order.ID, "technician", "mallory", "takeover attempt", "tech1")
	require.NoError(t, err)

	reviewed, err := svc.Approve(request.ID, "admin1")
	require.NoError(t, err)

	// The decision is recorded but the work order is not changed.
	assert.Equal(t, models.EditRequestStatusApproved, reviewed.Status)

	var current models.WorkOrder
	require.NoError(t, db.First(&current, order.ID).Error)
	assert.Equal(t, "tech1", current.Technician)
	assert.Equal(t, models.WorkOrderStatusDraft, current.Status)
	assert.Equal(t, "pump_replacement", current.MaintenanceType)
}

func TestRejectLeavesWorkOrderUntouched(t *testing.T) {
	db := newTestDB(t)
	order := seedWorkOrder(t, db, "tech1")
	svc := &EditRequestService{DB: db, Config: testConfig()}

	request, err := svc.Submit(order.ID, "status", models.WorkOrderStatusLocked, "", "tech1")
	require.NoError(t, err)

	reviewed, err := svc.Reject(request.ID, "admin1")
	require.NoError(t, err)

	assert.Equal(t, models.EditRequestStatusRejected, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, "admin1", *reviewed.ReviewedBy)

	var current models.WorkOrder
	require.NoError(t, db.First(&current, order.ID).Error)
	assert.Equal(t, models.WorkOrderStatusDraft, current.Status)
}

func TestReviewIsTerminal(t *testing.T) {
	db := newTestDB(t)
	order := seedWorkOrder(t, db, "tech1")
	svc := &EditRequestService{DB: db, Config: testConfig()}

	request, err := svc.Submit(order.ID, "status", models.WorkOrderStatusLocked, "", "tech1")
	require.NoError(t, err)

	_, err = svc.Approve(request.ID, "admin1")
	require.NoError(t, err)

	// A second decision of either kind fails without touching anything.
	_, err = svc.Reject(request.ID, "admin2")
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = svc.Approve(request.ID, "admin2")
	assert.ErrorIs(t, err, ErrInvalidState)

	var current models.EditRequest
	require.NoError(t, db.First(&current, request.ID).Error)
	assert.Equal(t, models.EditRequestStatusApproved, current.Status)
	require.NotNil(t, current.ReviewedBy)
	assert.Equal(t, "admin1", *current.ReviewedBy)
}

func TestReviewUnknownRequest(t *testing.T) {
	db := newTestDB(t)
	svc := &EditRequestService{DB: db, Config: testConfig()}

	_, err := svc.Approve(9999, "admin1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentReviewersExactlyOneWins(t *testing.T) {
	db := newTestDB(t)
	order := seedWorkOrder(t, db, "tech1")
	svc := &EditRequestService{DB: db, Config: testConfig()}

	request, err := svc.Submit(order.ID, "status", models.WorkOrderStatusLocked, "", "tech1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = svc.Approve(request.ID, "admin1")
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = svc.Reject(request.ID, "admin2")
	}()
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, ErrInvalidState)
		}
	}
	assert.Equal(t, 1, winners)

	// The stored outcome matches whichever reviewer won.
	var current models.EditRequest
	require.NoError(t, db.First(&current, request.ID).Error)
	require.NotNil(t, current.ReviewedBy)
	if errs[0] == nil {
		assert.Equal(t, models.EditRequestStatusApproved, current.Status)
		assert.Equal(t, "admin1", *current.ReviewedBy)
	} else {
		assert.Equal(t, models.EditRequestStatusRejected, current.Status)
		assert.Equal(t, "admin2", *current.ReviewedBy)
	}
}

func TestListEditRequestsJoinsParentWorkOrder(t *testing.T) {
	db := newTestDB(t)
	order := seedWorkOrder(t, db, "tech1")
	svc := &EditRequestService{DB: db, Config: testConfig()}

	first, err := svc.Submit(order.ID, "status", models.WorkOrderStatusLocked, "", "tech1")
	require.NoError(t, err)
	second, err := svc.Submit(order.ID, "maintenance_type", "pipe_repair", "", "tech1")
	require.NoError(t, err)

	// Spread creation times out so ordering is deterministic.
	base := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, db.Model(&models.EditRequest{}).Where("id = ?", first.ID).Update("created_at", base).Error)
	require.NoError(t, db.Model(&models.EditRequest{}).Where("id = ?", second.ID).Update("created_at", base.Add(time.Minute)).Error)

	_, err = svc.Approve(first.ID, "admin1")
	require.NoError(t, err)

	all, err := svc.ListEditRequests("")
	require.NoError(t, err)
	require.Len(t, all, 2)

	// Newest first, joined with the parent work order.
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, order.Serial, all[0].Serial)
	assert.Equal(t, "tech1", all[0].Technician)
	assert.Equal(t, models.WorkOrderStatusLocked, all[0].WorkOrderStatus)

	pending, err := svc.ListEditRequests(models.EditRequestStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
}
