package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"fieldops-http-service/internal/domain/models"
	"fieldops-http-service/internal/infrastructure/config"
	"fieldops-http-service/pkg/logger"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// MQTT topics for lifecycle notifications.
const (
	TopicWorkOrderCreated   = "fieldops/work_orders/created"
	TopicEditRequestCreated = "fieldops/edit_requests/created"
	TopicEditRequestReview  = "fieldops/edit_requests/reviewed"
)

// InterfaceNotifyService defines the lifecycle notification interface
type InterfaceNotifyService interface {
	Connect() error
	Disconnect()
	PublishWorkOrderCreated(order *models.WorkOrder)
	PublishEditRequestCreated(request *models.EditRequest)
	PublishEditRequestReviewed(request *models.EditRequest)
}

// NotifyService publishes lifecycle events over MQTT so field dashboards
// can react without polling. Every publish is best effort: a broker outage
// is logged and the HTTP request carries on.
type NotifyService struct {
	Config *config.Config
	Client mqtt.Client

	connectedMutex sync.RWMutex
	connected      bool
}

// NewNotifyService creates a new notification service. With no broker URL
// configured it stays disconnected and every publish is a no-op.
func NewNotifyService(cfg *config.Config) InterfaceNotifyService {
	service := &NotifyService{
		Config: cfg,
	}

	if cfg.MQTTBrokerURL != "" {
		service.setupClient()
	}

	return service
}

// setupClient configures the MQTT client
func (s *NotifyService) setupClient() {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(s.Config.MQTTBrokerURL)
	// Unique client id so multiple instances of the service do not kick
	// each other off the broker.
	opts.SetClientID(fmt.Sprintf("%s-%s", s.Config.MQTTClientID, uuid.New().String()[:8]))
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(time.Second * 30)
	opts.SetKeepAlive(time.Second * 60)
	opts.SetPingTimeout(time.Second * 10)
	opts.SetCleanSession(true)

	if s.Config.MQTTUsername != "" {
		opts.SetUsername(s.Config.MQTTUsername)
		opts.SetPassword(s.Config.MQTTPassword)
	}

	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		logger.Warning("[MQTT] connection lost: %v", err)
		s.connectedMutex.Lock()
		s.connected = false
		s.connectedMutex.Unlock()
	})

	opts.SetOnConnectHandler(func(client mqtt.Client) {
		logger.Info("[MQTT] connected to %s", s.Config.MQTTBrokerURL)
		s.connectedMutex.Lock()
		s.connected = true
		s.connectedMutex.Unlock()
	})

	s.Client = mqtt.NewClient(opts)
}

// Connect dials the broker. Returns nil immediately when no broker is
// configured.
func (s *NotifyService) Connect() error {
	if s.Client == nil {
		return nil
	}

	token := s.Client.Connect()
	if token.WaitTimeout(5*time.Second) && token.Error() == nil {
		return nil
	}
	return fmt.Errorf("mqtt connect to %s: %w", s.Config.MQTTBrokerURL, token.Error())
}

// Disconnect closes the broker connection
func (s *NotifyService) Disconnect() {
	if s.Client != nil && s.Client.IsConnected() {
		s.Client.Disconnect(250)
	}
}

// PublishWorkOrderCreated announces a new work order
func (s *NotifyService) PublishWorkOrderCreated(order *models.WorkOrder) {
	s.publish(TopicWorkOrderCreated, map[string]interface{}{
		"serial":     order.Serial,
		"technician": order.Technician,
		"status":     order.Status,
		"created_at": order.CreatedAt,
	})
}

// PublishEditRequestCreated announces a new pending edit request
func (s *NotifyService) PublishEditRequestCreated(request *models.EditRequest) {
	s.publish(TopicEditRequestCreated, map[string]interface{}{
		"id":            request.ID,
		"work_order_id": request.WorkOrderID,
		"field_name":    request.FieldName,
		"requested_by":  request.RequestedBy,
	})
}

// PublishEditRequestReviewed announces a review decision
func (s *NotifyService) PublishEditRequestReviewed(request *models.EditRequest) {
	payload := map[string]interface{}{
		"id":            request.ID,
		"work_order_id": request.WorkOrderID,
		"field_name":    request.FieldName,
		"status":        request.Status,
	}
	if request.ReviewedBy != nil {
		payload["reviewed_by"] = *request.ReviewedBy
	}
	s.publish(TopicEditRequestReview, payload)
}

// publish sends one JSON message, best effort.
func (s *NotifyService) publish(topic string, payload interface{}) {
	if s.Client == nil {
		return
	}

	s.connectedMutex.RLock()
	connected := s.connected && s.Client.IsConnected()
	s.connectedMutex.RUnlock()
	if !connected {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("[MQTT] marshal payload for %s: %v", topic, err)
		return
	}

	token := s.Client.Publish(topic, byte(s.Config.MQTTQoS), false, data)
	if token.WaitTimeout(2*time.Second) && token.Error() != nil {
		logger.Warning("[MQTT] publish to %s failed: %v", topic, token.Error())
	}
}
