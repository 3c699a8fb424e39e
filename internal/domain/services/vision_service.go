package services

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"fieldops-http-service/internal/infrastructure/config"

	"github.com/go-resty/resty/v2"
)

// InterfaceVisionService defines the label-tagging client interface
type InterfaceVisionService interface {
	LabelImage(image []byte) (string, error)
}

// VisionService attaches free-text labels to facility images via an
// external annotation API. Failures degrade to an empty label string.
type VisionService struct {
	Config *config.Config
	client *resty.Client
}

// visionAPIResponse mirrors the annotation API payload
type visionAPIResponse struct {
	Labels []struct {
		Description string  `json:"description"`
		Score       float64 `json:"score"`
	} `json:"labels"`
}

// NewVisionService creates a new label-tagging client
func NewVisionService(cfg *config.Config) InterfaceVisionService {
	client := resty.New().
		SetTimeout(15 * time.Second)

	return &VisionService{
		Config: cfg,
		client: client,
	}
}

// LabelImage returns a comma-joined label string for the image, capped at
// the ten best labels. Returns ErrExternalService on failure; callers store
// an empty string instead.
func (s *VisionService) LabelImage(image []byte) (string, error) {
	if s.Config.VisionAPIURL == "" || len(image) == 0 {
		return "", nil
	}

	var apiResp visionAPIResponse
	resp, err := s.client.R().
		SetHeader("Authorization", "Bearer "+s.Config.VisionAPIKey).
		SetBody(map[string]string{
			"content": base64.StdEncoding.EncodeToString(image),
		}).
		SetResult(&apiResp).
		Post(s.Config.VisionAPIURL)
	if err != nil {
		return "", fmt.Errorf("%w: vision request: %v", ErrExternalService, err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("%w: vision API returned status %d", ErrExternalService, resp.StatusCode())
	}

	labels := make([]string, 0, len(apiResp.Labels))
	for i, l := range apiResp.Labels {
		if i >= 10 {
			break
		}
		labels = append(labels, fmt.Sprintf("%s(%.2f)", l.Description, l.Score))
	}

	return strings.Join(labels, ", "), nil
}
