package salonservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// Client клиент для работы с SalonService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента SalonService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetSalon получает салон вместе с сотрудниками и услугами
func (c *Client) GetSalon(ctx context.Context, salonID int64) (*domain.Salon, error) {
	url := fmt.Sprintf("%s/internal/salons/%d", c.baseURL, salonID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("SalonService request failed for salon_id=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid salon ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		c.log.Warn("Salon not found in SalonService: salon_id=%d", salonID)
		return nil, ErrSalonNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	var salon Salon
	if err := json.NewDecoder(resp.Body).Decode(&salon); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	result, err := salon.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	c.log.Info("Fetched salon_id=%d: %d employees, %d services", salonID, len(result.Employees), len(result.Services))
	return result, nil
}
