package gateway

import (
	"context"
	"fmt"
	"net/http"

	"healthbook/web/internal/models"
)

type AppointmentClient struct {
	client *Client
}

type BookInput struct {
	UserID   int64  `json:"userId"`
	DoctorID int64  `json:"doctorId"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

func (c *AppointmentClient) Book(ctx context.Context, input BookInput) (models.Appointment, error) {
	var appointment models.Appointment
	if err := c.client.do(ctx, http.MethodPost, "/appointment/book", input, &appointment); err != nil {
		return models.Appointment{}, err
	}
	return appointment, nil
}

func (c *AppointmentClient) ListAll(ctx context.Context) ([]models.Appointment, error) {
	var appointments []models.Appointment
	if err := c.client.do(ctx, http.MethodGet, "/appointment", nil, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (c *AppointmentClient) ListByUser(ctx context.Context, userID int64) ([]models.Appointment, error) {
	var appointments []models.Appointment
	if err := c.client.do(ctx, http.MethodGet, fmt.Sprintf("/appointment/user/%d", userID), nil, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (c *AppointmentClient) ListByDoctor(ctx context.Context, doctorID int64) ([]models.Appointment, error) {
	var appointments []models.Appointment
	if err := c.client.do(ctx, http.MethodGet, fmt.Sprintf("/appointment/doctor/%d", doctorID), nil, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (c *AppointmentClient) Approve(ctx context.Context, id int64) error {
	return c.client.do(ctx, http.MethodPut, fmt.Sprintf("/appointment/approve/%d", id), nil, nil)
}

func (c *AppointmentClient) Reject(ctx context.Context, id int64) error {
	return c.client.do(ctx, http.MethodPut, fmt.Sprintf("/appointment/reject/%d", id), nil, nil)
}

func (c *AppointmentClient) Delete(ctx context.Context, id int64) error {
	return c.client.do(ctx, http.MethodDelete, fmt.Sprintf("/appointment/%d", id), nil, nil)
}
