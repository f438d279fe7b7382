package gateway

import (
	"context"
	"fmt"
	"net/http"

	"healthbook/web/internal/models"
)

type DoctorClient struct {
	client *Client
}

type DoctorInput struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
}

func (c *DoctorClient) List(ctx context.Context) ([]models.Doctor, error) {
	var doctors []models.Doctor
	if err := c.client.do(ctx, http.MethodGet, "/doctor", nil, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

func (c *DoctorClient) Get(ctx context.Context, id int64) (models.Doctor, error) {
	var doctor models.Doctor
	if err := c.client.do(ctx, http.MethodGet, fmt.Sprintf("/doctor/%d", id), nil, &doctor); err != nil {
		return models.Doctor{}, err
	}
	return doctor, nil
}

func (c *DoctorClient) Create(ctx context.Context, input DoctorInput) (models.Doctor, error) {
	var doctor models.Doctor
	if err := c.client.do(ctx, http.MethodPost, "/doctor", input, &doctor); err != nil {
		return models.Doctor{}, err
	}
	return doctor, nil
}

func (c *DoctorClient) Update(ctx context.Context, id int64, input DoctorInput) (models.Doctor, error) {
	var doctor models.Doctor
	if err := c.client.do(ctx, http.MethodPut, fmt.Sprintf("/doctor/%d", id), input, &doctor); err != nil {
		return models.Doctor{}, err
	}
	return doctor, nil
}

func (c *DoctorClient) Delete(ctx context.Context, id int64) error {
	return c.client.do(ctx, http.MethodDelete, fmt.Sprintf("/doctor/%d", id), nil, nil)
}
