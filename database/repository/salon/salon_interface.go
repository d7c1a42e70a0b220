package salonRepo

import (
	"context"

	"salonbook/models"
)

// SalonRepository gives read access to clients, masters and services.
// Find methods return nil, nil when the id does not exist.
type SalonRepository interface {
	FindClient(ctx context.Context, id string) (*models.Client, error)
	FindMaster(ctx context.Context, id string) (*models.Master, error)
	FindService(ctx context.Context, id string) (*models.Service, error)
	ListMasters(ctx context.Context) ([]models.Master, error)
	ListServices(ctx context.Context) ([]models.Service, error)
}
