package booking

import (
	"context"
	"fmt"
	"time"

	salonRepo "salonbook/database/repository/salon"
	"salonbook/models"
)

// ValidationContext carries one create request through the chain. Handlers
// enrich it with the entities they resolve and record the first rejection.
type ValidationContext struct {
	ClientID  string
	MasterID  string
	ServiceID string
	DateTime  time.Time

	Client  *models.Client
	Master  *models.Master
	Service *models.Service

	errMsg string
}

// Fail records a rejection. Only the first message is kept.
func (v *ValidationContext) Fail(msg string) {
	if v.errMsg == "" {
		v.errMsg = msg
	}
}

func (v *ValidationContext) HasError() bool { return v.errMsg != "" }

func (v *ValidationContext) Error() string { return v.errMsg }

// ValidationHandler checks one aspect of a request. A returned error means
// the check could not run; a business rejection goes through Fail.
type ValidationHandler func(ctx context.Context, v *ValidationContext) error

// ValidationChain runs handlers in order until one rejects.
type ValidationChain struct {
	handlers []ValidationHandler
}

func NewValidationChain(handlers ...ValidationHandler) *ValidationChain {
	hs := make([]ValidationHandler, len(handlers))
	copy(hs, handlers)
	return &ValidationChain{handlers: hs}
}

// Append returns a new chain with extra handlers at the tail.
func (c *ValidationChain) Append(handlers ...ValidationHandler) *ValidationChain {
	hs := make([]ValidationHandler, 0, len(c.handlers)+len(handlers))
	hs = append(hs, c.handlers...)
	hs = append(hs, handlers...)
	return &ValidationChain{handlers: hs}
}

func (c *ValidationChain) Len() int { return len(c.handlers) }

// Validate stops at the first rejection or infrastructure error.
func (c *ValidationChain) Validate(ctx context.Context, v *ValidationContext) error {
	for _, h := range c.handlers {
		if err := h(ctx, v); err != nil {
			return err
		}
		if v.HasError() {
			return nil
		}
	}
	return nil
}

const (
	MsgClientNotFound  = "client not found"
	MsgMasterNotFound  = "master not found"
	MsgServiceNotFound = "service not found"
)

func ClientExists(repo salonRepo.SalonRepository) ValidationHandler {
	return func(ctx context.Context, v *ValidationContext) error {
		c, err := repo.FindClient(ctx, v.ClientID)
		if err != nil {
			return fmt.Errorf("failed to look up client %s: %w", v.ClientID, err)
		}
		if c == nil {
			v.Fail(MsgClientNotFound)
			return nil
		}
		v.Client = c
		return nil
	}
}

func MasterExists(repo salonRepo.SalonRepository) ValidationHandler {
	return func(ctx context.Context, v *ValidationContext) error {
		m, err := repo.FindMaster(ctx, v.MasterID)
		if err != nil {
			return fmt.Errorf("failed to look up master %s: %w", v.MasterID, err)
		}
		if m == nil {
			v.Fail(MsgMasterNotFound)
			return nil
		}
		v.Master = m
		return nil
	}
}

func ServiceExists(repo salonRepo.SalonRepository) ValidationHandler {
	return func(ctx context.Context, v *ValidationContext) error {
		s, err := repo.FindService(ctx, v.ServiceID)
		if err != nil {
			return fmt.Errorf("failed to look up service %s: %w", v.ServiceID, err)
		}
		if s == nil {
			v.Fail(MsgServiceNotFound)
			return nil
		}
		v.Service = s
		return nil
	}
}

// ScheduleAvailable reserves the slot for master availability checks.
// Conflict detection is not implemented, so every slot passes.
func ScheduleAvailable() ValidationHandler {
	return func(ctx context.Context, v *ValidationContext) error {
		return nil
	}
}

// DefaultValidationChain is client, then master, then service.
func DefaultValidationChain(repo salonRepo.SalonRepository) *ValidationChain {
	return NewValidationChain(
		ClientExists(repo),
		MasterExists(repo),
		ServiceExists(repo),
	)
}
