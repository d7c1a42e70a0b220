package booking

import (
	"context"
	"errors"
	"testing"

	"salonbook/models"
)

// countingSalon wraps a salon repository and counts lookups.
type countingSalon struct {
	clients, masters, services       int
	hasClient, hasMaster, hasService bool
	err                              error
}

func (c *countingSalon) FindClient(context.Context, string) (*models.Client, error) {
	c.clients++
	if c.err != nil {
		return nil, c.err
	}
	if !c.hasClient {
		return nil, nil
	}
	return &models.Client{ID: "c-1"}, nil
}

func (c *countingSalon) FindMaster(context.Context, string) (*models.Master, error) {
	c.masters++
	if !c.hasMaster {
		return nil, nil
	}
	return &models.Master{ID: "m-1"}, nil
}

func (c *countingSalon) FindService(context.Context, string) (*models.Service, error) {
	c.services++
	if !c.hasService {
		return nil, nil
	}
	return &models.Service{ID: "s-1", Price: 100}, nil
}

func (c *countingSalon) ListMasters(context.Context) ([]models.Master, error)   { return nil, nil }
func (c *countingSalon) ListServices(context.Context) ([]models.Service, error) { return nil, nil }

func TestDefaultChainStopsAtFirstFailure(t *testing.T) {
	tests := []struct {
		name               string
		repo               *countingSalon
		wantMsg            string
		wantMasterLookups  int
		wantServiceLookups int
	}{
		{
			name:    "missing client",
			repo:    &countingSalon{hasMaster: true, hasService: true},
			wantMsg: MsgClientNotFound,
		},
		{
			name:              "missing master",
			repo:              &countingSalon{hasClient: true, hasService: true},
			wantMsg:           MsgMasterNotFound,
			wantMasterLookups: 1,
		},
		{
			name:               "missing service",
			repo:               &countingSalon{hasClient: true, hasMaster: true},
			wantMsg:            MsgServiceNotFound,
			wantMasterLookups:  1,
			wantServiceLookups: 1,
		},
		{
			name:               "all present",
			repo:               &countingSalon{hasClient: true, hasMaster: true, hasService: true},
			wantMasterLookups:  1,
			wantServiceLookups: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &ValidationContext{ClientID: "c-1", MasterID: "m-1", ServiceID: "s-1", DateTime: testSlot}
			if err := DefaultValidationChain(tt.repo).Validate(context.Background(), v); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Error() != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, v.Error())
			}
			if tt.repo.masters != tt.wantMasterLookups {
				t.Errorf("master lookups: expected %d, got %d", tt.wantMasterLookups, tt.repo.masters)
			}
			if tt.repo.services != tt.wantServiceLookups {
				t.Errorf("service lookups: expected %d, got %d", tt.wantServiceLookups, tt.repo.services)
			}
			if tt.wantMsg == "" && (v.Client == nil || v.Master == nil || v.Service == nil) {
				t.Errorf("context was not enriched: %+v", v)
			}
		})
	}
}

func TestChainReturnsInfrastructureError(t *testing.T) {
	down := errors.New("connection refused")
	repo := &countingSalon{err: down}
	v := &ValidationContext{ClientID: "c-1"}

	err := DefaultValidationChain(repo).Validate(context.Background(), v)
	if !errors.Is(err, down) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
	if v.HasError() {
		t.Errorf("infrastructure failure must not be recorded as a rejection")
	}
	if repo.masters != 0 {
		t.Errorf("chain continued after error")
	}
}

func TestFailKeepsFirstMessage(t *testing.T) {
	v := &ValidationContext{}
	v.Fail("first")
	v.Fail("second")
	if v.Error() != "first" {
		t.Errorf("expected first message, got %q", v.Error())
	}
}

func TestAppendReturnsNewChain(t *testing.T) {
	base := NewValidationChain(func(context.Context, *ValidationContext) error { return nil })
	var tailRan bool
	extended := base.Append(ScheduleAvailable(), func(context.Context, *ValidationContext) error {
		tailRan = true
		return nil
	})

	if base.Len() != 1 || extended.Len() != 3 {
		t.Fatalf("unexpected lengths base=%d extended=%d", base.Len(), extended.Len())
	}
	if err := extended.Validate(context.Background(), &ValidationContext{}); err != nil {
		t.Fatal(err)
	}
	if !tailRan {
		t.Error("appended handler did not run")
	}
}

func TestNewValidationChainCopiesHandlers(t *testing.T) {
	var calls []string
	hs := []ValidationHandler{
		func(context.Context, *ValidationContext) error { calls = append(calls, "a"); return nil },
	}
	chain := NewValidationChain(hs...)
	hs[0] = func(context.Context, *ValidationContext) error { calls = append(calls, "b"); return nil }

	_ = chain.Validate(context.Background(), &ValidationContext{})
	if len(calls) != 1 || calls[0] != "a" {
		t.Errorf("chain saw caller mutation: %v", calls)
	}
}
