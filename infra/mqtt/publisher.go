package mqtt

import (
	"fmt"
	"sync"

	"github.com/fairwaydispatch/caddie/core/model"
)

// Publisher is the asset-telemetry transport contract a production
// (non-simulation) deployment's external adapter publishes through.
type Publisher interface {
	PublishAssetLocation(assetID string, loc model.Location) error
	PublishAssetStatus(assetID string, status model.AssetStatus) error
	PublishOrderCreated(order model.Order) error
}

// MockPublisher is a Publisher test double that records every call instead
// of touching a broker.
type MockPublisher struct {
	mu        sync.Mutex
	Locations map[string]model.Location
	Statuses  map[string]model.AssetStatus
	Orders    map[string]model.Order
	FailIDs   map[string]bool
}

// NewMockPublisher returns an empty MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		Locations: map[string]model.Location{},
		Statuses:  map[string]model.AssetStatus{},
		Orders:    map[string]model.Order{},
		FailIDs:   map[string]bool{},
	}
}

func (m *MockPublisher) PublishAssetLocation(assetID string, loc model.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailIDs[assetID] {
		return fmt.Errorf("publish failed for %s", assetID)
	}
	m.Locations[assetID] = loc
	return nil
}

func (m *MockPublisher) PublishAssetStatus(assetID string, status model.AssetStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailIDs[assetID] {
		return fmt.Errorf("publish failed for %s", assetID)
	}
	m.Statuses[assetID] = status
	return nil
}

func (m *MockPublisher) PublishOrderCreated(order model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailIDs[order.ID] {
		return fmt.Errorf("publish failed for %s", order.ID)
	}
	m.Orders[order.ID] = order
	return nil
}
