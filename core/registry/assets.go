// Package registry holds the two single-writer in-memory stores the
// simulation engine owns for the lifetime of a scenario: the Asset Registry
// and the Order Book (spec §4.3). Both stores are mutated only from the
// simulation engine's event-handler goroutine; concurrent readers such as
// the dispatch strategy and the metrics summary see immutable snapshots.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/fairwaydispatch/caddie/core/model"
)

// AssetView is a read-only snapshot of one asset, decoupled from the
// mutable model.Asset interface so a strategy holding a snapshot cannot
// accidentally mutate live registry state (spec §3, "Fleet snapshot").
type AssetView struct {
	ID       string
	Name     string
	Kind     model.AssetKind
	Location model.Location
	Status   model.AssetStatus
	Queue    []string
	Loop     model.Loop
	IsCart   bool
	Stats    model.Stats
}

// Serviceable reports whether this asset could ever serve hole, matching
// model.Asset.Serviceable without needing the live asset.
func (v AssetView) Serviceable(hole int) bool {
	if v.IsCart {
		return model.LoopOf(hole) == v.Loop
	}
	return hole >= 1 && hole <= 18
}

// AssetRegistry is the single-writer store of delivery assets.
type AssetRegistry struct {
	mu     sync.RWMutex
	assets map[string]model.Asset
}

// NewAssetRegistry constructs an empty registry.
func NewAssetRegistry() *AssetRegistry {
	return &AssetRegistry{assets: make(map[string]model.Asset)}
}

// Register adds an asset to the registry. Registering an ID twice replaces
// the prior asset.
func (r *AssetRegistry) Register(a model.Asset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assets[a.ID()] = a
}

// Get returns the live asset by ID.
func (r *AssetRegistry) Get(id string) (model.Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.assets[id]
	return a, ok
}

// UpdateLocation sets the asset's current location.
func (r *AssetRegistry) UpdateLocation(id string, loc model.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assets[id]
	if !ok {
		return fmt.Errorf("registry: unknown asset %s", id)
	}
	a.SetLocation(loc)
	return nil
}

// SetStatus sets the asset's status, enforcing the single-outstanding-offer
// precondition: an asset cannot be pushed into OfferPending while it
// already holds one (spec §5, "Shared resources").
func (r *AssetRegistry) SetStatus(id string, status model.AssetStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assets[id]
	if !ok {
		return fmt.Errorf("registry: unknown asset %s", id)
	}
	if status == model.OfferPending && a.Status() == model.OfferPending {
		return fmt.Errorf("registry: asset %s already holds an outstanding offer", id)
	}
	a.SetStatus(status)
	return nil
}

// EnqueueOrder appends orderID to the asset's delivery queue.
func (r *AssetRegistry) EnqueueOrder(assetID, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assets[assetID]
	if !ok {
		return fmt.Errorf("registry: unknown asset %s", assetID)
	}
	return a.Enqueue(orderID)
}

// DequeueOrder removes orderID from the asset's delivery queue.
func (r *AssetRegistry) DequeueOrder(assetID, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assets[assetID]
	if !ok {
		return fmt.Errorf("registry: unknown asset %s", assetID)
	}
	a.Dequeue(orderID)
	return nil
}

// Snapshot returns an immutable, ID-sorted view of every asset. Callers
// (strategies, the batching planner, metrics) must treat the result as
// read-only.
func (r *AssetRegistry) Snapshot() []AssetView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	views := make([]AssetView, 0, len(r.assets))
	for _, a := range r.assets {
		v := AssetView{
			ID:       a.ID(),
			Name:     a.Name(),
			Kind:     a.Kind(),
			Location: a.Location(),
			Status:   a.Status(),
			Queue:    a.Queue(),
			Stats:    *a.Stats(),
		}
		if cart, ok := a.(*model.BeverageCart); ok {
			v.IsCart = true
			v.Loop = cart.Loop()
		}
		views = append(views, v)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	return views
}
