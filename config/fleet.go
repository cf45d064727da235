package config

import (
	"fmt"
	"strings"

	"github.com/fairwaydispatch/caddie/core/model"
)

// AssetConfig pins one fleet asset to an explicit starting position, used by
// scenario fixtures that need precise placement (spec §8's concrete
// scenarios all specify exact starting holes).
type AssetConfig struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"` // "cart" | "staff"
	Loop      string `json:"loop,omitempty"`
	StartHole int    `json:"start_hole"`
	Clubhouse bool   `json:"clubhouse,omitempty"`
}

func (a AssetConfig) build() (model.Asset, error) {
	name := a.Name
	if name == "" {
		name = a.ID
	}
	switch strings.ToLower(a.Kind) {
	case "cart", "beverage_cart":
		loop := model.Front
		if strings.EqualFold(a.Loop, "back") {
			loop = model.Back
		}
		return model.NewBeverageCart(a.ID, name, loop, model.AtHole(a.StartHole)), nil
	case "staff", "delivery_staff":
		loc := model.AtHole(a.StartHole)
		if a.Clubhouse {
			loc = model.AtClubhouse()
		}
		return model.NewDeliveryStaff(a.ID, name, loc), nil
	default:
		return nil, fmt.Errorf("config: unknown asset kind %q for asset %q", a.Kind, a.ID)
	}
}

// FleetConfig builds the scenario's asset roster, either from an explicit
// Assets list (precise fixtures) or from NumBeverageCarts/NumDeliveryStaff
// counts (spec §6: 0-2 carts, any number of staff), auto-placed around the
// course.
type FleetConfig struct {
	Assets           []AssetConfig `json:"assets,omitempty"`
	NumBeverageCarts int           `json:"num_beverage_carts"`
	NumDeliveryStaff int           `json:"num_delivery_staff"`
}

// Validate enforces spec §6's fleet size bound.
func (f FleetConfig) Validate() error {
	if len(f.Assets) > 0 {
		return nil
	}
	if f.NumBeverageCarts < 0 || f.NumBeverageCarts > 2 {
		return fmt.Errorf("config: num_beverage_carts must be 0-2, got %d", f.NumBeverageCarts)
	}
	if f.NumDeliveryStaff < 0 {
		return fmt.Errorf("config: num_delivery_staff must be >= 0, got %d", f.NumDeliveryStaff)
	}
	return nil
}

// Build constructs every asset in the roster.
func (f FleetConfig) Build() ([]model.Asset, error) {
	if len(f.Assets) > 0 {
		out := make([]model.Asset, 0, len(f.Assets))
		for _, a := range f.Assets {
			asset, err := a.build()
			if err != nil {
				return nil, err
			}
			out = append(out, asset)
		}
		return out, nil
	}

	var out []model.Asset
	loops := []model.Loop{model.Front, model.Back}
	startHoles := []int{1, 10}
	for i := 0; i < f.NumBeverageCarts; i++ {
		loop := loops[i%len(loops)]
		out = append(out, model.NewBeverageCart(fmt.Sprintf("cart%d", i+1), fmt.Sprintf("Cart %d", i+1), loop, model.AtHole(startHoles[i%len(startHoles)])))
	}
	for i := 0; i < f.NumDeliveryStaff; i++ {
		out = append(out, model.NewDeliveryStaff(fmt.Sprintf("staff%d", i+1), fmt.Sprintf("Staff %d", i+1), model.AtClubhouse()))
	}
	return out, nil
}
