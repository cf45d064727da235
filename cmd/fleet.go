package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fairwaydispatch/caddie/config"
	"github.com/fairwaydispatch/caddie/core/model"
)

func assetKindName(k model.AssetKind) string {
	switch k {
	case model.KindBeverageCart:
		return "cart"
	case model.KindDeliveryStaff:
		return "staff"
	default:
		return "unknown"
	}
}

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "List a scenario's fleet without running it",
	RunE:  runAssetsLs,
}

func init() {
	rootCmd.AddCommand(assetsCmd)
}

func runAssetsLs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	fleet, err := cfg.BuildFleet()
	if err != nil {
		return fmt.Errorf("build fleet: %w", err)
	}
	for _, a := range fleet {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", a.ID(), a.Name(), assetKindName(a.Kind()))
	}
	return nil
}
