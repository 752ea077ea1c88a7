package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/donaldgifford/ebay-listing-creator/internal/listing"
)

func draftCmd() *cobra.Command {
	draftRoot := &cobra.Command{
		Use:   "draft",
		Short: "Edit the listing draft",
	}
	draftRoot.AddCommand(draftSetCmd())
	return draftRoot
}

func draftSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update draft fields",
		Long: "Updates only the fields whose flags are given. Valid conditions: " +
			strings.Join(listing.Conditions, ", ") + ".",
		Example: `  elc draft set --title "Apple iPhone 15" --manufacturer Apple --price 499.99
  elc draft set --condition Pre-owned --quantity 2
  elc draft set --return-policy "30 day returns"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := sessionID()
			if err != nil {
				return err
			}
			c := newClient()
			ctx := context.Background()

			patch, err := buildPatch(cmd.Flags())
			if err != nil {
				return err
			}
			if policyFlagsChanged(cmd.Flags()) {
				cur, err := c.GetSession(ctx, id)
				if err != nil {
					return err
				}
				p := mergePolicies(cur.Draft.Policies, cmd.Flags())
				patch.Policies = &p
			}

			v, err := c.UpdateDraft(ctx, id, patch)
			if err != nil {
				return err
			}
			return renderView(cmd.OutOrStdout(), v)
		},
	}

	f := cmd.Flags()
	f.String("title", "", "product title")
	f.String("manufacturer", "", "manufacturer")
	f.String("summary", "", "short product summary for copy generation")
	f.String("generated-title", "", "override the generated title")
	f.String("generated-description", "", "override the generated description")
	f.String("sku", "", "seller SKU")
	f.Float64("price", 0, "price")
	f.Float64("weight", 0, "package weight")
	f.Int("quantity", 1, "available quantity")
	f.String("condition", "", "item condition")
	f.String("marketplace", "", "marketplace ID, e.g. EBAY_US")
	f.String("location", "", "merchant location key")
	f.String("fulfillment-policy", "", "fulfillment policy name")
	f.String("payment-policy", "", "payment policy name")
	f.String("return-policy", "", "return policy name")
	return cmd
}

var errEmptyPatch = errors.New("no draft fields given")

// buildPatch turns the changed flags into a DraftPatch.
func buildPatch(f *pflag.FlagSet) (listing.DraftPatch, error) {
	var p listing.DraftPatch

	strs := map[string]**string{
		"title":                 &p.Title,
		"manufacturer":          &p.Manufacturer,
		"summary":               &p.Summary,
		"generated-title":       &p.GeneratedTitle,
		"generated-description": &p.GeneratedDescription,
		"sku":                   &p.SKU,
		"condition":             &p.Condition,
		"marketplace":           &p.MarketplaceID,
		"location":              &p.MerchantLocation,
	}
	changed := false
	for name, dst := range strs {
		if !f.Changed(name) {
			continue
		}
		v, err := f.GetString(name)
		if err != nil {
			return p, err
		}
		*dst = &v
		changed = true
	}

	for name, dst := range map[string]**float64{"price": &p.Price, "weight": &p.Weight} {
		if !f.Changed(name) {
			continue
		}
		v, err := f.GetFloat64(name)
		if err != nil {
			return p, err
		}
		*dst = &v
		changed = true
	}

	if f.Changed("quantity") {
		v, err := f.GetInt("quantity")
		if err != nil {
			return p, err
		}
		p.Quantity = &v
		changed = true
	}

	if !changed && !policyFlagsChanged(f) {
		return p, errEmptyPatch
	}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("invalid draft: %w", err)
	}
	return p, nil
}

func policyFlagsChanged(f *pflag.FlagSet) bool {
	return f.Changed("fulfillment-policy") || f.Changed("payment-policy") || f.Changed("return-policy")
}

// mergePolicies overlays the changed policy flags on base.
func mergePolicies(base listing.Policies, f *pflag.FlagSet) listing.Policies {
	if f.Changed("fulfillment-policy") {
		base.Fulfillment, _ = f.GetString("fulfillment-policy")
	}
	if f.Changed("payment-policy") {
		base.Payment, _ = f.GetString("payment-policy")
	}
	if f.Changed("return-policy") {
		base.Return, _ = f.GetString("return-policy")
	}
	return base
}
