package listing

import (
	"maps"
	"slices"
	"time"

	"github.com/donaldgifford/ebay-listing-creator/internal/ebay"
)

// Listing is the assembled payload CreateListing returns. It is not
// submitted anywhere.
type Listing struct {
	SKU              string                   `json:"sku"`
	Title            string                   `json:"title"`
	Description      string                   `json:"description"`
	Manufacturer     string                   `json:"manufacturer"`
	Summary          string                   `json:"summary"`
	Price            float64                  `json:"price"`
	Weight           float64                  `json:"weight"`
	Quantity         int                      `json:"quantity"`
	Condition        string                   `json:"condition"`
	MarketplaceID    string                   `json:"marketplace_id"`
	MerchantLocation string                   `json:"merchant_location"`
	Policies         Policies                 `json:"policies"`
	Category         *ebay.CategorySuggestion `json:"category,omitempty"`
	Aspects          map[string]string        `json:"aspects"`
	MissingAspects   []string                 `json:"missing_aspects,omitempty"`
	ImageCount       int                      `json:"image_count"`
	HasVideo         bool                     `json:"has_video"`
	Environment      ebay.Environment         `json:"environment"`
	CreatedAt        time.Time                `json:"created_at"`
}

// assemble builds the payload from the draft. Generated copy wins over
// the seller's own title when present.
func assemble(s *Session, now time.Time) *Listing {
	d := s.Draft

	title := d.GeneratedTitle
	if title == "" {
		title = d.Title
	}

	l := &Listing{
		SKU:              d.SKU,
		Title:            title,
		Description:      d.GeneratedDescription,
		Manufacturer:     d.Manufacturer,
		Summary:          d.Summary,
		Price:            d.Price,
		Weight:           d.Weight,
		Quantity:         d.Quantity,
		Condition:        d.Condition,
		MarketplaceID:    d.MarketplaceID,
		MerchantLocation: d.MerchantLocation,
		Policies:         d.Policies,
		Aspects:          maps.Clone(d.SelectedAspects),
		ImageCount:       len(d.Images),
		HasVideo:         d.Video != nil,
		Environment:      s.Environment,
		CreatedAt:        now.UTC(),
	}
	if l.Aspects == nil {
		l.Aspects = map[string]string{}
	}
	if d.SelectedCategory != nil {
		c := *d.SelectedCategory
		l.Category = &c
	}

	for _, a := range s.Aspects {
		if _, ok := l.Aspects[a.Name]; !ok {
			l.MissingAspects = append(l.MissingAspects, a.Name)
		}
	}
	slices.Sort(l.MissingAspects)
	return l
}
