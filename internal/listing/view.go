package listing

import (
	"maps"
	"time"

	"github.com/donaldgifford/ebay-listing-creator/internal/ebay"
)

// MediaInfo describes an uploaded file without its bytes.
type MediaInfo struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// DraftView is the draft as the UI renders it.
type DraftView struct {
	Title                string                   `json:"title"`
	Manufacturer         string                   `json:"manufacturer"`
	Summary              string                   `json:"summary"`
	GeneratedTitle       string                   `json:"generated_title"`
	GeneratedDescription string                   `json:"generated_description"`
	SKU                  string                   `json:"sku"`
	Price                float64                  `json:"price"`
	Weight               float64                  `json:"weight"`
	Quantity             int                      `json:"quantity"`
	Condition            string                   `json:"condition"`
	MarketplaceID        string                   `json:"marketplace_id"`
	MerchantLocation     string                   `json:"merchant_location"`
	Policies             Policies                 `json:"policies"`
	SelectedCategory     *ebay.CategorySuggestion `json:"selected_category,omitempty"`
	SelectedAspects      map[string]string        `json:"selected_aspects"`
	Images               []MediaInfo              `json:"images"`
	Video                *MediaInfo               `json:"video,omitempty"`
}

// View is a read-only copy of a session for rendering.
type View struct {
	ID          string                    `json:"id"`
	Environment ebay.Environment          `json:"environment"`
	AuthState   AuthState                 `json:"auth_state"`
	ConsentURL  string                    `json:"consent_url,omitempty"`
	AuthError   string                    `json:"auth_error,omitempty"`
	Draft       DraftView                 `json:"draft"`
	Suggestions []ebay.CategorySuggestion `json:"suggestions"`
	Aspects     []ebay.CategoryAspect     `json:"aspects"`
	LastListing *Listing                  `json:"last_listing,omitempty"`
	Rerender    bool                      `json:"rerender"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

func mediaInfo(m Media) MediaInfo {
	return MediaInfo{Name: m.Name, ContentType: m.ContentType, Size: len(m.Data)}
}

func (s *Session) view() View {
	d := s.Draft
	dv := DraftView{
		Title:                d.Title,
		Manufacturer:         d.Manufacturer,
		Summary:              d.Summary,
		GeneratedTitle:       d.GeneratedTitle,
		GeneratedDescription: d.GeneratedDescription,
		SKU:                  d.SKU,
		Price:                d.Price,
		Weight:               d.Weight,
		Quantity:             d.Quantity,
		Condition:            d.Condition,
		MarketplaceID:        d.MarketplaceID,
		MerchantLocation:     d.MerchantLocation,
		Policies:             d.Policies,
		SelectedAspects:      maps.Clone(d.SelectedAspects),
		Images:               make([]MediaInfo, 0, len(d.Images)),
	}
	if d.SelectedCategory != nil {
		c := *d.SelectedCategory
		dv.SelectedCategory = &c
	}
	for _, img := range d.Images {
		dv.Images = append(dv.Images, mediaInfo(img))
	}
	if d.Video != nil {
		v := mediaInfo(*d.Video)
		dv.Video = &v
	}

	v := View{
		ID:          s.ID,
		Environment: s.Environment,
		AuthState:   s.State,
		ConsentURL:  s.ConsentURL,
		AuthError:   s.AuthError,
		Draft:       dv,
		Suggestions: append([]ebay.CategorySuggestion{}, s.Suggestions...),
		Aspects:     append([]ebay.CategoryAspect{}, s.Aspects...),
		Rerender:    s.Rerender(),
		UpdatedAt:   s.UpdatedAt,
	}
	if s.LastListing != nil {
		l := *s.LastListing
		v.LastListing = &l
	}
	return v
}
