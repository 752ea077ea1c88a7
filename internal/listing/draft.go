package listing

import (
	"fmt"
	"slices"
	"strings"

	"github.com/donaldgifford/ebay-listing-creator/internal/ebay"
)

// MaxImages is the most images a listing may carry.
const MaxImages = 24

// Conditions lists the accepted item conditions. The first is the default.
var Conditions = []string{
	"New with box",
	"New without box",
	"New with defects",
	"Pre-owned",
}

// Marketplaces lists the accepted marketplace IDs. The first is the default.
var Marketplaces = []string{
	"EBAY_US",
	"EBAY_CA",
	"EBAY_GB",
	"EBAY_AU",
	"EBAY_DE",
	"EBAY_FR",
	"EBAY_IT",
	"EBAY_ES",
}

// Policies holds the seller's business policy names.
type Policies struct {
	Fulfillment string `json:"fulfillment"`
	Payment     string `json:"payment"`
	Return      string `json:"return"`
}

// Media is an uploaded image or video.
type Media struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// Draft is the in-progress listing.
type Draft struct {
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
	Images               []Media                  `json:"images"`
	Video                *Media                   `json:"video,omitempty"`
}

// NewDraft returns an empty draft with form defaults applied.
func NewDraft() Draft {
	return Draft{
		Quantity:        1,
		Condition:       Conditions[0],
		MarketplaceID:   Marketplaces[0],
		SelectedAspects: map[string]string{},
	}
}

// DraftPatch carries the fields a form submission changes. Nil fields are
// left untouched.
type DraftPatch struct {
	Title                *string   `json:"title,omitempty"`
	Manufacturer         *string   `json:"manufacturer,omitempty"`
	Summary              *string   `json:"summary,omitempty"`
	GeneratedTitle       *string   `json:"generated_title,omitempty"`
	GeneratedDescription *string   `json:"generated_description,omitempty"`
	SKU                  *string   `json:"sku,omitempty"`
	Price                *float64  `json:"price,omitempty"`
	Weight               *float64  `json:"weight,omitempty"`
	Quantity             *int      `json:"quantity,omitempty"`
	Condition            *string   `json:"condition,omitempty"`
	MarketplaceID        *string   `json:"marketplace_id,omitempty"`
	MerchantLocation     *string   `json:"merchant_location,omitempty"`
	Policies             *Policies `json:"policies,omitempty"`
}

// Validate checks every set field without modifying anything.
func (p DraftPatch) Validate() error {
	if p.Price != nil && *p.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidField)
	}
	if p.Weight != nil && *p.Weight < 0 {
		return fmt.Errorf("%w: weight must not be negative", ErrInvalidField)
	}
	if p.Quantity != nil && *p.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidField)
	}
	if p.Condition != nil && !slices.Contains(Conditions, *p.Condition) {
		return fmt.Errorf("%w: condition %q is not one of %s",
			ErrInvalidField, *p.Condition, strings.Join(Conditions, ", "))
	}
	if p.MarketplaceID != nil && !slices.Contains(Marketplaces, *p.MarketplaceID) {
		return fmt.Errorf("%w: marketplace %q is not one of %s",
			ErrInvalidField, *p.MarketplaceID, strings.Join(Marketplaces, ", "))
	}
	return nil
}

// Apply validates p and copies its set fields into d. On error d is unchanged.
func (d *Draft) Apply(p DraftPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}

	setString(&d.Title, p.Title)
	setString(&d.Manufacturer, p.Manufacturer)
	setString(&d.Summary, p.Summary)
	setString(&d.GeneratedTitle, p.GeneratedTitle)
	setString(&d.GeneratedDescription, p.GeneratedDescription)
	setString(&d.SKU, p.SKU)
	setString(&d.Condition, p.Condition)
	setString(&d.MarketplaceID, p.MarketplaceID)
	setString(&d.MerchantLocation, p.MerchantLocation)

	if p.Price != nil {
		d.Price = *p.Price
	}
	if p.Weight != nil {
		d.Weight = *p.Weight
	}
	if p.Quantity != nil {
		d.Quantity = *p.Quantity
	}
	if p.Policies != nil {
		d.Policies = *p.Policies
	}
	return nil
}

func setString(dst, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// AddImage appends img. The 25th image is rejected with ErrImageLimit.
func (d *Draft) AddImage(img Media) error {
	if len(d.Images) >= MaxImages {
		return fmt.Errorf("%w: at most %d images", ErrImageLimit, MaxImages)
	}
	if err := checkMedia(img, "image/"); err != nil {
		return err
	}
	d.Images = append(d.Images, img)
	return nil
}

// RemoveImage deletes the image at index, keeping the order of the rest.
func (d *Draft) RemoveImage(index int) error {
	if index < 0 || index >= len(d.Images) {
		return fmt.Errorf("%w: image index %d out of range", ErrInvalidField, index)
	}
	d.Images = slices.Delete(d.Images, index, index+1)
	return nil
}

// SetVideo replaces the listing video.
func (d *Draft) SetVideo(v Media) error {
	if err := checkMedia(v, "video/"); err != nil {
		return err
	}
	d.Video = &v
	return nil
}

// ClearVideo removes the listing video.
func (d *Draft) ClearVideo() {
	d.Video = nil
}

func checkMedia(m Media, typePrefix string) error {
	if len(m.Data) == 0 {
		return fmt.Errorf("%w: %s is empty", ErrInvalidField, m.Name)
	}
	if !strings.HasPrefix(m.ContentType, typePrefix) {
		return fmt.Errorf("%w: %s has content type %q, want %s*",
			ErrInvalidField, m.Name, m.ContentType, typePrefix)
	}
	return nil
}

// ClearCategory drops the selected category and every aspect answer.
func (d *Draft) ClearCategory() {
	d.SelectedCategory = nil
	d.SelectedAspects = map[string]string{}
}

// missing returns ErrMissingFields naming every empty field among fields.
func (d *Draft) missing(fields ...string) error {
	var out []string
	for _, f := range fields {
		var v string
		switch f {
		case "title":
			v = d.Title
		case "manufacturer":
			v = d.Manufacturer
		case "summary":
			v = d.Summary
		}
		if strings.TrimSpace(v) == "" {
			out = append(out, f)
		}
	}
	if len(out) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(out, ", "))
	}
	return nil
}
