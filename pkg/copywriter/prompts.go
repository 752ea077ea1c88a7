package copywriter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// listingTmpl is the listing copy prompt template.
const listingTmpl = `Generate an eBay listing for the following product.

Product: {{.Title}}
Manufacturer: {{.Manufacturer}}
Summary: {{.Summary}}

The listing should be attractive and inducing, but not misleading.
Always encourage customers to purchase.
Format the response as JSON with keys "title" and "description".
The title must be at most 80 characters.`

var listingPrompt = template.Must(template.New("listing").Parse(listingTmpl))

// RenderListingPrompt renders the copy prompt for product.
func RenderListingPrompt(product ProductInfo) (string, error) {
	data := ProductInfo{
		Title:        strings.TrimSpace(product.Title),
		Manufacturer: strings.TrimSpace(product.Manufacturer),
		Summary:      strings.TrimSpace(product.Summary),
	}

	var buf bytes.Buffer
	if err := listingPrompt.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing listing template: %w", err)
	}
	return buf.String(), nil
}
