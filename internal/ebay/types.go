package ebay

// CategorySuggestion is one entry of a taxonomy suggestion list.
type CategorySuggestion struct {
	AncestorName string `json:"ancestor_name"`
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
}

// Label renders the suggestion the way the form lists it.
func (c CategorySuggestion) Label() string {
	if c.AncestorName == "" {
		return c.CategoryName
	}
	return c.AncestorName + " > " + c.CategoryName
}

// Aspect modes reported by the taxonomy API.
const (
	AspectModeFreeText      = "FREE_TEXT"
	AspectModeSelectionOnly = "SELECTION_ONLY"
)

// CategoryAspect is an item aspect required by a leaf category.
type CategoryAspect struct {
	Name          string   `json:"name"`
	DataType      string   `json:"data_type"`
	Mode          string   `json:"mode"`
	AllowedValues []string `json:"allowed_values"`
	Required      bool     `json:"required"`
}

// Accepts reports whether value is a legal answer for the aspect.
func (a CategoryAspect) Accepts(value string) bool {
	if value == "" {
		return false
	}
	if a.Mode != AspectModeSelectionOnly || len(a.AllowedValues) == 0 {
		return true
	}
	for _, v := range a.AllowedValues {
		if v == value {
			return true
		}
	}
	return false
}

type categoryRef struct {
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
}

type categorySuggestionEntry struct {
	Category                  categoryRef   `json:"category"`
	CategoryTreeNodeAncestors []categoryRef `json:"categoryTreeNodeAncestors"`
	CategoryTreeNodeLevel     int           `json:"categoryTreeNodeLevel"`
}

type categorySuggestionsResponse struct {
	CategorySuggestions []categorySuggestionEntry `json:"categorySuggestions"`
	CategoryTreeID      string                    `json:"categoryTreeId"`
}

type defaultTreeResponse struct {
	CategoryTreeID      string `json:"categoryTreeId"`
	CategoryTreeVersion string `json:"categoryTreeVersion"`
}

type aspectConstraint struct {
	AspectDataType string `json:"aspectDataType"`
	AspectMode     string `json:"aspectMode"`
	AspectRequired bool   `json:"aspectRequired"`
}

type aspectValue struct {
	LocalizedValue string `json:"localizedValue"`
}

type aspectEntry struct {
	LocalizedAspectName string           `json:"localizedAspectName"`
	AspectConstraint    aspectConstraint `json:"aspectConstraint"`
	AspectValues        []aspectValue    `json:"aspectValues"`
}

type aspectsResponse struct {
	Aspects []aspectEntry `json:"aspects"`
}

func (e categorySuggestionEntry) toSuggestion() CategorySuggestion {
	s := CategorySuggestion{
		CategoryID:   e.Category.CategoryID,
		CategoryName: e.Category.CategoryName,
	}
	if len(e.CategoryTreeNodeAncestors) > 0 {
		s.AncestorName = e.CategoryTreeNodeAncestors[0].CategoryName
	}
	return s
}

func (e aspectEntry) toAspect() CategoryAspect {
	values := make([]string, 0, len(e.AspectValues))
	for _, v := range e.AspectValues {
		values = append(values, v.LocalizedValue)
	}
	return CategoryAspect{
		Name:          e.LocalizedAspectName,
		DataType:      e.AspectConstraint.AspectDataType,
		Mode:          e.AspectConstraint.AspectMode,
		AllowedValues: values,
		Required:      e.AspectConstraint.AspectRequired,
	}
}
