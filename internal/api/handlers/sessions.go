package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/ebay-listing-creator/internal/ebay"
	"github.com/donaldgifford/ebay-listing-creator/internal/listing"
)

// SessionsHandler exposes the listing controller over HTTP.
type SessionsHandler struct {
	ctrl *listing.Controller
}

// NewSessionsHandler creates a new SessionsHandler.
func NewSessionsHandler(ctrl *listing.Controller) *SessionsHandler {
	return &SessionsHandler{ctrl: ctrl}
}

// --- Input/Output types ---

// CreateSessionInput is the input for creating a session.
type CreateSessionInput struct {
	Environment string `query:"environment" doc:"eBay environment (default sandbox)" enum:"production,sandbox,"`
}

// SessionIDInput identifies a session.
type SessionIDInput struct {
	ID string `path:"id" doc:"Session ULID"`
}

// SessionOutput is the rendered session.
type SessionOutput struct {
	Body listing.View
}

// UpdateDraftInput is the input for patching the draft form fields.
type UpdateDraftInput struct {
	ID   string `path:"id" doc:"Session ULID"`
	Body listing.DraftPatch
}

// SelectCategoryInput is the input for choosing a suggested category.
type SelectCategoryInput struct {
	ID   string `path:"id" doc:"Session ULID"`
	Body struct {
		Index int `json:"index" minimum:"0" doc:"Index into the current suggestions"`
	}
}

// SetAspectInput is the input for answering a category aspect.
type SetAspectInput struct {
	ID   string `path:"id"   doc:"Session ULID"`
	Name string `path:"name" doc:"Localized aspect name"`
	Body struct {
		Value string `json:"value" doc:"Aspect value; empty clears the answer"`
	}
}

// CreateListingOutput is the assembled listing payload.
type CreateListingOutput struct {
	Body listing.Listing
}

// --- Handlers ---

// CreateSession starts a new, unauthenticated session.
func (h *SessionsHandler) CreateSession(
	ctx context.Context,
	input *CreateSessionInput,
) (*SessionOutput, error) {
	v, err := h.ctrl.NewSession(ctx, ebay.Environment(input.Environment))
	if err != nil {
		return nil, apiError(err)
	}
	return &SessionOutput{Body: v}, nil
}

// GetSession renders a session. A code delivered by the callback listener
// is exchanged first.
func (h *SessionsHandler) GetSession(
	ctx context.Context,
	input *SessionIDInput,
) (*SessionOutput, error) {
	return render(h.ctrl.Get(ctx, input.ID))
}

// DeleteSession removes a session and its persisted state.
func (h *SessionsHandler) DeleteSession(
	ctx context.Context,
	input *SessionIDInput,
) (*struct{}, error) {
	if err := h.ctrl.DeleteSession(ctx, input.ID); err != nil {
		return nil, apiError(err)
	}
	return nil, nil
}

// Login begins the OAuth consent handshake.
func (h *SessionsHandler) Login(
	ctx context.Context,
	input *SessionIDInput,
) (*SessionOutput, error) {
	return render(h.ctrl.Login(ctx, input.ID))
}

// Logout clears tokens and the draft.
func (h *SessionsHandler) Logout(
	ctx context.Context,
	input *SessionIDInput,
) (*SessionOutput, error) {
	return render(h.ctrl.Logout(ctx, input.ID))
}

// Refresh renews the seller's user token.
func (h *SessionsHandler) Refresh(
	ctx context.Context,
	input *SessionIDInput,
) (*SessionOutput, error) {
	return render(h.ctrl.RefreshUserToken(ctx, input.ID))
}

// UpdateDraft applies form field changes.
func (h *SessionsHandler) UpdateDraft(
	ctx context.Context,
	input *UpdateDraftInput,
) (*SessionOutput, error) {
	return render(h.ctrl.UpdateDraft(ctx, input.ID, input.Body))
}

// SuggestCategories queries eBay for categories matching the product.
func (h *SessionsHandler) SuggestCategories(
	ctx context.Context,
	input *SessionIDInput,
) (*SessionOutput, error) {
	return render(h.ctrl.SuggestCategories(ctx, input.ID))
}

// SelectCategory picks a suggestion and loads its aspects.
func (h *SessionsHandler) SelectCategory(
	ctx context.Context,
	input *SelectCategoryInput,
) (*SessionOutput, error) {
	return render(h.ctrl.SelectCategory(ctx, input.ID, input.Body.Index))
}

// SetAspect records the value of one category aspect.
func (h *SessionsHandler) SetAspect(
	ctx context.Context,
	input *SetAspectInput,
) (*SessionOutput, error) {
	return render(h.ctrl.SetAspect(ctx, input.ID, input.Name, input.Body.Value))
}

// GenerateListing asks the copywriter for a title and description.
func (h *SessionsHandler) GenerateListing(
	ctx context.Context,
	input *SessionIDInput,
) (*SessionOutput, error) {
	return render(h.ctrl.GenerateListing(ctx, input.ID))
}

// CreateListing assembles the listing payload.
func (h *SessionsHandler) CreateListing(
	ctx context.Context,
	input *SessionIDInput,
) (*CreateListingOutput, error) {
	l, err := h.ctrl.CreateListing(ctx, input.ID)
	if err != nil {
		return nil, apiError(err)
	}
	return &CreateListingOutput{Body: *l}, nil
}

func render(v listing.View, err error) (*SessionOutput, error) {
	if err != nil {
		return nil, apiError(err)
	}
	return &SessionOutput{Body: v}, nil
}

// RegisterSessionRoutes registers session endpoints with the Huma API.
func RegisterSessionRoutes(api huma.API, h *SessionsHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-session",
		Method:        http.MethodPost,
		Path:          "/api/v1/sessions",
		Summary:       "Create a session",
		Description:   "Creates an unauthenticated session with an empty draft.",
		Tags:          []string{"sessions"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusUnprocessableEntity},
	}, h.CreateSession)

	huma.Register(api, huma.Operation{
		OperationID: "get-session",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}",
		Summary:     "Get a session",
		Description: "Renders the session. A pending authorization code is exchanged first.",
		Tags:        []string{"sessions"},
		Errors:      []int{http.StatusNotFound, http.StatusBadGateway},
	}, h.GetSession)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-session",
		Method:        http.MethodDelete,
		Path:          "/api/v1/sessions/{id}",
		Summary:       "Delete a session",
		Description:   "Removes the session from memory and from the session store.",
		Tags:          []string{"sessions"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, h.DeleteSession)

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/login",
		Summary:     "Start eBay login",
		Description: "Acquires app tokens and returns the consent URL the seller must open.",
		Tags:        []string{"auth"},
		Errors:      []int{http.StatusNotFound, http.StatusConflict, http.StatusBadGateway},
	}, h.Login)

	huma.Register(api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/logout",
		Summary:     "Log out",
		Description: "Clears user tokens and resets the draft.",
		Tags:        []string{"auth"},
		Errors:      []int{http.StatusNotFound},
	}, h.Logout)

	huma.Register(api, huma.Operation{
		OperationID: "refresh-user-token",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/refresh",
		Summary:     "Refresh the user token",
		Description: "Exchanges the stored refresh token for a new user access token.",
		Tags:        []string{"auth"},
		Errors:      []int{http.StatusNotFound, http.StatusUnauthorized, http.StatusBadGateway},
	}, h.Refresh)

	huma.Register(api, huma.Operation{
		OperationID: "update-draft",
		Method:      http.MethodPatch,
		Path:        "/api/v1/sessions/{id}/draft",
		Summary:     "Update the draft",
		Description: "Applies the supplied form fields. Omitted fields are left unchanged.",
		Tags:        []string{"draft"},
		Errors:      []int{http.StatusNotFound, http.StatusUnprocessableEntity},
	}, h.UpdateDraft)

	huma.Register(api, huma.Operation{
		OperationID: "suggest-categories",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/categories/suggest",
		Summary:     "Suggest categories",
		Description: "Queries eBay taxonomy with the draft title and manufacturer.",
		Tags:        []string{"categories"},
		Errors: []int{
			http.StatusNotFound,
			http.StatusUnauthorized,
			http.StatusUnprocessableEntity,
			http.StatusBadGateway,
		},
	}, h.SuggestCategories)

	huma.Register(api, huma.Operation{
		OperationID: "select-category",
		Method:      http.MethodPut,
		Path:        "/api/v1/sessions/{id}/category",
		Summary:     "Select a category",
		Description: "Selects one of the current suggestions and loads its aspects.",
		Tags:        []string{"categories"},
		Errors: []int{
			http.StatusNotFound,
			http.StatusUnauthorized,
			http.StatusUnprocessableEntity,
			http.StatusBadGateway,
		},
	}, h.SelectCategory)

	huma.Register(api, huma.Operation{
		OperationID: "set-aspect",
		Method:      http.MethodPut,
		Path:        "/api/v1/sessions/{id}/aspects/{name}",
		Summary:     "Set an aspect value",
		Description: "Answers one aspect of the selected category. An empty value clears it.",
		Tags:        []string{"categories"},
		Errors:      []int{http.StatusNotFound, http.StatusUnprocessableEntity},
	}, h.SetAspect)

	huma.Register(api, huma.Operation{
		OperationID: "generate-listing",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/generate",
		Summary:     "Generate listing copy",
		Description: "Generates a title and description from the product fields.",
		Tags:        []string{"listing"},
		Errors: []int{
			http.StatusNotFound,
			http.StatusUnprocessableEntity,
			http.StatusBadGateway,
		},
	}, h.GenerateListing)

	huma.Register(api, huma.Operation{
		OperationID: "create-listing",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/listing",
		Summary:     "Create the listing payload",
		Description: "Assembles the listing from the draft. Nothing is submitted to eBay.",
		Tags:        []string{"listing"},
		Errors: []int{
			http.StatusNotFound,
			http.StatusUnauthorized,
			http.StatusUnprocessableEntity,
		},
	}, h.CreateListing)
}
