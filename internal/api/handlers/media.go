package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/ebay-listing-creator/internal/listing"
)

// maxUploadBytes caps a single uploaded file.
const maxUploadBytes = 64 << 20

// UploadForm is the multipart form for image and video uploads.
type UploadForm struct {
	File huma.FormFile `form:"file" required:"true" doc:"File to attach"`
}

// UploadInput is the input for uploading an image or video.
type UploadInput struct {
	ID      string `path:"id" doc:"Session ULID"`
	RawBody huma.MultipartFormFiles[UploadForm]
}

// RemoveImageInput is the input for removing an image.
type RemoveImageInput struct {
	ID    string `path:"id"    doc:"Session ULID"`
	Index int    `path:"index" doc:"Image position" minimum:"0"`
}

// AddImage attaches an uploaded image to the draft.
func (h *SessionsHandler) AddImage(
	ctx context.Context,
	input *UploadInput,
) (*SessionOutput, error) {
	m, err := readUpload(input)
	if err != nil {
		return nil, err
	}
	return render(h.ctrl.AddImage(ctx, input.ID, m))
}

// SetVideo attaches an uploaded video, replacing any previous one.
func (h *SessionsHandler) SetVideo(
	ctx context.Context,
	input *UploadInput,
) (*SessionOutput, error) {
	m, err := readUpload(input)
	if err != nil {
		return nil, err
	}
	return render(h.ctrl.SetVideo(ctx, input.ID, m))
}

// RemoveImage drops the image at the given position.
func (h *SessionsHandler) RemoveImage(
	ctx context.Context,
	input *RemoveImageInput,
) (*SessionOutput, error) {
	return render(h.ctrl.RemoveImage(ctx, input.ID, input.Index))
}

// ClearVideo removes the video.
func (h *SessionsHandler) ClearVideo(
	ctx context.Context,
	input *SessionIDInput,
) (*SessionOutput, error) {
	return render(h.ctrl.ClearVideo(ctx, input.ID))
}

func readUpload(input *UploadInput) (listing.Media, error) {
	form := input.RawBody.Data()
	if form == nil || !form.File.IsSet {
		return listing.Media{}, huma.Error422UnprocessableEntity("file is required")
	}
	defer form.File.Close()

	if form.File.Size > maxUploadBytes {
		return listing.Media{}, huma.Error413RequestEntityTooLarge(
			fmt.Sprintf("file exceeds %d bytes", maxUploadBytes),
		)
	}

	data, err := io.ReadAll(io.LimitReader(form.File, maxUploadBytes))
	if err != nil {
		return listing.Media{}, huma.Error400BadRequest("reading upload: " + err.Error())
	}

	return listing.Media{
		Name:        form.File.Filename,
		ContentType: form.File.ContentType,
		Data:        data,
	}, nil
}

// RegisterMediaRoutes registers image and video endpoints with the Huma API.
func RegisterMediaRoutes(api huma.API, h *SessionsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "add-image",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/images",
		Summary:     "Upload an image",
		Description: "Appends an image to the draft. At most 24 images are kept.",
		Tags:        []string{"media"},
		Errors: []int{
			http.StatusNotFound,
			http.StatusConflict,
			http.StatusRequestEntityTooLarge,
			http.StatusUnprocessableEntity,
		},
	}, h.AddImage)

	huma.Register(api, huma.Operation{
		OperationID: "remove-image",
		Method:      http.MethodDelete,
		Path:        "/api/v1/sessions/{id}/images/{index}",
		Summary:     "Remove an image",
		Description: "Removes the image at the given position.",
		Tags:        []string{"media"},
		Errors:      []int{http.StatusNotFound, http.StatusUnprocessableEntity},
	}, h.RemoveImage)

	huma.Register(api, huma.Operation{
		OperationID: "set-video",
		Method:      http.MethodPut,
		Path:        "/api/v1/sessions/{id}/video",
		Summary:     "Upload a video",
		Description: "Attaches a video to the draft, replacing any previous one.",
		Tags:        []string{"media"},
		Errors: []int{
			http.StatusNotFound,
			http.StatusRequestEntityTooLarge,
			http.StatusUnprocessableEntity,
		},
	}, h.SetVideo)

	huma.Register(api, huma.Operation{
		OperationID: "clear-video",
		Method:      http.MethodDelete,
		Path:        "/api/v1/sessions/{id}/video",
		Summary:     "Remove the video",
		Tags:        []string{"media"},
		Errors:      []int{http.StatusNotFound},
	}, h.ClearVideo)
}
