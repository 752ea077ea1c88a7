package listing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestDraft_Apply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		patch   DraftPatch
		wantErr string
		check   func(t *testing.T, d Draft)
	}{
		{
			name: "sets and trims fields",
			patch: DraftPatch{
				Title:     ptr("  iPhone 15 "),
				Price:     ptr(799.99),
				Quantity:  ptr(3),
				Condition: ptr("Pre-owned"),
				Policies:  &Policies{Payment: "PayPal"},
			},
			check: func(t *testing.T, d Draft) {
				assert.Equal(t, "iPhone 15", d.Title)
				assert.InDelta(t, 799.99, d.Price, 0)
				assert.Equal(t, 3, d.Quantity)
				assert.Equal(t, "Pre-owned", d.Condition)
				assert.Equal(t, "PayPal", d.Policies.Payment)
				assert.Equal(t, "EBAY_US", d.MarketplaceID, "unset fields keep defaults")
			},
		},
		{
			name:    "negative price",
			patch:   DraftPatch{Price: ptr(-1.0)},
			wantErr: "price must not be negative",
		},
		{
			name:    "negative weight",
			patch:   DraftPatch{Weight: ptr(-0.5)},
			wantErr: "weight must not be negative",
		},
		{
			name:    "zero quantity",
			patch:   DraftPatch{Quantity: ptr(0)},
			wantErr: "quantity must be at least 1",
		},
		{
			name:    "unknown condition",
			patch:   DraftPatch{Condition: ptr("Like new")},
			wantErr: `condition "Like new"`,
		},
		{
			name:    "unknown marketplace",
			patch:   DraftPatch{MarketplaceID: ptr("EBAY_JP")},
			wantErr: `marketplace "EBAY_JP"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := NewDraft()
			before := d.Title
			err := d.Apply(tt.patch)
			if tt.wantErr != "" {
				require.ErrorIs(t, err, ErrInvalidField)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, before, d.Title)
				return
			}
			require.NoError(t, err)
			tt.check(t, d)
		})
	}
}

func TestDraft_Images(t *testing.T) {
	t.Parallel()

	d := NewDraft()
	for i := range MaxImages {
		require.NoError(t, d.AddImage(Media{
			Name:        fmt.Sprintf("img-%d.jpg", i),
			ContentType: "image/jpeg",
			Data:        []byte{byte(i)},
		}))
	}

	err := d.AddImage(Media{Name: "extra.jpg", ContentType: "image/jpeg", Data: []byte{1}})
	require.ErrorIs(t, err, ErrImageLimit)
	assert.Len(t, d.Images, MaxImages)

	require.NoError(t, d.RemoveImage(0))
	assert.Equal(t, "img-1.jpg", d.Images[0].Name)
	assert.Len(t, d.Images, MaxImages-1)

	require.ErrorIs(t, d.RemoveImage(99), ErrInvalidField)
	require.ErrorIs(t, d.RemoveImage(-1), ErrInvalidField)

	err = d.AddImage(Media{Name: "clip.mp4", ContentType: "video/mp4", Data: []byte{1}})
	require.ErrorIs(t, err, ErrInvalidField)
}

func TestDraft_Video(t *testing.T) {
	t.Parallel()

	d := NewDraft()
	require.ErrorIs(t, d.SetVideo(Media{Name: "a.mp4", ContentType: "video/mp4"}), ErrInvalidField)
	require.ErrorIs(t, d.SetVideo(Media{Name: "a.png", ContentType: "image/png", Data: []byte{1}}), ErrInvalidField)

	require.NoError(t, d.SetVideo(Media{Name: "a.mp4", ContentType: "video/mp4", Data: []byte{1}}))
	require.NoError(t, d.SetVideo(Media{Name: "b.mov", ContentType: "video/quicktime", Data: []byte{2}}))
	assert.Equal(t, "b.mov", d.Video.Name)

	d.ClearVideo()
	assert.Nil(t, d.Video)
}

func TestDraft_Missing(t *testing.T) {
	t.Parallel()

	d := NewDraft()
	d.Title = "iPhone 15"

	err := d.missing("title", "manufacturer", "summary")
	require.ErrorIs(t, err, ErrMissingFields)
	assert.Contains(t, err.Error(), "manufacturer, summary")

	d.Manufacturer = "Apple"
	d.Summary = "A phone"
	require.NoError(t, d.missing("title", "manufacturer", "summary"))
}
