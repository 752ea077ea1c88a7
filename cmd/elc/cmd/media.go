package cmd

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/ebay-listing-creator/internal/listing"
)

func mediaCmd() *cobra.Command {
	mediaRoot := &cobra.Command{
		Use:   "media",
		Short: "Manage draft images and video",
	}

	mediaRoot.AddCommand(
		&cobra.Command{
			Use:     "add-image <file>",
			Short:   "Upload an image (at most 24)",
			Example: `  elc media add-image front.jpg`,
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := sessionID()
				if err != nil {
					return err
				}
				m, err := readMedia(args[0])
				if err != nil {
					return err
				}
				v, err := newClient().AddImage(context.Background(), id, m)
				if err != nil {
					return err
				}
				return renderView(cmd.OutOrStdout(), v)
			},
		},
		&cobra.Command{
			Use:   "remove-image <index>",
			Short: "Remove the image at index",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := sessionID()
				if err != nil {
					return err
				}
				index, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid index %q: %w", args[0], err)
				}
				v, err := newClient().RemoveImage(context.Background(), id, index)
				if err != nil {
					return err
				}
				return renderView(cmd.OutOrStdout(), v)
			},
		},
		&cobra.Command{
			Use:   "set-video <file>",
			Short: "Upload the video, replacing any previous one",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := sessionID()
				if err != nil {
					return err
				}
				m, err := readMedia(args[0])
				if err != nil {
					return err
				}
				v, err := newClient().SetVideo(context.Background(), id, m)
				if err != nil {
					return err
				}
				return renderView(cmd.OutOrStdout(), v)
			},
		},
		&cobra.Command{
			Use:   "clear-video",
			Short: "Remove the video",
			RunE: func(cmd *cobra.Command, _ []string) error {
				id, err := sessionID()
				if err != nil {
					return err
				}
				v, err := newClient().ClearVideo(context.Background(), id)
				if err != nil {
					return err
				}
				return renderView(cmd.OutOrStdout(), v)
			},
		},
	)

	return mediaRoot
}

// readMedia loads a file and guesses its content type from the extension,
// falling back to sniffing the bytes.
func readMedia(path string) (listing.Media, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path from CLI argument
	if err != nil {
		return listing.Media{}, fmt.Errorf("reading %s: %w", path, err)
	}
	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return listing.Media{
		Name:        filepath.Base(path),
		ContentType: ct,
		Data:        data,
	}, nil
}
