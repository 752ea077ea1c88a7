// Package main generates CLI reference documentation from the elc and
// listing-creator command trees, and writes the OpenAPI document.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/donaldgifford/ebay-listing-creator/api/openapi"
	elc "github.com/donaldgifford/ebay-listing-creator/cmd/elc/cmd"
	server "github.com/donaldgifford/ebay-listing-creator/cmd/listing-creator/cmd"
	"github.com/donaldgifford/ebay-listing-creator/internal/api/handlers"
)

func main() {
	output := flag.String("output", "docs/cli", "output directory for generated markdown")
	spec := flag.String("openapi", "docs/openapi.yaml", "path for the OpenAPI document (empty to skip)")
	flag.Parse()

	for name, root := range map[string]*cobra.Command{
		"elc":             elc.Root(),
		"listing-creator": server.Root(),
	} {
		dir := filepath.Join(*output, name)
		if err := genMarkdown(root, dir); err != nil {
			log.Fatalf("generating %s docs: %v", name, err)
		}
		fmt.Printf("CLI docs generated in %s/\n", dir)
	}

	if *spec != "" {
		if err := writeSpec(*spec); err != nil {
			log.Fatalf("writing openapi: %v", err)
		}
		fmt.Printf("OpenAPI document written to %s\n", *spec)
	}
}

func genMarkdown(root *cobra.Command, dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	root.DisableAutoGenTag = true
	return doc.GenMarkdownTree(root, dir)
}

// writeSpec registers every operation against handlers with no backing
// controller; registration only reads the types.
func writeSpec(path string) error {
	api := humaecho.New(echo.New(), huma.DefaultConfig("eBay Listing Creator API", server.Version))

	sessions := handlers.NewSessionsHandler(nil)
	handlers.RegisterSessionRoutes(api, sessions)
	handlers.RegisterMediaRoutes(api, sessions)
	handlers.RegisterQuotaRoutes(api, handlers.NewQuotaHandler(nil))

	data, err := openapi.Render(api, "yaml")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
