// Package openapi serves the OpenAPI 3.1 document generated from the
// registered Huma operations, plus a Swagger UI page for browsing it.
package openapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/labstack/echo/v4"
	"gopkg.in/yaml.v3"
)

const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>eBay Listing Creator API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: "/openapi.json",
      dom_id: "#swagger-ui",
      presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
      layout: "BaseLayout",
    });
  </script>
</body>
</html>`

// RegisterRoutes adds spec and Swagger UI endpoints to the Echo instance.
// The document is rendered on each request so operations registered after
// this call still appear.
func RegisterRoutes(e *echo.Echo, api huma.API) {
	e.GET("/openapi.json", serveJSON(api))
	e.GET("/openapi.yaml", serveYAML(api))
	e.GET("/swagger/index.html", serveUI)
	e.GET("/swagger", redirectToUI)
	e.GET("/swagger/", redirectToUI)
}

// Render returns the document for api as JSON or YAML.
func Render(api huma.API, format string) ([]byte, error) {
	data, err := json.Marshal(api.OpenAPI())
	if err != nil {
		return nil, fmt.Errorf("marshaling openapi: %w", err)
	}
	switch format {
	case "json":
		return data, nil
	case "yaml":
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding openapi: %w", err)
		}
		out, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encoding openapi yaml: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown openapi format %q", format)
	}
}

func serveJSON(api huma.API) echo.HandlerFunc {
	return func(c echo.Context) error {
		data, err := Render(api, "json")
		if err != nil {
			return c.String(http.StatusInternalServerError, err.Error())
		}
		return c.Blob(http.StatusOK, "application/json", data)
	}
}

func serveYAML(api huma.API) echo.HandlerFunc {
	return func(c echo.Context) error {
		data, err := Render(api, "yaml")
		if err != nil {
			return c.String(http.StatusInternalServerError, err.Error())
		}
		return c.Blob(http.StatusOK, "application/yaml", data)
	}
}

func serveUI(c echo.Context) error {
	return c.HTML(http.StatusOK, swaggerUIHTML)
}

func redirectToUI(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
}
