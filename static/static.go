// Package static serves the timewarp service's embedded browser-facing
// assets: the landing page under "public/" and the OpenAPI description of
// the JSON bucketing API.
package static

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
)

const PublicFSDirSegment = "public"
const PublicPathPrefix = "/" + PublicFSDirSegment + "/"

// OpenAPIPath is the URL path the OpenAPI description is served at.
const OpenAPIPath = "/openapi.json"

//go:embed public
var PublicFS embed.FS

//go:embed openapi.json
var OpenAPIFS embed.FS

// PublicHandler returns an http.Handler that serves embedded files under the
// "public/" subdirectory of the provided embed.FS. This content MUST be served
// under the /public pattern
func PublicHandler(staticFS embed.FS) (http.Handler, error) {
	return publicContentHandler(staticFS, PublicFSDirSegment, PublicFSDirSegment)
}

// publicContentHandler returns an http.Handler that serves embedded files from a
// subdirectory within the embed.FS (e.g., "static") and maps them to a given URL prefix.
//
// For example:
//   - Embedded files live under embed.FS path "static/**"
//   - You want to serve them at the URL prefix "/assets/"
//
// Call:
//
//	publicContentHandler(staticFS, "static", "assets")
//
// Then a request to /assets/index.html will serve embedded file "static/index.html".
func publicContentHandler(embeddedFS embed.FS, subdir, urlPrefix string) (http.Handler, error) {

	cleanStaticDir := strings.Trim(subdir, "/")
	cleanURLPrefix := strings.Trim(urlPrefix, "/")
	subFS, err := fs.Sub(embeddedFS, cleanStaticDir)
	if err != nil {
		return nil, fmt.Errorf("cannot create sub FS: %w", err)
	}

	prefix := fmt.Sprintf("/%s/", cleanURLPrefix)
	return http.StripPrefix(prefix, http.FileServer(http.FS(subFS))), nil
}
