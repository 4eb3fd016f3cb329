// Package web holds the embedded page template and client script, and
// renders a server-side page from an app.Rendered.
package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/jsamuelsen/marketing-site/internal/app"
	"github.com/jsamuelsen/marketing-site/internal/ui/controller"
)

// PageTemplate is the name of the root template.
const PageTemplate = "page.html"

// StaticPath is the route prefix of the embedded assets.
const StaticPath = "/static/"

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses the embedded templates.
func Templates() (*template.Template, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing page templates: %w", err)
	}

	return t, nil
}

// Static returns the embedded client assets rooted at their directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The directory is embedded at build time.
		panic(err)
	}

	return sub
}

// PageData is the root template input.
type PageData struct {
	Page  controller.Page
	Frame controller.Frame

	// StructuredData and FrameJSON are encoder output placed in script
	// elements verbatim.
	StructuredData template.JS
	FrameJSON      template.JS

	// Live includes the session script. A static export leaves it off.
	Live        bool
	SessionPath string
	StaticPath  string

	// LeadForm shows the overlay's email form.
	LeadForm bool
}

// Options tunes NewPageData.
type Options struct {
	Live        bool
	SessionPath string
	LeadForm    bool
}

// NewPageData prepares r for the page template.
func NewPageData(r *app.Rendered, opts Options) (PageData, error) {
	frame, err := json.Marshal(r.Frame)
	if err != nil {
		return PageData{}, fmt.Errorf("encoding initial frame: %w", err)
	}

	return PageData{
		Page:  r.Page,
		Frame: r.Frame,
		// json.Marshal escapes <, > and &, so the bodies cannot close
		// their script element.
		StructuredData: template.JS(r.Page.Head.StructuredData), //nolint:gosec // encoder output
		FrameJSON:      template.JS(frame),                      //nolint:gosec // encoder output
		Live:           opts.Live,
		SessionPath:    opts.SessionPath,
		StaticPath:     StaticPath,
		LeadForm:       opts.LeadForm,
	}, nil
}

// Render writes the page for r to w.
func Render(w io.Writer, t *template.Template, data PageData) error {
	if err := t.ExecuteTemplate(w, PageTemplate, data); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}

	return nil
}
