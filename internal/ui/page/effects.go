package page

import (
	"fmt"
	"strings"

	"github.com/jsamuelsen/marketing-site/internal/domain"
)

// IconURLFunc maps a business URL to the favicon URL the page should use.
type IconURLFunc func(businessURL string) string

// Effects applies a site's document side effects and reverts the ones that
// belong to a single mount. Title, meta tags, preload hints and scroll
// behaviour persist for the life of the document; only the structured-data
// script is removed on Revert.
type Effects struct {
	doc     *Document
	origin  string
	iconURL IconURLFunc

	removeScript func()
}

// NewEffects binds effects to doc. origin is the public site URL used in
// the structured data; iconURL defaults to the public favicon service.
func NewEffects(doc *Document, origin string, iconURL IconURLFunc) *Effects {
	if iconURL == nil {
		iconURL = func(u string) string { return domain.FaviconURL("", u) }
	}

	return &Effects{doc: doc, origin: origin, iconURL: iconURL}
}

// Document returns the bound document.
func (e *Effects) Document() *Document {
	return e.doc
}

// Apply writes site's metadata into the document. Applying again, with the
// same or a newer site, replaces the structured-data script rather than
// adding a second one.
func (e *Effects) Apply(site *domain.Site) error {
	body, err := EncodeStructuredData(site, e.origin)
	if err != nil {
		return fmt.Errorf("encoding structured data: %w", err)
	}

	seo := site.SEO
	e.doc.SetTitle(seo.Title)

	e.doc.UpsertMeta(AttrName, "description", seo.Description)
	e.doc.UpsertMeta(AttrName, "keywords", strings.Join(seo.Keywords, ", "))
	e.doc.UpsertMeta(AttrProperty, "og:title", seo.Title)
	e.doc.UpsertMeta(AttrProperty, "og:description", seo.Description)
	e.doc.UpsertMeta(AttrProperty, "og:image", seo.OGImage)
	e.doc.UpsertMeta(AttrProperty, "og:type", "profile")
	e.doc.UpsertMeta(AttrName, "twitter:card", "summary_large_image")
	e.doc.UpsertMeta(AttrName, "twitter:title", seo.Title)
	e.doc.UpsertMeta(AttrName, "twitter:description", seo.Description)
	e.doc.UpsertMeta(AttrName, "twitter:image", seo.OGImage)

	if e.removeScript != nil {
		e.removeScript()
	}
	e.removeScript = e.doc.AppendScript(StructuredDataType, body)

	for _, b := range site.Businesses {
		e.doc.AddLink(Link{Rel: "preload", As: "image", Href: e.iconURL(b.URL)})
	}

	e.doc.SetScrollBehavior("smooth")

	return nil
}

// Revert removes the structured-data script added by Apply. Safe to call
// without a prior Apply.
func (e *Effects) Revert() {
	if e.removeScript != nil {
		e.removeScript()
		e.removeScript = nil
	}
}

// Applied reports whether a structured-data script from this instance is
// in the document.
func (e *Effects) Applied() bool {
	return e.removeScript != nil
}
