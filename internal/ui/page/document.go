// Package page owns the document-level side effects of the site: title,
// meta tags, the structured-data script, preload hints, scroll behaviour and
// the body scroll lock. Document is an in-memory stand-in for the browser
// document, so the effects can be applied, rendered and tested on the
// server.
package page

import (
	"strconv"
	"sync"
)

// MetaAttr is the attribute a meta tag is selected by.
type MetaAttr string

// Meta selector attributes.
const (
	AttrName     MetaAttr = "name"
	AttrProperty MetaAttr = "property"
)

// Meta is a <meta> tag.
type Meta struct {
	Attr    MetaAttr
	Key     string
	Content string
}

// Script is a <script> element appended to the head.
type Script struct {
	ID   string
	Type string
	Body string
}

// Link is a <link> hint such as a preload.
type Link struct {
	Rel  string
	As   string
	Href string
}

// Document holds the mutable document state for one page instance.
type Document struct {
	mu             sync.Mutex
	title          string
	meta           []Meta
	scripts        []Script
	links          []Link
	scrollBehavior string
	scrollLocks    int
	scriptSeq      int
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// Title returns the document title.
func (d *Document) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.title
}

// SetTitle sets the document title.
func (d *Document) SetTitle(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.title = title
}

// UpsertMeta updates the tag matching attr and key, or appends it.
func (d *Document) UpsertMeta(attr MetaAttr, key, content string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.meta {
		if d.meta[i].Attr == attr && d.meta[i].Key == key {
			d.meta[i].Content = content
			return
		}
	}

	d.meta = append(d.meta, Meta{Attr: attr, Key: key, Content: content})
}

// MetaContent returns the content of the tag matching attr and key.
func (d *Document) MetaContent(attr MetaAttr, key string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, m := range d.meta {
		if m.Attr == attr && m.Key == key {
			return m.Content, true
		}
	}

	return "", false
}

// Meta returns a copy of the meta tags in insertion order.
func (d *Document) Meta() []Meta {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]Meta(nil), d.meta...)
}

// AppendScript adds a script and returns the func that removes exactly
// that element.
func (d *Document) AppendScript(typ, body string) (remove func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.scriptSeq++
	id := "script-" + strconv.Itoa(d.scriptSeq)
	d.scripts = append(d.scripts, Script{ID: id, Type: typ, Body: body})

	var once sync.Once

	return func() {
		once.Do(func() { d.removeScript(id) })
	}
}

func (d *Document) removeScript(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, s := range d.scripts {
		if s.ID == id {
			d.scripts = append(d.scripts[:i], d.scripts[i+1:]...)
			return
		}
	}
}

// Scripts returns a copy of the scripts, optionally filtered by type.
func (d *Document) Scripts(typ string) []Script {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Script, 0, len(d.scripts))
	for _, s := range d.scripts {
		if typ == "" || s.Type == typ {
			out = append(out, s)
		}
	}

	return out
}

// AddLink appends a link unless one with the same rel and href exists.
func (d *Document) AddLink(link Link) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, l := range d.links {
		if l.Rel == link.Rel && l.Href == link.Href {
			return
		}
	}

	d.links = append(d.links, link)
}

// Links returns a copy of the links.
func (d *Document) Links() []Link {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]Link(nil), d.links...)
}

// SetScrollBehavior sets the root element's scroll-behavior.
func (d *Document) SetScrollBehavior(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.scrollBehavior = v
}

// ScrollBehavior returns the root element's scroll-behavior.
func (d *Document) ScrollBehavior() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.scrollBehavior
}

// LockScroll disables background scrolling until the returned release is
// called. Locks are counted: scrolling comes back only when every holder
// has released. Release is idempotent.
func (d *Document) LockScroll() (release func()) {
	d.mu.Lock()
	d.scrollLocks++
	d.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			d.mu.Lock()
			d.scrollLocks--
			d.mu.Unlock()
		})
	}
}

// ScrollLocked reports whether any holder has the scroll lock.
func (d *Document) ScrollLocked() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.scrollLocks > 0
}

// ScrollLocks returns the number of outstanding locks.
func (d *Document) ScrollLocks() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.scrollLocks
}

// BodyOverflow returns the body overflow style implied by the lock.
func (d *Document) BodyOverflow() string {
	if d.ScrollLocked() {
		return "hidden"
	}

	return ""
}
