// Package references records the links to other sections of the standard
// that appear in attribute descriptions.
//
// Each recorded anchor becomes a modules.Reference keyed by its absolute
// source URL, and the anchor itself is neutralised (renamed to a span with
// an empty href) so a later pass does not record it twice. Links to other
// standard parts, glossary entries and external protocols are left alone.
package references

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/agentstation/dicomstd/pkg/constants"
	"github.com/agentstation/dicomstd/pkg/errors"
	"github.com/agentstation/dicomstd/pkg/modules"
)

var defaultIgnored = regexp.MustCompile(constants.IgnoredReferencePattern)

// Recorder extracts and neutralises description references.
type Recorder struct {
	baseURL     string
	defaultPage string
	ignored     *regexp.Regexp
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithBaseURL sets the URL that resolved hrefs are appended to.
func WithBaseURL(baseURL string) Option {
	return func(r *Recorder) {
		if baseURL != "" {
			r.baseURL = baseURL
		}
	}
}

// WithIgnored replaces the pattern of hrefs that are never recorded.
func WithIgnored(re *regexp.Regexp) Option {
	return func(r *Recorder) {
		if re != nil {
			r.ignored = re
		}
	}
}

// New creates a Recorder resolving against constants.DefaultBaseURL.
func New(opts ...Option) *Recorder {
	r := &Recorder{
		baseURL:     constants.DefaultBaseURL,
		defaultPage: constants.DefaultReferencePage,
		ignored:     defaultIgnored,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BaseURL returns the base URL references resolve against.
func (r *Recorder) BaseURL() string {
	return r.baseURL
}

// Ignored reports whether href is never recorded.
func (r *Recorder) Ignored(href string) bool {
	return r.ignored.MatchString(href)
}

// ResolveHref turns a relative href into "page#section". Same-page links
// ("#sect_10.1") resolve against part03.html.
func (r *Recorder) ResolveHref(href string) string {
	page, section, found := strings.Cut(href, "#")
	if page == "" {
		page = r.defaultPage
	}
	if !found {
		return page
	}
	return page + "#" + section
}

// Resolve returns the resolved hrefs of every recordable anchor in
// description without modifying it.
func (r *Recorder) Resolve(description string) ([]string, error) {
	nodes, err := parseFragment(description)
	if err != nil {
		return nil, err
	}
	var hrefs []string
	for _, a := range r.anchors(nodes) {
		href, _ := attr(a, "href")
		hrefs = append(hrefs, r.ResolveHref(href))
	}
	return hrefs, nil
}

// Record returns description with every recordable anchor neutralised, and
// the references those anchors pointed to. The returned slice is never nil.
// A description without recordable anchors is returned unchanged.
func (r *Recorder) Record(description string) (string, []modules.Reference, error) {
	refs := []modules.Reference{}
	if !strings.Contains(description, "<") {
		return description, refs, nil
	}

	nodes, err := parseFragment(description)
	if err != nil {
		return "", nil, err
	}

	anchors := r.anchors(nodes)
	if len(anchors) == 0 {
		return description, refs, nil
	}

	for _, a := range anchors {
		href, _ := attr(a, "href")
		refs = append(refs, modules.Reference{
			SourceURL: r.baseURL + r.ResolveHref(href),
			Title:     textContent(a),
		})
		markRecorded(a)
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", nil, errors.WrapParse("html", "", err)
		}
	}
	return buf.String(), refs, nil
}

// RecordModule returns a copy of m whose attributes carry their external
// references and neutralised descriptions.
func (r *Recorder) RecordModule(m *modules.Module) (*modules.Module, error) {
	if m == nil {
		return nil, errors.NewValidationError("module", nil, "module is nil")
	}
	out := m.Clone()
	for i, a := range out.Attributes {
		if a == nil {
			return nil, errors.NewValidationError("attributes", i, "attribute is nil")
		}
		desc, refs, err := r.Record(a.Description)
		if err != nil {
			return nil, errors.WrapModule(m.ID, err)
		}
		a.Description = desc
		a.ExternalReferences = refs
	}
	return out, nil
}

// anchors returns the <a href> elements under nodes whose href is not ignored.
func (r *Recorder) anchors(nodes []*html.Node) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			if href, ok := attr(n, "href"); ok && !r.Ignored(href) {
				found = append(found, n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return found
}

func parseFragment(description string) ([]*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(description), body)
	if err != nil {
		return nil, errors.WrapParse("html", "", err)
	}
	return nodes, nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func markRecorded(n *html.Node) {
	n.Data = "span"
	n.DataAtom = atom.Span
	for i := range n.Attr {
		if n.Attr[i].Key == "href" {
			n.Attr[i].Val = ""
		}
	}
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
