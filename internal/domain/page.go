package domain

// Link is a (text, href) pair collected from an anchor element
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// TableData is a preview of the first table on a page
type TableData struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// FormInput describes a single form control
type FormInput struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	Required    bool   `json:"required"`
}

// FormSummary describes the form controls found on a page
type FormSummary struct {
	Inputs []FormInput `json:"inputs"`
}

// Pagination captures the state of a pagination control
type Pagination struct {
	Current string `json:"current"`
	Total   string `json:"total"`
	HasNext bool   `json:"has_next"`
	HasPrev bool   `json:"has_prev"`
}

// Widgets captures transient UI widgets visible on a page
type Widgets struct {
	Toasts   []string `json:"toasts"`
	Dialogs  []string `json:"dialogs"`
	Tooltips []string `json:"tooltips"`
}

// ImageInfo is a preview of an image element
type ImageInfo struct {
	Alt     string `json:"alt"`
	Loading string `json:"loading"`
}

// RolePair is an (role, accessible name) pair for an interactive element
type RolePair struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

// TabState captures a tab control and whether it is selected
type TabState struct {
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// AccordionState captures an accordion header and whether it is expanded
type AccordionState struct {
	Text     string `json:"text"`
	Expanded bool   `json:"expanded"`
}

// PageArchitecture holds element counts and density ratios for a page
type PageArchitecture struct {
	Counts map[string]int     `json:"counts"`
	Ratios map[string]float64 `json:"ratios"`
}

// Iframe document context types
const (
	ContextMainDocument = "main_document"
	ContextIframe       = "iframe"
)

// IframeDocument is the content collected from one browsing context
// (the main document or a same-origin iframe).
type IframeDocument struct {
	Context  string   `json:"context"`
	Index    int      `json:"index"`
	Title    string   `json:"title"`
	Headings []string `json:"headings"`
	Buttons  []string `json:"buttons"`
	Links    []Link   `json:"links"`
}

// ElementCount returns the number of collected elements in this document
func (d IframeDocument) ElementCount() int {
	return len(d.Headings) + len(d.Buttons) + len(d.Links)
}

// IframeContent aggregates content across the main document and all
// accessible same-origin iframes.
type IframeContent struct {
	Documents         []IframeDocument `json:"documents"`
	TotalIframes      int              `json:"total_iframes"`
	AccessibleIframes int              `json:"accessible_iframes"`
	TotalElements     int              `json:"total_elements"`
}

// Main returns the main-document entry, or nil if it was not collected
func (c IframeContent) Main() *IframeDocument {
	for i := range c.Documents {
		if c.Documents[i].Context == ContextMainDocument {
			return &c.Documents[i]
		}
	}
	return nil
}

// Iframes returns the non-main documents
func (c IframeContent) Iframes() []IframeDocument {
	var frames []IframeDocument
	for _, d := range c.Documents {
		if d.Context != ContextMainDocument {
			frames = append(frames, d)
		}
	}
	return frames
}
