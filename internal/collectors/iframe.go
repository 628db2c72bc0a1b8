package collectors

import (
	"fmt"

	"github.com/uiparity/uiparity/internal/domain"
	"github.com/uiparity/uiparity/internal/driver"
)

// IframeContent collects headings, buttons, and links from the main
// document and every same-origin iframe in one page round-trip.
// Cross-origin frames count toward the total but contribute no content.
func IframeContent(d driver.Driver) (domain.IframeContent, error) {
	v, err := d.Evaluate(`(() => {
		const snapshot = (doc, context, index) => ({
			context: context,
			index: index,
			title: doc.title || '',
			headings: Array.from(doc.querySelectorAll('h1, h2, h3, h4, h5, h6')).map(h => h.textContent.trim()),
			buttons: Array.from(doc.querySelectorAll('button, input[type="submit"], input[type="button"]'))
				.map(b => (b.textContent || b.value || '').trim()),
			links: Array.from(doc.querySelectorAll('a[href]'))
				.map(a => ({text: a.textContent.trim(), href: a.getAttribute('href')})),
		});

		const documents = [snapshot(document, 'main_document', -1)];
		const frames = Array.from(document.querySelectorAll('iframe'));
		let accessible = 0;
		frames.forEach((frame, i) => {
			try {
				if (frame.contentDocument) {
					documents.push(snapshot(frame.contentDocument, 'iframe', i));
					accessible++;
				}
			} catch (e) {
				// cross-origin frame
			}
		});

		let totalElements = 0;
		documents.forEach(doc => {
			totalElements += doc.headings.length + doc.buttons.length + doc.links.length;
		});
		return {
			documents: documents,
			total_iframes: frames.length,
			accessible_iframes: accessible,
			total_elements: totalElements,
		};
	})()`)
	if err != nil {
		return domain.IframeContent{}, fmt.Errorf("collecting iframe content: %w", err)
	}

	raw, err := expectMap(v, "iframe content")
	if err != nil {
		return domain.IframeContent{}, err
	}

	content := domain.IframeContent{
		TotalIframes:      toInt(raw["total_iframes"]),
		AccessibleIframes: toInt(raw["accessible_iframes"]),
		TotalElements:     toInt(raw["total_elements"]),
	}
	for _, item := range toSlice(raw["documents"]) {
		m := toMap(item)
		doc := domain.IframeDocument{
			Context:  toString(m["context"]),
			Index:    toInt(m["index"]),
			Title:    toString(m["title"]),
			Headings: toStringSlice(m["headings"]),
			Buttons:  toStringSlice(m["buttons"]),
		}
		for _, link := range toSlice(m["links"]) {
			lm := toMap(link)
			doc.Links = append(doc.Links, domain.Link{
				Text: toString(lm["text"]),
				Href: toString(lm["href"]),
			})
		}
		content.Documents = append(content.Documents, doc)
	}
	return content, nil
}
