package collectors

import (
	"fmt"

	"github.com/uiparity/uiparity/internal/domain"
	"github.com/uiparity/uiparity/internal/driver"
)

// PageTitle collects the document title
func PageTitle(d driver.Driver) (string, error) {
	v, err := d.Evaluate(`document.title`)
	if err != nil {
		return "", fmt.Errorf("collecting page title: %w", err)
	}
	return toString(v), nil
}

// PrimaryH1 collects the text of the first h1 element
func PrimaryH1(d driver.Driver) (string, error) {
	v, err := d.Evaluate(`(() => {
		const h1 = document.querySelector('h1');
		return h1 ? h1.textContent.trim() : '';
	})()`)
	if err != nil {
		return "", fmt.Errorf("collecting primary h1: %w", err)
	}
	return toString(v), nil
}

// HeadingTexts collects all heading texts in document order
func HeadingTexts(d driver.Driver) ([]string, error) {
	v, err := d.Evaluate(`Array.from(document.querySelectorAll('h1, h2, h3, h4, h5, h6'))
		.map(h => h.textContent.trim())`)
	if err != nil {
		return nil, fmt.Errorf("collecting headings: %w", err)
	}
	return toStringSlice(v), nil
}

// ButtonTexts collects the visible text of all buttons
func ButtonTexts(d driver.Driver) ([]string, error) {
	v, err := d.Evaluate(`Array.from(document.querySelectorAll('button, input[type="submit"], input[type="button"]'))
		.map(b => (b.textContent || b.value || '').trim())`)
	if err != nil {
		return nil, fmt.Errorf("collecting buttons: %w", err)
	}
	return toStringSlice(v), nil
}

// NavLinkTexts collects the text of links inside navigation landmarks
func NavLinkTexts(d driver.Driver) ([]string, error) {
	v, err := d.Evaluate(`Array.from(document.querySelectorAll('nav a, [role="navigation"] a'))
		.map(a => a.textContent.trim())`)
	if err != nil {
		return nil, fmt.Errorf("collecting nav links: %w", err)
	}
	return toStringSlice(v), nil
}

// BodySnapshot returns a collector for a length-capped snapshot of the
// body text.
func BodySnapshot(maxLen int) func(driver.Driver) (string, error) {
	return func(d driver.Driver) (string, error) {
		v, err := d.Evaluate(fmt.Sprintf(`(() => {
			const text = document.body ? document.body.innerText : '';
			return text.slice(0, %d);
		})()`, maxLen))
		if err != nil {
			return "", fmt.Errorf("collecting body snapshot: %w", err)
		}
		return toString(v), nil
	}
}

// LinksMap collects every anchor's text and href
func LinksMap(d driver.Driver) ([]domain.Link, error) {
	v, err := d.Evaluate(`Array.from(document.querySelectorAll('a[href]'))
		.map(a => ({text: a.textContent.trim(), href: a.getAttribute('href')}))`)
	if err != nil {
		return nil, fmt.Errorf("collecting links: %w", err)
	}
	links := make([]domain.Link, 0)
	for _, item := range toSlice(v) {
		m := toMap(item)
		links = append(links, domain.Link{
			Text: toString(m["text"]),
			Href: toString(m["href"]),
		})
	}
	return links, nil
}

// Meta collects comparison-relevant metadata from the document head
func Meta(d driver.Driver) (map[string]string, error) {
	v, err := d.Evaluate(`(() => {
		const content = (sel) => {
			const el = document.querySelector(sel);
			return el ? (el.getAttribute('content') || el.getAttribute('href') || '') : '';
		};
		return {
			title: document.title,
			description: content('meta[name="description"]'),
			robots: content('meta[name="robots"]'),
			canonical: content('link[rel="canonical"]'),
			og_title: content('meta[property="og:title"]'),
			og_description: content('meta[property="og:description"]'),
		};
	})()`)
	if err != nil {
		return nil, fmt.Errorf("collecting meta: %w", err)
	}
	raw, err := expectMap(v, "meta")
	if err != nil {
		return nil, err
	}
	meta := make(map[string]string, len(raw))
	for k, val := range raw {
		meta[k] = toString(val)
	}
	return meta, nil
}

// I18N collects the document language code
func I18N(d driver.Driver) (string, error) {
	v, err := d.Evaluate(`document.documentElement.getAttribute('lang') || ''`)
	if err != nil {
		return "", fmt.Errorf("collecting language: %w", err)
	}
	return toString(v), nil
}

// Performance collects navigation timing metrics in milliseconds
func Performance(d driver.Driver) (map[string]float64, error) {
	v, err := d.Evaluate(`(() => {
		const nav = performance.getEntriesByType('navigation')[0];
		if (!nav) return {domContentLoaded: 0, loadEventEnd: 0};
		return {
			domContentLoaded: nav.domContentLoadedEventEnd,
			loadEventEnd: nav.loadEventEnd,
		};
	})()`)
	if err != nil {
		return nil, fmt.Errorf("collecting performance: %w", err)
	}
	raw, err := expectMap(v, "performance")
	if err != nil {
		return nil, err
	}
	return map[string]float64{
		"domContentLoaded": toFloat(raw["domContentLoaded"]),
		"loadEventEnd":     toFloat(raw["loadEventEnd"]),
	}, nil
}
