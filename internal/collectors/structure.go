package collectors

import (
	"fmt"

	"github.com/uiparity/uiparity/internal/domain"
	"github.com/uiparity/uiparity/internal/driver"
)

// FormSummary collects every form control with its label and validation
// attributes.
func FormSummary(d driver.Driver) (domain.FormSummary, error) {
	v, err := d.Evaluate(`Array.from(document.querySelectorAll('input, select, textarea'))
		.filter(el => el.type !== 'hidden')
		.map(el => {
			let label = '';
			if (el.id) {
				const lab = document.querySelector('label[for="' + CSS.escape(el.id) + '"]');
				if (lab) label = lab.textContent.trim();
			}
			return {
				name: el.getAttribute('name') || '',
				type: (el.getAttribute('type') || el.tagName).toLowerCase(),
				label: label,
				placeholder: el.getAttribute('placeholder') || '',
				required: el.hasAttribute('required'),
			};
		})`)
	if err != nil {
		return domain.FormSummary{}, fmt.Errorf("collecting form summary: %w", err)
	}
	var summary domain.FormSummary
	for _, item := range toSlice(v) {
		m := toMap(item)
		summary.Inputs = append(summary.Inputs, domain.FormInput{
			Name:        toString(m["name"]),
			Type:        toString(m["type"]),
			Label:       toString(m["label"]),
			Placeholder: toString(m["placeholder"]),
			Required:    toBool(m["required"]),
		})
	}
	return summary, nil
}

// TablePreview returns a collector for the first table's headers and a
// capped number of rows.
func TablePreview(maxRows int) func(driver.Driver) (domain.TableData, error) {
	return func(d driver.Driver) (domain.TableData, error) {
		v, err := d.Evaluate(fmt.Sprintf(`(() => {
			const table = document.querySelector('table');
			if (!table) return {headers: [], rows: []};
			const headers = Array.from(table.querySelectorAll('th')).map(th => th.textContent.trim());
			const rows = Array.from(table.querySelectorAll('tbody tr, tr')).slice(0, %d)
				.map(tr => Array.from(tr.querySelectorAll('td')).map(td => td.textContent.trim()))
				.filter(cells => cells.length > 0);
			return {headers, rows};
		})()`, maxRows))
		if err != nil {
			return domain.TableData{}, fmt.Errorf("collecting table preview: %w", err)
		}
		raw, err := expectMap(v, "table preview")
		if err != nil {
			return domain.TableData{}, err
		}
		table := domain.TableData{Headers: toStringSlice(raw["headers"])}
		for _, row := range toSlice(raw["rows"]) {
			table.Rows = append(table.Rows, toStringSlice(row))
		}
		return table, nil
	}
}

// Accessibility counts common accessibility defects
func Accessibility(d driver.Driver) (map[string]int, error) {
	v, err := d.Evaluate(`(() => {
		const missingAlt = document.querySelectorAll('img:not([alt])').length;
		const unnamed = Array.from(document.querySelectorAll('button'))
			.filter(b => !b.textContent.trim() && !b.getAttribute('aria-label') && !b.getAttribute('title')).length;
		return {images_missing_alt: missingAlt, buttons_without_name: unnamed};
	})()`)
	if err != nil {
		return nil, fmt.Errorf("collecting accessibility: %w", err)
	}
	raw, err := expectMap(v, "accessibility")
	if err != nil {
		return nil, err
	}
	return map[string]int{
		"images_missing_alt":   toInt(raw["images_missing_alt"]),
		"buttons_without_name": toInt(raw["buttons_without_name"]),
	}, nil
}

// Breadcrumbs collects breadcrumb trail item texts
func Breadcrumbs(d driver.Driver) ([]string, error) {
	v, err := d.Evaluate(`Array.from(document.querySelectorAll(
		'nav[aria-label="breadcrumb" i] li, .breadcrumb li, .breadcrumbs li'))
		.map(li => li.textContent.trim())`)
	if err != nil {
		return nil, fmt.Errorf("collecting breadcrumbs: %w", err)
	}
	return toStringSlice(v), nil
}

// Tabs collects tab controls with their selection state
func Tabs(d driver.Driver) ([]domain.TabState, error) {
	v, err := d.Evaluate(`Array.from(document.querySelectorAll('[role="tab"]'))
		.map(tab => ({
			label: tab.textContent.trim(),
			selected: tab.getAttribute('aria-selected') === 'true',
		}))`)
	if err != nil {
		return nil, fmt.Errorf("collecting tabs: %w", err)
	}
	tabs := make([]domain.TabState, 0)
	for _, item := range toSlice(v) {
		m := toMap(item)
		tabs = append(tabs, domain.TabState{
			Label:    toString(m["label"]),
			Selected: toBool(m["selected"]),
		})
	}
	return tabs, nil
}

// Accordions collects accordion headers with their expansion state
func Accordions(d driver.Driver) ([]domain.AccordionState, error) {
	v, err := d.Evaluate(`Array.from(document.querySelectorAll('[aria-expanded], details'))
		.map(el => {
			if (el.tagName.toLowerCase() === 'details') {
				const summary = el.querySelector('summary');
				return {text: summary ? summary.textContent.trim() : '', expanded: el.open};
			}
			return {text: el.textContent.trim(), expanded: el.getAttribute('aria-expanded') === 'true'};
		})`)
	if err != nil {
		return nil, fmt.Errorf("collecting accordions: %w", err)
	}
	accordions := make([]domain.AccordionState, 0)
	for _, item := range toSlice(v) {
		m := toMap(item)
		accordions = append(accordions, domain.AccordionState{
			Text:     toString(m["text"]),
			Expanded: toBool(m["expanded"]),
		})
	}
	return accordions, nil
}

// Pagination collects the state of the page's pagination control
func Pagination(d driver.Driver) (domain.Pagination, error) {
	v, err := d.Evaluate(`(() => {
		const root = document.querySelector('nav[aria-label="pagination" i], .pagination, [role="navigation"].pagination');
		if (!root) return {current: '', total: '', has_next: false, has_prev: false};
		const current = root.querySelector('[aria-current], .active, .current');
		const items = Array.from(root.querySelectorAll('a, button')).map(el => el.textContent.trim());
		const numbers = items.filter(t => /^\d+$/.test(t));
		return {
			current: current ? current.textContent.trim() : '',
			total: numbers.length ? numbers[numbers.length - 1] : '',
			has_next: items.some(t => /next|›|»/i.test(t)),
			has_prev: items.some(t => /prev|‹|«/i.test(t)),
		};
	})()`)
	if err != nil {
		return domain.Pagination{}, fmt.Errorf("collecting pagination: %w", err)
	}
	raw, err := expectMap(v, "pagination")
	if err != nil {
		return domain.Pagination{}, err
	}
	return domain.Pagination{
		Current: toString(raw["current"]),
		Total:   toString(raw["total"]),
		HasNext: toBool(raw["has_next"]),
		HasPrev: toBool(raw["has_prev"]),
	}, nil
}

// Widgets collects visible transient widgets
func Widgets(d driver.Driver) (domain.Widgets, error) {
	v, err := d.Evaluate(`(() => {
		const texts = (sel) => Array.from(document.querySelectorAll(sel)).map(el => el.textContent.trim());
		return {
			toasts: texts('[role="alert"], .toast, .notification'),
			dialogs: texts('dialog[open], [role="dialog"]'),
			tooltips: texts('[role="tooltip"]'),
		};
	})()`)
	if err != nil {
		return domain.Widgets{}, fmt.Errorf("collecting widgets: %w", err)
	}
	raw, err := expectMap(v, "widgets")
	if err != nil {
		return domain.Widgets{}, err
	}
	return domain.Widgets{
		Toasts:   toStringSlice(raw["toasts"]),
		Dialogs:  toStringSlice(raw["dialogs"]),
		Tooltips: toStringSlice(raw["tooltips"]),
	}, nil
}

// ImagesPreview returns a collector for a capped preview of image
// elements.
func ImagesPreview(max int) func(driver.Driver) ([]domain.ImageInfo, error) {
	return func(d driver.Driver) ([]domain.ImageInfo, error) {
		v, err := d.Evaluate(fmt.Sprintf(`Array.from(document.querySelectorAll('img')).slice(0, %d)
			.map(img => ({
				alt: img.getAttribute('alt') || '',
				loading: img.getAttribute('loading') || '',
			}))`, max))
		if err != nil {
			return nil, fmt.Errorf("collecting images: %w", err)
		}
		images := make([]domain.ImageInfo, 0)
		for _, item := range toSlice(v) {
			m := toMap(item)
			images = append(images, domain.ImageInfo{
				Alt:     toString(m["alt"]),
				Loading: toString(m["loading"]),
			})
		}
		return images, nil
	}
}

// Landmarks reports which page landmarks are present
func Landmarks(d driver.Driver) (map[string]bool, error) {
	v, err := d.Evaluate(`({
		header: !!document.querySelector('header, [role="banner"]'),
		main: !!document.querySelector('main, [role="main"]'),
		nav: !!document.querySelector('nav, [role="navigation"]'),
		footer: !!document.querySelector('footer, [role="contentinfo"]'),
	})`)
	if err != nil {
		return nil, fmt.Errorf("collecting landmarks: %w", err)
	}
	raw, err := expectMap(v, "landmarks")
	if err != nil {
		return nil, err
	}
	landmarks := make(map[string]bool, len(raw))
	for k, val := range raw {
		landmarks[k] = toBool(val)
	}
	return landmarks, nil
}

// InteractiveRoles returns a collector for a capped, ordered list of
// (role, accessible name) pairs.
func InteractiveRoles(max int) func(driver.Driver) ([]domain.RolePair, error) {
	return func(d driver.Driver) ([]domain.RolePair, error) {
		v, err := d.Evaluate(fmt.Sprintf(`Array.from(document.querySelectorAll(
			'a[href], button, input, select, textarea, [role]')).slice(0, %d)
			.map(el => ({
				role: el.getAttribute('role') || el.tagName.toLowerCase(),
				name: (el.getAttribute('aria-label') || el.textContent || el.value || '').trim(),
			}))`, max))
		if err != nil {
			return nil, fmt.Errorf("collecting interactive roles: %w", err)
		}
		roles := make([]domain.RolePair, 0)
		for _, item := range toSlice(v) {
			m := toMap(item)
			roles = append(roles, domain.RolePair{
				Role: toString(m["role"]),
				Name: toString(m["name"]),
			})
		}
		return roles, nil
	}
}

// PageArchitecture collects element counts and density ratios that
// describe the page's overall shape.
func PageArchitecture(d driver.Driver) (domain.PageArchitecture, error) {
	v, err := d.Evaluate(`(() => {
		const count = (sel) => document.querySelectorAll(sel).length;
		const total = count('*');
		const semantic = count('header, main, nav, footer, section, article, aside, figure');
		const interactive = count('a[href], button, input, select, textarea');
		return {
			counts: {
				headings: count('h1, h2, h3, h4, h5, h6'),
				links: count('a[href]'),
				buttons: count('button, input[type="submit"], input[type="button"]'),
				forms: count('form'),
				inputs: count('input, select, textarea'),
				images: count('img'),
				tables: count('table'),
				lists: count('ul, ol, dl'),
				sections: count('section'),
				articles: count('article'),
				semantic_elements: semantic,
				interactive_elements: interactive,
				total_elements: total,
			},
			ratios: {
				element_density: total ? count('div, span') / total : 0,
				semantic_ratio: total ? semantic / total : 0,
				interactive_ratio: total ? interactive / total : 0,
			},
		};
	})()`)
	if err != nil {
		return domain.PageArchitecture{}, fmt.Errorf("collecting page architecture: %w", err)
	}
	raw, err := expectMap(v, "page architecture")
	if err != nil {
		return domain.PageArchitecture{}, err
	}
	arch := domain.PageArchitecture{
		Counts: make(map[string]int),
		Ratios: make(map[string]float64),
	}
	for k, val := range toMap(raw["counts"]) {
		arch.Counts[k] = toInt(val)
	}
	for k, val := range toMap(raw["ratios"]) {
		arch.Ratios[k] = toFloat(val)
	}
	return arch, nil
}
