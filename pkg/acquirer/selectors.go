package acquirer

import (
	"fmt"
	"strings"
)

// resolveSelector returns the first selector in chain that matches at least
// one element. Later selectors are not queried once one matches. ok is false
// when nothing matched, which callers treat as a no-op.
func resolveSelector(page Page, chain []string) (selector string, ok bool, err error) {
	for _, s := range chain {
		n, err := page.Count(s)
		if err != nil {
			return "", false, err
		}
		if n > 0 {
			return s, true, nil
		}
	}
	return "", false, nil
}

// anyOf combines a chain into one CSS selector list matching any of them.
func anyOf(chain []string) string {
	return strings.Join(chain, ", ")
}

// fillField fills the first field of chain that exists on the page.
func (a *Acquirer) fillField(page Page, field string, chain []string, value string) error {
	selector, ok, err := resolveSelector(page, chain)
	if err != nil {
		return fmt.Errorf("failed to look up %s field: %w", field, err)
	}
	if !ok {
		a.log.Warningf("no %s field matched %v, skipping", field, chain)
		return nil
	}

	a.log.Verbosef("%s field resolved to %s", field, selector)
	if err := page.Fill(selector, value); err != nil {
		return fmt.Errorf("failed to fill %s field: %w", field, err)
	}
	return nil
}

// clickControl clicks the first control of chain that exists on the page.
func (a *Acquirer) clickControl(page Page, control string, chain []string) error {
	selector, ok, err := resolveSelector(page, chain)
	if err != nil {
		return fmt.Errorf("failed to look up %s control: %w", control, err)
	}
	if !ok {
		a.log.Warningf("no %s control matched %v, skipping", control, chain)
		return nil
	}

	a.log.Verbosef("%s control resolved to %s", control, selector)
	if err := page.Click(selector); err != nil {
		return fmt.Errorf("failed to click %s control: %w", control, err)
	}
	return nil
}
