package acquirer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/chatflux-cookie/pkg/cookie"
)

var errFakeTimeout = errors.New("Timeout exceeded")

// fakePage is an in-memory login page. Elements are keyed by selector;
// present elements can be counted and filled, visible ones also satisfy
// visibility waits.
type fakePage struct {
	url      string
	present  map[string]bool
	visible  map[string]bool
	onClick  map[string]func(p *fakePage)
	cookies  []cookie.Cookie
	gotoErr  error
	countErr error
	fillErr  error

	screenshotErr error

	visited     []string
	filled      map[string]string
	clicked     []string
	counted     []string
	urlWaits    int
	screenshots []string
	closed      int
}

func newFakePage() *fakePage {
	return &fakePage{
		url:     "about:blank",
		present: map[string]bool{},
		visible: map[string]bool{},
		onClick: map[string]func(p *fakePage){},
		filled:  map[string]string{},
	}
}

// show makes selectors present and visible.
func (p *fakePage) show(selectors ...string) {
	for _, s := range selectors {
		p.present[s] = true
		p.visible[s] = true
	}
}

func (p *fakePage) anyVisible(selector string) bool {
	for _, s := range strings.Split(selector, ", ") {
		if p.visible[s] {
			return true
		}
	}
	return false
}

func (p *fakePage) Goto(url string, timeout time.Duration) error {
	p.visited = append(p.visited, url)
	if p.gotoErr != nil {
		return p.gotoErr
	}
	p.url = url
	return nil
}

func (p *fakePage) Count(selector string) (int, error) {
	p.counted = append(p.counted, selector)
	if p.countErr != nil {
		return 0, p.countErr
	}
	if p.present[selector] || p.visible[selector] {
		return 1, nil
	}
	return 0, nil
}

func (p *fakePage) Visible(selector string) (bool, error) {
	return p.anyVisible(selector), nil
}

func (p *fakePage) WaitVisible(selector string, timeout time.Duration) error {
	if p.anyVisible(selector) {
		return nil
	}
	return fmt.Errorf("waiting for %s: %w", selector, errFakeTimeout)
}

func (p *fakePage) Fill(selector, value string) error {
	if p.fillErr != nil {
		return p.fillErr
	}
	p.filled[selector] = value
	return nil
}

func (p *fakePage) Click(selector string) error {
	p.clicked = append(p.clicked, selector)
	if fn, ok := p.onClick[selector]; ok {
		fn(p)
	}
	return nil
}

func (p *fakePage) WaitForURL(match func(string) bool, timeout time.Duration) error {
	p.urlWaits++
	if match(p.url) {
		return nil
	}
	return fmt.Errorf("waiting for url from %s: %w", p.url, errFakeTimeout)
}

func (p *fakePage) URL() string {
	return p.url
}

func (p *fakePage) Cookies() ([]cookie.Cookie, error) {
	return p.cookies, nil
}

func (p *fakePage) Screenshot(path string) error {
	p.screenshots = append(p.screenshots, path)
	return p.screenshotErr
}

func (p *fakePage) Close() error {
	p.closed++
	return nil
}

type fakeLauncher struct {
	page     *fakePage
	err      error
	launches int
}

func (l *fakeLauncher) Launch(ctx context.Context) (Page, error) {
	l.launches++
	if l.err != nil {
		return nil, l.err
	}
	return l.page, nil
}

type recordingSink struct {
	writes []string
	err    error
}

func (s *recordingSink) Write(value string) error {
	if s.err != nil {
		return s.err
	}
	s.writes = append(s.writes, value)
	return nil
}
