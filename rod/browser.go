package rod

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the default number of pages before the browser is
// relaunched. Chrome's memory use grows with every page and never returns
// to its baseline, so long crawls restart it periodically.
const DefaultMaxPages = 75

// browser owns one Chrome process and relaunches it every maxPages pages.
// It is safe for concurrent use.
type browser struct {
	mu        sync.Mutex
	current   *rod.Browser
	launcher  *launcher.Launcher
	pageCount int
	maxPages  int
	headless  bool
}

func newBrowser(maxPages int, headless bool) (*browser, error) {
	b := &browser{maxPages: maxPages, headless: headless}
	if err := b.launch(); err != nil {
		return nil, err
	}
	return b, nil
}

// acquire returns the browser to open the next page in, relaunching it
// first when the page budget is spent. Returns nil once closed.
func (b *browser) acquire() *rod.Browser {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current != nil && b.maxPages > 0 && b.pageCount >= b.maxPages {
		b.recycle()
	}
	b.pageCount++
	return b.current
}

// close shuts the browser down. Safe to call more than once.
func (b *browser) close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	if b.current != nil {
		err = b.current.Close()
		b.current = nil
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher = nil
	}
	return err
}

// pid returns the launcher process ID, or 0 once closed.
func (b *browser) pid() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.launcher == nil {
		return 0
	}
	return b.launcher.PID()
}

// launch starts Chrome with flags that keep background pages responsive.
// Must be called with mu held or before b is shared.
func (b *browser) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-blink-features", "AutomationControlled").
		Leakless(true).
		Headless(b.headless)

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	rb := rod.New().ControlURL(u)
	if err := rb.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	b.current = rb
	b.launcher = l
	return nil
}

// recycle replaces the running browser with a fresh one. If the new one
// fails to launch the old one is kept. Must be called with mu held.
func (b *browser) recycle() {
	oldBrowser, oldLauncher := b.current, b.launcher
	if err := b.launch(); err != nil {
		b.current, b.launcher = oldBrowser, oldLauncher
		return
	}
	_ = oldBrowser.Close()
	oldLauncher.Kill()
	b.pageCount = 0
}
