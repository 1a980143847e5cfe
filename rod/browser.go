package rod

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxRenders is the default number of renders before the browser is
// recycled.
const DefaultMaxRenders = 50

// browserPool owns one headless Chrome and replaces it after maxRenders
// renders. Chrome's resident memory grows with every page and never returns
// to its starting level.
type browserPool struct {
	mu         sync.Mutex
	browser    *rod.Browser
	launcher   *launcher.Launcher
	renders    atomic.Int64
	maxRenders int64
	closed     atomic.Bool
}

func newBrowserPool(maxRenders int64) (*browserPool, error) {
	p := &browserPool{maxRenders: maxRenders}
	if err := p.launch(); err != nil {
		return nil, err
	}
	return p, nil
}

// acquire returns the current browser, recycling it first when the render
// budget is spent.
func (p *browserPool) acquire() *rod.Browser {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.maxRenders > 0 && p.renders.Load() >= p.maxRenders {
		p.recycle()
	}
	return p.browser
}

func (p *browserPool) release() {
	p.renders.Add(1)
}

func (p *browserPool) close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	if p.browser != nil {
		err = p.browser.Close()
		p.browser = nil
	}
	if p.launcher != nil {
		p.launcher.Kill()
		p.launcher = nil
	}
	return err
}

func (p *browserPool) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	p.browser = browser
	p.launcher = l
	return nil
}

// recycle swaps in a fresh browser. The old one is kept when the launch
// fails. Must be called with mu held.
func (p *browserPool) recycle() {
	oldBrowser, oldLauncher := p.browser, p.launcher
	if err := p.launch(); err != nil {
		p.browser, p.launcher = oldBrowser, oldLauncher
		return
	}
	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	p.renders.Store(0)
}
