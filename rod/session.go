package rod

import (
	"context"
	"time"

	"github.com/fwojciec/ssmcp"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Session implements ssmcp.Renderer at compile time.
var _ ssmcp.Renderer = (*Session)(nil)

// scrollScript scrolls one viewport down.
const scrollScript = `() => window.scrollBy(0, window.innerHeight)`

// Session renders targets in its own headless browser. A Session handles
// one render at a time; a pool of Sessions gives concurrency.
type Session struct {
	manager *BrowserManager
}

// NewSession launches the browser behind a Session.
func NewSession(opts ...ManagerOption) (*Session, error) {
	m, err := NewBrowserManager(opts...)
	if err != nil {
		return nil, err
	}
	return &Session{manager: m}, nil
}

// Render loads target under policy and returns the rendered HTML. URL
// targets are navigated to; raw targets are loaded as the document
// content without any navigation.
func (s *Session) Render(ctx context.Context, target ssmcp.Target, policy ssmcp.RenderPolicy) (string, error) {
	if s.manager.Closed() {
		return "", ssmcp.Errorf(ssmcp.EINVALID, "session is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	page, err := s.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()
	defer s.manager.IncrementPageCount()

	page = page.Context(ctx)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  policy.ViewportWidth,
		Height: policy.ViewportHeight,
	}); err != nil {
		return "", err
	}

	if target.Raw {
		if err := page.SetDocumentContent(target.Value); err != nil {
			return "", err
		}
	} else if err := navigate(page, target.Value, policy.WaitUntil); err != nil {
		return "", err
	}

	for range policy.ScrollSteps {
		if _, err := page.Eval(scrollScript); err != nil {
			return "", err
		}
		if err := sleep(ctx, policy.ScrollDelay); err != nil {
			return "", err
		}
	}

	if err := sleep(ctx, policy.DelayBeforeCapture); err != nil {
		return "", err
	}

	return page.HTML()
}

// Close shuts the browser down. Close is safe to call multiple times.
func (s *Session) Close() error {
	return s.manager.Close()
}

func navigate(page *rod.Page, url, waitUntil string) error {
	var event proto.PageLifecycleEventName
	switch waitUntil {
	case ssmcp.WaitNetworkIdle:
		event = proto.PageLifecycleEventNameNetworkIdle
	case ssmcp.WaitDOMContentLoaded:
		event = proto.PageLifecycleEventNameDOMContentLoaded
	default:
		if err := page.Navigate(url); err != nil {
			return err
		}
		return page.WaitLoad()
	}

	wait := page.WaitNavigation(event)
	if err := page.Navigate(url); err != nil {
		return err
	}
	wait()
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
