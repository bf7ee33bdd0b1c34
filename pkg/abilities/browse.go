// Package abilities declares the capability contracts actors use.
// Concrete implementations (real browser drivers, note stores backed by
// files) are supplied by the embedding environment; the core resolves
// them by capability token only.
package abilities

import (
	"context"

	"github.com/odvcencio/stagehand/pkg/screenplay"
)

// CapabilityBrowseTheWeb is the capability token for web browsing.
const CapabilityBrowseTheWeb screenplay.Capability = "browse the web"

// BrowseTheWeb is the browsing capability contract. Screenshots are raw
// PNG bytes; artifact encoding is the caller's concern.
type BrowseTheWeb interface {
	screenplay.Ability

	NavigateTo(ctx context.Context, url string) error
	TakeScreenshot(ctx context.Context) ([]byte, error)
}

// BrowserOf resolves the actor's browsing ability.
func BrowserOf(actor *screenplay.Actor) (BrowseTheWeb, error) {
	return screenplay.AbilityOf[BrowseTheWeb](actor, CapabilityBrowseTheWeb)
}
