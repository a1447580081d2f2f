package replayer

import (
	"context"
	"fmt"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"github.com/devicelab-dev/interaction-recorder/pkg/core"
	"github.com/devicelab-dev/interaction-recorder/pkg/logger"
	"github.com/devicelab-dev/interaction-recorder/pkg/recording"
)

// strategy is one step of the resolution fallback chain.
type strategy struct {
	name     string
	locator  string
	selector string
}

// strategies builds the fallback chain for a recorded widget: resource id,
// then exact visible text, then accessibility id. Identifying attributes
// may have drifted between recording and replay; the first strategy that
// yields a live element wins.
func strategies(widget *recording.Widget) []strategy {
	var chain []strategy
	if widget.ID != "" {
		chain = append(chain, strategy{"resource id", core.StrategyID, widget.ID})
	}
	if widget.Text != "" && !strings.Contains(widget.Text, "'") {
		chain = append(chain, strategy{
			"text", core.StrategyXPath, fmt.Sprintf("//*[@text='%s']", widget.Text),
		})
	}
	if widget.ContentDesc != "" {
		chain = append(chain, strategy{
			"content description", core.StrategyAccessibility, widget.ContentDesc,
		})
	}
	return chain
}

// resolve locates a live element for the widget, trying each strategy under
// a bounded constant-interval wait.
func (e *Engine) resolve(ctx context.Context, widget *recording.Widget) (string, error) {
	chain := strategies(widget)
	if len(chain) == 0 {
		return "", core.ErrElementNotFound.WithMessage("widget has no locatable attributes")
	}

	for _, st := range chain {
		elementID, err := e.find(ctx, st)
		if err == nil {
			logger.Debug("element resolved", "strategy", st.name, "selector", st.selector)
			return elementID, nil
		}
		logger.Debug("strategy failed", "strategy", st.name, "error", err)
	}

	return "", core.ErrElementNotFound.WithMessage(
		fmt.Sprintf("no strategy resolved widget id=%q text=%q desc=%q",
			widget.ID, widget.Text, widget.ContentDesc))
}

// find retries one strategy until it yields an element or the bounded wait
// elapses. Connection failures abort immediately.
func (e *Engine) find(ctx context.Context, st strategy) (string, error) {
	var elementID string

	attempts := uint64(e.cfg.ResolveTimeout / e.cfg.ResolveInterval)
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(e.cfg.ResolveInterval), attempts),
		ctx,
	)

	err := backoff.Retry(func() error {
		id, ferr := e.device.FindElement(st.locator, st.selector)
		if ferr != nil {
			if core.IsFatal(ferr) {
				return backoff.Permanent(ferr)
			}
			return ferr
		}
		elementID = id
		return nil
	}, policy)
	if err != nil {
		return "", err
	}
	return elementID, nil
}
