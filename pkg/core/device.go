// Package core defines the shared types for interaction recording and replay:
// the Device automation interface, element bounds, and the error taxonomy.
package core

// WebDriver locator strategies understood by Device implementations.
const (
	StrategyID            = "id"
	StrategyXPath         = "xpath"
	StrategyAccessibility = "accessibility id"
	StrategyUIAutomator   = "-android uiautomator"
)

// Device is the narrow automation surface consumed by the recorder and the
// replayer. Implementations: Appium (remote session), mock (tests).
// Element IDs are driver handles valid only for the current screen state;
// stable identity across polls is derived by the recorder, not the Device.
type Device interface {
	// CurrentActivity returns the foreground activity name.
	CurrentActivity() (string, error)

	// PageSource returns the serialized UI tree.
	PageSource() (string, error)

	// FindElements returns handles for all elements matching the selector.
	FindElements(strategy, selector string) ([]string, error)

	// FindElement returns a handle for the first element matching the
	// selector, or an element_not_found error.
	FindElement(strategy, selector string) (string, error)

	// ElementAttribute reads a named attribute. The boolean reports whether
	// the attribute is present; absent attributes are not errors.
	ElementAttribute(elementID, name string) (string, bool, error)

	// ElementDisplayed reports whether the element is currently visible.
	ElementDisplayed(elementID string) (bool, error)

	// ElementEnabled reports whether the element is enabled.
	ElementEnabled(elementID string) (bool, error)

	// TapElement taps the center of the element.
	TapElement(elementID string) error

	// ClearElement clears the element's text.
	ClearElement(elementID string) error

	// SendKeys types text into the element.
	SendKeys(elementID, text string) error

	// Swipe performs a directional gesture between two points.
	Swipe(startX, startY, endX, endY, durationMs int) error

	// Close ends the automation session.
	Close() error
}
