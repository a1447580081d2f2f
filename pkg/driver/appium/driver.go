package appium

import (
	"github.com/devicelab-dev/interaction-recorder/pkg/core"
	"github.com/devicelab-dev/interaction-recorder/pkg/logger"
)

// Options configures the UiAutomator2 session.
type Options struct {
	DeviceName  string
	AppPackage  string
	AppActivity string // optional launch activity (used by replay)
	NoReset     bool
}

// Driver implements core.Device using an Appium server session.
type Driver struct {
	client *Client
}

// NewDriver connects to the Appium server and starts a UiAutomator2
// session. A connection failure here is fatal and aborts startup.
func NewDriver(serverURL string, opts Options) (*Driver, error) {
	capabilities := map[string]interface{}{
		"platformName":                     "Android",
		"appium:automationName":            "UiAutomator2",
		"appium:deviceName":                opts.DeviceName,
		"appium:appPackage":                opts.AppPackage,
		"appium:noReset":                   opts.NoReset,
		"appium:autoGrantPermissions":      true,
		"appium:newCommandTimeout":         120,
		"appium:androidDeviceReadyTimeout": 30,
	}
	if opts.AppActivity != "" {
		capabilities["appium:appActivity"] = opts.AppActivity
	}

	logger.Info("connecting to automation server", "url", serverURL)
	client := NewClient(serverURL)
	if err := client.Connect(capabilities); err != nil {
		return nil, err
	}
	logger.Info("session established", "session", client.SessionID())

	return &Driver{client: client}, nil
}

// CurrentActivity implements core.Device.
func (d *Driver) CurrentActivity() (string, error) {
	return d.client.CurrentActivity()
}

// PageSource implements core.Device.
func (d *Driver) PageSource() (string, error) {
	return d.client.Source()
}

// FindElements implements core.Device.
func (d *Driver) FindElements(strategy, selector string) ([]string, error) {
	return d.client.FindElements(strategy, selector)
}

// FindElement implements core.Device.
func (d *Driver) FindElement(strategy, selector string) (string, error) {
	return d.client.FindElement(strategy, selector)
}

// ElementAttribute implements core.Device.
func (d *Driver) ElementAttribute(elementID, name string) (string, bool, error) {
	return d.client.ElementAttribute(elementID, name)
}

// ElementDisplayed implements core.Device.
func (d *Driver) ElementDisplayed(elementID string) (bool, error) {
	return d.client.IsElementDisplayed(elementID)
}

// ElementEnabled implements core.Device.
func (d *Driver) ElementEnabled(elementID string) (bool, error) {
	return d.client.IsElementEnabled(elementID)
}

// TapElement implements core.Device.
func (d *Driver) TapElement(elementID string) error {
	return d.client.TapElement(elementID)
}

// ClearElement implements core.Device.
func (d *Driver) ClearElement(elementID string) error {
	return d.client.ClearElement(elementID)
}

// SendKeys implements core.Device.
func (d *Driver) SendKeys(elementID, text string) error {
	return d.client.SendKeys(elementID, text)
}

// Swipe implements core.Device.
func (d *Driver) Swipe(startX, startY, endX, endY, durationMs int) error {
	return d.client.Swipe(startX, startY, endX, endY, durationMs)
}

// Close implements core.Device.
func (d *Driver) Close() error {
	return d.client.Disconnect()
}

var _ core.Device = (*Driver)(nil)
