// Package appium implements core.Device against an Appium server speaking
// the W3C WebDriver protocol with the UiAutomator2 extensions.
package appium

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/devicelab-dev/interaction-recorder/pkg/core"
)

// W3C WebDriver element identifier key (standard constant)
const w3cElementKey = "element-6066-11e4-a52e-4f735466cecf"

// Client handles HTTP communication with the Appium server.
type Client struct {
	serverURL string
	sessionID string
	client    *http.Client
}

// NewClient creates a new Appium client.
func NewClient(serverURL string) *Client {
	return &Client{
		serverURL: strings.TrimSuffix(serverURL, "/"),
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// SessionID returns the current session ID.
func (c *Client) SessionID() string {
	return c.sessionID
}

// Connect creates a new session with the given capabilities.
func (c *Client) Connect(capabilities map[string]interface{}) error {
	body := map[string]interface{}{
		"capabilities": map[string]interface{}{
			"alwaysMatch": capabilities,
		},
	}

	resp, err := c.post("/session", body)
	if err != nil {
		return core.ErrServerUnreachable.WithCause(err)
	}

	value, ok := resp["value"].(map[string]interface{})
	if !ok {
		return core.ErrServerUnreachable.WithMessage("invalid session response")
	}

	c.sessionID, _ = value["sessionId"].(string)
	if c.sessionID == "" {
		return core.ErrServerUnreachable.WithMessage("no session ID in response")
	}

	return nil
}

// Disconnect closes the session.
func (c *Client) Disconnect() error {
	if c.sessionID == "" {
		return nil
	}
	_, err := c.delete(c.sessionPath())
	c.sessionID = ""
	return err
}

// Element Operations

// FindElement finds a single element.
func (c *Client) FindElement(strategy, value string) (string, error) {
	body := map[string]interface{}{
		"using": strategy,
		"value": value,
	}

	resp, err := c.post(c.sessionPath()+"/element", body)
	if err != nil {
		return "", err
	}

	elemValue, ok := resp["value"].(map[string]interface{})
	if !ok {
		return "", core.ErrElementNotFound
	}

	id := extractElementID(elemValue)
	if id == "" {
		return "", core.ErrElementNotFound
	}
	return id, nil
}

// FindElements finds multiple elements.
func (c *Client) FindElements(strategy, value string) ([]string, error) {
	body := map[string]interface{}{
		"using": strategy,
		"value": value,
	}

	resp, err := c.post(c.sessionPath()+"/elements", body)
	if err != nil {
		return nil, err
	}

	values, ok := resp["value"].([]interface{})
	if !ok {
		return nil, nil
	}

	var ids []string
	for _, v := range values {
		if elem, ok := v.(map[string]interface{}); ok {
			if id := extractElementID(elem); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

// ElementAttribute returns an element's attribute value. The boolean
// reports presence: a JSON null value means the attribute is absent.
func (c *Client) ElementAttribute(elementID, name string) (string, bool, error) {
	resp, err := c.get(c.elementPath(elementID) + "/attribute/" + name)
	if err != nil {
		return "", false, err
	}
	if resp["value"] == nil {
		return "", false, nil
	}
	value, ok := resp["value"].(string)
	return value, ok, nil
}

// IsElementDisplayed checks if the element is visible.
func (c *Client) IsElementDisplayed(elementID string) (bool, error) {
	resp, err := c.get(c.elementPath(elementID) + "/displayed")
	if err != nil {
		return false, err
	}
	displayed, _ := resp["value"].(bool)
	return displayed, nil
}

// IsElementEnabled checks if the element is enabled.
func (c *Client) IsElementEnabled(elementID string) (bool, error) {
	resp, err := c.get(c.elementPath(elementID) + "/enabled")
	if err != nil {
		return false, err
	}
	enabled, _ := resp["value"].(bool)
	return enabled, nil
}

// ClickElement clicks an element using the WebDriver standard endpoint.
func (c *Client) ClickElement(elementID string) error {
	_, err := c.post(c.elementPath(elementID)+"/click", nil)
	return err
}

// ClearElement clears an element's text.
func (c *Client) ClearElement(elementID string) error {
	_, err := c.post(c.elementPath(elementID)+"/clear", nil)
	return err
}

// SendKeys types text into an element.
func (c *Client) SendKeys(elementID, text string) error {
	_, err := c.post(c.elementPath(elementID)+"/value", map[string]interface{}{
		"text": text,
	})
	return err
}

// Touch/Gesture Operations (W3C Actions)

func (c *Client) performTouchAction(actions []map[string]interface{}) error {
	payload := []map[string]interface{}{
		{
			"type":       "pointer",
			"id":         "finger1",
			"parameters": map[string]interface{}{"pointerType": "touch"},
			"actions":    actions,
		},
	}
	_, err := c.post(c.sessionPath()+"/actions", map[string]interface{}{"actions": payload})
	return err
}

// TapElement performs a tap on an element using element-origin actions.
func (c *Client) TapElement(elementID string) error {
	return c.performTouchAction([]map[string]interface{}{
		{
			"type":     "pointerMove",
			"duration": 0,
			"x":        0,
			"y":        0,
			"origin":   map[string]interface{}{w3cElementKey: elementID},
		},
		{"type": "pointerDown", "button": 0},
		{"type": "pause", "duration": 50},
		{"type": "pointerUp", "button": 0},
	})
}

// Swipe performs a swipe gesture between two points.
func (c *Client) Swipe(startX, startY, endX, endY, durationMs int) error {
	return c.performTouchAction([]map[string]interface{}{
		{"type": "pointerMove", "duration": 0, "x": startX, "y": startY},
		{"type": "pointerDown", "button": 0},
		{"type": "pointerMove", "duration": durationMs, "x": endX, "y": endY},
		{"type": "pointerUp", "button": 0},
	})
}

// Screen Operations

// CurrentActivity returns the foreground Android activity.
func (c *Client) CurrentActivity() (string, error) {
	resp, err := c.get(c.sessionPath() + "/appium/device/current_activity")
	if err != nil {
		return "", err
	}
	activity, _ := resp["value"].(string)
	return activity, nil
}

// Source returns the page source XML.
func (c *Client) Source() (string, error) {
	resp, err := c.get(c.sessionPath() + "/source")
	if err != nil {
		return "", err
	}
	source, _ := resp["value"].(string)
	return source, nil
}

// HTTP Helpers

func (c *Client) sessionPath() string {
	return "/session/" + c.sessionID
}

func (c *Client) elementPath(elementID string) string {
	return c.sessionPath() + "/element/" + elementID
}

func (c *Client) get(path string) (map[string]interface{}, error) {
	return c.request("GET", path, nil)
}

func (c *Client) post(path string, body interface{}) (map[string]interface{}, error) {
	return c.request("POST", path, body)
}

func (c *Client) delete(path string) (map[string]interface{}, error) {
	return c.request("DELETE", path, nil)
}

func (c *Client) request(method, path string, body interface{}) (map[string]interface{}, error) {
	url := c.serverURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// Transport failure: the session is unreachable, not just one call.
		return nil, core.ErrServerUnreachable.WithCause(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.ErrServerUnreachable.WithCause(err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Check for a WebDriver error envelope.
	if errValue, ok := result["value"].(map[string]interface{}); ok {
		if errType, ok := errValue["error"].(string); ok {
			errMsg, _ := errValue["message"].(string)
			return result, classifyWebDriverError(errType, errMsg)
		}
	}

	return result, nil
}

// classifyWebDriverError maps W3C error codes onto the error taxonomy.
// Session-level errors are fatal; per-element errors are skippable.
func classifyWebDriverError(errType, errMsg string) error {
	cause := fmt.Errorf("%s: %s", errType, errMsg)
	switch errType {
	case "invalid session id", "session not created":
		return core.ErrSessionLost.WithCause(cause)
	case "no such element":
		return core.ErrElementNotFound.WithCause(cause)
	case "stale element reference", "no such window":
		return core.ErrStaleElement.WithCause(cause)
	default:
		return cause
	}
}

func extractElementID(value map[string]interface{}) string {
	// W3C format
	if id, ok := value[w3cElementKey].(string); ok {
		return id
	}
	// Legacy format
	if id, ok := value["ELEMENT"].(string); ok {
		return id
	}
	return ""
}
