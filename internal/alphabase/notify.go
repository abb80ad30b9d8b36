package alphabase

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/atouliatos/press-controller/internal/press"
)

// SendStopNotifications fires the email and Telegram alerts for a stop
// with the given reason. Both channels are attempted independently even if
// one fails; failures are logged, never retried, never propagated. Without
// a credential both are skipped before any network call.
func (c *Client) SendStopNotifications(reason press.Reason, runtime time.Duration) {
	if c.token == "" {
		c.logger.Warn().Msg("not authenticated, skipping notifications")
		return
	}

	if err := c.sendEmailAlert(reason, runtime); err != nil {
		c.logger.Error().Err(err).Msg("email alert failed")
	}
	if err := c.sendTelegramAlert(reason, runtime); err != nil {
		c.logger.Error().Err(err).Msg("telegram alert failed")
	}
}

func (c *Client) sendEmailAlert(reason press.Reason, runtime time.Duration) error {
	secs := int64(runtime / time.Second)
	minutes, seconds := secs/60, secs%60

	message := fmt.Sprintf("Press %d has been stopped.\n\nReason: %s\nRuntime: %d minutes %d seconds\n",
		c.pressNumber, reason, minutes, seconds)

	body, _ := json.Marshal(map[string]any{
		"to_email":      c.alertEmail,
		"alert_title":   fmt.Sprintf("Press %d Stopped - %s", c.pressNumber, reason),
		"alert_message": message,
		"data": map[string]any{
			"press_number":    c.pressNumber,
			"reason":          string(reason),
			"runtime_seconds": secs,
		},
	})

	return c.postAlert(c.base+"/notifications/send-alert", body)
}

func (c *Client) sendTelegramAlert(reason press.Reason, runtime time.Duration) error {
	secs := int64(runtime / time.Second)
	minutes, seconds := secs/60, secs%60

	body, _ := json.Marshal(map[string]any{
		"title":   fmt.Sprintf("Press %d Stopped - %s", c.pressNumber, reason),
		"message": fmt.Sprintf("Press %d has been stopped.", c.pressNumber),
		"data": map[string]any{
			"Reason":  string(reason),
			"Runtime": fmt.Sprintf("%d min %d sec", minutes, seconds),
			"Press":   fmt.Sprintf("Press %d", c.pressNumber),
		},
	})

	return c.postAlert(c.base+"/notifications/send-telegram-alert", body)
}

func (c *Client) postAlert(url string, body []byte) error {
	resp, err := c.post(url, body, c.token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}
