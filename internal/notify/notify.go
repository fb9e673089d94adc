// Package notify delivers external image notifications. Delivery is
// best effort: failures are reported to the caller for logging and must
// never propagate into control flow.
package notify

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/google/uuid"

	"github.com/roverswarm/rover/internal/config"
	"github.com/roverswarm/rover/internal/log"
)

// Send posts a message with the given image attached to the configured
// endpoint. Returns nil without sending when notifications are disabled.
func Send(message, imagePath string, conf *config.Config) error {
	cfg := conf.Notify
	if !cfg.Enabled {
		return nil
	}

	reqID := uuid.NewString()
	logger := log.GetLogger().WithFields(map[string]interface{}{
		"component":  "notify",
		"request_id": reqID,
	})

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if err := w.WriteField("message", message); err != nil {
		return fmt.Errorf("failed to build notification: %w", err)
	}
	if imagePath != "" {
		f, err := os.Open(imagePath)
		if err != nil {
			return fmt.Errorf("failed to open notification image: %w", err)
		}
		defer f.Close()
		part, err := w.CreateFormFile("imageFile", "detection.jpg")
		if err != nil {
			return fmt.Errorf("failed to build notification: %w", err)
		}
		if _, err := io.Copy(part, f); err != nil {
			return fmt.Errorf("failed to attach notification image: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to build notification: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, cfg.Endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.Token)
	}

	client := &http.Client{Timeout: conf.NotifyTimeout()}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("notification delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification rejected: status %d", resp.StatusCode)
	}
	logger.Infof("notification delivered: %s", message)
	return nil
}
