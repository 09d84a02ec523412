package nextcloud

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/studio-b12/gowebdav"

	apperrors "github.com/skillsenselab/data2csv/internal/errors"
	"github.com/skillsenselab/data2csv/internal/logger"
)

// OCS share parameters for public read-only links.
const (
	publicShareType    = 3
	readOnlyPermission = 1
)

const ocsSharePath = "/ocs/v2.php/apps/files_sharing/api/v1/shares"

// ShareResult describes a completed upload: the remote path and the public
// share URL pointing at it.
type ShareResult struct {
	RemotePath string `json:"remote_path"`
	ShareURL   string `json:"share_url"`
}

// Client uploads files over WebDAV and creates public shares via the OCS API.
type Client struct {
	cfg    Config
	webdav *gowebdav.Client
	http   *http.Client
	log    *logger.Logger
}

// NewClient creates a Nextcloud client from the given configuration.
func NewClient(cfg Config, log *logger.Logger) *Client {
	cfg.ApplyDefaults()

	davURL := fmt.Sprintf("%s/remote.php/dav/files/%s", cfg.URL, cfg.Username)
	dav := gowebdav.NewClient(davURL, cfg.Username, cfg.Password)
	timeout := time.Duration(cfg.Timeout) * time.Second
	dav.SetTimeout(timeout)

	return &Client{
		cfg:    cfg,
		webdav: dav,
		http:   &http.Client{Timeout: timeout},
		log:    log.WithComponent("nextcloud"),
	}
}

// Upload writes data to the export directory, creating it when missing.
// It returns the remote path relative to the user's files root.
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	remotePath := path.Join(c.cfg.ExportDir, filename)

	if err := c.webdav.MkdirAll(c.cfg.ExportDir, 0755); err != nil {
		return "", apperrors.ExternalServiceError("nextcloud", err).
			WithDetail("operation", "mkdir").
			WithDetail("path", c.cfg.ExportDir)
	}

	if err := c.webdav.Write(remotePath, data, 0644); err != nil {
		return "", apperrors.ExternalServiceError("nextcloud", err).
			WithDetail("operation", "upload").
			WithDetail("path", remotePath)
	}

	c.log.Info("file uploaded", map[string]interface{}{
		"path": remotePath,
		"size": len(data),
	})
	return remotePath, nil
}

// CreatePublicShare creates a read-only public link for the given remote path
// through the OCS shares API. The API answers XML even for JSON requests.
func (c *Client) CreatePublicShare(ctx context.Context, remotePath string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"path":        "/" + remotePath,
		"shareType":   publicShareType,
		"permissions": readOnlyPermission,
	})
	if err != nil {
		return "", apperrors.Internal(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL+ocsSharePath, bytes.NewReader(body))
	if err != nil {
		return "", apperrors.Internal(err)
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	req.Header.Set("OCS-APIRequest", "true")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", apperrors.ConnectionFailed("nextcloud").WithCause(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.ExternalServiceError("nextcloud", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperrors.ExternalServiceError("nextcloud",
			fmt.Errorf("share request returned HTTP %d", resp.StatusCode)).
			WithDetail("status", resp.StatusCode)
	}

	var ocs ocsResponse
	if err := xml.Unmarshal(raw, &ocs); err != nil {
		return "", apperrors.ExternalServiceError("nextcloud", err).
			WithDetail("operation", "parse share response")
	}

	if ocs.Meta.Status != "ok" {
		msg := ocs.Meta.Message
		if msg == "" {
			msg = "unknown error"
		}
		return "", apperrors.ExternalServiceError("nextcloud",
			fmt.Errorf("share creation failed: %s", msg))
	}
	if ocs.Data.URL == "" {
		return "", apperrors.ExternalServiceError("nextcloud",
			fmt.Errorf("share URL missing from response"))
	}

	c.log.Info("public share created", map[string]interface{}{
		"path": remotePath,
		"url":  ocs.Data.URL,
	})
	return ocs.Data.URL, nil
}

// UploadAndShare uploads data and creates a public share link for it.
func (c *Client) UploadAndShare(ctx context.Context, filename string, data []byte) (*ShareResult, error) {
	remotePath, err := c.Upload(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	shareURL, err := c.CreatePublicShare(ctx, remotePath)
	if err != nil {
		return nil, err
	}

	return &ShareResult{RemotePath: remotePath, ShareURL: shareURL}, nil
}

// ocsResponse mirrors the XML envelope returned by the OCS API.
type ocsResponse struct {
	XMLName xml.Name `xml:"ocs"`
	Meta    struct {
		Status     string `xml:"status"`
		StatusCode int    `xml:"statuscode"`
		Message    string `xml:"message"`
	} `xml:"meta"`
	Data struct {
		ID  string `xml:"id"`
		URL string `xml:"url"`
	} `xml:"data"`
}
