// Package api implements the remote item-graph wire model and an HTTP
// client for the ShareFile v3 REST API.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Token refresh happens slightly before the reported expiry to avoid
// racing the remote clock.
const tokenExpiryMargin = 30 * time.Second

// ClientOptions configures the HTTP client. Subdomain plus the OAuth
// password-grant credentials are required unless both base URLs are
// overridden (as tests do).
type ClientOptions struct {
	Subdomain    string
	Username     string
	Password     string
	ClientID     string
	ClientSecret string

	// APIBaseURL and AuthBaseURL override the URLs derived from Subdomain.
	APIBaseURL  string
	AuthBaseURL string

	Logger *zap.Logger
}

// Client talks to the ShareFile v3 REST API. It is safe for concurrent
// use; only the cached OAuth token is shared state.
type Client struct {
	rest *resty.Client
	auth string
	opts ClientOptions
	log  *zap.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// NewClient creates a client for the given account.
func NewClient(opts ClientOptions) (*Client, error) {
	apiBase := opts.APIBaseURL
	authBase := opts.AuthBaseURL

	if apiBase == "" || authBase == "" {
		if opts.Subdomain == "" {
			return nil, errors.New("sharefile api: subdomain is required")
		}
		if apiBase == "" {
			apiBase = fmt.Sprintf("https://%s.sf-api.com/sf/v3", opts.Subdomain)
		}
		if authBase == "" {
			authBase = fmt.Sprintf("https://%s.sharefile.com", opts.Subdomain)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rest := resty.New().
		SetBaseURL(apiBase).
		SetHeader("Accept", "application/json")

	return &Client{
		rest: rest,
		auth: authBase,
		opts: opts,
		log:  logger,
	}, nil
}

// ensureToken returns a valid access token, fetching or refreshing it
// through the OAuth password grant when needed.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Add(tokenExpiryMargin).Before(c.tokenExpiry) {
		return c.token, nil
	}

	var token tokenResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":    "password",
			"client_id":     c.opts.ClientID,
			"client_secret": c.opts.ClientSecret,
			"username":      c.opts.Username,
			"password":      c.opts.Password,
		}).
		SetResult(&token).
		Post(c.auth + "/oauth/token")
	if err != nil {
		return "", fmt.Errorf("sharefile api: token request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("sharefile api: token request returned status %d", resp.StatusCode())
	}
	if token.AccessToken == "" {
		return "", errors.New("sharefile api: token response carried no access token")
	}

	c.token = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	c.log.Debug("access token refreshed", zap.Time("expiry", c.tokenExpiry))

	return c.token, nil
}

// request prepares an authenticated API request with a correlation ID.
func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	return c.rest.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("X-Request-Id", uuid.NewString()), nil
}

func apiError(resp *resty.Response) error {
	return fmt.Errorf("sharefile api: %s %s returned status %d",
		resp.Request.Method, resp.Request.URL, resp.StatusCode())
}

// GetItemByPath resolves an absolute remote path to its item.
func (c *Client) GetItemByPath(ctx context.Context, path string) (*Item, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	item := &Item{}
	resp, err := req.
		SetQueryParam("path", path).
		SetResult(item).
		Get("/Items/ByPath")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	return item, nil
}

// GetItemByID fetches an item, optionally expanding its direct children.
func (c *Client) GetItemByID(ctx context.Context, id string, includeChildren bool) (*Item, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	if includeChildren {
		req.SetQueryParam("$expand", "Children")
	}

	item := &Item{}
	resp, err := req.
		SetResult(item).
		Get(fmt.Sprintf("/Items(%s)", id))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	return item, nil
}

type folderRequest struct {
	Name     string `json:"Name"`
	FileName string `json:"FileName"`
}

// CreateFolder creates a folder below the given parent item.
func (c *Client) CreateFolder(ctx context.Context, parentID, name string, overwrite bool) (*Item, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	item := &Item{}
	resp, err := req.
		SetQueryParam("overwrite", strconv.FormatBool(overwrite)).
		SetBody(folderRequest{Name: name, FileName: name}).
		SetResult(item).
		Post(fmt.Sprintf("/Items(%s)/Folder", parentID))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	return item, nil
}

// CopyItem copies an item into the target folder, keeping its name.
func (c *Client) CopyItem(ctx context.Context, targetFolderID, itemID string, overwrite bool) (*Item, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	item := &Item{}
	resp, err := req.
		SetQueryParams(map[string]string{
			"targetid":  targetFolderID,
			"overwrite": strconv.FormatBool(overwrite),
		}).
		SetResult(item).
		Post(fmt.Sprintf("/Items(%s)/Copy", itemID))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	return item, nil
}

// UpdateItem applies a partial update (rename, re-parent) to an item.
func (c *Client) UpdateItem(ctx context.Context, itemID string, patch ItemPatch) (*Item, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	item := &Item{}
	resp, err := req.
		SetBody(patch).
		SetResult(item).
		Patch(fmt.Sprintf("/Items(%s)", itemID))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	return item, nil
}

// DeleteItem removes an item with its subtree.
func (c *Client) DeleteItem(ctx context.Context, itemID string) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}

	resp, err := req.Delete(fmt.Sprintf("/Items(%s)", itemID))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}

	return nil
}

// GetItemContents downloads the full content of a file item, following
// the redirect to the content endpoint.
func (c *Client) GetItemContents(ctx context.Context, itemID string) ([]byte, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.Get(fmt.Sprintf("/Items(%s)/Download", itemID))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	return resp.Body(), nil
}

// GetItemDownloadURL returns a short-lived URL the file content can be
// streamed from.
func (c *Client) GetItemDownloadURL(ctx context.Context, itemID string) (string, error) {
	req, err := c.request(ctx)
	if err != nil {
		return "", err
	}

	spec := &DownloadSpecification{}
	resp, err := req.
		SetQueryParam("redirect", "false").
		SetResult(spec).
		Get(fmt.Sprintf("/Items(%s)/Download", itemID))
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", apiError(resp)
	}
	if spec.DownloadURL == "" {
		return "", errors.New("sharefile api: download specification carried no url")
	}

	return spec.DownloadURL, nil
}

// UploadFile negotiates an upload below the given parent and streams the
// reader to the returned chunk URI.
func (c *Client) UploadFile(ctx context.Context, reader io.Reader, parentID, fileName string, overwrite bool) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}

	spec := &UploadSpecification{}
	resp, err := req.
		SetQueryParams(map[string]string{
			"method":    "standard",
			"raw":       "true",
			"fileName":  fileName,
			"overwrite": strconv.FormatBool(overwrite),
		}).
		SetResult(spec).
		Post(fmt.Sprintf("/Items(%s)/Upload", parentID))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}
	if spec.ChunkURI == "" {
		return errors.New("sharefile api: upload specification carried no chunk uri")
	}

	// The chunk URI is pre-signed; no auth token on the body request.
	body, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(reader).
		Post(spec.ChunkURI)
	if err != nil {
		return err
	}
	if body.IsError() {
		return apiError(body)
	}

	c.log.Debug("uploaded file",
		zap.String("parent", parentID),
		zap.String("name", fileName))

	return nil
}
