// Package rest is the HTTP implementation of docservice.Client used by the
// command-line client against a running server.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	errors "github.com/frahmantamala/custom-timesheet/internal"
	"github.com/frahmantamala/custom-timesheet/internal/docservice"
)

const (
	resourcePath = "/api/v1/resource/"
	methodPath   = "/api/v1/method/"
)

type Config struct {
	BaseURL      string
	Token        string
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
	Timeout      time.Duration
}

func ConfigFrom(cfg errors.DocServiceConfig) Config {
	return Config{
		BaseURL:      cfg.URL,
		Token:        cfg.Token,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       cfg.Scopes,
		Timeout:      cfg.Timeout,
	}
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient authenticates with OAuth2 client credentials when a client id is
// configured, otherwise with the static bearer token.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) *Client {
	var hc *http.Client
	switch {
	case cfg.ClientID != "":
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		hc = cc.Client(ctx)
	case cfg.Token != "":
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"}))
	default:
		hc = &http.Client{}
	}
	if cfg.Timeout > 0 {
		hc.Timeout = cfg.Timeout
	}
	return NewClientWithHTTP(cfg.BaseURL, hc, logger)
}

func NewClientWithHTTP(baseURL string, hc *http.Client, logger *slog.Logger) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
		logger:     logger,
	}
}

type remoteError struct {
	Type    errors.ErrorType `json:"type"`
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

func (c *Client) List(ctx context.Context, doctype string, query docservice.ListQuery) ([]docservice.Record, error) {
	params := url.Values{}
	if len(query.Filters) > 0 {
		raw, err := json.Marshal(query.Filters)
		if err != nil {
			return nil, fmt.Errorf("encode filters: %w", err)
		}
		params.Set("filters", string(raw))
	}
	if len(query.Fields) > 0 {
		params.Set("fields", strings.Join(query.Fields, ","))
	}
	if query.OrderBy != "" {
		params.Set("order_by", query.OrderBy)
	}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}

	endpoint := c.baseURL + resourcePath + url.PathEscape(doctype)
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var records []docservice.Record
	if err := c.do(ctx, http.MethodGet, endpoint, nil, "", &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) Get(ctx context.Context, doctype, name string) (docservice.Record, error) {
	var rec docservice.Record
	if err := c.do(ctx, http.MethodGet, c.docURL(doctype, name), nil, "", &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (c *Client) Delete(ctx context.Context, doctype, name string) error {
	return c.do(ctx, http.MethodDelete, c.docURL(doctype, name), nil, "", nil)
}

func (c *Client) Upload(ctx context.Context, upload docservice.Upload) (*docservice.UploadedFile, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("doctype", upload.Doctype)
	_ = mw.WriteField("docname", upload.Docname)
	_ = mw.WriteField("is_private", strconv.FormatBool(upload.IsPrivate))
	part, err := mw.CreateFormFile("file", upload.FileName)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(upload.Content); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	var uploaded docservice.UploadedFile
	if err := c.do(ctx, http.MethodPost, c.baseURL+methodPath+"upload_file", &body, mw.FormDataContentType(), &uploaded); err != nil {
		return nil, err
	}
	return &uploaded, nil
}

func (c *Client) Invoke(ctx context.Context, action string, args map[string]any) (json.RawMessage, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encode %s args: %w", action, err)
	}
	var result json.RawMessage
	if err := c.do(ctx, http.MethodPost, c.baseURL+methodPath+url.PathEscape(action), bytes.NewReader(raw), "application/json", &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) CurrentActor(ctx context.Context) (string, error) {
	var actor string
	if err := c.do(ctx, http.MethodGet, c.baseURL+methodPath+"whoami", nil, "", &actor); err != nil {
		return "", err
	}
	return actor, nil
}

func (c *Client) docURL(doctype, name string) string {
	return c.baseURL + resourcePath + url.PathEscape(doctype) + "/" + url.PathEscape(name)
}

// do sends a request and decodes the "data" or "message" member of the reply into out.
func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("document service call failed", "error", err, "method", method, "url", endpoint)
		return errors.NewExternalError("Document service unreachable", errors.ErrCodeRemoteCallFailed, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("document service call",
		"method", method,
		"url", endpoint,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewExternalError("Failed to read document service response", errors.ErrCodeRemoteCallFailed, err)
	}

	if resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, payload)
	}
	if out == nil || len(payload) == 0 {
		return nil
	}

	var env struct {
		Data    json.RawMessage `json:"data"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(payload, &env); err != nil {
		return errors.NewExternalError("Malformed document service response", errors.ErrCodeRemoteCallFailed, err)
	}
	member := env.Data
	if len(member) == 0 {
		member = env.Message
	}
	if len(member) == 0 {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], member...)
		return nil
	}
	if err := json.Unmarshal(member, out); err != nil {
		return errors.NewExternalError("Malformed document service response", errors.ErrCodeRemoteCallFailed, err)
	}
	return nil
}

func decodeError(status int, payload []byte) error {
	var body struct {
		Error *remoteError `json:"error"`
	}
	appErr := errors.NewExternalError(fmt.Sprintf("Document service returned %d", status), errors.ErrCodeRemoteCallFailed, nil)
	if json.Unmarshal(payload, &body) == nil && body.Error != nil {
		appErr.Message = body.Error.Message
		if body.Error.Code != "" {
			appErr.Code = body.Error.Code
		}
		if body.Error.Type != "" {
			appErr.Type = body.Error.Type
		}
	}
	appErr.StatusCode = status
	return appErr
}
