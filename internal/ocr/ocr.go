// Package ocr 调用文档 OCR 服务，把 PDF 或图片转换为逐页 markdown
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/riverfjs/docmark-go/internal/httputil"
	"github.com/riverfjs/docmark-go/internal/types"
)

const (
	DefaultModel   = "mistral-ocr-latest"
	DefaultBaseURL = "https://api.mistral.ai"
	ocrPath        = "/v1/ocr"
)

var (
	// ErrUnsupportedType 既不是 PDF 也不是图片
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrMissingAPIKey 未配置 API key
	ErrMissingAPIKey = errors.New("MISTRAL_API_KEY is not set")
)

// APIError 服务返回的非 2xx 响应
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ocr api error: HTTP %d: %s", e.StatusCode, e.Message)
}

// Input 待转换的文件
type Input struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Client OCR 服务客户端
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

// Option 配置 Client
type Option func(*Client)

// WithBaseURL 覆盖服务地址
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient 使用自定义 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMaxRetries 设置 429 最大重试次数
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// New creates a client.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type documentPayload struct {
	Type        string `json:"type"`
	DocumentURL string `json:"document_url,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

type requestPayload struct {
	Model              string          `json:"model"`
	Document           documentPayload `json:"document"`
	IncludeImageBase64 bool            `json:"include_image_base64"`
}

type responsePayload struct {
	Pages []types.Page `json:"pages"`
	Model string       `json:"model"`
	Usage struct {
		PagesProcessed int   `json:"pages_processed"`
		DocSizeBytes   int64 `json:"doc_size_bytes"`
	} `json:"usage_info"`
}

// Process 上传文件并返回逐页结果
func (c *Client) Process(ctx context.Context, in Input, model string) ([]types.Page, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultModel
	}

	doc, err := documentFor(in)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(requestPayload{Model: model, Document: doc, IncludeImageBase64: true})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ocrPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("name", in.Name).Str("type", doc.Type).Int("bytes", len(in.Data)).Msg("ocr request")

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("ocr request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	var out responsePayload
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	logger.Debug().Int("pages", len(out.Pages)).Str("model", out.Model).Msg("ocr response")
	return out.Pages, nil
}

// documentFor 按 MIME 选择 document_url 或 image_url
func documentFor(in Input) (documentPayload, error) {
	mimeType := MIMEType(in)
	dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(in.Data)
	switch {
	case mimeType == "application/pdf":
		return documentPayload{Type: "document_url", DocumentURL: dataURL}, nil
	case strings.HasPrefix(mimeType, "image/"):
		return documentPayload{Type: "image_url", ImageURL: dataURL}, nil
	default:
		return documentPayload{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}
}

// MIMEType 返回输入的媒体类型，缺失时从内容嗅探
func MIMEType(in Input) string {
	if in.MIMEType != "" {
		if mt, _, err := mime.ParseMediaType(in.MIMEType); err == nil {
			return mt
		}
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(in.Data))
	return mt
}

func errorMessage(raw []byte) string {
	var body struct {
		Message string          `json:"message"`
		Detail  json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if len(body.Detail) > 0 {
			var s string
			if json.Unmarshal(body.Detail, &s) == nil {
				return s
			}
			return string(body.Detail)
		}
	}
	if msg := strings.TrimSpace(string(raw)); msg != "" {
		return msg
	}
	return "empty response body"
}
