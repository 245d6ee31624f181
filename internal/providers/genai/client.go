package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nanobanana/internal/domain"
	"nanobanana/internal/infra"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash-image-preview"

	// error bodies are truncated to keep user facing messages readable
	maxErrorBody = 512
)

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client issues single generateContent calls against the Gemini REST API.
// It never retries; retry policy belongs to the caller.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     infra.Logger
}

// EditRequest carries one image-to-image instruction.
type EditRequest struct {
	Prompt            string
	SystemInstruction string
	Image             domain.UploadedImage
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type geminiGenerateContentRequest struct {
	Contents          []geminiContent         `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiPromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates     []geminiCandidate     `json:"candidates"`
	PromptFeedback *geminiPromptFeedback `json:"promptFeedback,omitempty"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
		Status  string `json:"status,omitempty"`
	} `json:"error"`
}

// NewClient constructs a Gemini client. A nil HTTP client is replaced by one
// whose timeout bounds every single attempt.
func NewClient(opts Options) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("genai: api key is required")
	}

	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: client,
		logger:     infra.LoggerOrNop(opts.Logger),
	}, nil
}

// Model returns the configured Gemini model identifier.
func (c *Client) Model() string {
	return c.model
}

// EditImage sends the base image with the prompt and returns the first inline
// image of the first candidate. A successful response without image data is
// reported as domain.ErrNoImageInResponse.
func (c *Client) EditImage(ctx context.Context, req EditRequest) (domain.UploadedImage, error) {
	if req.Image.IsZero() {
		return domain.UploadedImage{}, domain.ErrMissingImage
	}

	var response geminiGenerateContentResponse
	if err := c.invokeGemini(ctx, fmt.Sprintf("/models/%s:generateContent", url.PathEscape(c.model)), buildEditPayload(req), &response); err != nil {
		return domain.UploadedImage{}, err
	}

	img, err := extractImage(response)
	if err != nil {
		return domain.UploadedImage{}, err
	}

	c.logger.Debug().
		Str("model", c.model).
		Str("mime_type", img.MIMEType).
		Int("bytes", len(img.Data)).
		Msg("genai: received edited image")

	return img, nil
}

func buildEditPayload(req EditRequest) geminiGenerateContentRequest {
	mime := req.Image.MIMEType
	if mime == "" {
		mime = domain.MIMETypeJPEG
	}
	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{Text: req.Prompt},
				{InlineData: &geminiInlineData{MimeType: mime, Data: req.Image.Base64()}},
			},
		}},
		GenerationConfig: &geminiGenerationConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
	}
	if instr := strings.TrimSpace(req.SystemInstruction); instr != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: instr}}}
	}
	return payload
}

func extractImage(resp geminiGenerateContentResponse) (domain.UploadedImage, error) {
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return domain.UploadedImage{}, fmt.Errorf("%w: prompt blocked (%s)", domain.ErrNoImageInResponse, resp.PromptFeedback.BlockReason)
		}
		return domain.UploadedImage{}, fmt.Errorf("%w: no candidates", domain.ErrNoImageInResponse)
	}

	candidate := resp.Candidates[0]
	var text string
	for _, part := range candidate.Content.Parts {
		if part.InlineData == nil || part.InlineData.Data == "" {
			if text == "" {
				text = strings.TrimSpace(part.Text)
			}
			continue
		}
		data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
		if err != nil {
			return domain.UploadedImage{}, fmt.Errorf("%w: decode inline data: %v", domain.ErrNoImageInResponse, err)
		}
		return domain.UploadedImage{MIMEType: resultMIMEType(part.InlineData.MimeType), Data: data}, nil
	}

	detail := firstNonEmpty(candidate.FinishReason, truncate(text, 120))
	if detail == "" {
		return domain.UploadedImage{}, fmt.Errorf("%w; generation may have been blocked", domain.ErrNoImageInResponse)
	}
	return domain.UploadedImage{}, fmt.Errorf("%w; generation may have been blocked (%s)", domain.ErrNoImageInResponse, detail)
}

// resultMIMEType trusts the reported image type and otherwise assumes PNG.
func resultMIMEType(reported string) string {
	mime := strings.ToLower(strings.TrimSpace(reported))
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = strings.TrimSpace(mime[:idx])
	}
	if strings.HasPrefix(mime, "image/") {
		return mime
	}
	return domain.MIMETypePNG
}

func (c *Client) invokeGemini(ctx context.Context, path string, payload any, out any) error {
	endpoint := strings.TrimRight(c.baseURL, "/") + path
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("key", c.apiKey)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: invoke gemini: %v", domain.ErrTransport, redactKey(err.Error(), c.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		var apiErr geminiErrorResponse
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("%w: API returned status %d: %s", domain.ErrTransport, resp.StatusCode, apiErr.Error.Message)
		}
		if msg := strings.TrimSpace(string(data)); msg != "" {
			return fmt.Errorf("%w: API returned status %d: %s", domain.ErrTransport, resp.StatusCode, truncate(msg, maxErrorBody))
		}
		return fmt.Errorf("%w: API returned status %d", domain.ErrTransport, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode gemini response: %v", domain.ErrNoImageInResponse, err)
	}
	return nil
}

// redactKey keeps the api key (sent as a query parameter) out of error strings.
func redactKey(msg, key string) string {
	if key == "" {
		return msg
	}
	return strings.ReplaceAll(msg, key, "REDACTED")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
