package gemini

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
	"github.com/kirillkom/recruitment-docverify/internal/core/ports"
)

const (
	defaultBaseURL         = "https://generativelanguage.googleapis.com"
	defaultModel           = "gemini-1.5-flash"
	defaultTemperature     = 0.1
	defaultMaxOutputTokens = 2048
)

type Config struct {
	BaseURL         string
	APIKey          string
	Model           string
	Temperature     float64
	MaxOutputTokens int
	Timeout         time.Duration
	Observer        ports.VendorCallObserver
}

type Client struct {
	baseURL         string
	apiKey          string
	model           string
	temperature     float64
	maxOutputTokens int
	httpClient      *http.Client
	observer        ports.VendorCallObserver
}

func New(cfg Config) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	temperature := cfg.Temperature
	if temperature < 0 {
		temperature = defaultTemperature
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxOutputTokens
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:         baseURL,
		apiKey:          strings.TrimSpace(cfg.APIKey),
		model:           model,
		temperature:     temperature,
		maxOutputTokens: maxTokens,
		httpClient:      &http.Client{Timeout: timeout},
		observer:        cfg.Observer,
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// generate sends one generateContent request and returns the first text part
// of the first candidate.
func (c *Client) generate(ctx context.Context, parts []part) (string, error) {
	if !c.Configured() {
		return "", domain.WrapError(domain.ErrConfiguration, "gemini generate", errors.New("api key is not configured"))
	}

	request := generateRequest{
		Contents: []content{{Parts: parts}},
		GenerationConfig: generationConfig{
			Temperature:     c.temperature,
			MaxOutputTokens: c.maxOutputTokens,
		},
	}
	endpoint := c.baseURL + "/v1beta/models/" + url.PathEscape(c.model) + ":generateContent?key=" + url.QueryEscape(c.apiKey)

	started := time.Now()
	var response generateResponse
	err := c.postJSON(ctx, endpoint, request, &response, "generate")
	c.observe(err, time.Since(started))
	if err != nil {
		return "", domain.WrapError(domain.ErrVendor, "gemini generate", err)
	}
	return response.firstText(), nil
}

func (c *Client) observe(err error, elapsed time.Duration) {
	if c.observer == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.observer.ObserveVendorCall("gemini", outcome, elapsed)
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (r generateResponse) firstText() string {
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return strings.TrimSpace(r.Candidates[0].Content.Parts[0].Text)
}
