// Package deepgram is a minimal client for Deepgram's pre-recorded
// transcription endpoint, fed with a remote audio URL.
package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "vidseek/internal/app/errors"
)

const (
	providerName   = "deepgram"
	defaultBaseURL = "https://api.deepgram.com"
	defaultModel   = "nova-2"
	defaultLang    = "en-US"
	maxErrorBody   = 512
)

// Config represents configuration for the Deepgram client
type Config struct {
	APIKey   string        `yaml:"api_key"`
	BaseURL  string        `yaml:"base_url"`
	Model    string        `yaml:"model"`
	Language string        `yaml:"language"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Client transcribes audio reachable by URL
type Client struct {
	config Config
	client *http.Client
}

// NewClient creates a Deepgram client. A nil httpClient gets one with
// config.Timeout (default 5 minutes).
func NewClient(config Config, httpClient *http.Client) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.Language == "" {
		config.Language = defaultLang
	}
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Minute
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	return &Client{config: config, client: httpClient}
}

// Configured reports whether an API key is present
func (c *Client) Configured() bool {
	return c != nil && c.config.APIKey != ""
}

// Response is the subset of the listen response the pipeline reads
type Response struct {
	Results struct {
		Channels []Channel `json:"channels"`
	} `json:"results"`
}

// Channel is one audio channel's transcription
type Channel struct {
	Alternatives []Alternative `json:"alternatives"`
}

// Alternative is one transcription hypothesis
type Alternative struct {
	Transcript string      `json:"transcript"`
	Confidence float64     `json:"confidence"`
	Words      []Word      `json:"words"`
	Paragraphs *Paragraphs `json:"paragraphs,omitempty"`
}

// Word carries word-level timing in seconds
type Word struct {
	Word           string  `json:"word"`
	PunctuatedWord string  `json:"punctuated_word,omitempty"`
	Start          float64 `json:"start"`
	End            float64 `json:"end"`
	Confidence     float64 `json:"confidence"`
}

// Text prefers the punctuated form
func (w Word) Text() string {
	if w.PunctuatedWord != "" {
		return w.PunctuatedWord
	}
	return w.Word
}

// Paragraphs is the paragraph-level breakdown returned with paragraphs=true
type Paragraphs struct {
	Transcript string      `json:"transcript"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

// Paragraph groups sentences
type Paragraph struct {
	Sentences []Sentence `json:"sentences"`
	Start     float64    `json:"start"`
	End       float64    `json:"end"`
}

// Sentence is a timed sentence
type Sentence struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Primary returns the first alternative of the first channel, or nil
func (r *Response) Primary() *Alternative {
	if r == nil || len(r.Results.Channels) == 0 || len(r.Results.Channels[0].Alternatives) == 0 {
		return nil
	}
	return &r.Results.Channels[0].Alternatives[0]
}

// Transcribe asks Deepgram to fetch and transcribe audioURL
func (c *Client) Transcribe(ctx context.Context, audioURL string) (*Response, error) {
	if !c.Configured() {
		return nil, apperrors.Configuration("deepgram API key is not configured")
	}
	if audioURL == "" {
		return nil, apperrors.RequiredField("audio url")
	}

	httpReq, err := c.createHTTPRequest(ctx, audioURL)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &apperrors.ProviderError{Provider: providerName, Message: fmt.Sprintf("failed to call Deepgram API: %v", err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.handleHTTPError(resp)
	}

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperrors.NewProviderError(providerName, resp.StatusCode, "malformed response: "+err.Error())
	}
	return &result, nil
}

func (c *Client) createHTTPRequest(ctx context.Context, audioURL string) (*http.Request, error) {
	params := url.Values{}
	params.Set("model", c.config.Model)
	params.Set("language", c.config.Language)
	params.Set("smart_format", "true")
	params.Set("punctuate", "true")
	params.Set("paragraphs", "true")
	params.Set("utterances", "true")
	params.Set("timestamps", "true")

	body, err := json.Marshal(map[string]string{"url": audioURL})
	if err != nil {
		return nil, fmt.Errorf("failed to encode deepgram request: %w", err)
	}

	endpoint := c.config.BaseURL + "/v1/listen?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create deepgram request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) handleHTTPError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var shaped struct {
		ErrMsg  string `json:"err_msg"`
		Reason  string `json:"reason"`
		Message string `json:"message"`
	}
	message := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &shaped) == nil {
		switch {
		case shaped.ErrMsg != "":
			message = shaped.ErrMsg
		case shaped.Reason != "":
			message = shaped.Reason
		case shaped.Message != "":
			message = shaped.Message
		}
	}
	if message == "" {
		message = resp.Status
	}
	return apperrors.NewProviderError(providerName, resp.StatusCode, message)
}
