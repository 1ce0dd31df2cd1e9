// Package generate is the client of the text generation service.
//
// Successful generations are kept in a bounded LRU whose entries expire, and
// identical requests in flight at the same time share one upstream call.
package generate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
	"newscopilot.net/go/webtools/backend"
	"newscopilot.net/go/webtools/metrics"
)

var (
	ErrEmptyPrompt = errors.New("backend/generate: prompt must not be empty")
	errNoText      = errors.New("backend/generate: response is missing generated text")
)

const (
	DefaultMaxLength   = 50
	DefaultTemperature = 0.7
	DefaultTopK        = 20
	DefaultTopP        = 0.9

	defaultCacheTTL = 1 * time.Hour
)

type Options struct {
	endpoint   string
	httpClient *http.Client
	cacheSize  int
	cacheTTL   time.Duration
	metrics    *metrics.Metrics
}

type OptionFunc func(*Options)

func SetHTTP(client *http.Client) OptionFunc {
	return func(o *Options) { o.httpClient = client }
}

func SetEndpoint(s string) OptionFunc {
	return func(o *Options) { o.endpoint = s }
}

// SetCache sets the capacity and entry lifetime of the result cache. The
// capacity is at least one, and a non-positive ttl keeps the default.
func SetCache(size int, ttl time.Duration) OptionFunc {
	return func(o *Options) {
		o.cacheSize = size
		o.cacheTTL = ttl
	}
}

func SetMetrics(m *metrics.Metrics) OptionFunc {
	return func(o *Options) { o.metrics = m }
}

func New(opts ...OptionFunc) *Client {
	options := &Options{
		endpoint:   "http://localhost:5000",
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cacheSize:  256,
		cacheTTL:   defaultCacheTTL,
	}

	for _, opt := range opts {
		opt(options)
	}

	if options.cacheTTL <= 0 {
		options.cacheTTL = defaultCacheTTL
	}

	return &Client{
		hc:      options.httpClient,
		url:     options.endpoint,
		cache:   expirable.NewLRU[string, string](max(options.cacheSize, 1), nil, options.cacheTTL),
		metrics: options.metrics,
	}
}

type Client struct {
	hc      *http.Client
	url     string
	cache   *expirable.LRU[string, string]
	group   singleflight.Group
	metrics *metrics.Metrics
}

// Params of one generation. Zero MaxLength, TopK, and TopP are replaced with
// the defaults; Temperature is defaulted only when nil, as 0 is a usable
// temperature.
type Params struct {
	Prompt      string   `json:"prompt"`
	MaxLength   int      `json:"maxLength"`
	Temperature *float64 `json:"temperature,omitempty"`
	TopK        int      `json:"topK"`
	TopP        float64  `json:"topP"`
}

func (p Params) withDefaults() Params {
	if p.MaxLength <= 0 {
		p.MaxLength = DefaultMaxLength
	}
	if p.Temperature == nil {
		t := DefaultTemperature
		p.Temperature = &t
	}
	if p.TopK <= 0 {
		p.TopK = DefaultTopK
	}
	if p.TopP <= 0 {
		p.TopP = DefaultTopP
	}
	return p
}

// key identifies cached results; topK and topP are not part of it. Only
// called once defaults are applied.
func (p Params) key() string {
	return p.Prompt + "-" + strconv.Itoa(p.MaxLength) + "-" + strconv.FormatFloat(*p.Temperature, 'g', -1, 64)
}

// Generated is the result of one generation.
type Generated struct {
	Text   string `json:"generatedText"`
	Prompt string `json:"prompt"`
	Params Params `json:"parameters"`
	Cached bool   `json:"cached"`
}

type generatedData struct {
	GeneratedText string `json:"generatedText"`
}

// GenerateText returns text generated from p.Prompt, from the cache when an
// equivalent request succeeded recently.
func (c *Client) GenerateText(ctx context.Context, p Params) (*Generated, error) {
	if p.Prompt == "" {
		return nil, ErrEmptyPrompt
	}

	p = p.withDefaults()
	key := p.key()

	if text, ok := c.cache.Get(key); ok {
		c.metrics.RecordCacheLookup(true)
		return &Generated{Text: text, Prompt: p.Prompt, Params: p, Cached: true}, nil
	}
	c.metrics.RecordCacheLookup(false)

	v, err, _ := c.group.Do(key, func() (any, error) {
		text, err := c.generate(ctx, p)
		if err != nil {
			return "", err
		}
		c.cache.Add(key, text)
		c.metrics.SetCacheSize(c.cache.Len())
		return text, nil
	})
	if err != nil {
		return nil, err
	}

	return &Generated{Text: v.(string), Prompt: p.Prompt, Params: p}, nil
}

func (c *Client) generate(ctx context.Context, p Params) (string, error) {
	status, envelope, err := backend.Do[generatedData](ctx, c.hc, backend.Request{
		Method: http.MethodPost,
		Origin: c.url,
		Route:  "/api/generate-text",
		Body:   p,
	})

	switch {
	case err != nil:
		return "", fmt.Errorf("backend/generate: unable to generate text: %w", err)
	case status != http.StatusOK:
		return "", fmt.Errorf("backend/generate: unable to generate text: %w", &backend.StatusError{
			Status:  status,
			Message: envelope.Message,
		})
	case envelope.Data.GeneratedText == "":
		return "", errNoText
	}

	return envelope.Data.GeneratedText, nil
}

// ClearCache drops every cached result.
func (c *Client) ClearCache() {
	c.cache.Purge()
	c.metrics.SetCacheSize(0)
}
