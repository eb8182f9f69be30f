package source

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/DjordjeVuckovic/news-radar/internal/domain"
)

const (
	bingEndpoint  = "https://api.bing.microsoft.com/v7.0/search"
	bingKeyHeader = "Ocp-Apim-Subscription-Key"
	bingMaxCount  = 50
	bingScore     = 80
)

type BingConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"-"`
}

// Bing queries the Bing Web Search API, web pages only.
type Bing struct {
	cfg  BingConfig
	opts options
}

func NewBing(cfg BingConfig, opts ...Option) *Bing {
	if cfg.Endpoint == "" {
		cfg.Endpoint = bingEndpoint
	}
	return &Bing{cfg: cfg, opts: newOptions(opts)}
}

func (b *Bing) Name() string { return NameBing }

func (b *Bing) Enabled() bool { return b.cfg.APIKey != "" }

type bingResponse struct {
	WebPages struct {
		Value []struct {
			Name    string `json:"name"`
			URL     string `json:"url"`
			Snippet string `json:"snippet"`
		} `json:"value"`
	} `json:"webPages"`
}

func (b *Bing) Fetch(ctx context.Context, query string, filters domain.FilterSet, limit int) ([]domain.Result, error) {
	if !b.Enabled() {
		return nil, ErrAdapterUnavailable
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(effectiveLimit(limit, bingMaxCount)))
	params.Set("responseFilter", "Webpages")
	if country := filters.Get(domain.FilterCountry); country != "" {
		params.Set("cc", country)
	}
	if lang := filters.LanguageCode(); lang != "" {
		params.Set("setLang", lang)
	}

	header := http.Header{}
	header.Set(bingKeyHeader, b.cfg.APIKey)

	var resp bingResponse
	if err := getJSON(ctx, b.opts.client, b.opts.timeout, b.cfg.Endpoint, params, header, &resp); err != nil {
		return nil, &TransportError{Adapter: NameBing, Err: err}
	}

	results := make([]domain.Result, 0, len(resp.WebPages.Value))
	for _, item := range resp.WebPages.Value {
		results = append(results, domain.Result{
			Title:    item.Name,
			URL:      item.URL,
			Snippet:  item.Snippet,
			Source:   "Bing",
			Category: domain.DefaultCategory,
			Score:    bingScore,
		})
	}
	return finalize(results, b.opts.now()), nil
}
