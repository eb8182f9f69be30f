package source

import (
	"context"
	"net/url"
	"strconv"

	"github.com/DjordjeVuckovic/news-radar/internal/domain"
)

const (
	googleEndpoint = "https://www.googleapis.com/customsearch/v1"
	// googleMaxNum is the largest page Custom Search serves.
	googleMaxNum = 10
	googleScore  = 85
)

type GoogleConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"-"`
	CX       string `yaml:"-"`
}

// Google queries the Custom Search JSON API.
type Google struct {
	cfg  GoogleConfig
	opts options
}

func NewGoogle(cfg GoogleConfig, opts ...Option) *Google {
	if cfg.Endpoint == "" {
		cfg.Endpoint = googleEndpoint
	}
	return &Google{cfg: cfg, opts: newOptions(opts)}
}

func (g *Google) Name() string { return NameGoogle }

func (g *Google) Enabled() bool {
	return g.cfg.APIKey != "" && g.cfg.CX != ""
}

type googleResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

func (g *Google) Fetch(ctx context.Context, query string, filters domain.FilterSet, limit int) ([]domain.Result, error) {
	if !g.Enabled() {
		return nil, ErrAdapterUnavailable
	}

	params := url.Values{}
	params.Set("key", g.cfg.APIKey)
	params.Set("cx", g.cfg.CX)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(effectiveLimit(limit, googleMaxNum)))
	if country := filters.Get(domain.FilterCountry); country != "" {
		params.Set("cr", "country"+country)
	}
	if lang := filters.LanguageCode(); lang != "" {
		params.Set("lr", "lang_"+lang)
	}

	var resp googleResponse
	if err := getJSON(ctx, g.opts.client, g.opts.timeout, g.cfg.Endpoint, params, nil, &resp); err != nil {
		return nil, &TransportError{Adapter: NameGoogle, Err: err}
	}

	results := make([]domain.Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, domain.Result{
			Title:    item.Title,
			URL:      item.Link,
			Snippet:  item.Snippet,
			Source:   "Google",
			Category: domain.DefaultCategory,
			Score:    googleScore,
		})
	}
	return finalize(results, g.opts.now()), nil
}
