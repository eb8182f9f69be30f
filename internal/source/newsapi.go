package source

import (
	"context"
	"net/url"
	"strconv"

	"github.com/DjordjeVuckovic/news-radar/internal/domain"
)

const (
	newsAPIEndpoint    = "https://newsapi.org/v2/everything"
	newsAPIMaxPageSize = 100
	newsAPIScore       = 90
	newsCategory       = "News"
)

type NewsAPIConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"-"`
}

// NewsAPI queries the /v2/everything endpoint sorted by relevancy. It has no
// country parameter, so only the language filter is forwarded.
type NewsAPI struct {
	cfg  NewsAPIConfig
	opts options
}

func NewNewsAPI(cfg NewsAPIConfig, opts ...Option) *NewsAPI {
	if cfg.Endpoint == "" {
		cfg.Endpoint = newsAPIEndpoint
	}
	return &NewsAPI{cfg: cfg, opts: newOptions(opts)}
}

func (n *NewsAPI) Name() string { return NameNewsAPI }

func (n *NewsAPI) Enabled() bool { return n.cfg.APIKey != "" }

type newsAPIResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Description string `json:"description"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

func (n *NewsAPI) Fetch(ctx context.Context, query string, filters domain.FilterSet, limit int) ([]domain.Result, error) {
	if !n.Enabled() {
		return nil, ErrAdapterUnavailable
	}

	params := url.Values{}
	params.Set("apiKey", n.cfg.APIKey)
	params.Set("q", query)
	params.Set("pageSize", strconv.Itoa(effectiveLimit(limit, newsAPIMaxPageSize)))
	params.Set("sortBy", "relevancy")
	if lang := filters.LanguageCode(); lang != "" {
		params.Set("language", lang)
	}

	var resp newsAPIResponse
	if err := getJSON(ctx, n.opts.client, n.opts.timeout, n.cfg.Endpoint, params, nil, &resp); err != nil {
		return nil, &TransportError{Adapter: NameNewsAPI, Err: err}
	}

	results := make([]domain.Result, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		src := a.Source.Name
		if src == "" {
			src = "NewsAPI"
		}
		var date string
		if len(a.PublishedAt) >= len(domain.DateLayout) {
			date = a.PublishedAt[:len(domain.DateLayout)]
		}
		results = append(results, domain.Result{
			Title:    a.Title,
			URL:      a.URL,
			Snippet:  a.Description,
			Source:   src,
			Date:     date,
			Category: newsCategory,
			Score:    newsAPIScore,
		})
	}
	return finalize(results, n.opts.now()), nil
}
