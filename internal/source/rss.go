package source

import (
	"context"
	"net/url"
	"strings"

	"github.com/DjordjeVuckovic/news-radar/internal/domain"
	"github.com/mmcdole/gofeed"
)

const (
	rssScore         = 70
	defaultRSSSource = "RSS"
)

// RSSConfig points at a feed search URL. The template must contain {query}
// and may contain {language} and {country}, for example
// https://news.google.com/rss/search?q={query}&hl={language}&gl={country}
type RSSConfig struct {
	URLTemplate     string `yaml:"url_template"`
	DefaultLanguage string `yaml:"default_language"`
	DefaultCountry  string `yaml:"default_country"`
}

// RSS searches any RSS or Atom endpoint that takes the query in its URL.
type RSS struct {
	cfg    RSSConfig
	opts   options
	parser *gofeed.Parser
}

func NewRSS(cfg RSSConfig, opts ...Option) *RSS {
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "en"
	}
	if cfg.DefaultCountry == "" {
		cfg.DefaultCountry = "US"
	}
	o := newOptions(opts)
	p := gofeed.NewParser()
	p.Client = o.client
	return &RSS{cfg: cfg, opts: o, parser: p}
}

func (r *RSS) Name() string { return NameRSS }

func (r *RSS) Enabled() bool {
	return strings.Contains(r.cfg.URLTemplate, "{query}")
}

func (r *RSS) feedURL(query string, filters domain.FilterSet) string {
	lang := filters.LanguageCode()
	if lang == "" {
		lang = r.cfg.DefaultLanguage
	}
	country := strings.ToUpper(filters.Get(domain.FilterCountry))
	if country == "" {
		country = r.cfg.DefaultCountry
	}
	return strings.NewReplacer(
		"{query}", url.QueryEscape(query),
		"{language}", url.QueryEscape(lang),
		"{country}", url.QueryEscape(country),
	).Replace(r.cfg.URLTemplate)
}

func (r *RSS) Fetch(ctx context.Context, query string, filters domain.FilterSet, limit int) ([]domain.Result, error) {
	if !r.Enabled() {
		return nil, ErrAdapterUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.timeout)
	defer cancel()

	feed, err := r.parser.ParseURLWithContext(r.feedURL(query, filters), ctx)
	if err != nil {
		return nil, &TransportError{Adapter: NameRSS, Err: err}
	}

	src := strings.TrimSpace(feed.Title)
	if src == "" {
		src = defaultRSSSource
	}

	limit = effectiveLimit(limit, 0)
	results := make([]domain.Result, 0, min(limit, len(feed.Items)))
	for _, item := range feed.Items {
		if len(results) == limit {
			break
		}
		var date string
		if item.PublishedParsed != nil {
			date = item.PublishedParsed.UTC().Format(domain.DateLayout)
		} else if item.UpdatedParsed != nil {
			date = item.UpdatedParsed.UTC().Format(domain.DateLayout)
		}
		results = append(results, domain.Result{
			Title:    item.Title,
			URL:      item.Link,
			Snippet:  item.Description,
			Source:   src,
			Date:     date,
			Category: newsCategory,
			Score:    rssScore,
		})
	}
	return finalize(results, r.opts.now()), nil
}
