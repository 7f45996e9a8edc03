package market

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/temirov/errands/internal/httpclient"
)

const (
	newsServiceNameConstant       = "news"
	defaultNewsBaseURLConstant    = "https://newsapi.org"
	everythingPathConstant        = "/v2/everything"
	newsErrorStatusConstant       = "error"
	queryNewsAPIKeyConstant       = "apiKey"
	queryTitleConstant            = "qInTitle"
	queryAnywhereConstant         = "q"
	querySortByConstant           = "sortBy"
	queryLanguageConstant         = "language"
	queryPageSizeConstant         = "pageSize"
	fetchArticlesTemplateConstant = "unable to fetch articles for %q: %w"
	newsAPIErrorTemplateConstant  = "news API rejected %q: %s %s"
)

// Article is one news item.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// ArticleQuery describes a news search.
type ArticleQuery struct {
	Phrase      string
	InTitleOnly bool
	SortOrder   string
	Language    string
}

type articlesResponse struct {
	Status   string    `json:"status"`
	Code     string    `json:"code"`
	Message  string    `json:"message"`
	Articles []Article `json:"articles"`
}

// NewsClient searches recent news articles.
type NewsClient struct {
	apiKey     string
	httpClient *resty.Client
}

// NewNewsClient constructs a client for the article search API.
func NewNewsClient(configuration ClientConfiguration, dependencies httpclient.Dependencies) (*NewsClient, error) {
	apiKey := strings.TrimSpace(configuration.APIKey)
	if len(apiKey) == 0 {
		return nil, ErrMissingAPIKey
	}
	baseURL := strings.TrimSpace(configuration.BaseURL)
	if len(baseURL) == 0 {
		baseURL = defaultNewsBaseURLConstant
	}
	httpClient := httpclient.New(newsServiceNameConstant, httpclient.Configuration{BaseURL: baseURL, Timeout: configuration.Timeout}, dependencies)
	return &NewsClient{apiKey: apiKey, httpClient: httpClient}, nil
}

// TopArticles returns at most limit articles matching query.
func (client *NewsClient) TopArticles(executionContext context.Context, query ArticleQuery, limit int) ([]Article, error) {
	phraseParameter := queryAnywhereConstant
	if query.InTitleOnly {
		phraseParameter = queryTitleConstant
	}
	queryParameters := map[string]string{
		queryNewsAPIKeyConstant: client.apiKey,
		phraseParameter:         query.Phrase,
		queryPageSizeConstant:   strconv.Itoa(limit),
	}
	if sortOrder := strings.TrimSpace(query.SortOrder); len(sortOrder) > 0 {
		queryParameters[querySortByConstant] = sortOrder
	}
	if language := strings.TrimSpace(query.Language); len(language) > 0 {
		queryParameters[queryLanguageConstant] = language
	}

	var payload articlesResponse
	response, requestError := client.httpClient.R().
		SetContext(executionContext).
		SetQueryParams(queryParameters).
		SetResult(&payload).
		Get(everythingPathConstant)
	if responseError := httpclient.CheckResponse(newsServiceNameConstant, response, requestError); responseError != nil {
		return nil, fmt.Errorf(fetchArticlesTemplateConstant, query.Phrase, responseError)
	}
	if payload.Status == newsErrorStatusConstant {
		return nil, fmt.Errorf(newsAPIErrorTemplateConstant, query.Phrase, payload.Code, payload.Message)
	}

	articles := payload.Articles
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}
