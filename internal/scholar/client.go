// Package scholar queries the Semantic Scholar Graph API for paper search,
// details, and citation-graph edges.
package scholar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/joelkehle/litreview/internal/paper"
)

const defaultBaseURL = "https://api.semanticscholar.org/graph/v1"

const searchFields = "paperId,title,abstract,year,authors,venue,citationCount,referenceCount,externalIds,url,publicationTypes,publicationDate"
const graphFields = "paperId,title,abstract,year,authors,venue,citationCount,referenceCount,externalIds,publicationDate"

// ErrNotFound is returned when a paper lookup 404s. It is never retried.
var ErrNotFound = errors.New("scholar: paper not found")

type ClientConfig struct {
	BaseURL    string
	APIKey     string
	RPS        float64
	HTTPClient *http.Client
}

type Client struct {
	cfg     ClientConfig
	limiter *rate.Limiter
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 1
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{cfg: cfg, limiter: rate.NewLimiter(rate.Limit(cfg.RPS), 1)}
}

type apiPaper struct {
	PaperID          string            `json:"paperId"`
	Title            string            `json:"title"`
	Abstract         string            `json:"abstract"`
	Year             *int              `json:"year"`
	Venue            string            `json:"venue"`
	CitationCount    int               `json:"citationCount"`
	ReferenceCount   int               `json:"referenceCount"`
	URL              string            `json:"url"`
	PublicationTypes []string          `json:"publicationTypes"`
	PublicationDate  string            `json:"publicationDate"`
	ExternalIDs      map[string]any    `json:"externalIds"`
	Authors          []json.RawMessage `json:"authors"`
}

type searchResponse struct {
	Total int        `json:"total"`
	Data  []apiPaper `json:"data"`
}

// SearchPapers runs a relevance search. The API caps limit at 100.
func (c *Client) SearchPapers(ctx context.Context, query string, limit, offset int) (paper.SearchResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	params := url.Values{
		"query":  {query},
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
		"fields": {searchFields},
	}
	var parsed searchResponse
	if err := c.getJSON(ctx, "/paper/search?"+params.Encode(), &parsed); err != nil {
		return paper.SearchResult{}, err
	}
	papers := make([]paper.Paper, 0, len(parsed.Data))
	for _, ap := range parsed.Data {
		papers = append(papers, ap.toPaper())
	}
	return paper.SearchResult{Papers: papers, Total: parsed.Total, Offset: offset}, nil
}

func (c *Client) GetPaper(ctx context.Context, id string) (paper.Paper, error) {
	var parsed apiPaper
	params := url.Values{"fields": {graphFields}}
	if err := c.getJSON(ctx, "/paper/"+url.PathEscape(id)+"?"+params.Encode(), &parsed); err != nil {
		return paper.Paper{}, err
	}
	return parsed.toPaper(), nil
}

// GetCitations returns papers that cite id.
func (c *Client) GetCitations(ctx context.Context, id string) ([]paper.Paper, error) {
	return c.graphEdge(ctx, id, "citations", "citingPaper")
}

// GetReferences returns papers cited by id.
func (c *Client) GetReferences(ctx context.Context, id string) ([]paper.Paper, error) {
	return c.graphEdge(ctx, id, "references", "citedPaper")
}

func (c *Client) graphEdge(ctx context.Context, id, edge, key string) ([]paper.Paper, error) {
	params := url.Values{
		"limit":  {"100"},
		"fields": {graphFields},
	}
	var parsed struct {
		Data []map[string]apiPaper `json:"data"`
	}
	if err := c.getJSON(ctx, "/paper/"+url.PathEscape(id)+"/"+edge+"?"+params.Encode(), &parsed); err != nil {
		return nil, err
	}
	out := make([]paper.Paper, 0, len(parsed.Data))
	for _, item := range parsed.Data {
		ap, ok := item[key]
		if !ok || ap.PaperID == "" {
			continue
		}
		out = append(out, ap.toPaper())
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(c.cfg.BaseURL, "/")+path, nil)
	if err != nil {
		return err
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("x-api-key", c.cfg.APIKey)
	}
	res, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("semantic scholar request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("semantic scholar returned status code: %d", res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing semantic scholar response: %w", err)
	}
	return nil
}

func (ap apiPaper) toPaper() paper.Paper {
	p := paper.Paper{
		ID:               ap.PaperID,
		Title:            ap.Title,
		Abstract:         ap.Abstract,
		Year:             ap.Year,
		Venue:            ap.Venue,
		CitationCount:    ap.CitationCount,
		ReferenceCount:   ap.ReferenceCount,
		URL:              ap.URL,
		PublicationTypes: ap.PublicationTypes,
		PublicationDate:  ap.PublicationDate,
		ExternalIDs:      paper.ExternalIDs{S2ID: ap.PaperID},
	}
	if v, ok := ap.ExternalIDs["DOI"].(string); ok {
		p.ExternalIDs.DOI = v
	}
	if v, ok := ap.ExternalIDs["PubMed"].(string); ok {
		p.ExternalIDs.PMID = v
	}
	if v, ok := ap.ExternalIDs["ArXiv"].(string); ok {
		p.ExternalIDs.ArXiv = v
	}
	for _, raw := range ap.Authors {
		var a struct {
			AuthorID string `json:"authorId"`
			Name     string `json:"name"`
		}
		if err := json.Unmarshal(raw, &a); err != nil || a.Name == "" {
			continue
		}
		p.Authors = append(p.Authors, paper.Author{Name: a.Name, AuthorID: a.AuthorID})
	}
	return p
}
