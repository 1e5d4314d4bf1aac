// Package pubmed queries the NCBI E-utilities: esearch for PMIDs and efetch
// for article details. A malformed article never fails the batch; it is
// logged and skipped.
package pubmed

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/joelkehle/litreview/internal/paper"
)

const defaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

type ClientConfig struct {
	BaseURL    string
	APIKey     string
	Email      string
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
		// NCBI allows 3 rps without an API key.
		cfg.RPS = 3
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{cfg: cfg, limiter: rate.NewLimiter(rate.Limit(cfg.RPS), 1)}
}

// Search returns up to maxResults PMIDs for the query, in PubMed rank order.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	if maxResults <= 0 {
		maxResults = 100
	}
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {query},
		"retmax":  {strconv.Itoa(maxResults)},
		"retmode": {"json"},
	}
	c.addAuth(params)

	body, err := c.get(ctx, "/esearch.fcgi?"+params.Encode())
	if err != nil {
		return nil, err
	}
	var parsed struct {
		ESearchResult struct {
			IDList []string `json:"idlist"`
		} `json:"esearchresult"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing esearch response: %w", err)
	}
	return parsed.ESearchResult.IDList, nil
}

// FetchDetails fetches full records for the given PMIDs. Articles that fail to
// parse are skipped with a log line.
func (c *Client) FetchDetails(ctx context.Context, pmids []string) ([]paper.Paper, error) {
	if len(pmids) == 0 {
		return nil, nil
	}
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(pmids, ",")},
		"retmode": {"xml"},
		"rettype": {"abstract"},
	}
	c.addAuth(params)

	body, err := c.get(ctx, "/efetch.fcgi?"+params.Encode())
	if err != nil {
		return nil, err
	}
	return parseArticleSet(body), nil
}

func (c *Client) addAuth(params url.Values) {
	if c.cfg.Email != "" {
		params.Set("email", c.cfg.Email)
	}
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(c.cfg.BaseURL, "/")+path, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pubmed request: %w", err)
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(res.Body, 32<<20))
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pubmed returned status code: %d", res.StatusCode)
	}
	return body, nil
}

type pubmedArticle struct {
	PMID     string `xml:"MedlineCitation>PMID"`
	Title    string `xml:"MedlineCitation>Article>ArticleTitle"`
	Abstract struct {
		Texts []string `xml:"AbstractText"`
	} `xml:"MedlineCitation>Article>Abstract"`
	Journal string `xml:"MedlineCitation>Article>Journal>Title"`
	Year    string `xml:"MedlineCitation>Article>Journal>JournalIssue>PubDate>Year"`
	Authors []struct {
		LastName string `xml:"LastName"`
		ForeName string `xml:"ForeName"`
	} `xml:"MedlineCitation>Article>AuthorList>Author"`
}

func parseArticleSet(body []byte) []paper.Paper {
	dec := xml.NewDecoder(strings.NewReader(string(body)))
	var papers []paper.Paper
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("litreview pubmed xml scan stopped: %v", err)
			break
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "PubmedArticle" {
			continue
		}
		var art pubmedArticle
		if err := dec.DecodeElement(&art, &start); err != nil {
			log.Printf("litreview pubmed skipping malformed article: %v", err)
			continue
		}
		p, ok := art.toPaper()
		if !ok {
			log.Printf("litreview pubmed skipping article without pmid")
			continue
		}
		papers = append(papers, p)
	}
	return papers
}

func (a pubmedArticle) toPaper() (paper.Paper, bool) {
	pmid := strings.TrimSpace(a.PMID)
	if pmid == "" {
		return paper.Paper{}, false
	}
	p := paper.Paper{
		ID:          "PMID:" + pmid,
		Title:       strings.TrimSpace(a.Title),
		Abstract:    strings.TrimSpace(strings.Join(a.Abstract.Texts, " ")),
		Venue:       strings.TrimSpace(a.Journal),
		ExternalIDs: paper.ExternalIDs{PMID: pmid},
	}
	if y, err := strconv.Atoi(strings.TrimSpace(a.Year)); err == nil {
		p.Year = &y
	}
	for _, au := range a.Authors {
		last := strings.TrimSpace(au.LastName)
		if last == "" {
			continue
		}
		name := last
		if fore := strings.TrimSpace(au.ForeName); fore != "" {
			name = fore + " " + last
		}
		p.Authors = append(p.Authors, paper.Author{Name: name})
	}
	return p, true
}
