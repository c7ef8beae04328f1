package competitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// htsProvider queries the USITC Harmonized Tariff Schedule search API.
// Search results carry tariff rate strings rather than retail prices, so
// offers from this source usually populate price_text only.
type htsProvider struct {
	baseURL string
	client  *http.Client
	clock   Clockish
	log     *zap.Logger
}

// NewHTS builds the HTS catalog provider.
func NewHTS(baseURL string, timeout time.Duration, clock Clockish, log *zap.Logger) Provider {
	return &htsProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		clock:   clock,
		log:     log.Named("competitor.hts"),
	}
}

func (p *htsProvider) Name() string { return "hts" }

type htsArticle struct {
	HTSNo       string `json:"htsno"`
	Description string `json:"description"`
	General     string `json:"general"`
	Special     string `json:"special"`
	Other       string `json:"other"`
}

func (p *htsProvider) Search(ctx context.Context, query string, maxResults int) ([]Offer, error) {
	endpoint := p.baseURL + "/search?keyword=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hts search returned status %d", resp.StatusCode)
	}

	var articles []htsArticle
	if err := json.NewDecoder(resp.Body).Decode(&articles); err != nil {
		return nil, fmt.Errorf("decode hts response: %w", err)
	}

	checked := p.clock.Now().Format(time.RFC3339)
	offers := make([]Offer, 0, maxResults)
	for _, article := range articles {
		if len(offers) >= maxResults {
			break
		}
		if strings.TrimSpace(article.Description) == "" {
			continue
		}
		offers = append(offers, Offer{
			Source:      p.Name(),
			Title:       strings.TrimSpace(article.Description),
			URL:         p.baseURL + "/exportList?from=" + url.QueryEscape(article.HTSNo) + "&to=" + url.QueryEscape(article.HTSNo) + "&format=JSON",
			PriceText:   tariffPercentage(article.General),
			Matched:     strings.EqualFold(strings.TrimSpace(article.HTSNo), strings.TrimSpace(query)),
			LastChecked: checked,
		})
	}

	return offers, nil
}

var percentPattern = regexp.MustCompile(`(\d+\.?\d*)\s*%`)

// tariffPercentage extracts a percentage from a rate string ("5.3%"),
// mapping "Free" to "0%".
func tariffPercentage(rate string) string {
	rate = strings.TrimSpace(rate)
	if rate == "" {
		return "N/A"
	}
	if strings.EqualFold(rate, "free") {
		return "0%"
	}
	if m := percentPattern.FindStringSubmatch(rate); m != nil {
		if _, err := strconv.ParseFloat(m[1], 64); err == nil {
			return m[1] + "%"
		}
	}
	return rate
}
