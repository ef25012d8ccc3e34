package ingest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"dcf_suite/pkg/core/spread"
	"dcf_suite/pkg/models"
)

const damodaranRatingsURL = "https://pages.stern.nyu.edu/~adamodar/New_Home_Page/datafile/ratings.html"

// SpreadFetcher scrapes the published synthetic-rating spread table.
// Callers fall back to spread.Default() when the fetch fails; the
// bundled table is a snapshot of the same source.
type SpreadFetcher struct {
	httpClient *http.Client
	url        string
}

func NewSpreadFetcher() *SpreadFetcher {
	return &SpreadFetcher{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		url:        damodaranRatingsURL,
	}
}

func parsePercent(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v / 100, true
}

func parseCoverageBound(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Fetch downloads and parses the ratings page. Rows that do not look
// like "floor, ceiling, rating, spread%" are skipped; a page yielding
// no rows is an error rather than an empty table.
func (f *SpreadFetcher) Fetch(ctx context.Context) (spread.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return spread.Table{}, err
	}
	req.Header.Set("User-Agent", quoteUserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return spread.Table{}, &models.ExternalDataError{Provider: "damodaran", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return spread.Table{}, &models.ExternalDataError{
			Provider: "damodaran",
			Err:      fmt.Errorf("status %d fetching ratings page", resp.StatusCode),
		}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return spread.Table{}, &models.ExternalDataError{Provider: "damodaran", Err: err}
	}

	var entries []spread.Entry
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}
		floor, okFloor := parseCoverageBound(cells.Eq(0).Text())
		ceiling, okCeil := parseCoverageBound(cells.Eq(1).Text())
		rating := strings.TrimSpace(cells.Eq(2).Text())
		spreadVal, okSpread := parsePercent(cells.Eq(3).Text())
		if !okFloor || !okCeil || !okSpread || rating == "" {
			return
		}
		entries = append(entries, spread.Entry{
			CoverageFloor:   floor,
			CoverageCeiling: ceiling,
			Rating:          rating,
			Spread:          spreadVal,
		})
	})

	if len(entries) == 0 {
		return spread.Table{}, &models.ExternalDataError{
			Provider: "damodaran",
			Err:      fmt.Errorf("no spread rows parsed from ratings page"),
		}
	}
	return spread.New(entries), nil
}
