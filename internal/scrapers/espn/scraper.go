package espn

import (
	"context"
	"fmt"
	"hoopstats/internal/components/assert"
	"hoopstats/internal/components/telemetry"
	"hoopstats/lib/htmlutil"
)

const (
	report_scraper_collections = "scraper.collections"
	report_scraper_roster      = "scraper.roster"
	report_scraper_career      = "scraper.career"
)

// Scraper fetches the documents of each stage and hands their page state to
// the assemblers.
type Scraper struct {
	fetcher   Fetcher
	endpoints Endpoints
	tel       telemetry.API
}

func NewScraper(fetcher Fetcher, endpoints Endpoints, tel telemetry.API) Scraper {
	assert.NotNil(fetcher)
	assert.NotNil(tel)
	assert.NotEmptyStr(endpoints.Teams)
	assert.NotEmptyStr(endpoints.Roster)
	assert.NotEmptyStr(endpoints.Stats)

	return Scraper{
		fetcher:   fetcher,
		endpoints: endpoints,
		tel:       telemetry.NewScopedAPI("espn", tel),
	}
}

func (s Scraper) fetch(ctx context.Context, url string) (string, error) {
	document, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	return htmlutil.ScriptText(document), nil
}

// Collections locates every team in the teams directory.
func (s Scraper) Collections(ctx context.Context) ([]Collection, error) {
	text, err := s.fetch(ctx, s.endpoints.Teams)
	if err != nil {
		return nil, err
	}
	collections, err := LocateCollections(text, s.endpoints)
	if err != nil {
		s.tel.ReportBroken(report_scraper_collections, err, s.endpoints.Teams)
		return nil, err
	}
	s.tel.ReportCount(report_scraper_collections, int64(len(collections)))
	return collections, nil
}

// Roster assembles the members listed for a collection.
func (s Scraper) Roster(ctx context.Context, collection Collection) (Roster, error) {
	text, err := s.fetch(ctx, collection.URL)
	if err != nil {
		return Roster{}, err
	}
	roster := AssembleRoster(text)
	for _, skipped := range roster.Skipped {
		s.tel.ReportWarning(report_scraper_roster, collection.Name, skipped)
	}
	if roster.Collisions > 0 {
		s.tel.ReportWarning(
			report_scraper_roster,
			collection.Name,
			fmt.Sprintf("%d duplicate member names, last one kept", roster.Collisions),
		)
	}
	return roster, nil
}

// Career assembles the career averages of a member. found is false for a
// member without a career row. Errors that aren't from fetching wrap either
// extract.ErrMalformedRecord or ErrSchemaMismatch.
func (s Scraper) Career(ctx context.Context, memberID string) (values []float64, found bool, err error) {
	url := s.endpoints.StatsURL(memberID)
	text, err := s.fetch(ctx, url)
	if err != nil {
		return nil, false, err
	}

	values, matches, err := assembleCareer(text)
	if matches > 1 {
		s.tel.ReportWarning(report_scraper_career, url, fmt.Sprintf("%d career rows, using the first", matches))
	}
	if err != nil {
		s.tel.ReportWarning(report_scraper_career, url, err)
		return nil, true, err
	}
	return values, matches > 0, nil
}
