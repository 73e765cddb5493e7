package storage

import "time"

// Page is one recorded scrape of a URL
type Page struct {
	PageID     int
	URL        string
	Status     string
	Error      string
	TitleCount int
	LinkCount  int
	DurationMs int64
	FetchedAt  time.Time
}

// Item is one extracted value belonging to a page record
type Item struct {
	ItemID   int
	PageID   int
	Kind     string // "title" or "link"
	Position int
	Value    string
}

// Metrics tracks run statistics for export on exit
type Metrics struct {
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	PagesFetched      int       `json:"pages_fetched"`
	PagesFailed       int       `json:"pages_failed"`
	TitlesExtracted   int       `json:"titles_extracted"`
	LinksExtracted    int       `json:"links_extracted"`
	TotalFetchTimeMs  int64     `json:"total_fetch_time_ms"`
	AvgFetchTimeMs    int64     `json:"avg_fetch_time_ms"`
	TerminationReason string    `json:"termination_reason"`
}
