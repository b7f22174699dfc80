package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CacheKey identifies a generated report together with the state of every
// source file it was computed from.
type CacheKey struct {
	ReportType  ReportType  `json:"reportType"`
	CompanyCode string      `json:"companyCode"`
	Year        int         `json:"year"`
	StartMonth  int         `json:"startMonth"`
	EndMonth    int         `json:"endMonth"`
	PartnerType PartnerType `json:"partnerType,omitempty"`
	Bank        bool        `json:"bank"`
	Layout      string      `json:"layout,omitempty"`
	Signature   string      `json:"signature"`
}

// String renders the key as type:company:year:start:end:partner:bank:layout:signature.
func (k CacheKey) String() string {
	return strings.Join([]string{
		string(k.ReportType),
		k.CompanyCode,
		strconv.Itoa(k.Year),
		strconv.Itoa(k.StartMonth),
		strconv.Itoa(k.EndMonth),
		string(k.PartnerType),
		strconv.FormatBool(k.Bank),
		k.Layout,
		k.Signature,
	}, ":")
}

// ParseCacheKey is the inverse of CacheKey.String.
func ParseCacheKey(s string) (CacheKey, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 9 {
		return CacheKey{}, fmt.Errorf("malformed cache key %q: expected 9 fields, got %d", s, len(parts))
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return CacheKey{}, fmt.Errorf("malformed cache key year %q: %w", parts[2], err)
	}
	start, err := strconv.Atoi(parts[3])
	if err != nil {
		return CacheKey{}, fmt.Errorf("malformed cache key start month %q: %w", parts[3], err)
	}
	end, err := strconv.Atoi(parts[4])
	if err != nil {
		return CacheKey{}, fmt.Errorf("malformed cache key end month %q: %w", parts[4], err)
	}
	bank, err := strconv.ParseBool(parts[6])
	if err != nil {
		return CacheKey{}, fmt.Errorf("malformed cache key bank flag %q: %w", parts[6], err)
	}
	return CacheKey{
		ReportType:  ReportType(parts[0]),
		CompanyCode: parts[1],
		Year:        year,
		StartMonth:  start,
		EndMonth:    end,
		PartnerType: PartnerType(parts[5]),
		Bank:        bank,
		Layout:      parts[7],
		Signature:   parts[8],
	}, nil
}

// CacheEntry is the persisted record of one cached artifact.
type CacheEntry struct {
	Key          string    `json:"-"`
	ArtifactPath string    `json:"file_path"`
	CreatedAt    time.Time `json:"created_at"`
	AccessedAt   time.Time `json:"accessed_at"`
}

// CacheStats summarizes the cache content.
type CacheStats struct {
	EntryCount int    `json:"totalEntries"`
	TotalBytes int64  `json:"totalBytes"`
	Location   string `json:"location"`
	Backend    string `json:"backend"`
}

// CacheEntryPage is one page of cache entries, most recently accessed first.
type CacheEntryPage struct {
	Entries       []CacheEntry `json:"entries"`
	NextPageToken string       `json:"nextPageToken,omitempty"`
}
