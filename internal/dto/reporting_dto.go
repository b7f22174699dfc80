package dto

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
)

// GenerateReportRequest is the body of POST /reports, accepted as JSON or as
// the form fields of the original upload page.
type GenerateReportRequest struct {
	ReportType  string `json:"reportType" form:"report_type" binding:"required,reporttype" example:"gl_compta_gen"`
	CompanyCode string `json:"companyCode" form:"company_code" binding:"required,max=16,keysafe" example:"CI13"`
	Year        int    `json:"year" form:"year" binding:"required,min=1900,max=9999" example:"2024"`
	StartMonth  int    `json:"startMonth" form:"start_month" binding:"required,min=1,max=12" example:"1"`
	EndMonth    int    `json:"endMonth" form:"end_month" binding:"required,min=1,max=12,gtefield=StartMonth" example:"12"`
	PartnerType string `json:"partnerType,omitempty" form:"partner_type" binding:"omitempty,partnertype" example:"Vendor"`
	Bank        bool   `json:"bank" form:"bank"`
	Layout      string `json:"layout,omitempty" form:"layout" binding:"omitempty,max=32,keysafe" example:"compact"`
}

// ToDomain converts the request. The partner type is normalized to its canonical casing.
func (r GenerateReportRequest) ToDomain() domain.ReportRequest {
	return domain.ReportRequest{
		ReportType:  domain.ReportType(strings.TrimSpace(r.ReportType)),
		CompanyCode: strings.TrimSpace(r.CompanyCode),
		Year:        r.Year,
		StartMonth:  r.StartMonth,
		EndMonth:    r.EndMonth,
		PartnerType: ParsePartnerType(r.PartnerType),
		Bank:        r.Bank,
		Layout:      strings.TrimSpace(r.Layout),
	}
}

// ParsePartnerType maps "vendor" or "customer" in any case to the domain value.
func ParsePartnerType(s string) domain.PartnerType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vendor":
		return domain.PartnerVendor
	case "customer":
		return domain.PartnerCustomer
	}
	return domain.PartnerNone
}

// PrintJournalRequest is the body of POST /journal/print.
type PrintJournalRequest struct {
	CompanyCode    string `json:"companyCode" form:"company_code" binding:"required,max=16,keysafe" example:"CI13"`
	Year           int    `json:"year" form:"year" binding:"required,min=1900,max=9999" example:"2024"`
	DocumentNumber string `json:"documentNumber" form:"document_number" binding:"required" example:"100000123"`
}

func (r PrintJournalRequest) ToDomain() domain.JournalRequest {
	return domain.JournalRequest{
		CompanyCode:    strings.TrimSpace(r.CompanyCode),
		Year:           r.Year,
		DocumentNumber: strings.TrimSpace(r.DocumentNumber),
	}
}

// ClearCacheRequest selects one entry by its printed key. An empty body clears everything.
type ClearCacheRequest struct {
	CacheKey string `json:"cacheKey,omitempty" example:"bal_gen:CI13:2024:1:12::false::3f2a..."`
}

// SchemaWarningResponse reports a column that was missing or coerced on ingestion.
type SchemaWarningResponse struct {
	File     string `json:"file"`
	Column   string `json:"column"`
	Expected string `json:"expected"`
	Detail   string `json:"detail"`
	Coerced  bool   `json:"coerced"`
}

// ReportArtifactResponse describes a generated artifact when the caller asks for JSON.
type ReportArtifactResponse struct {
	FileName  string                  `json:"fileName"`
	CacheKey  string                  `json:"cacheKey,omitempty"`
	CacheHit  bool                    `json:"cacheHit"`
	Empty     bool                    `json:"empty"`
	Warnings  []SchemaWarningResponse `json:"warnings,omitempty"`
	CreatedAt time.Time               `json:"createdAt"`
}

// ToReportArtifactResponse converts a domain artifact, leaving out its server-side path.
func ToReportArtifactResponse(a *domain.ReportArtifact) ReportArtifactResponse {
	resp := ReportArtifactResponse{
		FileName:  a.FileName,
		CacheKey:  a.CacheKey,
		CacheHit:  a.CacheHit,
		Empty:     a.Empty,
		CreatedAt: a.CreatedAt,
	}
	for _, w := range a.Warnings {
		resp.Warnings = append(resp.Warnings, SchemaWarningResponse{
			File:     w.File,
			Column:   w.Column,
			Expected: w.Expected,
			Detail:   w.Detail,
			Coerced:  w.Coerced,
		})
	}
	return resp
}

// CacheStatsResponse mirrors domain.CacheStats.
type CacheStatsResponse struct {
	TotalEntries int    `json:"totalEntries"`
	TotalBytes   int64  `json:"totalBytes"`
	Location     string `json:"location"`
	Backend      string `json:"backend"`
}

func ToCacheStatsResponse(s domain.CacheStats) CacheStatsResponse {
	return CacheStatsResponse{
		TotalEntries: s.EntryCount,
		TotalBytes:   s.TotalBytes,
		Location:     s.Location,
		Backend:      s.Backend,
	}
}

// CacheEntryResponse describes one cached artifact without its server path.
type CacheEntryResponse struct {
	CacheKey   string    `json:"cacheKey"`
	FileName   string    `json:"fileName"`
	CreatedAt  time.Time `json:"createdAt"`
	AccessedAt time.Time `json:"accessedAt"`
}

// CacheEntryPageResponse is the body of GET /cache/entries.
type CacheEntryPageResponse struct {
	Entries       []CacheEntryResponse `json:"entries"`
	NextPageToken string               `json:"nextPageToken,omitempty"`
}

func ToCacheEntryPageResponse(page *domain.CacheEntryPage) CacheEntryPageResponse {
	out := CacheEntryPageResponse{
		Entries:       make([]CacheEntryResponse, 0, len(page.Entries)),
		NextPageToken: page.NextPageToken,
	}
	for _, e := range page.Entries {
		out.Entries = append(out.Entries, CacheEntryResponse{
			CacheKey:   e.Key,
			FileName:   filepath.Base(e.ArtifactPath),
			CreatedAt:  e.CreatedAt,
			AccessedAt: e.AccessedAt,
		})
	}
	return out
}

// ReportTypeResponse is one entry of the report catalogue.
type ReportTypeResponse struct {
	Code  string `json:"code"`
	Title string `json:"title"`
}

// ToReportTypeResponses lists the implemented report types in menu order.
func ToReportTypeResponses() []ReportTypeResponse {
	out := make([]ReportTypeResponse, 0, len(domain.SupportedReportTypes))
	for _, t := range domain.SupportedReportTypes {
		out = append(out, ReportTypeResponse{Code: string(t), Title: t.Title()})
	}
	return out
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error" example:"Not Yet Implemented"`
}
