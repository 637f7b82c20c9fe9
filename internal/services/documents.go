package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/GregMSThompson/investor-portal/internal/dto"
	"github.com/GregMSThompson/investor-portal/internal/errs"
	"github.com/GregMSThompson/investor-portal/internal/models"
	"github.com/GregMSThompson/investor-portal/pkg/logger"
)

const (
	matchedContentLength = 100
	filterAll            = "all"
)

type documentSource interface {
	Documents() []models.Document
}

// Summarizer writes the short summary shown next to a search hit.
type Summarizer interface {
	Summarize(doc models.Document) string
}

// TemplateSummarizer fills a fixed sentence from the document's metadata.
type TemplateSummarizer struct{}

func (TemplateSummarizer) Summarize(doc models.Document) string {
	fund := doc.FundName
	if fund == "" {
		fund = "the fund"
	}
	return fmt.Sprintf("AI Summary: This document contains key information about %s including %s details and relevant financial data.",
		fund, strings.ReplaceAll(doc.Type, "-", " "))
}

type documentService struct {
	source     documentSource
	summarizer Summarizer
}

func NewDocumentService(source documentSource, summarizer Summarizer) *documentService {
	if summarizer == nil {
		summarizer = TemplateSummarizer{}
	}
	return &documentService{source: source, summarizer: summarizer}
}

// List returns the documents matching every non-empty filter field. "all"
// matches anything.
func (s *documentService) List(_ context.Context, filter dto.DocumentFilter) []models.Document {
	out := []models.Document{}
	for _, doc := range s.source.Documents() {
		if !matchesFilter(filter.Category, doc.Category) || !matchesFilter(filter.Type, doc.Type) {
			continue
		}
		out = append(out, doc)
	}
	return out
}

func matchesFilter(want, got string) bool {
	return want == "" || strings.EqualFold(want, filterAll) || strings.EqualFold(want, got)
}

// Search matches the query case-insensitively against title, description,
// tags and fund name. Relevance grows with the number of fields that match,
// from 0.7 for one field to 1.0 for all four, and ties keep vault order.
func (s *documentService) Search(ctx context.Context, query string) ([]dto.DocumentSearchResult, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, errs.NewValidationError("query is required")
	}

	out := []dto.DocumentSearchResult{}
	for _, doc := range s.source.Documents() {
		fields := matchedFields(doc, q)
		if fields == 0 {
			continue
		}
		out = append(out, dto.DocumentSearchResult{
			Document:       doc,
			RelevanceScore: relevance(fields),
			MatchedContent: excerpt(doc.Description),
			Summary:        s.summarizer.Summarize(doc),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RelevanceScore > out[j].RelevanceScore })

	logger.FromContext(ctx).Debug("document search", "query", q, "results", len(out))
	return out, nil
}

func matchedFields(doc models.Document, q string) int {
	n := 0
	if strings.Contains(strings.ToLower(doc.Title), q) {
		n++
	}
	if strings.Contains(strings.ToLower(doc.Description), q) {
		n++
	}
	for _, tag := range doc.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			n++
			break
		}
	}
	if doc.FundName != "" && strings.Contains(strings.ToLower(doc.FundName), q) {
		n++
	}
	return n
}

func relevance(fields int) float64 {
	score := 0.7 + 0.1*float64(fields-1)
	if score > 1 {
		score = 1
	}
	return score
}

func excerpt(desc string) string {
	runes := []rune(desc)
	if len(runes) > matchedContentLength {
		runes = runes[:matchedContentLength]
	}
	return "..." + string(runes) + "..."
}
