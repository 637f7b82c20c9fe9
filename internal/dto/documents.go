package dto

import "github.com/GregMSThompson/investor-portal/internal/models"

type DocumentFilter struct {
	Category string
	Type     string
}

type DocumentSearchResult struct {
	Document       models.Document `json:"document"`
	RelevanceScore float64         `json:"relevanceScore"`
	MatchedContent string          `json:"matchedContent"`
	Summary        string          `json:"summary,omitempty"`
}
