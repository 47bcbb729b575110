package queryengine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"
)

// Query types.
const (
	QueryTypeList  = "list"
	QueryTypeCount = "count"
)

// Item types. The source data standardizes on "purchase" and "manufacture";
// colloquial synonyms ("buy orders", "make orders") map onto them.
const (
	ItemTypePurchase    = "purchase"
	ItemTypeManufacture = "manufacture"
)

// QueryParams is a structured order query extracted from natural language.
type QueryParams struct {
	// TimeExpression is the remaining time phrase to hand to the
	// resolver, empty when the query has no time component.
	TimeExpression string
	// ItemType is "purchase", "manufacture" or empty for all.
	ItemType string
	// QueryType is "list" or "count".
	QueryType string
	// RescheduleNeeded selects orders with rescheduling pressure.
	RescheduleNeeded bool
}

// RouteDecision is the outcome of routing one natural query.
type RouteDecision struct {
	Params     QueryParams
	Confidence float32
}

// Router extracts structured query parameters from natural language order
// queries using keyword lexicons. The heavy lifting for the time phrase is
// delegated to the resolver by the caller; the router only isolates it.
type Router struct {
	config      *Config
	configMutex sync.RWMutex

	// itemTypeKeywords maps colloquial type words onto canonical types.
	itemTypeKeywords map[string]string

	// countKeywords switch the query from listing to counting.
	countKeywords []string

	// rescheduleKeywords flag queries about rescheduling pressure.
	rescheduleKeywords []string

	// overduePhrases are multi-word overdue synonyms, consumed whole
	// before stop-word removal so "past due" does not lose "due" to the
	// stop list. Single-word synonyms pass through as ordinary tokens.
	overduePhrases []string

	// stopWords are filler words removed before the remainder is treated
	// as a time expression.
	stopWords []string
}

// NewRouter creates a router with the default configuration.
func NewRouter() *Router {
	return NewRouterWithConfig(DefaultConfig())
}

// NewRouterWithConfig creates a router with the given configuration.
func NewRouterWithConfig(config *Config) *Router {
	if err := ValidateConfig(config); err != nil {
		panic(fmt.Sprintf("invalid config: %v", err))
	}

	return &Router{
		config: config,
		itemTypeKeywords: map[string]string{
			"purchase":      ItemTypePurchase,
			"purchasing":    ItemTypePurchase,
			"buy":           ItemTypePurchase,
			"po":            ItemTypePurchase,
			"manufacture":   ItemTypeManufacture,
			"manufacturing": ItemTypeManufacture,
			"make":          ItemTypeManufacture,
			"mo":            ItemTypeManufacture,
		},
		countKeywords: []string{
			"how many", "count of", "count", "number of", "total number",
		},
		rescheduleKeywords: []string{
			"need rescheduling", "needs rescheduling", "need to be rescheduled",
			"require rescheduling", "rescheduling", "reschedule",
		},
		overduePhrases: []string{
			"past due", "behind schedule",
		},
		stopWords: []string{
			"show", "me", "list", "find", "get", "give", "display",
			"orders", "order", "items", "item", "planned",
			"due", "are", "is", "that", "which", "what", "the", "a", "an",
			"all", "any", "there", "please", "i", "have", "do", "we",
		},
	}
}

// ApplyConfig swaps the configuration at runtime.
func (r *Router) ApplyConfig(config *Config) {
	r.configMutex.Lock()
	defer r.configMutex.Unlock()
	r.config = config
}

// GetConfig returns the current configuration.
func (r *Router) GetConfig() *Config {
	r.configMutex.RLock()
	defer r.configMutex.RUnlock()
	return r.config
}

// Route extracts structured parameters from a natural language query.
// Extraction is keyword driven and deterministic; anything the lexicons do
// not claim is left in place as the candidate time expression.
func (r *Router) Route(_ context.Context, query string) *RouteDecision {
	query = strings.TrimSpace(query)
	if max := r.GetConfig().QueryLimits.MaxQueryLength; len(query) > max {
		// Back up to a rune boundary so the cut never splits a UTF-8
		// sequence.
		cut := max
		for cut > 0 && !utf8.RuneStart(query[cut]) {
			cut--
		}
		query = query[:cut]
	}

	params := QueryParams{QueryType: QueryTypeList}
	confidence := float32(0.5)
	lower := strings.ToLower(query)

	// Count phrasing, removed as whole phrases before tokenizing.
	for _, keyword := range r.countKeywords {
		if strings.Contains(lower, keyword) {
			params.QueryType = QueryTypeCount
			lower = strings.ReplaceAll(lower, keyword, " ")
			confidence += 0.15
			break
		}
	}

	// Rescheduling pressure, longest phrases first so "need rescheduling"
	// is consumed whole rather than leaving "need" behind.
	for _, keyword := range r.rescheduleKeywords {
		if strings.Contains(lower, keyword) {
			params.RescheduleNeeded = true
			lower = strings.ReplaceAll(lower, keyword, " ")
			confidence += 0.15
			break
		}
	}

	// Multi-word overdue synonyms are lifted out whole and re-emitted as
	// the canonical "overdue" token for the resolver.
	overdue := false
	for _, phrase := range r.overduePhrases {
		if strings.Contains(lower, phrase) {
			overdue = true
			lower = strings.ReplaceAll(lower, phrase, " ")
			confidence += 0.15
			break
		}
	}

	// Item type and stop words are single tokens.
	var rest []string
	for _, word := range strings.Fields(lower) {
		if canonical, ok := r.itemTypeKeywords[word]; ok && params.ItemType == "" {
			params.ItemType = canonical
			confidence += 0.15
			continue
		}
		if r.isStopWord(word) {
			continue
		}
		rest = append(rest, word)
	}

	if overdue {
		rest = append([]string{"overdue"}, rest...)
	}
	params.TimeExpression = strings.Join(rest, " ")
	if params.TimeExpression != "" {
		confidence += 0.05
	}
	if confidence > 1 {
		confidence = 1
	}

	return &RouteDecision{Params: params, Confidence: confidence}
}

func (r *Router) isStopWord(word string) bool {
	for _, stop := range r.stopWords {
		if word == stop {
			return true
		}
	}
	return false
}
