package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Month name alternates for literal date patterns.
const monthAlternates = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

// Patterns for expression matching.
var (
	// Range phrasings, most specific first.
	rangePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^between\s+(.+?)\s+and\s+(.+)$`),
		regexp.MustCompile(`^from\s+(.+?)\s+to\s+(.+)$`),
		regexp.MustCompile(`^(.+?)\s+through\s+(.+)$`),
		regexp.MustCompile(`^(.+?)\s+to\s+(.+)$`),
		regexp.MustCompile(`^(.+?)\s+-\s+(.+)$`),
	}

	// Relative offset patterns.
	nextNPattern   = regexp.MustCompile(`\bnext\s+(\d+)\s+(day|week|month)s?\b`)
	fromNowPattern = regexp.MustCompile(`\b(\d+)\s+(day|week|month)s?\s+from\s+now\b`)
	inNPattern     = regexp.MustCompile(`\bin\s+(\d+)\s+(day|week|month)s?\b`)

	// Literal date patterns.
	ordinalPattern      = regexp.MustCompile(`(\d+)(?:st|nd|rd|th)\b`)
	isoDatePattern      = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	dayFirstDatePattern = regexp.MustCompile(`\b(\d{1,2})[-/](\d{1,2})[-/](\d{4})\b`)
	monthDayPattern     = regexp.MustCompile(`\b(` + monthAlternates + `)\s+(\d{1,2})(?:,?\s+(\d{4}))?\b`)
	dayMonthPattern     = regexp.MustCompile(`\b(\d{1,2})\s+(` + monthAlternates + `)(?:\s+(\d{4}))?\b`)
)

// monthsByName maps month names and abbreviations to months.
var monthsByName = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// overdueTerms short-circuit an expression to "due before today". Terms
// match on word boundaries so "late" never fires inside "later" and the
// comparison phrases stay reachable.
var (
	overdueTerms   = []string{"overdue", "late", "past due", "behind schedule", "delayed", "missed", "expired"}
	overduePattern = regexp.MustCompile(`\b(?:` + strings.Join(overdueTerms, "|") + `)\b`)
)

// comparisonPhrase maps a phrase to the predicate kind it introduces.
// Multi-word phrases come first so "on or before" never matches as "before".
type comparisonPhrase struct {
	phrase string
	kind   Kind
	re     *regexp.Regexp
}

var comparisonPhrases = buildComparisonPhrases()

func buildComparisonPhrases() []comparisonPhrase {
	entries := []struct {
		phrase string
		kind   Kind
	}{
		{"on or before", KindOnOrBefore},
		{"on or after", KindOnOrAfter},
		{"no later than", KindOnOrBefore},
		{"no earlier than", KindOnOrAfter},
		{"before", KindBefore},
		{"after", KindAfter},
		{"until", KindOnOrBefore},
		{"by", KindOnOrBefore},
		{"since", KindOnOrAfter},
		{"from", KindOnOrAfter},
	}
	phrases := make([]comparisonPhrase, 0, len(entries))
	for _, e := range entries {
		phrases = append(phrases, comparisonPhrase{
			phrase: e.phrase,
			kind:   e.kind,
			re:     regexp.MustCompile(`(?:^|\s)(` + e.phrase + `)\s+(.+)$`),
		})
	}
	return phrases
}

// rule pairs a recognizer name with its resolver. Rules are evaluated in a
// fixed order and the first match wins; a recognizer that does not apply
// reports no match instead of failing, so later rules get their turn.
type rule struct {
	name    string
	resolve func(text string, today time.Time) (Predicate, bool)
}

// Parser resolves natural language date expressions into predicates.
// All date math inside one Resolve call uses the single today value passed
// in by the caller; the parser itself holds no clock.
type Parser struct {
	cfg *Config

	// rules is the full cascade; single is the restricted sub-resolver
	// used for range sides, comparison fragments and fuzzy remainders.
	// The sub-resolver excludes ranges and comparisons so recursive
	// resolution always terminates.
	rules  []rule
	single []rule
}

// NewParser creates a parser with the default configuration.
func NewParser() *Parser {
	return NewParserWithConfig(DefaultConfig())
}

// NewParserWithConfig creates a parser with the given configuration.
func NewParserWithConfig(cfg *Config) *Parser {
	if err := ValidateConfig(cfg); err != nil {
		panic(fmt.Sprintf("invalid config: %v", err))
	}

	p := &Parser{cfg: cfg}
	// The fuzzy recognizer leads the sub-resolver: it peels its qualifier
	// word and re-resolves the remainder, so it must run before the rules
	// that would otherwise match the remainder with the qualifier still
	// attached ("around end of month").
	p.single = []rule{
		{"fuzzy reference", p.matchFuzzy},
		{"basic keyword", p.matchBasicKeyword},
		{"relative offset", p.matchRelativeOffset},
		{"specific date", p.matchSpecificDate},
		{"business period", p.matchBusinessPeriod},
	}
	p.rules = append([]rule{
		{"overdue", p.matchOverdue},
		{"range", p.matchRange},
		{"comparison", p.matchComparison},
	}, p.single...)

	return p
}

// Resolve parses a natural language date expression relative to today.
// It returns a ParseError when no rule recognizes the expression.
func (p *Parser) Resolve(text string, today time.Time) (Predicate, error) {
	normalized := normalizeExpression(text)
	if normalized == "" {
		return Predicate{}, &ParseError{Text: text}
	}

	day := Midnight(today)
	for _, r := range p.rules {
		if pred, ok := r.resolve(normalized, day); ok {
			return pred, nil
		}
	}

	return Predicate{}, &ParseError{Text: text}
}

// resolveSingle runs the restricted single-date sub-resolver.
func (p *Parser) resolveSingle(text string, today time.Time) (Predicate, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Predicate{}, false
	}
	for _, r := range p.single {
		if pred, ok := r.resolve(text, today); ok {
			return pred, true
		}
	}
	return Predicate{}, false
}

// ContainsOverdue reports whether the expression carries an overdue term.
func ContainsOverdue(text string) bool {
	return overduePattern.MatchString(strings.ToLower(text))
}

// normalizeExpression lowercases, collapses whitespace and strips ordinal
// day suffixes ("jan 1st" becomes "jan 1").
func normalizeExpression(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = ordinalPattern.ReplaceAllString(text, "$1")
	return strings.Join(strings.Fields(text), " ")
}

// --- rule: overdue ---

func (p *Parser) matchOverdue(text string, today time.Time) (Predicate, bool) {
	if !ContainsOverdue(text) {
		return Predicate{}, false
	}
	return Before(today), true
}

// --- rule: range ---

func (p *Parser) matchRange(text string, today time.Time) (Predicate, bool) {
	for _, re := range rangePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		startPred, ok := p.resolveSingle(m[1], today)
		if !ok {
			continue
		}
		endPred, ok := p.resolveSingle(m[2], today)
		if !ok {
			continue
		}
		start := startPred.lowerBound()
		if start.IsZero() {
			start = startPred.upperBound()
		}
		end := endPred.upperBound()
		if end.IsZero() {
			end = endPred.lowerBound()
		}
		return Span(start, end), true
	}
	return Predicate{}, false
}

// --- rule: comparison ---

func (p *Parser) matchComparison(text string, today time.Time) (Predicate, bool) {
	// "day after tomorrow" embeds the word "after"; occurrences inside that
	// keyword must never be read as a comparison.
	guards := phraseSpans(text, "day after tomorrow")

	for _, cp := range comparisonPhrases {
		loc := cp.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		if spanContains(guards, loc[2]) {
			continue
		}
		fragment := strings.TrimSpace(text[loc[4]:loc[5]])
		inner, ok := p.resolveSingle(fragment, today)
		if !ok {
			// The fragment may still be meaningful to a later rule,
			// e.g. "2 weeks from now" must not die on "from now".
			continue
		}
		// A range fragment pivots on its nearest edge: "before next
		// week" means before the week begins, "after next week" means
		// after it ends. Exact fragments have a single edge anyway.
		switch cp.kind {
		case KindBefore:
			return Before(boundForLower(inner)), true
		case KindOnOrBefore:
			return OnOrBefore(boundForLower(inner)), true
		case KindAfter:
			return After(boundForUpper(inner)), true
		default:
			return OnOrAfter(boundForUpper(inner)), true
		}
	}
	return Predicate{}, false
}

// boundForUpper collapses a sub-resolved predicate to the date an upper
// bound comparison should pivot on.
func boundForUpper(p Predicate) time.Time {
	if b := p.upperBound(); !b.IsZero() {
		return b
	}
	return p.lowerBound()
}

func boundForLower(p Predicate) time.Time {
	if b := p.lowerBound(); !b.IsZero() {
		return b
	}
	return p.upperBound()
}

// phraseSpans returns the [start,end) spans of every occurrence of phrase.
func phraseSpans(text, phrase string) [][2]int {
	var spans [][2]int
	for offset := 0; ; {
		idx := strings.Index(text[offset:], phrase)
		if idx < 0 {
			return spans
		}
		start := offset + idx
		spans = append(spans, [2]int{start, start + len(phrase)})
		offset = start + len(phrase)
	}
}

func spanContains(spans [][2]int, pos int) bool {
	for _, s := range spans {
		if pos >= s[0] && pos < s[1] {
			return true
		}
	}
	return false
}

// --- rule: basic keywords ---

func (p *Parser) matchBasicKeyword(text string, today time.Time) (Predicate, bool) {
	// Ordered so that "day after tomorrow" wins over "tomorrow".
	keywords := []struct {
		keyword string
		calc    func(time.Time) Predicate
	}{
		{"day after tomorrow", func(t time.Time) Predicate { return Exact(t.AddDate(0, 0, 2)) }},
		{"tomorrow", func(t time.Time) Predicate { return Exact(t.AddDate(0, 0, 1)) }},
		{"yesterday", func(t time.Time) Predicate { return Exact(t.AddDate(0, 0, -1)) }},
		{"today", Exact},
		{"this week", func(t time.Time) Predicate { return weekSpan(t, 0) }},
		{"next week", func(t time.Time) Predicate { return weekSpan(t, 7) }},
		{"last week", func(t time.Time) Predicate { return weekSpan(t, -7) }},
		{"this month", func(t time.Time) Predicate { return monthSpan(t, 0) }},
		{"next month", func(t time.Time) Predicate { return monthSpan(t, 1) }},
		{"last month", func(t time.Time) Predicate { return monthSpan(t, -1) }},
	}

	for _, k := range keywords {
		if strings.Contains(text, k.keyword) {
			return k.calc(today), true
		}
	}
	return Predicate{}, false
}

// weekStart returns the Monday of the week containing today.
func weekStart(today time.Time) time.Time {
	weekday := int(today.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return today.AddDate(0, 0, -(weekday - 1))
}

// weekSpan returns the Monday-Sunday range of the week offset days away.
func weekSpan(today time.Time, offset int) Predicate {
	start := weekStart(today).AddDate(0, 0, offset)
	return Span(start, start.AddDate(0, 0, 6))
}

// monthSpan returns the full calendar month offset months away.
func monthSpan(today time.Time, offset int) Predicate {
	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, offset, 0)
	return Span(start, start.AddDate(0, 1, -1))
}

// --- rule: relative offsets ---

func (p *Parser) matchRelativeOffset(text string, today time.Time) (Predicate, bool) {
	if m := nextNPattern.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return Span(today, addUnits(today, n, m[2])), true
	}
	if m := fromNowPattern.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return Exact(addUnits(today, n, m[2])), true
	}
	if m := inNPattern.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return Exact(addUnits(today, n, m[2])), true
	}
	return Predicate{}, false
}

func addUnits(t time.Time, n int, unit string) time.Time {
	switch unit {
	case "day":
		return t.AddDate(0, 0, n)
	case "week":
		return t.AddDate(0, 0, 7*n)
	default: // month
		return t.AddDate(0, n, 0)
	}
}

// --- rule: specific dates ---

func (p *Parser) matchSpecificDate(text string, today time.Time) (Predicate, bool) {
	if d, ok := p.parseLiteralDate(text, today); ok {
		return Exact(d), true
	}
	return Predicate{}, false
}

func (p *Parser) parseLiteralDate(text string, today time.Time) (time.Time, bool) {
	if m := isoDatePattern.FindStringSubmatch(text); m != nil {
		return makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}

	if m := dayFirstDatePattern.FindStringSubmatch(text); m != nil {
		if d, ok := makeDate(atoi(m[3]), atoi(m[2]), atoi(m[1])); ok {
			return d, true
		}
		// Month-first fallback for inputs like 12/25/2024.
		return makeDate(atoi(m[3]), atoi(m[1]), atoi(m[2]))
	}

	if m := monthDayPattern.FindStringSubmatch(text); m != nil {
		return p.makeNamedMonthDate(m[1], m[2], m[3], text, today)
	}

	if m := dayMonthPattern.FindStringSubmatch(text); m != nil {
		return p.makeNamedMonthDate(m[2], m[1], m[3], text, today)
	}

	return time.Time{}, false
}

// makeNamedMonthDate builds a date from a month name, a day and an optional
// year, applying the year-rollover heuristic when the year is absent.
func (p *Parser) makeNamedMonthDate(monthName, dayStr, yearStr, text string, today time.Time) (time.Time, bool) {
	month, ok := monthsByName[monthName]
	if !ok {
		return time.Time{}, false
	}

	if yearStr != "" {
		return makeDate(atoi(yearStr), int(month), atoi(dayStr))
	}

	d, ok := makeDate(today.Year(), int(month), atoi(dayStr))
	if !ok {
		return time.Time{}, false
	}
	// Ambiguity heuristic: a short yearless phrase that already passed this
	// year almost always means the next occurrence. Longer phrases may be
	// deliberately historical and are left alone.
	if p.cfg.YearRollover && d.Before(today) && len(strings.Fields(text)) < p.cfg.YearRolloverMaxTokens {
		d = d.AddDate(1, 0, 0)
	}
	return d, true
}

func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != time.Month(month) {
		// time.Date normalized an overflow such as Feb 30.
		return time.Time{}, false
	}
	return d, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// --- rule: business periods ---

func (p *Parser) matchBusinessPeriod(text string, today time.Time) (Predicate, bool) {
	// Ordered so that "fiscal year end" is never swallowed by "year end".
	periods := []struct {
		phrase string
		calc   func(time.Time) time.Time
	}{
		{"fiscal year end", p.fiscalYearEnd},
		{"beginning of month", startOfMonth},
		{"start of month", startOfMonth},
		{"month start", startOfMonth},
		{"end of month", endOfMonth},
		{"month end", endOfMonth},
		{"beginning of quarter", startOfQuarter},
		{"start of quarter", startOfQuarter},
		{"quarter start", startOfQuarter},
		{"end of quarter", endOfQuarter},
		{"quarter end", endOfQuarter},
		{"beginning of year", startOfYear},
		{"start of year", startOfYear},
		{"year start", startOfYear},
		{"end of year", endOfYear},
		{"year end", endOfYear},
	}

	for _, period := range periods {
		if strings.Contains(text, period.phrase) {
			return Exact(period.calc(today)), true
		}
	}
	return Predicate{}, false
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func endOfMonth(t time.Time) time.Time {
	return startOfMonth(t).AddDate(0, 1, -1)
}

func startOfQuarter(t time.Time) time.Time {
	quarter := (int(t.Month()) - 1) / 3
	return time.Date(t.Year(), time.Month(quarter*3+1), 1, 0, 0, 0, 0, time.UTC)
}

func endOfQuarter(t time.Time) time.Time {
	return startOfQuarter(t).AddDate(0, 3, -1)
}

func startOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
}

func endOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
}

// fiscalYearEnd returns the last day of the current fiscal year relative
// to today, given the configured fiscal year start month.
func (p *Parser) fiscalYearEnd(today time.Time) time.Time {
	start := time.Date(today.Year(), p.cfg.FiscalYearStartMonth, 1, 0, 0, 0, 0, time.UTC)
	if today.Before(start) {
		return start.AddDate(0, 0, -1)
	}
	return start.AddDate(1, 0, -1)
}

// --- rule: fuzzy references ---

func (p *Parser) matchFuzzy(text string, today time.Time) (Predicate, bool) {
	words := strings.Fields(text)
	for i, w := range words {
		tolerance, ok := p.cfg.FuzzyTolerances[w]
		if !ok {
			continue
		}
		rest := make([]string, 0, len(words)-1)
		rest = append(rest, words[:i]...)
		rest = append(rest, words[i+1:]...)
		remainder := strings.Join(rest, " ")
		if remainder == "" {
			return Predicate{}, false
		}
		inner, ok := p.resolveSingle(remainder, today)
		if !ok {
			return Predicate{}, false
		}
		start := boundForLower(inner)
		end := boundForUpper(inner)
		return Span(start.AddDate(0, 0, -tolerance), end.AddDate(0, 0, tolerance)), true
	}
	return Predicate{}, false
}
