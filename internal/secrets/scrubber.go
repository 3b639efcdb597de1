package secrets

import (
	"sort"
)

// Finding records one detected secret.
type Finding struct {
	RuleID      string
	Description string
	StartIndex  int
	EndIndex    int
}

// Result carries the scrubbed content and what was found.
type Result struct {
	Original string
	Scrubbed string
	Findings []Finding
}

// Clean reports whether no secrets were found.
func (r *Result) Clean() bool {
	return len(r.Findings) == 0
}

// Scrubber detects and redacts secrets from content.
type Scrubber interface {
	// Scrub redacts secrets and reports what was found.
	Scrub(content string) *Result

	// Redact is the convenience form: scrubbed content only.
	Redact(content string) string
}

// scrubber is the default implementation using regexp rules.
type scrubber struct {
	config *Config
}

// New creates a Scrubber. A nil config gets DefaultConfig().
func New(cfg *Config) (Scrubber, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &scrubber{config: cfg}, nil
}

// MustNew creates a Scrubber, panicking on error. Safe with DefaultConfig.
func MustNew(cfg *Config) Scrubber {
	s, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

// redaction tracks a span to replace.
type redaction struct {
	start, end int
}

// Scrub redacts secrets from the content.
func (s *scrubber) Scrub(content string) *Result {
	result := &Result{Original: content, Scrubbed: content}
	if !s.config.Enabled {
		return result
	}

	var spans []redaction
	for _, rule := range s.config.compiledRules {
		for _, match := range rule.pattern.FindAllStringIndex(content, -1) {
			if s.isAllowed(content[match[0]:match[1]]) {
				continue
			}
			result.Findings = append(result.Findings, Finding{
				RuleID:      rule.ID,
				Description: rule.Description,
				StartIndex:  match[0],
				EndIndex:    match[1],
			})
			spans = append(spans, redaction{start: match[0], end: match[1]})
		}
	}

	if len(spans) > 0 {
		merged := mergeRedactions(spans)

		// Replace back to front so earlier indexes stay valid.
		scrubbed := content
		for i := len(merged) - 1; i >= 0; i-- {
			r := merged[i]
			scrubbed = scrubbed[:r.start] + s.config.RedactionString + scrubbed[r.end:]
		}
		result.Scrubbed = scrubbed
	}

	return result
}

// Redact returns the scrubbed content.
func (s *scrubber) Redact(content string) string {
	return s.Scrub(content).Scrubbed
}

func (s *scrubber) isAllowed(match string) bool {
	for _, pattern := range s.config.compiledAllowList {
		if pattern.MatchString(match) {
			return true
		}
	}
	return false
}

// mergeRedactions sorts spans and merges overlapping or adjacent ones.
func mergeRedactions(spans []redaction) []redaction {
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	merged := []redaction{spans[0]}
	for _, curr := range spans[1:] {
		last := &merged[len(merged)-1]
		if curr.start <= last.end {
			if curr.end > last.end {
				last.end = curr.end
			}
		} else {
			merged = append(merged, curr)
		}
	}
	return merged
}

// NoopScrubber passes content through unchanged.
type NoopScrubber struct{}

// Scrub returns content unchanged.
func (NoopScrubber) Scrub(content string) *Result {
	return &Result{Original: content, Scrubbed: content}
}

// Redact returns content unchanged.
func (NoopScrubber) Redact(content string) string {
	return content
}

var (
	_ Scrubber = (*scrubber)(nil)
	_ Scrubber = NoopScrubber{}
)
