package rfp

import (
	"strings"

	"github.com/david/proposal-vault/internal/models"
)

// Extractor maps RFP prose to a RequirementsRecord with a fixed rule set.
// Rules are independent; none reads another's result.
type Extractor struct {
	capture   []captureRule
	presence  []presenceRule
	personnel personnelRule
}

// NewExtractor returns an extractor loaded with the KIF announcement rules.
func NewExtractor() *Extractor {
	return &Extractor{
		capture:   defaultCaptureRules(),
		presence:  defaultPresenceRules(),
		personnel: defaultPersonnelRule(),
	}
}

var defaultExtractor = NewExtractor()

// Extract runs the default rule set over text.
func Extract(text string) models.RequirementsRecord {
	return defaultExtractor.Extract(text)
}

// ExtractDocument decodes a document and extracts it. When the document cannot
// be read an empty record is returned together with an ErrUnreadableDocument
// error, which callers report as a warning.
func ExtractDocument(content []byte) (models.RequirementsRecord, error) {
	text, err := DocumentText(content)
	if err != nil {
		return models.NewRequirementsRecord(), err
	}
	return defaultExtractor.Extract(text), nil
}

// ExtractFile is ExtractDocument for a file on disk.
func ExtractFile(path string) (models.RequirementsRecord, error) {
	text, err := FileText(path)
	if err != nil {
		return models.NewRequirementsRecord(), err
	}
	return defaultExtractor.Extract(text), nil
}

func (e *Extractor) Extract(text string) models.RequirementsRecord {
	rec := models.NewRequirementsRecord()

	for _, rule := range e.capture {
		groups := rule.pattern.FindStringSubmatch(text)
		if groups == nil {
			continue
		}
		rule.assign(&rec, rule.format(groups))
	}

	for _, rule := range e.presence {
		values := []string{}
		for _, t := range rule.terms {
			if strings.Contains(text, t.needle) {
				values = appendUnique(values, t.value)
			}
		}
		rule.assign(&rec, values)
	}

	rec.CorePersonnelRequirements = e.personnel.apply(text)
	return rec
}

func (p personnelRule) apply(text string) models.CorePersonnel {
	var out models.CorePersonnel
	if !strings.Contains(text, p.gate) {
		return out
	}
	for _, t := range p.minimum {
		if strings.Contains(text, t.needle) {
			out.MinimumCount = t.value
			break
		}
	}
	if strings.Contains(text, p.lead.needle) {
		out.LeadManagerExperience = p.lead.value
	}
	if strings.Contains(text, p.other.needle) {
		out.OtherExperience = p.other.value
	}
	return out
}

// Fields lists the record fields the extractor can fill, in rule order.
func (e *Extractor) Fields() []string {
	var out []string
	for _, r := range e.capture {
		out = append(out, r.field)
	}
	out = append(out, "core_personnel_requirements")
	for _, r := range e.presence {
		out = append(out, r.field)
	}
	return out
}

// appendUnique appends v unless it is already present.
func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
