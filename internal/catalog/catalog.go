package catalog

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/david/proposal-vault/internal/models"
)

//go:embed config/sections.yaml
var sectionsYAML embed.FS

// Section names that carry dedicated validation or fill rules.
const (
	FinancialPerformance = "1-2.재무실적"
	Compliance           = "1-3.준법성"
	CorePersonnel        = "1-4.핵심운용인력 관리현황"
	KIFFundPerformance   = "2-3.KIF 펀드 운용실적"
)

var ErrUnknownSection = errors.New("unknown section")

// Catalog is the fixed, ordered registry of proposal sections.
type Catalog struct {
	sections []models.Section
	index    map[string]int
}

type document struct {
	Sections []models.Section `yaml:"sections"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	defaultOnce.Do(func() {
		data, err := sectionsYAML.ReadFile("config/sections.yaml")
		if err != nil {
			defaultErr = err
			return
		}
		defaultCatalog, defaultErr = Parse(data)
	})
	if defaultErr != nil {
		// The embedded document is part of the build; failing here is a packaging bug.
		panic(fmt.Sprintf("embedded section catalog: %v", defaultErr))
	}
	return defaultCatalog
}

// Load reads a catalog from path, or returns the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(doc.Sections) == 0 {
		return nil, errors.New("catalog has no sections")
	}

	c := &Catalog{index: make(map[string]int, len(doc.Sections))}
	for _, s := range doc.Sections {
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			return nil, errors.New("catalog section with empty name")
		}
		if _, dup := c.index[s.Name]; dup {
			return nil, fmt.Errorf("duplicate catalog section %q", s.Name)
		}
		switch s.Reusability {
		case models.ReusabilityLow, models.ReusabilityMedium, models.ReusabilityHigh:
		default:
			return nil, fmt.Errorf("section %q: invalid reusability %q", s.Name, s.Reusability)
		}
		c.index[s.Name] = len(c.sections)
		c.sections = append(c.sections, s)
	}
	return c, nil
}

// Sections returns a copy of the entries in catalog order.
func (c *Catalog) Sections() []models.Section {
	out := make([]models.Section, len(c.sections))
	copy(out, c.sections)
	return out
}

// Names returns the section names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.sections))
	for i, s := range c.sections {
		out[i] = s.Name
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.sections)
}

func (c *Catalog) Lookup(name string) (models.Section, bool) {
	i, ok := c.index[name]
	if !ok {
		return models.Section{}, false
	}
	return c.sections[i], true
}

func (c *Catalog) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Categories returns the distinct category names in first-seen order.
func (c *Catalog) Categories() []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range c.sections {
		if !seen[s.Category] {
			seen[s.Category] = true
			out = append(out, s.Category)
		}
	}
	return out
}

// Match returns the first catalog entry whose name, or any dot-delimited token
// of it, is a substring of sheetName. Overlapping names are not disambiguated:
// "2-1" also matches "2-1-1.청산펀드 세부1".
func (c *Catalog) Match(sheetName string) (models.Section, bool) {
	for _, s := range c.sections {
		if strings.Contains(sheetName, s.Name) {
			return s, true
		}
		for _, token := range strings.Split(s.Name, ".") {
			if token != "" && strings.Contains(sheetName, token) {
				return s, true
			}
		}
	}
	return models.Section{}, false
}
