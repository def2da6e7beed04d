// Package catalog is the static list of standard HTTP status codes.
//
// The list is compiled into the binary from codes.yaml and never changes at
// runtime, so a Catalog is safe for concurrent use without locking. It backs
// GET /api/v1/codes and the "codes" CLI command; explanations themselves
// always come from the AI provider.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/statusteacher/statusteacher/pkg/models"
)

//go:embed codes.yaml
var codesYAML []byte

// ErrUnknownCategory is returned for a category filter other than 1xx..5xx.
var ErrUnknownCategory = errors.New("unknown category: use 1xx, 2xx, 3xx, 4xx or 5xx")

// Categories lists the accepted filter values in order.
var Categories = []string{"1xx", "2xx", "3xx", "4xx", "5xx"}

type document struct {
	Codes []models.StatusCodeInfo `yaml:"codes"`
}

// Catalog is an immutable, sorted status code list.
type Catalog struct {
	codes  []models.StatusCodeInfo
	byCode map[int]models.StatusCodeInfo
}

// New loads the embedded catalog.
func New() (*Catalog, error) {
	return Parse(codesYAML)
}

// Parse builds a catalog from a YAML document. Codes outside 100–599 and
// duplicates are rejected.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{byCode: make(map[int]models.StatusCodeInfo, len(doc.Codes))}
	for _, info := range doc.Codes {
		if !models.ValidStatusCode(info.Code) {
			return nil, fmt.Errorf("catalog: code %d out of range", info.Code)
		}
		if _, dup := c.byCode[info.Code]; dup {
			return nil, fmt.Errorf("catalog: duplicate code %d", info.Code)
		}
		info.Category = models.CategoryFor(info.Code)
		c.byCode[info.Code] = info
		c.codes = append(c.codes, info)
	}
	sort.Slice(c.codes, func(i, j int) bool { return c.codes[i].Code < c.codes[j].Code })
	return c, nil
}

// List returns all codes, or those of one category ("4xx", case-insensitive),
// in ascending order. An empty category means all.
func (c *Catalog) List(category string) ([]models.StatusCodeInfo, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" || category == "all" {
		return append([]models.StatusCodeInfo(nil), c.codes...), nil
	}
	if !lo.Contains(Categories, category) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	class := int(category[0] - '0')
	return lo.Filter(c.codes, func(info models.StatusCodeInfo, _ int) bool {
		return info.Code/100 == class
	}), nil
}

// Lookup returns the catalog row for code.
func (c *Catalog) Lookup(code int) (models.StatusCodeInfo, bool) {
	info, ok := c.byCode[code]
	return info, ok
}

// Len returns the number of codes.
func (c *Catalog) Len() int { return len(c.codes) }
