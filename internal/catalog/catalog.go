package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"event-booking/internal/estimate"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var ErrInvalidCatalog = errors.New("invalid catalog")

// ServiceItem is one rentable service category offered on the form.
type ServiceItem struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Icon string `yaml:"icon" json:"icon"`
}

// BudgetRange is one coarse price bracket. Value is what the form posts.
type BudgetRange struct {
	Value   string `yaml:"value" json:"value"`
	Display string `yaml:"display" json:"display"`
}

// Catalog is the static option data rendered on the booking form.
type Catalog struct {
	EventTypes   []string          `yaml:"event_types" json:"event_types"`
	Services     []ServiceItem     `yaml:"services" json:"services"`
	BudgetRanges []BudgetRange     `yaml:"budget_ranges" json:"budget_ranges"`
	Estimate     *estimate.Formula `yaml:"estimate" json:"estimate"`

	eventTypes map[string]struct{}
	services   map[string]ServiceItem
	budgets    map[string]struct{}
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads the catalog at path, or the compiled-in one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and checks a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	if len(c.EventTypes) == 0 {
		return nil, fmt.Errorf("%w: no event types", ErrInvalidCatalog)
	}
	if c.Estimate == nil {
		f := estimate.Default
		c.Estimate = &f
	}

	c.eventTypes = make(map[string]struct{}, len(c.EventTypes))
	for _, t := range c.EventTypes {
		if t == "" {
			return nil, fmt.Errorf("%w: empty event type", ErrInvalidCatalog)
		}
		c.eventTypes[t] = struct{}{}
	}

	c.services = make(map[string]ServiceItem, len(c.Services))
	for _, s := range c.Services {
		if s.ID == "" {
			return nil, fmt.Errorf("%w: service without id", ErrInvalidCatalog)
		}
		if _, dup := c.services[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate service %q", ErrInvalidCatalog, s.ID)
		}
		c.services[s.ID] = s
	}

	c.budgets = make(map[string]struct{}, len(c.BudgetRanges))
	for _, b := range c.BudgetRanges {
		if b.Value == "" {
			return nil, fmt.Errorf("%w: budget range without value", ErrInvalidCatalog)
		}
		c.budgets[b.Value] = struct{}{}
	}

	return &c, nil
}

func (c *Catalog) HasEventType(t string) bool {
	_, ok := c.eventTypes[t]
	return ok
}

func (c *Catalog) HasService(id string) bool {
	_, ok := c.services[id]
	return ok
}

func (c *Catalog) HasBudgetRange(v string) bool {
	_, ok := c.budgets[v]
	return ok
}

// ServiceName returns the display name for id, falling back to id itself.
func (c *Catalog) ServiceName(id string) string {
	if s, ok := c.services[id]; ok {
		return s.Name
	}
	return id
}
