// Package reconcile intersects usage counts with the metadata maps.
package reconcile

import (
	"github.com/tristendillon/weexscan/core/models"
)

// Catalog is the merged tag/module to package mapping for one run.
type Catalog struct {
	Components map[string]string
	Modules    map[string]string
	Ignore     map[string]struct{}
}

func mergeInto(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}

// NewCatalog merges the built-in set with the alternate set when
// includeAli is set. Ignored tags are removed after merging so neither
// set can bring them back.
func NewCatalog(desc *models.Descriptor, includeAli bool) *Catalog {
	c := &Catalog{
		Components: map[string]string{},
		Modules:    map[string]string{},
		Ignore:     map[string]struct{}{},
	}
	if desc == nil {
		return c
	}

	mergeInto(c.Components, desc.BuiltIn.Component)
	mergeInto(c.Modules, desc.BuiltIn.Module)
	if includeAli && desc.Ali != nil {
		mergeInto(c.Components, desc.Ali.Component)
		mergeInto(c.Modules, desc.Ali.Module)
	}

	for _, tag := range desc.Ignore {
		c.Ignore[tag] = struct{}{}
		delete(c.Components, tag)
	}
	return c
}

func (c *Catalog) IsIgnored(tag string) bool {
	_, ok := c.Ignore[tag]
	return ok
}

// SeedUsage returns a counter with a zero entry for every known tag.
func (c *Catalog) SeedUsage() models.Counter {
	usage := models.NewCounter()
	for tag := range c.Components {
		usage.Seed(tag)
	}
	return usage
}

// WithoutIgnored returns a copy of seen without the ignored tags.
func (c *Catalog) WithoutIgnored(seen models.Counter) models.Counter {
	out := models.NewCounter()
	for tag, n := range seen {
		if !c.IsIgnored(tag) {
			out[tag] = n
		}
	}
	return out
}
