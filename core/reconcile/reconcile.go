package reconcile

import (
	"github.com/tristendillon/weexscan/core/models"
)

// Reconcile keeps the tags and modules that were used and have a package.
// Pkgs lists each package once: component packages in tag order, then
// module packages in module name order.
func Reconcile(c *Catalog, tags, modules models.Counter) *models.Result {
	res := models.NewResult()
	seen := map[string]bool{}
	add := func(pkg string) {
		if pkg == "" || seen[pkg] {
			return
		}
		seen[pkg] = true
		res.Pkgs = append(res.Pkgs, pkg)
	}

	for _, tag := range tags.Used() {
		if c.IsIgnored(tag) {
			continue
		}
		pkg, ok := c.Components[tag]
		if !ok {
			continue
		}
		res.Components[tag] = pkg
		add(pkg)
	}

	for _, name := range modules.Used() {
		pkg, ok := c.Modules[name]
		if !ok || pkg == "" {
			continue
		}
		res.Modules[name] = pkg
		add(pkg)
	}

	return res
}
