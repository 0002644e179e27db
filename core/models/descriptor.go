package models

// PackageSet maps component tags and module names to the packages that
// implement them.
type PackageSet struct {
	Component map[string]string `json:"component"`
	Module    map[string]string `json:"module"`
}

// Descriptor is the metadata document listing the known components and
// modules. It is loaded once per run and never mutated afterwards.
type Descriptor struct {
	BuiltIn PackageSet  `json:"built-in"`
	Ali     *PackageSet `json:"ali,omitempty"`
	Ignore  []string    `json:"ignore"`
}

func (d *Descriptor) IsIgnored(tag string) bool {
	for _, ig := range d.Ignore {
		if ig == tag {
			return true
		}
	}
	return false
}
