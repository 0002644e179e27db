package models

// Result is the outcome of one scan.
type Result struct {
	Components       map[string]string `json:"components" yaml:"components"`
	Modules          map[string]string `json:"modules" yaml:"modules"`
	Pkgs             []string          `json:"pkgs" yaml:"pkgs"`
	PeerDependencies map[string]string `json:"peerDependencies,omitempty" yaml:"peerDependencies,omitempty"`

	// AllTags counts every template tag seen, known or not. Ignored tags
	// are left out.
	AllTags Counter `json:"allTags,omitempty" yaml:"allTags,omitempty"`

	// Entry holds the generated entry source when one was produced.
	Entry string `json:"-" yaml:"-"`
}

func NewResult() *Result {
	return &Result{
		Components: map[string]string{},
		Modules:    map[string]string{},
		Pkgs:       []string{},
	}
}
