package models

// Asset is one file emitted by the host build. Name is relative to the
// build output path.
type Asset struct {
	Name string
	Size int
}

type BuildStats struct {
	Assets   []Asset
	Errors   []string
	Warnings []string
}

func (s *BuildStats) HasErrors() bool {
	return s != nil && len(s.Errors) > 0
}
