package models

// Manifest is the subset of an installed package.json the installer reads.
type Manifest struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	PeerDependencies map[string]string `json:"peerDependencies"`

	// Path is where the manifest was found on disk.
	Path string `json:"-"`
}
