// Package dependency makes sure resolved packages and their peer
// dependencies are installed.
package dependency

import (
	"context"
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/tristendillon/weexscan/core/logger"
	"github.com/tristendillon/weexscan/core/models"
)

// RenderCorePackages are the host runtime packages.
var RenderCorePackages = []string{"weex-vue-render", "@ali/weex-vue-render"}

// ExcludedPeerDependencies are never imported by the entry file and, unless
// render core installs are allowed, never installed.
var ExcludedPeerDependencies = append(append([]string{}, RenderCorePackages...), "vue-loader")

func contains(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}

func IsExcludedPeer(name string) bool {
	return contains(ExcludedPeerDependencies, name)
}

type ManifestSource interface {
	Resolve(name string) (*models.Manifest, error)
}

type Options struct {
	// InstallPeerDependencies also installs every peer dependency.
	InstallPeerDependencies bool
	// InstallRenderCore lets peer installs touch the render core packages.
	InstallRenderCore bool
}

type Installer struct {
	manifests ManifestSource
	pm        PackageManager
	opts      Options
}

func NewInstaller(manifests ManifestSource, pm PackageManager, opts Options) *Installer {
	return &Installer{manifests: manifests, pm: pm, opts: opts}
}

// Satisfies reports whether version is inside the range.
func Satisfies(version, versionRange string) (bool, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false, fmt.Errorf("invalid version %q: %w", version, err)
	}
	c, err := semver.NewConstraint(versionRange)
	if err != nil {
		return false, fmt.Errorf("invalid range %q: %w", versionRange, err)
	}
	return c.Check(v), nil
}

func (i *Installer) install(ctx context.Context, name, versionRange string) error {
	full := name
	if versionRange != "" {
		full = name + "@" + versionRange
	}
	logger.Info(" => installing %s...", full)
	return i.pm.Install(ctx, name)
}

// Resolve returns the installed manifest of name. A missing manifest is
// installed and looked up once more; an installed version outside
// versionRange triggers an install.
func (i *Installer) Resolve(ctx context.Context, name, versionRange string) (*models.Manifest, error) {
	m, err := i.manifests.Resolve(name)
	if err != nil {
		logger.Debug("Package %s is not installed: %v", name, err)
		if err := i.install(ctx, name, versionRange); err != nil {
			return nil, err
		}
		m, err = i.manifests.Resolve(name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s after install: %w", name, err)
		}
		return m, nil
	}

	if versionRange == "" {
		return m, nil
	}
	ok, err := Satisfies(m.Version, versionRange)
	if err != nil {
		logger.Warn("Cannot check %s against %s: %v", name, versionRange, err)
		return m, nil
	}
	if !ok {
		logger.Debug("Installed %s@%s does not satisfy %s", name, m.Version, versionRange)
		if err := i.install(ctx, name, versionRange); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (i *Installer) skipPeerInstall(name string) bool {
	if i.opts.InstallRenderCore && contains(RenderCorePackages, name) {
		return false
	}
	return IsExcludedPeer(name)
}

// Ensure resolves every package and returns the merged peer dependency map.
func (i *Installer) Ensure(ctx context.Context, pkgs []string) (map[string]string, error) {
	peers := map[string]string{}
	for _, pkg := range pkgs {
		m, err := i.Resolve(ctx, pkg, "")
		if err != nil {
			return nil, err
		}

		names := make([]string, 0, len(m.PeerDependencies))
		for dep, rng := range m.PeerDependencies {
			peers[dep] = rng
			names = append(names, dep)
		}
		if !i.opts.InstallPeerDependencies {
			continue
		}
		sort.Strings(names)
		for _, dep := range names {
			if i.skipPeerInstall(dep) {
				logger.Debug("Not installing excluded peer dependency %s", dep)
				continue
			}
			if _, err := i.Resolve(ctx, dep, m.PeerDependencies[dep]); err != nil {
				return nil, fmt.Errorf("failed to install peer dependency %s of %s: %w", dep, pkg, err)
			}
		}
	}
	return peers, nil
}
