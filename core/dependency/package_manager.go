package dependency

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/tristendillon/weexscan/core/logger"
)

// PackageManager installs a package by name.
type PackageManager interface {
	Install(ctx context.Context, name string) error
}

// DefaultRegistries routes scoped packages to their own install tool.
var DefaultRegistries = map[string]string{
	"@ali/": "tnpm",
}

// ExecPackageManager shells out to npm, or to the tool registered for the
// package's scope.
type ExecPackageManager struct {
	Dir        string
	Default    string
	Registries map[string]string
}

func NewExecPackageManager(dir string, registries map[string]string) *ExecPackageManager {
	if registries == nil {
		registries = DefaultRegistries
	}
	return &ExecPackageManager{Dir: dir, Default: "npm", Registries: registries}
}

// Tool returns the executable used for name.
func (pm *ExecPackageManager) Tool(name string) string {
	scopes := make([]string, 0, len(pm.Registries))
	for scope := range pm.Registries {
		scopes = append(scopes, scope)
	}
	// longest scope wins
	sort.Slice(scopes, func(i, j int) bool { return len(scopes[i]) > len(scopes[j]) })
	for _, scope := range scopes {
		if strings.HasPrefix(name, scope) {
			return pm.Registries[scope]
		}
	}
	if pm.Default == "" {
		return "npm"
	}
	return pm.Default
}

func (pm *ExecPackageManager) Install(ctx context.Context, name string) error {
	tool := pm.Tool(name)
	cmd := exec.CommandContext(ctx, tool, "install", name)
	cmd.Dir = pm.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run %s install %s: %w", tool, name, err)
	}
	logger.Debug("Installed %s with %s", name, tool)
	return nil
}
