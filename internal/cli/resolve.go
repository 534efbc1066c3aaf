package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danmuck/ghoslerctl/internal/pm2"
)

var (
	ErrNoInstances       = errors.New("cli: no instances registered")
	ErrMultipleInstances = errors.New("cli: multiple instances registered")
	ErrUnknownInstance   = errors.New("cli: unknown instance")
)

// resolveName picks the target instance for a command. An explicit name
// must be registered. With no name given, a single registered instance
// is implied; anything else needs the operator to choose.
func resolveName(registry *pm2.Registry, explicit string) (string, error) {
	name := strings.TrimSpace(explicit)
	if name != "" {
		_, ok, err := registry.Get(name, false)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", fmt.Errorf("%w: %s (see ghoslerctl ls)", ErrUnknownInstance, name)
		}
		return name, nil
	}

	multiple, err := registry.HasMultiple()
	if err != nil {
		return "", err
	}
	if multiple {
		return "", fmt.Errorf("%w: pass --name (see ghoslerctl ls)", ErrMultipleInstances)
	}
	instances, err := registry.Instances(false)
	if err != nil {
		return "", err
	}
	if len(instances) == 0 {
		return "", ErrNoInstances
	}
	return instances[0].Name, nil
}
