package drivetrain

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"swerve-bringup/command"
	"swerve-bringup/utils"
)

// ErrUnsupportedRequest is returned (possibly wrapped) by an Override that
// cannot serve a drive request. Drive falls back to the bring-up mix.
var ErrUnsupportedRequest = errors.New("drive request not supported by override")

// Override is a full drivetrain implementation, typically generated for the
// robot, that replaces the bring-up mix when present.
type Override interface {
	Drive(x, y, rotation float64, fieldOriented bool) error
	// AutonomousCommand may return nil when the override has none.
	AutonomousCommand() command.Command
}

// OverrideFactory constructs an override at startup.
type OverrideFactory func() (Override, error)

// AutonomousFactory builds the autonomous command for a drivetrain. A nil
// command means the factory has nothing to offer.
type AutonomousFactory func(d *Drive) (command.Command, error)

var (
	registryMu  sync.Mutex
	overrides   = map[string]OverrideFactory{}
	autoSources = map[string]AutonomousFactory{}
)

// RegisterOverride makes an override available to ResolveOverride under
// name. Registering the same name twice replaces the earlier factory.
func RegisterOverride(name string, f OverrideFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if f == nil {
		delete(overrides, name)
		return
	}
	overrides[name] = f
}

func RegisterAutonomousFactory(name string, f AutonomousFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if f == nil {
		delete(autoSources, name)
		return
	}
	autoSources[name] = f
}

// RegisteredOverrides lists registered override names, sorted.
func RegisteredOverrides() []string {
	registryMu.Lock()
	defer registryMu.Unlock()
	out := make([]string, 0, len(overrides))
	for k := range overrides {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ResolveOverride walks candidates in order and constructs the first one
// registered. A construction failure is reported and ends the search with
// no override.
func ResolveOverride(log *utils.Logger, candidates []string) Override {
	registryMu.Lock()
	var (
		name    string
		factory OverrideFactory
	)
	for _, c := range candidates {
		if f, ok := overrides[c]; ok {
			name, factory = c, f
			break
		}
	}
	registryMu.Unlock()

	if factory == nil {
		return nil
	}
	o, err := factory()
	if err != nil {
		log.Warn("Found %s but failed to construct it: %v", name, err)
		return nil
	}
	if o == nil {
		log.Warn("Found %s but it returned no drivetrain", name)
		return nil
	}
	log.Info("Using drivetrain override %s", name)
	return o
}

// ResolveAutonomousFactory returns the first registered factory among
// candidates, or nil.
func ResolveAutonomousFactory(candidates []string) AutonomousFactory {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, c := range candidates {
		if f, ok := autoSources[c]; ok {
			return f
		}
	}
	return nil
}

func describeOverride(o Override) string {
	return fmt.Sprintf("%T", o)
}
