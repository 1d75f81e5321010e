// Package finalinline implements the final-static-field inlining and
// constant-propagation optimizer core: encodable static-initializer
// replacement, transitive constant propagation across static finals,
// use-site inlining of inlinable reads, and removal of fields left
// dead by the first three steps.
//
// The package consumes a classfile.Scope and a classfile.FieldResolver
// and mutates the scope in place; it owns no file format, wire
// protocol, CLI or pass-manager plumbing.
package finalinline

import "github.com/tangzhangming/dexfinal/internal/classfile"

// Config mirrors the host-supplied configuration controlling which of
// the pass's transformations run.
type Config struct {
	ReplaceEncodableClinits   bool
	PropagateStaticFinals     bool
	RemoveClassMemberPrefixes []string
	KeepClassMembers          []string
}

// DefaultConfig enables every transformation, the configuration a
// post-link optimizer would run with absent an explicit override.
func DefaultConfig() Config {
	return Config{
		ReplaceEncodableClinits: true,
		PropagateStaticFinals:   true,
	}
}

// Run executes the components in a fixed order — C, D, C, E, F — and
// returns the resulting metrics. A non-nil error is always a
// *CorruptionError; when it is returned, scope may have been partially
// mutated by whichever component detected the corruption, matching the
// original's use of a fatal assertion mid-pass.
func Run(scope classfile.Scope, resolver classfile.FieldResolver, cfg Config) (Metrics, error) {
	resetUnhandledWide()
	var metrics Metrics

	if cfg.ReplaceEncodableClinits {
		metrics.EncodableClinitsReplaced += replaceEncodableClinits(scope, resolver)
	}

	if cfg.PropagateStaticFinals {
		resolved, err := propagateConstants(scope, resolver)
		if err != nil {
			return metrics, err
		}
		metrics.StaticFinalsResolved += resolved
	}

	// Run C again: propagation can turn a non-empty initializer into a
	// sequence now eligible for encoded lifting.
	if cfg.ReplaceEncodableClinits {
		metrics.EncodableClinitsReplaced += replaceEncodableClinits(scope, resolver)
	}

	inlinable, err := inlinableFields(scope, resolver)
	if err != nil {
		return metrics, err
	}
	inlineUseSites(scope, resolver, inlinable)

	removeDeadFields(scope, resolver, cfg)

	metrics.UnhandledWideReads = loadUnhandledWide()
	return metrics, nil
}
