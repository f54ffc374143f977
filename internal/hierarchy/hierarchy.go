// Package hierarchy resolves an ordered path of organizational-unit
// names to the OU an account should be created under. The tree is
// remotely owned: nodes are opaque handles looked up through a Client
// on every resolution pass and never cached.
package hierarchy

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// DefaultOU is the well-known landing OU used when no path is given.
// It is created on demand regardless of the force switch.
const DefaultOU = "Custom"

// MaxDepth bounds the length of a requested OU path.
const MaxDepth = 5

// Node is a handle to one OU (or the organization root) as known to
// the remote tree at the time of lookup.
type Node struct {
	ID   string
	Name string
}

// Client is the narrow view of the organization tree the resolver
// needs. Lookups and creations go to the remote system on every call.
type Client interface {
	// Root returns the organization root.
	Root(ctx context.Context) (Node, error)

	// Child looks up a direct child OU by name. The second return value
	// reports whether it exists.
	Child(ctx context.Context, parent Node, name string) (Node, bool, error)

	// CreateChild creates a direct child OU under parent.
	CreateChild(ctx context.Context, parent Node, name string) (Node, error)
}

// ErrPathTooDeep reports a requested path longer than MaxDepth. It is
// raised before any collaborator call.
var ErrPathTooDeep = errors.Newf("organizational unit paths are limited to %d segments", MaxDepth)

// MissingOUError reports the first missing segment of a path resolved
// without the force switch. No partial creation has happened.
type MissingOUError struct {
	Segment string
	Path    []string
}

func (e *MissingOUError) Error() string {
	return fmt.Sprintf("organizational unit %q does not exist in requested path %q; pass --force-ou-hierarchy-creation to create it",
		e.Segment, strings.Join(e.Path, "/"))
}

// Resolve walks path from the organization root, left to right, and
// returns the deepest node. Missing segments fail the resolution unless
// force is set, in which case each missing segment is created under the
// current node before descending. An empty path resolves to DefaultOU,
// creating it if absent no matter what force says. Duplicate
// consecutive names are distinct levels and resolved independently.
func Resolve(ctx context.Context, client Client, path []string, force bool) (Node, error) {
	if len(path) > MaxDepth {
		return Node{}, ErrPathTooDeep
	}

	root, err := client.Root(ctx)
	if err != nil {
		return Node{}, errors.Wrap(err, "failed to look up the organization root")
	}

	if len(path) == 0 {
		return ensureChild(ctx, client, root, DefaultOU)
	}

	current := root
	for _, segment := range path {
		child, found, err := client.Child(ctx, current, segment)
		if err != nil {
			return Node{}, errors.Wrapf(err, "failed to look up organizational unit %q", segment)
		}
		if !found {
			if !force {
				return Node{}, &MissingOUError{Segment: segment, Path: path}
			}
			child, err = client.CreateChild(ctx, current, segment)
			if err != nil {
				return Node{}, errors.Wrapf(err, "failed to create organizational unit %q", segment)
			}
		}
		current = child
	}
	return current, nil
}

func ensureChild(ctx context.Context, client Client, parent Node, name string) (Node, error) {
	child, found, err := client.Child(ctx, parent, name)
	if err != nil {
		return Node{}, errors.Wrapf(err, "failed to look up organizational unit %q", name)
	}
	if found {
		return child, nil
	}
	child, err = client.CreateChild(ctx, parent, name)
	if err != nil {
		return Node{}, errors.Wrapf(err, "failed to create organizational unit %q", name)
	}
	return child, nil
}
