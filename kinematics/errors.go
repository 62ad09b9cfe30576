package kinematics

import "github.com/pkg/errors"

// ErrNodeNotInitialized is returned when derivatives or Jacobians are requested from a node whose containers
// were not sized for its current dependency list.
var ErrNodeNotInitialized = errors.New("body node is not initialized for its current dependency list")

// ErrSkeletonNotFinalized is returned by skeleton queries that need the topology to be finalized first.
var ErrSkeletonNotFinalized = errors.New("skeleton is not finalized")

// NewNodeNotInitializedError wraps ErrNodeNotInitialized with the node name.
func NewNodeNotInitializedError(name string) error {
	return errors.Wrapf(ErrNodeNotInitialized, "node %q", name)
}

// NewNodeNotFoundError returns an error for a body node that is not part of the skeleton.
func NewNodeNotFoundError(name string) error {
	return errors.Errorf("body node %q is not part of skeleton", name)
}

// NewDuplicateNodeError returns an error for a body node name used twice in one skeleton.
func NewDuplicateNodeError(name string) error {
	return errors.Errorf("body node %q already exists in skeleton", name)
}

// NewNodeAttachedError returns an error for a body node or joint that already belongs to a skeleton.
func NewNodeAttachedError(kind, name string) error {
	return errors.Errorf("%s %q is already attached to a skeleton", kind, name)
}

// NewCycleError returns an error for a re-parenting that would make a node its own ancestor.
func NewCycleError(node, parent string) error {
	return errors.Errorf("cannot attach %q under %q: %q is one of its descendants", node, parent, parent)
}

// NewDofNotFoundError returns an error for a dof name that no joint of the skeleton owns.
func NewDofNotFoundError(name string) error {
	return errors.Errorf("no dof named %q", name)
}

// NewInvalidStepError returns an error for a finite difference step that is not a positive finite number.
func NewInvalidStepError(h float64) error {
	return errors.Errorf("finite difference step must be positive and finite, got %v", h)
}
