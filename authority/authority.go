// Package authority implements the role registry consulted by every
// privileged protocol operation. Callers are identified by address and
// checked against one of four roles: governor, guardian, policy, vault.
// The registry is injected into each component and resolved fresh on every
// call; there is no global singleton.
package authority

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// Authority answers "does this caller hold role X?". Components depend on
// this interface rather than the concrete registry so tests can substitute
// their own policies.
type Authority interface {
	IsGovernor(addr common.Address) bool
	IsGuardian(addr common.Address) bool
	IsPolicy(addr common.Address) bool
	IsVault(addr common.Address) bool
}

var (
	// ErrNotGovernor is returned when a governor-gated operation is
	// attempted by any other caller.
	ErrNotGovernor = errors.New("authority: caller is not the governor")

	// ErrNotPending is returned when PullGovernor is called by an address
	// other than the pending governor.
	ErrNotPending = errors.New("authority: caller is not the pending governor")
)

// Registry is the in-memory role registry. The governor role changes hands
// in two steps (push by the current governor, pull by the successor) so a
// typo in the new address cannot brick the protocol. The other roles are
// reassigned directly by the governor.
type Registry struct {
	governor common.Address
	guardian common.Address
	policy   common.Address
	vault    common.Address

	pendingGovernor common.Address
}

// NewRegistry builds a registry with the given initial role holders.
func NewRegistry(governor, guardian, policy, vault common.Address) *Registry {
	return &Registry{
		governor: governor,
		guardian: guardian,
		policy:   policy,
		vault:    vault,
	}
}

func (r *Registry) IsGovernor(addr common.Address) bool { return addr == r.governor }
func (r *Registry) IsGuardian(addr common.Address) bool { return addr == r.guardian }
func (r *Registry) IsPolicy(addr common.Address) bool   { return addr == r.policy }
func (r *Registry) IsVault(addr common.Address) bool    { return addr == r.vault }

// Governor returns the current governor address.
func (r *Registry) Governor() common.Address { return r.governor }

// PushGovernor nominates a successor governor. Only the current governor
// may nominate; the successor must pull before the handover takes effect.
func (r *Registry) PushGovernor(caller, next common.Address) error {
	if !r.IsGovernor(caller) {
		return ErrNotGovernor
	}
	r.pendingGovernor = next
	return nil
}

// PullGovernor completes a governor handover initiated by PushGovernor.
func (r *Registry) PullGovernor(caller common.Address) error {
	if r.pendingGovernor == (common.Address{}) || caller != r.pendingGovernor {
		return ErrNotPending
	}
	r.governor = r.pendingGovernor
	r.pendingGovernor = common.Address{}
	return nil
}

// PushGuardian reassigns the guardian role. Governor only.
func (r *Registry) PushGuardian(caller, next common.Address) error {
	if !r.IsGovernor(caller) {
		return ErrNotGovernor
	}
	r.guardian = next
	return nil
}

// PushPolicy reassigns the policy role. Governor only.
func (r *Registry) PushPolicy(caller, next common.Address) error {
	if !r.IsGovernor(caller) {
		return ErrNotGovernor
	}
	r.policy = next
	return nil
}

// PushVault reassigns the vault role. Governor only.
func (r *Registry) PushVault(caller, next common.Address) error {
	if !r.IsGovernor(caller) {
		return ErrNotGovernor
	}
	r.vault = next
	return nil
}
