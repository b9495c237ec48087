package invites

import contract "invitedesk/contracts/invites"

// Status is the derived state of an invite code.
type Status string

const (
	StatusUnused   Status = "Unused"
	StatusUsed     Status = "Used"
	StatusDisabled Status = "Disabled"
)

// DeriveStatus applies the precedence Disabled > Used > Unused. A code is
// used once its budget is spent or any use is recorded.
func DeriveStatus(code contract.InviteCode) Status {
	if code.Disabled {
		return StatusDisabled
	}
	if code.Available == 0 || len(code.Uses) > 0 {
		return StatusUsed
	}
	return StatusUnused
}

// Filter narrows the list to one status, or to everything.
type Filter string

const (
	FilterAll      Filter = "All"
	FilterUsed     Filter = Filter(StatusUsed)
	FilterUnused   Filter = Filter(StatusUnused)
	FilterDisabled Filter = Filter(StatusDisabled)
)

// Filters lists the filter choices in display order.
var Filters = []Filter{FilterAll, FilterUsed, FilterUnused, FilterDisabled}

// Matches reports whether status passes the filter.
func (f Filter) Matches(status Status) bool {
	return f == FilterAll || f == "" || Filter(status) == f
}

// firstUse returns the use surfaced in the single-use view.
func firstUse(code contract.InviteCode) (contract.InviteUse, bool) {
	if len(code.Uses) == 0 {
		return contract.InviteUse{}, false
	}
	return code.Uses[0], true
}
