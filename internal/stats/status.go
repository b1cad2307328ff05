package stats

import "strings"

// StatusFlags are the derived account status booleans. The raw signals stay
// available on the overview record for callers that need them.
type StatusFlags struct {
	IsDeleted  bool
	IsDisabled bool
}

// DeriveStatus computes the flags from three nullable inputs with fixed
// precedence: deleted iff archived is explicitly true; disabled iff active
// is explicitly false or the registration status label reads "DISABLED" in
// any casing. Fully absent inputs mean not deleted, not disabled.
func DeriveStatus(isArchived, isActive *bool, registrationStatus *string) StatusFlags {
	deleted := isArchived != nil && *isArchived

	disabled := isActive != nil && !*isActive
	if !disabled && registrationStatus != nil {
		disabled = strings.EqualFold(*registrationStatus, "DISABLED")
	}

	return StatusFlags{IsDeleted: deleted, IsDisabled: disabled}
}
