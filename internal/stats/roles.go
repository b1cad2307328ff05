package stats

import (
	"strings"

	"github.com/digcfo/stats-service/internal/model"
)

// roleNames maps known role codes to display names. Codes are matched
// upper-cased; both the legacy numeric codes and the GUID codes are listed.
var roleNames = map[string]string{
	"1":                                    "Eier",
	"2":                                    "Medlem",
	"3":                                    "Investor",
	"302C99E3-E66C-4BCA-B2C9-47D70D8D55C8": "Eier",
	"BA2C54D5-AE5E-46B5-89E0-B2DECA879879": "Medlem",
	"7DCE6E4E-C17E-43EF-9E73-3A780D52C927": "Regnskapsfører",
	"8EAF290D-1ED8-4199-857A-18EAC7DC4711": "Styremedlem",
}

// BuildRoleLabel renders one membership row's role as a display string of
// the form "<source>: <role> [flags]". Codes outside the known table fall
// back to "RoleId <code>" rather than being treated as errors.
func BuildRoleLabel(source model.RoleSource, roleID *string, isDefaultAccount, registeredAs *bool) string {
	src := source.String()
	if strings.TrimSpace(src) == "" {
		src = "Unknown"
	}

	rolePart := "RoleId ukjent"
	if roleID != nil {
		code := strings.TrimSpace(*roleID)
		if name, ok := roleNames[strings.ToUpper(code)]; ok {
			rolePart = name
		} else {
			rolePart = "RoleId " + code
		}
	}

	var flags []string
	if isDefaultAccount != nil && *isDefaultAccount {
		flags = append(flags, "Default")
	}
	if registeredAs != nil && *registeredAs {
		flags = append(flags, "RegisteredAs")
	}

	label := src + ": " + rolePart
	if len(flags) > 0 {
		label += " [" + strings.Join(flags, ", ") + "]"
	}
	return label
}
