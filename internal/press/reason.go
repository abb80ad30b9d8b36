package press

// Reason is a canonical downtime reason. The canonical strings are the
// contract between the device, the backend event log, and any remote
// controller: the same string appears verbatim in local selections, remote
// commands, and outbound notifications.
type Reason string

const (
	ReasonMaintenance Reason = "Maintenance Required"
	ReasonQuality     Reason = "Quality Issue"
	ReasonMaterial    Reason = "Material Issue"
	ReasonToolChange  Reason = "Tool Change"
)

// Reasons returns the canonical reason set.
func Reasons() []Reason {
	return []Reason{ReasonMaintenance, ReasonQuality, ReasonMaterial, ReasonToolChange}
}

// aliases maps tolerated wire-format spellings to canonical reasons.
var aliases = map[string]Reason{
	"Maintenance": ReasonMaintenance,
	"Quality":     ReasonQuality,
	"Material":    ReasonMaterial,
	"Tool":        ReasonToolChange,
}

// ParseReason matches s against the canonical reason set, tolerating known
// aliases. It returns the canonical reason and whether the match succeeded.
func ParseReason(s string) (Reason, bool) {
	for _, r := range Reasons() {
		if string(r) == s {
			return r, true
		}
	}
	if r, ok := aliases[s]; ok {
		return r, true
	}
	return "", false
}
