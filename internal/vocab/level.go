package vocab

import "strings"

// Level labels shown next to the numeric level.
const (
	LabelBasic        = "1 (Basic)"
	LabelIntermediate = "2 (Intermediate)"
	LabelAdvanced     = "3 (Advanced)"
)

// LevelFromCEFR maps a CEFR tag to a coarse level. Unknown tags map to 1.
func LevelFromCEFR(tag string) (int, string) {
	switch strings.ToUpper(strings.TrimSpace(tag)) {
	case "A1", "A2":
		return 1, LabelBasic
	case "B1", "B2":
		return 2, LabelIntermediate
	case "C1", "C2":
		return 3, LabelAdvanced
	default:
		return 1, LabelBasic
	}
}
