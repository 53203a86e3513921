package mode

// Mode selects which source answers a search, and records which one did.
type Mode string

// Source constants.
const (
	// Auto queries the engine first and falls back to the relational store.
	Auto       Mode = "auto"
	Engine     Mode = "engine"
	Relational Mode = "relational"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Auto || m == Engine || m == Relational
}

// Parse maps a request value to a Mode. Empty means Auto.
func Parse(s string) (Mode, bool) {
	if s == "" {
		return Auto, true
	}
	m := Mode(s)
	return m, m.IsValid()
}
