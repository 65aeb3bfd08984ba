package types

// Result holds the outcome of one executed (or simulated) action.
type Result struct {
	Action Action `json:"action"`
	// Destination is the path the action actually used, which differs from
	// Action.Destination when a collision was resolved by renaming.
	Destination string `json:"destination,omitempty"`
	Done        bool   `json:"done"`
	Error       error  `json:"error,omitempty"`
}

// Summary tallies a full run for reporting.
type Summary struct {
	Created int      `json:"created"`
	Moved   int      `json:"moved"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Results []Result `json:"results,omitempty"`
}
