package cache

// Action is what the build should do with an artifact
type Action int

const (
	// Recompile means the artifact is absent, foreign or stale
	Recompile Action = iota
	// Reuse means the artifact at Decision.Path can be used as is
	Reuse
)

func (a Action) String() string {
	if a == Reuse {
		return "reuse"
	}

	return "recompile"
}

// Reasons attached to decisions. They are for logs only.
const (
	ReasonMissing        = "artifact missing"
	ReasonUnreadable     = "artifact header unreadable"
	ReasonForeignFormat  = "artifact format mismatch"
	ReasonBackendChanged = "backend identity mismatch"
	ReasonStale          = "source newer than artifact"
	ReasonUpToDate       = "artifact up to date"
	ReasonForced         = "forced"
)

// Decision is the outcome of validating a cached artifact. It is never
// persisted.
type Decision struct {
	Action Action
	Path   string
	Reason string
}

func (d Decision) Reuse() bool {
	return d.Action == Reuse
}

// Forced returns the decision used when the cache is bypassed
func Forced(path string) Decision {
	return Decision{Action: Recompile, Path: path, Reason: ReasonForced}
}
