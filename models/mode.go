package models

// Mode is the deployment mode of an installation.
type Mode string

const (
	// ModeSolo is single-user, fully local operation with implicit full
	// authorization.
	ModeSolo Mode = "solo"

	// ModeShared is multi-user operation backed by a remote relational
	// store with explicit permission enforcement.
	ModeShared Mode = "shared"

	// ModeSharedDegraded is shared operation against a store whose schema
	// version is outside the supported range: reads work, writes that
	// depend on the shared schema are rejected.
	ModeSharedDegraded Mode = "shared_degraded"
)

// IsShared reports whether the mode is backed by a shared store at all.
func (m Mode) IsShared() bool {
	return m == ModeShared || m == ModeSharedDegraded
}

// ModeStatus is the payload of the mode inspection endpoint.
type ModeStatus struct {
	Mode Mode `json:"mode"`

	// SchemaVersion is the shared store's schema version, zero in solo mode.
	SchemaVersion int `json:"schema_version,omitempty"`

	// SchemaCompatible is false when the shared schema version falls
	// outside the supported range.
	SchemaCompatible bool `json:"schema_compatible"`

	// Warning carries the degradation notice shown to operators when the
	// schema is incompatible.
	Warning string `json:"warning,omitempty"`
}
