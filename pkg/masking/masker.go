// Package masking sweeps secrets out of tool output before it reaches
// the model, the live UI, or the persisted transcript. A coding agent
// that can run `env`, `cat .env`, or read credential files will
// otherwise copy live secrets into the conversation and the database.
package masking

// Masker is the interface for structural maskers that need awareness
// beyond a regex sweep: they parse the content to decide which values
// are secrets (e.g. dotenv files, where only secret-named keys are
// masked and ordinary variables stay readable).
type Masker interface {
	// Name returns the unique identifier for this masker.
	Name() string

	// AppliesTo performs a lightweight check on whether this masker
	// should process the data. Should be fast (string contains, not parsing).
	AppliesTo(data string) bool

	// Mask applies masking logic and returns the masked result.
	// Must be defensive: return original data on parse/processing errors.
	Mask(data string) string
}
