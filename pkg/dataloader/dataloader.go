package dataloader

// DataLoader is one batch sync pass. Loaders isolate failures internally
// where they can and report what went wrong afterwards, rather than
// aborting on the first error.
type DataLoader interface {
	// Name returns a friendly name identifier
	Name() string

	// Load runs the pass to completion.
	Load()

	// Errors returns the errors collected during the pass.
	Errors() []error
}
