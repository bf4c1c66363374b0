// internal/app/system/importer/report.go
package importer

// Terminal states for a record within a run.
const (
	StatePersisted = "persisted"
	StateFailed    = "failed"
)

// Pipeline steps, recorded on failure (and on persisted records whose
// notification partially failed).
const (
	StepCredentials = "credentials"
	StepProvision   = "provision"
	StepPersist     = "persist"
	StepNotify      = "notify"
)
