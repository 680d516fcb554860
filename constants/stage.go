package constants

// PipelineState is the canonical per-request state of the analysis pipeline.
type PipelineState string

// Stable values (these exact strings appear in logs and stored payloads).
const (
	StateReceived   PipelineState = "RECEIVED"   // upload accepted, nothing run yet
	StateExtracting PipelineState = "EXTRACTING" // text extraction in progress
	StateEstimating PipelineState = "ESTIMATING" // model call in progress
	StateValidating PipelineState = "VALIDATING" // normalizing model output
	StateSucceeded  PipelineState = "SUCCEEDED"  // terminal success
	StateFailed     PipelineState = "FAILED"     // terminal failure
)
