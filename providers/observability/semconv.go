package observability

// Semantic conventions for observability attributes.

// --- LLM Provider Attributes ---

const (
	// AttrLLMProvider is the backend name (e.g., "ollama", "openai")
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier (e.g., "mistral:7b-instruct-q4_0")
	AttrLLMModel = "llm.model"

	// AttrLLMFinishReason is the reason the generation finished
	AttrLLMFinishReason = "llm.finish_reason"

	// AttrLLMTokensTotal is the total number of tokens reported by the backend
	AttrLLMTokensTotal = "llm.tokens.total" // #nosec G101 -- Not a credential, token refers to LLM tokens
)

// --- Extraction Attributes ---

const (
	// AttrAttempt is the 1-based attempt number inside the orchestrator
	AttrAttempt = "extract.attempt"

	// AttrMaxAttempts is the configured retry budget
	AttrMaxAttempts = "extract.max_attempts"

	// AttrShape is the expected JSON shape ("object" or "array")
	AttrShape = "extract.shape"

	// AttrGotShape is the shape actually extracted
	AttrGotShape = "extract.got_shape"

	// AttrOutcome is the attempt outcome ("succeeded", "transport_error", ...)
	AttrOutcome = "extract.outcome"

	// AttrEscalations is the number of escalation clauses applied to the prompt
	AttrEscalations = "extract.escalations"

	// AttrPromptChars is the length of the prompt sent to the model
	AttrPromptChars = "extract.prompt_chars"

	// AttrResponseChars is the length of the raw model response
	AttrResponseChars = "extract.response_chars"
)

// --- Pipeline Attributes ---

const (
	// AttrStage is the pipeline stage name ("profile", "billing", "analysis")
	AttrStage = "pipeline.stage"

	// AttrArtifact is the artifact file name read or written by a stage
	AttrArtifact = "pipeline.artifact"

	// AttrRecords is the number of records or recommendations produced
	AttrRecords = "pipeline.records"
)

// --- HTTP Attributes ---

const (
	// AttrHTTPMethod is the HTTP method (GET, POST, etc.)
	AttrHTTPMethod = "http.method"

	// AttrHTTPStatusCode is the HTTP response status code
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPURL is the full request URL
	AttrHTTPURL = "http.url"

	// AttrHTTPRequestBodySize is the request body size in bytes
	AttrHTTPRequestBodySize = "http.request.body.size"

	// AttrHTTPResponseBodySize is the response body size in bytes
	AttrHTTPResponseBodySize = "http.response.body.size"
)

// --- General Attributes ---

const (
	AttrError             = "error"
	AttrDuration          = "duration"
	AttrStatus            = "status"
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	// SpanClientGenerate wraps one model call made by the client
	SpanClientGenerate = "client.generate"

	// SpanExtract wraps a full orchestrated extraction (all attempts)
	SpanExtract = "structured.extract"

	// SpanStage wraps one pipeline stage
	SpanStage = "pipeline.stage"
)

// --- Metric Names ---

const (
	MetricClientRequestCount    = "costlens.client.request.count"
	MetricClientRequestDuration = "costlens.client.request.duration"
	MetricAttempts              = "costlens.attempts"
	MetricExtractionFailures    = "costlens.extraction.failures"
	MetricStageRuns             = "costlens.pipeline.stage.runs"
)
