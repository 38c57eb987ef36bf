package llmprovider

// ChunkType indicates the kind of a streamed output chunk.
type ChunkType string

const (
	ChunkTypeText      ChunkType = "text"
	ChunkTypeReasoning ChunkType = "reasoning"
	ChunkTypeStatus    ChunkType = "status"
	ChunkTypeUsage     ChunkType = "usage"
	ChunkTypeError     ChunkType = "error"
)

// RefusalPrefix is prepended to the first text chunk of a model refusal
// so callers can distinguish refusals from ordinary output.
const RefusalPrefix = "[Refusal] "

// BackgroundPhase describes where a background generation currently is
// in its lifecycle. Phase chunks are only emitted for background sessions.
type BackgroundPhase string

const (
	PhaseQueued       BackgroundPhase = "queued"
	PhaseInProgress   BackgroundPhase = "in_progress"
	PhaseReconnecting BackgroundPhase = "reconnecting"
	PhasePolling      BackgroundPhase = "polling"
	PhaseCompleted    BackgroundPhase = "completed"
)

// StatusInfo carries background lifecycle information on a status chunk.
type StatusInfo struct {
	// Phase is the current background phase
	Phase BackgroundPhase

	// ResponseID is the server-assigned response identifier, once known.
	// Callers can persist it to poll a generation out of band.
	ResponseID string
}

// Chunk is a single unit of session output. Exactly one of the
// type-specific fields is meaningful, selected by Type:
//   - text:      Text holds a verbatim output delta (refusals arrive
//     prefixed with RefusalPrefix)
//   - reasoning: Text holds a reasoning/summary delta
//   - status:    Status holds a background phase update
//   - usage:     Usage holds the final normalized token accounting
//   - error:     Err holds the failure; Retryable reports whether the
//     same request could reasonably be retried by the caller
//
// Chunks are delivered in event order; the channel closes after a
// terminal chunk (usage for success, error for failure).
type Chunk struct {
	Type ChunkType

	// Text contains delta content for text and reasoning chunks
	Text string

	// Status contains phase info for status chunks (nil otherwise)
	Status *StatusInfo

	// Usage contains normalized accounting for usage chunks (nil otherwise)
	Usage *Usage

	// Err contains the error for error chunks (nil otherwise)
	Err error

	// Retryable reports whether the error is potentially retryable
	Retryable bool
}

// IsText returns true for a text chunk
func (c *Chunk) IsText() bool {
	return c.Type == ChunkTypeText
}

// IsReasoning returns true for a reasoning chunk
func (c *Chunk) IsReasoning() bool {
	return c.Type == ChunkTypeReasoning
}

// IsStatus returns true for a status chunk
func (c *Chunk) IsStatus() bool {
	return c.Type == ChunkTypeStatus
}

// IsUsage returns true for a usage chunk
func (c *Chunk) IsUsage() bool {
	return c.Type == ChunkTypeUsage
}

// IsError returns true for an error chunk
func (c *Chunk) IsError() bool {
	return c.Type == ChunkTypeError
}

// TextChunk creates a text chunk.
func TextChunk(text string) Chunk {
	return Chunk{Type: ChunkTypeText, Text: text}
}

// ReasoningChunk creates a reasoning chunk.
func ReasoningChunk(text string) Chunk {
	return Chunk{Type: ChunkTypeReasoning, Text: text}
}

// StatusChunk creates a status chunk.
func StatusChunk(phase BackgroundPhase, responseID string) Chunk {
	return Chunk{Type: ChunkTypeStatus, Status: &StatusInfo{Phase: phase, ResponseID: responseID}}
}

// UsageChunk creates a usage chunk.
func UsageChunk(u Usage) Chunk {
	return Chunk{Type: ChunkTypeUsage, Usage: &u}
}

// ErrorChunk creates a terminal error chunk.
func ErrorChunk(err error, retryable bool) Chunk {
	return Chunk{Type: ChunkTypeError, Err: err, Retryable: retryable}
}
