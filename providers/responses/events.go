package responses

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/highwaterlabs/highwater-llm-go"
)

// Wire event type constants for the Responses streaming protocol.
const (
	eventCreated              = "response.created"
	eventQueued               = "response.queued"
	eventInProgress           = "response.in_progress"
	eventOutputTextDelta      = "response.output_text.delta"
	eventOutputTextDone       = "response.output_text.done"
	eventRefusalDelta         = "response.refusal.delta"
	eventReasoningDelta       = "response.reasoning_text.delta"
	eventReasoningSummary     = "response.reasoning_summary_text.delta"
	eventReasoningDone        = "response.reasoning_text.done"
	eventReasoningSummaryDone = "response.reasoning_summary_text.done"
	eventItemAdded            = "response.output_item.added"
	eventCompleted            = "response.completed"
	eventDone                 = "response.done"
	eventFailed               = "response.failed"
	eventIncomplete           = "response.incomplete"
	eventError                = "error"
)

// wireEvent is the closed decode target for one streamed event. Unknown
// event types decode fine and fall through the normalizer unhandled,
// which is how forward compatibility works here: ignore, don't fail.
type wireEvent struct {
	Type           string          `json:"type"`
	SequenceNumber *int            `json:"sequence_number,omitempty"`
	Delta          string          `json:"delta,omitempty"`
	Text           string          `json:"text,omitempty"`
	Item           *wireOutputItem `json:"item,omitempty"`
	Response       *wireResponse   `json:"response,omitempty"`
	Message        string          `json:"message,omitempty"` // error events
}

// wireOutputItem is an entry of response.output[] or the payload of an
// output_item.added event.
type wireOutputItem struct {
	ID      string            `json:"id,omitempty"`
	Type    string            `json:"type"`
	Content []wireOutputPart  `json:"content,omitempty"`
	Summary []wireSummaryPart `json:"summary,omitempty"`
}

type wireOutputPart struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Refusal string `json:"refusal,omitempty"`
}

type wireSummaryPart struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// wireResponse is the response object carried by lifecycle events and
// returned by the polling endpoint.
type wireResponse struct {
	ID          string           `json:"id"`
	Status      string           `json:"status"`
	Model       string           `json:"model,omitempty"`
	Output      []wireOutputItem `json:"output,omitempty"`
	Usage       *wireUsage       `json:"usage,omitempty"`
	ServiceTier string           `json:"service_tier,omitempty"`
	Error       *wireError       `json:"error,omitempty"`
}

type wireError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// scanFrames reads "data: <payload>" SSE frames from r and hands each
// payload to emit. A literal [DONE] payload ends the scan with a nil
// error. emit returning an error stops the scan and propagates it.
func scanFrames(r io.Reader, emit func(data []byte) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")

		if data == "[DONE]" {
			return nil
		}

		if err := emit([]byte(data)); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}
	// EOF without [DONE]: the transport dropped mid-stream.
	return io.ErrUnexpectedEOF
}

// decodeEvent parses one frame payload. Malformed frames are protocol
// noise: they are dropped (ok=false) and never abort the stream.
func decodeEvent(data []byte) (*wireEvent, bool) {
	var ev wireEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, false
	}
	if ev.Type == "" {
		return nil, false
	}
	return &ev, true
}

// normalize maps one wire event onto zero or more output chunks and
// updates session state. A non-nil error aborts the current connection
// attempt (the session controller decides whether that is fatal or a
// resumable drop).
//
// Replay filtering happens here: any event whose sequence number is at
// or below the high-water mark has already been delivered on a previous
// connection and produces nothing. The high-water mark advances before
// chunks are handed back, so a crash between the two is conservative -
// it can skip, never duplicate.
func (s *sessionState) normalize(ev *wireEvent) ([]llmprovider.Chunk, error) {
	if ev.SequenceNumber != nil {
		if *ev.SequenceNumber <= s.highWater {
			return nil, nil
		}
		s.highWater = *ev.SequenceNumber
	}

	if ev.Response != nil && ev.Response.ID != "" {
		if err := s.setResponseID(ev.Response.ID); err != nil {
			return nil, err
		}
	}
	if ev.Response != nil && ev.Response.ServiceTier != "" {
		s.serviceTier = ev.Response.ServiceTier
	}

	switch ev.Type {
	case eventOutputTextDelta:
		if ev.Delta == "" {
			return nil, nil
		}
		s.sawTextDelta = true
		return []llmprovider.Chunk{llmprovider.TextChunk(ev.Delta)}, nil

	case eventReasoningDelta, eventReasoningSummary:
		if ev.Delta == "" {
			return nil, nil
		}
		s.sawReasoningDelta = true
		return []llmprovider.Chunk{llmprovider.ReasoningChunk(ev.Delta)}, nil

	case eventRefusalDelta:
		if ev.Delta == "" {
			return nil, nil
		}
		text := ev.Delta
		if !s.sawRefusal {
			text = llmprovider.RefusalPrefix + text
			s.sawRefusal = true
		}
		s.sawTextDelta = true
		return []llmprovider.Chunk{llmprovider.TextChunk(text)}, nil

	case eventItemAdded:
		// Item snapshots carry complete (non-delta) text; they are
		// emitted as-is and never counted against delta accumulation.
		return itemChunks(ev.Item), nil

	case eventOutputTextDone:
		// The done event duplicates already-delivered deltas; only emit
		// when this session never saw a text delta.
		if s.sawTextDelta || ev.Text == "" {
			return nil, nil
		}
		return []llmprovider.Chunk{llmprovider.TextChunk(ev.Text)}, nil

	case eventReasoningDone, eventReasoningSummaryDone:
		if s.sawReasoningDelta || ev.Text == "" {
			return nil, nil
		}
		return []llmprovider.Chunk{llmprovider.ReasoningChunk(ev.Text)}, nil

	case eventQueued:
		if !s.background {
			return nil, nil
		}
		return []llmprovider.Chunk{llmprovider.StatusChunk(llmprovider.PhaseQueued, s.responseID)}, nil

	case eventInProgress:
		if !s.background {
			return nil, nil
		}
		return []llmprovider.Chunk{llmprovider.StatusChunk(llmprovider.PhaseInProgress, s.responseID)}, nil

	case eventCreated:
		// Response id was captured above; nothing to deliver.
		return nil, nil

	case eventCompleted, eventDone:
		return s.completionChunks(ev.Response), nil

	case eventFailed, eventIncomplete, eventError:
		return nil, s.upstreamError(ev)

	default:
		// Unknown event kinds are ignored, not failed.
		return nil, nil
	}
}

// itemChunks emits the snapshot text of an output_item.added event.
func itemChunks(item *wireOutputItem) []llmprovider.Chunk {
	if item == nil {
		return nil
	}

	var chunks []llmprovider.Chunk
	switch item.Type {
	case "message":
		for _, c := range item.Content {
			if c.Type == "output_text" && c.Text != "" {
				chunks = append(chunks, llmprovider.TextChunk(c.Text))
			}
			if c.Type == "refusal" && c.Refusal != "" {
				chunks = append(chunks, llmprovider.TextChunk(llmprovider.RefusalPrefix+c.Refusal))
			}
		}
	case "reasoning":
		for _, sp := range item.Summary {
			if sp.Text != "" {
				chunks = append(chunks, llmprovider.ReasoningChunk(sp.Text))
			}
		}
	}
	return chunks
}

// completionChunks finalizes the session from a completed response
// object: exactly one usage chunk, preceded by a completed status for
// background sessions.
func (s *sessionState) completionChunks(resp *wireResponse) []llmprovider.Chunk {
	s.completed = true

	var chunks []llmprovider.Chunk
	if s.background {
		chunks = append(chunks, llmprovider.StatusChunk(llmprovider.PhaseCompleted, s.responseID))
	}

	if resp != nil && resp.Usage != nil && !s.usageEmitted {
		s.usageEmitted = true
		u := llmprovider.NormalizeUsage(resp.Usage.toRaw(), s.modelCap, s.serviceTier)
		chunks = append(chunks, llmprovider.UsageChunk(u))
	}
	return chunks
}

// upstreamError converts a failure event into the error that aborts the
// current connection attempt.
func (s *sessionState) upstreamError(ev *wireEvent) error {
	msg := ev.Message
	if msg == "" && ev.Response != nil && ev.Response.Error != nil {
		msg = ev.Response.Error.Message
	}
	if msg == "" && ev.Type == eventIncomplete {
		msg = "response finished as incomplete"
	}
	if msg == "" {
		msg = "upstream error event"
	}
	return &llmprovider.ProviderError{
		Provider:  llmprovider.ProviderOpenAI.String(),
		Message:   msg,
		Retryable: true,
		Err:       llmprovider.ErrProviderUnavailable,
	}
}

// flattenOutput joins the text and reasoning carried by a final
// response.output[] list. Used by the non-streaming path and by poll
// completion synthesis.
func flattenOutput(items []wireOutputItem) (text, reasoning string) {
	var tb, rb strings.Builder
	for _, item := range items {
		switch item.Type {
		case "message":
			for _, c := range item.Content {
				if c.Type == "output_text" && c.Text != "" {
					tb.WriteString(c.Text)
				}
				if c.Type == "refusal" && c.Refusal != "" {
					tb.WriteString(llmprovider.RefusalPrefix + c.Refusal)
				}
			}
		case "reasoning":
			for _, sp := range item.Summary {
				if sp.Text != "" {
					rb.WriteString(sp.Text)
				}
			}
		}
	}
	return tb.String(), rb.String()
}
