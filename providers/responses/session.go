package responses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/highwaterlabs/highwater-llm-go"
)

// sessionState is the mutable state of one generation session. It is
// owned exclusively by the session goroutine for the lifetime of one
// call and discarded at stream end; it is never persisted or shared.
type sessionState struct {
	// responseID is the server-assigned identifier, set on the first
	// event that carries one and immutable afterwards. A changed value
	// on resume is a protocol violation, never silently overwritten.
	responseID string

	// highWater is the largest event sequence number delivered so far.
	// -1 means none seen. Resume connections request events strictly
	// after it, and anything at or below it is discarded on arrival.
	highWater int

	// Delta-accumulation flags suppress "done" events that would
	// double-deliver text already streamed as deltas.
	sawTextDelta      bool
	sawReasoningDelta bool
	sawRefusal        bool

	completed    bool
	usageEmitted bool
	serviceTier  string
	background   bool

	resumeAttempt int
	pollAttempt   int

	modelCap *llmprovider.ModelCapability
}

func (s *sessionState) setResponseID(id string) error {
	if s.responseID == "" {
		s.responseID = id
		return nil
	}
	if s.responseID != id {
		return fmt.Errorf("%w: response id changed mid-session (%s -> %s)",
			llmprovider.ErrProtocolViolation, s.responseID, id)
	}
	return nil
}

// session drives one generation through the
// Active -> Reconnecting -> Polling -> Completed/Failed state machine.
// There is exactly one consumer and one in-flight network operation at a
// time, so the state needs sequencing but no locks.
type session struct {
	provider *Provider
	wireReq  *wireRequest
	state    sessionState

	// retriedWithoutPrev guards the one-shot retry after the server
	// reports the chained previous response as gone.
	retriedWithoutPrev bool
}

func newSession(p *Provider, wireReq *wireRequest, modelCap *llmprovider.ModelCapability) *session {
	return &session{
		provider: p,
		wireReq:  wireReq,
		state: sessionState{
			highWater:  -1,
			background: wireReq.Background,
			modelCap:   modelCap,
		},
	}
}

// run owns the output channel: it closes it exactly once, after a
// terminal chunk. Recoverable conditions (malformed frames, transport
// drops within budget under background mode) are absorbed here and never
// reach the caller as errors.
func (s *session) run(ctx context.Context, out chan<- llmprovider.Chunk) {
	defer close(out)

	err := s.streamAttempt(ctx, out, true)

	for {
		if s.state.completed {
			return
		}
		if err == nil {
			// Clean [DONE] without a completion event: the server ended
			// the stream early. Treat like a transport drop.
			err = io.ErrUnexpectedEOF
		}

		// Caller-initiated cancellation is never a resumable drop.
		if ctx.Err() != nil {
			s.emit(ctx, out, llmprovider.ErrorChunk(ctx.Err(), false))
			return
		}

		if s.fatal(err) {
			s.emit(ctx, out, llmprovider.ErrorChunk(err, llmprovider.IsRetryable(err)))
			return
		}

		if s.state.resumeAttempt >= s.provider.cfg.MaxResumeRetries {
			s.pollToCompletion(ctx, out)
			return
		}

		// Reconnect: back off, then reattach strictly after the last
		// delivered sequence number.
		if !s.emit(ctx, out, llmprovider.StatusChunk(llmprovider.PhaseReconnecting, s.state.responseID)) {
			return
		}
		if !s.sleep(ctx, s.backoffDelay()) {
			s.emit(ctx, out, llmprovider.ErrorChunk(ctx.Err(), false))
			return
		}
		s.state.resumeAttempt++
		err = s.streamAttempt(ctx, out, false)
	}
}

// fatal reports whether err ends the session outright instead of
// entering the reconnect/poll path.
func (s *session) fatal(err error) bool {
	// Protocol violations are never recoverable.
	if errors.Is(err, llmprovider.ErrProtocolViolation) {
		return true
	}
	// Without background mode the server retains nothing to resume
	// against, so any drop is fatal by design.
	if !s.state.background {
		return true
	}
	// Resume needs a response id; a drop before the first event leaves
	// nothing to reattach to.
	if s.state.responseID == "" {
		return true
	}
	// Auth and request errors won't improve by retrying the same call.
	if llmprovider.IsAuthError(err) || llmprovider.IsInvalidRequest(err) {
		return true
	}
	return false
}

// streamAttempt opens one connection (initial POST or resume GET) and
// consumes it until [DONE], completion, or failure.
//
// A streaming attempt has no overall deadline (a healthy stream can
// outlive any fixed bound) but it must not stall silently: a watchdog
// cancels the attempt when the connection goes quiet for longer than
// RequestTimeout, and the expiry follows the same drop path as a closed
// connection. Any bytes from the server count as activity.
func (s *session) streamAttempt(ctx context.Context, out chan<- llmprovider.Chunk, initial bool) error {
	attemptCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	watchdog := time.AfterFunc(s.provider.cfg.RequestTimeout, cancel)
	defer watchdog.Stop()

	var (
		httpReq *http.Request
		err     error
	)
	if initial {
		httpReq, err = s.provider.newCreateRequest(attemptCtx, s.wireReq)
	} else {
		httpReq, err = s.provider.newResumeRequest(attemptCtx, s.state.responseID, s.state.highWater)
	}
	if err != nil {
		return err
	}

	resp, err := s.provider.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("responses HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		httpErr := s.provider.handleErrorResponse(resp)

		// A chained previous response may have expired server-side.
		// Clear the continuation id and retry once without it.
		if initial && resp.StatusCode == http.StatusNotFound &&
			s.wireReq.PreviousResponseID != "" && !s.retriedWithoutPrev {
			s.retriedWithoutPrev = true
			s.wireReq.PreviousResponseID = ""
			return s.streamAttempt(ctx, out, true)
		}

		// A 404 on resume is not fatal for a background session: the
		// stored response may still be materializing. Report it as a
		// retryable drop and let the budget decide.
		if !initial && resp.StatusCode == http.StatusNotFound {
			return &llmprovider.ProviderError{
				Provider:   s.provider.Name().String(),
				StatusCode: resp.StatusCode,
				Message:    "stored response not available yet",
				Retryable:  true,
				Err:        llmprovider.ErrProviderUnavailable,
			}
		}
		return httpErr
	}

	body := &activityReader{
		r:        resp.Body,
		watchdog: watchdog,
		d:        s.provider.cfg.RequestTimeout,
	}
	return scanFrames(body, func(data []byte) error {
		ev, ok := decodeEvent(data)
		if !ok {
			// Malformed frame: protocol noise, not a failure.
			return nil
		}

		chunks, err := s.state.normalize(ev)
		if err != nil {
			return err
		}
		for _, chunk := range chunks {
			if !s.emit(ctx, out, chunk) {
				return ctx.Err()
			}
		}
		if s.state.completed {
			// Don't wait for [DONE]; completion is terminal.
			return errCompleted
		}
		return nil
	})
}

var errCompleted = errors.New("responses: session completed")

// activityReader pushes back the stall watchdog on every successful read,
// so heartbeat comments and partial frames count as liveness, not just
// complete events.
type activityReader struct {
	r        io.Reader
	watchdog *time.Timer
	d        time.Duration
}

func (a *activityReader) Read(p []byte) (int, error) {
	n, err := a.r.Read(p)
	if n > 0 {
		a.watchdog.Reset(a.d)
	}
	return n, err
}

// pollToCompletion is the fallback after reconnects are exhausted: fetch
// the stored response by id at a fixed interval until it completes,
// fails, or the wall-clock budget runs out.
func (s *session) pollToCompletion(ctx context.Context, out chan<- llmprovider.Chunk) {
	if !s.emit(ctx, out, llmprovider.StatusChunk(llmprovider.PhasePolling, s.state.responseID)) {
		return
	}

	deadline := time.Now().Add(s.provider.cfg.PollTimeout)
	for {
		if ctx.Err() != nil {
			s.emit(ctx, out, llmprovider.ErrorChunk(ctx.Err(), false))
			return
		}
		if time.Now().After(deadline) {
			s.emit(ctx, out, llmprovider.ErrorChunk(s.exhaustedError(), true))
			return
		}

		s.state.pollAttempt++
		wr, err := s.fetchResponse(ctx)
		if err == nil {
			switch wr.Status {
			case "queued":
				if !s.emit(ctx, out, llmprovider.StatusChunk(llmprovider.PhaseQueued, s.state.responseID)) {
					return
				}
			case "in_progress":
				if !s.emit(ctx, out, llmprovider.StatusChunk(llmprovider.PhaseInProgress, s.state.responseID)) {
					return
				}
			case "completed":
				s.emitPolledCompletion(ctx, out, wr)
				return
			case "failed", "cancelled":
				s.emit(ctx, out, llmprovider.ErrorChunk(s.pollFailure(wr), false))
				return
			}
		}
		// Transport and HTTP errors are retried until the budget runs out.

		if !s.sleep(ctx, s.provider.cfg.PollInterval) {
			s.emit(ctx, out, llmprovider.ErrorChunk(ctx.Err(), false))
			return
		}
	}
}

// emitPolledCompletion synthesizes the final output of a polled response
// into ordinary chunks. Full text is only delivered when no delta for
// the same category was streamed before the drop; otherwise the caller
// already has it.
func (s *session) emitPolledCompletion(ctx context.Context, out chan<- llmprovider.Chunk, wr *wireResponse) {
	s.state.completed = true

	if !s.emit(ctx, out, llmprovider.StatusChunk(llmprovider.PhaseCompleted, s.state.responseID)) {
		return
	}

	text, reasoning := flattenOutput(wr.Output)
	if reasoning != "" && !s.state.sawReasoningDelta {
		if !s.emit(ctx, out, llmprovider.ReasoningChunk(reasoning)) {
			return
		}
	}
	if text != "" && !s.state.sawTextDelta {
		if !s.emit(ctx, out, llmprovider.TextChunk(text)) {
			return
		}
	}

	if wr.Usage != nil && !s.state.usageEmitted {
		s.state.usageEmitted = true
		if wr.ServiceTier != "" {
			s.state.serviceTier = wr.ServiceTier
		}
		u := llmprovider.NormalizeUsage(wr.Usage.toRaw(), s.state.modelCap, s.state.serviceTier)
		s.emit(ctx, out, llmprovider.UsageChunk(u))
	}
}

// fetchResponse performs one status poll with its own timeout.
func (s *session) fetchResponse(ctx context.Context) (*wireResponse, error) {
	pollCtx, cancel := context.WithTimeout(ctx, s.provider.cfg.RequestTimeout)
	defer cancel()

	httpReq, err := s.provider.newPollRequest(pollCtx, s.state.responseID)
	if err != nil {
		return nil, err
	}
	resp, err := s.provider.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, s.provider.handleErrorResponse(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var wr wireResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return nil, fmt.Errorf("failed to parse poll response: %w", err)
	}
	return &wr, nil
}

func (s *session) exhaustedError() error {
	return fmt.Errorf("%w: last phase polling, response id %q, %d reconnects, %d polls",
		llmprovider.ErrResumeExhausted, s.state.responseID, s.state.resumeAttempt, s.state.pollAttempt)
}

func (s *session) pollFailure(wr *wireResponse) error {
	msg := "generation " + wr.Status
	if wr.Error != nil && wr.Error.Message != "" {
		msg = wr.Error.Message
	}
	return &llmprovider.ProviderError{
		Provider:  s.provider.Name().String(),
		RequestID: s.state.responseID,
		Message:   msg,
		Err:       llmprovider.ErrProviderUnavailable,
	}
}

// backoffDelay returns the exponential delay for the upcoming reconnect.
func (s *session) backoffDelay() time.Duration {
	return s.provider.cfg.ResumeBaseDelay * (1 << s.state.resumeAttempt)
}

// emit delivers one chunk, honoring cancellation. Returns false when the
// context ended before delivery.
func (s *session) emit(ctx context.Context, out chan<- llmprovider.Chunk, chunk llmprovider.Chunk) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- chunk:
		return true
	}
}

// sleep waits d or until cancellation; returns false when cancelled.
func (s *session) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
