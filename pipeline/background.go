package pipeline

import "github.com/rs/zerolog"

// WriteResult is the outcome of one background write to one target.
type WriteResult struct {
	Target    string
	Namespace string
	Key       string
	Err       error
}

// WriteHandle joins the background writes spawned for one batch. The
// surrounding collaborator must Wait on it and route failures to the error
// reporter; a write failure is never raised on the response path.
type WriteHandle struct {
	results chan WriteResult
	n       int
}

// Wait blocks until every write finished and returns all outcomes.
func (h *WriteHandle) Wait() []WriteResult {
	if h == nil {
		return nil
	}
	out := make([]WriteResult, 0, h.n)
	for range h.n {
		out = append(out, <-h.results)
	}
	return out
}

// Reporter receives background-write outcomes.
type Reporter interface {
	Report(res WriteResult)
}

// LogReporter routes write failures to the configured error-reporting sink
// via the structured log.
type LogReporter struct {
	Log  zerolog.Logger
	Sink string
}

func (r LogReporter) Report(res WriteResult) {
	if res.Err == nil {
		return
	}
	r.Log.Error().
		Str("reporting_sink", r.Sink).
		Str("target", res.Target).
		Str("object", res.Namespace+"/"+res.Key).
		Err(res.Err).
		Msg("background write failed")
}
