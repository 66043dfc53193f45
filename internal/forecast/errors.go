package forecast

import "fmt"

// impossibleTickerCode is the structured error code the backend returns when
// the submitted prices fit no known pattern.
const impossibleTickerCode = "impossible_pattern"

// impossibleTickerMessage is the sentinel message older backend builds used
// before error codes existed. Kept as a fallback classifier only.
const impossibleTickerMessage = "price data does not fit any pattern"

// BackendError wraps a transport-level or unrecognized business failure from
// the forecasting/chart service.
type BackendError struct {
	Status  int
	Code    string
	Message string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("forecast backend error (status %d, code %q): %s", e.Status, e.Code, e.Message)
}

// ImpossibleTickerError reports the backend rejecting the ticker because its
// prices are contradictory: no pattern can produce them. Usually a mistyped
// price or a missed week boundary.
type ImpossibleTickerError struct{}

func (e *ImpossibleTickerError) Error() string {
	return "ticker prices are impossible: no pattern can produce them"
}

// classifyError translates a backend error payload into the richest error
// type available.
func classifyError(status int, code, message string) error {
	if code == impossibleTickerCode || message == impossibleTickerMessage {
		return &ImpossibleTickerError{}
	}
	return &BackendError{Status: status, Code: code, Message: message}
}
