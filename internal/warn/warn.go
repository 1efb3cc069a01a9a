// Package warn defines the non-fatal warning type threaded through every
// pipeline stage (spec.md §7: "the core never throws across the render
// boundary; all errors surface as warnings on the returned render result").
package warn

import "fmt"

// Code enumerates the taxonomy from spec.md §7.
// ENUM(inputMalformed, styleDegraded, numberingGap, cacheInconsistent, measurerFailure, overflowUnresolvable)
type Code string

const (
	CodeInputMalformed       Code = "inputMalformed"
	CodeStyleDegraded        Code = "styleDegraded"
	CodeNumberingGap         Code = "numberingGap"
	CodeCacheInconsistent    Code = "cacheInconsistent"
	CodeMeasurerFailure      Code = "measurerFailure"
	CodeOverflowUnresolvable Code = "overflowUnresolvable"
)

// Warning is one recoverable issue observed during a render.
type Warning struct {
	Code    Code
	BlockID string
	Message string
}

func (w Warning) Error() string {
	if w.BlockID != "" {
		return fmt.Sprintf("%s [%s]: %s", w.Code, w.BlockID, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// New builds a Warning.
func New(code Code, blockID, format string, args ...any) Warning {
	return Warning{Code: code, BlockID: blockID, Message: fmt.Sprintf(format, args...)}
}
