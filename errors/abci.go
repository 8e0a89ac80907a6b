package errors

// SuccessABCICode declares an ABCI response use 0 to signal that the
// processing was successful and no error is returned.
const SuccessABCICode = 0

// All unclassified errors that do not provide an ABCI code are clubbed
// under an internal error code and a generic message instead of
// detailed error string.
const (
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the ABCI error information as consumed by the tendermint
// client. Returned code and log message should be used as a ABCI response.
// Any error that does not provide ABCICode information is categorized as error
// with code 1, that cannot be determined and labeled as internal.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessABCICode, ""
	}

	// Only non-internal errors information can be exposed to the client.
	// Any error of the internal category (ie. panic) must be silenced to
	// not leak any internal information.
	if code := abciCode(err); code != internalABCICode {
		return code, err.Error()
	}
	if debug {
		return internalABCICode, err.Error()
	}
	return internalABCICode, internalABCILog
}

// abciCode tests if given error contains an ABCI code and returns the value of
// it if available. This function is testing for the causer interface as well
// and unwraps the error.
func abciCode(err error) uint32 {
	if errIsNil(err) {
		return SuccessABCICode
	}

	for {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return internalABCICode
		}
	}
}

type coder interface {
	ABCICode() uint32
}

// errIsNil returns true if value represented by the given error is nil.
//
// Most of the time a simple == check is enough. There is a very narrow case
// when user provides an error as a struct pointer and even though the pointer
// is nil the error interface is not.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	if e, ok := err.(*Error); ok {
		return e == nil
	}
	return false
}

// ABCIError will resolve an error code/log from an abci result into
// an error message. If the code is registered, it will map it back to
// the root error, so we can do easy comparisons.
func ABCIError(code uint32, log string) error {
	if e, ok := usedCodes[code]; ok && e != nil {
		return Wrap(e, log)
	}
	// This is a unique error, will never match on .Is()
	// Use Wrap here to get a stack trace
	return Wrap(&Error{code: code, desc: "unknown"}, log)
}

// Redact replaces the error with a standard internal error in case it
// carries information that must not leak to a client (currently only
// recovered panics). Errors with a proper error code pass unchanged.
func Redact(err error) error {
	if ErrPanic.Is(err) {
		return ErrInternal
	}
	return err
}
