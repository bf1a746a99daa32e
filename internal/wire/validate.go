package wire

// ExpectedResponsePayloadSize returns the fixed payload size a well-formed
// response of the given code must carry, per the §6 wire table. ok is false
// for a code this package doesn't recognize.
func ExpectedResponsePayloadSize(code uint16) (size uint32, ok bool) {
	switch code {
	case CodeRegistrationOK:
		return ClientIDSize, true
	case CodeRegistrationFailed:
		return 0, true
	case CodeAESKey, CodeReconnectOK:
		return ClientIDSize + WrappedAESKeySize, true
	case CodeFileReceived:
		return ClientIDSize + 4 + FileNameSize + 4, true
	case CodeMessageAck:
		return ClientIDSize, true
	case CodeReconnectDenied:
		return 0, true
	case CodeGenericError:
		return 0, true
	default:
		return 0, false
	}
}

// IsServerError reports whether code is one of the three response codes
// that short-circuit header validation with a specific error kind,
// regardless of what the caller expected (spec §4.5 rule 1).
func IsServerError(code uint16) bool {
	switch code {
	case CodeRegistrationFailed, CodeReconnectDenied, CodeGenericError:
		return true
	default:
		return false
	}
}
