package errors

// Error codes for the mycfg toolchain.
//
// Error code ranges:
// E0100-E0199: Decode errors
// E0200-E0299: Text form syntax errors
// E0900-E0999: Tooling errors

const (
	// E0100: Opcode string is not one of the sixteen known opcodes
	ErrorUnknownOpcode = "E0100"

	// E0101: Type string is neither "int" nor "bool"
	ErrorInvalidType = "E0101"

	// E0102: Record is missing a required field or violates its opcode's field shape
	ErrorMalformedRecord = "E0102"

	// E0200: Text form could not be parsed
	ErrorSyntax = "E0200"

	// E0900: Input could not be read or is not a valid tree value
	ErrorInput = "E0900"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorUnknownOpcode:
		return "Instruction opcode is not recognized"
	case ErrorInvalidType:
		return "Type must be \"int\" or \"bool\""
	case ErrorMalformedRecord:
		return "Record is missing required fields or has fields its opcode does not allow"
	case ErrorSyntax:
		return "Text form syntax error"
	case ErrorInput:
		return "Input is not a readable tree value"
	default:
		return "Unknown error code"
	}
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case code >= "E0100" && code < "E0200":
		return "Decode"
	case code >= "E0200" && code < "E0300":
		return "Syntax"
	case code >= "E0900" && code < "E1000":
		return "Tooling"
	default:
		return "Unknown"
	}
}
