package ledger

import (
	"errors"
	"fmt"
)

// Kind classifies decode failures.
type Kind uint8

const (
	// KindTransport marks malformed transport encodings (hex).
	KindTransport Kind = iota + 1
	// KindStructure marks CBOR that does not match the expected block layout.
	KindStructure
	// KindDuplicateComplexKey marks a metadata map repeating a non-scalar key.
	// Decoding recovers from it with the header-only fallback.
	KindDuplicateComplexKey
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStructure:
		return "structure"
	case KindDuplicateComplexKey:
		return "duplicate_complex_key"
	default:
		return "unknown"
	}
}

// ErrDuplicateComplexKey is the cause carried by KindDuplicateComplexKey errors.
var ErrDuplicateComplexKey = errors.New("duplicate key: some complicated/unsupported type")

// DecodeError reports where and why a block could not be decoded.
type DecodeError struct {
	Kind     Kind
	Location string
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Location == "" {
		return fmt.Sprintf("%s decode error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s decode error at %s: %v", e.Kind, e.Location, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDuplicateComplexKey reports whether err belongs to the recoverable duplicate key class.
func IsDuplicateComplexKey(err error) bool {
	var de *DecodeError
	return errors.As(err, &de) && de.Kind == KindDuplicateComplexKey
}

func structuralf(location, format string, args ...any) error {
	return &DecodeError{Kind: KindStructure, Location: location, Err: fmt.Errorf(format, args...)}
}

// annotate prefixes the location of err, turning foreign errors into structural ones.
func annotate(err error, location string) error {
	if err == nil {
		return nil
	}
	var de *DecodeError
	if errors.As(err, &de) {
		loc := location
		if de.Location != "" {
			loc = location + "." + de.Location
		}
		return &DecodeError{Kind: de.Kind, Location: loc, Err: de.Err}
	}
	return &DecodeError{Kind: KindStructure, Location: location, Err: err}
}
