package usecases

import "fmt"

// ValidationError blocks a submit before any remote call is made. It is
// recovered locally and surfaced inline.
type ValidationError struct {
	ShopTLD string
	Reason  string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation failed shop=%s: %s: %v", e.ShopTLD, e.Reason, e.Err)
	}
	return fmt.Sprintf("validation failed shop=%s: %s", e.ShopTLD, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// TranslationError reports a failed translation batch. The affected fields
// already carry the untranslated source text, so it is a warning, not a
// blocker.
type TranslationError struct {
	ShopTLD string
	Err     error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translation batch failed shop=%s: %v", e.ShopTLD, e.Err)
}

func (e *TranslationError) Unwrap() error { return e.Err }

// RemoteAPIError reports a failed remote call during one shop's submit.
// The shop's mirror rows were not written.
type RemoteAPIError struct {
	ShopTLD string
	Op      string
	Err     error
}

func (e *RemoteAPIError) Error() string {
	return fmt.Sprintf("remote call failed shop=%s op=%s: %v", e.ShopTLD, e.Op, e.Err)
}

func (e *RemoteAPIError) Unwrap() error { return e.Err }

// MirrorWriteError means the remote update succeeded but the local rows
// are now stale. The shop needs a full mirror sync to repair.
type MirrorWriteError struct {
	ShopTLD string
	Err     error
}

func (e *MirrorWriteError) Error() string {
	return fmt.Sprintf("mirror write failed shop=%s, remote update already applied, local records are stale: %v", e.ShopTLD, e.Err)
}

func (e *MirrorWriteError) Unwrap() error { return e.Err }
