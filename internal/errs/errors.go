package errs

import "errors"

// Domain error taxonomy. Handlers map these to HTTP statuses with
// errors.Is; everything else surfaces as 500.
var (
	// ErrNotFound means the conversation, message or notification does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the caller is not a participant of the target
	// conversation (or does not own the target record).
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidPair rejects a conversation between a subject and itself.
	ErrInvalidPair = errors.New("sender and receiver must be distinct")

	// ErrInvalidCredential means the presented token did not verify.
	// On the realtime channel this is reported to the client and the
	// connection stays open.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrUnknownType rejects a notification type outside the supported
	// set. This is a caller bug, never silently ignored.
	ErrUnknownType = errors.New("unknown notification type")

	// ErrInvalidMedia rejects an attachment kind outside image, video
	// and audio.
	ErrInvalidMedia = errors.New("unsupported media type")

	// ErrDuplicatePair signals a lost creation race on the unique
	// unordered-pair index; callers refetch the winner's record.
	ErrDuplicatePair = errors.New("conversation already exists for pair")
)
