/*
Package errs provides the custom error type and application-level error code constants.

These error codes identify specific business or system errors both internally within
the server and in communication with clients. Engine errors are non-fatal: an
operation that produced one mutated no state.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1002
)

// 2xxx: Room and Playback Business Logic Errors
const (
	// ErrRoomExists indicates that the room identifier chosen for creation is already taken.
	ErrRoomExists = 2101

	// ErrRoomNotFound indicates that the targeted room does not exist.
	ErrRoomNotFound = 2102

	// ErrAlreadyPlaying indicates a redundant play command while playback is running.
	ErrAlreadyPlaying = 2103

	// ErrAlreadyPaused indicates a redundant pause command while playback is stopped.
	ErrAlreadyPaused = 2104

	// ErrMessageTooLong indicates that a chat message exceeded the maximum length limit.
	ErrMessageTooLong = 2201
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
