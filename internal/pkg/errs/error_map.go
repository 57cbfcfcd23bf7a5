/*
Package errs provides the custom error type and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and WebSocket error notifications.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:     {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrRateLimitExceeded: {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Room and Playback Business Logic Errors
	ErrRoomExists:     {Code: ErrRoomExists, Message: "Room already exists."},
	ErrRoomNotFound:   {Code: ErrRoomNotFound, Message: "Room does not exist."},
	ErrAlreadyPlaying: {Code: ErrAlreadyPlaying, Message: "Video is already playing."},
	ErrAlreadyPaused:  {Code: ErrAlreadyPaused, Message: "Video is already paused."},
	ErrMessageTooLong: {Code: ErrMessageTooLong, Message: "Message is too long."},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
