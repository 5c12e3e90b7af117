/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
and in responses sent to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON is malformed.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained data after the JSON document.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate exceeded the configured limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Chat and Messaging Errors
const (
	// ErrChatNotFound indicates that the referenced chat does not exist.
	ErrChatNotFound = 2101

	// ErrNotChatParticipant indicates that the caller is not a member of the chat.
	ErrNotChatParticipant = 2102

	// ErrMessageContentTooLong indicates that the message content exceeded the maximum length.
	ErrMessageContentTooLong = 2103

	// ErrMessageContentEmpty indicates that a message carried neither content nor media.
	ErrMessageContentEmpty = 2104
)

// 23xx: Post and Connection Errors
const (
	// ErrPostNotFound indicates that the referenced post does not exist.
	ErrPostNotFound = 2301

	// ErrConnectionExists indicates that a connection request between the two users already exists.
	ErrConnectionExists = 2302

	// ErrUserNotFound indicates that the referenced user account does not exist.
	ErrUserNotFound = 2303
)

// 25xx: Media Upload Errors
const (
	// ErrFileSizeTooLarge indicates that the file size exceeded the upload limit.
	ErrFileSizeTooLarge = 2501

	// ErrFileTypeInvalid indicates that the file name or MIME type is not allowed.
	ErrFileTypeInvalid = 2502
)

// 3xxx: Identity and Security Errors
const (
	// ErrUnauthorized indicates a missing or invalid identity token.
	ErrUnauthorized = 3001
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified server internal error.
	ErrUnknown = 5000

	// ErrStorageFailed indicates a failure talking to the object storage service.
	ErrStorageFailed = 5001
)
