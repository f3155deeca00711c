package ws

import "github.com/google/uuid"

// newConnID tags a connection for the lifetime of its socket; it only
// shows up in logs.
func newConnID() string {
	return uuid.NewString()
}
