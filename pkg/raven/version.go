package raven

// Client identity reported in the auth header and the event's sdk block.
const (
	ClientName    = "raven-go"
	ClientVersion = "0.3.0"
)
