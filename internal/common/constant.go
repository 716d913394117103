package common

// AuthorizationHeaderName is the HTTP header used to carry the bearer
// access token on outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is prepended to the access token in the Authorization header.
const BearerPrefix = "Bearer "

// DefaultSystemPrompt is sent with every chat turn unless overridden.
const DefaultSystemPrompt = "You are a helpful assistant."
