package common

// AuthorizationHeaderName is the HTTP header carrying the bearer access token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is the expected scheme prefix in the authorization header.
const BearerPrefix = "Bearer"
