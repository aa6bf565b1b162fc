package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the access
// token on outbound requests.
const AccessTokenHeaderName = "access_token"

// SessionCookieName is the browser cookie holding the session token.
const SessionCookieName = "salarygate_session"
