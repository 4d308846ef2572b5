package types

// SuccessEnvelope wraps every successful storefront response. Notice is the
// toast the client shows for the operation, when there is one.
type SuccessEnvelope struct {
	Data   any     `json:"data"`
	Notice *Notice `json:"notice,omitempty"`
}

type APIError struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Details any     `json:"details,omitempty"`
	Notice  *Notice `json:"notice,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// BareError is the flat body answered by endpoints that proxy third-party
// APIs, so clients see {"error": "..."} instead of the envelope.
type BareError struct {
	Error string `json:"error"`
}

