package utils

// CtxShowErrorDetails is set on the request context when internal error
// text may be returned to the client.
const CtxShowErrorDetails = "show_error_details"
