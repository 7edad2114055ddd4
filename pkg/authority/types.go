package authority

// Subject is the NATS subject of channel authorization requests
const Subject = "zunou.authority.v1.authorize"

// Abort reasons
const (
	ReasonInvalidChannel       = "ERR_INVALID_CHANNEL"
	ReasonTechnicalException   = "ERR_TECHNICAL_EXCEPTION"
	ReasonUnsupportedOperation = "ERR_UNSUPPORTED_OPERATION"
)

const operationAuthorize = "authorize"

type Request struct {
	Operation string      `json:"operation,omitempty"`
	Arguments interface{} `json:"arguments,omitempty"`
}

type ReplyStatus int

const (
	ReplyStatusOK ReplyStatus = iota
	ReplyStatusAbort
	ReplyStatusError
)

type Reply struct {
	Status ReplyStatus `json:"status,omitempty"`
	Result interface{} `json:"result,omitempty"`
}

type AbortResult struct {
	Reason  string      `json:"reason,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

type ErrorDetails struct {
	Message string `json:"message,omitempty"`
}

type AuthorizeArguments struct {
	UserID  string `json:"user_id"`
	Channel string `json:"channel"`
}

type AuthorizeResult struct {
	Granted bool `json:"granted"`
}
