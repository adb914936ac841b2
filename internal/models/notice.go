package models

// NoticeKind classifies user feedback messages.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
)

// Notice is one feedback message addressed to the operator.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}
