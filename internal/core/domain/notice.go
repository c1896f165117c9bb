package domain

import "time"

// NoticeLevel mirrors the toast levels the browser renders.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
	NoticeWarning NoticeLevel = "warning"
	NoticeInfo    NoticeLevel = "info"
)

// Notice is a user-visible message queued for the browser.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
	At      time.Time   `json:"at"`
}

// SessionExpiredMessage is surfaced after a forced sign-out.
const SessionExpiredMessage = "Session expired. Please log in again."

// LoginPath is the sign-in view.
const LoginPath = "/login"
