package models

// ProgressState is the state of the fetch progress overlay
type ProgressState string

const (
	ProgressIdle ProgressState = "idle" // wheel visible, spin enabled
	ProgressBusy ProgressState = "busy" // overlay visible, wheel hidden
)

// ProgressUpdate is one rendered frame of the progress overlay.
// Percent is cosmetic while a request is outstanding.
type ProgressUpdate struct {
	State   ProgressState `json:"state"`
	Percent int           `json:"percent"`
	Text    string        `json:"text"`
}

// NoticeKind identifies a user-visible notice
type NoticeKind string

const (
	NoticePermissionDenied NoticeKind = "permission_denied"
	NoticeNoResults        NoticeKind = "no_results"
	NoticeFetchFailed      NoticeKind = "fetch_failed"
	NoticeSettingsSaved    NoticeKind = "settings_saved"
	NoticeHistoryCleared   NoticeKind = "history_cleared"
)

// Notice is a human-readable message shown in a modal by the popup
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}
