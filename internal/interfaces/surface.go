package interfaces

import "github.com/ternarybob/lunchwheel/internal/models"

// WheelSurface is the presentation side of the picker: the popup's wheel,
// progress overlay and modal notices.
type WheelSurface interface {
	// DrawWheel replaces every segment with options and redraws
	DrawWheel(options []models.WheelOption)

	// ShowProgress renders one frame of the progress overlay
	ShowProgress(update models.ProgressUpdate)

	// ShowNotice shows a human-readable message
	ShowNotice(notice models.Notice)
}
