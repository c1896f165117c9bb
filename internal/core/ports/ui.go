package ports

import "github.com/scholarhub/portal-gateway/internal/core/domain"

// Notifier surfaces a message to the user of one browser session.
type Notifier interface {
	Notify(level domain.NoticeLevel, message string)
}

// Navigator moves the browser to another view.
type Navigator interface {
	Navigate(path string)
}
