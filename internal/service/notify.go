package service

// Notifier pushes fire-and-forget events to a connected user. Pushes run
// after commit and must never influence transaction outcome.
type Notifier interface {
	Push(userID int64, event string, payload any)
}

func notify(n Notifier, userID int64, event string, payload any) {
	if n == nil {
		return
	}
	n.Push(userID, event, payload)
}
