package service

// EventPublisher pushes domain events (stock changes, issued documents)
// to connected dashboard clients. A nil publisher disables broadcasting.
type EventPublisher interface {
	Publish(event string, data map[string]interface{})
}

func publish(p EventPublisher, event string, data map[string]interface{}) {
	if p != nil {
		p.Publish(event, data)
	}
}
