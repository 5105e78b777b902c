package pretune

import (
	"slices"
	"sync"
)

// PropertyChangedEventArgs describes one change notification.
type PropertyChangedEventArgs struct {
	PropertyName string
}

// PropertyChangedHandler receives change notifications.
type PropertyChangedHandler func(sender any, e PropertyChangedEventArgs)

// NotifyPropertyChanged is implemented by types generated with
// ImplementNotifyPropertyChanged.
type NotifyPropertyChanged interface {
	AddPropertyChangedHandler(handler PropertyChangedHandler) (remove func())
}

// ImplementNotifyPropertyChanged requests change notifying accessors for
// every unexported field. It stores the registered handlers, so it must be
// embedded or given a name; a blank field has nowhere to keep them.
type ImplementNotifyPropertyChanged struct {
	mu       sync.Mutex
	nextID   int
	handlers []handlerEntry
}

type handlerEntry struct {
	id      int
	handler PropertyChangedHandler
}

// AddPropertyChangedHandler registers handler and returns a function that
// unregisters it.
func (n *ImplementNotifyPropertyChanged) AddPropertyChangedHandler(handler PropertyChangedHandler) (remove func()) {
	if handler == nil {
		return func() {}
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	n.handlers = append(n.handlers, handlerEntry{id: id, handler: handler})
	return func() { n.removeHandler(id) }
}

func (n *ImplementNotifyPropertyChanged) removeHandler(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.handlers = slices.DeleteFunc(n.handlers, func(e handlerEntry) bool {
		return e.id == id
	})
}

// RaisePropertyChanged calls every registered handler in registration order.
// Handlers may add or remove handlers while being called.
func (n *ImplementNotifyPropertyChanged) RaisePropertyChanged(sender any, propertyName string) {
	n.mu.Lock()
	handlers := slices.Clone(n.handlers)
	n.mu.Unlock()

	e := PropertyChangedEventArgs{PropertyName: propertyName}
	for _, entry := range handlers {
		entry.handler(sender, e)
	}
}
