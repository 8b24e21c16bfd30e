package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventBeforeScrollStart EventType = "beforeScrollStart"
	EventScrollStart       EventType = "scrollStart"
	EventScroll            EventType = "scroll"
	EventScrollCancel      EventType = "scrollCancel"
	EventScrollEnd         EventType = "scrollEnd"
	EventFlick             EventType = "flick"
	EventPullingUp         EventType = "pullingUp"
	EventPullingDown       EventType = "pullingDown"
	EventRefresh           EventType = "refresh"
	EventDestroy           EventType = "destroy"
	EventClick             EventType = "click"
	EventTap               EventType = "tap"
	EventConfigLoaded      EventType = "configLoaded"
	EventConfigSaved       EventType = "configSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// BeforeScrollStartEvent is emitted when a gesture session starts
type BeforeScrollStartEvent struct{}

func (e BeforeScrollStartEvent) Type() EventType { return EventBeforeScrollStart }

// ScrollStartEvent is emitted on the first real movement of a gesture
type ScrollStartEvent struct{}

func (e ScrollStartEvent) Type() EventType { return EventScrollStart }

// ScrollEvent reports an intermediate position
type ScrollEvent struct {
	Pos Point

	// Moving direction of the last pointer sample per axis
	MovingX Direction
	MovingY Direction
}

func (e ScrollEvent) Type() EventType { return EventScroll }

// ScrollCancelEvent is emitted when a gesture ends without net movement
type ScrollCancelEvent struct{}

func (e ScrollCancelEvent) Type() EventType { return EventScrollCancel }

// ScrollEndEvent is emitted when motion settles
type ScrollEndEvent struct {
	Pos Point
}

func (e ScrollEndEvent) Type() EventType { return EventScrollEnd }

// FlickEvent is emitted for a short, fast release
type FlickEvent struct{}

func (e FlickEvent) Type() EventType { return EventFlick }

// PullingUpEvent is emitted when a watcher on the far edge fires
type PullingUpEvent struct {
	WatcherID int
}

func (e PullingUpEvent) Type() EventType { return EventPullingUp }

// PullingDownEvent is emitted when a pull past the near edge triggers
type PullingDownEvent struct {
	WatcherID int // zero for the built-in pull-down refresh
}

func (e PullingDownEvent) Type() EventType { return EventPullingDown }

// RefreshEvent is emitted after bounds were recomputed
type RefreshEvent struct {
	MaxScroll Point
}

func (e RefreshEvent) Type() EventType { return EventRefresh }

// DestroyEvent is the last event an engine emits
type DestroyEvent struct{}

func (e DestroyEvent) Type() EventType { return EventDestroy }

// ClickEvent asks the host to synthesize a click on the tapped target
type ClickEvent struct {
	Target string
	Pos    Point
}

func (e ClickEvent) Type() EventType { return EventClick }

// TapEvent asks the host to synthesize a tap on the tapped target
type TapEvent struct {
	Name   string
	Target string
	Pos    Point
}

func (e TapEvent) Type() EventType { return EventTap }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
