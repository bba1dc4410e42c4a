package event

type Type string

const (
	TypeVehicleDeleted  Type = "vehicle.deleted"
	TypeVehicleRestored Type = "vehicle.restored"
	TypeVehicleCreated  Type = "vehicle.created"
	TypePositionUpdated Type = "position.updated"
	TypeSyncStarted     Type = "sync.started"
	TypeSyncCompleted   Type = "sync.completed"
	TypeSyncFailed      Type = "sync.failed"
)

type Event struct {
	ID        string      `json:"id"`
	Type      Type        `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp string      `json:"timestamp"`
	ActorID   string      `json:"actor_id,omitempty"` // Who triggered the event
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}
