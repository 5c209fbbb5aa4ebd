package bus

// Event types published by the scene and the collision system.
const (
	EventCollisionBegan   = "collision.began"
	EventCollisionEnded   = "collision.ended"
	EventSelectionChanged = "selection.changed"
)

// CollisionPayload is the Data of collision.began and collision.ended events.
type CollisionPayload struct {
	Key   uint64
	AID   string
	BID   string
	AName string
	BName string
	Frame int64
}

// SelectionPayload is the Data of selection.changed events. Empty ids mean
// nothing is selected.
type SelectionPayload struct {
	PreviousID string
	CurrentID  string
	Name       string
	Frame      int64
}
