package messaging

type ChangeTopic string

const (
	// TrackingTopic carries session and search events for the analytics
	// consumers.
	TrackingTopic ChangeTopic = "tracking"
)

const GlobalPrefix = "global"
