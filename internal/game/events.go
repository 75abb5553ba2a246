package game

import "time"

// EventKind names something that happened to a session.
type EventKind string

const (
	EventGameStarted         EventKind = "game_started"
	EventWordFound           EventKind = "word_found"
	EventWordRejected        EventKind = "word_rejected"
	EventComboUp             EventKind = "combo_up"
	EventPowerUpActivated    EventKind = "power_up_activated"
	EventFreezeEnded         EventKind = "freeze_ended"
	EventTimeBonus           EventKind = "time_bonus"
	EventPaused              EventKind = "paused"
	EventResumed             EventKind = "resumed"
	EventTimeUp              EventKind = "time_up"
	EventGameOver            EventKind = "game_over"
	EventAchievementUnlocked EventKind = "achievement_unlocked"
	EventNewHighScore        EventKind = "new_high_score"
	EventChallengeCompleted  EventKind = "challenge_completed"
)

// Event is a notification queued on the session for the presentation layer.
type Event struct {
	Kind       EventKind   `json:"kind"`
	At         time.Time   `json:"at"`
	Word       string      `json:"word,omitempty"`
	Points     int         `json:"points,omitempty"`
	Multiplier float64     `json:"multiplier,omitempty"`
	Seconds    int         `json:"seconds,omitempty"`
	PowerUp    PowerUpKind `json:"powerUp,omitempty"`
	Detail     string      `json:"detail,omitempty"`
}

// eventQueue is a FIFO drained by the caller.
type eventQueue struct {
	items []Event
}

func (q *eventQueue) push(e Event) { q.items = append(q.items, e) }

func (q *eventQueue) drain() []Event {
	out := q.items
	q.items = nil
	if out == nil {
		return []Event{}
	}
	return out
}

func (q *eventQueue) len() int { return len(q.items) }
