package sessiondto

// Input event kinds accepted over the websocket.
const (
	KindPointerDown = "pointer_down"
	KindPointerUp   = "pointer_up"
	KindNewGame     = "new_game"
	KindReplayEnter = "replay_enter"
	KindReplayStep  = "replay_step"
	KindReplayExit  = "replay_exit"
)

// InputEvent is one logical input from a client. Pointer coordinates are in
// frame pixels; Index selects an archived game (-1 for the latest); Delta
// steps the replay cursor.
type InputEvent struct {
	Kind  string `json:"kind"`
	X     int    `json:"x,omitempty"`
	Y     int    `json:"y,omitempty"`
	Index int    `json:"index"`
	Delta int    `json:"delta,omitempty"`
}

// StateUpdate accompanies each rendered frame.
type StateUpdate struct {
	Phase        string `json:"phase"`
	SideToMove   string `json:"side_to_move"`
	ReplayCursor int    `json:"replay_cursor"`
	ReplayLength int    `json:"replay_length"`
	ArchivedGame int    `json:"archived_games"`
}
