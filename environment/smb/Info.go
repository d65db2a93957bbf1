package smb

// Info is the diagnostic information returned with every TimeStep
type Info struct {
	Coins   int    `json:"coins"`
	FlagGet bool   `json:"flag_get"`
	// Life is the lives counter. The game over value 0xFF is reported
	// as -1 rather than 255.
	Life    int    `json:"life"`
	Score   int    `json:"score"`
	Stage   int    `json:"stage"`
	Status  string `json:"status"`
	Time    int    `json:"time"`
	World   int    `json:"world"`
	XPos    int    `json:"x_pos"`
	YPos    int    `json:"y_pos"`
	XSpeed  int    `json:"x_speed"`
	YSpeed  int    `json:"y_speed"`
}

// NewInfo returns the Info of a state reached with the given deltas
func NewInfo(s State, d Delta) Info {
	return Info{
		Coins:   s.Coins,
		FlagGet: s.FlagGet,
		Life:    s.Life,
		Score:   s.Score,
		Stage:   s.Stage,
		Status:  s.Status.String(),
		Time:    s.Time,
		World:   s.World,
		XPos:    s.XPos,
		YPos:    s.YPos,
		XSpeed:  d.XSpeed,
		YSpeed:  d.YSpeed,
	}
}

// Map returns the Info keyed by name. The key set is fixed.
func (i Info) Map() map[string]interface{} {
	return map[string]interface{}{
		"coins":    i.Coins,
		"flag_get": i.FlagGet,
		"life":     i.Life,
		"score":    i.Score,
		"stage":    i.Stage,
		"status":   i.Status,
		"time":     i.Time,
		"world":    i.World,
		"x_pos":    i.XPos,
		"y_pos":    i.YPos,
		"x_speed":  i.XSpeed,
		"y_speed":  i.YSpeed,
	}
}
