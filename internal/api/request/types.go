package request

import "github.com/mcoot/minegrid/internal/model"

// GameConfigRequest is the request body for creating or restarting a game.
// Omitted fields take the server defaults.
type GameConfigRequest struct {
	Rows      *int `json:"rows,omitempty"`
	Cols      *int `json:"cols,omitempty"`
	Hazards   *int `json:"hazards,omitempty"`
	TimeLimit *int `json:"time_limit,omitempty"`
}

// Config merges the request over the given defaults
func (r GameConfigRequest) Config(defaults model.Config) model.Config {
	cfg := defaults
	if r.Rows != nil {
		cfg.Rows = *r.Rows
	}
	if r.Cols != nil {
		cfg.Cols = *r.Cols
	}
	if r.Hazards != nil {
		cfg.Hazards = *r.Hazards
	}
	if r.TimeLimit != nil {
		cfg.TimeLimit = *r.TimeLimit
	}
	return cfg
}

// CellRequest is the request body for reveal and mark
type CellRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

// Position returns the requested position, or false if either coordinate
// is missing
func (r CellRequest) Position() (model.Position, bool) {
	if r.Row == nil || r.Col == nil {
		return model.Position{}, false
	}
	return model.Position{Row: *r.Row, Col: *r.Col}, true
}
