package models

// ReferencesModel carries the stops an entry or list points at.
type ReferencesModel struct {
	Stops []Stop `json:"stops"`
}

// NewEmptyReferences creates a new empty References model with initialized empty slices
func NewEmptyReferences() ReferencesModel {
	return ReferencesModel{
		Stops: []Stop{},
	}
}

// NewStopReferences references the given stops.
func NewStopReferences(stops ...Stop) ReferencesModel {
	refs := NewEmptyReferences()
	refs.Stops = append(refs.Stops, stops...)
	return refs
}
