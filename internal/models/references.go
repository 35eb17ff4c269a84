package models

// ReferencesModel References model for related data
type ReferencesModel struct {
	Stations []Station `json:"stations"`
}

// NewEmptyReferences creates a new empty References model with initialized empty slices
func NewEmptyReferences() ReferencesModel {
	return ReferencesModel{
		Stations: []Station{},
	}
}
