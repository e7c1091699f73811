package model

// BackupDocument is the transportable snapshot of the whole application state.
// Pointer fields distinguish "absent" from "empty": an absent field leaves the
// corresponding live collection untouched on import.
type BackupDocument struct {
	Sales    *[]Sale    `json:"sales,omitempty"`
	Products *[]Product `json:"products,omitempty"`
	Meta     *float64   `json:"meta,omitempty"`
}
