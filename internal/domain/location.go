package domain

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Degenerate reports the (0,0) pair, which the backend treats as "no fix".
func (c Coordinates) Degenerate() bool { return c.Lat == 0 && c.Lng == 0 }

type PermissionStatus int

const (
	PermissionUndetermined PermissionStatus = iota
	PermissionGranted
	PermissionDenied
)

// LocationState is the screen-local location snapshot. PermissionDenied is
// deliberately separate from Err so callers can offer a permission-specific
// remedy.
type LocationState struct {
	Coordinates      *Coordinates `json:"coordinates"`
	HasPermission    bool         `json:"hasPermission"`
	PermissionDenied bool         `json:"permissionDenied"`
	Loading          bool         `json:"loading"`
	Err              string       `json:"error"`
	FromCache        bool         `json:"fromCache"`
}
