package device

// Device is a stored set of credentials for an external device, owned by
// one API user and installed at one location.
type Device struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Login      string `json:"login"`
	Password   string `json:"-"` // bcrypt hash, never serialised
	APIUserID  int64  `json:"api_user_id"`
	LocationID int64  `json:"location_id"`
}

// Details is the read view of a device with its foreign keys resolved to names.
type Details struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Login        string `json:"login"`
	LocationName string `json:"location_name"`
	APIUserName  string `json:"api_user_name"`
}

// CreateInput carries the client-supplied fields for a new device.
// Password is plaintext; the service hashes it.
type CreateInput struct {
	Name         string
	Type         string
	Login        string
	Password     string
	LocationName string
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Name         *string
	Type         *string
	Login        *string
	LocationName *string
}

// Empty reports whether the patch carries no updatable field.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Type == nil && p.Login == nil && p.LocationName == nil
}

// Changes is what the repository writes on update. APIUserID is always set;
// nil pointers keep the stored value.
type Changes struct {
	Name       *string
	Type       *string
	Login      *string
	LocationID *int64
	APIUserID  int64
}
