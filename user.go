package disciteomnes

// Profile is the row in the profiles table holding the display name
// attached to an auth user. The ID is the opaque identifier issued by
// the backend at registration.
type Profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
