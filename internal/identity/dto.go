// AngelaMos | 2026
// dto.go

package identity

type ProfileResponse struct {
	ID             string         `json:"id"`
	Email          string         `json:"email"`
	Name           string         `json:"name"`
	Tier           string         `json:"tier"`
	PublicMetadata map[string]any `json:"public_metadata"`
}

func ToProfileResponse(u *User) ProfileResponse {
	resp := ProfileResponse{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		PublicMetadata: u.Metadata,
	}

	if t, err := u.Metadata.Tier(); err == nil {
		resp.Tier = t.String()
	}

	return resp
}
