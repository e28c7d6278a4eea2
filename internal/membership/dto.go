// AngelaMos | 2026
// dto.go

package membership

type SyncResponse struct {
	Success bool          `json:"success"`
	User    *MirrorRecord `json:"user"`
	Message string        `json:"message"`
}

type UpdateTierRequest struct {
	NewTier string `json:"newTier" validate:"required,tier"`
}

type TierUser struct {
	ID   string `json:"id"`
	Tier string `json:"tier"`
}

type UpdateTierResponse struct {
	Success bool     `json:"success"`
	User    TierUser `json:"user"`
}

func ToUpdateTierResponse(c *TierChange) UpdateTierResponse {
	return UpdateTierResponse{
		Success: true,
		User: TierUser{
			ID:   c.ID,
			Tier: c.Tier.String(),
		},
	}
}
