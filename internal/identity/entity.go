// AngelaMos | 2026
// entity.go

package identity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/carterperez-dev/templates/tiered-events/internal/tier"
)

const MetadataTierKey = "tier"

// Account is the identity provider's record of a user. Its public metadata
// is the source of truth for the user's tier.
type Account struct {
	ID           string     `db:"id"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Name         string     `db:"name"`
	Metadata     Metadata   `db:"public_metadata"`
	TokenVersion int        `db:"token_version"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

// User is the identity view handed to other components.
type User struct {
	ID       string
	Email    string
	Name     string
	Metadata Metadata
}

func (a *Account) User() *User {
	return &User{
		ID:       a.ID,
		Email:    a.Email,
		Name:     a.Name,
		Metadata: a.Metadata.Clone(),
	}
}

// Metadata is the free-form public attribute bag, stored as JSONB.
type Metadata map[string]any

func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Tier returns the tier recorded in the bag. An absent or empty value means
// the user never chose one and defaults to free; any other value that is
// not a known tier is an integrity error.
func (m Metadata) Tier() (tier.Tier, error) {
	raw, ok := m[MetadataTierKey]
	if !ok || raw == nil {
		return tier.Free, nil
	}

	s, isString := raw.(string)
	if !isString {
		return "", fmt.Errorf("metadata tier %v: %w", raw, tier.ErrUnknownTier)
	}
	if s == "" {
		return tier.Free, nil
	}

	t := tier.Tier(s)
	if !t.Valid() {
		return "", fmt.Errorf("metadata tier %q: %w", s, tier.ErrUnknownTier)
	}

	return t, nil
}

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]any(m))
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return string(b), nil
}

func (m *Metadata) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*m = Metadata{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan metadata: unsupported type %T", src)
	}

	decoded := Metadata{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("decode metadata: %w", err)
	}
	*m = decoded

	return nil
}
