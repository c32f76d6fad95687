package docstore

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/annavlsk/closetkeeper/internal/common"
)

// cursor marks the last document of the previous page. Listings order by
// created_at descending with id ascending as the tiebreak, so the pair
// identifies a stable resume point even when neighbouring documents share a
// timestamp.
type cursor struct {
	CreatedAt time.Time `json:"c"`
	ID        string    `json:"i"`
}

func encodeCursor(c cursor) string {
	b, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodeCursor(s string) (cursor, error) {
	var c cursor
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return c, fmt.Errorf("%w: bad cursor", common.ErrInvalidEntry)
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("%w: bad cursor", common.ErrInvalidEntry)
	}
	return c, nil
}
