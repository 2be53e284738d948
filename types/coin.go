package types

// Coin is a single coin object owned by an address.
type Coin struct {
	CoinType            string   `json:"coinType"`
	CoinObjectID        ObjectID `json:"coinObjectId"`
	Version             string   `json:"version"`
	Digest              Digest   `json:"digest"`
	Balance             string   `json:"balance"`
	PreviousTransaction Digest   `json:"previousTransaction,omitempty"`
}

// CoinBalance aggregates all coins of one type held by one address.
// It is derived, not stored: each query recomputes it from the
// owner's live coin objects.
type CoinBalance struct {
	CoinType        string `json:"coinType"`
	CoinObjectCount int    `json:"coinObjectCount"`
	TotalBalance    string `json:"totalBalance"`
}

// CoinMetadata describes a coin type's display parameters.
type CoinMetadata struct {
	Decimals    uint8     `json:"decimals"`
	Name        string    `json:"name"`
	Symbol      string    `json:"symbol"`
	Description string    `json:"description"`
	IconURL     *string   `json:"iconUrl,omitempty"`
	ID          *ObjectID `json:"id,omitempty"`
}

// Supply is the total minted supply of a coin type.
type Supply struct {
	Value string `json:"value"`
}
