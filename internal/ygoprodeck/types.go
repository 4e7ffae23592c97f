package ygoprodeck

// Response structures for the YGOPRODeck v7 API. Prices arrive as decimal
// strings, not numbers.

type setInfoResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SetName   string `json:"set_name"`
	SetCode   string `json:"set_code"`
	SetRarity string `json:"set_rarity"`
	SetPrice  string `json:"set_price"`
}

type cardInfoResponse struct {
	Data []cardData `json:"data"`
}

type cardData struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	CardSets   []cardSet   `json:"card_sets"`
	CardImages []cardImage `json:"card_images"`
}

type cardSet struct {
	SetCode   string `json:"set_code"`
	SetName   string `json:"set_name"`
	SetRarity string `json:"set_rarity"`
	SetPrice  string `json:"set_price"`
}

type cardImage struct {
	ImageURL      string `json:"image_url"`
	ImageURLSmall string `json:"image_url_small"`
}

// SetMeta is the catalog's view of one printed set code.
type SetMeta struct {
	// ID is the opaque catalog identifier of the card.
	ID int64
	// Name is the card name.
	Name string
	// SetName is the name of the set the code belongs to.
	SetName string
	// Rarity is the set-level default rarity, possibly empty.
	Rarity string
	// Price is the set-level default price; nil when the catalog carries
	// no usable price for the code.
	Price *float64
}
