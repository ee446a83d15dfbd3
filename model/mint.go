package model

// MintRequest is the caller-facing description of one track to mint.
type MintRequest struct {
	CoverFileName string `json:"coverFileName"` // e.g. cover-uuid.png
	AudioFileName string `json:"audioFileName"` // e.g. audio-uuid.wav
	OwnerAddress  string `json:"ownerAddress"`  // wallet receiving the cNFT
	SongTitle     string `json:"songTitle"`
	ArtistName    string `json:"artistName"`
	Genre         string `json:"genre,omitempty"` // optional
}

// MissingFields returns the JSON names of required fields that are empty.
func (r *MintRequest) MissingFields() []string {
	var missing []string
	check := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}
	check("coverFileName", r.CoverFileName)
	check("audioFileName", r.AudioFileName)
	check("ownerAddress", r.OwnerAddress)
	check("songTitle", r.SongTitle)
	check("artistName", r.ArtistName)
	return missing
}

// UploadResult is what the storage network gave back for one file.
type UploadResult struct {
	ID       string `json:"id"`       // network-assigned content identifier
	URL      string `json:"url"`      // gateway retrieval URL built from ID
	ByteSize int64  `json:"byteSize"` // size that was priced and uploaded
}

// FundingQuote is the storage price for one upload, in atomic units (lamports).
type FundingQuote struct {
	CostAtomicUnits uint64 `json:"costAtomicUnits"`
}

// AssetURLs pairs the retrieval URLs of a cover and its audio file.
type AssetURLs struct {
	CoverURL string `json:"coverUrl"`
	AudioURL string `json:"audioUrl"`
}

// Attribute is a single NFT trait.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// Creator is a royalty recipient; Share is a whole percentage.
type Creator struct {
	Address string `json:"address"`
	Share   int    `json:"share"`
}

// MintPayload is the params object of a mintCompressedNft call.
type MintPayload struct {
	Name                 string      `json:"name"`
	Symbol               string      `json:"symbol"`
	Owner                string      `json:"owner"`
	Description          string      `json:"description"`
	Attributes           []Attribute `json:"attributes"`
	ImageURL             string      `json:"imageUrl"`
	ExternalURL          string      `json:"externalUrl"`
	SellerFeeBasisPoints int         `json:"sellerFeeBasisPoints"`
	Creators             []Creator   `json:"creators"`
}

// Attribute looks up a trait value by its type.
func (p *MintPayload) Attribute(traitType string) (string, bool) {
	for _, a := range p.Attributes {
		if a.TraitType == traitType {
			return a.Value, true
		}
	}
	return "", false
}

// CreatorShareTotal sums the creator shares.
func (p *MintPayload) CreatorShareTotal() int {
	total := 0
	for _, c := range p.Creators {
		total += c.Share
	}
	return total
}

// MintOutcome is the terminal value of a successful pipeline run.
type MintOutcome struct {
	AssetID      string `json:"assetId"`
	Signature    string `json:"signature"`
	ExplorerLink string `json:"explorerLink"`
}
