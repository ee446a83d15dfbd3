// Package mint builds and submits compressed NFT mints.
package mint

import (
	"fmt"

	"JerseyFM/model"
)

// Policy values stamped on every JerseyFM mint.
const (
	Symbol             = "JFM"
	RoyaltyBasisPoints = 1000 // 10% royalties
	ExternalURL        = "https://jersey.fm"
	DefaultGenre       = "Jersey Club"
	creatorShare       = 100
)

// BuildPayload maps a validated request and its upload URLs to mint params.
// The cover is the token image; the audio URL rides along as an attribute.
func BuildPayload(req *model.MintRequest, coverURL, audioURL string) *model.MintPayload {
	genre := req.Genre
	if genre == "" {
		genre = DefaultGenre
	}

	return &model.MintPayload{
		Name:        fmt.Sprintf("%s - %s", req.SongTitle, req.ArtistName),
		Symbol:      Symbol,
		Owner:       req.OwnerAddress,
		Description: fmt.Sprintf("Jersey Club: %s by %s", req.SongTitle, req.ArtistName),
		Attributes: []model.Attribute{
			{TraitType: "Artist", Value: req.ArtistName},
			{TraitType: "Song Title", Value: req.SongTitle},
			{TraitType: "Genre", Value: genre},
			{TraitType: "Audio File", Value: audioURL},
		},
		ImageURL:             coverURL,
		ExternalURL:          ExternalURL,
		SellerFeeBasisPoints: RoyaltyBasisPoints,
		Creators: []model.Creator{
			{Address: req.OwnerAddress, Share: creatorShare},
		},
	}
}
