package model

import "time"

// MintReceipt 铸造记录
// Written by the HTTP layer after a successful mint.
type MintReceipt struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	RequestID    string    `json:"requestId" gorm:"size:36;index"`
	AssetID      string    `json:"assetId" gorm:"size:64;uniqueIndex;not null"`
	Signature    string    `json:"signature" gorm:"size:128;index;not null"`
	ExplorerLink string    `json:"explorerLink" gorm:"size:255"`
	OwnerAddress string    `json:"ownerAddress" gorm:"size:64;index;not null"`
	SongTitle    string    `json:"songTitle" gorm:"size:200"`
	ArtistName   string    `json:"artistName" gorm:"size:200"`
	Genre        string    `json:"genre" gorm:"size:100"`
	CoverURL     string    `json:"coverUrl" gorm:"size:255"`
	AudioURL     string    `json:"audioUrl" gorm:"size:255"`
	MintedBy     string    `json:"mintedBy,omitempty" gorm:"size:128"` // token subject, empty without auth
	CreatedAt    time.Time `json:"createdAt"`
}

// TableName 指定表名
func (MintReceipt) TableName() string {
	return "mint_receipts"
}

// NewMintReceipt assembles a receipt from a finished run.
func NewMintReceipt(requestID string, req *MintRequest, payload *MintPayload, urls *AssetURLs, out *MintOutcome) *MintReceipt {
	genre, _ := payload.Attribute("Genre")
	return &MintReceipt{
		RequestID:    requestID,
		AssetID:      out.AssetID,
		Signature:    out.Signature,
		ExplorerLink: out.ExplorerLink,
		OwnerAddress: req.OwnerAddress,
		SongTitle:    req.SongTitle,
		ArtistName:   req.ArtistName,
		Genre:        genre,
		CoverURL:     urls.CoverURL,
		AudioURL:     urls.AudioURL,
		CreatedAt:    time.Now().UTC(),
	}
}
