package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// EcoCoinAsset is the asset name of the reward token on the ledger service.
const EcoCoinAsset = "EcoCoin"

// Asset is one entry of an address balance on the ledger service.
type Asset struct {
	Name     string          `json:"name"`
	AssetRef string          `json:"assetref"`
	Qty      decimal.Decimal `json:"qty"`
}

// Balance lists the assets held by a ledger address.
type Balance struct {
	Assets []Asset `json:"data"`
}

// EcoCoins returns the EcoCoin quantity. When no asset is named EcoCoin the first
// asset is used, and an address without assets holds zero.
func (b Balance) EcoCoins() decimal.Decimal {
	for _, a := range b.Assets {
		if strings.EqualFold(a.Name, EcoCoinAsset) {
			return a.Qty
		}
	}
	if len(b.Assets) > 0 {
		return b.Assets[0].Qty
	}
	return decimal.Zero
}
