package models

// ProviderWallet is a wallet record as returned by the custodial provider.
// Name may be empty; the reconciliation layer applies the derived-name rule.
type ProviderWallet struct {
	Id      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Address string `json:"address"`
}

// OrderRequest contains the parameters for a swap order submission.
// The five trade parameters are forwarded to the provider verbatim.
type OrderRequest struct {
	Chain           string  `json:"chain"`
	WalletId        string  `json:"walletId"`
	Pair            string  `json:"pair"`
	Type            string  `json:"type"` // "buy" or "sell"
	AmountOrPercent string  `json:"amountOrPercent"`
	MaxSlippage     float64 `json:"maxSlippage"`
}

// OrderDetail is the settlement detail for an accepted order. All fields
// may be empty while the provider has not settled the order yet.
type OrderDetail struct {
	Id         string `json:"id"`
	TxPriceUsd string `json:"txPriceUsd"`
	SwapHash   string `json:"swapHash"`
	State      string `json:"state"`
}

// Settled reports whether the provider has produced settlement detail.
func (d OrderDetail) Settled() bool {
	return d.State != ""
}
