package receipt

// ParsedItem is one line item extracted from a receipt image
type ParsedItem struct {
	ItemName   string  `json:"item_name"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"total_price"`
}

// ScanResponse represents the response for a receipt scan
type ScanResponse struct {
	Items []ParsedItem `json:"items"`
}
