package model

// FeeTier selects one of the estimated fee levels.
type FeeTier string

const (
	FeeSlow     FeeTier = "slow"
	FeeStandard FeeTier = "standard"
	FeeFast     FeeTier = "fast"
)

// Valid reports whether t is a known tier. The empty tier means standard.
func (t FeeTier) Valid() bool {
	switch t {
	case "", FeeSlow, FeeStandard, FeeFast:
		return true
	}
	return false
}

// FeeOption is the price of one tier. All values are wei decimal strings.
type FeeOption struct {
	Tier                 FeeTier `json:"tier"`
	GasPrice             string  `json:"gasPrice"`
	MaxFeePerGas         string  `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas string  `json:"maxPriorityFeePerGas,omitempty"`
	Fee                  string  `json:"fee"`     // gasLimit * (maxFeePerGas or gasPrice)
	FeeCoin              string  `json:"feeCoin"` // Fee in native coin units
}

// FeeEstimate represents response for POST /transactions/estimate
type FeeEstimate struct {
	Network     string    `json:"network"`
	GasLimit    uint64    `json:"gasLimit"`
	GasPrice    string    `json:"gasPrice"`
	BaseFee     string    `json:"baseFee,omitempty"`
	PriorityFee string    `json:"priorityFee,omitempty"`
	EIP1559     bool      `json:"eip1559"`
	Slow        FeeOption `json:"slow"`
	Standard    FeeOption `json:"standard"`
	Fast        FeeOption `json:"fast"`
}

// Option returns the option for tier (standard when empty).
func (e *FeeEstimate) Option(tier FeeTier) FeeOption {
	switch tier {
	case FeeSlow:
		return e.Slow
	case FeeFast:
		return e.Fast
	default:
		return e.Standard
	}
}
