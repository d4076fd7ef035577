package orca

// SwapDirection is the side of the pool the trader sells into.
type SwapDirection uint8

const (
	// SwapDirectionAToB sells token A for token B; price moves down.
	SwapDirectionAToB SwapDirection = iota
	// SwapDirectionBToA sells token B for token A; price moves up.
	SwapDirectionBToA
)

// IsAToB reports whether token A is sold.
func (d SwapDirection) IsAToB() bool { return d == SwapDirectionAToB }

// IsPriceDown reports whether the swap lowers the sqrt price.
func (d SwapDirection) IsPriceDown() bool { return d == SwapDirectionAToB }

func (d SwapDirection) String() string {
	if d.IsAToB() {
		return "AtoB"
	}
	return "BtoA"
}

// SwapDirectionFromAToB maps the on-chain a_to_b flag.
func SwapDirectionFromAToB(aToB bool) SwapDirection {
	if aToB {
		return SwapDirectionAToB
	}
	return SwapDirectionBToA
}

// AmountKind says which side of the trade the requested amount fixes.
type AmountKind uint8

const (
	// AmountKindSwapInput fixes the amount sold.
	AmountKindSwapInput AmountKind = iota
	// AmountKindSwapOutput fixes the amount bought.
	AmountKindSwapOutput
)

// IsSwapInput reports whether the amount is the input side.
func (k AmountKind) IsSwapInput() bool { return k == AmountKindSwapInput }

func (k AmountKind) String() string {
	if k.IsSwapInput() {
		return "ExactIn"
	}
	return "ExactOut"
}
