package ps

import "fmt"

// ValidSignature reports whether sig can be used as a booklet signature:
// 0 (one signature for the whole document), 1 (no folding) or a positive
// multiple of 4.
func ValidSignature(sig int) bool {
	return sig == 0 || sig == 1 || (sig > 0 && sig%4 == 0)
}

func checkSignature(sig int) error {
	if !ValidSignature(sig) {
		return fmt.Errorf("%d: %w", sig, ErrSignature)
	}
	return nil
}

// MaxPage returns the number of slots needed to impose pages source pages
// with the given modulo and signature, and the signature to use for the
// slot to sheet mapping. With a signature of 0, the whole document is one
// signature rounded up to a multiple of 4.
func MaxPage(pages, modulo, signature int) (int, int) {
	if modulo < 1 {
		modulo = 1
	}
	if signature == 0 {
		maxpage := roundUp(pages, lcm(4, modulo))
		return maxpage, maxpage
	}
	return roundUp(pages, lcm(signature, modulo)), signature
}

// SheetIndex maps a slot to the position of the page in the folded
// signature: the first and last slots of a signature land on the
// outermost sheet.
func SheetIndex(slot, signature int) int {
	if signature <= 1 {
		return slot
	}
	var (
		offset = slot % signature
		sheet  = slot - offset
	)
	switch slot % 4 {
	case 0, 3:
		sheet += signature - 1 - offset/2
	default:
		sheet += offset / 2
	}
	return sheet
}

// SlotIndex returns the slot filled by spec in the group of pages starting
// at pagebase. Reversed specs count from the end of the document.
func SlotIndex(spec PageSpec, pagebase, maxpage, modulo int) int {
	if spec.Reversed() {
		return maxpage - pagebase - modulo + spec.Slot
	}
	return pagebase + spec.Slot
}

func roundUp(n, m int) int {
	if m <= 0 {
		return n
	}
	return n + (m-n%m)%m
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return a / gcd(a, b) * b
}
