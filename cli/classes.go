package cli

// NumberOfClasses は n が 0 でなければ n を、0 ならラベル中の異なる値の数を返します。
func NumberOfClasses(n int, labels []int) int {
	if n != 0 {
		return n
	}
	seen := make(map[int]struct{}, len(labels))
	for _, label := range labels {
		seen[label] = struct{}{}
	}
	return len(seen)
}
